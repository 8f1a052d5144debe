package lovbuy

import (
	"encoding/json"
	"strconv"
	"strings"
)

// FlexString tolerates the API's habit of sending the same field as either a
// JSON string or a bare number, depending on endpoint version. Nulls decode
// to the empty string.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	*f = FlexString(b)
	return nil
}

func (f FlexString) String() string {
	return string(f)
}

// Int parses the value as an integer, reporting whether it parsed.
func (f FlexString) Int() (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(string(f)))
	if err != nil {
		return 0, false
	}
	return n, true
}

// ProductResponse is the envelope returned by the 1688 product-info
// endpoint. The payload is double-wrapped: result.result holds the product.
type ProductResponse struct {
	Result struct {
		Success FlexString    `json:"success"`
		Message FlexString    `json:"message"`
		Result  ProductResult `json:"result"`
	} `json:"result"`
}

type ProductResult struct {
	ProductInfo     *ProductInfo `json:"productInfo"`
	ProductSaleInfo *SaleInfo    `json:"productSaleInfo"`
	ProductSkuInfos []SkuInfo    `json:"productSkuInfos"`
}

type ProductInfo struct {
	Subject          FlexString    `json:"subject"`
	Name             FlexString    `json:"name"`
	Description      FlexString    `json:"description"`
	Image            ImageInfo     `json:"image"`
	Attributes       []ProductAttr `json:"attributes"`
	PriceRangeList   []PriceRange  `json:"priceRangeList"`
	MinOrderQuantity FlexString    `json:"minOrderQuantity"`
}

type ImageInfo struct {
	Images []string `json:"images"`
}

type ProductAttr struct {
	AttributeName  FlexString `json:"attributeName"`
	AttributeValue FlexString `json:"attributeValue"`
	Value          FlexString `json:"value"`
}

type SaleInfo struct {
	PriceRangeList   []PriceRange `json:"priceRangeList"`
	Price            FlexString   `json:"price"`
	ConsignPrice     FlexString   `json:"consignPrice"`
	MinOrderQuantity FlexString   `json:"minOrderQuantity"`
	AmountOnSale     FlexString   `json:"amountOnSale"`
}

// PriceRange is one quantity/price pair of the tiered price list.
type PriceRange struct {
	StartQuantity FlexString `json:"startQuantity"`
	Price         FlexString `json:"price"`
}

type SkuInfo struct {
	SkuID            FlexString `json:"skuId"`
	SpecID           FlexString `json:"specId"`
	Price            FlexString `json:"price"`
	ConsignPrice     FlexString `json:"consignPrice"`
	MinOrderQuantity FlexString `json:"minOrderQuantity"`
	AmountOnSale     FlexString `json:"amountOnSale"`
	SkuAttributes    []SkuAttr  `json:"skuAttributes"`
}

type SkuAttr struct {
	AttributeName  FlexString `json:"attributeName"`
	AttributeValue FlexString `json:"attributeValue"`
	Value          FlexString `json:"value"`
	SkuImageUrl    FlexString `json:"skuImageUrl"`
}
