package lovbuy

import (
	"strings"

	"sourcer/internal/logger"
	"sourcer/internal/models"
)

type Transformer struct {
	logger *logger.Logger
}

func NewTransformer(logger *logger.Logger) *Transformer {
	return &Transformer{logger: logger}
}

// Transform converts a raw product document to the canonical model. The
// source schema has drifted across API versions, so every field is looked up
// in its current location first and then in the historical fallbacks; a
// missing field degrades to a zero value and never fails the transform.
func (t *Transformer) Transform(resp *ProductResponse, offerID, sourceURL string) *models.Product {
	result := resp.Result.Result

	product := &models.Product{
		OfferID:   offerID,
		SourceURL: sourceURL,
	}

	if info := result.ProductInfo; info != nil {
		product.Title = info.Subject.String()
		if product.Title == "" {
			product.Title = info.Name.String()
		}
		if len(info.Image.Images) > 0 {
			product.ImageURL = info.Image.Images[0]
		}
		product.Material = materialAttribute(info.Attributes)
	}

	product.Tiers = t.parseTiers(tierSource(result))

	if sale := result.ProductSaleInfo; sale != nil {
		if moq, ok := sale.MinOrderQuantity.Int(); ok {
			product.DefaultMoq = moq
		}
		product.DirectPrice = sale.Price.String()
		if product.DirectPrice == "" {
			product.DirectPrice = sale.ConsignPrice.String()
		}
	}
	if product.DefaultMoq == 0 && result.ProductInfo != nil {
		if moq, ok := result.ProductInfo.MinOrderQuantity.Int(); ok {
			product.DefaultMoq = moq
		}
	}

	for _, sku := range result.ProductSkuInfos {
		product.Skus = append(product.Skus, t.transformSku(sku))
	}

	return product
}

// tierSource picks the price-range list out of its current home under
// productSaleInfo, falling back to the pre-v2 location under productInfo.
func tierSource(result ProductResult) []PriceRange {
	if result.ProductSaleInfo != nil && len(result.ProductSaleInfo.PriceRangeList) > 0 {
		return result.ProductSaleInfo.PriceRangeList
	}
	if result.ProductInfo != nil {
		return result.ProductInfo.PriceRangeList
	}
	return nil
}

// parseTiers keeps tiers whose start quantity parses as a non-negative
// integer and drops the rest.
func (t *Transformer) parseTiers(ranges []PriceRange) []models.PriceTier {
	tiers := make([]models.PriceTier, 0, len(ranges))
	for _, r := range ranges {
		qty, ok := r.StartQuantity.Int()
		if !ok || qty < 0 {
			t.logger.Debug("Dropping tier with unparseable start quantity: %q", r.StartQuantity)
			continue
		}
		tiers = append(tiers, models.PriceTier{
			StartQuantity: qty,
			UnitPrice:     r.Price.String(),
		})
	}
	return tiers
}

func (t *Transformer) transformSku(sku SkuInfo) models.Sku {
	id := sku.SkuID.String()
	if id == "" {
		id = sku.SpecID.String()
	}

	price := sku.Price.String()
	if price == "" {
		price = sku.ConsignPrice.String()
	}

	out := models.Sku{
		ID:          id,
		DirectPrice: price,
		MinOrderQty: sku.MinOrderQuantity.String(),
	}

	for _, attr := range sku.SkuAttributes {
		if out.ImageURL == "" && attr.SkuImageUrl.String() != "" {
			out.ImageURL = strings.TrimSpace(attr.SkuImageUrl.String())
		}
		value := attr.AttributeValue.String()
		if value == "" {
			value = attr.Value.String()
		}
		if attr.AttributeName.String() == "" && value == "" {
			continue
		}
		out.Attributes = append(out.Attributes, models.SkuAttribute{
			Name:  attr.AttributeName.String(),
			Value: value,
		})
	}

	return out
}

// materialAttribute scans product attributes for a material declaration,
// matching both the translated and the untranslated attribute names.
func materialAttribute(attrs []ProductAttr) string {
	for _, attr := range attrs {
		name := strings.ToLower(attr.AttributeName.String())
		if strings.Contains(name, "material") || strings.Contains(attr.AttributeName.String(), "材质") || strings.Contains(attr.AttributeName.String(), "材料") {
			value := attr.AttributeValue.String()
			if value == "" {
				value = attr.Value.String()
			}
			if value != "" {
				return value
			}
		}
	}
	return ""
}
