package lovbuy

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeResponse(t *testing.T, raw string) *ProductResponse {
	t.Helper()
	var resp ProductResponse
	require.NoError(t, json.Unmarshal([]byte(raw), &resp))
	return &resp
}

func TestTransformFullDocument(t *testing.T) {
	resp := decodeResponse(t, `{
		"result": {
			"success": true,
			"result": {
				"productInfo": {
					"subject": "Canvas tote bag",
					"image": {"images": ["https://img.example.com/main.jpg", "https://img.example.com/alt.jpg"]},
					"attributes": [
						{"attributeName": "Brand", "attributeValue": "Acme"},
						{"attributeName": "材质", "value": "Cotton"}
					]
				},
				"productSaleInfo": {
					"priceRangeList": [
						{"startQuantity": 100, "price": "5.00"},
						{"startQuantity": "500", "price": 4},
						{"startQuantity": "bulk", "price": "3.00"}
					],
					"minOrderQuantity": "100"
				},
				"productSkuInfos": [
					{
						"skuId": 5011,
						"consignPrice": "6.20",
						"skuAttributes": [
							{"attributeName": "Color", "attributeValue": "Red", "skuImageUrl": "https://img.example.com/red.jpg"},
							{"attributeName": "Size", "value": "XL"}
						]
					}
				]
			}
		}
	}`)

	product := NewTransformer(testLogger()).Transform(resp, "625742832015", "https://detail.1688.com/offer/625742832015.html")

	assert.Equal(t, "625742832015", product.OfferID)
	assert.Equal(t, "Canvas tote bag", product.Title)
	assert.Equal(t, "https://img.example.com/main.jpg", product.ImageURL)
	assert.Equal(t, "Cotton", product.Material)
	assert.Equal(t, 100, product.DefaultMoq)

	// The tier with a non-numeric start quantity is dropped; string and
	// numeric encodings of the others both survive.
	require.Len(t, product.Tiers, 2)
	assert.Equal(t, 100, product.Tiers[0].StartQuantity)
	assert.Equal(t, "5.00", product.Tiers[0].UnitPrice)
	assert.Equal(t, 500, product.Tiers[1].StartQuantity)
	assert.Equal(t, "4", product.Tiers[1].UnitPrice)

	require.Len(t, product.Skus, 1)
	sku := product.Skus[0]
	assert.Equal(t, "5011", sku.ID)
	assert.Equal(t, "6.20", sku.DirectPrice)
	assert.Equal(t, "https://img.example.com/red.jpg", sku.ImageURL)
	require.Len(t, sku.Attributes, 2)
	assert.Equal(t, "Color", sku.Attributes[0].Name)
	assert.Equal(t, "Red", sku.Attributes[0].Value)
	assert.Equal(t, "XL", sku.Attributes[1].Value)
}

func TestTransformLegacyTierLocation(t *testing.T) {
	resp := decodeResponse(t, `{
		"result": {
			"success": true,
			"result": {
				"productInfo": {
					"name": "Legacy widget",
					"priceRangeList": [{"startQuantity": 50, "price": "2.50"}],
					"minOrderQuantity": 50
				}
			}
		}
	}`)

	product := NewTransformer(testLogger()).Transform(resp, "1", "https://detail.1688.com/offer/1.html")

	assert.Equal(t, "Legacy widget", product.Title)
	require.Len(t, product.Tiers, 1)
	assert.Equal(t, 50, product.Tiers[0].StartQuantity)
	assert.Equal(t, 50, product.DefaultMoq)
}

func TestTransformSaleInfoTiersWinOverLegacy(t *testing.T) {
	resp := decodeResponse(t, `{
		"result": {
			"success": true,
			"result": {
				"productInfo": {
					"priceRangeList": [{"startQuantity": 1, "price": "9.99"}]
				},
				"productSaleInfo": {
					"priceRangeList": [{"startQuantity": 100, "price": "5.00"}]
				}
			}
		}
	}`)

	product := NewTransformer(testLogger()).Transform(resp, "1", "")

	require.Len(t, product.Tiers, 1)
	assert.Equal(t, 100, product.Tiers[0].StartQuantity)
}

func TestTransformEmptyDocument(t *testing.T) {
	resp := decodeResponse(t, `{"result": {"success": true, "result": {}}}`)

	product := NewTransformer(testLogger()).Transform(resp, "1", "https://detail.1688.com/offer/1.html")

	assert.Equal(t, "1", product.OfferID)
	assert.Empty(t, product.Title)
	assert.Empty(t, product.Tiers)
	assert.Empty(t, product.Skus)
	assert.Zero(t, product.DefaultMoq)
}

func TestTransformSkuFallbackFields(t *testing.T) {
	resp := decodeResponse(t, `{
		"result": {
			"success": true,
			"result": {
				"productSkuInfos": [
					{"specId": "spec-7", "price": "3.10"}
				]
			}
		}
	}`)

	product := NewTransformer(testLogger()).Transform(resp, "1", "")

	require.Len(t, product.Skus, 1)
	assert.Equal(t, "spec-7", product.Skus[0].ID)
	assert.Equal(t, "3.10", product.Skus[0].DirectPrice)
}

func TestFlexStringDecoding(t *testing.T) {
	var doc struct {
		A FlexString `json:"a"`
		B FlexString `json:"b"`
		C FlexString `json:"c"`
		D FlexString `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": "text", "b": 42, "c": null, "d": 4.5}`), &doc))

	assert.Equal(t, "text", doc.A.String())
	assert.Equal(t, "42", doc.B.String())
	assert.Equal(t, "", doc.C.String())
	assert.Equal(t, "4.5", doc.D.String())

	n, ok := doc.B.Int()
	assert.True(t, ok)
	assert.Equal(t, 42, n)

	_, ok = doc.A.Int()
	assert.False(t, ok)
}
