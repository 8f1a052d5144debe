package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sourcer/internal/models"
)

var markup = decimal.NewFromFloat(1.15)

func testFallback() Fallback {
	return Fallback{
		ImageURL:   "https://img.example.com/main.jpg",
		Info:       "Canvas tote bag",
		Material:   "Cotton",
		DefaultMoq: 2,
		SourceURL:  "https://detail.1688.com/offer/1234.html",
	}
}

func newSeq() *Sequencer {
	return NewSequencer(nil, jan1, "bag")
}

func TestBuildRowsNoSkusFansOutTiers(t *testing.T) {
	rows := BuildRows(nil, sampleTiers(), testFallback(), newSeq(), markup)

	require.Len(t, rows, 3)
	for _, row := range rows {
		assert.Equal(t, "20240101_bag_001", row.Identifier)
		assert.Equal(t, "https://img.example.com/main.jpg", row.ImageRef)
		assert.Equal(t, "Canvas tote bag", row.InfoText)
		assert.Equal(t, "Cotton", row.MaterialText)
	}
	assert.Equal(t, "100", rows[0].OrderQuantity)
	assert.Equal(t, "5.00", rows[0].UnitPrice)
	assert.Equal(t, "1000", rows[2].OrderQuantity)
}

func TestBuildRowsNoSkusNoTiersEmitsSentinel(t *testing.T) {
	// A fetched product never produces zero rows.
	rows := BuildRows(nil, nil, testFallback(), newSeq(), markup)

	require.Len(t, rows, 1)
	assert.Equal(t, "", rows[0].OrderQuantity)
	assert.Equal(t, "", rows[0].UnitPrice)
	assert.Equal(t, "", rows[0].CustomerPrice)
	assert.Equal(t, "20240101_bag_001", rows[0].Identifier)
	assert.Equal(t, "Canvas tote bag", rows[0].InfoText)
}

func TestBuildRowsDirectPriceSkipsFanOut(t *testing.T) {
	skus := []models.Sku{{
		ID:          "sku-1",
		DirectPrice: "12",
		Attributes:  []models.SkuAttribute{{Name: "Color", Value: "Red"}},
	}}

	rows := BuildRows(skus, sampleTiers(), testFallback(), newSeq(), markup)

	require.Len(t, rows, 1)
	assert.Equal(t, "12", rows[0].UnitPrice)
	assert.Equal(t, "13.8", rows[0].CustomerPrice)
	assert.Equal(t, "2", rows[0].OrderQuantity)
	assert.Equal(t, "Color: Red", rows[0].InfoText)
}

func TestBuildRowsSkuWithoutDirectPriceFansOut(t *testing.T) {
	skus := []models.Sku{{
		ID:       "sku-1",
		ImageURL: "https://img.example.com/red.jpg",
		Attributes: []models.SkuAttribute{
			{Name: "Color", Value: "Red"},
			{Name: "Size", Value: "XL"},
		},
	}}

	rows := BuildRows(skus, sampleTiers(), testFallback(), newSeq(), markup)

	require.Len(t, rows, 3)
	for _, row := range rows {
		assert.Equal(t, "https://img.example.com/red.jpg", row.ImageRef)
		assert.Equal(t, "Color: Red; Size: XL", row.InfoText)
		assert.Equal(t, "20240101_bag_001", row.Identifier)
	}
	assert.Equal(t, "5.75", rows[0].CustomerPrice)
}

func TestBuildRowsMixedSkusGetDistinctIdentifiers(t *testing.T) {
	skus := []models.Sku{
		{ID: "sku-1", DirectPrice: "12"},
		{ID: "sku-2"},
	}

	rows := BuildRows(skus, sampleTiers(), testFallback(), newSeq(), markup)

	require.Len(t, rows, 4)
	assert.Equal(t, "20240101_bag_001", rows[0].Identifier)
	for _, row := range rows[1:] {
		assert.Equal(t, "20240101_bag_002", row.Identifier)
	}
}

func TestBuildRowsSkusWithoutPricingEmitSentinel(t *testing.T) {
	skus := []models.Sku{{ID: "sku-1"}, {ID: "sku-2"}}

	rows := BuildRows(skus, nil, testFallback(), newSeq(), markup)

	require.Len(t, rows, 1)
	assert.Equal(t, "", rows[0].UnitPrice)
	assert.Equal(t, "", rows[0].OrderQuantity)
}

func TestBuildRowsSkuFallsBackToProductImageAndInfo(t *testing.T) {
	skus := []models.Sku{{ID: "sku-1"}}

	rows := BuildRows(skus, sampleTiers()[:1], testFallback(), newSeq(), markup)

	require.Len(t, rows, 1)
	assert.Equal(t, "https://img.example.com/main.jpg", rows[0].ImageRef)
	assert.Equal(t, "Canvas tote bag", rows[0].InfoText)
}

func TestBuildRowsDirectPriceWithUnknownMoqLeavesQuantityEmpty(t *testing.T) {
	fb := testFallback()
	fb.DefaultMoq = 0
	skus := []models.Sku{{ID: "sku-1", DirectPrice: "8.5"}}

	rows := BuildRows(skus, nil, fb, newSeq(), markup)

	require.Len(t, rows, 1)
	assert.Equal(t, "", rows[0].OrderQuantity)
	assert.Equal(t, "8.5", rows[0].UnitPrice)
}

func TestAttributeTextSkipsEmptyPairs(t *testing.T) {
	text := attributeText([]models.SkuAttribute{
		{Name: "Color", Value: "Red"},
		{Name: "", Value: "110cm"},
		{Name: "Empty", Value: ""},
	})

	assert.Equal(t, "Color: Red; 110cm", text)
}
