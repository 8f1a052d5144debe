package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sourcer/internal/models"
)

func intPtr(n int) *int {
	return &n
}

func sampleTiers() []models.PriceTier {
	return []models.PriceTier{
		{StartQuantity: 100, UnitPrice: "5.00"},
		{StartQuantity: 500, UnitPrice: "4.00"},
		{StartQuantity: 1000, UnitPrice: "3.00"},
	}
}

func TestFilterTiersSortsUnsortedInput(t *testing.T) {
	tiers := []models.PriceTier{
		{StartQuantity: 1000, UnitPrice: "3.00"},
		{StartQuantity: 100, UnitPrice: "5.00"},
		{StartQuantity: 500, UnitPrice: "4.00"},
	}

	got := FilterTiers(tiers, nil, nil)

	assert.Equal(t, sampleTiers(), got)
}

func TestFilterTiersLowMinimumKeepsAllTiers(t *testing.T) {
	// A minimum below the cheapest tier clears every band, so nothing is
	// dropped.
	got := FilterTiers(sampleTiers(), intPtr(50), nil)

	assert.Equal(t, sampleTiers(), got)
}

func TestFilterTiersMinimumInsideBand(t *testing.T) {
	got := FilterTiers(sampleTiers(), intPtr(600), nil)

	assert.Equal(t, []models.PriceTier{
		{StartQuantity: 500, UnitPrice: "4.00"},
		{StartQuantity: 1000, UnitPrice: "3.00"},
	}, got)
}

func TestFilterTiersMaximumBound(t *testing.T) {
	got := FilterTiers(sampleTiers(), nil, intPtr(900))

	assert.Equal(t, []models.PriceTier{
		{StartQuantity: 100, UnitPrice: "5.00"},
		{StartQuantity: 500, UnitPrice: "4.00"},
	}, got)
}

func TestFilterTiersWindowCanEmpty(t *testing.T) {
	got := FilterTiers(sampleTiers(), nil, intPtr(50))

	assert.Empty(t, got)
}

func TestFilterTiersMinimumExactlyOnBoundary(t *testing.T) {
	got := FilterTiers(sampleTiers(), intPtr(500), nil)

	assert.Equal(t, []models.PriceTier{
		{StartQuantity: 500, UnitPrice: "4.00"},
		{StartQuantity: 1000, UnitPrice: "3.00"},
	}, got)
}

func TestFilterTiersEmptyInput(t *testing.T) {
	assert.Empty(t, FilterTiers(nil, intPtr(100), intPtr(500)))
}

func TestFilterTiersDoesNotMutateInput(t *testing.T) {
	tiers := []models.PriceTier{
		{StartQuantity: 1000, UnitPrice: "3.00"},
		{StartQuantity: 100, UnitPrice: "5.00"},
	}

	FilterTiers(tiers, intPtr(600), nil)

	assert.Equal(t, 1000, tiers[0].StartQuantity)
	assert.Equal(t, 100, tiers[1].StartQuantity)
}
