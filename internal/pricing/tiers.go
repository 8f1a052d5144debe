// Package pricing turns a product's SKUs and quantity-based price tiers into
// the flat row sequence published to the sourcing sheet. Everything in this
// package is pure: no I/O, no shared state, safe to call concurrently for
// different products.
package pricing

import (
	"sort"

	"sourcer/internal/models"
)

// FilterTiers narrows tiers to those compatible with an order-quantity
// window. Input order is not trusted; the result is always sorted ascending
// by start quantity.
//
// When minQty is set, the tier whose band contains minQty becomes the active
// tier and every earlier tier is dropped. A minimum below the cheapest tier
// keeps all tiers: such a buyer clears every band, so every price stays
// relevant for comparison.
func FilterTiers(tiers []models.PriceTier, minQty, maxQty *int) []models.PriceTier {
	out := make([]models.PriceTier, len(tiers))
	copy(out, tiers)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartQuantity < out[j].StartQuantity
	})

	if minQty != nil && len(out) > 0 {
		active := out[0].StartQuantity
		for _, t := range out {
			if t.StartQuantity <= *minQty {
				active = t.StartQuantity
			}
		}
		kept := out[:0]
		for _, t := range out {
			if t.StartQuantity >= active {
				kept = append(kept, t)
			}
		}
		out = kept
	}

	if maxQty != nil {
		kept := out[:0]
		for _, t := range out {
			if t.StartQuantity <= *maxQty {
				kept = append(kept, t)
			}
		}
		out = kept
	}

	return out
}
