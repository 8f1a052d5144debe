package pricing

import (
	"strconv"
	"strings"

	"sourcer/internal/models"
)

// smallMoqThreshold marks the point below which a row's order quantity is
// treated as a SKU-attribute artifact rather than a true ordering minimum.
// Such rows pass the minimum filter instead of being excluded.
// TODO: confirm with purchasing that sub-100 quantities should keep
// bypassing the minimum filter.
const smallMoqThreshold = 100

// FilterRows applies the order-quantity window to assembled rows. A row's
// effective quantity is its own order quantity when parseable, else the
// product default. Rows are dropped, not zeroed; an empty result means "no
// data after filtering" and must be surfaced as such by the caller.
func FilterRows(rows []models.OutputRow, minQty, maxQty *int, defaultMoq int) []models.OutputRow {
	out := make([]models.OutputRow, 0, len(rows))
	for _, row := range rows {
		eff := defaultMoq
		if n, err := strconv.Atoi(strings.TrimSpace(row.OrderQuantity)); err == nil {
			eff = n
		}
		if minQty != nil && eff < *minQty && eff >= smallMoqThreshold {
			continue
		}
		if maxQty != nil && eff > *maxQty {
			continue
		}
		out = append(out, row)
	}
	return out
}
