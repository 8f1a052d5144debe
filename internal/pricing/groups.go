package pricing

import "sourcer/internal/models"

// GroupRows partitions rows into maximal runs of adjacent rows sharing the
// same order quantity. The publisher merges presentational cells within each
// run. Pure, single pass.
func GroupRows(rows []models.OutputRow) []models.RowGroup {
	var groups []models.RowGroup
	for i, row := range rows {
		if i == 0 || row.OrderQuantity != rows[i-1].OrderQuantity {
			groups = append(groups, models.RowGroup{
				StartIndex:    i,
				Count:         1,
				OrderQuantity: row.OrderQuantity,
			})
			continue
		}
		groups[len(groups)-1].Count++
	}
	return groups
}
