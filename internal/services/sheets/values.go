package sheets

import (
	"fmt"
	"regexp"
	"strings"

	"sourcer/internal/models"
)

var rangeRowPattern = regexp.MustCompile(`\d+`)

// buildValues lays rows out as cell values. Columns that get merged per
// group carry their value only on the group's first row; MERGE_ALL keeps the
// top-left cell, so anything else would be discarded anyway.
func buildValues(rows []models.OutputRow, groups []models.RowGroup) [][]interface{} {
	groupStart := make(map[int]bool, len(groups))
	for _, g := range groups {
		groupStart[g.StartIndex] = true
	}

	values := make([][]interface{}, 0, len(rows))
	for i, row := range rows {
		first := groupStart[i] || len(groups) == 0

		cells := make([]interface{}, colCount)
		for c := range cells {
			cells[c] = ""
		}
		if first {
			cells[colID] = row.Identifier
			cells[colPhoto] = imageFormula(row.ImageRef)
			cells[colMoq] = row.OrderQuantity
			cells[colMaterial] = row.MaterialText
			cells[colLink] = row.SourceLink
		}
		cells[colUnitPrice] = row.UnitPrice
		cells[colCustPrice] = row.CustomerPrice
		cells[colInfo] = row.InfoText

		values = append(values, cells)
	}
	return values
}

// imageFormula renders an image cell that is also a hyperlink to the image.
func imageFormula(url string) string {
	if url == "" {
		return ""
	}
	return fmt.Sprintf(`=HYPERLINK("%s", IMAGE("%s"))`, url, url)
}

// parseRangeStartRow extracts the 1-indexed first row from an A1-notation
// updated range such as "Sheet1!A5:I12".
func parseRangeStartRow(updatedRange string) (int, error) {
	ref := updatedRange
	if idx := strings.LastIndexByte(ref, '!'); idx >= 0 {
		ref = ref[idx+1:]
	}
	startCell := ref
	if idx := strings.IndexByte(startCell, ':'); idx >= 0 {
		startCell = startCell[:idx]
	}
	m := rangeRowPattern.FindString(startCell)
	if m == "" {
		return 0, fmt.Errorf("could not parse row number from range %q", updatedRange)
	}
	var row int
	if _, err := fmt.Sscanf(m, "%d", &row); err != nil || row < 1 {
		return 0, fmt.Errorf("could not parse row number from range %q", updatedRange)
	}
	return row, nil
}

func headerMatches(values [][]interface{}, expected []string) bool {
	if len(values) == 0 || len(values[0]) != len(expected) {
		return false
	}
	for i, cell := range values[0] {
		s, ok := cell.(string)
		if !ok || s != expected[i] {
			return false
		}
	}
	return true
}
