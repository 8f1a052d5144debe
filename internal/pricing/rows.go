package pricing

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"sourcer/internal/models"
)

// Fallback carries product-level values used when a SKU does not supply its
// own image, info, or order quantity.
type Fallback struct {
	ImageURL   string
	Info       string
	Material   string
	DefaultMoq int
	SourceURL  string
}

type tierCell struct {
	qty   string
	price string
}

// BuildRows reconciles SKUs with the filtered price tiers into output rows.
//
// A SKU with a direct price produces exactly one row at the product's
// default MOQ; every other SKU fans out across the tiers. A product with no
// SKUs produces one row per tier from the product-level fallback. A product
// that was successfully fetched never produces zero rows: when nothing else
// applies, a single row with empty price and quantity keeps it visible.
func BuildRows(skus []models.Sku, tiers []models.PriceTier, fb Fallback, seq *Sequencer, markup decimal.Decimal) []models.OutputRow {
	cells := make([]tierCell, 0, len(tiers))
	for _, t := range tiers {
		cells = append(cells, tierCell{
			qty:   strconv.Itoa(t.StartQuantity),
			price: t.UnitPrice,
		})
	}

	if len(skus) == 0 {
		if len(cells) == 0 {
			cells = append(cells, tierCell{})
		}
		rows := make([]models.OutputRow, 0, len(cells))
		id := seq.Next()
		for _, c := range cells {
			rows = append(rows, productRow(id, c, fb, markup))
		}
		return rows
	}

	var rows []models.OutputRow
	for _, sku := range skus {
		if sku.DirectPrice != "" {
			// Direct price overrides tier pricing: one row, no fan-out.
			rows = append(rows, skuRow(seq.Next(), sku, tierCell{
				qty:   moqString(fb.DefaultMoq),
				price: sku.DirectPrice,
			}, fb, markup))
			continue
		}
		if len(cells) == 0 {
			continue
		}
		id := seq.Next()
		for _, c := range cells {
			rows = append(rows, skuRow(id, sku, c, fb, markup))
		}
	}

	// No SKU produced a row but tier pricing exists: fan every SKU across
	// every tier so none is silently dropped.
	if len(rows) == 0 && len(cells) > 0 {
		for _, sku := range skus {
			id := seq.Next()
			for _, c := range cells {
				rows = append(rows, skuRow(id, sku, c, fb, markup))
			}
		}
	}

	if len(rows) == 0 {
		rows = append(rows, productRow(seq.Next(), tierCell{}, fb, markup))
	}

	return rows
}

func productRow(id string, c tierCell, fb Fallback, markup decimal.Decimal) models.OutputRow {
	return models.OutputRow{
		Identifier:    id,
		ImageRef:      fb.ImageURL,
		OrderQuantity: c.qty,
		UnitPrice:     c.price,
		CustomerPrice: CustomerPrice(c.price, markup),
		InfoText:      fb.Info,
		MaterialText:  fb.Material,
		SourceLink:    fb.SourceURL,
	}
}

func skuRow(id string, sku models.Sku, c tierCell, fb Fallback, markup decimal.Decimal) models.OutputRow {
	image := sku.ImageURL
	if image == "" {
		image = fb.ImageURL
	}
	info := attributeText(sku.Attributes)
	if info == "" {
		info = fb.Info
	}
	return models.OutputRow{
		Identifier:    id,
		ImageRef:      image,
		OrderQuantity: c.qty,
		UnitPrice:     c.price,
		CustomerPrice: CustomerPrice(c.price, markup),
		InfoText:      info,
		MaterialText:  fb.Material,
		SourceLink:    fb.SourceURL,
	}
}

func attributeText(attrs []models.SkuAttribute) string {
	parts := make([]string, 0, len(attrs))
	for _, a := range attrs {
		switch {
		case a.Name != "" && a.Value != "":
			parts = append(parts, a.Name+": "+a.Value)
		case a.Value != "":
			parts = append(parts, a.Value)
		}
	}
	return strings.Join(parts, "; ")
}

func moqString(moq int) string {
	if moq <= 0 {
		return ""
	}
	return strconv.Itoa(moq)
}
