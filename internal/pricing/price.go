package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultMarkup is the multiplier applied to a supplier unit price to derive
// the customer-facing price when no override is configured.
var DefaultMarkup = decimal.NewFromFloat(1.15)

// ParseMarkup reads a markup multiplier from its string form, falling back
// to DefaultMarkup when the value is empty or malformed.
func ParseMarkup(s string) decimal.Decimal {
	m, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || m.Sign() <= 0 {
		return DefaultMarkup
	}
	return m
}

// CustomerPrice derives the customer price from a supplier unit price:
// unit * markup, rounded to one decimal. A unit price that does not parse
// as a number yields an empty string, never a zero.
func CustomerPrice(unitPrice string, markup decimal.Decimal) string {
	unit, err := decimal.NewFromString(strings.TrimSpace(unitPrice))
	if err != nil {
		return ""
	}
	return unit.Mul(markup).Round(1).String()
}
