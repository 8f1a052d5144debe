package models

// PriceTier is one quantity band of a product's tiered pricing: ordering at
// least StartQuantity units buys each unit at UnitPrice. Tiers with a
// quantity that cannot be parsed are dropped during transformation, so a
// tier held here always has a valid StartQuantity.
type PriceTier struct {
	StartQuantity int    `json:"start_quantity"`
	UnitPrice     string `json:"unit_price"`
}

// SkuAttribute is a single (name, value) pair describing a variant, e.g.
// ("Color", "Navy"). Order is preserved from the source document.
type SkuAttribute struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Sku is one purchasable variant of a product. DirectPrice, when non-empty,
// overrides tier pricing for this variant.
type Sku struct {
	ID          string         `json:"id"`
	Attributes  []SkuAttribute `json:"attributes"`
	ImageURL    string         `json:"image_url"`
	DirectPrice string         `json:"direct_price"`
	MinOrderQty string         `json:"min_order_qty"`
}

// Product is the canonical form a source document is transformed into.
// Every field degrades to its zero value when the source omits it.
type Product struct {
	OfferID     string      `json:"offer_id"`
	Title       string      `json:"title"`
	Material    string      `json:"material"`
	ImageURL    string      `json:"image_url"`
	Tiers       []PriceTier `json:"tiers"`
	Skus        []Sku       `json:"skus"`
	DefaultMoq  int         `json:"default_moq"`
	DirectPrice string      `json:"direct_price"`
	SourceURL   string      `json:"source_url"`
}
