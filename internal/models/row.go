package models

// OutputRow is one line of the published table. Numeric-looking fields are
// strings on purpose: the source data is permissive and an unparseable value
// becomes an empty cell, never a zero. Profit is not stored - the publisher
// renders it as a spreadsheet formula so it recalculates after manual edits.
type OutputRow struct {
	Identifier    string `json:"identifier"`
	ImageRef      string `json:"image_ref"`
	OrderQuantity string `json:"order_quantity"`
	UnitPrice     string `json:"unit_price"`
	CustomerPrice string `json:"customer_price"`
	InfoText      string `json:"info_text"`
	MaterialText  string `json:"material_text"`
	SourceLink    string `json:"source_link"`
}

// RowGroup is a maximal run of adjacent output rows sharing the same order
// quantity. It exists only to drive presentational cell merging and is
// derived fresh from the row sequence on every run.
type RowGroup struct {
	StartIndex    int    `json:"start_index"`
	Count         int    `json:"count"`
	OrderQuantity string `json:"order_quantity"`
}
