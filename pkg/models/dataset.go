package models

// Dataset is a parsed spreadsheet upload. Columns preserves header order;
// each row maps column name to the cell's raw string value. A cell missing
// from a row was empty in the sheet.
type Dataset struct {
	Columns []string            `json:"columns"`
	Rows    []map[string]string `json:"rows"`
}

// GeneratedTemplate is the summary synthesized from a staged dataset.
// NumericColumn is empty when no numeric column was found, in which case
// Sum is 0.
type GeneratedTemplate struct {
	Summary       string   `json:"summary"`
	Columns       []string `json:"columns"`
	NumericColumn string   `json:"numerical_column"`
	Sum           float64  `json:"sum"`
}
