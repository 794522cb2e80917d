package ingest

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/pagesmith/pagesmith/pkg/models"
)

// ErrEmptyDataset is returned when synthesis is attempted over a dataset
// with no rows.
var ErrEmptyDataset = errors.New("dataset has no rows")

// Synthesize produces a summary template from a dataset. The numeric column
// is the first column, in header order, whose value in the first row parses
// as a number; first match wins. The sum treats a value missing from any row
// as zero and is 0 when no numeric column exists.
func Synthesize(ds *models.Dataset) (*models.GeneratedTemplate, error) {
	if ds == nil || len(ds.Rows) == 0 {
		return nil, ErrEmptyDataset
	}

	var numericColumn string
	for _, col := range ds.Columns {
		if _, err := strconv.ParseFloat(ds.Rows[0][col], 64); err == nil {
			numericColumn = col
			break
		}
	}

	var sum float64
	if numericColumn != "" {
		for _, row := range ds.Rows {
			v, err := strconv.ParseFloat(row[numericColumn], 64)
			if err != nil {
				continue
			}
			sum += v
		}
	}

	return &models.GeneratedTemplate{
		Summary:       fmt.Sprintf("Template created with %d entries", len(ds.Rows)),
		Columns:       ds.Columns,
		NumericColumn: numericColumn,
		Sum:           sum,
	}, nil
}
