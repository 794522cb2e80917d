package ingest

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/pagesmith/pagesmith/pkg/models"
	"github.com/xuri/excelize/v2"
)

// ErrUnreadableWorkbook is returned when the upload cannot be decoded as a
// spreadsheet workbook.
var ErrUnreadableWorkbook = errors.New("unreadable workbook")

// Parse decodes an uploaded workbook into a Dataset. The first sheet is
// selected by position, and the first row is the header; data rows are kept
// in sheet order. An empty sheet yields a dataset with zero rows.
func Parse(payload []byte) (*models.Dataset, error) {
	f, err := excelize.OpenReader(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableWorkbook, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return &models.Dataset{Rows: []map[string]string{}}, nil
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableWorkbook, err)
	}
	if len(rows) == 0 {
		return &models.Dataset{Rows: []map[string]string{}}, nil
	}

	var columns []string
	for _, name := range rows[0] {
		if name != "" {
			columns = append(columns, name)
		}
	}

	ds := &models.Dataset{Columns: columns, Rows: []map[string]string{}}
	for _, cells := range rows[1:] {
		record := make(map[string]string, len(columns))
		for i, name := range rows[0] {
			if name == "" || i >= len(cells) || cells[i] == "" {
				continue
			}
			record[name] = cells[i]
		}
		if len(record) == 0 {
			continue // fully blank row
		}
		ds.Rows = append(ds.Rows, record)
	}
	return ds, nil
}
