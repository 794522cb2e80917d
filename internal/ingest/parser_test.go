package ingest

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"
)

// buildWorkbook writes rows into the first sheet of a fresh workbook and
// returns the encoded bytes.
func buildWorkbook(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	writeRows(t, f, "Sheet1", rows)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

func writeRows(t *testing.T, f *excelize.File, sheet string, rows [][]any) {
	t.Helper()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
}

func TestParse_HeaderAndRows(t *testing.T) {
	payload := buildWorkbook(t, [][]any{
		{"name", "qty"},
		{"a", 3},
		{"b", 5},
	})

	ds, err := Parse(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(ds.Columns, []string{"name", "qty"}) {
		t.Errorf("columns: expected [name qty], got %v", ds.Columns)
	}
	want := []map[string]string{
		{"name": "a", "qty": "3"},
		{"name": "b", "qty": "5"},
	}
	if !reflect.DeepEqual(ds.Rows, want) {
		t.Errorf("rows:\nexpected: %v\ngot:      %v", want, ds.Rows)
	}
}

func TestParse_FirstSheetByPosition(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	writeRows(t, f, "Sheet1", [][]any{
		{"name"},
		{"from-first-sheet"},
	})
	if _, err := f.NewSheet("Other"); err != nil {
		t.Fatalf("new sheet: %v", err)
	}
	writeRows(t, f, "Other", [][]any{
		{"name"},
		{"from-second-sheet"},
	})

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	ds, err := Parse(buf.Bytes())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ds.Rows) != 1 || ds.Rows[0]["name"] != "from-first-sheet" {
		t.Errorf("expected data from the first sheet only, got %v", ds.Rows)
	}
}

func TestParse_HeaderOnly(t *testing.T) {
	payload := buildWorkbook(t, [][]any{
		{"name", "qty"},
	})

	ds, err := Parse(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ds.Rows) != 0 {
		t.Errorf("expected no rows, got %v", ds.Rows)
	}
}

func TestParse_MissingCells(t *testing.T) {
	payload := buildWorkbook(t, [][]any{
		{"name", "qty"},
		{"a"},
		{"b", 2},
	})

	ds, err := Parse(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []map[string]string{
		{"name": "a"},
		{"name": "b", "qty": "2"},
	}
	if !reflect.DeepEqual(ds.Rows, want) {
		t.Errorf("rows:\nexpected: %v\ngot:      %v", want, ds.Rows)
	}
}

func TestParse_UnreadablePayload(t *testing.T) {
	_, err := Parse([]byte("this is not a workbook"))
	if !errors.Is(err, ErrUnreadableWorkbook) {
		t.Fatalf("expected ErrUnreadableWorkbook, got %v", err)
	}
}
