package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	mw "github.com/pagesmith/pagesmith/internal/api/middleware"
	"github.com/pagesmith/pagesmith/internal/staging"
	"github.com/pagesmith/pagesmith/pkg/models"
	"github.com/xuri/excelize/v2"
)

// --- in-memory stager ---

type memStager struct {
	datasets map[string]*models.Dataset
}

func newMemStager() *memStager {
	return &memStager{datasets: make(map[string]*models.Dataset)}
}

func (m *memStager) Stage(_ context.Context, sessionID string, ds *models.Dataset) error {
	m.datasets[sessionID] = ds
	return nil
}

func (m *memStager) Take(_ context.Context, sessionID string) (*models.Dataset, error) {
	ds, ok := m.datasets[sessionID]
	if !ok {
		return nil, staging.ErrNotStaged
	}
	delete(m.datasets, sessionID)
	return ds, nil
}

func (m *memStager) Ping(_ context.Context) error { return nil }

// uploadRequest builds an authenticated multipart request carrying an xlsx file.
func uploadRequest(t *testing.T, sessionID string, rows [][]any) *http.Request {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	var workbook bytes.Buffer
	if err := f.Write(&workbook); err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("file", "upload.xlsx")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(workbook.Bytes()); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	form.Close()

	r := httptest.NewRequest(http.MethodPost, "/company/upload", &body)
	r.Header.Set("Content-Type", form.FormDataContentType())
	return r.WithContext(mw.SetSessionID(r.Context(), sessionID))
}

func TestUploadHandler_StagesAndEchoesRows(t *testing.T) {
	stager := newMemStager()
	rec := httptest.NewRecorder()

	NewUploadHandler(stager)(rec, uploadRequest(t, "session-1", [][]any{
		{"name", "qty"},
		{"a", 3},
	}))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var env struct {
		Data []map[string]string `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(env.Data) != 1 || env.Data[0]["name"] != "a" || env.Data[0]["qty"] != "3" {
		t.Errorf("unexpected echoed rows: %v", env.Data)
	}

	staged, ok := stager.datasets["session-1"]
	if !ok {
		t.Fatal("dataset was not staged")
	}
	if len(staged.Rows) != 1 {
		t.Errorf("staged rows: expected 1, got %d", len(staged.Rows))
	}
}

func TestUploadHandler_NoSession(t *testing.T) {
	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/company/upload", nil)

	NewUploadHandler(newMemStager())(rec, r)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestUploadHandler_UnreadableWorkbook(t *testing.T) {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, _ := form.CreateFormFile("file", "upload.xlsx")
	part.Write([]byte("not a workbook"))
	form.Close()

	r := httptest.NewRequest(http.MethodPost, "/company/upload", &body)
	r.Header.Set("Content-Type", form.FormDataContentType())
	r = r.WithContext(mw.SetSessionID(r.Context(), "session-1"))

	rec := httptest.NewRecorder()
	NewUploadHandler(newMemStager())(rec, r)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	if code := errorCode(t, rec); code != "UNREADABLE_WORKBOOK" {
		t.Errorf("code: expected UNREADABLE_WORKBOOK, got %q", code)
	}
}

func TestCreateTemplateHandler_NothingStaged(t *testing.T) {
	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/company/create-template", nil)
	r = r.WithContext(mw.SetSessionID(r.Context(), "session-1"))

	NewCreateTemplateHandler(newMemStager())(rec, r)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	if code := errorCode(t, rec); code != "NO_DATA" {
		t.Errorf("code: expected NO_DATA, got %q", code)
	}
}

func TestCreateTemplateHandler_SynthesizesStagedDataset(t *testing.T) {
	stager := newMemStager()
	stager.datasets["session-1"] = &models.Dataset{
		Columns: []string{"name", "qty"},
		Rows: []map[string]string{
			{"name": "a", "qty": "3"},
			{"name": "b", "qty": "5"},
		},
	}

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/company/create-template", nil)
	r = r.WithContext(mw.SetSessionID(r.Context(), "session-1"))

	NewCreateTemplateHandler(stager)(rec, r)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var env struct {
		Data struct {
			Message  string                   `json:"message"`
			Template models.GeneratedTemplate `json:"template"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Data.Message != "Template created" {
		t.Errorf("message: got %q", env.Data.Message)
	}
	if env.Data.Template.NumericColumn != "qty" || env.Data.Template.Sum != 8 {
		t.Errorf("template: got %+v", env.Data.Template)
	}

	// The dataset is consumed; a second call finds nothing.
	rec = httptest.NewRecorder()
	NewCreateTemplateHandler(stager)(rec, r.Clone(r.Context()))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("second call: expected 400, got %d", rec.Code)
	}
}
