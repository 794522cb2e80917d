package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	mw "github.com/pagesmith/pagesmith/internal/api/middleware"
	"github.com/pagesmith/pagesmith/internal/api/response"
	"github.com/pagesmith/pagesmith/internal/ingest"
	"github.com/pagesmith/pagesmith/internal/staging"
)

const maxUploadBytes = 10 << 20 // 10 MiB

// NewUploadHandler returns the handler for POST /company/upload: parse the
// uploaded workbook, stage the rows against the caller's session, and echo
// the parsed rows back.
func NewUploadHandler(stager staging.Stager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := mw.GetSessionID(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing session", nil)
			return
		}

		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Expected a multipart upload", nil)
			return
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Missing file field", nil)
			return
		}
		defer file.Close()

		payload, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Could not read upload", nil)
			return
		}

		ds, err := ingest.Parse(payload)
		if err != nil {
			if errors.Is(err, ingest.ErrUnreadableWorkbook) {
				response.Error(w, http.StatusBadRequest, "UNREADABLE_WORKBOOK",
					"The uploaded file is not a readable spreadsheet", nil)
				return
			}
			slog.Error("parse upload", "error", err)
			response.Error(w, http.StatusInternalServerError,
				"INTERNAL_ERROR", "An unexpected error occurred", nil)
			return
		}

		if err := stager.Stage(r.Context(), sessionID, ds); err != nil {
			slog.Error("stage dataset", "session", sessionID, "error", err)
			response.Error(w, http.StatusInternalServerError,
				"INTERNAL_ERROR", "An unexpected error occurred", nil)
			return
		}

		response.JSON(w, ds.Rows)
	}
}

// NewCreateTemplateHandler returns the handler for POST /company/create-template:
// consume the staged dataset for the caller's session and synthesize a
// summary template from it.
func NewCreateTemplateHandler(stager staging.Stager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := mw.GetSessionID(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing session", nil)
			return
		}

		ds, err := stager.Take(r.Context(), sessionID)
		if err != nil {
			if errors.Is(err, staging.ErrNotStaged) {
				response.Error(w, http.StatusBadRequest, "NO_DATA",
					"No uploaded file data found", nil)
				return
			}
			slog.Error("take dataset", "session", sessionID, "error", err)
			response.Error(w, http.StatusInternalServerError,
				"INTERNAL_ERROR", "An unexpected error occurred", nil)
			return
		}

		template, err := ingest.Synthesize(ds)
		if err != nil {
			if errors.Is(err, ingest.ErrEmptyDataset) {
				response.Error(w, http.StatusBadRequest, "EMPTY_DATASET",
					"The uploaded dataset has no rows", nil)
				return
			}
			slog.Error("synthesize template", "session", sessionID, "error", err)
			response.Error(w, http.StatusInternalServerError,
				"INTERNAL_ERROR", "An unexpected error occurred", nil)
			return
		}

		response.JSON(w, map[string]any{
			"message":  "Template created",
			"template": template,
		})
	}
}
