package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/pagesmith/pagesmith/internal/api/response"
	"github.com/pagesmith/pagesmith/internal/store"
	"github.com/pagesmith/pagesmith/pkg/models"
)

type companyRequest struct {
	Collection *string           `json:"collection"`
	Name       *string           `json:"name"`
	Address    *string           `json:"address"`
	Phone      *string           `json:"phone"`
	Logo       *string           `json:"logo"`
	Slug       *string           `json:"slug"`
	Location   *string           `json:"location"`
	Theme      *models.Theme     `json:"theme"`
	Sections   *[]models.Section `json:"sections"`
}

// NewCreateCompanyHandler returns the handler for POST /company.
func NewCreateCompanyHandler(s store.Store, defaultCollection string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req companyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}
		if req.Name == nil || *req.Name == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "name is required", nil)
			return
		}
		if req.Slug == nil || *req.Slug == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "slug is required", nil)
			return
		}

		now := time.Now().UTC()
		company := &models.Company{
			ID:         uuid.New(),
			Collection: defaultCollection,
			Name:       *req.Name,
			Slug:       *req.Slug,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if req.Collection != nil && *req.Collection != "" {
			company.Collection = *req.Collection
		}
		if req.Address != nil {
			company.Address = *req.Address
		}
		if req.Phone != nil {
			company.Phone = *req.Phone
		}
		if req.Logo != nil {
			company.Logo = *req.Logo
		}
		if req.Location != nil {
			company.Location = *req.Location
		}
		if req.Theme != nil {
			company.Theme = *req.Theme
		}
		if req.Sections != nil {
			company.Sections = *req.Sections
		}

		if err := s.CreateCompany(r.Context(), company); err != nil {
			if errors.Is(err, store.ErrDuplicateSlug) {
				response.Error(w, http.StatusConflict, "DUPLICATE_SLUG",
					"A company with this slug already exists in the collection", nil)
				return
			}
			slog.Error("create company", "error", err)
			response.Error(w, http.StatusInternalServerError,
				"INTERNAL_ERROR", "An unexpected error occurred", nil)
			return
		}

		response.Created(w, company)
	}
}

// NewGetCompanyHandler returns the handler for GET /company/{companyID}.
func NewGetCompanyHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := companyID(w, r)
		if !ok {
			return
		}

		company, err := s.FindByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				response.Error(w, http.StatusNotFound, "NOT_FOUND", "Not Found", nil)
				return
			}
			slog.Error("get company", "id", id, "error", err)
			response.Error(w, http.StatusInternalServerError,
				"INTERNAL_ERROR", "An unexpected error occurred", nil)
			return
		}

		response.JSON(w, company)
	}
}

// NewUpdateCompanyHandler returns the handler for PUT /company/{companyID}.
func NewUpdateCompanyHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := companyID(w, r)
		if !ok {
			return
		}

		var req companyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}

		patch := store.CompanyPatch{
			Name:     req.Name,
			Address:  req.Address,
			Phone:    req.Phone,
			Logo:     req.Logo,
			Slug:     req.Slug,
			Location: req.Location,
			Theme:    req.Theme,
			Sections: req.Sections,
		}

		company, err := s.UpdateCompany(r.Context(), id, patch)
		if err != nil {
			switch {
			case errors.Is(err, store.ErrNotFound):
				response.Error(w, http.StatusNotFound, "NOT_FOUND", "Not Found", nil)
			case errors.Is(err, store.ErrDuplicateSlug):
				response.Error(w, http.StatusConflict, "DUPLICATE_SLUG",
					"A company with this slug already exists in the collection", nil)
			default:
				slog.Error("update company", "id", id, "error", err)
				response.Error(w, http.StatusInternalServerError,
					"INTERNAL_ERROR", "An unexpected error occurred", nil)
			}
			return
		}

		response.JSON(w, company)
	}
}

// NewDeleteCompanyHandler returns the handler for DELETE /company/{companyID}.
func NewDeleteCompanyHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := companyID(w, r)
		if !ok {
			return
		}

		if err := s.DeleteCompany(r.Context(), id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				response.Error(w, http.StatusNotFound, "NOT_FOUND", "Not Found", nil)
				return
			}
			slog.Error("delete company", "id", id, "error", err)
			response.Error(w, http.StatusInternalServerError,
				"INTERNAL_ERROR", "An unexpected error occurred", nil)
			return
		}

		response.JSON(w, map[string]string{"message": "Company deleted"})
	}
}

func companyID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "companyID"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "companyID must be a UUID", nil)
		return uuid.Nil, false
	}
	return id, true
}
