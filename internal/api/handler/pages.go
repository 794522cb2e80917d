package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/pagesmith/pagesmith/internal/api/response"
	"github.com/pagesmith/pagesmith/internal/compose"
	"github.com/pagesmith/pagesmith/internal/routing"
	"github.com/pagesmith/pagesmith/internal/store"
)

// Composer is the page-composition interface the handler depends on.
type Composer interface {
	Compose(ctx context.Context, decision *routing.Decision, requestPath string) ([]byte, error)
}

// NewPingHandler returns the liveness handler for GET /ping.
func NewPingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.Text(w, "pong 🏓")
	}
}

// NewListCompaniesHandler returns the handler for GET /, listing every
// company record. Unauthenticated, matching the deployed behavior.
func NewListCompaniesHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companies, err := s.ListCompanies(r.Context())
		if err != nil {
			slog.Error("list companies", "error", err)
			response.Error(w, http.StatusInternalServerError,
				"INTERNAL_ERROR", "An unexpected error occurred", nil)
			return
		}
		response.JSON(w, companies)
	}
}

// NewPageHandler returns the catch-all content handler: it resolves the
// request path to a tenant under the active topology and renders the page.
func NewPageHandler(resolver *routing.Resolver, composer Composer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		decision, err := resolver.Resolve(r.URL.Path)
		if err != nil {
			switch {
			case errors.Is(err, routing.ErrMalformedPath), errors.Is(err, routing.ErrUnknownVertical):
				response.Error(w, http.StatusNotFound, "NOT_FOUND", "Not Found", nil)
			default:
				slog.Error("resolve path", "path", r.URL.Path, "error", err)
				response.Error(w, http.StatusInternalServerError,
					"INTERNAL_ERROR", "An unexpected error occurred", nil)
			}
			return
		}

		page, err := composer.Compose(r.Context(), decision, r.URL.Path)
		if err != nil {
			switch {
			case errors.Is(err, compose.ErrTenantNotFound):
				response.Error(w, http.StatusNotFound, "NOT_FOUND", "Not Found", nil)
			default:
				// Includes ErrUnknownSectionTemplate and renderer failures;
				// details stay in the log, not the response.
				slog.Error("compose page", "path", r.URL.Path, "slug", decision.Slug, "error", err)
				response.Error(w, http.StatusInternalServerError,
					"INTERNAL_ERROR", "An unexpected error occurred", nil)
			}
			return
		}

		response.HTML(w, page)
	}
}
