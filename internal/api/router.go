package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	mw "github.com/pagesmith/pagesmith/internal/api/middleware"
	"github.com/pagesmith/pagesmith/internal/api/response"
)

// Dependencies holds all handler and middleware dependencies for the router.
type Dependencies struct {
	Auth *mw.Auth

	HealthHandler http.HandlerFunc
	PingHandler   http.HandlerFunc
	TokenHandler  http.HandlerFunc

	ListCompanies  http.HandlerFunc
	GetCompany     http.HandlerFunc
	CreateCompany  http.HandlerFunc
	UpdateCompany  http.HandlerFunc
	DeleteCompany  http.HandlerFunc
	Upload         http.HandlerFunc
	CreateTemplate http.HandlerFunc

	PageHandler http.HandlerFunc
}

// NewRouter builds the Chi router with middleware stack and all routes.
// The content route is a catch-all; chi prefers the static /company and
// /auth prefixes, so CRUD paths never reach the resolver.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.Logger)
	r.Use(mw.Recovery)

	r.Get("/ping", orNotImplemented(deps.PingHandler))
	r.Get("/healthz", orNotImplemented(deps.HealthHandler))
	r.Post("/auth/token", orNotImplemented(deps.TokenHandler))

	// Read paths, unauthenticated as deployed
	r.Get("/", orNotImplemented(deps.ListCompanies))
	r.Get("/company/{companyID}", orNotImplemented(deps.GetCompany))

	// Mutation routes, gated by the credential verifier
	r.Group(func(r chi.Router) {
		r.Use(deps.Auth.Authenticate)

		r.Post("/company", orNotImplemented(deps.CreateCompany))
		r.Put("/company/{companyID}", orNotImplemented(deps.UpdateCompany))
		r.Delete("/company/{companyID}", orNotImplemented(deps.DeleteCompany))

		r.Post("/company/upload", orNotImplemented(deps.Upload))
		r.Post("/company/create-template", orNotImplemented(deps.CreateTemplate))
	})

	// Tenant content resolution under the active topology
	r.Get("/*", orNotImplemented(deps.PageHandler))

	return r
}

// orNotImplemented returns the handler if non-nil, or a 501 placeholder.
func orNotImplemented(h http.HandlerFunc) http.HandlerFunc {
	if h != nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotImplemented, "NOT_IMPLEMENTED", "Endpoint not yet implemented", nil)
	}
}
