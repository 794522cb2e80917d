package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pagesmith/pagesmith/pkg/models"
)

var ErrNotFound = errors.New("resource not found")
var ErrDuplicateSlug = errors.New("duplicate slug in collection")

// Store is the data access interface. All database operations go through here.
type Store interface {
	Ping(ctx context.Context) error

	FindBySlug(ctx context.Context, collection, slug string) (*models.Company, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Company, error)
	ListCompanies(ctx context.Context) ([]*models.Company, error)
	CreateCompany(ctx context.Context, company *models.Company) error
	UpdateCompany(ctx context.Context, id uuid.UUID, patch CompanyPatch) (*models.Company, error)
	DeleteCompany(ctx context.Context, id uuid.UUID) error
}

// CompanyPatch holds the updatable fields of a company record. Nil fields
// are left unchanged.
type CompanyPatch struct {
	Name     *string
	Address  *string
	Phone    *string
	Logo     *string
	Slug     *string
	Location *string
	Theme    *models.Theme
	Sections *[]models.Section
}
