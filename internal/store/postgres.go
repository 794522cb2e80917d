package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pagesmith/pagesmith/pkg/models"
)

const companyColumns = `id, collection, name, address, phone, logo, slug, location, theme, sections, created_at, updated_at`

const insertCompanySQL = `INSERT INTO companies (` + companyColumns + `)
	 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

// PostgresStore implements the Store interface using pgx/v5.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) FindBySlug(ctx context.Context, collection, slug string) (*models.Company, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+companyColumns+` FROM companies WHERE collection = $1 AND slug = $2 LIMIT 1`,
		collection, slug)
	c, err := scanCompany(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find company by slug: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+companyColumns+` FROM companies WHERE id = $1`, id)
	c, err := scanCompany(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find company by id: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) ListCompanies(ctx context.Context) ([]*models.Company, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+companyColumns+` FROM companies ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	var companies []*models.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

func (s *PostgresStore) CreateCompany(ctx context.Context, company *models.Company) error {
	_, err := s.pool.Exec(ctx, insertCompanySQL,
		company.ID, company.Collection, company.Name, company.Address, company.Phone,
		company.Logo, company.Slug, company.Location, company.Theme, company.Sections,
		company.CreatedAt, company.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateSlug
		}
		return fmt.Errorf("create company: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateCompany(ctx context.Context, id uuid.UUID, patch CompanyPatch) (*models.Company, error) {
	query := `UPDATE companies SET updated_at = NOW()`
	args := []any{id}
	argIdx := 2

	set := func(column string, value any) {
		query += fmt.Sprintf(", %s = $%d", column, argIdx)
		args = append(args, value)
		argIdx++
	}

	if patch.Name != nil {
		set("name", *patch.Name)
	}
	if patch.Address != nil {
		set("address", *patch.Address)
	}
	if patch.Phone != nil {
		set("phone", *patch.Phone)
	}
	if patch.Logo != nil {
		set("logo", *patch.Logo)
	}
	if patch.Slug != nil {
		set("slug", *patch.Slug)
	}
	if patch.Location != nil {
		set("location", *patch.Location)
	}
	if patch.Theme != nil {
		set("theme", *patch.Theme)
	}
	if patch.Sections != nil {
		set("sections", *patch.Sections)
	}

	query += ` WHERE id = $1 RETURNING ` + companyColumns

	row := s.pool.QueryRow(ctx, query, args...)
	c, err := scanCompany(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateSlug
		}
		return nil, fmt.Errorf("update company: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) DeleteCompany(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete company: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanCompany(row pgx.Row) (*models.Company, error) {
	var c models.Company
	err := row.Scan(&c.ID, &c.Collection, &c.Name, &c.Address, &c.Phone, &c.Logo,
		&c.Slug, &c.Location, &c.Theme, &c.Sections, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// isUniqueViolation checks if a pgx error is a unique constraint violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}
