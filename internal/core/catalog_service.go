package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"repairshop-billing/internal/logger"
)

// ErrServiceNotFound is returned when a catalog operation targets a
// nonexistent service id.
var ErrServiceNotFound = errors.New("service not found")

// CatalogService provides read access to the billable service catalog and
// the seed/merge bootstrap paths.
type CatalogService interface {
	// GetAllServices returns active entries ordered by category, then name.
	GetAllServices(ctx context.Context) ([]Service, error)

	// GetServicesByCategory returns active entries in one category, by name.
	GetServicesByCategory(ctx context.Context, category string) ([]Service, error)

	// GetServiceCategories returns distinct active category names, sorted.
	GetServiceCategories(ctx context.Context) ([]string, error)

	// SeedServiceCatalog inserts the built-in catalog only when the table is
	// empty. Otherwise it is a no-op. One transaction either way.
	SeedServiceCatalog(ctx context.Context) error

	// UpdateServiceCatalog inserts built-in entries whose (name, category)
	// pair has no existing row, active or not. Existing rows are never
	// updated or removed, so user edits survive upgrades.
	UpdateServiceCatalog(ctx context.Context) error

	// DeactivateService retires a catalog entry without deleting its row.
	DeactivateService(ctx context.Context, serviceID int) error
}

type catalogService struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

func NewCatalogService(pool *pgxpool.Pool, log *logger.Logger) CatalogService {
	return &catalogService{pool: pool, log: log}
}

const serviceColumns = "service_id, name, price, category, is_active"

func (s *catalogService) GetAllServices(ctx context.Context) ([]Service, error) {
	return s.queryServices(ctx,
		"SELECT "+serviceColumns+" FROM services WHERE is_active ORDER BY category, name")
}

func (s *catalogService) GetServicesByCategory(ctx context.Context, category string) ([]Service, error) {
	return s.queryServices(ctx,
		"SELECT "+serviceColumns+" FROM services WHERE category = $1 AND is_active ORDER BY name",
		category)
}

func (s *catalogService) GetServiceCategories(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT DISTINCT category FROM services WHERE is_active ORDER BY category")
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read categories: %w", err)
	}
	return categories, nil
}

func (s *catalogService) SeedServiceCatalog(ctx context.Context) error {
	var count int
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM services").Scan(&count); err != nil {
		return fmt.Errorf("failed to count services: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, svc := range builtinCatalog() {
		if _, err := tx.Exec(ctx, `
			INSERT INTO services (name, price, category, is_active)
			VALUES ($1, $2, $3, $4)
		`, svc.Name, svc.Price, svc.Category, svc.IsActive); err != nil {
			return fmt.Errorf("failed to seed service %q: %w", svc.Name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit catalog seed: %w", err)
	}
	s.log.Info("service catalog seeded", "services", len(builtinCatalog()))
	return nil
}

func (s *catalogService) UpdateServiceCatalog(ctx context.Context) error {
	// Existing pairs are collected across ALL rows, deactivated included,
	// so a retired built-in is not resurrected by the merge.
	rows, err := s.pool.Query(ctx, "SELECT name, category FROM services")
	if err != nil {
		return fmt.Errorf("failed to query existing services: %w", err)
	}
	defer rows.Close()

	type key struct{ name, category string }
	existing := make(map[key]bool)
	for rows.Next() {
		var k key
		if err := rows.Scan(&k.name, &k.category); err != nil {
			return fmt.Errorf("failed to scan existing service: %w", err)
		}
		existing[k] = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read existing services: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	added := 0
	for _, svc := range builtinCatalog() {
		if existing[key{svc.Name, svc.Category}] {
			continue
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO services (name, price, category, is_active)
			VALUES ($1, $2, $3, $4)
		`, svc.Name, svc.Price, svc.Category, svc.IsActive); err != nil {
			return fmt.Errorf("failed to merge service %q: %w", svc.Name, err)
		}
		added++
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit catalog merge: %w", err)
	}
	if added > 0 {
		s.log.Info("service catalog merged", "added", added)
	}
	return nil
}

func (s *catalogService) DeactivateService(ctx context.Context, serviceID int) error {
	ct, err := s.pool.Exec(ctx,
		"UPDATE services SET is_active = FALSE WHERE service_id = $1", serviceID)
	if err != nil {
		return fmt.Errorf("failed to deactivate service %d: %w", serviceID, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("service %d: %w", serviceID, ErrServiceNotFound)
	}
	return nil
}

func (s *catalogService) queryServices(ctx context.Context, sql string, args ...any) ([]Service, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query services: %w", err)
	}
	defer rows.Close()

	var services []Service
	for rows.Next() {
		var svc Service
		if err := rows.Scan(&svc.ID, &svc.Name, &svc.Price, &svc.Category, &svc.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan service: %w", err)
		}
		services = append(services, svc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read services: %w", err)
	}
	return services, nil
}
