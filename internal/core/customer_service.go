package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"repairshop-billing/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CustomerService manages the optional customer master records. Bills keep
// their own customer_name copy, so these records exist purely for repeat
// customer lookup.
type CustomerService interface {
	CreateCustomer(ctx context.Context, name, contactInfo string) (*Customer, error)
	GetCustomers(ctx context.Context) ([]Customer, error)
	FindCustomersByName(ctx context.Context, name string) ([]Customer, error)
}

type customerService struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

func NewCustomerService(pool *pgxpool.Pool, log *logger.Logger) CustomerService {
	return &customerService{pool: pool, log: log}
}

func (s *customerService) CreateCustomer(ctx context.Context, name, contactInfo string) (*Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &ValidationError{Field: "name", Reason: "is required"}
	}
	if len(name) > MaxCustomerNameLen {
		return nil, &ValidationError{Field: "name", Reason: fmt.Sprintf("must not exceed %d characters", MaxCustomerNameLen)}
	}

	c := Customer{Name: name, ContactInfo: contactInfo, CreatedDate: time.Now()}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO customers (name, contact_info, created_date)
		VALUES ($1, $2, $3)
		RETURNING customer_id
	`, c.Name, c.ContactInfo, c.CreatedDate.Format(DateFormat)).Scan(&c.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	s.log.Info("customer created", "customer_id", c.ID, "name", c.Name)
	return &c, nil
}

func (s *customerService) GetCustomers(ctx context.Context) ([]Customer, error) {
	return s.queryCustomers(ctx,
		"SELECT customer_id, name, contact_info, created_date FROM customers ORDER BY name")
}

func (s *customerService) FindCustomersByName(ctx context.Context, name string) ([]Customer, error) {
	return s.queryCustomers(ctx,
		"SELECT customer_id, name, contact_info, created_date FROM customers WHERE name ILIKE $1 ORDER BY name",
		"%"+name+"%")
}

func (s *customerService) queryCustomers(ctx context.Context, sql string, args ...any) ([]Customer, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	var customers []Customer
	for rows.Next() {
		var c Customer
		var created string
		if err := rows.Scan(&c.ID, &c.Name, &c.ContactInfo, &created); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		if c.CreatedDate, err = time.Parse(DateFormat, created); err != nil {
			return nil, fmt.Errorf("customer %d has malformed created date %q: %w", c.ID, created, err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read customers: %w", err)
	}
	return customers, nil
}
