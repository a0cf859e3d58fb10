package app

import (
	"context"

	"repairshop-billing/internal/core"
)

// ApplicationService is the single interface all UI adapters (REPL, CLI, Web)
// call. It decouples presentation from business logic. Implementations must
// contain no fmt.Println, no ANSI codes, and no display logic of any kind.
type ApplicationService interface {
	// SaveBill creates or updates a bill with its full item set and returns
	// the saved aggregate.
	SaveBill(ctx context.Context, req SaveBillRequest) (*BillResult, error)

	// GetBill returns a single bill with its items.
	GetBill(ctx context.Context, id int) (*BillResult, error)

	// ListBills returns all bills, newest first.
	ListBills(ctx context.Context) (*BillListResult, error)

	// SearchBills returns bills whose customer name contains the query,
	// case-insensitively.
	SearchBills(ctx context.Context, customerName string) (*BillListResult, error)

	// ListServices returns all active catalog services.
	ListServices(ctx context.Context) (*ServiceListResult, error)

	// ListServicesByCategory returns active catalog services in one category.
	ListServicesByCategory(ctx context.Context, category string) (*ServiceListResult, error)

	// ListCategories returns the distinct categories of active services.
	ListCategories(ctx context.Context) (*CategoryListResult, error)

	// DeactivateService soft-deletes a catalog service.
	DeactivateService(ctx context.Context, id int) error

	// CreateCustomer registers a customer and returns the stored record.
	CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*CustomerResult, error)

	// ListCustomers returns all customers ordered by name.
	ListCustomers(ctx context.Context) (*CustomerListResult, error)

	// FindCustomers returns customers whose name contains the query.
	FindCustomers(ctx context.Context, name string) (*CustomerListResult, error)

	// ExportInvoice renders a bill to invoice files. Format is "text" or
	// "png"; an empty outPath picks a default name.
	ExportInvoice(ctx context.Context, req ExportInvoiceRequest) (*ExportResult, error)

	// HealthCheck reports store reachability and catalog completeness.
	HealthCheck(ctx context.Context) (*core.HealthCheckResult, error)
}
