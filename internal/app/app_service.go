package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"repairshop-billing/internal/core"
	"repairshop-billing/internal/export"
)

type appService struct {
	bills     core.BillService
	catalog   core.CatalogService
	customers core.CustomerService
	startup   *core.StartupService
	exporter  export.Exporter
}

// NewAppService constructs an appService that satisfies ApplicationService.
func NewAppService(
	bills core.BillService,
	catalog core.CatalogService,
	customers core.CustomerService,
	startup *core.StartupService,
	exporter export.Exporter,
) ApplicationService {
	return &appService{
		bills:     bills,
		catalog:   catalog,
		customers: customers,
		startup:   startup,
		exporter:  exporter,
	}
}

// SaveBill creates or updates a bill with its full item set.
func (s *appService) SaveBill(ctx context.Context, req SaveBillRequest) (*BillResult, error) {
	bill := core.NewBill(req.CustomerName)
	bill.ID = req.ID
	bill.CustomerID = req.CustomerID
	bill.DeviceType = strings.TrimSpace(req.DeviceType)

	if req.Date != "" {
		date, err := time.Parse(core.DateFormat, req.Date)
		if err != nil {
			return nil, &core.ValidationError{Field: "date", Reason: fmt.Sprintf("must match %s", core.DateFormat)}
		}
		bill.Date = date
	}

	for _, item := range req.Items {
		if _, err := bill.AddItem(item.Description, item.Quantity, item.UnitPrice); err != nil {
			return nil, err
		}
	}

	if _, err := s.bills.SaveBill(ctx, bill); err != nil {
		return nil, err
	}
	return &BillResult{Bill: bill}, nil
}

// GetBill returns a single bill with its items.
func (s *appService) GetBill(ctx context.Context, id int) (*BillResult, error) {
	bill, err := s.bills.GetBillByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &BillResult{Bill: bill}, nil
}

// ListBills returns all bills, newest first.
func (s *appService) ListBills(ctx context.Context) (*BillListResult, error) {
	bills, err := s.bills.GetBills(ctx)
	if err != nil {
		return nil, err
	}
	return &BillListResult{Bills: bills}, nil
}

// SearchBills returns bills matching the customer name query.
func (s *appService) SearchBills(ctx context.Context, customerName string) (*BillListResult, error) {
	customerName = strings.TrimSpace(customerName)
	if customerName == "" {
		return nil, &core.ValidationError{Field: "customer_name", Reason: "search term is required"}
	}
	bills, err := s.bills.SearchBillsByCustomer(ctx, customerName)
	if err != nil {
		return nil, err
	}
	return &BillListResult{Bills: bills}, nil
}

// ListServices returns all active catalog services.
func (s *appService) ListServices(ctx context.Context) (*ServiceListResult, error) {
	services, err := s.catalog.GetAllServices(ctx)
	if err != nil {
		return nil, err
	}
	return &ServiceListResult{Services: services}, nil
}

// ListServicesByCategory returns active catalog services in one category.
func (s *appService) ListServicesByCategory(ctx context.Context, category string) (*ServiceListResult, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, &core.ValidationError{Field: "category", Reason: "category is required"}
	}
	services, err := s.catalog.GetServicesByCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	return &ServiceListResult{Services: services, Category: category}, nil
}

// ListCategories returns the distinct categories of active services.
func (s *appService) ListCategories(ctx context.Context) (*CategoryListResult, error) {
	categories, err := s.catalog.GetServiceCategories(ctx)
	if err != nil {
		return nil, err
	}
	return &CategoryListResult{Categories: categories}, nil
}

// DeactivateService soft-deletes a catalog service.
func (s *appService) DeactivateService(ctx context.Context, id int) error {
	return s.catalog.DeactivateService(ctx, id)
}

// CreateCustomer registers a customer and returns the stored record.
func (s *appService) CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*CustomerResult, error) {
	customer, err := s.customers.CreateCustomer(ctx, req.Name, req.ContactInfo)
	if err != nil {
		return nil, err
	}
	return &CustomerResult{Customer: customer}, nil
}

// ListCustomers returns all customers ordered by name.
func (s *appService) ListCustomers(ctx context.Context) (*CustomerListResult, error) {
	customers, err := s.customers.GetCustomers(ctx)
	if err != nil {
		return nil, err
	}
	return &CustomerListResult{Customers: customers}, nil
}

// FindCustomers returns customers whose name contains the query.
func (s *appService) FindCustomers(ctx context.Context, name string) (*CustomerListResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &core.ValidationError{Field: "name", Reason: "search term is required"}
	}
	customers, err := s.customers.FindCustomersByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return &CustomerListResult{Customers: customers}, nil
}

// ExportInvoice renders a bill to invoice files in the requested format.
func (s *appService) ExportInvoice(ctx context.Context, req ExportInvoiceRequest) (*ExportResult, error) {
	bill, err := s.bills.GetBillByID(ctx, req.BillID)
	if err != nil {
		return nil, err
	}

	format := strings.ToLower(strings.TrimSpace(req.Format))
	if format == "" {
		format = "text"
	}

	var paths []string
	switch format {
	case "text":
		path, err := s.exporter.ExportText(bill, req.OutPath)
		if err != nil {
			return nil, err
		}
		paths = []string{path}
	case "png":
		paths, err = s.exporter.ExportImages(bill, req.OutPath)
		if err != nil {
			return nil, err
		}
	default:
		return nil, &core.ValidationError{Field: "format", Reason: "must be text or png"}
	}

	return &ExportResult{BillID: bill.ID, Format: format, Paths: paths}, nil
}

// HealthCheck reports store reachability and catalog completeness.
func (s *appService) HealthCheck(ctx context.Context) (*core.HealthCheckResult, error) {
	if s.startup == nil {
		return nil, fmt.Errorf("startup service not configured")
	}
	return s.startup.HealthCheck(ctx), nil
}
