package app

import "repairshop-billing/internal/core"

// BillResult is returned by bill operations.
type BillResult struct {
	Bill *core.Bill
}

// BillListResult is returned by ListBills and SearchBills.
type BillListResult struct {
	Bills []core.Bill
}

// ServiceListResult is returned by catalog queries.
type ServiceListResult struct {
	Services []core.Service
	Category string // set when filtered by category
}

// CategoryListResult is returned by ListCategories.
type CategoryListResult struct {
	Categories []string
}

// CustomerResult is returned by CreateCustomer.
type CustomerResult struct {
	Customer *core.Customer
}

// CustomerListResult is returned by ListCustomers and FindCustomers.
type CustomerListResult struct {
	Customers []core.Customer
}

// ExportResult is returned by ExportInvoice.
type ExportResult struct {
	BillID int
	Format string
	Paths  []string
}
