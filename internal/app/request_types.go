package app

import (
	"github.com/shopspring/decimal"
)

// SaveBillRequest is the input for creating or updating a bill. A zero ID
// creates; a positive ID replaces the stored bill and its item set.
type SaveBillRequest struct {
	ID           int
	CustomerID   int // zero means walk-in
	CustomerName string
	DeviceType   string
	Date         string // YYYY-MM-DD HH:MM:SS, empty means now
	Items        []BillItemInput
}

// BillItemInput is a single line within a SaveBillRequest.
type BillItemInput struct {
	Description string
	Quantity    int
	UnitPrice   decimal.Decimal
}

// CreateCustomerRequest is the input for registering a customer.
type CreateCustomerRequest struct {
	Name        string
	ContactInfo string
}

// ExportInvoiceRequest is the input for rendering a bill to invoice files.
type ExportInvoiceRequest struct {
	BillID  int
	Format  string // "text" (default) or "png"
	OutPath string // file path for text, directory for png; empty picks a default
}
