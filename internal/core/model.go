package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Field length limits enforced at the aggregate boundary.
const (
	MaxCustomerNameLen = 100
	MaxDeviceTypeLen   = 50
	MaxDescriptionLen  = 200
	MaxServiceNameLen  = 100
	MaxCategoryLen     = 50
)

// DateFormat is the sortable textual timestamp format used for all
// persisted dates. Lexical order equals chronological order.
const DateFormat = "2006-01-02 15:04:05"

// TotalTolerance is the maximum allowed divergence between a bill's stored
// total and the total recomputed from its items: one currency minor unit.
var TotalTolerance = decimal.New(1, -2) // 0.01

// Customer is an optional master record a bill may reference. Walk-in
// customers have no record; their bills carry CustomerID 0.
type Customer struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	ContactInfo string    `json:"contact_info"`
	CreatedDate time.Time `json:"created_date"`
}

// Service is one entry in the billable service catalog. Rows are never
// physically deleted; retired services are deactivated instead. Bill items
// copy name and price at billing time, they do not reference the row.
type Service struct {
	ID       int             `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
	IsActive bool            `json:"is_active"`
}

// BillItem is one billable line on a bill. It is owned by its parent bill
// and cannot exist independently. ID is assigned on persist.
type BillItem struct {
	ID          int             `json:"id"`
	BillID      int             `json:"bill_id"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// LineTotal returns quantity × unit price.
func (it BillItem) LineTotal() decimal.Decimal {
	return it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// Bill is one customer invoice: header fields plus an ordered list of line
// items. ID is 0 until the first save. CustomerID 0 means "walk-in, no
// customer record".
type Bill struct {
	ID           int        `json:"id"`
	CustomerID   int        `json:"customer_id"`
	CustomerName string     `json:"customer_name"`
	DeviceType   string     `json:"device_type"`
	Date         time.Time  `json:"date"`
	Items        []BillItem `json:"items"`

	// StoredTotal is the total_amount column as persisted, kept so a bill
	// list can show totals without reloading items. The authoritative total
	// is always Total(); on load the two are compared and TotalMismatch is
	// set when they diverge beyond TotalTolerance.
	StoredTotal   decimal.Decimal `json:"stored_total"`
	TotalMismatch bool            `json:"total_mismatch,omitempty"`
}
