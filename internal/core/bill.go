package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrBillNotFound is returned when a requested bill id has no matching row.
var ErrBillNotFound = errors.New("bill not found")

// ValidationError is a rejected field value at the aggregate boundary.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// NewBill creates an unsaved bill dated now.
func NewBill(customerName string) *Bill {
	return &Bill{
		CustomerName: customerName,
		Date:         time.Now(),
	}
}

// AddItem validates and appends a line item, keeping insertion order.
// Invalid input is rejected, never clamped; the interactive quantity
// leniency lives in the clerk console, not here.
func (b *Bill) AddItem(description string, quantity int, unitPrice decimal.Decimal) (*BillItem, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, &ValidationError{Field: "description", Reason: "must not be empty"}
	}
	if len(description) > MaxDescriptionLen {
		return nil, &ValidationError{Field: "description", Reason: fmt.Sprintf("must not exceed %d characters", MaxDescriptionLen)}
	}
	if quantity < 1 {
		return nil, &ValidationError{Field: "quantity", Reason: "must be at least 1"}
	}
	if unitPrice.IsNegative() {
		return nil, &ValidationError{Field: "unit_price", Reason: "must not be negative"}
	}

	b.Items = append(b.Items, BillItem{
		BillID:      b.ID,
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
	})
	return &b.Items[len(b.Items)-1], nil
}

// RemoveItem removes the item at index i. Out-of-range indexes are a no-op;
// the return value reports whether anything was removed.
func (b *Bill) RemoveItem(i int) bool {
	if i < 0 || i >= len(b.Items) {
		return false
	}
	b.Items = append(b.Items[:i], b.Items[i+1:]...)
	return true
}

// Total recomputes the bill total from its current items. This is the only
// authoritative total; StoredTotal is display metadata from the last save.
func (b *Bill) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range b.Items {
		total = total.Add(it.LineTotal())
	}
	return total
}

// Validate checks the header fields and every item. An empty item list is
// allowed; a bill with no items simply totals zero.
func (b *Bill) Validate() error {
	name := strings.TrimSpace(b.CustomerName)
	if name == "" {
		return &ValidationError{Field: "customer_name", Reason: "is required"}
	}
	if len(name) > MaxCustomerNameLen {
		return &ValidationError{Field: "customer_name", Reason: fmt.Sprintf("must not exceed %d characters", MaxCustomerNameLen)}
	}
	if len(b.DeviceType) > MaxDeviceTypeLen {
		return &ValidationError{Field: "device_type", Reason: fmt.Sprintf("must not exceed %d characters", MaxDeviceTypeLen)}
	}
	for i, it := range b.Items {
		if strings.TrimSpace(it.Description) == "" {
			return &ValidationError{Field: "description", Reason: fmt.Sprintf("item %d: must not be empty", i+1)}
		}
		if it.Quantity < 1 {
			return &ValidationError{Field: "quantity", Reason: fmt.Sprintf("item %d: must be at least 1", i+1)}
		}
		if it.UnitPrice.IsNegative() {
			return &ValidationError{Field: "unit_price", Reason: fmt.Sprintf("item %d: must not be negative", i+1)}
		}
	}
	return nil
}

// checkStoredTotal compares the persisted total against the recomputed item
// sum and flags (but never corrects) a divergence beyond TotalTolerance.
func (b *Bill) checkStoredTotal() {
	diff := b.StoredTotal.Sub(b.Total()).Abs()
	b.TotalMismatch = diff.GreaterThan(TotalTolerance)
}
