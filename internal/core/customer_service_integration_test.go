package core_test

import (
	"context"
	"strings"
	"testing"

	"repairshop-billing/internal/core"
	"repairshop-billing/internal/logger"
)

func TestCustomerService_CreateAndFind(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	svc := core.NewCustomerService(pool, logger.NewNop())
	ctx := context.Background()

	created, err := svc.CreateCustomer(ctx, "  Alice Chen  ", "alice@example.com")
	if err != nil {
		t.Fatalf("CreateCustomer failed: %v", err)
	}
	if created.ID <= 0 {
		t.Fatalf("expected assigned id > 0, got %d", created.ID)
	}
	if created.Name != "Alice Chen" {
		t.Errorf("name must be trimmed, got %q", created.Name)
	}
	if _, err := svc.CreateCustomer(ctx, "Bob Alicedottir", ""); err != nil {
		t.Fatalf("CreateCustomer failed: %v", err)
	}

	customers, err := svc.GetCustomers(ctx)
	if err != nil {
		t.Fatalf("GetCustomers failed: %v", err)
	}
	if len(customers) != 2 {
		t.Fatalf("expected 2 customers, got %d", len(customers))
	}
	if customers[0].Name != "Alice Chen" {
		t.Errorf("name must be trimmed and list ordered by name, got %q", customers[0].Name)
	}
	if customers[0].CreatedDate.IsZero() {
		t.Error("created date must be set")
	}

	found, err := svc.FindCustomersByName(ctx, "ALICE")
	if err != nil {
		t.Fatalf("FindCustomersByName failed: %v", err)
	}
	if len(found) != 2 {
		t.Errorf("case-insensitive substring search expected 2 matches, got %d", len(found))
	}
}

func TestCustomerService_RejectsInvalidName(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	svc := core.NewCustomerService(pool, logger.NewNop())
	ctx := context.Background()

	cases := []struct {
		label string
		name  string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"too long", strings.Repeat("x", core.MaxCustomerNameLen+1)},
	}
	for _, tc := range cases {
		t.Run(tc.label, func(t *testing.T) {
			_, err := svc.CreateCustomer(ctx, tc.name, "")
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !core.IsValidation(err) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}
