package core_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"repairshop-billing/internal/core"
	"repairshop-billing/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// setupTestDB connects to the dedicated test database, ensures the schema
// exists, and truncates all billing tables.
// Set TEST_DATABASE_URL in your .env or environment to run integration tests.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	_ = godotenv.Load("../../.env")

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set — skipping integration test to protect live database")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := core.NewBillService(pool, logger.NewNop()).Init(ctx); err != nil {
		t.Fatalf("Failed to initialize schema: %v", err)
	}

	_, err = pool.Exec(ctx,
		"TRUNCATE TABLE bill_items, bills, customers, services RESTART IDENTITY CASCADE")
	if err != nil {
		t.Fatalf("Failed to truncate test database: %v", err)
	}

	return pool
}

func newTestBill(t *testing.T) *core.Bill {
	t.Helper()
	bill := core.NewBill("Jane Doe")
	bill.DeviceType = "MacBook Pro"
	if _, err := bill.AddItem("Hours - Red", 1, decimal.NewFromFloat(50.00)); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	return bill
}

func TestBillService_Init_Idempotent(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	svc := core.NewBillService(pool, logger.NewNop())
	ctx := context.Background()

	// Init ran in setup already; running it again must not disturb data.
	billID, err := svc.SaveBill(ctx, newTestBill(t))
	if err != nil {
		t.Fatalf("SaveBill failed: %v", err)
	}
	if err := svc.Init(ctx); err != nil {
		t.Fatalf("second Init failed: %v", err)
	}
	if _, err := svc.GetBillByID(ctx, billID); err != nil {
		t.Errorf("bill lost after repeated Init: %v", err)
	}
}

func TestBillService_SaveAndReload(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	svc := core.NewBillService(pool, logger.NewNop())
	ctx := context.Background()

	bill := newTestBill(t)
	billID, err := svc.SaveBill(ctx, bill)
	if err != nil {
		t.Fatalf("SaveBill failed: %v", err)
	}
	if billID <= 0 {
		t.Fatalf("expected assigned id > 0, got %d", billID)
	}
	if bill.ID != billID {
		t.Errorf("id must be assigned back onto the aggregate: have %d, want %d", bill.ID, billID)
	}

	loaded, err := svc.GetBillByID(ctx, billID)
	if err != nil {
		t.Fatalf("GetBillByID failed: %v", err)
	}
	if loaded.CustomerName != "Jane Doe" || loaded.DeviceType != "MacBook Pro" {
		t.Errorf("header mismatch: %+v", loaded)
	}
	if loaded.Date.Format(core.DateFormat) != bill.Date.Format(core.DateFormat) {
		t.Errorf("date mismatch: saved %v, loaded %v", bill.Date, loaded.Date)
	}
	if len(loaded.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(loaded.Items))
	}
	it := loaded.Items[0]
	if it.Description != "Hours - Red" || it.Quantity != 1 || !it.UnitPrice.Equal(decimal.NewFromFloat(50.00)) {
		t.Errorf("item mismatch: %+v", it)
	}
	if !loaded.Total().Equal(decimal.NewFromFloat(50.00)) {
		t.Errorf("expected total 50.00, got %s", loaded.Total())
	}
	if loaded.TotalMismatch {
		t.Error("freshly saved bill must not flag a total mismatch")
	}
}

func TestBillService_UpdateReplacesItemSet(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	svc := core.NewBillService(pool, logger.NewNop())
	ctx := context.Background()

	bill := newTestBill(t)
	billID, err := svc.SaveBill(ctx, bill)
	if err != nil {
		t.Fatalf("SaveBill failed: %v", err)
	}

	// Update path: add a second line and save again under the same id.
	if _, err := bill.AddItem("Hours - Blue", 2, decimal.NewFromFloat(75.00)); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	if !bill.Total().Equal(decimal.NewFromFloat(200.00)) {
		t.Fatalf("expected total 200.00 before save, got %s", bill.Total())
	}
	updatedID, err := svc.SaveBill(ctx, bill)
	if err != nil {
		t.Fatalf("SaveBill (update) failed: %v", err)
	}
	if updatedID != billID {
		t.Errorf("update must reuse the id: have %d, want %d", updatedID, billID)
	}

	loaded, err := svc.GetBillByID(ctx, billID)
	if err != nil {
		t.Fatalf("GetBillByID failed: %v", err)
	}
	if len(loaded.Items) != 2 {
		t.Fatalf("expected exactly 2 items after update, got %d", len(loaded.Items))
	}
	if loaded.Items[0].Description != "Hours - Red" || loaded.Items[1].Description != "Hours - Blue" {
		t.Errorf("item order not preserved: %+v", loaded.Items)
	}
	if !loaded.Total().Equal(decimal.NewFromFloat(200.00)) {
		t.Errorf("expected total 200.00, got %s", loaded.Total())
	}

	// Replace the whole item set: nothing from the prior version may remain.
	bill.Items = nil
	if _, err := bill.AddItem("EQP RAM", 1, decimal.NewFromFloat(45.50)); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	if _, err := svc.SaveBill(ctx, bill); err != nil {
		t.Fatalf("SaveBill (replace) failed: %v", err)
	}
	loaded, err = svc.GetBillByID(ctx, billID)
	if err != nil {
		t.Fatalf("GetBillByID failed: %v", err)
	}
	if len(loaded.Items) != 1 || loaded.Items[0].Description != "EQP RAM" {
		t.Errorf("expected only the replacement item, got %+v", loaded.Items)
	}

	var orphans int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM bill_items").Scan(&orphans); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if orphans != 1 {
		t.Errorf("expected 1 bill_items row, got %d (orphans from prior versions?)", orphans)
	}
}

func TestBillService_FailedSaveLeavesPriorStateUntouched(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	svc := core.NewBillService(pool, logger.NewNop())
	ctx := context.Background()

	bill := newTestBill(t)
	billID, err := svc.SaveBill(ctx, bill)
	if err != nil {
		t.Fatalf("SaveBill failed: %v", err)
	}

	// Second save: first item is fine, second overflows NUMERIC(12,2) and
	// fails mid-transaction. The whole save must roll back.
	bill.CustomerName = "Changed Name"
	overflow, _ := decimal.NewFromString("99999999999999.99")
	bill.Items = append(bill.Items, core.BillItem{
		Description: "too expensive",
		Quantity:    1,
		UnitPrice:   overflow,
	})
	if _, err := svc.SaveBill(ctx, bill); err == nil {
		t.Fatal("expected save to fail on numeric overflow")
	}

	loaded, err := svc.GetBillByID(ctx, billID)
	if err != nil {
		t.Fatalf("GetBillByID failed: %v", err)
	}
	if loaded.CustomerName != "Jane Doe" {
		t.Errorf("failed save must not change the header, got %q", loaded.CustomerName)
	}
	if len(loaded.Items) != 1 || loaded.Items[0].Description != "Hours - Red" {
		t.Errorf("failed save must leave the prior item set intact, got %+v", loaded.Items)
	}
	if !loaded.StoredTotal.Equal(decimal.NewFromFloat(50.00)) {
		t.Errorf("failed save must leave stored total intact, got %s", loaded.StoredTotal)
	}
}

func TestBillService_GetBillByID_NotFound(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	svc := core.NewBillService(pool, logger.NewNop())

	_, err := svc.GetBillByID(context.Background(), 9999)
	if err == nil {
		t.Fatal("expected not-found error")
	}
	if !errors.Is(err, core.ErrBillNotFound) {
		t.Errorf("expected ErrBillNotFound, got %v", err)
	}
}

func TestBillService_SearchBillsByCustomer(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	svc := core.NewBillService(pool, logger.NewNop())
	ctx := context.Background()

	for _, name := range []string{"Jane Doe", "John Smith", "JANET JONES"} {
		b := core.NewBill(name)
		if _, err := b.AddItem("Hours - Red", 1, decimal.NewFromFloat(50.00)); err != nil {
			t.Fatalf("AddItem failed: %v", err)
		}
		if _, err := svc.SaveBill(ctx, b); err != nil {
			t.Fatalf("SaveBill failed: %v", err)
		}
	}

	// Case-insensitive substring match.
	found, err := svc.SearchBillsByCustomer(ctx, "jan")
	if err != nil {
		t.Fatalf("SearchBillsByCustomer failed: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("expected 2 matches for %q, got %d", "jan", len(found))
	}
	for _, b := range found {
		if len(b.Items) == 0 {
			t.Errorf("search results must include items, bill %d has none", b.ID)
		}
	}

	all, err := svc.GetBills(ctx)
	if err != nil {
		t.Fatalf("GetBills failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 bills, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].Date.Before(all[i].Date) {
			t.Errorf("bills must be ordered by date descending")
		}
	}
}

func TestBillService_WalkInCustomerStoredAsNull(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	svc := core.NewBillService(pool, logger.NewNop())
	ctx := context.Background()

	bill := newTestBill(t)
	bill.CustomerID = 0 // walk-in
	billID, err := svc.SaveBill(ctx, bill)
	if err != nil {
		t.Fatalf("SaveBill failed: %v", err)
	}

	var isNull bool
	if err := pool.QueryRow(ctx,
		"SELECT customer_id IS NULL FROM bills WHERE bill_id = $1", billID).Scan(&isNull); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if !isNull {
		t.Error("customer_id must be stored as NULL for walk-in bills")
	}

	loaded, err := svc.GetBillByID(ctx, billID)
	if err != nil {
		t.Fatalf("GetBillByID failed: %v", err)
	}
	if loaded.CustomerID != 0 {
		t.Errorf("NULL customer_id must load as 0, got %d", loaded.CustomerID)
	}
}

func TestBillService_StoredTotalMismatchFlagged(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	svc := core.NewBillService(pool, logger.NewNop())
	ctx := context.Background()

	bill := newTestBill(t)
	billID, err := svc.SaveBill(ctx, bill)
	if err != nil {
		t.Fatalf("SaveBill failed: %v", err)
	}

	// Corrupt the denormalized total behind the gateway's back.
	if _, err := pool.Exec(ctx,
		"UPDATE bills SET total_amount = 123.45 WHERE bill_id = $1", billID); err != nil {
		t.Fatalf("corrupting total failed: %v", err)
	}

	loaded, err := svc.GetBillByID(ctx, billID)
	if err != nil {
		t.Fatalf("GetBillByID failed: %v", err)
	}
	if !loaded.TotalMismatch {
		t.Error("divergent stored total must be flagged")
	}
	// Warn, don't fix: both figures stay visible.
	if !loaded.StoredTotal.Equal(decimal.NewFromFloat(123.45)) {
		t.Errorf("stored total must not be silently corrected, got %s", loaded.StoredTotal)
	}
	if !loaded.Total().Equal(decimal.NewFromFloat(50.00)) {
		t.Errorf("recomputed total must come from items, got %s", loaded.Total())
	}

	// A divergence within one cent is tolerated.
	if _, err := pool.Exec(ctx,
		"UPDATE bills SET total_amount = 50.01 WHERE bill_id = $1", billID); err != nil {
		t.Fatalf("adjusting total failed: %v", err)
	}
	loaded, err = svc.GetBillByID(ctx, billID)
	if err != nil {
		t.Fatalf("GetBillByID failed: %v", err)
	}
	if loaded.TotalMismatch {
		t.Error("one-cent divergence is within tolerance and must not be flagged")
	}
}
