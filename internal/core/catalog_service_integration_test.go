package core_test

import (
	"context"
	"errors"
	"sort"
	"testing"

	"repairshop-billing/internal/core"
	"repairshop-billing/internal/logger"

	"github.com/shopspring/decimal"
)

func TestCatalogService_SeedOnlyWhenEmpty(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	svc := core.NewCatalogService(pool, logger.NewNop())
	ctx := context.Background()

	if err := svc.SeedServiceCatalog(ctx); err != nil {
		t.Fatalf("SeedServiceCatalog failed: %v", err)
	}
	first, err := svc.GetAllServices(ctx)
	if err != nil {
		t.Fatalf("GetAllServices failed: %v", err)
	}
	if len(first) == 0 {
		t.Fatal("seed produced no services")
	}

	// Seeding a non-empty catalog is a no-op, even when rows differ
	// from the builtin list.
	if err := svc.DeactivateService(ctx, first[0].ID); err != nil {
		t.Fatalf("DeactivateService failed: %v", err)
	}
	if err := svc.SeedServiceCatalog(ctx); err != nil {
		t.Fatalf("second SeedServiceCatalog failed: %v", err)
	}
	second, err := svc.GetAllServices(ctx)
	if err != nil {
		t.Fatalf("GetAllServices failed: %v", err)
	}
	if len(second) != len(first)-1 {
		t.Errorf("seed must not touch a non-empty catalog: had %d active, now %d",
			len(first)-1, len(second))
	}
}

func TestCatalogService_UpdateMergesMissingOnly(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	svc := core.NewCatalogService(pool, logger.NewNop())
	ctx := context.Background()

	if err := svc.SeedServiceCatalog(ctx); err != nil {
		t.Fatalf("SeedServiceCatalog failed: %v", err)
	}
	seeded, err := svc.GetAllServices(ctx)
	if err != nil {
		t.Fatalf("GetAllServices failed: %v", err)
	}

	// Alter one row's price so we can detect a merge overwriting it.
	if _, err := pool.Exec(ctx,
		"UPDATE services SET price = 999.00 WHERE service_id = $1", seeded[0].ID); err != nil {
		t.Fatalf("price change failed: %v", err)
	}
	// Deactivate another row; the merge must not resurrect it as a duplicate.
	if err := svc.DeactivateService(ctx, seeded[1].ID); err != nil {
		t.Fatalf("DeactivateService failed: %v", err)
	}

	if err := svc.UpdateServiceCatalog(ctx); err != nil {
		t.Fatalf("UpdateServiceCatalog failed: %v", err)
	}

	var total int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM services").Scan(&total); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if total != len(seeded) {
		t.Errorf("merge against a full catalog must insert nothing: %d rows, want %d",
			total, len(seeded))
	}

	var price decimal.Decimal
	if err := pool.QueryRow(ctx,
		"SELECT price FROM services WHERE service_id = $1", seeded[0].ID).Scan(&price); err != nil {
		t.Fatalf("price query failed: %v", err)
	}
	if !price.Equal(decimal.NewFromInt(999)) {
		t.Errorf("merge must not overwrite an edited price, got %s", price)
	}

	// Drop a builtin outright; the merge must restore exactly that one.
	if _, err := pool.Exec(ctx,
		"DELETE FROM services WHERE service_id = $1", seeded[2].ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := svc.UpdateServiceCatalog(ctx); err != nil {
		t.Fatalf("UpdateServiceCatalog failed: %v", err)
	}
	var restored int
	if err := pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM services WHERE name = $1 AND category = $2",
		seeded[2].Name, seeded[2].Category).Scan(&restored); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if restored != 1 {
		t.Errorf("merge must restore the missing builtin exactly once, found %d", restored)
	}
}

func TestCatalogService_QueriesFilterAndOrder(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	svc := core.NewCatalogService(pool, logger.NewNop())
	ctx := context.Background()

	if err := svc.SeedServiceCatalog(ctx); err != nil {
		t.Fatalf("SeedServiceCatalog failed: %v", err)
	}

	hours, err := svc.GetServicesByCategory(ctx, "HOURS")
	if err != nil {
		t.Fatalf("GetServicesByCategory failed: %v", err)
	}
	if len(hours) != 2 {
		t.Fatalf("expected 2 HOURS services, got %d", len(hours))
	}
	for _, s := range hours {
		if s.Category != "HOURS" {
			t.Errorf("category filter leaked %+v", s)
		}
	}
	if !sort.SliceIsSorted(hours, func(i, j int) bool { return hours[i].Name < hours[j].Name }) {
		t.Error("services within a category must be sorted by name")
	}

	cats, err := svc.GetServiceCategories(ctx)
	if err != nil {
		t.Fatalf("GetServiceCategories failed: %v", err)
	}
	if !sort.StringsAreSorted(cats) {
		t.Errorf("categories must be sorted, got %v", cats)
	}
	seen := map[string]bool{}
	for _, c := range cats {
		if seen[c] {
			t.Errorf("duplicate category %q", c)
		}
		seen[c] = true
	}

	// Deactivated services disappear from every read path.
	if err := svc.DeactivateService(ctx, hours[0].ID); err != nil {
		t.Fatalf("DeactivateService failed: %v", err)
	}
	hours, err = svc.GetServicesByCategory(ctx, "HOURS")
	if err != nil {
		t.Fatalf("GetServicesByCategory failed: %v", err)
	}
	if len(hours) != 1 {
		t.Errorf("expected 1 active HOURS service after deactivation, got %d", len(hours))
	}
	all, err := svc.GetAllServices(ctx)
	if err != nil {
		t.Fatalf("GetAllServices failed: %v", err)
	}
	for _, s := range all {
		if !s.IsActive {
			t.Errorf("inactive service returned: %+v", s)
		}
	}
}

func TestCatalogService_DeactivateUnknown(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	svc := core.NewCatalogService(pool, logger.NewNop())

	err := svc.DeactivateService(context.Background(), 424242)
	if !errors.Is(err, core.ErrServiceNotFound) {
		t.Errorf("expected ErrServiceNotFound, got %v", err)
	}
}
