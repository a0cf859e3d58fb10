package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"repairshop-billing/internal/logger"
)

// firstRunMarker is written into the app data directory after the first
// successful initialization. Its absence means first run.
const firstRunMarker = ".initialized"

// StartupResult reports the outcome of application initialization. A failed
// result is fatal to application launch.
type StartupResult struct {
	Success      bool   `json:"success"`
	IsFirstRun   bool   `json:"is_first_run"`
	ServiceCount int    `json:"service_count"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// HealthCheckResult is the read-only health snapshot. It may be produced
// concurrently with foreground work and never blocks it.
type HealthCheckResult struct {
	DatabaseAccessible   bool     `json:"database_accessible"`
	ServiceCatalogLoaded bool     `json:"service_catalog_loaded"`
	ServiceCount         int      `json:"service_count"`
	Warnings             []string `json:"warnings,omitempty"`
	ErrorMessage         string   `json:"error_message,omitempty"`
}

// Healthy reports whether the store is reachable and the catalog usable.
func (r *HealthCheckResult) Healthy() bool {
	return r.DatabaseAccessible && r.ServiceCatalogLoaded && r.ErrorMessage == ""
}

// StartupService performs one-time application bootstrap: schema creation,
// catalog seeding or merging, first-run detection, and health checks.
type StartupService struct {
	bills   BillService
	catalog CatalogService
	dataDir string
	log     *logger.Logger
}

// NewStartupService builds a startup service. dataDir holds the first-run
// marker; empty selects APP_DATA_DIR or a dot-directory under $HOME.
func NewStartupService(bills BillService, catalog CatalogService, dataDir string, log *logger.Logger) *StartupService {
	if dataDir == "" {
		dataDir = defaultDataDir()
	}
	return &StartupService{bills: bills, catalog: catalog, dataDir: dataDir, log: log}
}

func defaultDataDir() string {
	if dir := os.Getenv("APP_DATA_DIR"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".repairshop-billing"
	}
	return filepath.Join(home, ".repairshop-billing")
}

// IsFirstRun reports whether the first-run marker is absent. When the check
// itself fails the run is treated as first, which only costs a redundant
// seed attempt against a non-empty table (a no-op).
func (s *StartupService) IsFirstRun() bool {
	_, err := os.Stat(filepath.Join(s.dataDir, firstRunMarker))
	return err != nil
}

// InitializeApplication ensures the schema exists, seeds or merges the
// service catalog, and verifies the catalog is usable. Callers must treat a
// failed result as fatal to launch.
func (s *StartupService) InitializeApplication(ctx context.Context) *StartupResult {
	isFirstRun := s.IsFirstRun()

	if err := os.MkdirAll(s.dataDir, 0o755); err != nil {
		return startupFailure(fmt.Errorf("failed to create data directory %s: %w", s.dataDir, err))
	}

	if err := s.bills.Init(ctx); err != nil {
		return startupFailure(err)
	}

	if isFirstRun {
		if err := s.catalog.SeedServiceCatalog(ctx); err != nil {
			return startupFailure(err)
		}
	} else {
		if err := s.catalog.UpdateServiceCatalog(ctx); err != nil {
			return startupFailure(err)
		}
	}

	services, err := s.catalog.GetAllServices(ctx)
	if err != nil {
		return startupFailure(err)
	}
	if len(services) == 0 {
		return startupFailure(fmt.Errorf("service catalog is empty after initialization"))
	}

	if isFirstRun {
		s.writeFirstRunMarker()
	}

	s.log.Info("application initialized",
		"first_run", isFirstRun, "services", len(services), "data_dir", s.dataDir)
	return &StartupResult{Success: true, IsFirstRun: isFirstRun, ServiceCount: len(services)}
}

// HealthCheck verifies store accessibility and catalog completeness. It
// only reads.
func (s *StartupService) HealthCheck(ctx context.Context) *HealthCheckResult {
	result := &HealthCheckResult{}

	if _, err := s.bills.GetBills(ctx); err != nil {
		result.ErrorMessage = fmt.Sprintf("bills not accessible: %v", err)
		return result
	}
	result.DatabaseAccessible = true

	services, err := s.catalog.GetAllServices(ctx)
	if err != nil {
		result.ErrorMessage = fmt.Sprintf("service catalog not accessible: %v", err)
		return result
	}
	result.ServiceCount = len(services)
	result.ServiceCatalogLoaded = len(services) > 0
	if len(services) == 0 {
		result.Warnings = append(result.Warnings, "service catalog is empty")
	}

	categories, err := s.catalog.GetServiceCategories(ctx)
	if err != nil {
		result.ErrorMessage = fmt.Sprintf("categories not accessible: %v", err)
		return result
	}
	present := make(map[string]bool, len(categories))
	for _, c := range categories {
		present[c] = true
	}
	for _, want := range BuiltinCategories() {
		if !present[want] {
			result.Warnings = append(result.Warnings, fmt.Sprintf("missing service category: %s", want))
		}
	}

	return result
}

func (s *StartupService) writeFirstRunMarker() {
	marker := filepath.Join(s.dataDir, firstRunMarker)
	content := fmt.Sprintf("repairshop-billing initialized on %s\n", time.Now().Format(DateFormat))
	if err := os.WriteFile(marker, []byte(content), 0o644); err != nil {
		// A missing marker only re-triggers the (idempotent) seed next
		// launch, so this is logged rather than failing startup.
		s.log.Warn("failed to write first-run marker", "path", marker, "error", err)
	}
}

func startupFailure(err error) *StartupResult {
	return &StartupResult{Success: false, ErrorMessage: err.Error()}
}
