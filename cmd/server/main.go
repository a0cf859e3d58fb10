package main

import (
	"context"
	"log"
	"net/http"
	"os"

	webAdapter "repairshop-billing/internal/adapters/web"
	"repairshop-billing/internal/app"
	"repairshop-billing/internal/core"
	"repairshop-billing/internal/db"
	"repairshop-billing/internal/export"
	"repairshop-billing/internal/logger"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

func main() {
	_ = godotenv.Load()

	zlog, err := logger.New(os.Getenv("APP_ENV"))
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zlog.Sync()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		zlog.Fatal("unable to connect to database", "error", err)
	}
	defer pool.Close()

	bills := core.NewBillService(pool, zlog)
	catalog := core.NewCatalogService(pool, zlog)
	customers := core.NewCustomerService(pool, zlog)
	startup := core.NewStartupService(bills, catalog, "", zlog)

	result := startup.InitializeApplication(ctx)
	if !result.Success {
		zlog.Fatal("application initialization failed", "error", result.ErrorMessage)
	}

	exporter, err := export.NewExporter(export.Options{
		ShopName: os.Getenv("SHOP_NAME"),
		Tagline:  os.Getenv("SHOP_TAGLINE"),
		Website:  os.Getenv("SHOP_WEBSITE"),
		Phone:    os.Getenv("SHOP_PHONE"),
	}, zlog)
	if err != nil {
		zlog.Fatal("exporter setup failed", "error", err)
	}

	svc := app.NewAppService(bills, catalog, customers, startup, exporter)

	// Periodic background health check; results surface in the logs and
	// through GET /api/health.
	scheduler := cron.New()
	schedule := os.Getenv("HEALTH_CHECK_SCHEDULE")
	if schedule == "" {
		schedule = "@every 5m"
	}
	if _, err := scheduler.AddFunc(schedule, func() {
		check := startup.HealthCheck(ctx)
		if !check.Healthy() {
			zlog.Warn("health check failed",
				"error", check.ErrorMessage, "warnings", check.Warnings)
			return
		}
		if len(check.Warnings) > 0 {
			zlog.Warn("health check warnings", "warnings", check.Warnings)
		}
	}); err != nil {
		zlog.Fatal("invalid health check schedule", "schedule", schedule, "error", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	handler := webAdapter.NewHandler(svc, os.Getenv("ALLOWED_ORIGINS"), zlog)

	zlog.Info("server starting", "port", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		zlog.Fatal("server stopped", "error", err)
	}
}
