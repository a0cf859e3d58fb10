package main

import (
	"bufio"
	"context"
	"log"
	"os"

	"repairshop-billing/internal/adapters/cli"
	"repairshop-billing/internal/adapters/repl"
	"repairshop-billing/internal/app"
	"repairshop-billing/internal/core"
	"repairshop-billing/internal/db"
	"repairshop-billing/internal/export"
	"repairshop-billing/internal/logger"

	"github.com/joho/godotenv"
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

	exporter, err := export.NewExporter(exportOptions(), zlog)
	if err != nil {
		zlog.Fatal("exporter setup failed", "error", err)
	}

	svc := app.NewAppService(bills, catalog, customers, startup, exporter)

	if len(os.Args) > 1 {
		cli.Run(ctx, svc, os.Args[1:])
		return
	}
	repl.Run(ctx, svc, bufio.NewReader(os.Stdin))
}

func exportOptions() export.Options {
	return export.Options{
		ShopName: os.Getenv("SHOP_NAME"),
		Tagline:  os.Getenv("SHOP_TAGLINE"),
		Website:  os.Getenv("SHOP_WEBSITE"),
		Phone:    os.Getenv("SHOP_PHONE"),
	}
}
