package main

import (
	"context"
	"log"
	"os"
	"time"

	"repairshop-billing/internal/core"
	"repairshop-billing/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

// verify-db connects to the configured database, ensures the schema exists,
// and reports table sizes and catalog health. Exits non-zero when unhealthy.
func main() {
	_ = godotenv.Load()

	url := os.Getenv("DATABASE_URL")
	if url == "" {
		log.Fatal("[CONNECT] DATABASE_URL is not set")
	}

	ctx := context.Background()
	pool := connectDB(ctx, url)
	defer pool.Close()

	zlog := logger.NewNop()
	bills := core.NewBillService(pool, zlog)
	catalog := core.NewCatalogService(pool, zlog)

	if err := bills.Init(ctx); err != nil {
		log.Fatalf("[SCHEMA] failed to ensure schema: %v", err)
	}
	log.Println("[SCHEMA] success")

	for _, table := range []string{"customers", "bills", "bill_items", "services"} {
		var count int
		if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count); err != nil {
			log.Fatalf("[TABLES] %s: %v", table, err)
		}
		log.Printf("[TABLES] %-12s %d rows", table, count)
	}

	categories, err := catalog.GetServiceCategories(ctx)
	if err != nil {
		log.Fatalf("[CATALOG] failed to read categories: %v", err)
	}
	log.Printf("[CATALOG] %d categories: %v", len(categories), categories)

	startup := core.NewStartupService(bills, catalog, "", zlog)
	check := startup.HealthCheck(ctx)
	for _, w := range check.Warnings {
		log.Printf("[HEALTH] warning: %s", w)
	}
	if !check.Healthy() {
		log.Printf("[HEALTH] UNHEALTHY: %s", check.ErrorMessage)
		os.Exit(1)
	}
	log.Printf("[HEALTH] OK (%d active services)", check.ServiceCount)
}

func connectDB(ctx context.Context, url string) *pgxpool.Pool {
	connCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		log.Fatalf("[CONNECT] failed to create pool: %v", err)
	}
	if err := pool.Ping(connCtx); err != nil {
		log.Fatalf("[CONNECT] failed to ping database: %v", err)
	}
	log.Println("[CONNECT] success")
	return pool
}
