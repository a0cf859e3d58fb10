package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"

	"repairshop-billing/internal/app"
)

// Run executes a one-shot CLI command and exits.
// args is os.Args[1:] — the first element is the subcommand name.
func Run(ctx context.Context, svc app.ApplicationService, args []string) {
	switch args[0] {
	case "bills", "b":
		result, err := svc.ListBills(ctx)
		if err != nil {
			log.Fatalf("Failed to list bills: %v", err)
		}
		printJSON(result.Bills)

	case "bill":
		if len(args) < 2 {
			log.Fatal("Usage: app bill <bill-id>")
		}
		id := mustAtoi(args[1], "bill id")
		result, err := svc.GetBill(ctx, id)
		if err != nil {
			log.Fatalf("Failed to get bill: %v", err)
		}
		printJSON(result.Bill)

	case "find", "f":
		if len(args) < 2 {
			log.Fatal("Usage: app find \"<customer-name>\"")
		}
		result, err := svc.SearchBills(ctx, args[1])
		if err != nil {
			log.Fatalf("Search failed: %v", err)
		}
		printJSON(result.Bills)

	case "save-bill":
		var req app.SaveBillRequest
		if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
			log.Fatalf("Invalid JSON: %v", err)
		}
		result, err := svc.SaveBill(ctx, req)
		if err != nil {
			log.Fatalf("Save failed: %v", err)
		}
		printJSON(result.Bill)

	case "services", "s":
		result, err := svc.ListServices(ctx)
		if err != nil {
			log.Fatalf("Failed to list services: %v", err)
		}
		printJSON(result.Services)

	case "categories":
		result, err := svc.ListCategories(ctx)
		if err != nil {
			log.Fatalf("Failed to list categories: %v", err)
		}
		printJSON(result.Categories)

	case "customers":
		result, err := svc.ListCustomers(ctx)
		if err != nil {
			log.Fatalf("Failed to list customers: %v", err)
		}
		printJSON(result.Customers)

	case "export", "x":
		if len(args) < 2 {
			log.Fatal("Usage: app export <bill-id> [text|png] [out-path]")
		}
		req := app.ExportInvoiceRequest{BillID: mustAtoi(args[1], "bill id")}
		if len(args) >= 3 {
			req.Format = args[2]
		}
		if len(args) >= 4 {
			req.OutPath = args[3]
		}
		result, err := svc.ExportInvoice(ctx, req)
		if err != nil {
			log.Fatalf("Export failed: %v", err)
		}
		for _, path := range result.Paths {
			fmt.Println(path)
		}

	case "health":
		result, err := svc.HealthCheck(ctx)
		if err != nil {
			log.Fatalf("Health check failed: %v", err)
		}
		printJSON(result)
		if !result.Healthy() {
			os.Exit(1)
		}

	default:
		log.Fatalf("Unknown command: %s\nAvailable: bills, bill, find, save-bill, services, categories, customers, export, health", args[0])
	}
}

func mustAtoi(s, what string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("Invalid %s: %s", what, s)
	}
	return n
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}
