package repl

import (
	"fmt"
	"strings"

	"repairshop-billing/internal/app"
	"repairshop-billing/internal/core"
)

func printBills(result *app.BillListResult, title string) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 78))
	fmt.Printf("  %s\n", title)
	fmt.Println(strings.Repeat("=", 78))
	if len(result.Bills) == 0 {
		fmt.Println("  No bills found.")
		fmt.Println(strings.Repeat("=", 78))
		return
	}
	fmt.Printf("  %-6s %-24s %-16s %-20s %10s\n", "ID", "CUSTOMER", "DEVICE", "DATE", "TOTAL")
	fmt.Println(strings.Repeat("-", 78))
	for _, b := range result.Bills {
		device := b.DeviceType
		if len(device) > 15 {
			device = device[:12] + "..."
		}
		total := b.StoredTotal.StringFixed(2)
		if b.TotalMismatch {
			total += " !"
		}
		fmt.Printf("  %-6d %-24s %-16s %-20s %10s\n",
			b.ID, b.CustomerName, device, b.Date.Format(core.DateFormat), total)
	}
	fmt.Println(strings.Repeat("=", 78))
}

func printBillDetail(b *core.Bill) {
	fmt.Println()
	fmt.Println(strings.Repeat("-", 62))
	fmt.Printf("  Bill:      #%04d\n", b.ID)
	fmt.Printf("  Customer:  %s\n", b.CustomerName)
	if b.DeviceType != "" {
		fmt.Printf("  Device:    %s\n", b.DeviceType)
	}
	fmt.Printf("  Date:      %s\n", b.Date.Format(core.DateFormat))
	fmt.Println(strings.Repeat("-", 62))
	fmt.Printf("  %-5s %-30s %6s %12s\n", "LINE", "DESCRIPTION", "QTY", "TOTAL")
	fmt.Println(strings.Repeat("-", 62))
	for i, item := range b.Items {
		desc := item.Description
		if len(desc) > 30 {
			desc = desc[:27] + "..."
		}
		fmt.Printf("  %-5d %-30s %6d %12s\n", i+1, desc, item.Quantity, item.LineTotal().StringFixed(2))
	}
	fmt.Println(strings.Repeat("-", 62))
	fmt.Printf("  %-43s %12s\n", "TOTAL", b.Total().StringFixed(2))
	if b.TotalMismatch {
		fmt.Printf("  WARNING: stored total %s does not match the item sum.\n", b.StoredTotal.StringFixed(2))
	}
	fmt.Println(strings.Repeat("-", 62))
}

func printServices(result *app.ServiceListResult) {
	title := "SERVICES"
	if result.Category != "" {
		title = fmt.Sprintf("SERVICES — %s", result.Category)
	}
	fmt.Println()
	fmt.Println(strings.Repeat("=", 66))
	fmt.Printf("  %s\n", title)
	fmt.Println(strings.Repeat("=", 66))
	if len(result.Services) == 0 {
		fmt.Println("  No services found.")
		fmt.Println(strings.Repeat("=", 66))
		return
	}
	fmt.Printf("  %-6s %-30s %-14s %10s\n", "ID", "NAME", "CATEGORY", "PRICE")
	fmt.Println(strings.Repeat("-", 66))
	for _, s := range result.Services {
		fmt.Printf("  %-6d %-30s %-14s %10s\n", s.ID, s.Name, s.Category, s.Price.StringFixed(2))
	}
	fmt.Println(strings.Repeat("=", 66))
}

func printCategories(result *app.CategoryListResult) {
	fmt.Println()
	fmt.Println("SERVICE CATEGORIES")
	fmt.Println(strings.Repeat("-", 30))
	for _, c := range result.Categories {
		fmt.Printf("  %s\n", c)
	}
	fmt.Println(strings.Repeat("-", 30))
}

func printCustomers(result *app.CustomerListResult) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 72))
	fmt.Println("  CUSTOMERS")
	fmt.Println(strings.Repeat("=", 72))
	if len(result.Customers) == 0 {
		fmt.Println("  No customers found.")
		fmt.Println(strings.Repeat("=", 72))
		return
	}
	fmt.Printf("  %-6s %-28s %-34s\n", "ID", "NAME", "CONTACT")
	fmt.Println(strings.Repeat("-", 72))
	for _, c := range result.Customers {
		fmt.Printf("  %-6d %-28s %-34s\n", c.ID, c.Name, c.ContactInfo)
	}
	fmt.Println(strings.Repeat("=", 72))
}

func printHealth(result *core.HealthCheckResult) {
	fmt.Println()
	fmt.Println("HEALTH CHECK")
	fmt.Println(strings.Repeat("-", 40))
	fmt.Printf("  Database accessible: %v\n", result.DatabaseAccessible)
	fmt.Printf("  Catalog loaded:      %v (%d services)\n", result.ServiceCatalogLoaded, result.ServiceCount)
	for _, w := range result.Warnings {
		fmt.Printf("  Warning: %s\n", w)
	}
	if result.ErrorMessage != "" {
		fmt.Printf("  Error: %s\n", result.ErrorMessage)
	}
	if result.Healthy() {
		fmt.Println("  Status: HEALTHY")
	} else {
		fmt.Println("  Status: UNHEALTHY")
	}
	fmt.Println(strings.Repeat("-", 40))
}

func printHelp() {
	fmt.Println()
	fmt.Println("REPAIR SHOP BILLING — COMMANDS")
	fmt.Println(strings.Repeat("=", 62))
	fmt.Println()
	fmt.Println("  BILLS")
	fmt.Println("  /bills                           List all bills, newest first")
	fmt.Println("  /find <customer-name>            Search bills by customer name")
	fmt.Println("  /bill <bill-id>                  Show one bill with its items")
	fmt.Println("  /new-bill                        Create a bill (interactive)")
	fmt.Println("  /export <bill-id> [text|png]     Export an invoice")
	fmt.Println()
	fmt.Println("  SERVICE CATALOG")
	fmt.Println("  /services [category]             List active services")
	fmt.Println("  /categories                      List service categories")
	fmt.Println("  /deactivate <service-id>         Soft-delete a service")
	fmt.Println()
	fmt.Println("  CUSTOMERS")
	fmt.Println("  /customers                       List customers")
	fmt.Println("  /new-customer                    Register a customer (interactive)")
	fmt.Println()
	fmt.Println("  SESSION")
	fmt.Println("  /health                          Database and catalog health check")
	fmt.Println("  /help                            Show this help")
	fmt.Println("  /exit                            Exit")
	fmt.Println(strings.Repeat("=", 62))
}
