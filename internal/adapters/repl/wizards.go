package repl

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"

	"repairshop-billing/internal/app"
	"repairshop-billing/internal/core"

	"github.com/shopspring/decimal"
)

// handleNewBill runs an interactive bill creation session.
func handleNewBill(ctx context.Context, reader *bufio.Reader, svc app.ApplicationService) {
	fmt.Print("Customer name: ")
	customerName, _ := reader.ReadString('\n')
	customerName = strings.TrimSpace(customerName)
	if customerName == "" {
		fmt.Println("Customer name is required. Bill not created.")
		return
	}

	customerID := 0
	matches, err := svc.FindCustomers(ctx, customerName)
	if err == nil && len(matches.Customers) > 0 {
		fmt.Println("Matching customers:")
		for _, c := range matches.Customers {
			fmt.Printf("  %d: %s (%s)\n", c.ID, c.Name, c.ContactInfo)
		}
		fmt.Print("Customer id (blank for walk-in): ")
		raw, _ := reader.ReadString('\n')
		if id, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && id > 0 {
			customerID = id
		}
	}

	fmt.Print("Device type (optional): ")
	deviceType, _ := reader.ReadString('\n')
	deviceType = strings.TrimSpace(deviceType)

	fmt.Println("Enter bill items. Type 'done' when finished, 'cancel' to abort.")
	fmt.Println("Format per line: <service-id> [quantity]  or  custom <price> <description>")
	fmt.Println("  Example: 3 2          (catalog service 3, quantity 2)")
	fmt.Println("  Example: custom 45.50 RAM upgrade")

	var items []app.BillItemInput
	for {
		fmt.Printf("  Item %d: ", len(items)+1)
		raw, _ := reader.ReadString('\n')
		raw = strings.TrimSpace(raw)
		if strings.ToLower(raw) == "cancel" {
			fmt.Println("Bill creation cancelled.")
			return
		}
		if strings.ToLower(raw) == "done" {
			break
		}
		if raw == "" {
			continue
		}

		parts := strings.Fields(raw)
		if strings.ToLower(parts[0]) == "custom" {
			if len(parts) < 3 {
				fmt.Println("  Invalid format. Use: custom <price> <description>")
				continue
			}
			price, err := decimal.NewFromString(parts[1])
			if err != nil || price.IsNegative() {
				fmt.Printf("  Invalid price: %s\n", parts[1])
				continue
			}
			items = append(items, app.BillItemInput{
				Description: strings.Join(parts[2:], " "),
				Quantity:    1,
				UnitPrice:   price,
			})
			continue
		}

		serviceID, err := strconv.Atoi(parts[0])
		if err != nil {
			fmt.Println("  Invalid format. Use: <service-id> [quantity]")
			continue
		}
		service := findService(ctx, svc, serviceID)
		if service == nil {
			fmt.Printf("  No active service with id %d. Use /services to list them.\n", serviceID)
			continue
		}

		// Unparsable or non-positive quantity falls back to 1 rather than
		// blocking the wizard.
		quantity := 1
		if len(parts) >= 2 {
			if q, err := strconv.Atoi(parts[1]); err == nil && q > 0 {
				quantity = q
			}
		}

		items = append(items, app.BillItemInput{
			Description: core.DescriptionForService(service.Name, service.Category),
			Quantity:    quantity,
			UnitPrice:   service.Price,
		})
		fmt.Printf("  Added %s x%d @ %s\n", service.Name, quantity, service.Price.StringFixed(2))
	}

	if len(items) == 0 {
		fmt.Println("No items entered. Bill not created.")
		return
	}

	result, err := svc.SaveBill(ctx, app.SaveBillRequest{
		CustomerID:   customerID,
		CustomerName: customerName,
		DeviceType:   deviceType,
		Items:        items,
	})
	if err != nil {
		fmt.Printf("Error creating bill: %v\n", err)
		return
	}

	fmt.Printf("\nBill created (#%04d)\n", result.Bill.ID)
	printBillDetail(result.Bill)
	fmt.Printf("Use '/export %d' to render the invoice.\n", result.Bill.ID)
}

func findService(ctx context.Context, svc app.ApplicationService, id int) *core.Service {
	result, err := svc.ListServices(ctx)
	if err != nil {
		return nil
	}
	for i := range result.Services {
		if result.Services[i].ID == id {
			return &result.Services[i]
		}
	}
	return nil
}

// handleNewCustomer runs an interactive customer registration session.
func handleNewCustomer(ctx context.Context, reader *bufio.Reader, svc app.ApplicationService) {
	fmt.Print("Name: ")
	name, _ := reader.ReadString('\n')
	name = strings.TrimSpace(name)
	if name == "" {
		fmt.Println("Name is required. Customer not created.")
		return
	}

	fmt.Print("Contact info (optional): ")
	contact, _ := reader.ReadString('\n')
	contact = strings.TrimSpace(contact)

	result, err := svc.CreateCustomer(ctx, app.CreateCustomerRequest{Name: name, ContactInfo: contact})
	if err != nil {
		fmt.Printf("Error creating customer: %v\n", err)
		return
	}
	fmt.Printf("Customer created (ID: %d)\n", result.Customer.ID)
}
