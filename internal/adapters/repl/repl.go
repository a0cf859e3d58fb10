package repl

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"

	"repairshop-billing/internal/app"
)

// Run starts the interactive REPL loop. It reads slash commands from reader
// and dispatches them against the application service.
func Run(ctx context.Context, svc app.ApplicationService, reader *bufio.Reader) {
	fmt.Println("Repair Shop Billing")
	fmt.Println("Type /help for commands.")
	fmt.Println(strings.Repeat("-", 70))

	errExit := fmt.Errorf("exit")

	dispatchSlash := func(input string) error {
		tokens := strings.Fields(strings.TrimPrefix(input, "/"))
		if len(tokens) == 0 {
			return nil
		}
		cmd := strings.ToLower(tokens[0])
		args := tokens[1:]

		switch cmd {
		case "bills":
			result, err := svc.ListBills(ctx)
			if err != nil {
				return err
			}
			printBills(result, "ALL BILLS")

		case "find":
			if len(args) < 1 {
				fmt.Println("Usage: /find <customer-name>")
				return nil
			}
			query := strings.Join(args, " ")
			result, err := svc.SearchBills(ctx, query)
			if err != nil {
				return err
			}
			printBills(result, fmt.Sprintf("BILLS MATCHING %q", query))

		case "bill":
			if len(args) < 1 {
				fmt.Println("Usage: /bill <bill-id>")
				return nil
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				fmt.Printf("Invalid bill id: %s\n", args[0])
				return nil
			}
			result, err := svc.GetBill(ctx, id)
			if err != nil {
				return err
			}
			printBillDetail(result.Bill)

		case "new-bill":
			handleNewBill(ctx, reader, svc)

		case "services":
			if len(args) > 0 {
				category := strings.ToUpper(strings.Join(args, " "))
				result, err := svc.ListServicesByCategory(ctx, category)
				if err != nil {
					return err
				}
				printServices(result)
				return nil
			}
			result, err := svc.ListServices(ctx)
			if err != nil {
				return err
			}
			printServices(result)

		case "categories":
			result, err := svc.ListCategories(ctx)
			if err != nil {
				return err
			}
			printCategories(result)

		case "deactivate":
			if len(args) < 1 {
				fmt.Println("Usage: /deactivate <service-id>")
				return nil
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				fmt.Printf("Invalid service id: %s\n", args[0])
				return nil
			}
			if err := svc.DeactivateService(ctx, id); err != nil {
				return err
			}
			fmt.Printf("Service %d deactivated.\n", id)

		case "customers":
			result, err := svc.ListCustomers(ctx)
			if err != nil {
				return err
			}
			printCustomers(result)

		case "new-customer":
			handleNewCustomer(ctx, reader, svc)

		case "export":
			if len(args) < 1 {
				fmt.Println("Usage: /export <bill-id> [text|png] [out-path]")
				return nil
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				fmt.Printf("Invalid bill id: %s\n", args[0])
				return nil
			}
			req := app.ExportInvoiceRequest{BillID: id}
			if len(args) >= 2 {
				req.Format = args[1]
			}
			if len(args) >= 3 {
				req.OutPath = args[2]
			}
			result, err := svc.ExportInvoice(ctx, req)
			if err != nil {
				return err
			}
			for _, path := range result.Paths {
				fmt.Printf("Wrote %s\n", path)
			}

		case "health":
			result, err := svc.HealthCheck(ctx)
			if err != nil {
				return err
			}
			printHealth(result)

		case "help", "h":
			printHelp()

		case "exit", "quit", "e", "q":
			return errExit

		default:
			fmt.Printf("Unknown command: /%s  (type /help for all commands)\n", cmd)
		}
		return nil
	}

	for {
		fmt.Print("\n> ")
		input, _ := reader.ReadString('\n')
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if !strings.HasPrefix(input, "/") {
			fmt.Println("Commands start with a slash. Type /help for the list.")
			continue
		}
		if err := dispatchSlash(input); err != nil {
			if err == errExit {
				fmt.Println("Goodbye!")
				break
			}
			fmt.Printf("Error: %v\n", err)
		}
	}
}
