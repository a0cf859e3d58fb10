package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"repairshop-billing/internal/logger"
)

// BillService is the durable store for bills and their items. Each call
// opens its own transaction where one is needed; the service assumes a
// single logical writer and provides no cross-call ordering beyond what the
// store's transaction isolation gives.
type BillService interface {
	// Init idempotently creates the four tables. It never drops or migrates
	// existing data and is safe to call on every startup.
	Init(ctx context.Context) error

	// SaveBill persists the bill atomically: header insert-or-update, full
	// item replacement, item inserts, all in one transaction.
	// On first save the generated id is assigned back onto the aggregate.
	SaveBill(ctx context.Context, bill *Bill) (int, error)

	// GetBillByID returns the bill with its item list populated, or an
	// error wrapping ErrBillNotFound.
	GetBillByID(ctx context.Context, billID int) (*Bill, error)

	// GetBills returns all bills, items loaded, newest first.
	GetBills(ctx context.Context) ([]Bill, error)

	// SearchBillsByCustomer returns bills whose customer name contains the
	// given substring, case-insensitively, newest first.
	SearchBillsByCustomer(ctx context.Context, customerName string) ([]Bill, error)
}

type billService struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

func NewBillService(pool *pgxpool.Pool, log *logger.Logger) BillService {
	return &billService{pool: pool, log: log}
}

// Schema statements are create-if-absent only. The quantity and price checks
// mirror the aggregate's own invariants so no client can persist a line the
// aggregate would reject.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS customers (
		customer_id   SERIAL PRIMARY KEY,
		name          TEXT NOT NULL,
		contact_info  TEXT NOT NULL DEFAULT '',
		created_date  TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS bills (
		bill_id       SERIAL PRIMARY KEY,
		customer_id   INTEGER REFERENCES customers (customer_id),
		customer_name TEXT NOT NULL,
		device_type   TEXT NOT NULL DEFAULT '',
		date          TEXT NOT NULL,
		total_amount  NUMERIC(12,2) NOT NULL CHECK (total_amount >= 0)
	)`,
	`CREATE TABLE IF NOT EXISTS bill_items (
		bill_item_id  SERIAL PRIMARY KEY,
		bill_id       INTEGER NOT NULL REFERENCES bills (bill_id),
		description   TEXT NOT NULL,
		quantity      INTEGER NOT NULL CHECK (quantity >= 1),
		unit_price    NUMERIC(12,2) NOT NULL CHECK (unit_price >= 0)
	)`,
	`CREATE TABLE IF NOT EXISTS services (
		service_id    SERIAL PRIMARY KEY,
		name          TEXT NOT NULL,
		price         NUMERIC(12,2) NOT NULL CHECK (price >= 0),
		category      TEXT NOT NULL,
		is_active     BOOLEAN NOT NULL DEFAULT TRUE
	)`,
}

func (s *billService) Init(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}

func (s *billService) SaveBill(ctx context.Context, bill *Bill) (int, error) {
	if err := bill.Validate(); err != nil {
		return 0, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// A zero or negative customer id is stored as NULL so the bill never
	// references a nonexistent customer row.
	var customerID any
	if bill.CustomerID > 0 {
		customerID = bill.CustomerID
	}

	total := bill.Total()
	date := bill.Date.Format(DateFormat)

	billID := bill.ID
	if billID == 0 {
		err = tx.QueryRow(ctx, `
			INSERT INTO bills (customer_id, customer_name, device_type, date, total_amount)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING bill_id
		`, customerID, bill.CustomerName, bill.DeviceType, date, total).Scan(&billID)
		if err != nil {
			return 0, fmt.Errorf("failed to insert bill: %w", err)
		}
	} else {
		ct, err := tx.Exec(ctx, `
			UPDATE bills
			SET customer_id = $1, customer_name = $2, device_type = $3, date = $4, total_amount = $5
			WHERE bill_id = $6
		`, customerID, bill.CustomerName, bill.DeviceType, date, total, billID)
		if err != nil {
			return 0, fmt.Errorf("failed to update bill %d: %w", billID, err)
		}
		if ct.RowsAffected() == 0 {
			return 0, fmt.Errorf("bill %d: %w", billID, ErrBillNotFound)
		}

		// Full replacement: the prior item set is discarded, never merged.
		if _, err := tx.Exec(ctx, "DELETE FROM bill_items WHERE bill_id = $1", billID); err != nil {
			return 0, fmt.Errorf("failed to clear items for bill %d: %w", billID, err)
		}
	}

	for i := range bill.Items {
		it := &bill.Items[i]
		err = tx.QueryRow(ctx, `
			INSERT INTO bill_items (bill_id, description, quantity, unit_price)
			VALUES ($1, $2, $3, $4)
			RETURNING bill_item_id
		`, billID, it.Description, it.Quantity, it.UnitPrice).Scan(&it.ID)
		if err != nil {
			return 0, fmt.Errorf("failed to insert item %d for bill %d: %w", i+1, billID, err)
		}
		it.BillID = billID
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit bill save: %w", err)
	}

	bill.ID = billID
	bill.StoredTotal = total
	bill.TotalMismatch = false
	return billID, nil
}

const billColumns = "bill_id, COALESCE(customer_id, 0), customer_name, device_type, date, total_amount"

func (s *billService) GetBillByID(ctx context.Context, billID int) (*Bill, error) {
	row := s.pool.QueryRow(ctx,
		"SELECT "+billColumns+" FROM bills WHERE bill_id = $1", billID)

	bill, err := scanBill(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("bill %d: %w", billID, ErrBillNotFound)
		}
		return nil, fmt.Errorf("failed to fetch bill %d: %w", billID, err)
	}

	if err := s.loadItems(ctx, bill); err != nil {
		return nil, err
	}
	return bill, nil
}

func (s *billService) GetBills(ctx context.Context) ([]Bill, error) {
	return s.queryBills(ctx,
		"SELECT "+billColumns+" FROM bills ORDER BY date DESC")
}

func (s *billService) SearchBillsByCustomer(ctx context.Context, customerName string) ([]Bill, error) {
	return s.queryBills(ctx,
		"SELECT "+billColumns+" FROM bills WHERE customer_name ILIKE $1 ORDER BY date DESC",
		"%"+customerName+"%")
}

func (s *billService) queryBills(ctx context.Context, sql string, args ...any) ([]Bill, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bills: %w", err)
	}
	defer rows.Close()

	var bills []Bill
	for rows.Next() {
		bill, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		bills = append(bills, *bill)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read bills: %w", err)
	}

	// Items are loaded by a separate keyed query per bill, after the list
	// cursor is closed.
	for i := range bills {
		if err := s.loadItems(ctx, &bills[i]); err != nil {
			return nil, err
		}
	}
	return bills, nil
}

func scanBill(row pgx.Row) (*Bill, error) {
	var b Bill
	var date string
	if err := row.Scan(&b.ID, &b.CustomerID, &b.CustomerName, &b.DeviceType, &date, &b.StoredTotal); err != nil {
		return nil, err
	}
	parsed, err := time.Parse(DateFormat, date)
	if err != nil {
		return nil, fmt.Errorf("bill %d has malformed date %q: %w", b.ID, date, err)
	}
	b.Date = parsed
	return &b, nil
}

func (s *billService) loadItems(ctx context.Context, bill *Bill) error {
	rows, err := s.pool.Query(ctx, `
		SELECT bill_item_id, bill_id, description, quantity, unit_price
		FROM bill_items
		WHERE bill_id = $1
		ORDER BY bill_item_id
	`, bill.ID)
	if err != nil {
		return fmt.Errorf("failed to query items for bill %d: %w", bill.ID, err)
	}
	defer rows.Close()

	var items []BillItem
	for rows.Next() {
		var it BillItem
		if err := rows.Scan(&it.ID, &it.BillID, &it.Description, &it.Quantity, &it.UnitPrice); err != nil {
			return fmt.Errorf("failed to scan item for bill %d: %w", bill.ID, err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read items for bill %d: %w", bill.ID, err)
	}

	bill.Items = items
	bill.checkStoredTotal()
	if bill.TotalMismatch {
		s.log.Warn("stored bill total diverges from item sum",
			"bill_id", bill.ID,
			"stored_total", bill.StoredTotal.StringFixed(2),
			"item_sum", bill.Total().StringFixed(2))
	}
	return nil
}
