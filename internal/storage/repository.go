package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"factures/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository backs the invoice store with a local SQLite database.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const invoiceColumns = `id, supplier, invoice_date, invoice_number, amount_ttc, is_paid, vat_details, source_file`

func scanInvoice(scanner interface{ Scan(...any) error }) (core.Invoice, error) {
	var (
		inv     core.Invoice
		paid    int64
		vatJSON string
	)
	err := scanner.Scan(&inv.ID, &inv.Supplier, &inv.Date, &inv.Number,
		&inv.AmountTTC, &paid, &vatJSON, &inv.SourceFile)
	if err != nil {
		return core.Invoice{}, err
	}
	inv.IsPaid = paid != 0
	inv.VATDetails = []core.VATLine{}
	if vatJSON != "" {
		if err := json.Unmarshal([]byte(vatJSON), &inv.VATDetails); err != nil {
			// Malformed stored VAT details degrade to "no VAT detected"
			// instead of failing the whole listing.
			inv.VATDetails = []core.VATLine{}
		}
	}
	return inv, nil
}

// ListInvoices implements InvoiceStore.
func (r *SQLiteRepository) ListInvoices(ctx context.Context) ([]core.Invoice, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+invoiceColumns+` FROM invoices ORDER BY invoice_date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query invoices: %w", err)
	}
	defer rows.Close()

	invoices := []core.Invoice{}
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate invoices: %w", err)
	}
	return invoices, nil
}

// GetInvoice implements InvoiceStore.
func (r *SQLiteRepository) GetInvoice(ctx context.Context, id int64) (core.Invoice, error) {
	inv, err := scanInvoice(r.db.QueryRowContext(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Invoice{}, ErrInvoiceNotFound
	}
	if err != nil {
		return core.Invoice{}, fmt.Errorf("get invoice %d: %w", id, err)
	}
	return inv, nil
}

// CreateInvoice implements InvoiceStore.
func (r *SQLiteRepository) CreateInvoice(ctx context.Context, inv core.Invoice) (core.Invoice, error) {
	vatJSON, err := json.Marshal(inv.VATDetails)
	if err != nil {
		return core.Invoice{}, fmt.Errorf("marshal vat details: %w", err)
	}
	if inv.VATDetails == nil {
		vatJSON = []byte("[]")
	}

	paid := 0
	if inv.IsPaid {
		paid = 1
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO invoices (supplier, invoice_date, invoice_number, amount_ttc, is_paid, vat_details, source_file)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		inv.Supplier, inv.Date, inv.Number, inv.AmountTTC.String(), paid, string(vatJSON), inv.SourceFile)
	if err != nil {
		return core.Invoice{}, fmt.Errorf("insert invoice: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Invoice{}, fmt.Errorf("read inserted invoice id: %w", err)
	}
	inv.ID = id
	if inv.VATDetails == nil {
		inv.VATDetails = []core.VATLine{}
	}

	slog.InfoContext(ctx, "Invoice saved to SQLite",
		"id", inv.ID,
		"supplier", inv.Supplier,
		"date", inv.Date,
		"amount_ttc", inv.AmountTTC.String(),
		"vat_lines", len(inv.VATDetails))

	return inv, nil
}

// SetInvoicePaid implements InvoiceStore.
func (r *SQLiteRepository) SetInvoicePaid(ctx context.Context, id int64, paid bool) error {
	value := 0
	if paid {
		value = 1
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE invoices SET is_paid = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, value, id)
	if err != nil {
		return fmt.Errorf("update invoice %d paid flag: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrInvoiceNotFound
	}
	return nil
}

// DeleteInvoice implements InvoiceStore.
func (r *SQLiteRepository) DeleteInvoice(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM invoices WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete invoice %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrInvoiceNotFound
	}
	slog.InfoContext(ctx, "Invoice deleted", "id", id)
	return nil
}
