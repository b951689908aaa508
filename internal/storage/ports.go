package storage

import (
	"context"
	"errors"

	"factures/internal/core"
)

// ErrInvoiceNotFound is returned when a mutation or lookup references an
// id the store does not hold. No partial mutation occurs in that case.
var ErrInvoiceNotFound = errors.New("invoice not found")

// InvoiceStore is the persistence boundary for invoice records. The
// aggregators never mutate through it; results handed out are snapshots
// the caller may not patch in place.
type InvoiceStore interface {
	// ListInvoices returns the full current invoice set.
	ListInvoices(ctx context.Context) ([]core.Invoice, error)

	// GetInvoice returns one record by id.
	GetInvoice(ctx context.Context, id int64) (core.Invoice, error)

	// CreateInvoice persists a new record and returns it with its
	// store-assigned id.
	CreateInvoice(ctx context.Context, inv core.Invoice) (core.Invoice, error)

	// SetInvoicePaid updates the single paid flag of one record.
	SetInvoicePaid(ctx context.Context, id int64, paid bool) error

	// DeleteInvoice removes one record.
	DeleteInvoice(ctx context.Context, id int64) error
}
