// Package extract turns uploaded invoice files into structured invoices.
//
// The only production implementation calls Google Document AI's invoice
// processor. The interface exists so the upload service and the worker can
// be tested without network access.
package extract

import (
	"context"
	"io"

	"factures/internal/core"
)

// Extractor reads a raw invoice document and returns the structured
// invoice fields found in it. Implementations must tolerate partial
// extractions: a missing field is returned as its zero value, never as
// an error.
type Extractor interface {
	ExtractInvoice(ctx context.Context, filename string, r io.Reader) (core.Invoice, error)
}
