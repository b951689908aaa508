package worker

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"factures/internal/amqp"
	"factures/internal/extract"
	"factures/internal/storage"
)

// ExtractionWorker consumes extraction jobs, runs the document extractor
// on the stored file and persists the resulting invoice.
type ExtractionWorker struct {
	store     storage.InvoiceStore
	extractor extract.Extractor
}

func NewExtractionWorker(store storage.InvoiceStore, extractor extract.Extractor) *ExtractionWorker {
	return &ExtractionWorker{
		store:     store,
		extractor: extractor,
	}
}

// HandleExtractionJob processes a single extraction job from AMQP
func (w *ExtractionWorker) HandleExtractionJob(ctx context.Context, msg *amqp.ExtractionJobMessage) error {
	slog.InfoContext(ctx, "Processing extraction job",
		"filename", msg.Filename,
		"stored_path", msg.StoredPath)

	f, err := os.Open(msg.StoredPath)
	if err != nil {
		return fmt.Errorf("open stored file: %w", err)
	}
	defer f.Close()

	inv, err := w.extractor.ExtractInvoice(ctx, msg.Filename, f)
	if err != nil {
		return fmt.Errorf("extract invoice: %w", err)
	}
	inv.SourceFile = msg.Filename

	created, err := w.store.CreateInvoice(ctx, inv)
	if err != nil {
		return fmt.Errorf("store invoice: %w", err)
	}

	slog.InfoContext(ctx, "Successfully stored extracted invoice",
		"id", created.ID,
		"filename", msg.Filename,
		"supplier", created.Supplier,
		"amount_ttc", created.AmountTTC)

	return nil
}
