// Package upload receives invoice files and routes each one into the
// extraction pipeline, either through the job queue or inline when no
// broker is configured.
package upload

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"factures/internal/extract"
	"factures/internal/storage"
)

// Result reports the outcome for a single uploaded file.
type Result struct {
	Filename  string `json:"filename"`
	Status    string `json:"status"`
	InvoiceID int64  `json:"invoice_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

// BatchReport summarizes an upload batch. Failed files never abort the
// batch, each file succeeds or fails on its own.
type BatchReport struct {
	Accepted int      `json:"accepted"`
	Failed   int      `json:"failed"`
	Results  []Result `json:"results"`
}

// Statuses for Result.Status.
const (
	StatusQueued    = "queued"
	StatusExtracted = "extracted"
	StatusFailed    = "failed"
)

// JobPublisher enqueues an extraction job for a stored file.
type JobPublisher interface {
	PublishExtractionJob(ctx context.Context, filename, storedPath string) error
}

// Service stores uploaded files and dispatches extraction work.
type Service struct {
	dir       string
	workers   int
	maxBytes  int64
	publisher JobPublisher
	extractor extract.Extractor
	store     storage.InvoiceStore
}

// NewService builds an upload service. publisher may be nil, in which
// case files are extracted inline using extractor. Both may be nil, then
// uploads are stored but reported as failed.
func NewService(dir string, workers int, maxBytes int64, publisher JobPublisher, extractor extract.Extractor, store storage.InvoiceStore) (*Service, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	if workers < 1 {
		workers = 1
	}

	return &Service{
		dir:       dir,
		workers:   workers,
		maxBytes:  maxBytes,
		publisher: publisher,
		extractor: extractor,
		store:     store,
	}, nil
}

// ProcessBatch handles every file in the batch concurrently, bounded by
// the worker limit. The returned report preserves the input order.
func (s *Service) ProcessBatch(ctx context.Context, files []*multipart.FileHeader) BatchReport {
	results := make([]Result, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, fh := range files {
		g.Go(func() error {
			results[i] = s.processFile(ctx, fh)
			return nil
		})
	}
	g.Wait()

	report := BatchReport{Results: results}
	for _, r := range results {
		if r.Status == StatusFailed {
			report.Failed++
		} else {
			report.Accepted++
		}
	}

	slog.InfoContext(ctx, "Processed upload batch",
		"files", len(files),
		"accepted", report.Accepted,
		"failed", report.Failed)

	return report
}

func (s *Service) processFile(ctx context.Context, fh *multipart.FileHeader) Result {
	result := Result{Filename: fh.Filename, Status: StatusFailed}

	if s.maxBytes > 0 && fh.Size > s.maxBytes {
		result.Error = fmt.Sprintf("file exceeds %d bytes", s.maxBytes)
		return result
	}

	storedPath, err := s.saveFile(fh)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to store upload", "filename", fh.Filename, "error", err)
		result.Error = err.Error()
		return result
	}

	switch {
	case s.publisher != nil:
		if err := s.publisher.PublishExtractionJob(ctx, fh.Filename, storedPath); err != nil {
			slog.ErrorContext(ctx, "Failed to enqueue extraction", "filename", fh.Filename, "error", err)
			result.Error = err.Error()
			return result
		}
		result.Status = StatusQueued

	case s.extractor != nil && s.store != nil:
		inv, err := s.extractInline(ctx, fh.Filename, storedPath)
		if err != nil {
			result.Error = err.Error()
			return result
		}
		result.Status = StatusExtracted
		result.InvoiceID = inv
	default:
		result.Error = "no extraction pipeline configured"
	}

	return result
}

// saveFile writes the upload to the storage dir under a collision-safe
// name and returns the stored path.
func (s *Service) saveFile(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	name := fmt.Sprintf("%d_%s", time.Now().UnixNano(), filepath.Base(fh.Filename))
	storedPath := filepath.Join(s.dir, name)

	dst, err := os.Create(storedPath)
	if err != nil {
		return "", fmt.Errorf("create stored file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(storedPath)
		return "", fmt.Errorf("write stored file: %w", err)
	}

	return storedPath, nil
}

func (s *Service) extractInline(ctx context.Context, filename, storedPath string) (int64, error) {
	f, err := os.Open(storedPath)
	if err != nil {
		return 0, fmt.Errorf("open stored file: %w", err)
	}
	defer f.Close()

	inv, err := s.extractor.ExtractInvoice(ctx, filename, f)
	if err != nil {
		return 0, fmt.Errorf("extract invoice: %w", err)
	}
	inv.SourceFile = filename

	created, err := s.store.CreateInvoice(ctx, inv)
	if err != nil {
		return 0, fmt.Errorf("store invoice: %w", err)
	}
	return created.ID, nil
}
