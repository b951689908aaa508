package extract

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/shopspring/decimal"
	"google.golang.org/api/option"

	"factures/internal/core"
)

// maxDocumentSizeBytes is the Document AI synchronous processing limit (20MB).
const maxDocumentSizeBytes = 20 * 1024 * 1024

// Config holds the Document AI processor coordinates.
type Config struct {
	ProjectID   string
	Location    string
	ProcessorID string
	Timeout     time.Duration
}

func DefaultConfig() Config {
	return Config{
		Location: "eu",
		Timeout:  60 * time.Second,
	}
}

// DocumentAIExtractor extracts invoice fields using the Google Document AI
// invoice processor.
type DocumentAIExtractor struct {
	client *documentai.DocumentProcessorClient
	config Config
}

func NewDocumentAIExtractor(ctx context.Context, config Config) (*DocumentAIExtractor, error) {
	if config.ProjectID == "" {
		return nil, ErrMissingProject
	}
	if config.Location == "" {
		config.Location = "eu"
	}
	if config.Timeout <= 0 {
		config.Timeout = 60 * time.Second
	}

	var opts []option.ClientOption
	if config.Location != "us" {
		endpoint := fmt.Sprintf("%s-documentai.googleapis.com:443", config.Location)
		opts = append(opts, option.WithEndpoint(endpoint))
	}

	client, err := documentai.NewDocumentProcessorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create document AI client: %w", err)
	}

	return &DocumentAIExtractor{client: client, config: config}, nil
}

func (e *DocumentAIExtractor) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}

func (e *DocumentAIExtractor) processorName() string {
	return fmt.Sprintf("projects/%s/locations/%s/processors/%s",
		e.config.ProjectID, e.config.Location, e.config.ProcessorID)
}

// ExtractInvoice implements Extractor.
func (e *DocumentAIExtractor) ExtractInvoice(ctx context.Context, filename string, r io.Reader) (core.Invoice, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return core.Invoice{}, fmt.Errorf("read document: %w", err)
	}
	if len(content) > maxDocumentSizeBytes {
		return core.Invoice{}, fmt.Errorf("%w: %d bytes", ErrFileTooLarge, len(content))
	}

	ctx, cancel := context.WithTimeout(ctx, e.config.Timeout)
	defer cancel()

	req := &documentaipb.ProcessRequest{
		Name: e.processorName(),
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  content,
				MimeType: mimeTypeFor(filename),
			},
		},
	}

	resp, err := e.client.ProcessDocument(ctx, req)
	if err != nil {
		return core.Invoice{}, fmt.Errorf("process document: %w", err)
	}
	if resp.Document == nil {
		return core.Invoice{}, ErrEmptyDocument
	}

	inv := mapEntities(resp.Document)
	inv.SourceFile = filename

	slog.InfoContext(ctx, "Extracted invoice fields",
		"filename", filename,
		"supplier", inv.Supplier,
		"amount_ttc", inv.AmountTTC,
		"vat_lines", len(inv.VATDetails))

	return inv, nil
}

// mapEntities converts the invoice processor's entities into an Invoice.
// Unrecognized fields are skipped, extraction is best effort.
func mapEntities(doc *documentaipb.Document) core.Invoice {
	var inv core.Invoice
	var totalTax decimal.Decimal
	sawTotalTax := false

	for _, entity := range doc.Entities {
		value := strings.TrimSpace(entity.MentionText)

		switch entity.Type {
		case "supplier_name", "vendor_name":
			inv.Supplier = value
		case "invoice_id", "invoice_number":
			inv.Number = value
		case "invoice_date":
			inv.Date = extractDate(entity)
		case "total_amount", "gross_amount":
			inv.AmountTTC = extractAmount(entity)
		case "vat":
			if line, ok := extractVATLine(entity); ok {
				inv.VATDetails = append(inv.VATDetails, line)
			}
		case "total_tax_amount", "vat_amount":
			totalTax = extractAmount(entity)
			sawTotalTax = true
		}
	}

	// Some processors report a single tax total instead of per-rate
	// line items. Synthesize one line so the invoice still classifies
	// as taxable, deriving the rate from the net amount when possible.
	if len(inv.VATDetails) == 0 && sawTotalTax && totalTax.IsPositive() {
		line := core.VATLine{Amount: totalTax}
		ht := inv.AmountTTC.Sub(totalTax)
		if ht.IsPositive() {
			line.Rate = totalTax.Div(ht).Mul(decimal.NewFromInt(100)).Round(1)
		}
		inv.VATDetails = append(inv.VATDetails, line)
	}

	return inv
}

// extractDate returns the entity date as YYYY-MM-DD, or "" when no date
// can be recovered.
func extractDate(entity *documentaipb.Document_Entity) string {
	if nv := entity.NormalizedValue; nv != nil {
		if dv := nv.GetDateValue(); dv != nil {
			return time.Date(int(dv.Year), time.Month(dv.Month), int(dv.Day), 0, 0, 0, 0, time.UTC).
				Format(core.DateLayout)
		}
	}

	raw := strings.TrimSpace(entity.MentionText)
	if raw == "" {
		return ""
	}
	for _, layout := range []string{
		core.DateLayout,
		"02/01/2006",
		"02.01.2006",
		"02-01-2006",
		"2 January 2006",
		"January 2, 2006",
	} {
		if d, err := time.Parse(layout, raw); err == nil {
			return d.Format(core.DateLayout)
		}
	}
	return ""
}

// extractAmount prefers the normalized money value and falls back to
// parsing the mention text.
func extractAmount(entity *documentaipb.Document_Entity) decimal.Decimal {
	if nv := entity.NormalizedValue; nv != nil {
		if mv := nv.GetMoneyValue(); mv != nil {
			return decimal.New(mv.Units, 0).Add(decimal.New(int64(mv.Nanos), -9))
		}
	}
	return core.ParseAmount(entity.MentionText)
}

// extractVATLine reads a vat entity's tax_rate and tax_amount properties.
func extractVATLine(entity *documentaipb.Document_Entity) (core.VATLine, bool) {
	var line core.VATLine
	found := false

	for _, prop := range entity.Properties {
		switch prop.Type {
		case "vat/tax_rate", "tax_rate":
			line.Rate = core.ParseAmount(prop.MentionText)
		case "vat/tax_amount", "tax_amount":
			line.Amount = extractAmount(prop)
			found = true
		}
	}

	return line, found
}

func mimeTypeFor(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "application/pdf"
	}
}
