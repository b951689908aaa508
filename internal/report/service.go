package report

import (
	"context"
	"fmt"

	"factures/internal/core"
	"factures/internal/storage"
)

// Service is the stateless reporting façade. Every query reads the full
// current invoice set from the store and computes its result fresh; there
// is no cache to invalidate, so consistency under concurrent mutation
// reduces to the store's own read guarantee.
type Service struct {
	store storage.InvoiceStore
}

func NewService(store storage.InvoiceStore) *Service {
	return &Service{store: store}
}

// AllInvoices returns the full invoice set.
func (s *Service) AllInvoices(ctx context.Context) ([]core.Invoice, error) {
	invoices, err := s.store.ListInvoices(ctx)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	return invoices, nil
}

// NoVATInvoices returns the invoices the classifier marks as carrying no
// detected VAT.
func (s *Service) NoVATInvoices(ctx context.Context) ([]core.Invoice, error) {
	invoices, err := s.store.ListInvoices(ctx)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	noVAT := make([]core.Invoice, 0, len(invoices))
	for _, inv := range invoices {
		if core.Classify(inv) == core.NoVAT {
			noVAT = append(noVAT, inv)
		}
	}
	return noVAT, nil
}

// MonthlyStats returns the monthly VAT recap, chronologically ascending.
func (s *Service) MonthlyStats(ctx context.Context) ([]MonthlyRecap, error) {
	invoices, err := s.store.ListInvoices(ctx)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	return BuildMonthlyRecap(invoices), nil
}

// RevenueStats returns the paid-versus-pending revenue summary.
func (s *Service) RevenueStats(ctx context.Context) (RevenueStats, error) {
	invoices, err := s.store.ListInvoices(ctx)
	if err != nil {
		return RevenueStats{}, fmt.Errorf("list invoices: %w", err)
	}
	return BuildRevenueStats(invoices), nil
}
