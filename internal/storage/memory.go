package storage

import (
	"context"
	"sort"
	"sync"

	"factures/internal/core"
)

// MemoryStore is an in-memory invoice store used by tests and the
// `memory` data backend. It hands out copies so callers can treat every
// result as an immutable snapshot.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	items  map[int64]core.Invoice
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextID: 1,
		items:  make(map[int64]core.Invoice),
	}
}

func cloneInvoice(inv core.Invoice) core.Invoice {
	out := inv
	out.VATDetails = append([]core.VATLine{}, inv.VATDetails...)
	return out
}

// ListInvoices implements InvoiceStore.
func (s *MemoryStore) ListInvoices(_ context.Context) ([]core.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	invoices := make([]core.Invoice, 0, len(s.items))
	for _, inv := range s.items {
		invoices = append(invoices, cloneInvoice(inv))
	}
	sort.Slice(invoices, func(i, j int) bool { return invoices[i].ID < invoices[j].ID })
	return invoices, nil
}

// GetInvoice implements InvoiceStore.
func (s *MemoryStore) GetInvoice(_ context.Context, id int64) (core.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	inv, ok := s.items[id]
	if !ok {
		return core.Invoice{}, ErrInvoiceNotFound
	}
	return cloneInvoice(inv), nil
}

// CreateInvoice implements InvoiceStore.
func (s *MemoryStore) CreateInvoice(_ context.Context, inv core.Invoice) (core.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv.ID = s.nextID
	s.nextID++
	s.items[inv.ID] = cloneInvoice(inv)
	return cloneInvoice(inv), nil
}

// SetInvoicePaid implements InvoiceStore.
func (s *MemoryStore) SetInvoicePaid(_ context.Context, id int64, paid bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.items[id]
	if !ok {
		return ErrInvoiceNotFound
	}
	inv.IsPaid = paid
	s.items[id] = inv
	return nil
}

// DeleteInvoice implements InvoiceStore.
func (s *MemoryStore) DeleteInvoice(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return ErrInvoiceNotFound
	}
	delete(s.items, id)
	return nil
}
