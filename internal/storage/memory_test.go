package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"factures/internal/core"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleInvoice() core.Invoice {
	return core.Invoice{
		Supplier:  "Fournisseur A",
		Date:      "2024-03-01",
		Number:    "A-1",
		AmountTTC: d("120"),
		IsPaid:    true,
		VATDetails: []core.VATLine{
			{Rate: d("20"), Amount: d("20")},
		},
		SourceFile: "a.pdf",
	}
}

func TestMemoryStore_CreateAndGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	created, err := store.CreateInvoice(ctx, sampleInvoice())
	if err != nil {
		t.Fatalf("CreateInvoice() error = %v", err)
	}
	if created.ID != 1 {
		t.Errorf("ID = %d, want 1", created.ID)
	}

	got, err := store.GetInvoice(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetInvoice() error = %v", err)
	}
	if got.Supplier != "Fournisseur A" || !got.AmountTTC.Equal(d("120")) {
		t.Errorf("got %+v, want sample invoice back", got)
	}
	if len(got.VATDetails) != 1 || !got.VATDetails[0].Rate.Equal(d("20")) {
		t.Errorf("VATDetails = %+v, want the stored line", got.VATDetails)
	}
}

func TestMemoryStore_GetMissing(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.GetInvoice(context.Background(), 42)
	if !errors.Is(err, ErrInvoiceNotFound) {
		t.Errorf("GetInvoice() error = %v, want ErrInvoiceNotFound", err)
	}
}

func TestMemoryStore_ListOrdering(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for _, supplier := range []string{"A", "B", "C"} {
		inv := sampleInvoice()
		inv.Supplier = supplier
		if _, err := store.CreateInvoice(ctx, inv); err != nil {
			t.Fatalf("CreateInvoice() error = %v", err)
		}
	}

	invoices, err := store.ListInvoices(ctx)
	if err != nil {
		t.Fatalf("ListInvoices() error = %v", err)
	}
	if len(invoices) != 3 {
		t.Fatalf("got %d invoices, want 3", len(invoices))
	}
	for i, supplier := range []string{"A", "B", "C"} {
		if invoices[i].Supplier != supplier {
			t.Errorf("invoices[%d].Supplier = %q, want %q", i, invoices[i].Supplier, supplier)
		}
	}
}

func TestMemoryStore_SnapshotsAreIsolated(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	created, err := store.CreateInvoice(ctx, sampleInvoice())
	if err != nil {
		t.Fatalf("CreateInvoice() error = %v", err)
	}

	// Mutating a returned snapshot must not leak into the store.
	created.VATDetails[0].Amount = d("999")
	created.Supplier = "Mutated"

	got, err := store.GetInvoice(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetInvoice() error = %v", err)
	}
	if got.Supplier != "Fournisseur A" {
		t.Errorf("Supplier = %q, snapshot mutation leaked into store", got.Supplier)
	}
	if !got.VATDetails[0].Amount.Equal(d("20")) {
		t.Errorf("VAT amount = %v, snapshot mutation leaked into store", got.VATDetails[0].Amount)
	}
}

func TestMemoryStore_SetInvoicePaid(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	inv := sampleInvoice()
	inv.IsPaid = false
	created, _ := store.CreateInvoice(ctx, inv)

	if err := store.SetInvoicePaid(ctx, created.ID, true); err != nil {
		t.Fatalf("SetInvoicePaid() error = %v", err)
	}
	got, _ := store.GetInvoice(ctx, created.ID)
	if !got.IsPaid {
		t.Error("invoice should be paid")
	}

	if err := store.SetInvoicePaid(ctx, 999, true); !errors.Is(err, ErrInvoiceNotFound) {
		t.Errorf("SetInvoicePaid(missing) error = %v, want ErrInvoiceNotFound", err)
	}
}

func TestMemoryStore_DeleteInvoice(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	created, _ := store.CreateInvoice(ctx, sampleInvoice())

	if err := store.DeleteInvoice(ctx, created.ID); err != nil {
		t.Fatalf("DeleteInvoice() error = %v", err)
	}
	if err := store.DeleteInvoice(ctx, created.ID); !errors.Is(err, ErrInvoiceNotFound) {
		t.Errorf("second delete error = %v, want ErrInvoiceNotFound", err)
	}

	invoices, _ := store.ListInvoices(ctx)
	if len(invoices) != 0 {
		t.Errorf("got %d invoices after delete, want 0", len(invoices))
	}
}
