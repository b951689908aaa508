package report

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	"factures/internal/core"
)

func TestBuildRevenueStats(t *testing.T) {
	invoices := []core.Invoice{
		{
			Supplier: "Fournisseur A", Date: "2024-03-01",
			AmountTTC: d("120"), IsPaid: true,
			VATDetails: []core.VATLine{vat("20", "20")},
		},
		{
			Supplier: "Fournisseur B", Date: "2024-03-15",
			AmountTTC: d("100"), IsPaid: false,
		},
	}

	stats := BuildRevenueStats(invoices)

	if !stats.TotalRevenue.Equal(d("120")) {
		t.Errorf("TotalRevenue = %v, want 120", stats.TotalRevenue)
	}
	if !stats.TotalPending.Equal(d("100")) {
		t.Errorf("TotalPending = %v, want 100", stats.TotalPending)
	}
	if stats.PaidCount != 1 || stats.UnpaidCount != 1 {
		t.Errorf("counts = %d/%d, want 1/1", stats.PaidCount, stats.UnpaidCount)
	}
	if stats.PaymentRate != 50 {
		t.Errorf("PaymentRate = %d, want 50", stats.PaymentRate)
	}

	if len(stats.MonthlyRevenue) != 1 {
		t.Fatalf("got %d monthly points, want 1", len(stats.MonthlyRevenue))
	}
	if stats.MonthlyRevenue[0].Month != "2024-03" || !stats.MonthlyRevenue[0].Revenue.Equal(d("120")) {
		t.Errorf("monthly point = %+v, want 2024-03 with 120", stats.MonthlyRevenue[0])
	}

	if len(stats.TopSuppliers) != 1 {
		t.Fatalf("got %d top suppliers, want 1 (unpaid suppliers excluded)", len(stats.TopSuppliers))
	}
	if stats.TopSuppliers[0].Supplier != "Fournisseur A" || !stats.TopSuppliers[0].Revenue.Equal(d("120")) {
		t.Errorf("top supplier = %+v, want Fournisseur A with 120", stats.TopSuppliers[0])
	}
}

func TestBuildRevenueStats_Empty(t *testing.T) {
	stats := BuildRevenueStats(nil)

	if stats.PaymentRate != 0 {
		t.Errorf("PaymentRate = %d, want 0 for empty input", stats.PaymentRate)
	}
	if stats.MonthlyRevenue == nil || stats.TopSuppliers == nil {
		t.Error("series must be empty slices, not nil, so they serialize as []")
	}
	if !stats.TotalRevenue.Equal(decimal.Zero) || !stats.TotalPending.Equal(decimal.Zero) {
		t.Errorf("totals = %v/%v, want 0/0", stats.TotalRevenue, stats.TotalPending)
	}
}

func TestBuildRevenueStats_PaymentRateRounding(t *testing.T) {
	tests := []struct {
		paid, unpaid int
		want         int
	}{
		{1, 2, 33},  // 33.33 rounds down
		{2, 1, 67},  // 66.67 rounds up
		{1, 1, 50},  // exact
		{0, 3, 0},   // nothing paid
		{3, 0, 100}, // everything paid
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_of_%d", tt.paid, tt.paid+tt.unpaid), func(t *testing.T) {
			var invoices []core.Invoice
			for i := 0; i < tt.paid; i++ {
				invoices = append(invoices, core.Invoice{Date: "2024-01-01", AmountTTC: d("10"), IsPaid: true})
			}
			for i := 0; i < tt.unpaid; i++ {
				invoices = append(invoices, core.Invoice{Date: "2024-01-01", AmountTTC: d("10")})
			}

			stats := BuildRevenueStats(invoices)
			if stats.PaymentRate != tt.want {
				t.Errorf("PaymentRate = %d, want %d", stats.PaymentRate, tt.want)
			}
		})
	}
}

func TestBuildRevenueStats_TopSuppliers(t *testing.T) {
	var invoices []core.Invoice
	// Seven suppliers with distinct revenue, only five should survive.
	for i := 1; i <= 7; i++ {
		invoices = append(invoices, core.Invoice{
			Supplier:  fmt.Sprintf("Supplier %d", i),
			Date:      "2024-01-01",
			AmountTTC: decimal.NewFromInt(int64(i * 100)),
			IsPaid:    true,
		})
	}

	stats := BuildRevenueStats(invoices)

	if len(stats.TopSuppliers) != topSuppliersLimit {
		t.Fatalf("got %d suppliers, want %d", len(stats.TopSuppliers), topSuppliersLimit)
	}
	if stats.TopSuppliers[0].Supplier != "Supplier 7" {
		t.Errorf("first = %q, want Supplier 7 (highest revenue)", stats.TopSuppliers[0].Supplier)
	}
	if stats.TopSuppliers[4].Supplier != "Supplier 3" {
		t.Errorf("fifth = %q, want Supplier 3", stats.TopSuppliers[4].Supplier)
	}
	for i := 1; i < len(stats.TopSuppliers); i++ {
		if stats.TopSuppliers[i].Revenue.GreaterThan(stats.TopSuppliers[i-1].Revenue) {
			t.Errorf("ranking not descending at %d", i)
		}
	}
}

func TestBuildRevenueStats_TopSuppliersTieBreak(t *testing.T) {
	invoices := []core.Invoice{
		{Supplier: "Zeta", Date: "2024-01-01", AmountTTC: d("100"), IsPaid: true},
		{Supplier: "Alpha", Date: "2024-01-01", AmountTTC: d("100"), IsPaid: true},
	}

	stats := BuildRevenueStats(invoices)

	if stats.TopSuppliers[0].Supplier != "Alpha" || stats.TopSuppliers[1].Supplier != "Zeta" {
		t.Errorf("tie should break alphabetically, got %+v", stats.TopSuppliers)
	}
}

func TestBuildRevenueStats_UnknownSupplierBucket(t *testing.T) {
	invoices := []core.Invoice{
		{Supplier: "", Date: "2024-01-01", AmountTTC: d("30"), IsPaid: true},
		{Supplier: "  ", Date: "2024-01-02", AmountTTC: d("20"), IsPaid: true},
	}

	stats := BuildRevenueStats(invoices)

	if len(stats.TopSuppliers) != 1 {
		t.Fatalf("got %d suppliers, want 1 merged unknown bucket", len(stats.TopSuppliers))
	}
	if stats.TopSuppliers[0].Supplier != core.UnknownSupplier {
		t.Errorf("supplier = %q, want %q", stats.TopSuppliers[0].Supplier, core.UnknownSupplier)
	}
	if !stats.TopSuppliers[0].Revenue.Equal(d("50")) {
		t.Errorf("revenue = %v, want 50", stats.TopSuppliers[0].Revenue)
	}
}

// The monthly series, supplier ranking and grand total are all views of
// the same paid partition and must agree.
func TestBuildRevenueStats_Consistency(t *testing.T) {
	invoices := []core.Invoice{
		{Supplier: "A", Date: "2024-01-10", AmountTTC: d("100"), IsPaid: true},
		{Supplier: "B", Date: "2024-02-10", AmountTTC: d("250.50"), IsPaid: true},
		{Supplier: "A", Date: "2024-02-20", AmountTTC: d("49.50"), IsPaid: true},
		{Supplier: "C", Date: "2024-02-25", AmountTTC: d("999"), IsPaid: false},
	}

	stats := BuildRevenueStats(invoices)

	var monthSum decimal.Decimal
	for _, m := range stats.MonthlyRevenue {
		monthSum = monthSum.Add(m.Revenue)
	}
	if !monthSum.Equal(stats.TotalRevenue) {
		t.Errorf("monthly series sums to %v, total revenue %v", monthSum, stats.TotalRevenue)
	}

	var supplierSum decimal.Decimal
	for _, s := range stats.TopSuppliers {
		supplierSum = supplierSum.Add(s.Revenue)
	}
	if !supplierSum.Equal(stats.TotalRevenue) {
		t.Errorf("supplier ranking sums to %v, total revenue %v", supplierSum, stats.TotalRevenue)
	}
}
