package core

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestInvoice_MonthKey(t *testing.T) {
	tests := []struct {
		name string
		date string
		want string
	}{
		{"valid date", "2024-03-15", "2024-03"},
		{"first of month", "2024-01-01", "2024-01"},
		{"empty date", "", UnknownMonthKey},
		{"garbage date", "not-a-date", UnknownMonthKey},
		{"truncated but prefixed", "2024-03", UnknownMonthKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := Invoice{Date: tt.date}
			if got := inv.MonthKey(); got != tt.want {
				t.Errorf("MonthKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInvoice_SupplierKey(t *testing.T) {
	tests := []struct {
		name     string
		supplier string
		want     string
	}{
		{"named supplier", "Fournisseur A", "Fournisseur A"},
		{"empty supplier", "", UnknownSupplier},
		{"whitespace only", "   ", UnknownSupplier},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := Invoice{Supplier: tt.supplier}
			if got := inv.SupplierKey(); got != tt.want {
				t.Errorf("SupplierKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInvoice_VATTotalAndHT(t *testing.T) {
	inv := Invoice{
		AmountTTC: d("120"),
		VATDetails: []VATLine{
			{Rate: d("20"), Amount: d("15")},
			{Rate: d("5.5"), Amount: d("5")},
		},
	}

	if got := inv.VATTotal(); !got.Equal(d("20")) {
		t.Errorf("VATTotal() = %v, want 20", got)
	}
	if got := inv.AmountHT(); !got.Equal(d("100")) {
		t.Errorf("AmountHT() = %v, want 100", got)
	}
}

func TestInvoice_VATTotal_NoLines(t *testing.T) {
	inv := Invoice{AmountTTC: d("80")}

	if got := inv.VATTotal(); !got.Equal(decimal.Zero) {
		t.Errorf("VATTotal() = %v, want 0", got)
	}
	if got := inv.AmountHT(); !got.Equal(d("80")) {
		t.Errorf("AmountHT() = %v, want TTC when no VAT lines", got)
	}
}

func TestMonthLabel(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"2024-03", "March 2024"},
		{"2023-12", "December 2023"},
		{UnknownMonthKey, "Unknown"},
		{"garbage", "Unknown"},
	}

	for _, tt := range tests {
		if got := MonthLabel(tt.key); got != tt.want {
			t.Errorf("MonthLabel(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestInvoice_JSONShape(t *testing.T) {
	inv := Invoice{
		ID:        7,
		Supplier:  "Fournisseur A",
		Date:      "2024-03-01",
		Number:    "F-1",
		AmountTTC: d("120.5"),
		IsPaid:    true,
		VATDetails: []VATLine{
			{Rate: d("20"), Amount: d("20.08")},
		},
		SourceFile: "hidden.pdf",
	}

	data, err := json.Marshal(inv)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	// Amounts must serialize as JSON numbers for the frontend
	if m["amount_ttc"] != float64(120.5) {
		t.Errorf("amount_ttc = %v (%T), want number 120.5", m["amount_ttc"], m["amount_ttc"])
	}
	if m["supplier"] != "Fournisseur A" || m["date"] != "2024-03-01" || m["number"] != "F-1" {
		t.Errorf("unexpected field values: %v", m)
	}
	if m["is_paid"] != true {
		t.Errorf("is_paid = %v, want true", m["is_paid"])
	}
	if _, exists := m["source_file"]; exists {
		t.Error("source_file should not be serialized")
	}

	lines := m["vat_details"].([]any)
	line := lines[0].(map[string]any)
	if line["rate"] != float64(20) || line["amount"] != float64(20.08) {
		t.Errorf("vat line = %v, want rate 20 amount 20.08", line)
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "120.50", "120.5"},
		{"euro suffix", "120,50 €", "120.5"},
		{"euro prefix", "€1200", "1200"},
		{"comma decimal", "99,99", "99.99"},
		{"grouping and decimal", "1,234.56", "1234.56"},
		{"space grouping", "1 234,56", "1234.56"},
		{"nbsp grouping", "1 234,56", "1234.56"},
		{"empty", "", "0"},
		{"garbage", "abc", "0"},
		{"negative coerced", "-42", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseAmount(tt.input)
			if !got.Equal(d(tt.want)) {
				t.Errorf("ParseAmount(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
