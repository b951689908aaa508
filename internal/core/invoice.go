package core

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Amounts travel as plain JSON numbers (the frontend feeds them straight
// into charts), so decimals must not be quoted.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

const (
	// UnknownMonthKey buckets invoices whose date is missing or unparseable.
	// The sentinel sorts after every YYYY-MM key, keeping it last in recaps
	// while still reconciling grand totals.
	UnknownMonthKey = "unknown"

	// UnknownSupplier buckets revenue of invoices without a supplier name.
	UnknownSupplier = "unknown"
)

// DateLayout is the calendar date form invoices carry on the wire.
const DateLayout = "2006-01-02"

// VATLine is one tax rate applied on an invoice. Rate is a percentage,
// Amount the tax charged at that rate.
type VATLine struct {
	Rate   decimal.Decimal `json:"rate"`
	Amount decimal.Decimal `json:"amount"`
}

// Invoice is one extracted invoice record as held by the store.
//
// Supplier, Date and Number may be empty when the extraction collaborator
// could not detect them. AmountTTC is the gross amount including VAT;
// malformed source values are coerced to zero before an Invoice is built,
// never rejected (a single bad record must not abort a report).
type Invoice struct {
	ID         int64           `json:"id"`
	Supplier   string          `json:"supplier"`
	Date       string          `json:"date"` // YYYY-MM-DD, empty when unknown
	Number     string          `json:"number"`
	AmountTTC  decimal.Decimal `json:"amount_ttc"`
	IsPaid     bool            `json:"is_paid"`
	VATDetails []VATLine       `json:"vat_details"`

	// SourceFile is the stored upload the record was extracted from.
	SourceFile string `json:"-"`
}

// VATTotal sums the amounts of every VAT line.
func (inv Invoice) VATTotal() decimal.Decimal {
	var total decimal.Decimal
	for _, line := range inv.VATDetails {
		total = total.Add(line.Amount)
	}
	return total
}

// AmountHT is the derived net amount: gross minus total VAT. It is never
// stored, and may go negative on malformed input; callers report it as-is.
func (inv Invoice) AmountHT() decimal.Decimal {
	return inv.AmountTTC.Sub(inv.VATTotal())
}

// MonthKey derives the YYYY-MM grouping key from the invoice date.
// Missing or unparseable dates land in the unknown bucket instead of
// being dropped, so month totals always sum to the grand total.
func (inv Invoice) MonthKey() string {
	if _, err := time.Parse(DateLayout, inv.Date); err != nil {
		return UnknownMonthKey
	}
	return inv.Date[:7]
}

// SupplierKey is the supplier grouping key, collapsing blank suppliers
// into the unknown bucket.
func (inv Invoice) SupplierKey() string {
	if s := strings.TrimSpace(inv.Supplier); s != "" {
		return s
	}
	return UnknownSupplier
}

// MonthLabel renders a month key as a human-readable month and year.
func MonthLabel(key string) string {
	t, err := time.Parse("2006-01", key)
	if err != nil {
		return "Unknown"
	}
	return t.Format("January 2006")
}
