// Package report implements the aggregation engine: the monthly VAT
// recap, the revenue statistics and the reporting façade over the
// invoice store. Every query recomputes its result from the full
// invoice set; nothing here holds state between calls.
package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"factures/internal/core"
)

// MonthlyRecap is the per-month VAT summary. TotalHT + VATCollected =
// TotalTTC and InvoicesWithVAT + InvoicesWithoutVAT = InvoicesCount hold
// for every row by construction.
type MonthlyRecap struct {
	MonthKey           string          `json:"month_key"`
	Month              string          `json:"month"`
	InvoicesCount      int             `json:"invoices_count"`
	InvoicesWithVAT    int             `json:"invoices_with_vat"`
	InvoicesWithoutVAT int             `json:"invoices_without_vat"`
	TotalHT            decimal.Decimal `json:"total_ht"`
	VATCollected       decimal.Decimal `json:"vat_collected"`
	TotalTTC           decimal.Decimal `json:"total_ttc"`
}

// BuildMonthlyRecap groups invoices by calendar month and sums the VAT
// fields per group. Invoices without a parseable date are bucketed under
// the unknown sentinel rather than dropped, so the recap always
// reconciles with the grand total. Rows come back chronologically
// ascending; the sentinel sorts last. Empty input yields an empty slice,
// never a zero row.
func BuildMonthlyRecap(invoices []core.Invoice) []MonthlyRecap {
	groups := make(map[string]*MonthlyRecap)
	for _, inv := range invoices {
		key := inv.MonthKey()
		rec, ok := groups[key]
		if !ok {
			rec = &MonthlyRecap{MonthKey: key, Month: core.MonthLabel(key)}
			groups[key] = rec
		}
		rec.InvoicesCount++
		if core.Classify(inv) == core.HasVAT {
			rec.InvoicesWithVAT++
		} else {
			rec.InvoicesWithoutVAT++
		}
		rec.TotalTTC = rec.TotalTTC.Add(inv.AmountTTC)
		rec.VATCollected = rec.VATCollected.Add(inv.VATTotal())
	}

	months := make([]MonthlyRecap, 0, len(groups))
	for _, rec := range groups {
		rec.TotalHT = rec.TotalTTC.Sub(rec.VATCollected)
		months = append(months, *rec)
	}
	// "unknown" sorts after every YYYY-MM key, which is exactly where
	// the sentinel bucket belongs.
	sort.Slice(months, func(i, j int) bool {
		return months[i].MonthKey < months[j].MonthKey
	})
	return months
}

// RecapTotals folds every numeric field across the recaps into one
// trailing totals row.
func RecapTotals(months []MonthlyRecap) MonthlyRecap {
	total := MonthlyRecap{MonthKey: "total", Month: "Total"}
	for _, m := range months {
		total.InvoicesCount += m.InvoicesCount
		total.InvoicesWithVAT += m.InvoicesWithVAT
		total.InvoicesWithoutVAT += m.InvoicesWithoutVAT
		total.TotalHT = total.TotalHT.Add(m.TotalHT)
		total.VATCollected = total.VATCollected.Add(m.VATCollected)
		total.TotalTTC = total.TotalTTC.Add(m.TotalTTC)
	}
	return total
}
