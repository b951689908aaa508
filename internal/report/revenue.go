package report

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"factures/internal/core"
)

// topSuppliersLimit caps the supplier ranking.
const topSuppliersLimit = 5

// MonthRevenue is one point of the paid-revenue time series. Month
// carries the YYYY-MM key.
type MonthRevenue struct {
	Month   string          `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
}

// SupplierRevenue is one row of the top-suppliers ranking.
type SupplierRevenue struct {
	Supplier string          `json:"supplier"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// RevenueStats is the paid-versus-pending summary computed per query.
type RevenueStats struct {
	TotalRevenue   decimal.Decimal   `json:"total_revenue"`
	TotalPending   decimal.Decimal   `json:"total_pending"`
	PaidCount      int               `json:"paid_count"`
	UnpaidCount    int               `json:"unpaid_count"`
	PaymentRate    int               `json:"payment_rate"`
	MonthlyRevenue []MonthRevenue    `json:"monthly_revenue"`
	TopSuppliers   []SupplierRevenue `json:"top_suppliers"`
}

// BuildRevenueStats partitions invoices by paid flag and derives all four
// outputs from that single partition: totals and counts on each side, the
// rounded payment rate, the monthly paid-revenue series and the top-five
// supplier ranking. An empty input yields zeroed stats with a payment
// rate of 0.
func BuildRevenueStats(invoices []core.Invoice) RevenueStats {
	stats := RevenueStats{
		MonthlyRevenue: []MonthRevenue{},
		TopSuppliers:   []SupplierRevenue{},
	}

	var paid []core.Invoice
	for _, inv := range invoices {
		if inv.IsPaid {
			stats.PaidCount++
			stats.TotalRevenue = stats.TotalRevenue.Add(inv.AmountTTC)
			paid = append(paid, inv)
		} else {
			stats.UnpaidCount++
			stats.TotalPending = stats.TotalPending.Add(inv.AmountTTC)
		}
	}

	if total := stats.PaidCount + stats.UnpaidCount; total > 0 {
		stats.PaymentRate = int(math.Round(float64(stats.PaidCount) / float64(total) * 100))
	}

	// The time series reuses the monthly grouping on the paid partition,
	// projecting each group down to its gross total.
	for _, m := range BuildMonthlyRecap(paid) {
		stats.MonthlyRevenue = append(stats.MonthlyRevenue, MonthRevenue{
			Month:   m.MonthKey,
			Revenue: m.TotalTTC,
		})
	}

	bySupplier := make(map[string]decimal.Decimal)
	for _, inv := range paid {
		key := inv.SupplierKey()
		bySupplier[key] = bySupplier[key].Add(inv.AmountTTC)
	}
	ranked := make([]SupplierRevenue, 0, len(bySupplier))
	for supplier, revenue := range bySupplier {
		ranked = append(ranked, SupplierRevenue{Supplier: supplier, Revenue: revenue})
	}
	// Revenue descending, supplier name ascending on ties so the ranking
	// is deterministic.
	sort.Slice(ranked, func(i, j int) bool {
		if !ranked[i].Revenue.Equal(ranked[j].Revenue) {
			return ranked[i].Revenue.GreaterThan(ranked[j].Revenue)
		}
		return ranked[i].Supplier < ranked[j].Supplier
	})
	if len(ranked) > topSuppliersLimit {
		ranked = ranked[:topSuppliersLimit]
	}
	stats.TopSuppliers = ranked

	return stats
}
