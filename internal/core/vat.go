package core

// VATStatus partitions invoices by VAT presence.
type VATStatus string

const (
	HasVAT VATStatus = "has_vat"
	NoVAT  VATStatus = "no_vat"
)

// Classify reports whether any VAT line was detected on the invoice.
// The partition is exhaustive and disjoint: every invoice lands in
// exactly one class.
func Classify(inv Invoice) VATStatus {
	if len(inv.VATDetails) == 0 {
		return NoVAT
	}
	return HasVAT
}
