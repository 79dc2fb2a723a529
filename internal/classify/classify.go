// Package classify assigns each payment entry its kind and computes its net
// contribution to paid totals. The predicates are deliberately standalone so
// the balance-clearing heuristic can be audited or replaced without touching
// the aggregation code.
package classify

import (
	"github.com/shopspring/decimal"

	"github.com/paylens-dev/paylens/internal/model"
)

// IsRefund reports whether an entry represents money going back to the
// client: an explicit refund marker, a positive refund amount, or a negative
// paid amount.
func IsRefund(e model.PaymentEntry) bool {
	return e.RefundFlag || e.Refund.Sign() > 0 || e.Paid.Sign() < 0
}

// IsBalanceClearing reports whether an entry exists to zero out a previously
// recorded balance rather than to accrue revenue. The explicit marker wins;
// failing that, a non-refund entry with a positive paid amount and a
// recorded balance of exactly zero is treated as clearing.
//
// The heuristic is a known ambiguity: a full-and-final payment that happens
// to leave zero balance is indistinguishable from a clearing transaction in
// the source data. The behavior is kept as-is for compatibility with
// historical reports.
func IsBalanceClearing(e model.PaymentEntry) bool {
	if IsRefund(e) {
		return false
	}
	if e.ClearedFlag {
		return true
	}
	return e.Paid.Sign() > 0 && e.Balance.IsZero()
}

// Kind returns the entry's classification.
func Kind(e model.PaymentEntry) model.EntryKind {
	switch {
	case IsRefund(e):
		return model.KindRefund
	case IsBalanceClearing(e):
		return model.KindBalanceAdjustment
	default:
		return model.KindPayment
	}
}

// NetContribution is the entry's contribution to paid totals.
//
// A balance-clearing entry whose recorded balance is zero is a genuine
// collected payment and counts positive. One logged with a nonzero residual
// balance did not actually clear anything — typically data-entry lag — and
// counts negative so it cannot inflate paid totals.
func NetContribution(e model.PaymentEntry) decimal.Decimal {
	if Kind(e) == model.KindBalanceAdjustment {
		if e.Balance.IsZero() {
			return e.Paid
		}
		return e.Paid.Neg()
	}
	return e.Paid.Sub(e.Refund)
}

// IsPending reports whether an entry represents zero actual movement: an
// expected-but-not-yet-received payment.
func IsPending(e model.PaymentEntry) bool {
	return e.Paid.IsZero() && e.Refund.IsZero() && Kind(e) != model.KindBalanceAdjustment
}

// Entry returns a copy of e with its Kind assigned.
func Entry(e model.PaymentEntry) model.PaymentEntry {
	e.Kind = Kind(e)
	return e
}

// Entries classifies a whole extraction batch, preserving order.
func Entries(entries []model.PaymentEntry) []model.PaymentEntry {
	out := make([]model.PaymentEntry, len(entries))
	for i, e := range entries {
		out[i] = Entry(e)
	}
	return out
}
