package aggregate

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/paylens-dev/paylens/internal/model"
)

// Resolution is a point-in-time outstanding balance for one client.
type Resolution struct {
	Amount decimal.Decimal
	// Degraded marks a balance taken from a client with no dated entries:
	// the first entry in extraction order was used, which is stable but not
	// temporally meaningful.
	Degraded bool
}

// ResolveBalance returns the outstanding balance for one client: the
// recorded balance of the client's most recently dated entry. Each record
// carries the cumulative balance as of that transaction, so balances are
// never summed across entries — the latest one simply wins. The second
// return value is false when the client has no entries at all.
func ResolveBalance(entries []model.PaymentEntry, clientID string) (Resolution, bool) {
	var (
		best      model.PaymentEntry
		found     bool
		bestDated bool
	)
	for _, e := range entries {
		if e.ClientID != clientID {
			continue
		}
		if !found {
			best, found, bestDated = e, true, e.HasDate()
			continue
		}
		// Dated entries beat undated ones; among dated entries the latest
		// date wins, earliest extraction order breaking ties.
		if e.HasDate() && (!bestDated || e.Date.After(best.Date)) {
			best, bestDated = e, true
		}
	}
	if !found {
		return Resolution{}, false
	}
	return Resolution{Amount: best.Balance, Degraded: !bestDated}, true
}

// OutstandingTotal resolves every client independently and sums the results
// into a whole-portfolio outstanding figure.
func OutstandingTotal(entries []model.PaymentEntry) decimal.Decimal {
	total := decimal.Zero
	for _, id := range ClientIDs(entries) {
		if res, ok := ResolveBalance(entries, id); ok {
			total = total.Add(res.Amount)
		}
	}
	return total
}

// ClientIDs returns the distinct client IDs in an entry set, sorted.
func ClientIDs(entries []model.PaymentEntry) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, e := range entries {
		if !seen[e.ClientID] {
			seen[e.ClientID] = true
			ids = append(ids, e.ClientID)
		}
	}
	sort.Strings(ids)
	return ids
}
