package aggregate

import (
	"github.com/paylens-dev/paylens/internal/model"
)

// ClientSummary is the flat per-client rollup that accompanies the bucket
// tree: lifetime figures plus the latest-wins outstanding balance.
type ClientSummary struct {
	ClientID    string
	ClientName  string
	Totals      Totals
	Outstanding Resolution
}

// ClientSummaries rolls entries up per client, ordered by client ID.
func ClientSummaries(entries []model.PaymentEntry) []ClientSummary {
	byID := make(map[string]*ClientSummary)
	ids := ClientIDs(entries)
	for _, id := range ids {
		byID[id] = &ClientSummary{ClientID: id}
	}

	for _, e := range entries {
		cs := byID[e.ClientID]
		cs.Totals.add(e)
		if cs.ClientName == "" {
			cs.ClientName = e.ClientName
		}
	}

	out := make([]ClientSummary, 0, len(ids))
	for _, id := range ids {
		cs := byID[id]
		if res, ok := ResolveBalance(entries, id); ok {
			cs.Outstanding = res
		}
		out = append(out, *cs)
	}
	return out
}
