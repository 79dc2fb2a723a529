// Package aggregate builds the year → month bucket tree over classified
// payment entries and resolves per-client outstanding balances. Everything
// here is a pure function of its input; the tree is rebuilt wholesale on
// every store change and never patched in place.
package aggregate

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/paylens-dev/paylens/internal/classify"
	"github.com/paylens-dev/paylens/internal/model"
)

// UnknownYear and UnknownMonth key the buckets for entries whose date could
// not be normalized. They sort after every real period.
const (
	UnknownYear  = 0
	UnknownMonth = time.Month(0)
)

// Totals are the memoized figures for one bucket. Year totals are purely
// additive over month totals; no metric is recomputed at the year level.
type Totals struct {
	PaidNet         decimal.Decimal
	BalanceAtPeriod decimal.Decimal
	Refunds         decimal.Decimal
	PendingCount    int
	EntryCount      int
}

func (t *Totals) add(e model.PaymentEntry) {
	t.PaidNet = t.PaidNet.Add(classify.NetContribution(e))
	t.BalanceAtPeriod = t.BalanceAtPeriod.Add(e.Balance)
	t.Refunds = t.Refunds.Add(e.Refund)
	t.EntryCount++
	if classify.IsPending(e) {
		t.PendingCount++
	}
}

func (t *Totals) merge(o Totals) {
	t.PaidNet = t.PaidNet.Add(o.PaidNet)
	t.BalanceAtPeriod = t.BalanceAtPeriod.Add(o.BalanceAtPeriod)
	t.Refunds = t.Refunds.Add(o.Refunds)
	t.PendingCount += o.PendingCount
	t.EntryCount += o.EntryCount
}

// MonthBucket holds the entries of one (year, month) period in extraction
// order, plus their totals.
type MonthBucket struct {
	Year    int
	Month   time.Month // UnknownMonth when the date is unknown
	Entries []model.PaymentEntry
	Totals  Totals
}

// YearBucket owns the months of one year, chronological with unknown last.
type YearBucket struct {
	Year   int // UnknownYear when no date information exists
	Months []*MonthBucket
	Totals Totals
}

// Month returns the bucket for m, or nil.
func (y *YearBucket) Month(m time.Month) *MonthBucket {
	for _, b := range y.Months {
		if b.Month == m {
			return b
		}
	}
	return nil
}

// Tree is the full two-level aggregate: years descending (unknown last),
// months ascending within each year (unknown last).
type Tree struct {
	Years  []*YearBucket
	Totals Totals
}

// Year returns the bucket for y, or nil.
func (t *Tree) Year(y int) *YearBucket {
	for _, b := range t.Years {
		if b.Year == y {
			return b
		}
	}
	return nil
}

// BuildTree aggregates classified entries into the bucket tree in a single
// pass. Input order is preserved inside each month bucket, so two builds
// over the same entries produce identical trees.
func BuildTree(entries []model.PaymentEntry) *Tree {
	months := make(map[int]map[time.Month]*MonthBucket)

	for _, e := range entries {
		year, month := e.Year(), e.Month()
		if months[year] == nil {
			months[year] = make(map[time.Month]*MonthBucket)
		}
		mb := months[year][month]
		if mb == nil {
			mb = &MonthBucket{Year: year, Month: month}
			months[year][month] = mb
		}
		mb.Entries = append(mb.Entries, e)
		mb.Totals.add(e)
	}

	tree := &Tree{}
	for year, byMonth := range months {
		yb := &YearBucket{Year: year}
		for _, mb := range byMonth {
			yb.Months = append(yb.Months, mb)
			yb.Totals.merge(mb.Totals)
		}
		sort.Slice(yb.Months, func(i, j int) bool {
			return monthBefore(yb.Months[i].Month, yb.Months[j].Month)
		})
		tree.Years = append(tree.Years, yb)
		tree.Totals.merge(yb.Totals)
	}

	sort.Slice(tree.Years, func(i, j int) bool {
		return yearBefore(tree.Years[i].Year, tree.Years[j].Year)
	})
	return tree
}

// yearBefore orders years descending with the unknown year last.
func yearBefore(a, b int) bool {
	if a == UnknownYear {
		return false
	}
	if b == UnknownYear {
		return true
	}
	return a > b
}

// monthBefore orders months ascending with the unknown month last.
func monthBefore(a, b time.Month) bool {
	if a == UnknownMonth {
		return false
	}
	if b == UnknownMonth {
		return true
	}
	return a < b
}
