// Package report is the query layer over aggregated payment entries: it
// scopes by department, year, month, and client, paginates the resulting
// rows, and renders the tabular export. It consumes snapshots, it never
// touches the store.
package report

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/paylens-dev/paylens/internal/aggregate"
	"github.com/paylens-dev/paylens/internal/classify"
	"github.com/paylens-dev/paylens/internal/extract"
	"github.com/paylens-dev/paylens/internal/model"
	"github.com/paylens-dev/paylens/internal/store"
)

// DefaultPageSize is the documented default; the supported choices are
// PageSizes.
const DefaultPageSize = 10

// PageSizes are the page sizes the presentation layer offers.
var PageSizes = []int{10, 25, 50, 100}

// AllDepartments selects the cross-department scope.
const AllDepartments = ""

const displayDateFormat = "02 Jan 2006"

// Options configure a new view.
type Options struct {
	PageSize int // 0 means DefaultPageSize
}

// View is one reporting session over a single snapshot's entries. A view is
// owned by its caller and is replaced wholesale when a new snapshot arrives;
// it is not safe for concurrent use and never mutated by anything else.
type View struct {
	status store.Status
	all    []model.PaymentEntry // classified, every department

	department string
	scoped     []model.PaymentEntry
	tree       *aggregate.Tree

	year     int
	month    time.Month
	monthSet bool // false selects the whole year

	client string

	page     int
	pageSize int
}

// FromSnapshot runs the full extract → classify pipeline over a snapshot,
// in stable path-priority order, and returns a fresh view. This is the
// recompute entry point: idempotent, and deliberately a full rebuild rather
// than an incremental patch.
func FromSnapshot(snap store.Snapshot, opts Options) *View {
	var entries []model.PaymentEntry
	for _, ps := range snap.Paths {
		for _, id := range ps.RecordIDs {
			prov := extract.Provenance{
				Department: ps.Path.Department,
				Path:       ps.Path.Dir,
				RecordID:   id,
			}
			entries = append(entries, extract.Extract(ps.Records[id], prov)...)
		}
	}
	v := NewView(classify.Entries(entries), opts)
	v.status = snap.Status
	return v
}

// NewView builds a view over already-classified entries.
func NewView(entries []model.PaymentEntry, opts Options) *View {
	v := &View{
		status:   store.StatusOK,
		all:      entries,
		page:     1,
		pageSize: opts.PageSize,
	}
	if v.pageSize <= 0 {
		v.pageSize = DefaultPageSize
	}
	v.SelectDepartment(AllDepartments)
	return v
}

// Status reports whether the underlying snapshot was fully loaded.
func (v *View) Status() store.Status { return v.status }

// Departments returns the distinct department labels present, sorted.
func (v *View) Departments() []string {
	seen := make(map[string]bool)
	var deps []string
	for _, e := range v.all {
		if e.Department != "" && !seen[e.Department] {
			seen[e.Department] = true
			deps = append(deps, e.Department)
		}
	}
	sort.Strings(deps)
	return deps
}

// SelectDepartment scopes the view to one department, or to AllDepartments.
// The bucket tree is re-derived from the department's own entry subset:
// cross-department and single-department totals are both first-class, so a
// department view is its own aggregation run, not an index on a shared tree.
func (v *View) SelectDepartment(dep string) {
	v.department = dep
	if dep == AllDepartments {
		v.scoped = v.all
	} else {
		v.scoped = nil
		for _, e := range v.all {
			if e.Department == dep {
				v.scoped = append(v.scoped, e)
			}
		}
	}
	v.tree = aggregate.BuildTree(v.scoped)
	v.year = latestYear(v.tree)
	v.monthSet = false
}

// Department returns the active department, or AllDepartments.
func (v *View) Department() string { return v.department }

// Tree exposes the active department's aggregate tree.
func (v *View) Tree() *aggregate.Tree { return v.tree }

// SelectYear sets the active year. aggregate.UnknownYear selects the bucket
// of entries with no date information.
func (v *View) SelectYear(year int) {
	v.year = year
	v.monthSet = false
}

// Year returns the active year.
func (v *View) Year() int { return v.year }

// SelectMonth narrows the active year to one month.
func (v *View) SelectMonth(m time.Month) {
	v.month = m
	v.monthSet = true
}

// SelectWholeYear widens the scope back to the active year.
func (v *View) SelectWholeYear() {
	v.monthSet = false
}

// FilterClient restricts rows to one client: an exact ID match or a
// case-insensitive name substring. Empty clears the filter.
func (v *View) FilterClient(q string) {
	v.client = q
}

// SetPage selects the active page (1-based).
func (v *View) SetPage(n int) {
	if n < 1 {
		n = 1
	}
	v.page = n
}

// SetPageSize changes the page size and resets to page 1, so a size change
// never strands the caller past the end of the new page range.
func (v *View) SetPageSize(n int) {
	if n <= 0 {
		n = DefaultPageSize
	}
	v.pageSize = n
	v.page = 1
}

// PageNumber returns the 1-based active page number.
func (v *View) PageNumber() int { return v.page }

// PageSize returns the active page size.
func (v *View) PageSize() int { return v.pageSize }

// scopeEntries returns the entries of the active year/month scope, before
// client filtering.
func (v *View) scopeEntries() []model.PaymentEntry {
	yb := v.tree.Year(v.year)
	if yb == nil {
		return nil
	}
	if v.monthSet {
		mb := yb.Month(v.month)
		if mb == nil {
			return nil
		}
		return mb.Entries
	}
	var entries []model.PaymentEntry
	for _, mb := range yb.Months {
		entries = append(entries, mb.Entries...)
	}
	return entries
}

func (v *View) filteredEntries() []model.PaymentEntry {
	entries := v.scopeEntries()
	if v.client == "" {
		return entries
	}
	q := strings.ToLower(v.client)
	var out []model.PaymentEntry
	for _, e := range entries {
		if e.ClientID == v.client || strings.Contains(strings.ToLower(e.ClientName), q) {
			out = append(out, e)
		}
	}
	return out
}

// Rows projects the active scope into report rows, newest first; entries
// with no date sort last. The outstanding column is each client's resolved
// balance over the whole department scope, not just the visible period.
func (v *View) Rows() []model.Row {
	entries := v.filteredEntries()

	sorted := make([]model.PaymentEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.HasDate() != b.HasDate() {
			return a.HasDate()
		}
		return a.Date.After(b.Date)
	})

	outstanding := make(map[string]decimal.Decimal)
	rows := make([]model.Row, 0, len(sorted))
	for _, e := range sorted {
		bal, ok := outstanding[e.ClientID]
		if !ok {
			if res, found := aggregate.ResolveBalance(v.scoped, e.ClientID); found {
				bal = res.Amount
			}
			outstanding[e.ClientID] = bal
		}

		date := ""
		if e.HasDate() {
			date = e.Date.Format(displayDateFormat)
		}
		rows = append(rows, model.Row{
			Department:  e.Department,
			ClientID:    e.ClientID,
			ClientName:  e.ClientName,
			Method:      e.Method,
			Date:        date,
			Receipt:     e.Receipt,
			Net:         classify.NetContribution(e),
			Outstanding: bal,
		})
	}
	return rows
}

// PageRows returns the rows of the active page. The slice is stable across
// re-renders: only the row set and the page inputs determine it.
func (v *View) PageRows() []model.Row {
	rows := v.Rows()
	page := v.page
	if max := v.pageCountFor(len(rows)); page > max {
		page = max
	}
	start := (page - 1) * v.pageSize
	if start >= len(rows) {
		return nil
	}
	end := start + v.pageSize
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}

// PageCount returns the number of pages in the active scope (at least 1).
func (v *View) PageCount() int {
	return v.pageCountFor(len(v.Rows()))
}

func (v *View) pageCountFor(rows int) int {
	if rows == 0 {
		return 1
	}
	return (rows + v.pageSize - 1) / v.pageSize
}

// ClientSummaries returns the flat per-client rollup of the active
// department scope.
func (v *View) ClientSummaries() []aggregate.ClientSummary {
	return aggregate.ClientSummaries(v.scoped)
}

// SummaryAll is the cross-department summary of the whole snapshot.
func (v *View) SummaryAll() model.Summary {
	return summarize(v.all)
}

// SummaryDepartment summarizes the active department scope.
func (v *View) SummaryDepartment() model.Summary {
	return summarize(v.scoped)
}

// SummaryYear summarizes the active year.
func (v *View) SummaryYear() model.Summary {
	yb := v.tree.Year(v.year)
	if yb == nil {
		return model.Summary{Paid: decimal.Zero, Refunds: decimal.Zero, Outstanding: decimal.Zero}
	}
	var entries []model.PaymentEntry
	for _, mb := range yb.Months {
		entries = append(entries, mb.Entries...)
	}
	return model.Summary{
		Paid:        yb.Totals.PaidNet,
		Refunds:     yb.Totals.Refunds,
		Outstanding: aggregate.OutstandingTotal(entries),
		Pending:     yb.Totals.PendingCount,
		Entries:     yb.Totals.EntryCount,
	}
}

// SummaryMonth summarizes the active month; with the whole year selected it
// equals SummaryYear.
func (v *View) SummaryMonth() model.Summary {
	if !v.monthSet {
		return v.SummaryYear()
	}
	yb := v.tree.Year(v.year)
	if yb == nil {
		return model.Summary{Paid: decimal.Zero, Refunds: decimal.Zero, Outstanding: decimal.Zero}
	}
	mb := yb.Month(v.month)
	if mb == nil {
		return model.Summary{Paid: decimal.Zero, Refunds: decimal.Zero, Outstanding: decimal.Zero}
	}
	return model.Summary{
		Paid:        mb.Totals.PaidNet,
		Refunds:     mb.Totals.Refunds,
		Outstanding: aggregate.OutstandingTotal(mb.Entries),
		Pending:     mb.Totals.PendingCount,
		Entries:     mb.Totals.EntryCount,
	}
}

func summarize(entries []model.PaymentEntry) model.Summary {
	s := model.Summary{Paid: decimal.Zero, Refunds: decimal.Zero}
	for _, e := range entries {
		s.Paid = s.Paid.Add(classify.NetContribution(e))
		s.Refunds = s.Refunds.Add(e.Refund)
		s.Entries++
		if classify.IsPending(e) {
			s.Pending++
		}
	}
	s.Outstanding = aggregate.OutstandingTotal(entries)
	return s
}

func latestYear(t *aggregate.Tree) int {
	if len(t.Years) == 0 {
		return aggregate.UnknownYear
	}
	return t.Years[0].Year
}
