package report

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paylens-dev/paylens/internal/classify"
	"github.com/paylens-dev/paylens/internal/model"
	"github.com/paylens-dev/paylens/internal/store"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

// monthEntries builds n dated payment entries inside March 2024.
func monthEntries(n int) []model.PaymentEntry {
	entries := make([]model.PaymentEntry, n)
	for i := range entries {
		entries[i] = model.PaymentEntry{
			ClientID:   fmt.Sprintf("c-%02d", i),
			ClientName: fmt.Sprintf("Client %02d", i),
			Paid:       dec("100"),
			Balance:    dec("10"),
			Date:       date(2024, 3, 1+i%28),
		}
	}
	return classify.Entries(entries)
}

func TestView_Pagination(t *testing.T) {
	v := NewView(monthEntries(47), Options{})
	v.SelectYear(2024)
	v.SelectMonth(time.March)

	require.Len(t, v.Rows(), 47)
	assert.Equal(t, 5, v.PageCount())

	v.SetPage(5)
	assert.Len(t, v.PageRows(), 7, "last page holds the remainder")

	v.SetPage(2)
	assert.Len(t, v.PageRows(), 10)
}

func TestView_PageSizeChangeResetsPage(t *testing.T) {
	v := NewView(monthEntries(47), Options{})
	v.SelectYear(2024)
	v.SelectMonth(time.March)

	v.SetPage(5)
	require.Equal(t, 5, v.PageNumber())

	v.SetPageSize(25)
	assert.Equal(t, 1, v.PageNumber())
	assert.Len(t, v.PageRows(), 25)
	assert.Equal(t, 2, v.PageCount())
}

func TestView_PageStableAcrossUnrelatedChanges(t *testing.T) {
	v := NewView(monthEntries(47), Options{})
	v.SelectYear(2024)
	v.SelectMonth(time.March)
	v.SetPage(3)

	before := v.PageRows()
	// Re-reading is a no-op: nothing about the page inputs changed.
	after := v.PageRows()
	assert.Equal(t, before, after)
	assert.Equal(t, 3, v.PageNumber())
}

func TestView_RowsNewestFirst(t *testing.T) {
	entries := classify.Entries([]model.PaymentEntry{
		{ClientID: "a", Paid: dec("10"), Balance: dec("5"), Date: date(2024, 1, 5)},
		{ClientID: "b", Paid: dec("20"), Balance: dec("5"), Date: date(2024, 3, 5)},
		{ClientID: "c", Paid: dec("30"), Balance: dec("5")}, // undated, sorts last
		{ClientID: "d", Paid: dec("40"), Balance: dec("5"), Date: date(2024, 2, 5)},
	})
	v := NewView(entries, Options{})
	v.SelectYear(2024)

	rows := v.Rows()
	require.Len(t, rows, 3) // undated entry lives under the unknown year
	assert.Equal(t, "b", rows[0].ClientID)
	assert.Equal(t, "d", rows[1].ClientID)
	assert.Equal(t, "a", rows[2].ClientID)

	v.SelectYear(0)
	rows = v.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "c", rows[0].ClientID)
	assert.Empty(t, rows[0].Date)
}

func TestView_DepartmentIsItsOwnAggregation(t *testing.T) {
	entries := classify.Entries([]model.PaymentEntry{
		{Department: "consulting", ClientID: "a", Paid: dec("100"), Balance: dec("10"), Date: date(2024, 1, 1)},
		{Department: "consulting", ClientID: "a", Paid: dec("50"), Balance: dec("5"), Date: date(2024, 2, 1)},
		{Department: "training", ClientID: "b", Paid: dec("900"), Balance: dec("90"), Date: date(2024, 1, 1)},
	})
	v := NewView(entries, Options{})

	assert.Equal(t, []string{"consulting", "training"}, v.Departments())
	assert.True(t, v.SummaryAll().Paid.Equal(dec("1050")))

	v.SelectDepartment("consulting")
	assert.True(t, v.SummaryDepartment().Paid.Equal(dec("150")))
	assert.Equal(t, 2, v.Tree().Totals.EntryCount)
	// Outstanding is latest-wins for client a only.
	assert.True(t, v.SummaryDepartment().Outstanding.Equal(dec("5")))

	v.SelectDepartment(AllDepartments)
	assert.Equal(t, 3, v.Tree().Totals.EntryCount)
	assert.True(t, v.SummaryAll().Outstanding.Equal(dec("95")))
}

func TestView_ClientFilter(t *testing.T) {
	entries := classify.Entries([]model.PaymentEntry{
		{ClientID: "c-1", ClientName: "Acme Ltd", Paid: dec("10"), Balance: dec("1"), Date: date(2024, 1, 1)},
		{ClientID: "c-2", ClientName: "Beta Co", Paid: dec("20"), Balance: dec("2"), Date: date(2024, 1, 2)},
		{ClientID: "c-3", ClientName: "Acme North", Paid: dec("30"), Balance: dec("3"), Date: date(2024, 1, 3)},
	})
	v := NewView(entries, Options{})
	v.SelectYear(2024)

	v.FilterClient("acme")
	rows := v.Rows()
	require.Len(t, rows, 2)

	v.FilterClient("c-2")
	rows = v.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "Beta Co", rows[0].ClientName)

	v.FilterClient("")
	assert.Len(t, v.Rows(), 3)
}

func TestView_SummaryMonthVsYear(t *testing.T) {
	entries := classify.Entries([]model.PaymentEntry{
		{ClientID: "a", Paid: dec("100"), Balance: dec("10"), Date: date(2024, 1, 10)},
		{ClientID: "a", Paid: dec("200"), Balance: dec("20"), Date: date(2024, 2, 10)},
	})
	v := NewView(entries, Options{})
	v.SelectYear(2024)

	assert.True(t, v.SummaryYear().Paid.Equal(dec("300")))
	// Whole year selected: month summary equals year summary.
	assert.True(t, v.SummaryMonth().Paid.Equal(dec("300")))

	v.SelectMonth(time.February)
	m := v.SummaryMonth()
	assert.True(t, m.Paid.Equal(dec("200")))
	assert.Equal(t, 1, m.Entries)
	assert.True(t, m.Outstanding.Equal(dec("20")))
}

func TestFromSnapshot_PathPriorityAndProvenance(t *testing.T) {
	snap := store.Snapshot{
		Status: store.StatusOK,
		Paths: []store.PathSnapshot{
			{
				Path: store.WatchPath{Department: "consulting", Dir: "clients/consulting"},
				Records: map[string]store.RawRecord{
					"r1": {"clientId": "a", "amount": 100.0, "date": "15/03/2024"},
				},
				RecordIDs: []string{"r1"},
			},
			{
				Path: store.WatchPath{Department: "training", Dir: "clients/training"},
				Records: map[string]store.RawRecord{
					"r2": {"clientId": "b", "amount": 200.0, "balance": 40.0, "date": "20/03/2024"},
				},
				RecordIDs: []string{"r2"},
			},
		},
	}

	v := FromSnapshot(snap, Options{})
	assert.Equal(t, store.StatusOK, v.Status())
	assert.Equal(t, []string{"consulting", "training"}, v.Departments())

	s := v.SummaryAll()
	assert.Equal(t, 2, s.Entries)
	// r1 has balance 0 with paid > 0: classified as balance-clearing, and a
	// genuinely cleared balance counts as collected revenue.
	assert.True(t, s.Paid.Equal(dec("300")))
	assert.True(t, s.Outstanding.Equal(dec("40")))
}

func TestFromSnapshot_Idempotent(t *testing.T) {
	snap := store.Snapshot{
		Status: store.StatusOK,
		Paths: []store.PathSnapshot{
			{
				Path: store.WatchPath{Department: "consulting", Dir: "x"},
				Records: map[string]store.RawRecord{
					"r1": {"clientId": "a", "amount": 100.0, "balance": 10.0, "date": "15/03/2024"},
					"r2": {"clientId": "b", "amount": 50.0, "balance": 5.0},
				},
				RecordIDs: []string{"r1", "r2"},
			},
		},
	}
	first := FromSnapshot(snap, Options{})
	second := FromSnapshot(snap, Options{})
	require.Equal(t, first.Tree(), second.Tree())
	require.Equal(t, first.Rows(), second.Rows())
}

func TestFromSnapshot_Unavailable(t *testing.T) {
	snap := store.Snapshot{Status: store.StatusUnavailable}
	v := FromSnapshot(snap, Options{})
	assert.Equal(t, store.StatusUnavailable, v.Status())
	assert.Empty(t, v.Rows())
	assert.Equal(t, 0, v.SummaryAll().Entries)
}
