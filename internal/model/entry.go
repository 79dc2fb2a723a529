package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryKind classifies what a payment entry represents.
type EntryKind string

const (
	KindPayment           EntryKind = "payment"
	KindRefund            EntryKind = "refund"
	KindBalanceAdjustment EntryKind = "balance-adjustment"
)

// PaymentEntry is one normalized payment fact extracted from a raw client
// record. Entries are immutable once extracted; aggregation only reads them.
type PaymentEntry struct {
	SourceID   string // originating record, opaque; never used for ordering
	Department string
	ClientID   string
	ClientName string

	Paid   decimal.Decimal // signed; zero when absent or unparsable
	Travel decimal.Decimal
	Refund decimal.Decimal // >= 0

	// Balance is the outstanding balance as written on the source record,
	// cumulative as of that transaction. It is never summed across entries.
	Balance decimal.Decimal

	Method  string
	Receipt string

	RawDate string    // original date text, unparsed
	Date    time.Time // zero value means the period is unknown

	RefundFlag  bool // explicit refund marker on the record
	ClearedFlag bool // explicit balance-clearing marker on the record

	Kind EntryKind
}

// HasDate reports whether the entry's date was successfully normalized.
func (e PaymentEntry) HasDate() bool {
	return !e.Date.IsZero()
}

// Year returns the entry's calendar year, or 0 if the date is unknown.
func (e PaymentEntry) Year() int {
	if !e.HasDate() {
		return 0
	}
	return e.Date.Year()
}

// Month returns the entry's calendar month, or 0 if the date is unknown.
func (e PaymentEntry) Month() time.Month {
	if !e.HasDate() {
		return 0
	}
	return e.Date.Month()
}
