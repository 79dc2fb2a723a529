package model

import "github.com/shopspring/decimal"

// Row is one line of the tabular report produced for presentation/export.
type Row struct {
	Department  string
	ClientID    string
	ClientName  string
	Method      string
	Date        string // display-formatted, empty when unknown
	Receipt     string
	Net         decimal.Decimal
	Outstanding decimal.Decimal
}

// Summary holds the scalar figures for one report scope (all departments,
// one department, a year, or a single month).
type Summary struct {
	Paid        decimal.Decimal // net of refunds and adjustments
	Refunds     decimal.Decimal
	Outstanding decimal.Decimal
	Pending     int
	Entries     int
}
