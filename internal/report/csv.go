package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/paylens-dev/paylens/internal/model"
)

// Header is the CSV header for exported reports.
const Header = "department,client_id,client_name,method,date,receipt,net,outstanding"

const (
	numFields      = 8
	colDepartment  = 0
	colClientID    = 1
	colClientName  = 2
	colMethod      = 3
	colDate        = 4
	colReceipt     = 5
	colNet         = 6
	colOutstanding = 7
)

// WriteCSV writes rows as CSV (including header).
func WriteCSV(w io.Writer, rows []model.Row) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, row := range rows {
		if err := cw.Write(MarshalRow(row)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalRow converts a Row to a CSV record.
func MarshalRow(row model.Row) []string {
	rec := make([]string, numFields)
	rec[colDepartment] = row.Department
	rec[colClientID] = row.ClientID
	rec[colClientName] = row.ClientName
	rec[colMethod] = row.Method
	rec[colDate] = row.Date
	rec[colReceipt] = row.Receipt
	rec[colNet] = row.Net.StringFixed(2)
	rec[colOutstanding] = row.Outstanding.StringFixed(2)
	return rec
}

// WriteTable renders rows as aligned text for terminal display.
func WriteTable(w io.Writer, rows []model.Row) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DEPARTMENT\tCLIENT\tNAME\tMETHOD\tDATE\tRECEIPT\tNET\tOUTSTANDING")
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			row.Department, row.ClientID, row.ClientName, row.Method,
			row.Date, row.Receipt, row.Net.StringFixed(2), row.Outstanding.StringFixed(2))
	}
	return tw.Flush()
}

// WriteSummary renders one summary block for terminal display.
func WriteSummary(w io.Writer, label string, s model.Summary) {
	fmt.Fprintf(w, "%s: paid %s, refunds %s, outstanding %s, pending %d, entries %d\n",
		label, s.Paid.StringFixed(2), s.Refunds.StringFixed(2),
		s.Outstanding.StringFixed(2), s.Pending, s.Entries)
}
