package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/paylens-dev/paylens/internal/config"
	"github.com/paylens-dev/paylens/internal/logging"
	"github.com/paylens-dev/paylens/internal/report"
	"github.com/paylens-dev/paylens/internal/store"
)

type reportFlags struct {
	department string
	year       int
	month      int
	client     string
	page       int
	pageSize   int
}

func (f *reportFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.department, "dept", "d", "", "department label (default: all departments)")
	cmd.Flags().IntVarP(&f.year, "year", "y", 0, "report year (default: latest)")
	cmd.Flags().IntVarP(&f.month, "month", "m", 0, "report month 1-12 (default: whole year)")
	cmd.Flags().StringVar(&f.client, "client", "", "filter by client id or name")
	cmd.Flags().IntVar(&f.page, "page", 1, "page number")
	cmd.Flags().IntVar(&f.pageSize, "page-size", 0, "rows per page (10, 25, 50, or 100)")
}

func newReportCommand() *cobra.Command {
	var flags reportFlags

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print a payment report for the configured store",
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := buildView(cmd, &flags)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if view.Status() == store.StatusUnavailable {
				fmt.Fprintln(out, "record store unavailable; showing empty report")
			}

			if err := report.WriteTable(out, view.PageRows()); err != nil {
				return fmt.Errorf("rendering report: %w", err)
			}
			fmt.Fprintf(out, "\npage %d of %d\n\n", view.PageNumber(), view.PageCount())

			report.WriteSummary(out, "all departments", view.SummaryAll())
			if view.Department() != report.AllDepartments {
				report.WriteSummary(out, view.Department(), view.SummaryDepartment())
			}
			report.WriteSummary(out, fmt.Sprintf("year %s", yearLabel(view.Year())), view.SummaryYear())
			report.WriteSummary(out, "selected period", view.SummaryMonth())
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

// buildView loads a snapshot from the configured store paths and applies the
// common report flags.
func buildView(cmd *cobra.Command, flags *reportFlags) (*report.View, error) {
	cfgPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	log := logging.New("paylens")
	src := store.NewDirSource(cfg.WatchPaths(), log)
	snap := src.Load(cmd.Context())

	pageSize := cfg.Report.PageSize
	if flags.pageSize > 0 {
		pageSize = flags.pageSize
	}
	view := report.FromSnapshot(snap, report.Options{PageSize: pageSize})

	if flags.department != "" {
		view.SelectDepartment(flags.department)
	}
	if flags.year != 0 {
		view.SelectYear(flags.year)
	}
	if flags.month >= 1 && flags.month <= 12 {
		view.SelectMonth(time.Month(flags.month))
	}
	if flags.client != "" {
		view.FilterClient(flags.client)
	}
	view.SetPage(flags.page)

	return view, nil
}

func yearLabel(year int) string {
	if year == 0 {
		return "unknown"
	}
	return fmt.Sprintf("%d", year)
}
