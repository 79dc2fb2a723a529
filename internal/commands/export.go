package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/paylens-dev/paylens/internal/report"
)

func newExportCommand() *cobra.Command {
	var flags reportFlags
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a payment report slice as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := buildView(cmd, &flags)
			if err != nil {
				return err
			}

			// Export covers the whole active scope, not just one page.
			rows := view.Rows()

			if outPath == "" {
				return report.WriteCSV(cmd.OutOrStdout(), rows)
			}

			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("creating export file: %w", err)
			}
			defer f.Close()

			if err := report.WriteCSV(f, rows); err != nil {
				return fmt.Errorf("writing export: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d rows to %s\n", len(rows), outPath)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default: stdout)")
	return cmd
}
