package commands

import (
	"github.com/spf13/cobra"

	"github.com/paylens-dev/paylens/internal/config"
	"github.com/paylens-dev/paylens/internal/logging"
	"github.com/paylens-dev/paylens/internal/report"
	"github.com/paylens-dev/paylens/internal/store"
)

func newWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the record store and recompute the report on change",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, err := cmd.Flags().GetString("config")
			if err != nil {
				return err
			}
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}

			log := logging.New("paylens-watch")
			src := store.NewDirSource(cfg.WatchPaths(), log)

			watcher, err := store.NewWatcher(src, cfg.Debounce(), log)
			if err != nil {
				return err
			}
			defer watcher.Close()

			ctx := cmd.Context()
			go func() {
				for snap := range watcher.Snapshots() {
					view := report.FromSnapshot(snap, report.Options{PageSize: cfg.Report.PageSize})
					s := view.SummaryAll()
					log.Info().
						Str("status", string(snap.Status)).
						Str("paid", s.Paid.StringFixed(2)).
						Str("refunds", s.Refunds.StringFixed(2)).
						Str("outstanding", s.Outstanding.StringFixed(2)).
						Int("pending", s.Pending).
						Int("entries", s.Entries).
						Msg("recomputed")
				}
			}()

			err = watcher.Run(ctx)
			if ctx.Err() != nil {
				return nil // clean shutdown
			}
			return err
		},
	}
	return cmd
}
