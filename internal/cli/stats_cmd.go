package cli

import (
	"fmt"

	"github.com/alexanderramin/linimasa/internal/cli/formatter"
	"github.com/alexanderramin/linimasa/internal/dashboard"
	"github.com/alexanderramin/linimasa/internal/domain"
	"github.com/alexanderramin/linimasa/internal/stats"
	"github.com/spf13/cobra"
)

func newStatsCmd(app *App) *cobra.Command {
	var today string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show summary counters and upcoming deadlines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := app.runtime()
			if err != nil {
				return err
			}
			snap := rt.Board.Snapshot()
			if today != "" {
				d, err := domain.ParseDate(today)
				if err != nil {
					return &domain.ValidationError{Field: "today", Reason: fmt.Sprintf("invalid date %q (expected YYYY-MM-DD)", today)}
				}
				tasks := rt.Board.List()
				snap.Now = d
				snap.Stats = stats.Compute(tasks, d)
				snap.Deadlines = dashboard.Deadlines(tasks, d)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatStats(snap))
			return nil
		},
	}
	cmd.Flags().StringVar(&today, "today", "", "Evaluate deadlines as of this date (YYYY-MM-DD)")
	return cmd
}
