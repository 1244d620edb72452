package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/linimasa/internal/cli/formatter"
	"github.com/alexanderramin/linimasa/internal/domain"
	"github.com/alexanderramin/linimasa/internal/timeline"
	"github.com/spf13/cobra"
)

func newTimelineCmd(app *App) *cobra.Command {
	var anchor, granularity string

	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "Render the Gantt timeline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := app.runtime()
			if err != nil {
				return err
			}
			view := rt.Board.ViewState()
			switch a := strings.TrimSpace(anchor); {
			case a == "today":
				view.JumpToToday(rt.Board.Now())
			case a != "":
				d, err := domain.ParseDate(a)
				if err != nil {
					return &domain.ValidationError{Field: "anchor", Reason: fmt.Sprintf("invalid date %q (expected YYYY-MM-DD)", a)}
				}
				view.Anchor = d
			}
			if granularity != "" {
				g, err := domain.ParseGranularity(granularity)
				if err != nil {
					return err
				}
				view.SetGranularity(g)
			}
			rt.Board.Navigate(func(v *timeline.ViewState) { *v = view })

			snap := rt.Board.Snapshot()
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTimeline(snap.View, snap.Ticks, snap.Bars,
				formatter.TimelineOptions{Today: snap.Now}))
			return nil
		},
	}
	cmd.Flags().StringVar(&anchor, "anchor", "", "First visible day (YYYY-MM-DD or \"today\")")
	cmd.Flags().StringVarP(&granularity, "granularity", "g", "", "Zoom level: day, week, month")
	return cmd
}
