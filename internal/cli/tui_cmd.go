package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newTUICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), app)
		},
	}
}

func runTUI(ctx context.Context, app *App) error {
	rt, err := app.runtime()
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	p := tea.NewProgram(newAppModel(rt), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}
