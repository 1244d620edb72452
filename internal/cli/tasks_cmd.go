package cli

import (
	"fmt"

	"github.com/alexanderramin/linimasa/internal/cli/formatter"
	"github.com/alexanderramin/linimasa/internal/registry"
	"github.com/spf13/cobra"
)

func newTasksCmd(app *App) *cobra.Command {
	var sortFlag string

	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List tasks on the board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := app.runtime()
			if err != nil {
				return err
			}
			order, err := registry.ParseSortOrder(sortFlag)
			if err != nil {
				return err
			}
			tasks := registry.Sorted(rt.Board.List(), order)
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTaskTable(tasks))
			return nil
		},
	}
	cmd.Flags().StringVar(&sortFlag, "sort", string(registry.SortInsertion), "Sort order: insertion, due, start, priority")

	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show one task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := app.runtime()
			if err != nil {
				return err
			}
			task, err := rt.Board.Get(args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTaskDetail(task, rt.Board.Now())+"\n")
			return nil
		},
	})
	return cmd
}
