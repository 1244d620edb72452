package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/linimasa/internal/httpapi"
	"github.com/spf13/cobra"
)

func newServeCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the board and assistant over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := app.runtime()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = rt.Config.Server.Addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			handler := httpapi.NewMux(httpapi.NewHandler(rt.Board, rt.Chat, rt.Logger))
			rt.Logger.Info("listening", "addr", addr, "api", httpapi.APIEndpoint)
			if err := httpapi.Run(ctx, addr, handler); err != nil {
				return err
			}
			rt.Logger.Info("server stopped")
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from [server] addr)")
	return cmd
}
