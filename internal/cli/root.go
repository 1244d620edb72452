package cli

import (
	"errors"

	"github.com/alexanderramin/linimasa/internal/chat"
	"github.com/alexanderramin/linimasa/internal/config"
	"github.com/alexanderramin/linimasa/internal/dashboard"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// GlobalOptions carries the persistent root flags.
type GlobalOptions struct {
	ConfigPath string
	SeedPath   string
	LogLevel   string
}

// Runtime is the wired application a command runs against.
type Runtime struct {
	Config config.Config
	Board  *dashboard.Board
	Chat   *chat.Service
	Logger *log.Logger

	// Close releases storage handles. May be nil.
	Close func() error
}

// Shutdown closes the runtime if one was bootstrapped.
func (a *App) Shutdown() error {
	if a.Runtime == nil || a.Runtime.Close == nil {
		return nil
	}
	return a.Runtime.Close()
}

// App is the CLI entrypoint state. Runtime, when already set, is used as-is
// and Bootstrap is skipped.
type App struct {
	Runtime   *Runtime
	Bootstrap func(GlobalOptions) (*Runtime, error)

	// IsInteractive reports whether stdin is a terminal. The root command
	// launches the TUI only when it returns true.
	IsInteractive func() bool
}

var errNotBootstrapped = errors.New("application runtime is not initialized")

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) runtime() (*Runtime, error) {
	if a.Runtime == nil {
		return nil, errNotBootstrapped
	}
	return a.Runtime, nil
}

// NewRootCmd creates the top-level "linimasa" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	var opts GlobalOptions

	root := &cobra.Command{
		Use:           "linimasa",
		Short:         "Project timeline dashboard with a chat assistant",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.Runtime != nil || app.Bootstrap == nil {
				return nil
			}
			rt, err := app.Bootstrap(opts)
			if err != nil {
				return err
			}
			app.Runtime = rt
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.interactive() {
				return runTUI(cmd.Context(), app)
			}
			return cmd.Help()
		},
	}

	addGlobalFlags(root.PersistentFlags(), &opts)

	root.AddCommand(
		newTasksCmd(app),
		newTimelineCmd(app),
		newStatsCmd(app),
		newChatCmd(app),
		newSeedCmd(app),
		newConfigCmd(app, &opts),
		newServeCmd(app),
		newTUICmd(app),
	)
	return root
}

func addGlobalFlags(fs *pflag.FlagSet, opts *GlobalOptions) {
	fs.StringVar(&opts.ConfigPath, "config", "", "Path to config.toml (default ~/.linimasa/config.toml)")
	fs.StringVar(&opts.SeedPath, "seed", "", "Seed file with tasks (.json, .yaml or .toml)")
	fs.StringVar(&opts.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
}
