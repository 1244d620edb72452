package main

import (
	"fmt"
	"os"

	"github.com/alexanderramin/linimasa/internal/cli"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	app := &cli.App{Bootstrap: bootstrap}

	// Bare "linimasa" opens the TUI only on a terminal.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	err := rootCmd.Execute()
	if cerr := app.Shutdown(); cerr != nil && err == nil {
		err = fmt.Errorf("closing storage: %w", cerr)
	}
	return err
}
