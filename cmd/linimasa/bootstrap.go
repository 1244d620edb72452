package main

import (
	"cmp"
	"fmt"
	"os"
	"time"

	"github.com/alexanderramin/linimasa/internal/chat"
	"github.com/alexanderramin/linimasa/internal/cli"
	"github.com/alexanderramin/linimasa/internal/config"
	"github.com/alexanderramin/linimasa/internal/dashboard"
	"github.com/alexanderramin/linimasa/internal/db"
	"github.com/alexanderramin/linimasa/internal/importer"
	"github.com/alexanderramin/linimasa/internal/llm"
	"github.com/alexanderramin/linimasa/internal/registry"
	"github.com/alexanderramin/linimasa/internal/timeline"
	"github.com/charmbracelet/log"
)

// bootstrap wires config, logging, the board and the chat service.
func bootstrap(opts cli.GlobalOptions) (*cli.Runtime, error) {
	path := opts.ConfigPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path, config.Default())
	if err != nil {
		return nil, err
	}
	cfg = config.ApplyEnv(cfg)
	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:           cfg.LogLevel(),
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	})

	reg := registry.New()
	if err := loadSeed(reg, opts.SeedPath, cfg.Seed); err != nil {
		return nil, err
	}
	logger.Debug("board loaded", "tasks", reg.Len())

	now := time.Now()
	board := dashboard.NewBoard(reg,
		timeline.NewViewState(cfg.Anchor(now), cfg.Granularity()),
		dashboard.WithLogger(logger.WithPrefix("board")))

	rt := &cli.Runtime{Config: cfg, Board: board, Logger: logger}

	var store chat.Store = chat.NewMemoryStore()
	if cfg.Chat.Database != "" {
		database, err := db.OpenDB(cfg.Chat.Database)
		if err != nil {
			return nil, fmt.Errorf("opening chat database: %w", err)
		}
		store = chat.NewSQLiteStore(database)
		rt.Close = database.Close
		logger.Debug("chat history persisted", "path", cfg.Chat.Database)
	}

	client := llm.NewClient(cfg.LLMClientConfig(), llm.NewLogObserver(logger))
	svcOpts := []chat.ServiceOption{
		chat.WithSystemPrompt(cfg.Chat.SystemPrompt),
		chat.WithServiceLogger(logger.WithPrefix("chat")),
	}
	if cfg.Chat.IncludeDigest {
		svcOpts = append(svcOpts, chat.WithDigest(func() string {
			return chat.DashboardDigest(board.Snapshot())
		}))
	}
	rt.Chat = chat.NewService(store, client, svcOpts...)
	return rt, nil
}

// loadSeed fills reg from the --seed flag, then [seed] path, then the
// built-in sample when [seed] sample is set.
func loadSeed(reg *registry.Registry, flagPath string, cfg config.SeedConfig) error {
	var (
		seed *importer.SeedFile
		err  error
	)
	switch path := cmp.Or(flagPath, cfg.Path); {
	case path != "":
		seed, err = importer.ReadFile(path)
		if err != nil {
			return err
		}
		if _, err := importer.Load(reg, seed); err != nil {
			return fmt.Errorf("seed %s: %w", path, err)
		}
		return nil
	case cfg.Sample:
		seed, err = importer.DefaultSeed()
		if err != nil {
			return fmt.Errorf("built-in sample board: %w", err)
		}
		_, err = importer.Load(reg, seed)
		return err
	}
	return nil
}

