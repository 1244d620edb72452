// Package config loads linimasa settings from a TOML file with LINIMASA_*
// environment overrides on top.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/linimasa/internal/domain"
	"github.com/alexanderramin/linimasa/internal/llm"
	"github.com/charmbracelet/log"
	toml "github.com/pelletier/go-toml/v2"
)

// EnvPrefix starts every environment override.
const EnvPrefix = "LINIMASA_"

type Config struct {
	Timeline TimelineConfig `toml:"timeline"`
	LLM      LLMConfig      `toml:"llm"`
	Chat     ChatConfig     `toml:"chat"`
	Server   ServerConfig   `toml:"server"`
	Logging  LoggingConfig  `toml:"logging"`
	Seed     SeedConfig     `toml:"seed"`
}

type TimelineConfig struct {
	Granularity string `toml:"granularity"`
	Anchor      string `toml:"anchor"` // YYYY-MM-DD, empty means today
}

type LLMConfig struct {
	Enabled    bool   `toml:"enabled"`
	Endpoint   string `toml:"endpoint"`
	Model      string `toml:"model"`
	TimeoutMs  int    `toml:"timeout_ms"`
	MaxRetries int    `toml:"max_retries"`
}

type ChatConfig struct {
	Database      string `toml:"database"` // empty keeps history in memory
	SystemPrompt  string `toml:"system_prompt"`
	IncludeDigest bool   `toml:"include_digest"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

type LoggingConfig struct {
	Level string `toml:"level"`
}

type SeedConfig struct {
	Path   string `toml:"path"`
	Sample bool   `toml:"sample"` // load the built-in board when path is empty
}

func Default() Config {
	llmDefaults := llm.DefaultConfig()
	return Config{
		Timeline: TimelineConfig{
			Granularity: string(domain.GranularityDay),
		},
		LLM: LLMConfig{
			Enabled:    llmDefaults.Enabled,
			Endpoint:   llmDefaults.Endpoint,
			Model:      llmDefaults.Model,
			TimeoutMs:  llmDefaults.TimeoutMs,
			MaxRetries: llmDefaults.MaxRetries,
		},
		Chat: ChatConfig{
			IncludeDigest: true,
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8080",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Seed: SeedConfig{
			Sample: true,
		},
	}
}

// DefaultPath is ~/.linimasa/config.toml, or a relative fallback when the
// home directory is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".linimasa", "config.toml")
	}
	return filepath.Join(home, ".linimasa", "config.toml")
}

// Load reads path over defaults. A missing or empty file yields defaults.
func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// ApplyEnv overlays LINIMASA_* variables. Values that fail to parse are
// ignored so a stray variable never blocks startup.
func ApplyEnv(cfg Config) Config {
	if v := getenv("LLM_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.LLM.Enabled = b
		}
	}
	if v := getenv("LLM_ENDPOINT"); v != "" {
		cfg.LLM.Endpoint = v
	}
	if v := getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := getenv("LLM_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.LLM.TimeoutMs = n
		}
	}
	if v := getenv("LLM_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.LLM.MaxRetries = n
		}
	}
	if v := getenv("CHAT_DB"); v != "" {
		cfg.Chat.Database = v
	}
	if v := getenv("SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := getenv("SEED"); v != "" {
		cfg.Seed.Path = v
	}
	return cfg
}

func getenv(name string) string {
	return strings.TrimSpace(os.Getenv(EnvPrefix + name))
}

func (c Config) Validate() error {
	if _, err := domain.ParseGranularity(c.Timeline.Granularity); err != nil {
		return fmt.Errorf("invalid timeline.granularity: %q", c.Timeline.Granularity)
	}
	if a := strings.TrimSpace(c.Timeline.Anchor); a != "" {
		if _, err := domain.ParseDate(a); err != nil {
			return fmt.Errorf("invalid timeline.anchor: %q (expected YYYY-MM-DD)", c.Timeline.Anchor)
		}
	}

	if c.LLM.Enabled {
		ep := strings.TrimSpace(c.LLM.Endpoint)
		if !strings.HasPrefix(ep, "http://") && !strings.HasPrefix(ep, "https://") {
			return fmt.Errorf("invalid llm.endpoint: %q (expected http or https URL)", c.LLM.Endpoint)
		}
		if strings.TrimSpace(c.LLM.Model) == "" {
			return errors.New("llm.model is required when llm.enabled is true")
		}
	}
	if c.LLM.TimeoutMs <= 0 {
		return errors.New("llm.timeout_ms must be > 0")
	}
	if c.LLM.MaxRetries < 0 {
		return errors.New("llm.max_retries must be >= 0")
	}

	if strings.TrimSpace(c.Server.Addr) == "" {
		return errors.New("server.addr is required")
	}
	if _, err := log.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}
	return nil
}

// LogLevel parses logging.level, falling back to info.
func (c Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Logging.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// Granularity parses timeline.granularity, falling back to day.
func (c Config) Granularity() domain.Granularity {
	g, err := domain.ParseGranularity(c.Timeline.Granularity)
	if err != nil {
		return domain.GranularityDay
	}
	return g
}

// Anchor is the configured first visible day, or now when unset.
func (c Config) Anchor(now time.Time) time.Time {
	if d, err := domain.ParseDate(c.Timeline.Anchor); err == nil {
		return d
	}
	return domain.Day(now)
}

// LLMClientConfig translates the [llm] section into client settings,
// keeping the per-task defaults.
func (c Config) LLMClientConfig() llm.LLMConfig {
	out := llm.DefaultConfig()
	out.Enabled = c.LLM.Enabled
	out.Endpoint = strings.TrimRight(strings.TrimSpace(c.LLM.Endpoint), "/")
	out.Model = c.LLM.Model
	out.TimeoutMs = c.LLM.TimeoutMs
	out.MaxRetries = c.LLM.MaxRetries
	return out
}

func EnsureConfigDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// Write encodes cfg as TOML at path, creating its directory.
func Write(path string, cfg Config) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode toml: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
