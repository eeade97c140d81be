package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	washsale "github.com/Cmf1125/wash-sale-tracker"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
)

// Config holds the application configuration, loaded from an optional TOML
// file with environment overrides on top.
type Config struct {
	LedgerFile string        `toml:"ledger_file"`
	Logging    LoggingConfig `toml:"logging"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level string `toml:"level"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		LedgerFile: "trades.jsonl",
		Logging:    LoggingConfig{Level: "warn"},
	}
}

// LoadConfig reads the config file, if any, and applies WST_* environment
// overrides. Lookup order: $WST_CONFIG, ./wst.toml, ~/.config/wst/wst.toml.
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	paths := []string{os.Getenv("WST_CONFIG"), "wst.toml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "wst", "wst.toml"))
	}

	for _, path := range paths {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
		break
	}

	if ledger := os.Getenv("WST_LEDGER"); ledger != "" {
		cfg.LedgerFile = ledger
	}
	if level := os.Getenv("WST_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	return cfg, nil
}

// Logger builds the application logger from the configured level.
func (c *Config) Logger() zerolog.Logger {
	return washsale.NewLogger(c.Logging.Level)
}
