package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

// Config holds the full TOML-driven pgwright configuration.
type Config struct {
	Database DatabaseConfig `toml:"database"`
	Generate GenerateConfig `toml:"generate"`
	Seed     SeedConfig     `toml:"seed"`
	Log      LogConfig      `toml:"log"`
	Alter    AlterConfig    `toml:"alter"`

	// configDir is the directory containing the TOML file, used to resolve relative paths.
	configDir string
}

// DatabaseConfig identifies the target database and schema.
type DatabaseConfig struct {
	DSN    string `toml:"dsn" env:"PGWRIGHT_DSN"`
	Schema string `toml:"schema"`
}

// GenerateConfig controls migration source generation.
type GenerateConfig struct {
	Dir        string   `toml:"dir"`
	ImportBase string   `toml:"import_base"` // import path of the generated migrations package
	Exclude    []string `toml:"exclude"`     // extra tables to skip, on top of the bookkeeping ones
}

type SeedConfig struct {
	Dir string `toml:"dir"`
}

type LogConfig struct {
	Level  string `toml:"level" env:"PGWRIGHT_LOG_LEVEL"`
	Format string `toml:"format" env:"PGWRIGHT_LOG_FORMAT"`
}

// AlterConfig is the batch of column changes applied by pgwright alter.
// Adds run before updates.
type AlterConfig struct {
	Add    []AlterColumn `toml:"add"`
	Update []AlterColumn `toml:"update"`
}

// AlterColumn describes one column addition or change. In updates, nil
// Nullable and Default mean "leave alone", and an empty Default string
// drops the existing default.
type AlterColumn struct {
	Table     string  `toml:"table"`
	Name      string  `toml:"name"`
	Type      string  `toml:"type"`
	Length    int     `toml:"length"`
	Precision int     `toml:"precision"`
	Nullable  *bool   `toml:"nullable"`
	Default   *string `toml:"default"`
}

// loadConfig reads a TOML config file, applies environment overrides, and
// returns a Config with defaults applied.
func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Config{
		Database: DatabaseConfig{Schema: "public"},
		Generate: GenerateConfig{Dir: "migrations"},
		Seed:     SeedConfig{Dir: "seeds"},
		Log:      LogConfig{Level: "info", Format: "console"},
	}
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if unknown := md.Undecoded(); len(unknown) > 0 {
		keys := make([]string, len(unknown))
		for i, k := range unknown {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("environment overrides: %w", err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}
	cfg.configDir = filepath.Dir(absPath)

	if cfg.Database.DSN == "" {
		return nil, fmt.Errorf("database.dsn is required (or set PGWRIGHT_DSN)")
	}
	cfg.Database.Schema = strings.TrimSpace(cfg.Database.Schema)
	if cfg.Database.Schema == "" {
		return nil, fmt.Errorf("database.schema must not be blank")
	}
	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("log.level must be one of: debug, info, warn, error")
	}
	switch cfg.Log.Format {
	case "console", "json":
	default:
		return nil, fmt.Errorf("log.format must be one of: console, json")
	}

	cfg.Generate.Dir = cfg.resolvePath(cfg.Generate.Dir)
	cfg.Seed.Dir = cfg.resolvePath(cfg.Seed.Dir)

	return &cfg, nil
}

// resolvePath resolves a path relative to the config file directory.
func (c *Config) resolvePath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.configDir, p)
}
