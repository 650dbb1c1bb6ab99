// Package config provides configuration management.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
	"golang.org/x/text/language"

	doorerrors "doorcost/internal/errors"
	"doorcost/internal/logging"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "DOORCOST_"

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Rules selects the rules table
	Rules RulesConfig `json:"rules"`

	// Output contains rendering settings
	Output OutputConfig `json:"output"`

	// Server contains HTTP server settings
	Server ServerConfig `json:"server"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// RulesConfig points at the rules table source
type RulesConfig struct {
	// File is an HCL or YAML rules file. Empty means the built-in table.
	File string `json:"file" env:"RULES_FILE"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// Format is the default output format (cli, json, markdown)
	Format string `json:"format" env:"FORMAT"`

	// Language is a BCP-47 tag selecting breakdown labels and number formatting
	Language string `json:"language" env:"LANG"`

	// ShowDetails prints every breakdown line, not only door totals
	ShowDetails bool `json:"show_details" env:"SHOW_DETAILS"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Addr            string        `json:"addr" env:"ADDR"`
	ReadTimeout     time.Duration `json:"read_timeout" env:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `json:"write_timeout" env:"WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Output: OutputConfig{
			Format:      "cli",
			Language:    "en",
			ShowDetails: true,
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: logging.DefaultConfig(),
	}
}

// DefaultPath is $HOME/.doorcost.json
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".doorcost.json"
	}
	return filepath.Join(home, ".doorcost.json")
}

// Load reads path over the defaults, then applies DOORCOST_* environment overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, doorerrors.Config("parse config file "+path, err)
			}
		case !os.IsNotExist(err):
			return nil, doorerrors.Config("read config file "+path, err)
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, doorerrors.Config("parse environment", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDotEnv loads a .env file into the process environment if it exists.
// Variables already set win.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return doorerrors.Config("load "+path, err)
	}
	return nil
}

// Validate checks the settings that would otherwise fail late
func (c *Config) Validate() error {
	switch c.Output.Format {
	case "cli", "json", "markdown":
	default:
		return doorerrors.Newf(doorerrors.TypeConfig, "unsupported output format %q", c.Output.Format)
	}
	if _, err := language.Parse(c.Output.Language); err != nil {
		return doorerrors.Config(fmt.Sprintf("invalid language %q", c.Output.Language), err)
	}
	if c.Server.Addr == "" {
		return doorerrors.New(doorerrors.TypeConfig, "server address is required")
	}
	return nil
}

// Tag returns the configured language tag, English when unparsable
func (c *Config) Tag() language.Tag {
	tag, err := language.Parse(c.Output.Language)
	if err != nil {
		return language.English
	}
	return tag
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
