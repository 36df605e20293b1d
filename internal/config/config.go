// Package config loads formviz configuration with koanf, layering defaults,
// an optional YAML file, FORMVIZ_* environment variables, and CLI flags.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config is the full formviz configuration.
type Config struct {
	Server ServerConfig `koanf:"server"`
	Store  StoreConfig  `koanf:"store"`
	Lang   LangConfig   `koanf:"lang"`
	Log    LogConfig    `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port          int    `koanf:"port"`
	SessionSecret string `koanf:"session_secret"`
}

// StoreConfig holds database target settings.
type StoreConfig struct {
	Driver   string `koanf:"driver"` // sqlite or postgres
	Database string `koanf:"database"`
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	SSLMode  string `koanf:"sslmode"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `koanf:"level"` // debug, info, warn, error
}

// LangConfig holds string-table settings.
type LangConfig struct {
	Dir           string `koanf:"dir"`
	DefaultLocale string `koanf:"default_locale"`
	Watch         bool   `koanf:"watch"`
}

// defaults are the base configuration layer.
var defaults = map[string]any{
	"server.port":         8750,
	"store.driver":        "sqlite",
	"store.database":      ".formviz/formviz.db",
	"lang.dir":            "lang",
	"lang.default_locale": "en",
	"logging.level":       "info",
}

// findConfigFile finds the config file to use.
// Priority: explicit path > formviz.yaml > formviz.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat("formviz.yaml"); err == nil {
		return "formviz.yaml"
	}
	if _, err := os.Stat("formviz.yml"); err == nil {
		return "formviz.yml"
	}
	return ""
}

// Load builds the configuration. path may be empty to search the working
// directory; flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configFile := findConfigFile(path); configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", configFile, err)
		}
	}

	// FORMVIZ_STORE_DATABASE=... maps to store.database.
	if err := k.Load(env.Provider("FORMVIZ_", ".", func(s string) string {
		return strings.Replace(
			strings.ToLower(strings.TrimPrefix(s, "FORMVIZ_")), "_", ".", 1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unknown store driver: %s", c.Store.Driver)
	}
	if c.Store.Driver == "postgres" && c.Store.Database == "" {
		return fmt.Errorf("store.database is required for postgres")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	return nil
}
