package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"

	"github.com/quay/addonrepo"
)

// EnvPrefix is the prefix of environment variables overriding the config
// file. Nested keys are separated by underscores: REPOSYNC_SYNC_INTERVAL sets
// "sync.interval".
const envPrefix = "REPOSYNC_"

// DefaultConfigFile is read if present and no file is named on the command
// line.
const defaultConfigFile = "reposync.yaml"

// Config is the layered configuration of the command.
type Config struct {
	Log struct {
		Level string `koanf:"level"`
	} `koanf:"log"`
	Database struct {
		// Driver is "sqlite" or "postgres".
		Driver  string `koanf:"driver"`
		DSN     string `koanf:"dsn"`
		Migrate bool   `koanf:"migrate"`
	} `koanf:"database"`
	// Repositories is the path of the repository definitions file.
	Repositories string `koanf:"repositories"`
	Sync         struct {
		Interval time.Duration `koanf:"interval"`
		Batch    int           `koanf:"batch"`
		// Rate is the most remote requests per second. Zero is unlimited.
		Rate  float64 `koanf:"rate"`
		Burst int     `koanf:"burst"`
		// Host is the host application API version used to pick
		// repository sources.
		Host string `koanf:"host"`
		// Provides lists the modules the host application ships, as
		// "id@version". Dependencies on them are always met.
		Provides []string `koanf:"provides"`
	} `koanf:"sync"`
	Script struct {
		Dir     string        `koanf:"dir"`
		Timeout time.Duration `koanf:"timeout"`
	} `koanf:"script"`
	Prompt struct {
		// Assume answers every question without asking when set to "yes"
		// or "no".
		Assume   string `koanf:"assume"`
		Language string `koanf:"language"`
	} `koanf:"prompt"`
}

// DefaultProvides are the modules shipped with the default host version.
var defaultProvides = []string{
	"xbmc.addon@21.0.0",
	"xbmc.core@0.1.0",
	"xbmc.gui@5.17.0",
	"xbmc.json@13.0.0",
	"xbmc.metadata@2.1.0",
	"xbmc.python@3.0.1",
	"kodi.resource@1.0.0",
}

func defaults() map[string]any {
	return map[string]any{
		"log.level":        "info",
		"database.driver":  "sqlite",
		"database.dsn":     "addons.db",
		"database.migrate": true,
		"repositories":     "repositories.yaml",
		"sync.interval":    "24h",
		"sync.batch":       4,
		"sync.rate":        10.0,
		"sync.burst":       5,
		"sync.host":        "21.0.0",
		"sync.provides":    defaultProvides,
		"script.dir":       "addons",
		"script.timeout":   "2m",
		"prompt.assume":    "",
		"prompt.language":  "en",
	}
}

// LoadConfig layers the defaults, the config file at "path", and the
// environment, in that order.
//
// An empty "path" reads the default config file if it exists.
func loadConfig(path string) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}
	switch _, err := os.Stat(path); {
	case err == nil:
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}
	switch c.Prompt.Assume {
	case "", "yes", "no":
	default:
		return fmt.Errorf(`prompt.assume must be "yes", "no", or empty: %q`, c.Prompt.Assume)
	}
	if c.Sync.Batch < 1 {
		return fmt.Errorf("sync.batch must be positive: %d", c.Sync.Batch)
	}
	if c.Sync.Interval <= 0 {
		return fmt.Errorf("sync.interval must be positive: %v", c.Sync.Interval)
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("bad log.level: %w", err)
	}
	if _, err := c.provided(); err != nil {
		return err
	}
	return nil
}

// Provided parses Sync.Provides.
func (c *Config) provided() (map[string]addonrepo.Version, error) {
	m := make(map[string]addonrepo.Version, len(c.Sync.Provides))
	for _, p := range c.Sync.Provides {
		id, v, ok := strings.Cut(p, "@")
		if !ok || id == "" {
			return nil, fmt.Errorf(`sync.provides entries must be "id@version": %q`, p)
		}
		ver, err := addonrepo.ParseVersion(v)
		if err != nil {
			return nil, fmt.Errorf("sync.provides: %q: %w", p, err)
		}
		m[id] = ver
	}
	return m, nil
}
