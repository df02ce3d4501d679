// Package config loads MoodFlicks settings.
//
// Values are layered with koanf: struct defaults first, then an optional
// YAML file, then MOODFLICKS_* environment variables. Later layers win.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/roach88/moodflicks/internal/catalog"
	"github.com/roach88/moodflicks/internal/logging"
	"github.com/roach88/moodflicks/internal/store"
)

const (
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "MOODFLICKS_"

	// PathEnvVar names a config file when --config is not given.
	PathEnvVar = EnvPrefix + "CONFIG"

	// DefaultFile is looked up in the working directory last.
	DefaultFile = "moodflicks.yaml"
)

// Config is the full application configuration.
type Config struct {
	Profile ProfileConfig `koanf:"profile"`
	Catalog CatalogConfig `koanf:"catalog"`
	Share   ShareConfig   `koanf:"share"`
	Log     LogConfig     `koanf:"log"`
}

// ProfileConfig selects where the viewer's progress is kept.
type ProfileConfig struct {
	Medium string `koanf:"medium"`
	Path   string `koanf:"path"`
}

// CatalogConfig configures the TMDB client.
type CatalogConfig struct {
	BaseURL           string        `koanf:"base_url"`
	ImageBaseURL      string        `koanf:"image_base_url"`
	APIKey            string        `koanf:"api_key"`
	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	Burst             int           `koanf:"burst"`
}

// ShareConfig configures share links.
type ShareConfig struct {
	SiteURL string `koanf:"site_url"`
}

// LogConfig configures the global logger.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Profile: ProfileConfig{
			Medium: string(store.KindSQLite),
			Path:   "moodflicks.db",
		},
		Catalog: CatalogConfig{
			BaseURL:           catalog.DefaultBaseURL,
			ImageBaseURL:      catalog.DefaultImageBaseURL,
			Timeout:           catalog.DefaultTimeout,
			RequestsPerSecond: catalog.DefaultRPS,
			Burst:             catalog.DefaultBurst,
		},
		Share: ShareConfig{
			SiteURL: "https://moodflicks.app",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load builds the configuration. explicit is the --config flag value and
// may be empty.
func Load(explicit string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	path, err := findFile(explicit)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// findFile resolves the config file: the explicit path, then PathEnvVar,
// then DefaultFile. Only an explicit path that does not exist is an error.
func findFile(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file %s: %w", explicit, err)
		}
		return explicit, nil
	}
	if p := os.Getenv(PathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	if _, err := os.Stat(DefaultFile); err == nil {
		return DefaultFile, nil
	}
	return "", nil
}

// envKey maps MOODFLICKS_CATALOG_API_KEY to catalog.api_key: the first
// segment after the prefix names the section.
func envKey(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	section, rest, ok := strings.Cut(key, "_")
	if !ok {
		return key
	}
	return section + "." + rest
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	var errs []error

	kind := store.Kind(c.Profile.Medium)
	switch kind {
	case store.KindSQLite, store.KindBadger:
		if strings.TrimSpace(c.Profile.Path) == "" {
			errs = append(errs, fmt.Errorf("profile.path is required for the %s medium", kind))
		}
	case store.KindMemory:
	default:
		errs = append(errs, fmt.Errorf("profile.medium %q: must be one of %v", c.Profile.Medium, store.Kinds))
	}

	if c.Catalog.BaseURL == "" {
		errs = append(errs, errors.New("catalog.base_url is required"))
	}
	if c.Catalog.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("catalog.timeout must be positive, got %s", c.Catalog.Timeout))
	}
	if c.Catalog.RequestsPerSecond <= 0 {
		errs = append(errs, fmt.Errorf("catalog.requests_per_second must be positive, got %g", c.Catalog.RequestsPerSecond))
	}
	if c.Catalog.Burst <= 0 {
		errs = append(errs, fmt.Errorf("catalog.burst must be positive, got %d", c.Catalog.Burst))
	}

	if !logging.ValidLevel(c.Log.Level) {
		errs = append(errs, fmt.Errorf("log.level %q is not a known level", c.Log.Level))
	}
	if c.Log.Format != "json" && c.Log.Format != "console" {
		errs = append(errs, fmt.Errorf("log.format %q: must be json or console", c.Log.Format))
	}

	return errors.Join(errs...)
}

// StoreKind returns the configured medium kind.
func (c *Config) StoreKind() store.Kind {
	return store.Kind(c.Profile.Medium)
}

// CatalogClient returns the catalogue client settings.
func (c *Config) CatalogClient() catalog.Config {
	return catalog.Config{
		BaseURL:           c.Catalog.BaseURL,
		APIKey:            c.Catalog.APIKey,
		Timeout:           c.Catalog.Timeout,
		RequestsPerSecond: c.Catalog.RequestsPerSecond,
		Burst:             c.Catalog.Burst,
	}
}

// Logging returns the logger settings.
func (c *Config) Logging() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = c.Log.Level
	cfg.Format = c.Log.Format
	return cfg
}
