package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/moodflicks/internal/store"
)

// isolate runs the test in an empty directory with no config env set.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv(PathEnvVar, "")
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, store.KindSQLite, cfg.StoreKind())
	assert.Equal(t, "moodflicks.db", cfg.Profile.Path)
	assert.Equal(t, "https://api.themoviedb.org/3", cfg.Catalog.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Catalog.Timeout)
	assert.InDelta(t, 4.0, cfg.Catalog.RequestsPerSecond, 0.001)
	assert.Equal(t, 4, cfg.Catalog.Burst)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoad_ExplicitFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	writeFile(t, path, `
profile:
  medium: badger
  path: /tmp/progress
catalog:
  api_key: secret
  timeout: 3s
log:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, store.KindBadger, cfg.StoreKind())
	assert.Equal(t, "/tmp/progress", cfg.Profile.Path)
	assert.Equal(t, "secret", cfg.Catalog.APIKey)
	assert.Equal(t, 3*time.Second, cfg.Catalog.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 4, cfg.Catalog.Burst, "unset keys keep defaults")
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	isolate(t)
	_, err := Load("does-not-exist.yaml")
	require.Error(t, err)
}

func TestLoad_Discovery(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, DefaultFile), "profile:\n  medium: memory\n")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, store.KindMemory, cfg.StoreKind())

	other := filepath.Join(dir, "other.yaml")
	writeFile(t, other, "log:\n  level: warn\n")
	t.Setenv(PathEnvVar, other)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level, "the env path wins over the working directory file")
	assert.Equal(t, store.KindSQLite, cfg.StoreKind())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "c.yaml")
	writeFile(t, path, "catalog:\n  api_key: from-file\n  burst: 2\n")

	t.Setenv("MOODFLICKS_CATALOG_API_KEY", "from-env")
	t.Setenv("MOODFLICKS_CATALOG_REQUESTS_PER_SECOND", "2.5")
	t.Setenv("MOODFLICKS_PROFILE_MEDIUM", "memory")
	t.Setenv("MOODFLICKS_SHARE_SITE_URL", "https://flicks.example")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Catalog.APIKey)
	assert.InDelta(t, 2.5, cfg.Catalog.RequestsPerSecond, 0.001)
	assert.Equal(t, 2, cfg.Catalog.Burst)
	assert.Equal(t, store.KindMemory, cfg.StoreKind())
	assert.Equal(t, "https://flicks.example", cfg.Share.SiteURL)
}

func TestLoad_InvalidFromEnv(t *testing.T) {
	isolate(t)
	t.Setenv("MOODFLICKS_PROFILE_MEDIUM", "floppy")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "profile.medium")
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"MOODFLICKS_PROFILE_MEDIUM":              "profile.medium",
		"MOODFLICKS_CATALOG_API_KEY":             "catalog.api_key",
		"MOODFLICKS_CATALOG_REQUESTS_PER_SECOND": "catalog.requests_per_second",
		"MOODFLICKS_CONFIG":                      "config",
	}
	for in, want := range tests {
		assert.Equal(t, want, envKey(in), in)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"memory without path", func(c *Config) { c.Profile.Medium = "memory"; c.Profile.Path = "" }, ""},
		{"unknown medium", func(c *Config) { c.Profile.Medium = "tape" }, "profile.medium"},
		{"sqlite without path", func(c *Config) { c.Profile.Path = " " }, "profile.path"},
		{"no base url", func(c *Config) { c.Catalog.BaseURL = "" }, "catalog.base_url"},
		{"zero timeout", func(c *Config) { c.Catalog.Timeout = 0 }, "catalog.timeout"},
		{"negative rate", func(c *Config) { c.Catalog.RequestsPerSecond = -1 }, "catalog.requests_per_second"},
		{"zero burst", func(c *Config) { c.Catalog.Burst = 0 }, "catalog.burst"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConversions(t *testing.T) {
	cfg := Default()
	cfg.Catalog.APIKey = "k"

	cc := cfg.CatalogClient()
	assert.Equal(t, "k", cc.APIKey)
	assert.Equal(t, cfg.Catalog.Timeout, cc.Timeout)

	lc := cfg.Logging()
	assert.Equal(t, "info", lc.Level)
	assert.Equal(t, "console", lc.Format)
}
