package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{configPathEnv, apiKeyEnv, watchlistsDirEnv, outputDirEnv, logLevelEnv, telegramTokenEnv, telegramChatIDEnv} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	if cfg.Catalog.Name != "tmdb" {
		t.Fatalf("unexpected catalog name: %s", cfg.Catalog.Name)
	}
	if cfg.Catalog.BaseURL != "https://api.themoviedb.org/3" {
		t.Fatalf("unexpected base url: %s", cfg.Catalog.BaseURL)
	}
	if cfg.Catalog.Language != "en-GB" {
		t.Fatalf("unexpected language: %s", cfg.Catalog.Language)
	}
	if cfg.Catalog.Timeout() != 30*time.Second {
		t.Fatalf("unexpected timeout: %s", cfg.Catalog.Timeout())
	}
	if cfg.Paths.WatchlistsDir != "watchlists" || cfg.Paths.OutputDir != "site" {
		t.Fatalf("unexpected paths: %+v", cfg.Paths)
	}
	if cfg.Scheduler.Interval() != 0 {
		t.Fatalf("expected single-run default, got %s", cfg.Scheduler.Interval())
	}
	if cfg.Logging.Level != "info" {
		t.Fatalf("unexpected log level: %s", cfg.Logging.Level)
	}
}

func TestLoadMergesFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "films.yaml")
	raw := []byte(`
catalog:
  baseUrl: https://tmdb.example.org/3
  apiKey: from-file
  requestTimeoutSeconds: 10
paths:
  outputDir: public
scheduler:
  intervalMinutes: 60
logging:
  level: debug
`)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	clearEnv(t)
	t.Setenv(configPathEnv, path)
	t.Setenv(apiKeyEnv, "from-env")

	cfg := Load()

	if cfg.Catalog.BaseURL != "https://tmdb.example.org/3" {
		t.Fatalf("file base url not applied: %s", cfg.Catalog.BaseURL)
	}
	if cfg.Catalog.APIKey != "from-env" {
		t.Fatalf("env must override file, got %s", cfg.Catalog.APIKey)
	}
	if cfg.Catalog.Timeout() != 10*time.Second {
		t.Fatalf("file timeout not applied: %s", cfg.Catalog.Timeout())
	}
	if cfg.Paths.OutputDir != "public" {
		t.Fatalf("file output dir not applied: %s", cfg.Paths.OutputDir)
	}
	if cfg.Paths.WatchlistsDir != "watchlists" {
		t.Fatalf("unset file field must keep default: %s", cfg.Paths.WatchlistsDir)
	}
	if cfg.Scheduler.Interval() != time.Hour {
		t.Fatalf("file interval not applied: %s", cfg.Scheduler.Interval())
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("file log level not applied: %s", cfg.Logging.Level)
	}
}

func TestLoadToleratesBrokenFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "films.yaml")
	if err := os.WriteFile(path, []byte("catalog: ["), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	clearEnv(t)
	t.Setenv(configPathEnv, path)

	cfg := Load()
	if cfg.Catalog.BaseURL != "https://api.themoviedb.org/3" {
		t.Fatalf("broken file must fall back to defaults, got %s", cfg.Catalog.BaseURL)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected missing api key to fail validation")
	}

	cfg.Catalog.APIKey = "secret"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	broken := cfg
	broken.Paths.WatchlistsDir = ""
	if err := broken.Validate(); err == nil {
		t.Fatalf("expected missing watchlists dir to fail validation")
	}
}

func TestTimeoutClampsNonPositive(t *testing.T) {
	t.Parallel()

	c := CatalogConfig{RequestTimeoutSeconds: -5}
	if c.Timeout() != 30*time.Second {
		t.Fatalf("negative timeout must fall back to default, got %s", c.Timeout())
	}
}
