package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultConfigPath     = "config.yaml"
	defaultRequestTimeout = 30 * time.Second

	configPathEnv     = "FILMS_CONFIG"
	apiKeyEnv         = "TMDB_API_KEY"
	watchlistsDirEnv  = "FILMS_WATCHLISTS_DIR"
	outputDirEnv      = "FILMS_OUTPUT_DIR"
	logLevelEnv       = "FILMS_LOG_LEVEL"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"
)

// Config holds high-level settings required across the application.
type Config struct {
	Catalog       CatalogConfig      `yaml:"catalog"`
	Paths         PathsConfig        `yaml:"paths"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Notifications NotificationConfig `yaml:"notifications"`
	Logging       LoggingConfig      `yaml:"logging"`
}

// CatalogConfig describes the movie metadata API endpoint and credentials.
type CatalogConfig struct {
	Name                  string `yaml:"name"`
	BaseURL               string `yaml:"baseUrl"`
	ImageBaseURL          string `yaml:"imageBaseUrl"`
	APIKey                string `yaml:"apiKey"`
	Language              string `yaml:"language"`
	RequestTimeoutSeconds int    `yaml:"requestTimeoutSeconds"`
}

// Timeout resolves the per-request deadline for catalog calls.
func (c CatalogConfig) Timeout() time.Duration {
	if c.RequestTimeoutSeconds <= 0 {
		return defaultRequestTimeout
	}
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// PathsConfig locates the watchlist inputs and the site output tree.
type PathsConfig struct {
	WatchlistsDir string `yaml:"watchlistsDir"`
	OutputDir     string `yaml:"outputDir"`
}

// SchedulerConfig defines whether the tracker re-runs on a fixed period.
type SchedulerConfig struct {
	IntervalMinutes int `yaml:"intervalMinutes"`
}

// Interval resolves the refresh period; zero means a single run.
func (s SchedulerConfig) Interval() time.Duration {
	if s.IntervalMinutes <= 0 {
		return 0
	}
	return time.Duration(s.IntervalMinutes) * time.Minute
}

// NotificationConfig encapsulates outbound channels (Telegram, etc.).
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// LoggingConfig controls handler level and optional rotating file output.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"maxSizeMb"`
	MaxBackups int    `yaml:"maxBackups"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	path := os.Getenv(configPathEnv)
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath
	}

	if raw, err := os.ReadFile(path); err != nil {
		if explicit || !os.IsNotExist(err) {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		}
	} else {
		var fileCfg Config
		if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
			log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
		} else {
			cfg = mergeConfig(cfg, fileCfg)
		}
	}

	cfg.applyEnvOverrides()

	return cfg
}

// Validate reports configuration states that must abort the run.
func (c Config) Validate() error {
	if c.Catalog.APIKey == "" {
		return fmt.Errorf("catalog api key is required (set %s)", apiKeyEnv)
	}
	if c.Catalog.BaseURL == "" {
		return fmt.Errorf("catalog base url is required")
	}
	if c.Paths.WatchlistsDir == "" {
		return fmt.Errorf("watchlists directory is required")
	}
	if c.Paths.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(apiKeyEnv); v != "" {
		c.Catalog.APIKey = v
	}

	if v := os.Getenv(watchlistsDirEnv); v != "" {
		c.Paths.WatchlistsDir = v
	}

	if v := os.Getenv(outputDirEnv); v != "" {
		c.Paths.OutputDir = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Catalog.Name != "" {
		base.Catalog.Name = override.Catalog.Name
	}
	if override.Catalog.BaseURL != "" {
		base.Catalog.BaseURL = override.Catalog.BaseURL
	}
	if override.Catalog.ImageBaseURL != "" {
		base.Catalog.ImageBaseURL = override.Catalog.ImageBaseURL
	}
	if override.Catalog.APIKey != "" {
		base.Catalog.APIKey = override.Catalog.APIKey
	}
	if override.Catalog.Language != "" {
		base.Catalog.Language = override.Catalog.Language
	}
	if override.Catalog.RequestTimeoutSeconds > 0 {
		base.Catalog.RequestTimeoutSeconds = override.Catalog.RequestTimeoutSeconds
	}

	if override.Paths.WatchlistsDir != "" {
		base.Paths.WatchlistsDir = override.Paths.WatchlistsDir
	}
	if override.Paths.OutputDir != "" {
		base.Paths.OutputDir = override.Paths.OutputDir
	}

	if override.Scheduler.IntervalMinutes > 0 {
		base.Scheduler.IntervalMinutes = override.Scheduler.IntervalMinutes
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.File != "" {
		base.Logging.File = override.Logging.File
	}
	if override.Logging.MaxSizeMB > 0 {
		base.Logging.MaxSizeMB = override.Logging.MaxSizeMB
	}
	if override.Logging.MaxBackups > 0 {
		base.Logging.MaxBackups = override.Logging.MaxBackups
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Catalog: CatalogConfig{
			Name:                  "tmdb",
			BaseURL:               "https://api.themoviedb.org/3",
			ImageBaseURL:          "https://image.tmdb.org/t/p/w342",
			APIKey:                "",
			Language:              "en-GB",
			RequestTimeoutSeconds: 30,
		},
		Paths: PathsConfig{
			WatchlistsDir: "watchlists",
			OutputDir:     "site",
		},
		Scheduler: SchedulerConfig{IntervalMinutes: 0},
		Notifications: NotificationConfig{
			Telegram: TelegramConfig{BotToken: "", ChatID: ""},
		},
		Logging: LoggingConfig{Level: "info", MaxSizeMB: 10, MaxBackups: 3},
	}
}
