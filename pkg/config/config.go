package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"zooo-feed/pkg/objectstore"
)

// Source kinds accepted in FEED_SOURCE.
const (
	SourcePostgres = "postgres"
	SourceS3       = "s3"
	SourceStatic   = "static"
)

// Config holds all application configuration
type Config struct {
	// Window
	WindowTitle  string
	WindowWidth  int
	WindowHeight int
	Fullscreen   bool

	// Feed
	FeedSource      string
	DatabaseURL     string
	ManifestBucket  string
	ManifestKey     string
	StaticFile      string
	RefreshSchedule string
	FetchMaxElapsed time.Duration

	// AWS
	AWS objectstore.Credentials

	// Prefetch
	PrefetchDelay time.Duration
	PrefetchHold  time.Duration
	PrefetchBytes int64
	PrefetchDir   string

	// Paths
	StoragePath string

	// Logging
	LogLevel string
}

// Load reads .env (when present) and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromViper(viper.New())
}

// FromViper builds the configuration from v with defaults applied. The feed
// source is checked separately by ValidateSource, so commands that never
// fetch can run without source settings.
func FromViper(v *viper.Viper) (*Config, error) {
	v.AutomaticEnv()

	v.SetDefault("WINDOW_TITLE", "Zooo Feed")
	v.SetDefault("WINDOW_WIDTH", 1280)
	v.SetDefault("WINDOW_HEIGHT", 800)
	v.SetDefault("FULLSCREEN", false)
	v.SetDefault("FEED_SOURCE", SourcePostgres)
	v.SetDefault("REFRESH_SCHEDULE", "@every 10m")
	v.SetDefault("FETCH_MAX_ELAPSED", "30s")
	v.SetDefault("PREFETCH_DELAY", "250ms")
	v.SetDefault("PREFETCH_HOLD", "5s")
	v.SetDefault("PREFETCH_BYTES", 2<<20)
	v.SetDefault("LOG_LEVEL", "info")

	storage := v.GetString("STORAGE_PATH")
	if storage == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get config directory: %w", err)
		}
		storage = filepath.Join(dir, "zooo-feed", "local.db")
	}

	cfg := &Config{
		WindowTitle:  v.GetString("WINDOW_TITLE"),
		WindowWidth:  v.GetInt("WINDOW_WIDTH"),
		WindowHeight: v.GetInt("WINDOW_HEIGHT"),
		Fullscreen:   v.GetBool("FULLSCREEN"),

		FeedSource:      strings.ToLower(v.GetString("FEED_SOURCE")),
		DatabaseURL:     v.GetString("DATABASE_URL"),
		ManifestBucket:  v.GetString("FEED_MANIFEST_BUCKET"),
		ManifestKey:     v.GetString("FEED_MANIFEST_KEY"),
		StaticFile:      v.GetString("FEED_STATIC_FILE"),
		RefreshSchedule: v.GetString("REFRESH_SCHEDULE"),
		FetchMaxElapsed: v.GetDuration("FETCH_MAX_ELAPSED"),

		AWS: objectstore.Credentials{
			Region:    v.GetString("AWS_DEFAULT_REGION"),
			AccessKey: v.GetString("AWS_ACCESS_KEY_ID"),
			SecretKey: v.GetString("AWS_SECRET_ACCESS_KEY"),
		},

		PrefetchDelay: v.GetDuration("PREFETCH_DELAY"),
		PrefetchHold:  v.GetDuration("PREFETCH_HOLD"),
		PrefetchBytes: v.GetInt64("PREFETCH_BYTES"),
		PrefetchDir:   v.GetString("PREFETCH_DIR"),

		StoragePath: storage,
		LogLevel:    v.GetString("LOG_LEVEL"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.WindowWidth < 800 || c.WindowHeight < 600 {
		return fmt.Errorf("window must be at least 800x600, got %dx%d", c.WindowWidth, c.WindowHeight)
	}
	return nil
}

// ValidateSource checks the settings the selected FEED_SOURCE needs.
func (c *Config) ValidateSource() error {
	switch c.FeedSource {
	case SourcePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when FEED_SOURCE=%s", SourcePostgres)
		}
	case SourceS3:
		if c.ManifestBucket == "" {
			return fmt.Errorf("FEED_MANIFEST_BUCKET is required when FEED_SOURCE=%s", SourceS3)
		}
	case SourceStatic:
		if c.StaticFile == "" {
			return fmt.Errorf("FEED_STATIC_FILE is required when FEED_SOURCE=%s", SourceStatic)
		}
	default:
		return fmt.Errorf("unknown FEED_SOURCE %q", c.FeedSource)
	}
	return nil
}
