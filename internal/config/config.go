package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Addr    string `env:"SHELF_ADDR" envDefault:":3000"`
	TLSCert string `env:"SHELF_TLS_CERT"`
	TLSKey  string `env:"SHELF_TLS_KEY"`
	AppEnv  string `env:"SHELF_ENV" envDefault:"development"`

	LogLevel  string `env:"SHELF_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"SHELF_LOG_FORMAT" envDefault:"text"`

	BooksDir          string `env:"SHELF_BOOKS_DIR" envDefault:"books"`
	MetadataFile      string `env:"SHELF_METADATA_FILE"`
	AttributionPrefix string `env:"SHELF_ATTRIBUTION_PREFIX" envDefault:"StoryWeaverAttribution_"`
	ThumbnailName     string `env:"SHELF_THUMBNAIL_NAME" envDefault:"thumbnail.png"`

	ConvertBin    string        `env:"SHELF_CONVERT_BIN" envDefault:"convert"`
	RasterTimeout time.Duration `env:"SHELF_RASTER_TIMEOUT" envDefault:"60s"`
	RetryBase     time.Duration `env:"SHELF_RETRY_BASE" envDefault:"1m"`
	RetryMax      time.Duration `env:"SHELF_RETRY_MAX" envDefault:"1h"`
	SyncInterval  time.Duration `env:"SHELF_SYNC_INTERVAL" envDefault:"0s"`

	RedisURL string `env:"SHELF_REDIS_URL"`

	RateLimitRPS   float64  `env:"SHELF_RATE_LIMIT_RPS" envDefault:"5"`
	RateLimitBurst int      `env:"SHELF_RATE_LIMIT_BURST" envDefault:"20"`
	CORSOrigins    []string `env:"SHELF_CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173,http://127.0.0.1:5173"`

	MirrorBucket    string `env:"SHELF_MIRROR_BUCKET"`
	MirrorEndpoint  string `env:"SHELF_MIRROR_ENDPOINT"`
	MirrorRegion    string `env:"SHELF_MIRROR_REGION" envDefault:"auto"`
	MirrorPathStyle bool   `env:"SHELF_MIRROR_PATH_STYLE" envDefault:"false"`
	MirrorPrefix    string `env:"SHELF_MIRROR_PREFIX"`
	AWSAccessKeyID  string `env:"AWS_ACCESS_KEY_ID"`
	AWSSecretKey    string `env:"AWS_SECRET_ACCESS_KEY"`
}

// MetadataPath is the metadata document location, defaulting to
// <BooksDir>/metadata.yaml.
func (c *Config) MetadataPath() string {
	if c.MetadataFile != "" {
		return c.MetadataFile
	}
	return filepath.Join(c.BooksDir, "metadata.yaml")
}

func (c *Config) MirrorEnabled() bool { return c.MirrorBucket != "" }

func (c *Config) TLSEnabled() bool { return c.TLSCert != "" && c.TLSKey != "" }

func (c *Config) Validate() error {
	if c.BooksDir == "" {
		return fmt.Errorf("SHELF_BOOKS_DIR must not be empty")
	}
	if c.ThumbnailName == "" || filepath.Base(c.ThumbnailName) != c.ThumbnailName {
		return fmt.Errorf("SHELF_THUMBNAIL_NAME must be a plain file name")
	}
	if c.AttributionPrefix == "" {
		return fmt.Errorf("SHELF_ATTRIBUTION_PREFIX must not be empty")
	}
	if (c.TLSCert == "") != (c.TLSKey == "") {
		return fmt.Errorf("SHELF_TLS_CERT and SHELF_TLS_KEY must be set together")
	}
	if c.RasterTimeout <= 0 {
		return fmt.Errorf("SHELF_RASTER_TIMEOUT must be positive")
	}
	if c.RetryBase < 0 || c.RetryMax < c.RetryBase {
		return fmt.Errorf("SHELF_RETRY_BASE must be >= 0 and <= SHELF_RETRY_MAX")
	}
	if c.SyncInterval < 0 {
		return fmt.Errorf("SHELF_SYNC_INTERVAL cannot be negative")
	}
	if c.RateLimitRPS < 0 || c.RateLimitBurst < 0 {
		return fmt.Errorf("SHELF_RATE_LIMIT_* cannot be negative")
	}
	return nil
}

// Load reads an optional .env file, then the environment.
func Load(envFiles ...string) (*Config, error) {
	_ = godotenv.Load(envFiles...)

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}
