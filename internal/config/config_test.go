package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.Addr)
	assert.Equal(t, "books", cfg.BooksDir)
	assert.Equal(t, filepath.Join("books", "metadata.yaml"), cfg.MetadataPath())
	assert.Equal(t, "StoryWeaverAttribution_", cfg.AttributionPrefix)
	assert.Equal(t, "thumbnail.png", cfg.ThumbnailName)
	assert.Equal(t, 60*time.Second, cfg.RasterTimeout)
	assert.Equal(t, []string{"http://localhost:5173", "http://127.0.0.1:5173"}, cfg.CORSOrigins)
	assert.False(t, cfg.MirrorEnabled())
	assert.False(t, cfg.TLSEnabled())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SHELF_BOOKS_DIR", "/srv/books")
	t.Setenv("SHELF_METADATA_FILE", "/var/cache/shelf.yaml")
	t.Setenv("SHELF_RASTER_TIMEOUT", "15s")
	t.Setenv("SHELF_CORS_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("SHELF_MIRROR_BUCKET", "covers")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)

	assert.Equal(t, "/srv/books", cfg.BooksDir)
	assert.Equal(t, "/var/cache/shelf.yaml", cfg.MetadataPath())
	assert.Equal(t, 15*time.Second, cfg.RasterTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.True(t, cfg.MirrorEnabled())
}

func TestLoadDotEnv(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("SHELF_ADDR=:8080\n"), 0o644))
	// godotenv never overrides the environment; Setenv restores it afterwards.
	t.Setenv("SHELF_ADDR", "")
	os.Unsetenv("SHELF_ADDR")

	cfg, err := Load(envFile)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			BooksDir:          "books",
			AttributionPrefix: "StoryWeaverAttribution_",
			ThumbnailName:     "thumbnail.png",
			RasterTimeout:     time.Second,
			RetryBase:         time.Minute,
			RetryMax:          time.Hour,
		}
	}
	require.NoError(t, base().Validate())

	tests := map[string]func(c *Config){
		"empty books dir":   func(c *Config) { c.BooksDir = "" },
		"nested thumbnail":  func(c *Config) { c.ThumbnailName = "x/thumbnail.png" },
		"half TLS":          func(c *Config) { c.TLSCert = "cert.pem" },
		"zero timeout":      func(c *Config) { c.RasterTimeout = 0 },
		"retry max < base":  func(c *Config) { c.RetryMax = time.Second },
		"negative interval": func(c *Config) { c.SyncInterval = -time.Second },
		"negative rate":     func(c *Config) { c.RateLimitRPS = -1 },
		"empty attr prefix": func(c *Config) { c.AttributionPrefix = "" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := base()
			mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}
