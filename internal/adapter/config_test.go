package adapter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadConfigFrom_File(t *testing.T) {
	path := writeConfig(t, `
source:
  type: rss
  url: https://blog.example/feed.xml
cache:
  dir: ""
images:
  timeout: 5s
  cache_size: 8
  photo_max_colors: 10
ui:
  show_images: false
logging:
  level: debug
`)

	cfg, err := LoadConfigFrom(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, SourceTypeRSS, cfg.Source.Type)
	assert.Equal(t, "https://blog.example/feed.xml", cfg.Source.URL)
	assert.Equal(t, "", cfg.Cache.Dir)
	assert.Equal(t, 5*time.Second, cfg.Images.Timeout)
	assert.Equal(t, 8, cfg.Images.CacheSize)
	assert.Equal(t, 4, cfg.Images.PrefetchWorkers, "unset keys keep defaults")
	assert.Equal(t, 16, cfg.Images.MaxColors)
	assert.Equal(t, 10, cfg.Images.PhotoMaxColors)
	assert.False(t, cfg.UI.ShowImages)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadConfigFrom_EnvOverride(t *testing.T) {
	path := writeConfig(t, "source:\n  type: json\n")
	t.Setenv("XYZREADER_SOURCE_URL", "https://env.example/data.json")

	cfg, err := LoadConfigFrom(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, "https://env.example/data.json", cfg.Source.URL)
}

func TestLoadConfigFrom_InvalidSourceType(t *testing.T) {
	path := writeConfig(t, "source:\n  type: carrier-pigeon\n")
	_, err := LoadConfigFrom(viper.New(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown source type")
}

func TestLoadConfigFrom_MissingExplicitFile(t *testing.T) {
	_, err := LoadConfigFrom(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, SourceTypeJSON, cfg.Source.Type)
	assert.Equal(t, DefaultSourceURL, cfg.Source.URL)
	assert.True(t, cfg.UI.ShowImages)
	assert.Equal(t, 16, cfg.Images.MaxColors)
	assert.Equal(t, 12, cfg.Images.PhotoMaxColors)
}

func TestSaveConfigTo_RoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Source.Type = SourceTypeRSS
	cfg.Source.URL = "https://round.example/rss"
	cfg.Images.Timeout = 3 * time.Second

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, SaveConfigTo(viper.New(), cfg, path))

	loaded, err := LoadConfigFrom(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Source, loaded.Source)
	assert.Equal(t, 3*time.Second, loaded.Images.Timeout)
}

func TestClearCache(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	require.NoError(t, os.MkdirAll(dir, 0755))

	cfg := DefaultConfig()
	cfg.Cache.Dir = dir
	require.NoError(t, ClearCache(cfg))
	_, err := os.Stat(dir)
	assert.True(t, os.IsNotExist(err))

	cfg.Cache.Dir = ""
	assert.NoError(t, ClearCache(cfg))
}
