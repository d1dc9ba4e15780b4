package adapter

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// SourceType identifies the article feed backend
type SourceType string

const (
	SourceTypeJSON SourceType = "json"
	SourceTypeRSS  SourceType = "rss"
)

// DefaultSourceURL is the article feed used when none is configured.
const DefaultSourceURL = "https://go.udacity.com/xyz-reader-json"

// Config holds all application configuration
type Config struct {
	Source  SourceConfig  `mapstructure:"source"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Images  ImagesConfig  `mapstructure:"images"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// SourceConfig holds article feed configuration
type SourceConfig struct {
	Type SourceType `mapstructure:"type"` // "json" or "rss"
	URL  string     `mapstructure:"url"`
}

// CacheConfig holds local article store configuration
type CacheConfig struct {
	Dir string `mapstructure:"dir"` // empty = memory only
}

// ImagesConfig holds image loading configuration
type ImagesConfig struct {
	Timeout         time.Duration `mapstructure:"timeout"`
	CacheSize       int           `mapstructure:"cache_size"`       // decoded images kept in memory
	PrefetchWorkers int           `mapstructure:"prefetch_workers"` // concurrent fetches for refresh --prefetch
	MaxColors       int           `mapstructure:"max_colors"`       // palette size for list thumbnails
	PhotoMaxColors  int           `mapstructure:"photo_max_colors"` // palette size for detail photos
}

// UIConfig holds UI configuration
type UIConfig struct {
	ShowImages bool `mapstructure:"show_images"` // tint rows and pages from images
	Columns    int  `mapstructure:"columns"`     // rows kept visible per screen (0 = fit)
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			Type: SourceTypeJSON,
			URL:  DefaultSourceURL,
		},
		Cache: CacheConfig{
			Dir: defaultCachePath(),
		},
		Images: ImagesConfig{
			Timeout:         20 * time.Second,
			CacheSize:       64,
			PrefetchWorkers: 4,
			MaxColors:       16,
			PhotoMaxColors:  12,
		},
		UI: UIConfig{
			ShowImages: true,
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "xyzreader", "xyzreader.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "xyzreader", "xyzreader.log")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "xyzreader")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "xyzreader")
	}
}

// defaultCachePath returns the default cache directory path for the current OS
func defaultCachePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "xyzreader", "cache")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "xyzreader", "cache")
	}
}

// LoadConfig loads configuration from the default locations and environment.
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(viper.GetViper(), "")
}

// LoadConfigFrom loads configuration into v. A non-empty file is read
// instead of searching the default locations.
func LoadConfigFrom(v *viper.Viper, file string) (*Config, error) {
	cfg := DefaultConfig()
	setDefaults(v, cfg)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(defaultConfigPath())
		v.AddConfigPath(".")
	}

	// Environment variable overrides
	v.SetEnvPrefix("XYZREADER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("source.type", string(cfg.Source.Type))
	v.SetDefault("source.url", cfg.Source.URL)
	v.SetDefault("cache.dir", cfg.Cache.Dir)
	v.SetDefault("images.timeout", cfg.Images.Timeout)
	v.SetDefault("images.cache_size", cfg.Images.CacheSize)
	v.SetDefault("images.prefetch_workers", cfg.Images.PrefetchWorkers)
	v.SetDefault("images.max_colors", cfg.Images.MaxColors)
	v.SetDefault("images.photo_max_colors", cfg.Images.PhotoMaxColors)
	v.SetDefault("ui.show_images", cfg.UI.ShowImages)
	v.SetDefault("ui.columns", cfg.UI.Columns)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.level", cfg.Logging.Level)
}

// Validate checks values that have no sensible fallback.
func (c *Config) Validate() error {
	switch c.Source.Type {
	case SourceTypeJSON, SourceTypeRSS:
	default:
		return fmt.Errorf("unknown source type: %q", c.Source.Type)
	}
	if c.Source.URL == "" {
		return fmt.Errorf("source URL is required")
	}
	return nil
}

// SaveConfig saves the current configuration to the default config file
func SaveConfig(cfg *Config) error {
	configPath := defaultConfigPath()

	// Ensure config directory exists
	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return SaveConfigTo(viper.GetViper(), cfg, filepath.Join(configPath, "config.yaml"))
}

// SaveConfigTo writes cfg as YAML to file through v.
func SaveConfigTo(v *viper.Viper, cfg *Config, file string) error {
	// Set fields individually to ensure correct key names (snake_case)
	v.Set("source.type", string(cfg.Source.Type))
	v.Set("source.url", cfg.Source.URL)

	v.Set("cache.dir", cfg.Cache.Dir)

	v.Set("images.timeout", cfg.Images.Timeout.String())
	v.Set("images.cache_size", cfg.Images.CacheSize)
	v.Set("images.prefetch_workers", cfg.Images.PrefetchWorkers)
	v.Set("images.max_colors", cfg.Images.MaxColors)
	v.Set("images.photo_max_colors", cfg.Images.PhotoMaxColors)

	v.Set("ui.show_images", cfg.UI.ShowImages)
	v.Set("ui.columns", cfg.UI.Columns)

	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)

	if err := v.WriteConfigAs(file); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ClearCache removes all cached articles
func ClearCache(cfg *Config) error {
	if cfg.Cache.Dir == "" {
		return nil
	}
	if err := os.RemoveAll(cfg.Cache.Dir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}
