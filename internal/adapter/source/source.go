package source

import (
	"fmt"
	"log/slog"

	"github.com/mmcdole/xyzreader/internal/adapter"
	"github.com/mmcdole/xyzreader/internal/adapter/source/jsonfeed"
	"github.com/mmcdole/xyzreader/internal/adapter/source/rss"
	"github.com/mmcdole/xyzreader/internal/domain"
)

// NewClient creates an ArticleSource for the configured feed type.
func NewClient(cfg *adapter.SourceConfig, logger *slog.Logger) (domain.ArticleSource, error) {
	if cfg == nil {
		return nil, fmt.Errorf("source config is nil")
	}

	if cfg.URL == "" {
		return nil, fmt.Errorf("source URL is required")
	}

	switch cfg.Type {
	case adapter.SourceTypeJSON, "":
		return jsonfeed.NewClient(cfg.URL, logger), nil

	case adapter.SourceTypeRSS:
		return rss.NewClient(cfg.URL, logger), nil

	default:
		return nil, fmt.Errorf("unknown source type: %s", cfg.Type)
	}
}

// NewClientFromConfig creates an ArticleSource from the application config
func NewClientFromConfig(cfg *adapter.Config, logger *slog.Logger) (domain.ArticleSource, error) {
	return NewClient(&cfg.Source, logger)
}
