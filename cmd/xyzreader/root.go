package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/mmcdole/xyzreader/internal/adapter"
	"github.com/mmcdole/xyzreader/internal/adapter/source"
	"github.com/mmcdole/xyzreader/internal/feed"
	"github.com/mmcdole/xyzreader/internal/imaging"
	"github.com/mmcdole/xyzreader/internal/refresh"
	"github.com/mmcdole/xyzreader/internal/store"
)

// rootOptions holds the persistent flags
type rootOptions struct {
	configFile string
	sourceURL  string
	sourceType string
	logLevel   string
}

// NewRootCmd creates the root command. Without a subcommand it runs the
// TUI when stdout is a terminal and prints the article list otherwise.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "xyzreader",
		Short:         "Terminal reader for the XYZ article feed",
		Long:          "xyzreader shows a feed of articles with colors sampled from their photos.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !isTerminal(cmd.OutOrStdout()) {
				return runList(cmd, opts, &listOptions{})
			}
			return runTUI(cmd, opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "path to config file")
	cmd.PersistentFlags().StringVar(&opts.sourceURL, "source", "", "article feed URL (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.sourceType, "source-type", "", "article feed type: json or rss")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: DEBUG, INFO, WARN, ERROR")

	cmd.AddCommand(
		newRefreshCmd(opts),
		newListCmd(opts),
		newInitCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// loadConfig reads the config file and applies flag overrides
func loadConfig(opts *rootOptions) (*adapter.Config, error) {
	cfg, err := adapter.LoadConfigFrom(viper.New(), opts.configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return applyOverrides(cfg, opts)
}

// applyOverrides copies non-empty flags onto cfg
func applyOverrides(cfg *adapter.Config, opts *rootOptions) (*adapter.Config, error) {
	if opts.sourceURL != "" {
		cfg.Source.URL = opts.sourceURL
	}
	if opts.sourceType != "" {
		cfg.Source.Type = adapter.SourceType(opts.sourceType)
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// app wires the services shared by every command
type app struct {
	cfg           *adapter.Config
	logger        *slog.Logger
	store         *store.ArticleStore
	broadcaster   *refresh.Broadcaster
	feed          *feed.Service
	loader        *imaging.Loader
	resolver      *imaging.ColorResolver // list thumbnails
	photoResolver *imaging.ColorResolver // detail photos
	closers       []io.Closer
}

func newApp(opts *rootOptions) (*app, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg}

	// Fall back to null logger if file logging fails
	logger, closer, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		logger = adapter.NullLogger()
	} else {
		a.closers = append(a.closers, closer)
	}
	slog.SetDefault(logger)
	a.logger = logger

	logger.Info("starting xyzreader", "version", Version, "source", cfg.Source.URL, "type", cfg.Source.Type)

	src, err := source.NewClientFromConfig(cfg, logger)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create article source: %w", err)
	}

	st, err := store.NewArticleStore(cfg.Cache.Dir, cfg.Source.URL)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to open article store: %w", err)
	}
	a.store = st
	a.closers = append(a.closers, st)

	a.broadcaster = refresh.NewBroadcaster(logger)
	a.feed = feed.NewService(src, st, a.broadcaster, logger)
	a.loader = imaging.NewLoader(cfg.Images.Timeout, cfg.Images.CacheSize, logger)
	a.resolver = imaging.NewColorResolver(a.loader, imaging.NewSampler(cfg.Images.MaxColors))
	a.photoResolver = imaging.NewColorResolver(a.loader, imaging.NewSampler(cfg.Images.PhotoMaxColors))
	return a, nil
}

// ensureArticles fills an empty store before the first read
func (a *app) ensureArticles(cmd *cobra.Command) error {
	if !a.feed.NeedsInitialRefresh() {
		return nil
	}
	a.logger.Info("store empty, running initial refresh")
	_, err := a.feed.Refresh(cmd.Context())
	return err
}

// Close releases the store and log file, newest first
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil && a.logger != nil {
			a.logger.Warn("close failed", "error", err)
		}
	}
	a.closers = nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
