package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmcdole/xyzreader/internal/adapter"
	"github.com/mmcdole/xyzreader/internal/domain"
)

type refreshOptions struct {
	prefetch   bool
	clearCache bool
}

func newRefreshCmd(root *rootOptions) *cobra.Command {
	opts := &refreshOptions{}

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Fetch the article feed and replace the local copy",
		Example: `  # Refresh the stored articles
  xyzreader refresh

  # Refresh and warm the image cache
  xyzreader refresh --prefetch`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRefresh(cmd, root, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.prefetch, "prefetch", false, "download thumbnails and photos after refreshing")
	cmd.Flags().BoolVar(&opts.clearCache, "clear-cache", false, "delete the local article store first")
	return cmd
}

func runRefresh(cmd *cobra.Command, root *rootOptions, opts *refreshOptions) error {
	if opts.clearCache {
		cfg, err := loadConfig(root)
		if err != nil {
			return err
		}
		if err := adapter.ClearCache(cfg); err != nil {
			return err
		}
	}

	a, err := newApp(root)
	if err != nil {
		return err
	}
	defer a.Close()

	unsubscribe := a.broadcaster.Subscribe(domain.RefreshObserverFunc(func(refreshing bool) {
		a.logger.Debug("refresh state", "refreshing", refreshing)
	}))
	defer unsubscribe()

	res, err := a.feed.Refresh(cmd.Context())
	if err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Refreshed %d articles\n", res.Count)

	if opts.prefetch {
		n := a.feed.Prefetch(cmd.Context(), a.loader, a.cfg.Images.PrefetchWorkers)
		fmt.Fprintf(cmd.OutOrStdout(), "Prefetched %d images\n", n)
	}
	return nil
}
