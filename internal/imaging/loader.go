// Package imaging fetches article images and samples their theme colors.
package imaging

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/golang/groupcache/lru"
	"github.com/mmcdole/xyzreader/internal/domain"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	defaultTimeout   = 20 * time.Second
	defaultCacheSize = 64
	userAgent        = "XYZReader/1.0"

	// maxImageBytes caps how much of a response body is decoded.
	maxImageBytes = 16 << 20
)

// Loader fetches and decodes images over HTTP.
// Decoded images are kept in a bounded LRU and concurrent fetches of one URL
// share a single request.
type Loader struct {
	httpClient *http.Client
	logger     *slog.Logger

	mu    sync.Mutex // lru.Cache is not goroutine-safe
	cache *lru.Cache

	group singleflight.Group
}

// NewLoader creates a loader. Zero values select defaults.
func NewLoader(timeout time.Duration, cacheSize int, logger *slog.Logger) *Loader {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		cache:      lru.New(cacheSize),
	}
}

// Fetch returns the decoded image at url. Every failure wraps domain.ErrFetchFailed.
func (l *Loader) Fetch(ctx context.Context, url string) (image.Image, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: empty url", domain.ErrFetchFailed)
	}

	if img, ok := l.cached(url); ok {
		return img, nil
	}

	ch := l.group.DoChan(url, func() (interface{}, error) {
		// detached so one caller's cancellation does not fail the others
		img, err := l.download(context.WithoutCancel(ctx), url)
		if err != nil {
			return nil, err
		}
		l.mu.Lock()
		l.cache.Add(url, img)
		l.mu.Unlock()
		return img, nil
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrFetchFailed, url, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(image.Image), nil
	}
}

// Warm fetches urls with at most workers concurrent requests and returns how
// many succeeded. Individual failures are logged, not returned.
func (l *Loader) Warm(ctx context.Context, urls []string, workers int) int {
	if workers <= 0 {
		workers = 4
	}

	var (
		mu sync.Mutex
		ok int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, u := range urls {
		if u == "" {
			continue
		}
		g.Go(func() error {
			if _, err := l.Fetch(gctx, u); err != nil {
				l.logger.Debug("prefetch failed", "url", u, "error", err)
				return nil
			}
			mu.Lock()
			ok++
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return ok
}

func (l *Loader) cached(url string) (image.Image, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	v, ok := l.cache.Get(url)
	if !ok {
		return nil, false
	}
	return v.(image.Image), true
}

func (l *Loader) download(ctx context.Context, url string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrFetchFailed, url, err)
	}
	req.Header.Set("User-Agent", userAgent)

	l.logger.Debug("image request", "url", url)

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrFetchFailed, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s: status %d", domain.ErrFetchFailed, url, resp.StatusCode)
	}

	img, format, err := image.Decode(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: decode: %v", domain.ErrFetchFailed, url, err)
	}
	l.logger.Debug("image decoded", "url", url, "format", format, "bounds", img.Bounds().String())
	return img, nil
}
