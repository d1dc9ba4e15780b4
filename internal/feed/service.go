// Package feed loads articles from the local store and refreshes the store
// from the remote source.
package feed

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/mmcdole/xyzreader/internal/domain"
)

// Broadcaster is told when a refresh starts and ends.
type Broadcaster interface {
	OnRefreshStarted()
	OnRefreshFinished()
}

// Warmer prefetches images so later fetches hit the cache.
type Warmer interface {
	Warm(ctx context.Context, urls []string, workers int) int
}

// Service orchestrates source + store operations.
type Service struct {
	source      domain.ArticleSource
	store       domain.ArticleStore
	broadcaster Broadcaster
	logger      *slog.Logger

	// Serializes refreshes so two fetches never race on ReplaceAll
	refreshMu sync.Mutex
	now       func() time.Time
}

// NewService creates a new feed service.
func NewService(source domain.ArticleSource, store domain.ArticleStore, broadcaster Broadcaster, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		source:      source,
		store:       store,
		broadcaster: broadcaster,
		logger:      logger,
		now:         time.Now,
	}
}

// LoadAll returns every stored article, newest first.
// An empty store yields an empty sequence.
func (s *Service) LoadAll(ctx context.Context) (domain.ArticleSequence, error) {
	if err := ctx.Err(); err != nil {
		return domain.ArticleSequence{}, err
	}
	articles, ok := s.store.GetArticles()
	if !ok {
		s.logger.Debug("store empty")
		return domain.NewArticleSequence(nil), nil
	}
	return domain.NewestFirst(articles), nil
}

// LoadOne returns a single stored article.
func (s *Service) LoadOne(ctx context.Context, id int64) (domain.Article, error) {
	if err := ctx.Err(); err != nil {
		return domain.Article{}, err
	}
	a, ok := s.store.GetArticle(id)
	if !ok {
		return domain.Article{}, fmt.Errorf("article %d: %w", id, domain.ErrArticleNotFound)
	}
	return a, nil
}

// NeedsInitialRefresh reports whether the store has never been filled.
func (s *Service) NeedsInitialRefresh() bool {
	_, ok := s.store.LastRefresh()
	return !ok
}

// Refresh fetches the full feed and replaces the stored snapshot.
// The broadcaster sees started before the fetch and finished afterwards,
// whether or not the refresh succeeded. On failure the store is untouched.
func (s *Service) Refresh(ctx context.Context) (domain.RefreshResult, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	if s.broadcaster != nil {
		s.broadcaster.OnRefreshStarted()
		defer s.broadcaster.OnRefreshFinished()
	}

	start := s.now()
	articles, err := s.source.FetchArticles(ctx)
	if err != nil {
		s.logger.Error("failed to fetch articles", "error", err)
		return domain.RefreshResult{}, err
	}

	if err := s.store.ReplaceAll(articles); err != nil {
		s.logger.Error("failed to save articles", "error", err)
		return domain.RefreshResult{}, fmt.Errorf("failed to save articles: %w", err)
	}

	ts, _ := s.store.LastRefresh()
	s.logger.Info("refreshed articles", "count", len(articles), "duration", s.now().Sub(start))
	return domain.RefreshResult{Count: len(articles), Refreshed: ts}, nil
}

// Prefetch warms thumbnails and photos of every stored article.
// It returns the number of images that were fetched successfully.
func (s *Service) Prefetch(ctx context.Context, warmer Warmer, workers int) int {
	articles, ok := s.store.GetArticles()
	if !ok {
		return 0
	}
	seen := make(map[string]struct{}, len(articles)*2)
	urls := make([]string, 0, len(articles)*2)
	for _, a := range articles {
		for _, u := range []string{a.ThumbnailURL, a.PhotoURL} {
			if u == "" {
				continue
			}
			if _, dup := seen[u]; dup {
				continue
			}
			seen[u] = struct{}{}
			urls = append(urls, u)
		}
	}
	n := warmer.Warm(ctx, urls, workers)
	s.logger.Debug("prefetched images", "requested", len(urls), "ok", n)
	return n
}

// Search ranks stored articles whose title or author fuzzy-matches query.
// Best matches come first; an empty query returns everything newest first.
func (s *Service) Search(ctx context.Context, query string) ([]domain.Article, error) {
	seq, err := s.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	articles := seq.Articles()

	query = strings.TrimSpace(query)
	if query == "" {
		return articles, nil
	}

	targets := make([]string, len(articles))
	for i, a := range articles {
		targets[i] = a.DisplayTitle() + " " + a.Author
	}

	ranks := fuzzy.RankFindFold(query, targets)
	sort.Stable(ranks)

	results := make([]domain.Article, 0, len(ranks))
	for _, r := range ranks {
		results = append(results, articles[r.OriginalIndex])
	}
	s.logger.Debug("search", "query", query, "results", len(results))
	return results, nil
}
