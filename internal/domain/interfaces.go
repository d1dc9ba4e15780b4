package domain

import (
	"context"
	"image"
)

// ArticleSource fetches the full article list from a remote feed.
type ArticleSource interface {
	FetchArticles(ctx context.Context) ([]Article, error)
}

// ArticleStore persists the last fetched snapshot.
// ReplaceAll swaps the whole snapshot; there is no incremental update.
type ArticleStore interface {
	GetArticles() ([]Article, bool)
	GetArticle(id int64) (Article, bool)
	ReplaceAll(articles []Article) error
	LastRefresh() (int64, bool)
	Close() error
}

// ImageFetcher fetches and decodes a raster image.
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) (image.Image, error)
}

// ColorSampler picks the vibrant color of an image, ok=false when none fits.
type ColorSampler interface {
	Sample(img image.Image) (RGB, bool)
}

// RefreshObserver receives refresh state changes.
type RefreshObserver interface {
	OnRefreshStateChanged(refreshing bool)
}

// RefreshObserverFunc adapts a function to RefreshObserver.
type RefreshObserverFunc func(refreshing bool)

func (f RefreshObserverFunc) OnRefreshStateChanged(refreshing bool) { f(refreshing) }
