// Package rss adapts RSS and Atom feeds to the article model.
package rss

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/mmcdole/xyzreader/internal/domain"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "XYZReader/1.0"
	maxBodySize    = 8 << 20
)

// Client fetches articles from an RSS or Atom feed
type Client struct {
	url        string
	parser     *gofeed.Parser
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new feed client
func NewClient(url string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		url:    url,
		parser: gofeed.NewParser(),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// FetchArticles downloads and parses the feed
func (c *Client) FetchArticles(ctx context.Context) ([]domain.Article, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("feed request", "url", c.url)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("feed request failed", "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.logger.Error("feed request error", "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: unexpected status %d from feed", domain.ErrSourceUnavailable, resp.StatusCode)
	}

	feed, err := c.parser.Parse(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidFeed, err)
	}

	articles := MapItems(feed.Items)
	c.logger.Debug("feed fetched", "title", feed.Title, "items", len(feed.Items), "articles", len(articles))
	return articles, nil
}

// MapItems converts feed items, skipping items already seen by id
func MapItems(items []*gofeed.Item) []domain.Article {
	articles := make([]domain.Article, 0, len(items))
	seen := make(map[int64]struct{}, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		a := MapItem(item)
		if _, dup := seen[a.ID]; dup {
			continue
		}
		seen[a.ID] = struct{}{}
		articles = append(articles, a)
	}
	return articles
}

// MapItem converts a single feed item to a domain article
func MapItem(item *gofeed.Item) domain.Article {
	var published time.Time
	if item.PublishedParsed != nil {
		published = item.PublishedParsed.UTC()
	} else if item.UpdatedParsed != nil {
		published = item.UpdatedParsed.UTC()
	}

	body := item.Content
	if strings.TrimSpace(body) == "" {
		body = item.Description
	}

	image := itemImage(item)
	return domain.Article{
		ID:            ItemID(item),
		Title:         strings.TrimSpace(item.Title),
		Author:        itemAuthor(item),
		PublishedDate: published,
		Body:          body,
		ThumbnailURL:  image,
		PhotoURL:      image,
	}
}

// ItemID derives a stable positive id from the item's GUID, link or title.
func ItemID(item *gofeed.Item) int64 {
	key := strings.TrimSpace(item.GUID)
	if key == "" {
		key = strings.TrimSpace(item.Link)
	}
	if key == "" {
		key = strings.TrimSpace(item.Title)
	}
	h := sha256.Sum256([]byte(key))
	id := int64(binary.BigEndian.Uint64(h[:8]) & (1<<63 - 1))
	if id == 0 {
		id = 1
	}
	return id
}

func itemAuthor(item *gofeed.Item) string {
	for _, p := range item.Authors {
		if p != nil && strings.TrimSpace(p.Name) != "" {
			return strings.TrimSpace(p.Name)
		}
	}
	if item.DublinCoreExt != nil {
		for _, c := range item.DublinCoreExt.Creator {
			if strings.TrimSpace(c) != "" {
				return strings.TrimSpace(c)
			}
		}
	}
	return ""
}

func itemImage(item *gofeed.Item) string {
	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}
	for _, enc := range item.Enclosures {
		if enc != nil && strings.HasPrefix(enc.Type, "image/") && enc.URL != "" {
			return enc.URL
		}
	}
	return ""
}
