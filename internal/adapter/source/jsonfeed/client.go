package jsonfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/mmcdole/xyzreader/internal/domain"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "XYZReader/1.0"
	maxBodySize    = 8 << 20
)

// Client fetches articles from a JSON array endpoint
type Client struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new JSON feed client
func NewClient(url string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// FetchArticles downloads and decodes the whole feed
func (c *Client) FetchArticles(ctx context.Context) ([]domain.Article, error) {
	body, err := c.doRequest(ctx)
	if err != nil {
		return nil, err
	}

	var dtos []ArticleDTO
	if err := json.Unmarshal(body, &dtos); err != nil {
		c.logger.Error("JSON parse error", "error", err, "bodyLen", len(body))
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidFeed, err)
	}

	articles := MapArticles(dtos)
	c.logger.Debug("json feed fetched", "entries", len(dtos), "articles", len(articles))
	return articles, nil
}

// doRequest performs the feed GET and returns the raw body
func (c *Client) doRequest(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("json feed request", "url", c.url)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("json feed request failed", "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("json feed request error", "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: unexpected status code: %d", domain.ErrSourceUnavailable, resp.StatusCode)
	}
	return body, nil
}
