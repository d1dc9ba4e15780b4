package jsonfeed

import (
	"strings"
	"time"

	"github.com/mmcdole/xyzreader/internal/domain"
)

// dateLayouts are tried in order when parsing published_date.
var dateLayouts = []string{
	"2006-01-02T15:04:05.000Z07:00",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDate parses a feed timestamp. Unparseable values yield the zero time.
func ParseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// MapArticle converts a feed entry to a domain article
func MapArticle(dto ArticleDTO) domain.Article {
	return domain.Article{
		ID:            int64(dto.ID),
		Title:         strings.TrimSpace(dto.Title),
		Author:        strings.TrimSpace(dto.Author),
		PublishedDate: ParseDate(dto.PublishedDate),
		Body:          dto.Body,
		ThumbnailURL:  strings.TrimSpace(dto.Thumb),
		PhotoURL:      strings.TrimSpace(dto.Photo),
		AspectRatio:   float64(dto.AspectRatio),
	}
}

// MapArticles converts feed entries, dropping entries without a usable id.
// When an id repeats, the first occurrence wins.
func MapArticles(dtos []ArticleDTO) []domain.Article {
	articles := make([]domain.Article, 0, len(dtos))
	seen := make(map[int64]struct{}, len(dtos))
	for _, dto := range dtos {
		a := MapArticle(dto)
		if a.ID <= 0 {
			continue
		}
		if _, dup := seen[a.ID]; dup {
			continue
		}
		seen[a.ID] = struct{}{}
		articles = append(articles, a)
	}
	return articles
}
