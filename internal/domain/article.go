package domain

import (
	"strings"
	"time"
)

// DefaultAspectRatio is used when a source does not report a thumbnail ratio.
const DefaultAspectRatio = 1.5

// Article is a single feed entry. Articles are immutable once loaded.
type Article struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	PublishedDate time.Time `json:"published_date"`
	Body          string    `json:"body"` // HTML
	ThumbnailURL  string    `json:"thumbnail_url"`
	PhotoURL      string    `json:"photo_url"`
	AspectRatio   float64   `json:"aspect_ratio"`
}

// Ratio returns the thumbnail aspect ratio (width / height), never <= 0.
func (a Article) Ratio() float64 {
	if a.AspectRatio <= 0 {
		return DefaultAspectRatio
	}
	return a.AspectRatio
}

// ThumbnailHeight returns the placeholder height for a thumbnail rendered
// at the given width.
func (a Article) ThumbnailHeight(width int) int {
	if width <= 0 {
		return 0
	}
	return int(float64(width) / a.Ratio())
}

// DisplayTitle returns the title with surrounding whitespace removed, or a
// placeholder for untitled entries.
func (a Article) DisplayTitle() string {
	if t := strings.TrimSpace(a.Title); t != "" {
		return t
	}
	return "N/A"
}
