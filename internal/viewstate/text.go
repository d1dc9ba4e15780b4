package viewstate

import (
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/dustin/go-humanize"
	"github.com/mmcdole/xyzreader/internal/domain"
)

// RelativeDate formats a publish date relative to now, e.g. "3 hours ago".
func RelativeDate(published, now time.Time) string {
	if published.IsZero() {
		return "unknown date"
	}
	return humanize.RelTime(published, now, "ago", "from now")
}

// Byline returns "<relative date> by <author>".
func Byline(a domain.Article, now time.Time) string {
	date := RelativeDate(a.PublishedDate, now)
	author := strings.TrimSpace(a.Author)
	if author == "" {
		return date
	}
	return date + " by " + author
}

// BodyText converts the article's HTML body to Markdown-flavored text for
// terminal display. Bodies that fail to convert are returned as-is.
func BodyText(a domain.Article) string {
	if strings.TrimSpace(a.Body) == "" {
		return ""
	}
	md, err := htmltomarkdown.ConvertString(a.Body)
	if err != nil {
		return a.Body
	}
	return strings.TrimSpace(md)
}
