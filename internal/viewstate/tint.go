// Package viewstate holds the headless state behind the list and detail
// screens. Controllers are driven by a host loop and are not safe for
// concurrent use; image work happens elsewhere and comes back as ImageResult.
package viewstate

import "github.com/mmcdole/xyzreader/internal/domain"

// TintState is the lifecycle of one row's or page's image color.
type TintState int

const (
	TintNotRequested TintState = iota
	TintLoading
	TintResolved
	TintFailed // terminal, no retry
)

func (s TintState) String() string {
	switch s {
	case TintNotRequested:
		return "not-requested"
	case TintLoading:
		return "loading"
	case TintResolved:
		return "resolved"
	case TintFailed:
		return "failed"
	}
	return "unknown"
}

// Tint is a background color that may not have resolved yet.
type Tint struct {
	State TintState
	Color domain.RGB // valid only when State == TintResolved
}

// Resolved returns the color when it is available.
func (t Tint) Resolved() (domain.RGB, bool) {
	return t.Color, t.State == TintResolved
}

// ImageKind tells which article image a request is for.
type ImageKind int

const (
	ImageThumbnail ImageKind = iota
	ImagePhoto
)

// DetailHolder is the holder index used for detail page requests.
const DetailHolder = -1

// ImageRequest asks the host to fetch an image and sample its color.
type ImageRequest struct {
	Kind      ImageKind
	Holder    int
	ArticleID int64
	URL       string
}

// ImageResult is the host's answer to an ImageRequest.
// Err is set when the fetch, decode or sampling failed.
type ImageResult struct {
	Request ImageRequest
	Color   domain.RGB
	Err     error
}

// ThemeCache remembers resolved colors and failures per article for the
// lifetime of a controller. It is never persisted.
type ThemeCache struct {
	colors map[int64]domain.RGB
	failed map[int64]struct{}
}

// NewThemeCache creates an empty cache.
func NewThemeCache() *ThemeCache {
	return &ThemeCache{
		colors: make(map[int64]domain.RGB),
		failed: make(map[int64]struct{}),
	}
}

// Put records a resolved color.
func (c *ThemeCache) Put(id int64, color domain.RGB) {
	delete(c.failed, id)
	c.colors[id] = color
}

// MarkFailed records that an article's image could not produce a color.
func (c *ThemeCache) MarkFailed(id int64) {
	if _, ok := c.colors[id]; ok {
		return
	}
	c.failed[id] = struct{}{}
}

// Get returns the resolved color for id.
func (c *ThemeCache) Get(id int64) (domain.RGB, bool) {
	color, ok := c.colors[id]
	return color, ok
}

// Tint returns what the cache knows about id. Unknown ids are TintNotRequested.
func (c *ThemeCache) Tint(id int64) Tint {
	if color, ok := c.colors[id]; ok {
		return Tint{State: TintResolved, Color: color}
	}
	if _, ok := c.failed[id]; ok {
		return Tint{State: TintFailed}
	}
	return Tint{}
}

// Len returns the number of resolved colors.
func (c *ThemeCache) Len() int {
	return len(c.colors)
}
