package viewstate

import (
	"log/slog"

	"github.com/mmcdole/xyzreader/internal/domain"
)

// statusBarDim darkens the meta bar color for the status bar.
const statusBarDim = 0.9

// Theme is the color scheme of the current detail page.
type Theme struct {
	State     TintState
	MetaBar   domain.RGB
	StatusBar domain.RGB
}

// DetailController pages through an ArticleSequence one article at a time.
type DetailController struct {
	seq    domain.ArticleSequence
	page   int
	tint   Tint
	shown  int64 // article id the tint belongs to, 0 when nothing is shown
	themes *ThemeCache
	logger *slog.Logger
}

// NewDetailController creates an empty controller.
func NewDetailController(logger *slog.Logger) *DetailController {
	if logger == nil {
		logger = slog.Default()
	}
	return &DetailController{
		themes: NewThemeCache(),
		logger: logger,
	}
}

// Bind replaces the pages with seq.
//
// With initialID set, the current page becomes the position of that article,
// or page 0 when the sequence does not contain it. With initialID nil the
// article on screen stays on screen if seq still has it; otherwise the old
// page index is clamped into range.
//
// The returned request, if any, fetches the landing page's photo.
func (c *DetailController) Bind(seq domain.ArticleSequence, initialID *int64) *ImageRequest {
	c.seq = seq

	page := 0
	switch {
	case initialID != nil:
		if p := seq.IndexOf(*initialID); p >= 0 {
			page = p
		} else {
			c.logger.Info("start article not in sequence, showing first page", "articleID", *initialID)
		}
	case c.shown != 0 && seq.IndexOf(c.shown) >= 0:
		page = seq.IndexOf(c.shown)
	default:
		page = min(c.page, seq.Len()-1)
		page = max(page, 0)
	}

	return c.setPage(page)
}

// PageCount returns the number of pages.
func (c *DetailController) PageCount() int {
	return c.seq.Len()
}

// CurrentPage returns the current page index.
func (c *DetailController) CurrentPage() int {
	return c.page
}

// CurrentArticle returns the article on the current page.
func (c *DetailController) CurrentArticle() (domain.Article, error) {
	return c.seq.At(c.page)
}

// SwipeTo moves to page.
func (c *DetailController) SwipeTo(page int) (*ImageRequest, error) {
	if _, err := c.seq.At(page); err != nil {
		return nil, err
	}
	return c.setPage(page), nil
}

// Next moves one page forward. moved is false on the last page.
func (c *DetailController) Next() (req *ImageRequest, moved bool) {
	if c.page+1 >= c.seq.Len() {
		return nil, false
	}
	return c.setPage(c.page + 1), true
}

// Prev moves one page back. moved is false on the first page.
func (c *DetailController) Prev() (req *ImageRequest, moved bool) {
	if c.page <= 0 || c.seq.Len() == 0 {
		return nil, false
	}
	return c.setPage(c.page - 1), true
}

// ApplyPhoto applies a photo result if its article is still on screen and
// reports whether it was applied.
func (c *DetailController) ApplyPhoto(res ImageResult) bool {
	req := res.Request
	a, err := c.seq.At(c.page)
	if err != nil || a.ID != req.ArticleID || c.shown != req.ArticleID {
		c.logger.Debug("stale photo dropped", "articleID", req.ArticleID)
		return false
	}

	if res.Err != nil {
		c.tint = Tint{State: TintFailed}
		c.themes.MarkFailed(req.ArticleID)
		c.logger.Debug("photo color failed", "articleID", req.ArticleID, "error", res.Err)
		return true
	}

	c.tint = Tint{State: TintResolved, Color: res.Color}
	c.themes.Put(req.ArticleID, res.Color)
	return true
}

// Tint returns the current page's tint.
func (c *DetailController) Tint() Tint {
	return c.tint
}

// Theme returns the meta bar and status bar colors for the current page.
func (c *DetailController) Theme() Theme {
	meta := domain.DefaultThemeColor
	if color, ok := c.tint.Resolved(); ok {
		meta = color
	}
	return Theme{
		State:     c.tint.State,
		MetaBar:   meta,
		StatusBar: meta.Scale(statusBarDim),
	}
}

func (c *DetailController) setPage(page int) *ImageRequest {
	c.page = page

	a, err := c.seq.At(page)
	if err != nil {
		c.page = 0
		c.shown = 0
		c.tint = Tint{}
		return nil
	}

	if a.ID == c.shown && c.tint.State != TintNotRequested {
		return nil
	}

	c.shown = a.ID
	c.tint = c.themes.Tint(a.ID)
	if c.tint.State != TintNotRequested {
		return nil
	}
	if a.PhotoURL == "" {
		c.tint = Tint{State: TintFailed}
		c.themes.MarkFailed(a.ID)
		return nil
	}
	c.tint = Tint{State: TintLoading}
	return &ImageRequest{Kind: ImagePhoto, Holder: DetailHolder, ArticleID: a.ID, URL: a.PhotoURL}
}
