package viewstate

import (
	"log/slog"

	"github.com/mmcdole/xyzreader/internal/domain"
)

// Row is one article as presented by the list.
type Row struct {
	Position int
	Article  domain.Article
	Tint     Tint
}

// NavigationRequest asks the host to open the detail screen.
// Positions shift across reloads, so only the article id is carried.
type NavigationRequest struct {
	ArticleID int64
}

type holderState struct {
	position  int
	articleID int64
	tint      Tint
}

// ListController binds an ArticleSequence to a set of recycled row holders.
// A holder is a visible slot; the host rebinds it to another position as
// the list scrolls.
type ListController struct {
	seq        domain.ArticleSequence
	holders    map[int]*holderState
	themes     *ThemeCache
	refreshing bool
	logger     *slog.Logger
}

// NewListController creates an empty controller.
func NewListController(logger *slog.Logger) *ListController {
	if logger == nil {
		logger = slog.Default()
	}
	return &ListController{
		holders: make(map[int]*holderState),
		themes:  NewThemeCache(),
		logger:  logger,
	}
}

// Bind replaces the rows with seq and unbinds every holder. Results for
// requests issued before the bind can no longer be applied.
func (c *ListController) Bind(seq domain.ArticleSequence) {
	c.seq = seq
	c.holders = make(map[int]*holderState)
	c.logger.Debug("list bound", "rows", seq.Len())
}

// Sequence returns the bound snapshot.
func (c *ListController) Sequence() domain.ArticleSequence {
	return c.seq
}

// RowCount returns the number of rows, always the bound sequence length.
func (c *ListController) RowCount() int {
	return c.seq.Len()
}

// RowAt returns the row at position, with the article's cached tint.
func (c *ListController) RowAt(position int) (Row, error) {
	a, err := c.seq.At(position)
	if err != nil {
		return Row{}, err
	}
	return Row{Position: position, Article: a, Tint: c.themes.Tint(a.ID)}, nil
}

// BindHolder binds holder to position. When the article's thumbnail color is
// unknown the holder starts Loading and the returned request must be run by
// the host. Rebinding a holder to the article it already shows is a no-op.
func (c *ListController) BindHolder(holder, position int) (Row, *ImageRequest, error) {
	a, err := c.seq.At(position)
	if err != nil {
		return Row{}, nil, err
	}

	if h, ok := c.holders[holder]; ok && h.articleID == a.ID {
		h.position = position
		return Row{Position: position, Article: a, Tint: h.tint}, nil, nil
	}

	h := &holderState{position: position, articleID: a.ID, tint: c.themes.Tint(a.ID)}
	c.holders[holder] = h

	var req *ImageRequest
	if h.tint.State == TintNotRequested {
		if a.ThumbnailURL == "" {
			h.tint = Tint{State: TintFailed}
			c.themes.MarkFailed(a.ID)
		} else {
			h.tint = Tint{State: TintLoading}
			req = &ImageRequest{Kind: ImageThumbnail, Holder: holder, ArticleID: a.ID, URL: a.ThumbnailURL}
		}
	}
	return Row{Position: position, Article: a, Tint: h.tint}, req, nil
}

// ReleaseHolder unbinds a holder that scrolled out of view.
func (c *ListController) ReleaseHolder(holder int) {
	delete(c.holders, holder)
}

// Holder returns the row a holder is bound to.
func (c *ListController) Holder(holder int) (Row, bool) {
	h, ok := c.holders[holder]
	if !ok {
		return Row{}, false
	}
	a, err := c.seq.At(h.position)
	if err != nil {
		return Row{}, false
	}
	return Row{Position: h.position, Article: a, Tint: h.tint}, true
}

// ApplyThumbnail applies a thumbnail result to its holder and reports whether
// it was applied. Results for a holder that is unbound or now shows another
// article are dropped. A failed result leaves the background unset.
func (c *ListController) ApplyThumbnail(res ImageResult) bool {
	req := res.Request
	h, ok := c.holders[req.Holder]
	if !ok || h.articleID != req.ArticleID {
		c.logger.Debug("stale thumbnail dropped", "holder", req.Holder, "articleID", req.ArticleID)
		return false
	}

	if res.Err != nil {
		h.tint = Tint{State: TintFailed}
		c.themes.MarkFailed(req.ArticleID)
		c.logger.Debug("thumbnail color failed", "articleID", req.ArticleID, "error", res.Err)
		return true
	}

	h.tint = Tint{State: TintResolved, Color: res.Color}
	c.themes.Put(req.ArticleID, res.Color)
	return true
}

// Select returns the navigation request for the row at position.
func (c *ListController) Select(position int) (NavigationRequest, error) {
	a, err := c.seq.At(position)
	if err != nil {
		return NavigationRequest{}, err
	}
	return NavigationRequest{ArticleID: a.ID}, nil
}

// SetRefreshing updates the refresh indicator.
func (c *ListController) SetRefreshing(refreshing bool) {
	c.refreshing = refreshing
}

// Refreshing reports whether the refresh indicator is on.
func (c *ListController) Refreshing() bool {
	return c.refreshing
}
