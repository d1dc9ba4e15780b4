package viewstate

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/mmcdole/xyzreader/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func articles(ids ...int64) domain.ArticleSequence {
	out := make([]domain.Article, len(ids))
	for i, id := range ids {
		out[i] = domain.Article{
			ID:           id,
			Title:        fmt.Sprintf("Article %d", id),
			ThumbnailURL: fmt.Sprintf("https://img.example/thumb/%d.jpg", id),
			PhotoURL:     fmt.Sprintf("https://img.example/photo/%d.jpg", id),
		}
	}
	return domain.NewArticleSequence(out)
}

// colorFor derives a distinct color from an article id so a misapplied
// result is detectable.
func colorFor(id int64) domain.RGB {
	return domain.RGB{R: uint8(id), G: uint8(id >> 8), B: 0x80}
}

func TestListController_RowCountFollowsBind(t *testing.T) {
	c := NewListController(nil)
	assert.Equal(t, 0, c.RowCount())

	for _, seq := range []domain.ArticleSequence{articles(1, 2, 3), articles(), articles(7)} {
		c.Bind(seq)
		assert.Equal(t, seq.Len(), c.RowCount())
		for p := 0; p < c.RowCount(); p++ {
			row, err := c.RowAt(p)
			require.NoError(t, err)
			assert.Equal(t, p, row.Position)
		}
	}
}

func TestListController_RowAtOutOfRange(t *testing.T) {
	c := NewListController(nil)
	c.Bind(articles(1, 2))

	for _, p := range []int{-1, 2, 10} {
		_, err := c.RowAt(p)
		assert.True(t, domain.IsIndexError(err), "position %d", p)

		_, _, err = c.BindHolder(0, p)
		assert.True(t, domain.IsIndexError(err), "position %d", p)

		_, err = c.Select(p)
		assert.True(t, domain.IsIndexError(err), "position %d", p)
	}
}

func TestListController_BindHolderIssuesRequest(t *testing.T) {
	c := NewListController(nil)
	c.Bind(articles(10, 20))

	row, req, err := c.BindHolder(0, 1)
	require.NoError(t, err)
	require.NotNil(t, req)
	assert.Equal(t, TintLoading, row.Tint.State)
	assert.Equal(t, ImageRequest{
		Kind:      ImageThumbnail,
		Holder:    0,
		ArticleID: 20,
		URL:       "https://img.example/thumb/20.jpg",
	}, *req)

	// same article again: no duplicate request
	_, req, err = c.BindHolder(0, 1)
	require.NoError(t, err)
	assert.Nil(t, req)
}

func TestListController_ApplyThumbnail(t *testing.T) {
	c := NewListController(nil)
	c.Bind(articles(10, 20))

	_, req, err := c.BindHolder(3, 0)
	require.NoError(t, err)

	applied := c.ApplyThumbnail(ImageResult{Request: *req, Color: colorFor(10)})
	assert.True(t, applied)

	row, ok := c.Holder(3)
	require.True(t, ok)
	color, resolved := row.Tint.Resolved()
	require.True(t, resolved)
	assert.Equal(t, colorFor(10), color)

	// cached color resolves immediately on another holder
	row, req, err = c.BindHolder(4, 0)
	require.NoError(t, err)
	assert.Nil(t, req)
	assert.Equal(t, TintResolved, row.Tint.State)

	rowAt, err := c.RowAt(0)
	require.NoError(t, err)
	assert.Equal(t, TintResolved, rowAt.Tint.State)
}

func TestListController_StaleAfterRecycle(t *testing.T) {
	c := NewListController(nil)
	c.Bind(articles(10, 20))

	_, oldReq, err := c.BindHolder(0, 0)
	require.NoError(t, err)

	// holder scrolls and is rebound to article 20 before 10's color arrives
	_, newReq, err := c.BindHolder(0, 1)
	require.NoError(t, err)

	assert.False(t, c.ApplyThumbnail(ImageResult{Request: *oldReq, Color: colorFor(10)}))
	row, _ := c.Holder(0)
	assert.Equal(t, TintLoading, row.Tint.State)

	assert.True(t, c.ApplyThumbnail(ImageResult{Request: *newReq, Color: colorFor(20)}))
	row, _ = c.Holder(0)
	assert.Equal(t, colorFor(20), row.Tint.Color)
}

func TestListController_StaleAfterRebind(t *testing.T) {
	c := NewListController(nil)
	c.Bind(articles(10, 20))
	_, oldReq, err := c.BindHolder(0, 0)
	require.NoError(t, err)

	c.Bind(articles(30, 10))
	_, _, err = c.BindHolder(0, 0)
	require.NoError(t, err)

	assert.False(t, c.ApplyThumbnail(ImageResult{Request: *oldReq, Color: colorFor(10)}))
	row, _ := c.Holder(0)
	assert.Equal(t, int64(30), row.Article.ID)
	assert.Equal(t, TintLoading, row.Tint.State)
}

func TestListController_ReleasedHolderDropsResult(t *testing.T) {
	c := NewListController(nil)
	c.Bind(articles(10))
	_, req, err := c.BindHolder(0, 0)
	require.NoError(t, err)

	c.ReleaseHolder(0)
	assert.False(t, c.ApplyThumbnail(ImageResult{Request: *req, Color: colorFor(10)}))
	_, ok := c.Holder(0)
	assert.False(t, ok)
}

func TestListController_FailedFetchLeavesTintUnset(t *testing.T) {
	c := NewListController(nil)
	c.Bind(articles(10))
	_, req, err := c.BindHolder(0, 0)
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		assert.True(t, c.ApplyThumbnail(ImageResult{Request: *req, Err: domain.ErrFetchFailed}))
	})

	row, _ := c.Holder(0)
	assert.Equal(t, TintFailed, row.Tint.State)
	_, ok := row.Tint.Resolved()
	assert.False(t, ok)

	// failed is terminal: rebinding does not retry
	c.ReleaseHolder(0)
	_, req, err = c.BindHolder(0, 0)
	require.NoError(t, err)
	assert.Nil(t, req)
}

func TestListController_MissingThumbnailFailsWithoutRequest(t *testing.T) {
	c := NewListController(nil)
	c.Bind(domain.NewArticleSequence([]domain.Article{{ID: 1}}))

	row, req, err := c.BindHolder(0, 0)
	require.NoError(t, err)
	assert.Nil(t, req)
	assert.Equal(t, TintFailed, row.Tint.State)
}

func TestListController_SelectCarriesID(t *testing.T) {
	c := NewListController(nil)
	c.Bind(articles(4, 8, 15))

	nav, err := c.Select(2)
	require.NoError(t, err)
	assert.Equal(t, NavigationRequest{ArticleID: 15}, nav)

	c.Bind(articles(15, 4, 8))
	nav, err = c.Select(0)
	require.NoError(t, err)
	assert.Equal(t, int64(15), nav.ArticleID)
}

func TestListController_Refreshing(t *testing.T) {
	c := NewListController(nil)
	assert.False(t, c.Refreshing())
	c.SetRefreshing(true)
	assert.True(t, c.Refreshing())
	c.SetRefreshing(false)
	assert.False(t, c.Refreshing())
}

// Random interleavings of bind, recycle and resolve must never leave a
// holder tinted with another article's color.
func TestListController_StalenessGuardRandomInterleavings(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	pool := []int64{1, 2, 3, 4, 5, 6, 7, 8}

	randomSeq := func() domain.ArticleSequence {
		ids := append([]int64(nil), pool...)
		rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
		return articles(ids[:1+rng.Intn(len(ids))]...)
	}

	for run := 0; run < 200; run++ {
		c := NewListController(nil)
		c.Bind(randomSeq())
		var pending []ImageRequest

		for step := 0; step < 60; step++ {
			switch op := rng.Intn(10); {
			case op == 0:
				seq := randomSeq()
				c.Bind(seq)
				require.Equal(t, seq.Len(), c.RowCount())
			case op < 5:
				holder := rng.Intn(4)
				_, req, err := c.BindHolder(holder, rng.Intn(c.RowCount()))
				require.NoError(t, err)
				if req != nil {
					pending = append(pending, *req)
				}
			case op < 6:
				c.ReleaseHolder(rng.Intn(4))
			default:
				if len(pending) == 0 {
					continue
				}
				i := rng.Intn(len(pending))
				req := pending[i]
				pending = append(pending[:i], pending[i+1:]...)
				res := ImageResult{Request: req, Color: colorFor(req.ArticleID)}
				if rng.Intn(5) == 0 {
					res = ImageResult{Request: req, Err: errors.New("boom")}
				}
				c.ApplyThumbnail(res)
			}

			for holder := 0; holder < 4; holder++ {
				row, ok := c.Holder(holder)
				if !ok {
					continue
				}
				if color, resolved := row.Tint.Resolved(); resolved {
					require.Equal(t, colorFor(row.Article.ID), color,
						"run %d step %d holder %d", run, step, holder)
				}
			}
		}
	}
}
