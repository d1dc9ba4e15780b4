package viewstate

import (
	"testing"
	"time"

	"github.com/mmcdole/xyzreader/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func id(v int64) *int64 { return &v }

func TestDetailController_LandsOnInitialArticle(t *testing.T) {
	c := NewDetailController(nil)
	req := c.Bind(articles(1, 5, 9), id(5))

	assert.Equal(t, 1, c.CurrentPage())
	a, err := c.CurrentArticle()
	require.NoError(t, err)
	assert.Equal(t, int64(5), a.ID)

	require.NotNil(t, req)
	assert.Equal(t, ImagePhoto, req.Kind)
	assert.Equal(t, DetailHolder, req.Holder)
	assert.Equal(t, int64(5), req.ArticleID)
	assert.Equal(t, "https://img.example/photo/5.jpg", req.URL)
}

func TestDetailController_InitialArticleEveryPosition(t *testing.T) {
	seq := articles(3, 1, 4, 15, 9, 2, 6)
	for p, a := range seq.Articles() {
		c := NewDetailController(nil)
		c.Bind(seq, id(a.ID))
		assert.Equal(t, p, c.CurrentPage())
	}
}

func TestDetailController_MissingInitialFallsBackToFirstPage(t *testing.T) {
	c := NewDetailController(nil)
	c.Bind(articles(1, 5, 9), id(42))
	assert.Equal(t, 0, c.CurrentPage())

	a, err := c.CurrentArticle()
	require.NoError(t, err)
	assert.Equal(t, int64(1), a.ID)
}

func TestDetailController_RebindKeepsShownArticle(t *testing.T) {
	c := NewDetailController(nil)
	c.Bind(articles(1, 5, 9), id(9))

	c.Bind(articles(9, 1, 5), nil)
	a, err := c.CurrentArticle()
	require.NoError(t, err)
	assert.Equal(t, int64(9), a.ID)
	assert.Equal(t, 0, c.CurrentPage())
}

func TestDetailController_RebindClampsWhenArticleGone(t *testing.T) {
	c := NewDetailController(nil)
	c.Bind(articles(1, 5, 9), id(9))

	c.Bind(articles(1, 5), nil)
	assert.Equal(t, 1, c.CurrentPage())

	c.Bind(articles(), nil)
	assert.Equal(t, 0, c.CurrentPage())
	_, err := c.CurrentArticle()
	assert.True(t, domain.IsIndexError(err))
}

func TestDetailController_Swipe(t *testing.T) {
	c := NewDetailController(nil)
	c.Bind(articles(1, 5, 9), nil)
	assert.Equal(t, 3, c.PageCount())

	req, moved := c.Prev()
	assert.False(t, moved)
	assert.Nil(t, req)

	req, moved = c.Next()
	assert.True(t, moved)
	require.NotNil(t, req)
	assert.Equal(t, int64(5), req.ArticleID)

	req, err := c.SwipeTo(2)
	require.NoError(t, err)
	require.NotNil(t, req)
	a, _ := c.CurrentArticle()
	assert.Equal(t, int64(9), a.ID)

	_, moved = c.Next()
	assert.False(t, moved)

	_, err = c.SwipeTo(3)
	assert.True(t, domain.IsIndexError(err))
	assert.Equal(t, 2, c.CurrentPage())
}

func TestDetailController_ThemeFromPhoto(t *testing.T) {
	c := NewDetailController(nil)
	req := c.Bind(articles(1, 5), id(1))
	require.NotNil(t, req)

	theme := c.Theme()
	assert.Equal(t, TintLoading, theme.State)
	assert.Equal(t, domain.DefaultThemeColor, theme.MetaBar)

	color := domain.RGB{R: 200, G: 100, B: 50}
	assert.True(t, c.ApplyPhoto(ImageResult{Request: *req, Color: color}))

	theme = c.Theme()
	assert.Equal(t, TintResolved, theme.State)
	assert.Equal(t, color, theme.MetaBar)
	assert.Equal(t, domain.RGB{R: 180, G: 90, B: 45}, theme.StatusBar)

	// swiping away and back uses the cached color
	c.Next()
	req, moved := c.Prev()
	assert.True(t, moved)
	assert.Nil(t, req)
	assert.Equal(t, color, c.Theme().MetaBar)
}

func TestDetailController_StalePhotoDropped(t *testing.T) {
	c := NewDetailController(nil)
	first := c.Bind(articles(1, 5), id(1))
	require.NotNil(t, first)

	second, moved := c.Next()
	require.True(t, moved)
	require.NotNil(t, second)

	assert.False(t, c.ApplyPhoto(ImageResult{Request: *first, Color: colorFor(1)}))
	assert.Equal(t, TintLoading, c.Theme().State)
	assert.Equal(t, domain.DefaultThemeColor, c.Theme().MetaBar)

	assert.True(t, c.ApplyPhoto(ImageResult{Request: *second, Color: colorFor(5)}))
	assert.Equal(t, colorFor(5), c.Theme().MetaBar)
}

func TestDetailController_FailedPhotoKeepsDefault(t *testing.T) {
	c := NewDetailController(nil)
	req := c.Bind(articles(1), nil)
	require.NotNil(t, req)

	assert.True(t, c.ApplyPhoto(ImageResult{Request: *req, Err: domain.ErrFetchFailed}))
	theme := c.Theme()
	assert.Equal(t, TintFailed, theme.State)
	assert.Equal(t, domain.DefaultThemeColor, theme.MetaBar)
	assert.Equal(t, domain.DefaultThemeColor.Scale(0.9), theme.StatusBar)
}

func TestDetailController_ShareRequest(t *testing.T) {
	c := NewDetailController(nil)
	_, err := c.ShareRequest()
	assert.True(t, domain.IsIndexError(err))

	c.Bind(domain.NewArticleSequence([]domain.Article{
		{ID: 1, Title: "Gardens of Stone", Author: "Ann Lee"},
		{ID: 2, Title: "  "},
	}), nil)

	share, err := c.ShareRequest()
	require.NoError(t, err)
	assert.Equal(t, "text/plain", share.MIMEType)
	assert.Equal(t, "Gardens of Stone", share.Subject)
	assert.Contains(t, share.Text, "Gardens of Stone")
	assert.Contains(t, share.Text, "Ann Lee")
	assert.NotContains(t, share.Text, "Some sample text")

	c.Next()
	share, err = c.ShareRequest()
	require.NoError(t, err)
	assert.Equal(t, "N/A", share.Text)
}

func TestByline(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	a := domain.Article{Author: "Ann Lee", PublishedDate: now.Add(-3 * time.Hour)}
	assert.Equal(t, "3 hours ago by Ann Lee", Byline(a, now))

	a.Author = ""
	assert.Equal(t, "3 hours ago", Byline(a, now))

	assert.Equal(t, "unknown date", RelativeDate(time.Time{}, now))
}

func TestBodyText(t *testing.T) {
	a := domain.Article{Body: "<p>Hello <b>world</b></p>"}
	assert.Contains(t, BodyText(a), "**world**")
	assert.NotContains(t, BodyText(a), "<p>")

	assert.Equal(t, "", BodyText(domain.Article{Body: "   "}))
	assert.Equal(t, "plain words", BodyText(domain.Article{Body: "plain words"}))
}
