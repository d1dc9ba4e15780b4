package store

import (
	"testing"
	"time"

	"github.com/mmcdole/xyzreader/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() []domain.Article {
	pub := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	return []domain.Article{
		{ID: 9, Title: "Nine", Author: "A", PublishedDate: pub, AspectRatio: 1.2},
		{ID: 2, Title: "Two", Author: "B", PublishedDate: pub.Add(-time.Hour), AspectRatio: 1.5},
		{ID: 5, Title: "Five", Author: "C", PublishedDate: pub.Add(-2 * time.Hour), AspectRatio: 0.8},
	}
}

func TestArticleStore_MemoryMode(t *testing.T) {
	s, err := NewArticleStore("", "")
	require.NoError(t, err)
	defer s.Close()

	_, ok := s.GetArticles()
	assert.False(t, ok)
	_, ok = s.LastRefresh()
	assert.False(t, ok)

	require.NoError(t, s.ReplaceAll(sample()))
	got, ok := s.GetArticles()
	require.True(t, ok)
	assert.Len(t, got, 3)

	a, ok := s.GetArticle(2)
	require.True(t, ok)
	assert.Equal(t, "Two", a.Title)

	_, ok = s.GetArticle(100)
	assert.False(t, ok)
}

func TestArticleStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := NewArticleStore(dir, "https://feed.example/data.json")
	require.NoError(t, err)
	require.NoError(t, s.ReplaceAll(sample()))
	require.NoError(t, s.Close())

	s, err = NewArticleStore(dir, "https://feed.example/data.json")
	require.NoError(t, err)
	defer s.Close()

	got, ok := s.GetArticles()
	require.True(t, ok)
	var ids []int64
	for _, a := range got {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []int64{9, 2, 5}, ids, "source order is kept")
	assert.True(t, got[0].PublishedDate.Equal(sample()[0].PublishedDate))
	assert.Equal(t, 1.2, got[0].AspectRatio)

	ts, ok := s.LastRefresh()
	assert.True(t, ok)
	assert.NotZero(t, ts)
}

func TestArticleStore_ReplaceAllIsWholesale(t *testing.T) {
	s, err := NewArticleStore(t.TempDir(), "")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.ReplaceAll(sample()))
	require.NoError(t, s.ReplaceAll([]domain.Article{{ID: 77, Title: "Only"}}))

	got, ok := s.GetArticles()
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, int64(77), got[0].ID)

	_, ok = s.GetArticle(9)
	assert.False(t, ok)
}

func TestArticleStore_EmptySnapshotAfterRefresh(t *testing.T) {
	s, err := NewArticleStore(t.TempDir(), "")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.ReplaceAll(nil))
	got, ok := s.GetArticles()
	assert.True(t, ok, "an empty refresh is still a snapshot")
	assert.Empty(t, got)
}

func TestArticleStore_SeparateSources(t *testing.T) {
	dir := t.TempDir()
	a, err := NewArticleStore(dir, "https://one.example")
	require.NoError(t, err)
	require.NoError(t, a.ReplaceAll(sample()))
	require.NoError(t, a.Close())

	b, err := NewArticleStore(dir, "https://two.example/")
	require.NoError(t, err)
	defer b.Close()
	_, ok := b.GetArticles()
	assert.False(t, ok)
}

func TestHashSourceURL(t *testing.T) {
	assert.Equal(t, hashSourceURL("https://Feed.example/"), hashSourceURL("https://feed.example"))
	assert.Len(t, hashSourceURL("x"), 12)
}
