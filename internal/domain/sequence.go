package domain

import "sort"

// ArticleSequence is an ordered, read-only snapshot of articles.
// A reload produces a new sequence; existing sequences are never mutated.
type ArticleSequence struct {
	articles []Article
}

// NewArticleSequence copies articles into a new snapshot.
func NewArticleSequence(articles []Article) ArticleSequence {
	cp := make([]Article, len(articles))
	copy(cp, articles)
	return ArticleSequence{articles: cp}
}

// NewestFirst returns a snapshot sorted by publish date, newest first.
// Ties keep their source order.
func NewestFirst(articles []Article) ArticleSequence {
	seq := NewArticleSequence(articles)
	sort.SliceStable(seq.articles, func(i, j int) bool {
		return seq.articles[i].PublishedDate.After(seq.articles[j].PublishedDate)
	})
	return seq
}

// Len returns the number of articles.
func (s ArticleSequence) Len() int {
	return len(s.articles)
}

// At returns the article at position p, or an *IndexError when p is outside [0, Len()).
func (s ArticleSequence) At(p int) (Article, error) {
	if p < 0 || p >= len(s.articles) {
		return Article{}, &IndexError{Index: p, Len: len(s.articles)}
	}
	return s.articles[p], nil
}

// IndexOf returns the position of the article with the given id, or -1.
func (s ArticleSequence) IndexOf(id int64) int {
	for i, a := range s.articles {
		if a.ID == id {
			return i
		}
	}
	return -1
}

// Find returns the article with the given id.
func (s ArticleSequence) Find(id int64) (Article, bool) {
	if i := s.IndexOf(id); i >= 0 {
		return s.articles[i], true
	}
	return Article{}, false
}

// Articles returns a copy of the underlying slice.
func (s ArticleSequence) Articles() []Article {
	cp := make([]Article, len(s.articles))
	copy(cp, s.articles)
	return cp
}
