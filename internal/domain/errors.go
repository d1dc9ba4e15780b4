package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain operations
var (
	// ErrArticleNotFound indicates the requested article does not exist
	ErrArticleNotFound = errors.New("article not found")

	// ErrSourceUnavailable indicates the article source is unreachable
	ErrSourceUnavailable = errors.New("article source is unreachable")

	// ErrInvalidFeed indicates the source responded with a body that could not be parsed
	ErrInvalidFeed = errors.New("invalid article feed")

	// ErrFetchFailed indicates an image could not be fetched or decoded
	ErrFetchFailed = errors.New("image fetch failed")

	// ErrNoSwatch indicates an image decoded but has no vibrant color
	ErrNoSwatch = errors.New("no vibrant swatch")
)

// IndexError reports an out-of-range row or page access.
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index %d out of range [0, %d)", e.Index, e.Len)
}

// IsIndexError reports whether err is (or wraps) an *IndexError.
func IsIndexError(err error) bool {
	var ie *IndexError
	return errors.As(err, &ie)
}
