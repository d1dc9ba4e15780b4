package tui

import (
	"github.com/mmcdole/xyzreader/internal/domain"
	"github.com/mmcdole/xyzreader/internal/viewstate"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// ArticlesLoadedMsg carries a fresh snapshot from the store
type ArticlesLoadedMsg struct {
	Articles domain.ArticleSequence
}

// ImageResolvedMsg carries the sampled color for an image request
type ImageResolvedMsg struct {
	Result viewstate.ImageResult
}

// RefreshStateMsg reports a refresh broadcaster transition
type RefreshStateMsg struct {
	Refreshing bool
}

// RefreshDoneMsg signals that a refresh started from the TUI returned
type RefreshDoneMsg struct {
	Result domain.RefreshResult
	Err    error
}

// NavigateMsg opens the detail screen on an article
type NavigateMsg struct {
	ArticleID int64
}

// NavigateBackMsg returns from the detail screen to the list
type NavigateBackMsg struct{}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct{}

// StatusMsg sets a temporary status message
type StatusMsg struct {
	Message string
	IsError bool
}
