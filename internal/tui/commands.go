package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/xyzreader/internal/domain"
	"github.com/mmcdole/xyzreader/internal/viewstate"
)

// Command factories for async operations

// LoadArticlesCmd reads the stored snapshot
func LoadArticlesCmd(svc ArticleService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		seq, err := svc.LoadAll(ctx)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading articles"}
		}
		return ArticlesLoadedMsg{Articles: seq}
	}
}

// RefreshCmd fetches the feed and replaces the stored snapshot
func RefreshCmd(svc ArticleService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		res, err := svc.Refresh(ctx)
		return RefreshDoneMsg{Result: res, Err: err}
	}
}

// ResolveImageCmd fetches the requested image and samples its color.
// A nil resolver fails the request so the slot stops loading.
func ResolveImageCmd(r ColorResolver, req viewstate.ImageRequest, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		if r == nil {
			return ImageResolvedMsg{Result: viewstate.ImageResult{
				Request: req,
				Err:     fmt.Errorf("%w: images disabled", domain.ErrFetchFailed),
			}}
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		color, err := r.Resolve(ctx, req.URL)
		return ImageResolvedMsg{Result: viewstate.ImageResult{Request: req, Color: color, Err: err}}
	}
}

// listenRefreshCmd waits for the next broadcaster transition
func listenRefreshCmd(ch <-chan bool) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		refreshing, ok := <-ch
		if !ok {
			return nil
		}
		return RefreshStateMsg{Refreshing: refreshing}
	}
}

// NavigateCmd emits a NavigateMsg
func NavigateCmd(articleID int64) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{ArticleID: articleID}
	}
}

// ClearStatusCmd clears the status message after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
