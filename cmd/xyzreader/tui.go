package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mmcdole/xyzreader/internal/tui"
)

func runTUI(cmd *cobra.Command, opts *rootOptions) error {
	a, err := newApp(opts)
	if err != nil {
		return err
	}
	defer a.Close()

	// Refresh transitions reach the model through this channel
	states := make(chan bool, 8)
	unsubscribe := a.broadcaster.Subscribe(tui.NewChannelObserver(states))
	defer unsubscribe()

	model := tui.NewModel(a.feed, a.resolver, tui.Options{
		ShowImages:    a.cfg.UI.ShowImages,
		ImageTimeout:  a.cfg.Images.Timeout,
		MaxRows:       a.cfg.UI.Columns,
		PhotoResolver: a.photoResolver,
		RefreshStates: states,
		Logger:        a.logger,
	})

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithContext(cmd.Context()),
	)

	a.logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		a.logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	a.logger.Info("shutting down")
	return nil
}
