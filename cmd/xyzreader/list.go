package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/mmcdole/xyzreader/internal/domain"
	"github.com/mmcdole/xyzreader/internal/viewstate"
)

type listOptions struct {
	search  string
	shareID int64
	json    bool
}

func newListCmd(root *rootOptions) *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the stored articles, newest first",
		Example: `  # List all articles
  xyzreader list

  # Fuzzy search titles and authors
  xyzreader list --search gopher

  # Print the share text of an article
  xyzreader list --share 5`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.search, "search", "", "only show articles matching this query")
	cmd.Flags().Int64Var(&opts.shareID, "share", 0, "print the share text of the article with this id")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print articles as JSON")
	return cmd
}

func runList(cmd *cobra.Command, root *rootOptions, opts *listOptions) error {
	a, err := newApp(root)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.ensureArticles(cmd); err != nil {
		return fmt.Errorf("initial refresh failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if opts.shareID != 0 {
		return printShare(cmd, a, out, opts.shareID)
	}

	articles, err := a.feed.Search(cmd.Context(), opts.search)
	if err != nil {
		return err
	}

	switch {
	case opts.json:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(articles)
	case isTerminal(out):
		return printTable(out, articles, time.Now())
	default:
		return printPlain(out, articles)
	}
}

func printShare(cmd *cobra.Command, a *app, out io.Writer, id int64) error {
	article, err := a.feed.LoadOne(cmd.Context(), id)
	if err != nil {
		return err
	}

	detail := viewstate.NewDetailController(a.logger)
	detail.Bind(domain.NewArticleSequence([]domain.Article{article}), &id)
	share, err := detail.ShareRequest()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Subject: %s\nContent-Type: %s\n\n%s\n", share.Subject, share.MIMEType, share.Text)
	return nil
}

func printPlain(out io.Writer, articles []domain.Article) error {
	for _, a := range articles {
		date := ""
		if !a.PublishedDate.IsZero() {
			date = a.PublishedDate.Format(time.DateOnly)
		}
		if _, err := fmt.Fprintf(out, "%d\t%s\t%s\t%s\n", a.ID, date, a.DisplayTitle(), a.Author); err != nil {
			return err
		}
	}
	return nil
}

func printTable(out io.Writer, articles []domain.Article, now time.Time) error {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("ID", "TITLE", "BYLINE")
	for _, a := range articles {
		t.Row(strconv.FormatInt(a.ID, 10), a.DisplayTitle(), viewstate.Byline(a, now))
	}
	_, err := fmt.Fprintln(out, t.String())
	return err
}
