package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/xyzreader/internal/domain"
	"github.com/mmcdole/xyzreader/internal/tui/styles"
	"github.com/mmcdole/xyzreader/internal/viewstate"
)

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}
	if m.Screen == ScreenDetail {
		return m.renderDetail()
	}
	return m.renderList()
}

func (m Model) renderList() string {
	var b strings.Builder

	title := "XYZ Reader"
	if m.List.Refreshing() {
		title += "  " + m.spinner.View() + " refreshing"
	}
	count := pluralArticles(m.List.RowCount())
	if m.filteredIdx != nil {
		count = fmt.Sprintf("%d of %s", len(m.filteredIdx), count)
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top,
		styles.HeaderStyle.Render(title),
		styles.DimStyle.Render("  "+count),
	)
	b.WriteString(header)
	b.WriteString("\n")

	if m.filterActive {
		b.WriteString(m.filterInput.View())
		b.WriteString("\n")
	}

	n := m.visibleRows()
	lines := 0
	for slot := 0; slot < n; slot++ {
		i := m.offset + slot
		if i >= m.rowCount() {
			break
		}
		row, ok := m.List.Holder(slot)
		if !ok {
			continue
		}
		b.WriteString(m.renderRow(row, i == m.cursor))
		b.WriteString("\n")
		lines += rowHeight
	}

	// Keep the footer at the bottom
	body := m.Height - ChromeHeight
	if m.filterActive {
		body--
	}
	for ; lines < body; lines++ {
		b.WriteString("\n")
	}

	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderRow(row viewstate.Row, selected bool) string {
	a := row.Article
	thumbH := max(1, min(a.ThumbnailHeight(thumbCols)/2, rowHeight-1))

	var thumb string
	switch row.Tint.State {
	case viewstate.TintResolved:
		thumb = styles.Swatch(row.Tint.Color, thumbCols, thumbH)
	case viewstate.TintLoading:
		thumb = styles.PlaceholderStyle.Render(strings.TrimSuffix(strings.Repeat(strings.Repeat("░", thumbCols)+"\n", thumbH), "\n"))
	default:
		thumb = strings.TrimSuffix(strings.Repeat(strings.Repeat(" ", thumbCols)+"\n", thumbH), "\n")
	}

	marker := "  "
	if selected {
		marker = styles.SelectedMarkerStyle.Render("▌ ")
	}

	textW := max(m.Width-thumbCols-4, 10)
	text := styles.Truncate(a.DisplayTitle(), textW) + "\n" +
		styles.Truncate(viewstate.Byline(a, m.now()), textW)

	textStyle := styles.RowStyle.Width(textW)
	if color, ok := row.Tint.Resolved(); ok {
		textStyle = styles.Tinted(color).PaddingLeft(1).Width(textW)
	}
	if selected {
		textStyle = textStyle.Bold(true)
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, marker, thumb, " ", textStyle.Render(text)) + "\n"
}

func (m Model) renderDetail() string {
	theme := m.Detail.Theme()
	width := max(m.Width, 1)

	a, err := m.Detail.CurrentArticle()
	if err != nil {
		meta := styles.Tinted(domain.DefaultThemeColor).Width(width).Padding(0, 1).Render("No article\n")
		return lipgloss.JoinVertical(lipgloss.Left, meta, m.renderFooter())
	}

	meta := styles.Tinted(theme.MetaBar).Bold(true).Width(width).Padding(0, 1).Render(
		styles.Truncate(a.DisplayTitle(), width-2) + "\n" +
			styles.Truncate(viewstate.Byline(a, m.now()), width-2),
	)

	indicator := fmt.Sprintf("%d/%d", m.Detail.CurrentPage()+1, m.Detail.PageCount())
	if m.List.Refreshing() {
		indicator = m.spinner.View() + " " + indicator
	}
	if theme.State == viewstate.TintLoading {
		indicator += "  loading colors"
	}
	status := styles.Tinted(theme.StatusBar).Width(width).Padding(0, 1).Render(indicator)

	return lipgloss.JoinVertical(lipgloss.Left,
		meta,
		m.viewport.View(),
		status,
		m.renderFooter(),
	)
}

func (m Model) renderFooter() string {
	if m.StatusMsg != "" {
		style := styles.SuccessStyle
		if m.StatusIsErr {
			style = styles.ErrorStyle
		}
		return styles.FooterStyle.Render(style.Render(styles.Truncate(m.StatusMsg, max(m.Width-2, 1))))
	}
	return styles.FooterStyle.Render(m.help.View(m.keys))
}

func pluralArticles(n int) string {
	if n == 1 {
		return "1 article"
	}
	return fmt.Sprintf("%d articles", n)
}
