package tui

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/mmcdole/xyzreader/internal/domain"
	"github.com/mmcdole/xyzreader/internal/tui/styles"
	"github.com/mmcdole/xyzreader/internal/viewstate"
)

// Screen is the screen currently shown
type Screen int

const (
	ScreenList Screen = iota
	ScreenDetail
)

// ArticleService loads and refreshes articles
type ArticleService interface {
	LoadAll(ctx context.Context) (domain.ArticleSequence, error)
	Refresh(ctx context.Context) (domain.RefreshResult, error)
	NeedsInitialRefresh() bool
}

// ColorResolver samples the theme color of an image URL
type ColorResolver interface {
	Resolve(ctx context.Context, url string) (domain.RGB, error)
}

// Layout
const (
	rowHeight = 3 // lines per list row, including the gap
	thumbCols = 8 // width of the thumbnail swatch

	// header + footer + status
	ChromeHeight = 3
	// meta bar (2) + status bar + footer
	DetailChromeHeight = 4

	statusDuration      = 3 * time.Second
	defaultImageTimeout = 20 * time.Second
)

// Options configures the model
type Options struct {
	ShowImages    bool
	ImageTimeout  time.Duration
	MaxRows       int           // cap on visible list rows, 0 = fit the window
	PhotoResolver ColorResolver // detail photos, defaults to the thumbnail resolver
	RefreshStates <-chan bool   // broadcaster transitions, may be nil
	Logger        *slog.Logger
}

// Model is the main Bubble Tea model for the application
type Model struct {
	Screen Screen
	Ready  bool

	// Dimensions
	Width  int
	Height int

	// Services
	svc       ArticleService
	resolver  ColorResolver
	photoRes  ColorResolver
	refreshCh <-chan bool

	// View state
	List   *viewstate.ListController
	Detail *viewstate.DetailController

	// UI Components
	keys        KeyMap
	help        help.Model
	spinner     spinner.Model
	viewport    viewport.Model
	filterInput textinput.Model

	// List cursor and scroll, both in filtered row space
	cursor  int
	offset  int
	holders int // slots bound on the last sync

	filterActive bool
	filteredIdx  []int // sequence positions, nil when unfiltered

	detailShown int64 // article id the viewport content belongs to

	// UI state
	StatusMsg   string
	StatusIsErr bool

	imageTimeout time.Duration
	statusDelay  time.Duration
	maxRows      int
	now          func() time.Time
	logger       *slog.Logger
}

// NewModel creates a new application model
func NewModel(svc ArticleService, resolver ColorResolver, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	photoResolver := opts.PhotoResolver
	if photoResolver == nil {
		photoResolver = resolver
	}
	if !opts.ShowImages {
		resolver, photoResolver = nil, nil
	}
	timeout := opts.ImageTimeout
	if timeout <= 0 {
		timeout = defaultImageTimeout
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.SpinnerStyle

	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle

	return Model{
		Screen:       ScreenList,
		svc:          svc,
		resolver:     resolver,
		photoRes:     photoResolver,
		refreshCh:    opts.RefreshStates,
		List:         viewstate.NewListController(logger),
		Detail:       viewstate.NewDetailController(logger),
		keys:         DefaultKeyMap(),
		help:         help.New(),
		spinner:      sp,
		viewport:     viewport.New(0, 0),
		filterInput:  ti,
		imageTimeout: timeout,
		statusDelay:  statusDuration,
		maxRows:      opts.MaxRows,
		now:          time.Now,
		logger:       logger,
	}
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		LoadArticlesCmd(m.svc),
		listenRefreshCmd(m.refreshCh),
	}
	// First start: fill the store like the original list screen did
	if m.svc.NeedsInitialRefresh() {
		m.List.SetRefreshing(true)
		cmds = append(cmds, RefreshCmd(m.svc), m.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		m.ensureVisible()
		return m, tea.Batch(m.syncHolders()...)

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case ArticlesLoadedMsg:
		return m.handleArticlesLoaded(msg)

	case ImageResolvedMsg:
		res := msg.Result
		switch res.Request.Kind {
		case viewstate.ImageThumbnail:
			m.List.ApplyThumbnail(res)
		case viewstate.ImagePhoto:
			m.Detail.ApplyPhoto(res)
		}
		return m, nil

	case NavigateMsg:
		id := msg.ArticleID
		req := m.Detail.Bind(m.List.Sequence(), &id)
		m.Screen = ScreenDetail
		m.setDetailContent()
		return m, m.imageCmd(req)

	case NavigateBackMsg:
		m.Screen = ScreenList
		return m, nil

	case RefreshStateMsg:
		m.List.SetRefreshing(msg.Refreshing)
		cmds := []tea.Cmd{listenRefreshCmd(m.refreshCh)}
		if msg.Refreshing {
			cmds = append(cmds, m.spinner.Tick)
		}
		return m, tea.Batch(cmds...)

	case RefreshDoneMsg:
		m.List.SetRefreshing(false)
		if msg.Err != nil {
			m.logger.Error("refresh failed", "error", msg.Err)
			return m, m.setStatus("Refresh failed: "+msg.Err.Error(), true)
		}
		return m, tea.Batch(
			LoadArticlesCmd(m.svc),
			m.setStatus(pluralArticles(msg.Result.Count)+" loaded", false),
		)

	case spinner.TickMsg:
		if !m.List.Refreshing() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ErrMsg:
		m.logger.Error("command failed", "context", msg.Context, "error", msg.Err)
		return m, m.setStatus(msg.Error(), true)

	case StatusMsg:
		return m, m.setStatus(msg.Message, msg.IsError)

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil
	}

	if m.filterActive && m.filterInput.Focused() {
		var cmd tea.Cmd
		m.filterInput, cmd = m.filterInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleArticlesLoaded(msg ArticlesLoadedMsg) (tea.Model, tea.Cmd) {
	selected, hadSelection := m.selectedID()
	cursor, offset := m.cursor, m.offset
	m.List.Bind(msg.Articles)
	if m.filterActive {
		m.applyFilter()
		m.offset = offset
	}
	m.cursor = min(cursor, max(m.rowCount()-1, 0))
	if hadSelection {
		m.followID(selected)
	}
	m.ensureVisible()
	cmds := m.syncHolders()

	if m.Screen == ScreenDetail {
		cmds = append(cmds, m.imageCmd(m.Detail.Bind(msg.Articles, nil)))
		m.setDetailContent()
	}

	if msg.Articles.Len() == 0 && !m.List.Refreshing() {
		cmds = append(cmds, m.setStatus("No articles yet, press r to refresh", false))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.Screen == ScreenDetail {
		return m.handleDetailKey(msg)
	}
	return m.handleListKey(msg)
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Typing into the filter
	if m.filterActive && m.filterInput.Focused() {
		switch msg.String() {
		case "esc":
			m.clearFilter()
			return m, tea.Batch(m.syncHolders()...)
		case "enter":
			m.filterInput.Blur()
			return m, nil
		case "backspace":
			if m.filterInput.Value() == "" {
				m.clearFilter()
				return m, tea.Batch(m.syncHolders()...)
			}
		}
		var cmd tea.Cmd
		m.filterInput, cmd = m.filterInput.Update(msg)
		m.applyFilter()
		return m, tea.Batch(append(m.syncHolders(), cmd)...)
	}

	count := m.rowCount()
	page := max(m.visibleRows(), 1)

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Back):
		if m.filterActive {
			m.clearFilter()
			return m, tea.Batch(m.syncHolders()...)
		}
		return m, nil
	case key.Matches(msg, m.keys.Filter):
		m.filterActive = true
		m.filterInput.Focus()
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Refresh):
		return m, m.startRefresh()
	case key.Matches(msg, m.keys.Enter):
		if count == 0 {
			return m, nil
		}
		nav, err := m.List.Select(m.positionAt(m.cursor))
		if err != nil {
			m.logger.Warn("select failed", "cursor", m.cursor, "error", err)
			return m, nil
		}
		return m, NavigateCmd(nav.ArticleID)
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.PageUp):
		m.moveCursor(-page)
	case key.Matches(msg, m.keys.PageDown):
		m.moveCursor(page)
	case key.Matches(msg, m.keys.Home):
		m.moveCursor(-count)
	case key.Matches(msg, m.keys.End):
		m.moveCursor(count)
	default:
		return m, nil
	}
	return m, tea.Batch(m.syncHolders()...)
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Back):
		m.Screen = ScreenList
		m.followDetail()
		return m, tea.Batch(m.syncHolders()...)
	case key.Matches(msg, m.keys.Prev):
		req, moved := m.Detail.Prev()
		if moved {
			m.setDetailContent()
		}
		return m, m.imageCmd(req)
	case key.Matches(msg, m.keys.Next):
		req, moved := m.Detail.Next()
		if moved {
			m.setDetailContent()
		}
		return m, m.imageCmd(req)
	case key.Matches(msg, m.keys.Share):
		share, err := m.Detail.ShareRequest()
		if err != nil {
			return m, m.setStatus("Nothing to share", true)
		}
		m.logger.Info("share", "mime", share.MIMEType, "subject", share.Subject)
		return m, m.setStatus("Share: "+share.Text, false)
	case key.Matches(msg, m.keys.Refresh):
		return m, m.startRefresh()
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// followDetail moves the list cursor to the article the detail screen was
// showing, so going back keeps the reader's place after paging.
func (m *Model) followDetail() {
	a, err := m.Detail.CurrentArticle()
	if err != nil {
		return
	}
	if m.followID(a.ID) {
		m.ensureVisible()
	}
}

// followID puts the cursor on the row showing id, reporting whether it is listed.
func (m *Model) followID(id int64) bool {
	p := m.List.Sequence().IndexOf(id)
	if p < 0 {
		return false
	}
	for i := 0; i < m.rowCount(); i++ {
		if m.positionAt(i) == p {
			m.cursor = i
			return true
		}
	}
	return false
}

// selectedID returns the article under the list cursor.
func (m Model) selectedID() (int64, bool) {
	if m.cursor >= m.rowCount() {
		return 0, false
	}
	a, err := m.List.Sequence().At(m.positionAt(m.cursor))
	if err != nil {
		return 0, false
	}
	return a.ID, true
}

func (m *Model) startRefresh() tea.Cmd {
	if m.List.Refreshing() {
		return m.setStatus("Refresh already running", false)
	}
	m.List.SetRefreshing(true)
	return tea.Batch(RefreshCmd(m.svc), m.spinner.Tick)
}

func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.StatusMsg = text
	m.StatusIsErr = isErr
	return ClearStatusCmd(m.statusDelay)
}

func (m *Model) imageCmd(req *viewstate.ImageRequest) tea.Cmd {
	if req == nil {
		return nil
	}
	r := m.resolver
	if req.Kind == viewstate.ImagePhoto {
		r = m.photoRes
	}
	return ResolveImageCmd(r, *req, m.imageTimeout)
}

// --- List rows and holders ---

func (m Model) rowCount() int {
	if m.filteredIdx != nil {
		return len(m.filteredIdx)
	}
	return m.List.RowCount()
}

func (m Model) positionAt(i int) int {
	if m.filteredIdx != nil {
		return m.filteredIdx[i]
	}
	return i
}

func (m Model) visibleRows() int {
	if !m.Ready {
		return 0
	}
	h := m.Height - ChromeHeight
	if m.filterActive {
		h--
	}
	rows := max(h/rowHeight, 1)
	if m.maxRows > 0 {
		rows = min(rows, m.maxRows)
	}
	return rows
}

func (m *Model) moveCursor(delta int) {
	count := m.rowCount()
	if count == 0 {
		return
	}
	m.cursor = max(0, min(m.cursor+delta, count-1))
	m.ensureVisible()
}

func (m *Model) ensureVisible() {
	n := m.visibleRows()
	if n == 0 {
		return
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+n {
		m.offset = m.cursor - n + 1
	}
	m.offset = max(0, min(m.offset, m.rowCount()-n))
}

// syncHolders binds every visible slot to the row it now shows and returns
// the image fetches the newly bound rows need.
func (m *Model) syncHolders() []tea.Cmd {
	n := m.visibleRows()
	var cmds []tea.Cmd
	for slot := 0; slot < n; slot++ {
		i := m.offset + slot
		if i >= m.rowCount() {
			m.List.ReleaseHolder(slot)
			continue
		}
		_, req, err := m.List.BindHolder(slot, m.positionAt(i))
		if err != nil {
			m.List.ReleaseHolder(slot)
			continue
		}
		if cmd := m.imageCmd(req); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	for slot := n; slot < m.holders; slot++ {
		m.List.ReleaseHolder(slot)
	}
	m.holders = n
	return cmds
}

// --- Filter ---

func (m *Model) applyFilter() {
	query := strings.TrimSpace(m.filterInput.Value())
	m.cursor = 0
	m.offset = 0
	if query == "" {
		m.filteredIdx = nil
		return
	}

	articles := m.List.Sequence().Articles()
	lowerTitles := make([]string, len(articles))
	for i, a := range articles {
		lowerTitles[i] = strings.ToLower(a.DisplayTitle())
	}

	matches := fuzzy.Find(strings.ToLower(query), lowerTitles)
	m.filteredIdx = make([]int, len(matches))
	for i, match := range matches {
		m.filteredIdx[i] = match.Index
	}
}

func (m *Model) clearFilter() {
	m.filterActive = false
	m.filterInput.Reset()
	m.filterInput.Blur()
	m.filteredIdx = nil
	m.cursor = 0
	m.offset = 0
}

// --- Detail ---

func (m *Model) updateLayout() {
	m.help.Width = m.Width
	m.viewport.Width = m.Width
	m.viewport.Height = max(m.Height-DetailChromeHeight, 1)
	m.detailShown = 0
	m.setDetailContent()
}

func (m *Model) setDetailContent() {
	a, err := m.Detail.CurrentArticle()
	if err != nil {
		m.detailShown = 0
		m.viewport.SetContent("")
		return
	}
	if a.ID == m.detailShown {
		return
	}
	m.detailShown = a.ID
	body := viewstate.BodyText(a)
	if body == "" {
		body = styles.DimStyle.Render("(no content)")
	}
	m.viewport.SetContent(styles.BodyStyle.Width(max(m.Width, 20)).Render(body))
	m.viewport.GotoTop()
}
