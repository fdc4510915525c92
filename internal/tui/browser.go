package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	xansi "github.com/charmbracelet/x/ansi"

	"github.com/blackwell-systems/bouquinsctl/internal/catalog"
	"github.com/blackwell-systems/bouquinsctl/internal/events"
	"github.com/blackwell-systems/bouquinsctl/internal/listing"
	"github.com/blackwell-systems/bouquinsctl/internal/render"
	"github.com/blackwell-systems/bouquinsctl/internal/search"
)

// Tab is one page of the browser.
type Tab int

const (
	TabBooks Tab = iota
	TabAuthors
	TabSeries
	TabSearch
	tabCount
)

func (t Tab) String() string {
	switch t {
	case TabBooks:
		return "Books"
	case TabAuthors:
		return "Authors"
	case TabSeries:
		return "Series"
	case TabSearch:
		return "Search"
	}
	return ""
}

// Entity returns the listing entity of a listing tab.
func (t Tab) Entity() (catalog.EntityType, bool) {
	switch t {
	case TabBooks:
		return catalog.Books, true
	case TabAuthors:
		return catalog.Authors, true
	case TabSeries:
		return catalog.Series, true
	}
	return "", false
}

func tabFor(t catalog.EntityType) Tab {
	switch t {
	case catalog.Authors:
		return TabAuthors
	case catalog.Series:
		return TabSeries
	}
	return TabBooks
}

// BrowserOptions configures NewBrowser.
type BrowserOptions struct {
	Listing listing.Fetcher
	Search  search.Fetcher

	ListingOptions listing.Options
	SearchOptions  search.Options

	// Initial is the entity listed on start.
	Initial catalog.EntityType
	// Link is a URL query ("?q=...") to search on start.
	Link string
}

// BrowserModel is the interactive catalog browser. It owns the event bus
// its header and paginator publish on.
type BrowserModel struct {
	bus    *events.Bus
	view   *listing.View
	agg    *search.Aggregator
	header *Header
	pager  Paginator

	table   table.Model
	input   textinput.Model
	spinner spinner.Model
	help    help.Model
	keys    BrowserKeys

	tab         Tab
	scope       search.Scope
	editing     bool
	showDetails bool
	lastErr     string
	activeCmd   string
	width       int
	height      int
	quitting    bool

	initCmd tea.Cmd
}

// NewBrowser builds the browser and schedules the initial listing, plus
// the linked search if opts.Link carries one.
func NewBrowser(opts BrowserOptions) BrowserModel {
	bus := events.NewBus()
	view := listing.New(opts.Listing, opts.ListingOptions)
	view.Subscribe(bus)

	in := textinput.New()
	in.Placeholder = "title, author or series"
	in.Prompt = "🔍 "
	in.CharLimit = 200

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = StyleHighlight

	t := table.New(table.WithFocused(true), table.WithHeight(12))

	m := BrowserModel{
		bus:     bus,
		view:    view,
		agg:     search.New(opts.Search, opts.SearchOptions),
		header:  NewHeader(bus),
		pager:   NewPaginator(bus),
		table:   t,
		input:   in,
		spinner: sp,
		help:    help.New(),
		keys:    NewBrowserKeys(),
		scope:   search.ScopeAll,
		width:   100,
		height:  30,
	}

	initial := opts.Initial
	if !initial.Valid() {
		initial = catalog.Books
	}
	m.tab = tabFor(initial)
	cmds := []tea.Cmd{view.SelectEntityType(initial)}

	if linked := m.agg.InitFromURL(opts.Link); linked != nil {
		m.tab = TabSearch
		m.input.SetValue(m.agg.Query())
		cmds = append(cmds, linked)
	}
	m.initCmd = tea.Batch(cmds...)
	m.refreshTable()
	return m
}

// Init starts the spinner and the initial requests.
func (m BrowserModel) Init() tea.Cmd {
	return tea.Batch(m.initCmd, m.spinner.Tick)
}

// Update handles input and request results.
func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.refreshTable()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ClearActiveCmdMsg:
		m.activeCmd = ""
		return m, nil

	case listing.LoadedMsg:
		if !m.view.Stale(msg) {
			m.lastErr = ""
		}
		cmd := m.view.Update(msg)
		m.refreshTable()
		return m, cmd

	case listing.FailedMsg:
		// Superseded requests fail with context.Canceled; they are not errors.
		if !m.view.Stale(msg) {
			m.lastErr = msg.Err.Error()
		}
		cmd := m.view.Update(msg)
		m.refreshTable()
		return m, cmd

	case search.ResultMsg:
		return m, m.agg.Update(msg)

	case search.FailedMsg:
		if !m.agg.Stale(msg) {
			m.lastErr = fmt.Sprintf("%s: %v", msg.Entity, msg.Err)
		}
		return m, m.agg.Update(msg)

	case tea.KeyMsg:
		if m.editing {
			return m.updateInput(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m BrowserModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Submit):
		m.editing = false
		m.input.Blur()
		m.lastErr = ""
		return m, m.agg.Submit(m.input.Value(), m.scope)
	case key.Matches(msg, m.keys.CancelEdit):
		m.editing = false
		m.input.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m BrowserModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.NextTab):
		return m.switchTab((m.tab + 1) % tabCount)

	case key.Matches(msg, m.keys.PrevTab):
		return m.switchTab((m.tab + tabCount - 1) % tabCount)

	case key.Matches(msg, m.keys.Search):
		m.tab = TabSearch
		m.editing = true
		cmd := m.input.Focus()
		return m, cmd
	}

	if m.tab == TabSearch {
		if key.Matches(msg, m.keys.Scope) {
			m.scope = nextScope(m.scope)
			m.activeCmd = "o"
			return m, HighlightCmd()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.ColLeft):
		m.header.Move(-1)
		m.refreshTable()
		return m, nil

	case key.Matches(msg, m.keys.ColRight):
		m.header.Move(1)
		m.refreshTable()
		return m, nil

	case key.Matches(msg, m.keys.Sort):
		m.activeCmd = "s"
		cmd := m.header.Click()
		m.refreshTable()
		return m, tea.Batch(cmd, HighlightCmd())

	case key.Matches(msg, m.keys.NextPage):
		m.activeCmd = "n"
		return m, tea.Batch(m.pager.Next(m.view.HasMore()), HighlightCmd())

	case key.Matches(msg, m.keys.PrevPage):
		m.activeCmd = "p"
		return m, tea.Batch(m.pager.Prev(m.view.Page()), HighlightCmd())

	case key.Matches(msg, m.keys.Details):
		m.showDetails = !m.showDetails
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m BrowserModel) switchTab(t Tab) (tea.Model, tea.Cmd) {
	m.tab = t
	m.lastErr = ""
	entity, ok := t.Entity()
	if !ok {
		return m, nil
	}
	cmd := m.view.SelectEntityType(entity)
	m.refreshTable()
	return m, cmd
}

func nextScope(s search.Scope) search.Scope {
	for i, sc := range search.Scopes {
		if sc == s {
			return search.Scopes[(i+1)%len(search.Scopes)]
		}
	}
	return search.ScopeAll
}

// refreshTable rebuilds the table from the listing state.
func (m *BrowserModel) refreshTable() {
	m.header.SetColumns(m.view.Columns())
	col, desc := m.view.Sort()
	titles := m.header.Titles(render.Sort{Column: col, Desc: desc})

	widths := columnWidths(m.header.Columns(), m.width-6)
	cols := make([]table.Column, len(titles))
	for i, title := range titles {
		cols[i] = table.Column{Title: title, Width: widths[i]}
	}

	records := m.view.Results()
	rows := make([]table.Row, len(records))
	for i, r := range records {
		cells := render.Row(r, m.header.Columns())
		for j := range cells {
			cells[j] = xansi.Truncate(cells[j], widths[j], "…")
		}
		rows[i] = cells
	}

	// Rows must match the new column count before the columns change.
	m.table.SetRows(nil)
	m.table.SetColumns(cols)
	m.table.SetRows(rows)

	h := m.height - 12
	if h < 5 {
		h = 5
	}
	m.table.SetHeight(h)
}

// columnWidths gives the first column half of the width and splits the
// rest evenly.
func columnWidths(cols []catalog.Column, total int) []int {
	widths := make([]int, len(cols))
	if len(cols) == 0 {
		return widths
	}
	if total < 20*len(cols) {
		total = 20 * len(cols)
	}
	if len(cols) == 1 {
		widths[0] = total
		return widths
	}
	widths[0] = total / 2
	rest := (total - widths[0]) / (len(cols) - 1)
	for i := 1; i < len(cols); i++ {
		widths[i] = rest
	}
	return widths
}

// RunBrowser launches the interactive browser on the alternate screen.
func RunBrowser(opts BrowserOptions) error {
	p := tea.NewProgram(NewBrowser(opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}
