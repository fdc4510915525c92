package tui

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/bouquinsctl/internal/catalog"
	"github.com/blackwell-systems/bouquinsctl/internal/catalogtest"
	"github.com/blackwell-systems/bouquinsctl/internal/events"
	"github.com/blackwell-systems/bouquinsctl/internal/listing"
	"github.com/blackwell-systems/bouquinsctl/internal/search"
)

type stubFetcher struct {
	mu    sync.Mutex
	paths []string
	reply func(path string) (string, error)
	// hold blocks matching requests until their context ends.
	hold func(path string) bool
}

func (s *stubFetcher) Fetch(ctx context.Context, path string, onSuccess func(json.RawMessage), onError func(error)) {
	s.mu.Lock()
	s.paths = append(s.paths, path)
	reply, hold := s.reply, s.hold
	s.mu.Unlock()
	if hold != nil && hold(path) {
		<-ctx.Done()
		onError(ctx.Err())
		return
	}
	body, err := reply(path)
	if err != nil {
		onError(err)
		return
	}
	onSuccess(json.RawMessage(body))
}

func (s *stubFetcher) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.paths...)
}

func (s *stubFetcher) Last() string {
	p := s.Paths()
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

func catalogReply(path string) (string, error) {
	switch {
	case strings.Contains(path, "term="):
		switch {
		case strings.HasPrefix(path, "/authors/"):
			return catalogtest.Search(1, catalogtest.Author(3, "J.R.R. Tolkien", 12)), nil
		case strings.HasPrefix(path, "/books/"):
			return catalogtest.Search(1, catalogtest.Book(12, "The Hobbit")), nil
		}
		return catalogtest.Search(0), nil
	case strings.HasPrefix(path, "/books/"):
		return catalogtest.Listing(catalog.Books, true,
			catalog.BookRecord{ID: 12, Title: "The Hobbit", Authors: []catalog.AuthorRef{{ID: 3, Name: "J.R.R. Tolkien"}}},
			catalogtest.Book(13, "Dune")), nil
	case strings.HasPrefix(path, "/authors/"):
		return catalogtest.Listing(catalog.Authors, false, catalogtest.Author(3, "J.R.R. Tolkien", 12)), nil
	case strings.HasPrefix(path, "/series/"):
		return catalogtest.Listing(catalog.Series, false), nil
	}
	return "", errors.New("unexpected path " + path)
}

// drive runs cmd and everything it leads to, feeding messages back into
// m. Commands that do not finish quickly (ticks, cursor blinks) are
// dropped.
func drive(t *testing.T, m tea.Model, cmd tea.Cmd) BrowserModel {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		done := make(chan tea.Msg, 1)
		go func() { done <- c() }()
		var msg tea.Msg
		select {
		case msg = <-done:
		case <-time.After(50 * time.Millisecond):
			continue
		}
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		if msg == nil {
			continue
		}
		var next tea.Cmd
		m, next = m.Update(msg)
		queue = append(queue, next)
	}
	return m.(BrowserModel)
}

func press(t *testing.T, m BrowserModel, k string) BrowserModel {
	t.Helper()
	var msg tea.KeyMsg
	switch k {
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		msg = tea.KeyMsg{Type: tea.KeyShiftTab}
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "left":
		msg = tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		msg = tea.KeyMsg{Type: tea.KeyRight}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	next, cmd := m.Update(msg)
	return drive(t, next, cmd)
}

func newTestBrowser(t *testing.T, f *stubFetcher, opts BrowserOptions) BrowserModel {
	t.Helper()
	opts.Listing = f
	opts.Search = f
	m := NewBrowser(opts)
	return drive(t, m, m.Init())
}

func TestBrowser_InitialListing(t *testing.T) {
	f := &stubFetcher{reply: catalogReply}
	m := newTestBrowser(t, f, BrowserOptions{})

	assert.Equal(t, []string{"/books/?page=0&perpage=20"}, f.Paths())
	assert.Equal(t, TabBooks, m.tab)
	assert.Equal(t, listing.StateLoaded, m.view.State())
	out := m.View()
	assert.Contains(t, out, "The Hobbit")
	assert.Contains(t, out, "J.R.R. Tolkien")
}

func TestBrowser_SortPublishesOnSortableColumn(t *testing.T) {
	f := &stubFetcher{reply: catalogReply}
	m := newTestBrowser(t, f, BrowserOptions{})

	m = press(t, m, "s")
	assert.Equal(t, "/books/?page=1&perpage=20&sort=title", f.Last())
	assert.Contains(t, m.View(), "Title ▲")

	m = press(t, m, "s")
	assert.Equal(t, "/books/?page=1&perpage=20&sort=title&order=desc", f.Last())

	before := len(f.Paths())
	m = press(t, m, "right")
	m = press(t, m, "s")
	assert.Len(t, f.Paths(), before, "authors column is not sortable")
	col, desc := m.view.Sort()
	assert.Equal(t, catalog.ColTitle, col)
	assert.True(t, desc)
}

func TestBrowser_Pagination(t *testing.T) {
	f := &stubFetcher{reply: catalogReply}
	m := newTestBrowser(t, f, BrowserOptions{})

	m = press(t, m, "p")
	assert.Len(t, f.Paths(), 1, "no previous page from page 1")

	m = press(t, m, "n")
	assert.Equal(t, "/books/?page=2&perpage=20", f.Last())
	assert.Equal(t, 2, m.view.Page())

	m = press(t, m, "p")
	assert.Equal(t, "/books/?page=1&perpage=20", f.Last())
}

func TestBrowser_TabsSwitchEntity(t *testing.T) {
	f := &stubFetcher{reply: catalogReply}
	m := newTestBrowser(t, f, BrowserOptions{})

	m = press(t, m, "tab")
	assert.Equal(t, TabAuthors, m.tab)
	assert.Equal(t, "/authors/?page=0&perpage=20", f.Last())
	assert.Equal(t, catalog.ColAuthorName, m.header.Columns()[0].ID)

	m = press(t, m, "n")
	assert.Equal(t, "/authors/?page=0&perpage=20", f.Last(), "authors has no more pages")

	m = press(t, m, "tab")
	assert.Equal(t, TabSeries, m.tab)
	assert.Contains(t, m.View(), "No series found.")

	m = press(t, m, "shift+tab")
	assert.Equal(t, TabAuthors, m.tab)
}

func TestBrowser_Search(t *testing.T) {
	f := &stubFetcher{reply: catalogReply}
	m := newTestBrowser(t, f, BrowserOptions{})

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	m = next.(BrowserModel)
	require.True(t, m.editing)
	assert.Equal(t, TabSearch, m.tab)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("tolkien  hobbit")})
	m = next.(BrowserModel)
	m = press(t, m, "enter")

	assert.False(t, m.editing)
	var searches []string
	for _, p := range f.Paths() {
		if strings.Contains(p, "term=") {
			searches = append(searches, p)
		}
	}
	assert.ElementsMatch(t, []string{
		"/authors/?page=1&perpage=10&term=tolkien&term=hobbit",
		"/books/?page=1&perpage=10&term=tolkien&term=hobbit",
		"/series/?page=1&perpage=10&term=tolkien&term=hobbit",
	}, searches)

	out := m.View()
	assert.Contains(t, out, "1 author")
	assert.Contains(t, out, "1 book")
	assert.Contains(t, out, "0 series")
}

func TestBrowser_SearchScope(t *testing.T) {
	f := &stubFetcher{reply: catalogReply}
	m := newTestBrowser(t, f, BrowserOptions{})
	m = press(t, m, "shift+tab")
	require.Equal(t, TabSearch, m.tab)

	m = press(t, m, "o")
	m = press(t, m, "o")
	assert.Equal(t, search.ScopeBooks, m.scope)
}

func TestBrowser_LinkStartsSearch(t *testing.T) {
	f := &stubFetcher{reply: catalogReply}
	m := newTestBrowser(t, f, BrowserOptions{Initial: catalog.Series, Link: "?q=tolkien+hobbit"})

	assert.Equal(t, TabSearch, m.tab)
	assert.Equal(t, "tolkien hobbit", m.input.Value())
	assert.Equal(t, catalog.Series, m.view.Entity())
	assert.Len(t, f.Paths(), 4)
}

func TestBrowser_ErrorInStatusLine(t *testing.T) {
	f := &stubFetcher{reply: func(string) (string, error) { return "", errors.New("connection refused") }}
	m := newTestBrowser(t, f, BrowserOptions{ListingOptions: listing.Options{Logger: quietLogger()}})

	assert.Contains(t, m.View(), "connection refused")
	assert.Equal(t, listing.StateEmpty, m.view.State())
}

func TestBrowser_CanceledRequestIsNotAnError(t *testing.T) {
	const sorted = "/books/?page=1&perpage=20&sort=title"
	f := &stubFetcher{reply: catalogReply, hold: func(path string) bool { return path == sorted }}
	m := newTestBrowser(t, f, BrowserOptions{ListingOptions: listing.Options{DiscardStale: true}})

	first := m.bus.Publish(events.SortOn{Column: catalog.ColTitle})
	second := m.bus.Publish(events.SortOn{Column: catalog.ColTitle})
	m = drive(t, m, second)

	// The second request canceled the first, which now settles.
	msg := first()
	require.IsType(t, listing.FailedMsg{}, msg)
	assert.ErrorIs(t, msg.(listing.FailedMsg).Err, context.Canceled)
	next, cmd := m.Update(msg)
	m = drive(t, next, cmd)

	assert.Empty(t, m.lastErr)
	assert.Equal(t, listing.StateLoaded, m.view.State())
	assert.NotContains(t, m.View(), "context canceled")
}

func TestBrowser_SupersededResponseKeepsError(t *testing.T) {
	f := &stubFetcher{reply: func(path string) (string, error) {
		if strings.Contains(path, "order=desc") {
			return "", errors.New("server unreachable")
		}
		return catalogReply(path)
	}}
	m := newTestBrowser(t, f, BrowserOptions{ListingOptions: listing.Options{DiscardStale: true}})

	first := m.bus.Publish(events.SortOn{Column: catalog.ColTitle})
	second := m.bus.Publish(events.SortOn{Column: catalog.ColTitle})
	m = drive(t, m, second)
	require.Equal(t, "server unreachable", m.lastErr)

	next, cmd := m.Update(first())
	m = drive(t, next, cmd)
	assert.Equal(t, "server unreachable", m.lastErr)
}

func TestBrowser_SupersededSearchFailureIgnored(t *testing.T) {
	f := &stubFetcher{reply: catalogReply, hold: func(path string) bool { return strings.Contains(path, "term=old") }}
	m := newTestBrowser(t, f, BrowserOptions{SearchOptions: search.Options{DiscardStale: true}})

	first := m.agg.Submit("old", search.ScopeBooks)
	second := m.agg.Submit("hobbit", search.ScopeBooks)
	m = drive(t, m, second)

	next, cmd := m.Update(first())
	m = drive(t, next, cmd)
	assert.Empty(t, m.lastErr)
	assert.Equal(t, 1, m.agg.Result(catalog.Books).Count)
}

func TestBrowser_Quit(t *testing.T) {
	f := &stubFetcher{reply: catalogReply}
	m := newTestBrowser(t, f, BrowserOptions{})

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, next.View())
}

func TestColumnWidths(t *testing.T) {
	d, _ := catalog.Describe(catalog.Series)
	w := columnWidths(d.Columns, 120)
	assert.Equal(t, []int{60, 30, 30}, w)

	assert.Equal(t, []int{30, 15, 15}, columnWidths(d.Columns, 10))
	assert.Empty(t, columnWidths(nil, 100))
}
