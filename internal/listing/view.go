// Package listing implements the paginated, sortable listing of one entity
// type.
package listing

import (
	"context"
	"encoding/json"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/blackwell-systems/bouquinsctl/internal/catalog"
	"github.com/blackwell-systems/bouquinsctl/internal/events"
	"github.com/blackwell-systems/bouquinsctl/internal/query"
	"github.com/blackwell-systems/bouquinsctl/internal/transport"
)

// DefaultPageSize is used when Options.PageSize is not set.
const DefaultPageSize = 20

// State classifies a View for rendering.
type State int

const (
	StateEmpty State = iota
	StateLoading
	StateLoaded
	StateNoResults
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateNoResults:
		return "no results"
	}
	return "unknown"
}

// Fetcher issues one GET and reports through exactly one callback.
type Fetcher interface {
	Fetch(ctx context.Context, path string, onSuccess func(json.RawMessage), onError func(error))
}

// Options configures a View.
type Options struct {
	PageSize int
	// DiscardStale drops responses to superseded requests and cancels
	// them. When false, responses are applied in arrival order and a slow
	// older response can overwrite a newer one.
	DiscardStale bool
	Logger       logrus.FieldLogger
}

// View holds the listing state of one entity type. All methods must be
// called from the event loop goroutine; fetches run in the commands they
// return and report back through LoadedMsg and FailedMsg.
type View struct {
	client Fetcher
	opts   Options
	log    logrus.FieldLogger

	entity     catalog.EntityType
	columns    []catalog.Column
	page       int
	sortColumn catalog.ColumnID
	desc       bool
	results    []catalog.Record
	more       bool
	loaded     bool

	generation uint64
	inflight   int
	cancel     context.CancelFunc
}

// New creates an empty View. No request is issued until SelectEntityType.
func New(client Fetcher, opts Options) *View {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &View{
		client: client,
		opts:   opts,
		log:    log.WithField("component", "listing"),
	}
}

// Subscribe routes SortOn and UpdatePage events from bus to the view.
func (v *View) Subscribe(bus *events.Bus) (unsubscribe func()) {
	return bus.Subscribe(func(e events.Event) tea.Cmd {
		switch e := e.(type) {
		case events.SortOn:
			return v.SortBy(e.Column)
		case events.UpdatePage:
			return v.UpdatePage(e.Delta)
		}
		return nil
	})
}

// SelectEntityType switches the listing to t, resetting sort, page and
// results, and fetches the first page.
func (v *View) SelectEntityType(t catalog.EntityType) tea.Cmd {
	v.entity = t
	v.sortColumn = ""
	v.desc = false
	v.page = 0
	v.results = nil
	v.more = false
	v.loaded = false
	v.loadColumns(t)
	return v.fetch()
}

// SortBy cycles the sort on col: a new column sorts ascending, a second
// click sorts descending, a third clears the sort. The page is kept.
func (v *View) SortBy(col catalog.ColumnID) tea.Cmd {
	if col == "" {
		return nil
	}
	switch {
	case v.sortColumn != col:
		v.sortColumn = col
		v.desc = false
	case !v.desc:
		v.desc = true
	default:
		v.sortColumn = ""
		v.desc = false
	}
	return v.fetch()
}

// UpdatePage moves delta pages. Going back from the first page or forward
// without more results does nothing and returns nil.
func (v *View) UpdatePage(delta int) tea.Cmd {
	switch {
	case delta == 0:
		return nil
	case delta < 0 && v.page <= 1:
		return nil
	case delta > 0 && !v.more:
		return nil
	}
	v.page += delta
	if v.page < 1 {
		v.page = 1
	}
	return v.fetch()
}

// Update applies LoadedMsg and FailedMsg issued by this view. Other
// messages are ignored.
func (v *View) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case LoadedMsg:
		if msg.view != v {
			return nil
		}
		v.settle()
		if v.stale(msg.Generation) {
			v.log.WithField("path", msg.Path).Debug("discarding superseded listing response")
			return nil
		}
		v.apply(msg.Page)

	case FailedMsg:
		if msg.view != v {
			return nil
		}
		v.settle()
		if v.stale(msg.Generation) {
			v.log.WithField("path", msg.Path).Debug("discarding superseded listing failure")
			return nil
		}
		v.log.WithError(msg.Err).WithField("path", msg.Path).Error("listing request failed")
	}
	return nil
}

// Stale reports whether msg answers a request of this view that has been
// superseded. Update drops such messages without touching the state.
func (v *View) Stale(msg tea.Msg) bool {
	switch msg := msg.(type) {
	case LoadedMsg:
		return msg.view == v && v.stale(msg.Generation)
	case FailedMsg:
		return msg.view == v && v.stale(msg.Generation)
	}
	return false
}

// State classifies the view.
func (v *View) State() State {
	switch {
	case v.inflight > 0:
		return StateLoading
	case !v.loaded:
		return StateEmpty
	case v.page == 0:
		return StateNoResults
	}
	return StateLoaded
}

func (v *View) Entity() catalog.EntityType { return v.entity }
func (v *View) Page() int                  { return v.page }
func (v *View) PageSize() int              { return v.opts.PageSize }
func (v *View) HasMore() bool              { return v.more }

// Sort returns the sorted column ("" when unsorted) and its direction.
func (v *View) Sort() (catalog.ColumnID, bool) { return v.sortColumn, v.desc }

// Columns returns the active column set.
func (v *View) Columns() []catalog.Column { return append([]catalog.Column(nil), v.columns...) }

// Results returns the records of the current page.
func (v *View) Results() []catalog.Record { return append([]catalog.Record(nil), v.results...) }

// Generation returns the number of requests issued so far.
func (v *View) Generation() uint64 { return v.generation }

func (v *View) loadColumns(t catalog.EntityType) {
	d, ok := catalog.Describe(t)
	if !ok {
		v.log.WithField("entity", t).Error("unknown entity type")
		v.columns = nil
		return
	}
	v.columns = d.Columns
}

func (v *View) apply(p *catalog.Page) {
	v.results = p.Results
	v.more = p.More
	v.loaded = true
	// The server may answer with another type than requested.
	if p.Type.Valid() {
		v.loadColumns(p.Type)
	}
	if len(p.Results) == 0 {
		v.page = 0
		v.more = false
		return
	}
	if v.page == 0 {
		v.page = 1
	}
}

func (v *View) params() query.Params {
	p := query.Params{Page: v.page, PerPage: v.opts.PageSize}
	if v.sortColumn == "" {
		return p
	}
	p.Sort = string(v.sortColumn)
	for _, c := range v.columns {
		if c.ID == v.sortColumn && c.SortKey != "" {
			p.Sort = c.SortKey
		}
	}
	p.Desc = v.desc
	return p
}

func (v *View) settle() {
	if v.inflight > 0 {
		v.inflight--
	}
}

func (v *View) stale(gen uint64) bool {
	return v.opts.DiscardStale && gen != v.generation
}

// fetch issues a request for the current intent and returns the command
// that performs it.
func (v *View) fetch() tea.Cmd {
	path, err := query.Build(v.entity, v.params())
	if err != nil {
		v.log.WithError(err).WithField("entity", v.entity).Error("building listing query")
	}

	v.generation++
	v.inflight++
	gen := v.generation
	entity := v.entity

	ctx := context.Background()
	if v.opts.DiscardStale {
		if v.cancel != nil {
			v.cancel()
		}
		ctx, v.cancel = context.WithCancel(context.Background())
	}

	client := v.client
	return func() tea.Msg {
		var msg tea.Msg
		client.Fetch(ctx, path,
			func(raw json.RawMessage) {
				page, err := catalog.DecodePage(raw, entity)
				if err != nil {
					msg = FailedMsg{view: v, Generation: gen, Path: path, Err: transport.NewParseError(err)}
					return
				}
				msg = LoadedMsg{view: v, Generation: gen, Path: path, Page: page}
			},
			func(err error) {
				msg = FailedMsg{view: v, Generation: gen, Path: path, Err: err}
			},
		)
		return msg
	}
}
