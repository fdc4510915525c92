// Package search fans a free-text query out to the authors, books and
// series endpoints and keeps one result set per entity type.
package search

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/blackwell-systems/bouquinsctl/internal/catalog"
	"github.com/blackwell-systems/bouquinsctl/internal/query"
	"github.com/blackwell-systems/bouquinsctl/internal/transport"
)

// DefaultPerPage is the number of hits requested per entity type.
const DefaultPerPage = 10

// Fetcher issues one GET and reports through exactly one callback.
type Fetcher interface {
	Fetch(ctx context.Context, path string, onSuccess func(json.RawMessage), onError func(error))
}

// Result is the outcome of one sub-search.
type Result struct {
	Count   int              `json:"count" yaml:"count"`
	Records []catalog.Record `json:"results" yaml:"results"`
}

// Options configures an Aggregator.
type Options struct {
	PerPage      int
	DiscardStale bool
	Logger       logrus.FieldLogger
}

// ResultMsg delivers a decoded sub-search response.
type ResultMsg struct {
	agg        *Aggregator
	Entity     catalog.EntityType
	Generation uint64
	Path       string
	Page       *catalog.Page
}

// FailedMsg delivers a failed sub-search.
type FailedMsg struct {
	agg        *Aggregator
	Entity     catalog.EntityType
	Generation uint64
	Path       string
	Err        error
}

type slot struct {
	result     Result
	generation uint64
	inflight   int
	cancel     context.CancelFunc
}

// Aggregator owns the search state. Like listing.View it is driven from a
// single event loop.
type Aggregator struct {
	client Fetcher
	opts   Options
	log    logrus.FieldLogger

	query string
	terms []string
	scope Scope
	slots map[catalog.EntityType]*slot
}

// New creates an Aggregator with empty results.
func New(client Fetcher, opts Options) *Aggregator {
	if opts.PerPage <= 0 {
		opts.PerPage = DefaultPerPage
	}
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	a := &Aggregator{
		client: client,
		opts:   opts,
		log:    log.WithField("component", "search"),
		scope:  ScopeAll,
		slots:  make(map[catalog.EntityType]*slot, len(catalog.EntityTypes)),
	}
	for _, t := range catalog.EntityTypes {
		a.slots[t] = &slot{}
	}
	return a
}

// Submit searches q within scope. A blank query does nothing and returns
// nil. Otherwise every result set is cleared and one request per entity in
// scope is dispatched.
func (a *Aggregator) Submit(q string, scope Scope) tea.Cmd {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil
	}
	a.query = q
	a.terms = Terms(q)
	a.scope = scope
	for _, s := range a.slots {
		s.result = Result{}
	}

	var cmds []tea.Cmd
	for _, t := range scope.Entities() {
		cmds = append(cmds, a.fetch(t))
	}
	if len(cmds) == 1 {
		return cmds[0]
	}
	return tea.Batch(cmds...)
}

// InitFromURL runs an all-scope search for the q parameter of rawQuery,
// if there is one. rawQuery may start with "?".
func (a *Aggregator) InitFromURL(rawQuery string) tea.Cmd {
	values, err := url.ParseQuery(strings.TrimPrefix(rawQuery, "?"))
	if err != nil {
		a.log.WithError(err).Warn("ignoring malformed search link")
	}
	q := values.Get("q")
	if q == "" {
		return nil
	}
	return a.Submit(q, ScopeAll)
}

// Update applies ResultMsg and FailedMsg issued by this aggregator.
func (a *Aggregator) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case ResultMsg:
		if msg.agg != a {
			return nil
		}
		s := a.settle(msg.Entity)
		if a.stale(s, msg.Generation) {
			a.log.WithField("path", msg.Path).Debug("discarding superseded search response")
			return nil
		}
		s.result = Result{Count: msg.Page.Count, Records: msg.Page.Results}

	case FailedMsg:
		if msg.agg != a {
			return nil
		}
		s := a.settle(msg.Entity)
		if a.stale(s, msg.Generation) {
			return nil
		}
		a.log.WithError(msg.Err).WithFields(logrus.Fields{
			"entity": msg.Entity,
			"path":   msg.Path,
		}).Error("search request failed")
	}
	return nil
}

// Stale reports whether msg answers a superseded sub-search of this
// aggregator. Update drops such messages without touching the results.
func (a *Aggregator) Stale(msg tea.Msg) bool {
	switch msg := msg.(type) {
	case ResultMsg:
		return msg.agg == a && a.staleFor(msg.Entity, msg.Generation)
	case FailedMsg:
		return msg.agg == a && a.staleFor(msg.Entity, msg.Generation)
	}
	return false
}

// Query returns the last submitted query, trimmed.
func (a *Aggregator) Query() string { return a.query }

// Terms returns the tokens of the last submitted query.
func (a *Aggregator) Terms() []string { return append([]string(nil), a.terms...) }

// Scope returns the scope of the last submitted query.
func (a *Aggregator) Scope() Scope { return a.scope }

// Result returns the current result set for t.
func (a *Aggregator) Result(t catalog.EntityType) Result {
	s, ok := a.slots[t]
	if !ok {
		return Result{}
	}
	r := s.result
	r.Records = append([]catalog.Record(nil), r.Records...)
	return r
}

// Loading reports whether any sub-search is in flight.
func (a *Aggregator) Loading() bool {
	for _, s := range a.slots {
		if s.inflight > 0 {
			return true
		}
	}
	return false
}

func (a *Aggregator) settle(t catalog.EntityType) *slot {
	s := a.slots[t]
	if s.inflight > 0 {
		s.inflight--
	}
	return s
}

func (a *Aggregator) stale(s *slot, gen uint64) bool {
	return a.opts.DiscardStale && gen != s.generation
}

func (a *Aggregator) staleFor(t catalog.EntityType, gen uint64) bool {
	s, ok := a.slots[t]
	return ok && a.stale(s, gen)
}

func (a *Aggregator) fetch(t catalog.EntityType) tea.Cmd {
	// Searches always ask for the first page.
	path, err := query.Build(t, query.Params{Page: 1, PerPage: a.opts.PerPage, Terms: a.terms})
	if err != nil {
		a.log.WithError(err).WithField("entity", t).Error("building search query")
	}

	s := a.slots[t]
	s.generation++
	s.inflight++
	gen := s.generation

	ctx := context.Background()
	if a.opts.DiscardStale {
		if s.cancel != nil {
			s.cancel()
		}
		ctx, s.cancel = context.WithCancel(context.Background())
	}

	client := a.client
	return func() tea.Msg {
		var msg tea.Msg
		client.Fetch(ctx, path,
			func(raw json.RawMessage) {
				page, err := catalog.DecodePage(raw, t)
				if err != nil {
					msg = FailedMsg{agg: a, Entity: t, Generation: gen, Path: path, Err: transport.NewParseError(err)}
					return
				}
				msg = ResultMsg{agg: a, Entity: t, Generation: gen, Path: path, Page: page}
			},
			func(err error) {
				msg = FailedMsg{agg: a, Entity: t, Generation: gen, Path: path, Err: err}
			},
		)
		return msg
	}
}
