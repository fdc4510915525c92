package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/blackwell-systems/bouquinsctl/internal/catalog"
	"github.com/blackwell-systems/bouquinsctl/internal/events"
	"github.com/blackwell-systems/bouquinsctl/internal/render"
)

// Header is the column header row of a listing. It tracks a focused
// column and turns clicks into SortOn events.
type Header struct {
	bus     events.Publisher
	columns []catalog.Column
	focus   int
}

// NewHeader creates a header publishing on bus.
func NewHeader(bus events.Publisher) *Header {
	return &Header{bus: bus}
}

// SetColumns replaces the column set, keeping the focus in range.
func (h *Header) SetColumns(cols []catalog.Column) {
	h.columns = cols
	if h.focus >= len(cols) {
		h.focus = 0
	}
}

// Columns returns the current column set.
func (h *Header) Columns() []catalog.Column { return h.columns }

// Move shifts the focus by delta, wrapping around.
func (h *Header) Move(delta int) {
	n := len(h.columns)
	if n == 0 {
		return
	}
	h.focus = ((h.focus+delta)%n + n) % n
}

// Focused returns the focused column.
func (h *Header) Focused() (catalog.Column, bool) {
	if h.focus >= len(h.columns) {
		return catalog.Column{}, false
	}
	return h.columns[h.focus], true
}

// Click publishes SortOn for the focused column. Unsortable columns do
// nothing.
func (h *Header) Click() tea.Cmd {
	c, ok := h.Focused()
	if !ok || !c.Sortable() {
		return nil
	}
	return h.bus.Publish(events.SortOn{Column: c.ID})
}

// Titles returns the header labels with the sort marker applied and the
// focused column bracketed.
func (h *Header) Titles(s render.Sort) []string {
	titles := render.Headers(h.columns, s)
	if h.focus < len(titles) {
		titles[h.focus] = "[" + titles[h.focus] + "]"
	}
	return titles
}
