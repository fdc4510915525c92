package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/blackwell-systems/bouquinsctl/internal/events"
)

// Paginator offers previous/next controls and publishes UpdatePage.
type Paginator struct {
	bus events.Publisher
}

// NewPaginator creates a paginator publishing on bus.
func NewPaginator(bus events.Publisher) Paginator {
	return Paginator{bus: bus}
}

// Prev publishes a step back unless page is the first one.
func (p Paginator) Prev(page int) tea.Cmd {
	if page <= 1 {
		return nil
	}
	return p.bus.Publish(events.UpdatePage{Delta: -1})
}

// Next publishes a step forward when more results exist.
func (p Paginator) Next(more bool) tea.Cmd {
	if !more {
		return nil
	}
	return p.bus.Publish(events.UpdatePage{Delta: 1})
}

// View renders the controls that currently apply.
func (p Paginator) View(page int, more bool) string {
	if page == 0 {
		return ""
	}
	prev, next := "   ", "   "
	if page > 1 {
		prev = "‹ p"
	}
	if more {
		next = "n ›"
	}
	return StyleHelp.Render(fmt.Sprintf("%s  page %d  %s", prev, page, next))
}
