// Package events carries user intents from header and paginator components
// to the listing they control.
package events

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/blackwell-systems/bouquinsctl/internal/catalog"
)

// Event is a user intent. The concrete types are SortOn and UpdatePage.
type Event interface {
	event()
}

// SortOn is published when a column header is clicked.
type SortOn struct {
	Column catalog.ColumnID
}

// UpdatePage is published by the paginator: -1 for previous, +1 for next.
type UpdatePage struct {
	Delta int
}

func (SortOn) event()     {}
func (UpdatePage) event() {}

// Handler reacts to an event and may return a command for the event loop.
type Handler func(Event) tea.Cmd

// Publisher is the capability handed to components that only emit events.
type Publisher interface {
	Publish(Event) tea.Cmd
}

type subscription struct {
	id uint64
	h  Handler
}

// Bus is a typed publish/subscribe channel owned by a page controller.
// Handlers run synchronously, in subscription order, on the publishing
// goroutine.
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   []subscription
}

// NewBus creates an empty Bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers h and returns a function that removes it.
func (b *Bus) Subscribe(h Handler) (unsubscribe func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, h: h})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			for i, s := range b.subs {
				if s.id == id {
					b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Publish delivers e to every handler and batches the commands they return.
// It returns nil when no handler produced a command.
func (b *Bus) Publish(e Event) tea.Cmd {
	b.mu.RLock()
	subs := append([]subscription(nil), b.subs...)
	b.mu.RUnlock()

	var cmds []tea.Cmd
	for _, s := range subs {
		if cmd := s.h(e); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	switch len(cmds) {
	case 0:
		return nil
	case 1:
		return cmds[0]
	}
	return tea.Batch(cmds...)
}
