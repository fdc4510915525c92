// Package headless runs listing and search state machines without a
// terminal UI, for one-shot CLI commands.
package headless

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"
)

// Model is anything that consumes messages and may schedule more work.
type Model interface {
	Update(tea.Msg) tea.Cmd
}

// ModelFunc adapts a function to Model.
type ModelFunc func(tea.Msg) tea.Cmd

func (f ModelFunc) Update(msg tea.Msg) tea.Cmd { return f(msg) }

// Run executes cmd and every command it leads to. Commands run
// concurrently; their messages are applied to m one at a time on the
// calling goroutine. Batches are expanded. Run returns when no command is
// left, or with ctx.Err() as soon as ctx ends.
func Run(ctx context.Context, m Model, cmd tea.Cmd) error {
	if cmd == nil {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	msgs := make(chan tea.Msg)
	pending := 0

	start := func(c tea.Cmd) {
		pending++
		g.Go(func() error {
			msg := c()
			select {
			case msgs <- msg:
			case <-gctx.Done():
			}
			return nil
		})
	}

	start(cmd)
	for pending > 0 {
		select {
		case <-ctx.Done():
			// Commands still running drop their messages once gctx ends.
			return ctx.Err()
		case msg := <-msgs:
			pending--
			for _, next := range expand(m, msg) {
				start(next)
			}
		}
	}
	return g.Wait()
}

// expand applies msg to m and returns the commands to schedule next.
func expand(m Model, msg tea.Msg) []tea.Cmd {
	switch msg := msg.(type) {
	case nil:
		return nil
	case tea.BatchMsg:
		var cmds []tea.Cmd
		for _, c := range msg {
			if c != nil {
				cmds = append(cmds, c)
			}
		}
		return cmds
	case tea.QuitMsg:
		return nil
	}
	if next := m.Update(msg); next != nil {
		return []tea.Cmd{next}
	}
	return nil
}
