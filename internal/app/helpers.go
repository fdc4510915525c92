package app

import (
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"

	"github.com/blackwell-systems/bouquinsctl/internal/headless"
	"github.com/blackwell-systems/bouquinsctl/internal/listing"
	"github.com/blackwell-systems/bouquinsctl/internal/search"
)

// ok prints a green success line.
func ok(w io.Writer, format string, a ...interface{}) {
	fmt.Fprintln(w, color.GreenString("✓"), fmt.Sprintf(format, a...))
}

// warn prints a yellow warning line.
func warn(format string, a ...interface{}) {
	fmt.Fprintln(os.Stderr, color.YellowString("!"), fmt.Sprintf(format, a...))
}

// header prints a cyan section heading.
func header(w io.Writer, format string, a ...interface{}) {
	fmt.Fprintln(w, color.CyanString(fmt.Sprintf(format, a...)))
}

// failureTracker passes messages through to a state machine and keeps
// the request errors a one-shot command has to report.
type failureTracker struct {
	inner    headless.Model
	listErr  error
	searches []error
}

func (f *failureTracker) Update(msg tea.Msg) tea.Cmd {
	if s, ok := f.inner.(interface{ Stale(tea.Msg) bool }); ok && s.Stale(msg) {
		return f.inner.Update(msg)
	}
	switch m := msg.(type) {
	case listing.FailedMsg:
		f.listErr = m.Err
	case search.FailedMsg:
		f.searches = append(f.searches, fmt.Errorf("%s: %w", m.Entity, m.Err))
	}
	return f.inner.Update(msg)
}

// take returns and clears the listing error.
func (f *failureTracker) take() error {
	err := f.listErr
	f.listErr = nil
	return err
}

func (f *failureTracker) searchErr() error {
	return errors.Join(f.searches...)
}
