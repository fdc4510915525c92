package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"github.com/blackwell-systems/bouquinsctl/internal/catalog"
	"github.com/blackwell-systems/bouquinsctl/internal/listing"
	"github.com/blackwell-systems/bouquinsctl/internal/render"
)

func (m BrowserModel) renderTabs() string {
	parts := make([]string, 0, tabCount)
	for t := TabBooks; t < tabCount; t++ {
		if t == m.tab {
			parts = append(parts, StyleActiveTab.Render(t.String()))
		} else {
			parts = append(parts, StyleTab.Render(t.String()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m BrowserModel) renderListing() string {
	switch m.view.State() {
	case listing.StateEmpty:
		return StyleHelp.Render("Nothing loaded yet.")
	case listing.StateNoResults:
		return StyleHelp.Render("No " + catalog.Label(m.view.Entity(), 0) + " found.")
	}
	return m.table.View()
}

func (m BrowserModel) renderDetailsPane(width int) string {
	row := m.table.Cursor()
	records := m.view.Results()
	if row < 0 || row >= len(records) {
		return ""
	}

	const labelWidth = 10
	maxText := width - 2 - labelWidth
	if maxText < 10 {
		maxText = 10
	}
	field := func(s *strings.Builder, label, value string) {
		if value == "" {
			return
		}
		s.WriteString(StyleHighlight.Render(label + ": "))
		s.WriteString(xansi.Truncate(value, maxText, "…"))
		s.WriteString("\n\n")
	}

	var s strings.Builder
	s.WriteString(StyleHeader.Render("Details"))
	s.WriteString("\n\n")
	switch r := records[row].(type) {
	case catalog.BookRecord:
		field(&s, "Title", r.Title)
		field(&s, "Authors", render.Cell(r, catalog.ColAuthors))
		field(&s, "Series", render.Cell(r, catalog.ColSeries))
	case catalog.AuthorRecord:
		field(&s, "Name", r.Name)
		field(&s, "Books", fmt.Sprintf("%d", r.Count))
	case catalog.SeriesRecord:
		field(&s, "Name", r.Name)
		field(&s, "Books", fmt.Sprintf("%d", r.Count))
		field(&s, "Authors", render.Cell(r, catalog.ColAuthors))
	}

	return lipgloss.NewStyle().Width(width).Padding(0, 1).Render(s.String())
}

func (m BrowserModel) renderSearch() string {
	var s strings.Builder
	s.WriteString(m.input.View())
	s.WriteString("  ")
	s.WriteString(StyleHelp.Render("scope: " + string(m.scope)))
	s.WriteString("\n\n")

	if m.agg.Query() == "" {
		s.WriteString(StyleHelp.Render("Press / and type to search."))
		return s.String()
	}

	width := m.width - 10
	if width < 30 {
		width = 30
	}
	for _, t := range m.agg.Scope().Entities() {
		res := m.agg.Result(t)
		s.WriteString(StyleHeader.Render(fmt.Sprintf("%d %s", res.Count, catalog.Label(t, res.Count))))
		s.WriteString("\n")
		for _, r := range res.Records {
			line := "  " + catalog.Name(r)
			switch v := r.(type) {
			case catalog.BookRecord:
				if a := render.Cell(v, catalog.ColAuthors); a != "" {
					line += StyleHelp.Render(" · " + a)
				}
			case catalog.AuthorRecord:
				line += StyleCount.Render(fmt.Sprintf(" (%d)", v.Count))
			case catalog.SeriesRecord:
				line += StyleCount.Render(fmt.Sprintf(" (%d)", v.Count))
			}
			s.WriteString(xansi.Truncate(line, width, "…"))
			s.WriteString("\n")
		}
		s.WriteString("\n")
	}
	return s.String()
}

func (m BrowserModel) renderStatus() string {
	var parts []string
	if m.view.State() == listing.StateLoading || m.agg.Loading() {
		parts = append(parts, m.spinner.View()+" loading")
	}
	if m.tab != TabSearch {
		if p := m.pager.View(m.view.Page(), m.view.HasMore()); p != "" {
			parts = append(parts, p)
		}
	}
	if m.lastErr != "" {
		parts = append(parts, StyleError.Render(xansi.Truncate(m.lastErr, 80, "…")))
	}
	return strings.Join(parts, "  ")
}

// renderFooter creates a footer with the main keyboard shortcuts.
// The shortcut matching activeCmd is rendered with StyleHighlight.
func (m BrowserModel) renderFooter() string {
	if m.help.ShowAll {
		return m.help.View(m.keys)
	}
	return RenderFooterBar([]ShortcutEntry{
		{Key: "", Label: "tab switch"},
		{Key: "", Label: "←/→ column"},
		{Key: "s", Label: "s sort"},
		{Key: "p", Label: "p prev"},
		{Key: "n", Label: "n next"},
		{Key: "", Label: "/ search"},
		{Key: "o", Label: "o scope"},
		{Key: "", Label: "? help"},
		{Key: "", Label: "q quit"},
	}, m.activeCmd)
}

func (m BrowserModel) View() string {
	if m.quitting {
		return ""
	}

	masterStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorTeal).
		Padding(0, 1)

	innerWidth := m.width - 4
	if innerWidth < 60 {
		innerWidth = 60
	}

	var main string
	if m.tab == TabSearch {
		main = m.renderSearch()
	} else {
		main = m.renderListing()
		if m.showDetails {
			listView := lipgloss.NewStyle().
				BorderRight(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(ColorTeal).
				Render(main)
			main = lipgloss.JoinHorizontal(lipgloss.Top, listView, m.renderDetailsPane(innerWidth*4/10))
		}
	}

	divider := lipgloss.NewStyle().
		Foreground(ColorTeal).
		Render(strings.Repeat("─", innerWidth-2))

	content := lipgloss.JoinVertical(lipgloss.Left,
		m.renderTabs(),
		"",
		main,
		m.renderStatus(),
		divider,
		m.renderFooter(),
	)
	return masterStyle.Render(content)
}
