package render

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/blackwell-systems/bouquinsctl/internal/catalog"
)

const (
	ascMarker  = " ▲"
	descMarker = " ▼"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Sort describes the sorted column of a table, if any.
type Sort struct {
	Column catalog.ColumnID
	Desc   bool
}

// Headers returns the column titles, marking the sorted one.
func Headers(cols []catalog.Column, s Sort) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Name
		if s.Column != "" && c.ID == s.Column {
			if s.Desc {
				out[i] += descMarker
			} else {
				out[i] += ascMarker
			}
		}
	}
	return out
}

// Table draws records as a bordered table.
func Table(cols []catalog.Column, records []catalog.Record, s Sort) string {
	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = Row(r, cols)
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(Headers(cols, s)...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return t.Render()
}

// WriteTable writes Table output followed by a newline.
func WriteTable(w io.Writer, cols []catalog.Column, records []catalog.Record, s Sort) error {
	_, err := fmt.Fprintln(w, Table(cols, records, s))
	return err
}
