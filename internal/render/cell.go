// Package render turns catalog records into text: table cells, terminal
// tables, JSON and YAML.
package render

import (
	"strconv"
	"strings"

	"github.com/blackwell-systems/bouquinsctl/internal/catalog"
)

// Cell returns the display value of column col for r.
func Cell(r catalog.Record, col catalog.ColumnID) string {
	switch v := r.(type) {
	case catalog.BookRecord:
		switch col {
		case catalog.ColTitle:
			return v.Title
		case catalog.ColAuthors:
			return authorNames(v.Authors)
		case catalog.ColSeries:
			return seriesLabel(v.Series, v.SeriesIndex)
		}
	case catalog.AuthorRecord:
		switch col {
		case catalog.ColAuthorName:
			return v.Name
		case catalog.ColCount:
			return strconv.Itoa(v.Count)
		}
	case catalog.SeriesRecord:
		switch col {
		case catalog.ColSerieName:
			return v.Name
		case catalog.ColCount:
			return strconv.Itoa(v.Count)
		case catalog.ColAuthors:
			return authorNames(v.Authors)
		}
	}
	return ""
}

// Row returns the cells of r for cols, in order.
func Row(r catalog.Record, cols []catalog.Column) []string {
	row := make([]string, len(cols))
	for i, c := range cols {
		row[i] = Cell(r, c.ID)
	}
	return row
}

func authorNames(authors []catalog.AuthorRef) string {
	names := make([]string, 0, len(authors))
	for _, a := range authors {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}

func seriesLabel(s *catalog.SeriesRef, idx float64) string {
	if s == nil {
		return ""
	}
	if idx == 0 {
		return s.Name
	}
	return s.Name + " [" + strconv.FormatFloat(idx, 'f', -1, 64) + "]"
}
