package render_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/bouquinsctl/internal/catalog"
	"github.com/blackwell-systems/bouquinsctl/internal/render"
)

var hobbit = catalog.BookRecord{
	ID:    12,
	Title: "The Hobbit",
	Authors: []catalog.AuthorRef{
		{ID: 3, Name: "J.R.R. Tolkien"},
		{ID: 4, Name: "Christopher Tolkien"},
	},
	Series:      &catalog.SeriesRef{ID: 7, Name: "Middle-earth"},
	SeriesIndex: 1.5,
}

func TestCell(t *testing.T) {
	cases := []struct {
		name string
		rec  catalog.Record
		col  catalog.ColumnID
		want string
	}{
		{"book title", hobbit, catalog.ColTitle, "The Hobbit"},
		{"book authors", hobbit, catalog.ColAuthors, "J.R.R. Tolkien, Christopher Tolkien"},
		{"book series", hobbit, catalog.ColSeries, "Middle-earth [1.5]"},
		{"book no series", catalog.BookRecord{Title: "Dune"}, catalog.ColSeries, ""},
		{"book series no index", catalog.BookRecord{Series: &catalog.SeriesRef{Name: "Dune"}}, catalog.ColSeries, "Dune"},
		{"author name", catalog.AuthorRecord{Name: "Le Guin", Count: 21}, catalog.ColAuthorName, "Le Guin"},
		{"author count", catalog.AuthorRecord{Name: "Le Guin", Count: 21}, catalog.ColCount, "21"},
		{"series name", catalog.SeriesRecord{Name: "Earthsea"}, catalog.ColSerieName, "Earthsea"},
		{"series authors", catalog.SeriesRecord{Authors: []catalog.AuthorRef{{Name: "Le Guin"}}}, catalog.ColAuthors, "Le Guin"},
		{"foreign column", catalog.AuthorRecord{Name: "x"}, catalog.ColTitle, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, render.Cell(tc.rec, tc.col))
		})
	}
}

func TestHeaders_SortMarker(t *testing.T) {
	d, _ := catalog.Describe(catalog.Authors)

	assert.Equal(t, []string{"Name", "Book(s)"}, render.Headers(d.Columns, render.Sort{}))
	assert.Equal(t, []string{"Name ▲", "Book(s)"},
		render.Headers(d.Columns, render.Sort{Column: catalog.ColAuthorName}))
	assert.Equal(t, []string{"Name ▼", "Book(s)"},
		render.Headers(d.Columns, render.Sort{Column: catalog.ColAuthorName, Desc: true}))
}

func TestTable_ContainsCells(t *testing.T) {
	d, _ := catalog.Describe(catalog.Books)
	out := render.Table(d.Columns, []catalog.Record{hobbit}, render.Sort{Column: catalog.ColTitle})

	assert.Contains(t, out, "Title ▲")
	assert.Contains(t, out, "The Hobbit")
	assert.Contains(t, out, "Middle-earth [1.5]")
}

func TestParseFormat(t *testing.T) {
	f, err := render.ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, render.FormatTable, f)

	f, err = render.ParseFormat("yaml")
	require.NoError(t, err)
	assert.Equal(t, render.FormatYAML, f)

	_, err = render.ParseFormat("csv")
	assert.Error(t, err)
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render.WriteYAML(&buf, []catalog.Record{hobbit}))

	out := buf.String()
	assert.Contains(t, out, "title: The Hobbit")
	assert.Contains(t, out, "series_idx: 1.5")
	assert.True(t, strings.HasPrefix(out, "- id: 12"), out)
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render.WriteJSON(&buf, catalog.AuthorRecord{ID: 2, Name: "Le Guin", Count: 21}))
	assert.JSONEq(t, `{"id":2,"name":"Le Guin","count":21}`, buf.String())
}
