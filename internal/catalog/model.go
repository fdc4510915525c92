package catalog

import (
	"fmt"
	"strings"
)

// EntityType is one of the three catalog record kinds. The value doubles as
// the URL path segment and as the "type" field the server echoes back.
type EntityType string

const (
	Books   EntityType = "books"
	Authors EntityType = "authors"
	Series  EntityType = "series"
)

// EntityTypes lists the known kinds in listing tab order.
var EntityTypes = []EntityType{Books, Authors, Series}

// ColumnID identifies a table column across all entity types.
type ColumnID string

const (
	ColTitle      ColumnID = "title"
	ColAuthors    ColumnID = "authors"
	ColSeries     ColumnID = "series"
	ColAuthorName ColumnID = "author_name"
	ColSerieName  ColumnID = "serie_name"
	ColCount      ColumnID = "count"
)

// Column describes one column of a listing table.
type Column struct {
	ID      ColumnID `json:"id" yaml:"id"`
	Name    string   `json:"name" yaml:"name"`
	SortKey string   `json:"sort,omitempty" yaml:"sort,omitempty"` // empty = not sortable
}

// Sortable reports whether the server accepts this column as a sort key.
func (c Column) Sortable() bool { return c.SortKey != "" }

// Descriptor holds the static presentation data of an entity type.
type Descriptor struct {
	Icon     string
	Singular string
	Plural   string
	Columns  []Column
}

var descriptors = map[EntityType]Descriptor{
	Books: {
		Icon: "book", Singular: "book", Plural: "books",
		Columns: []Column{
			{ID: ColTitle, Name: "Title", SortKey: "title"},
			{ID: ColAuthors, Name: "Author(s)"},
			{ID: ColSeries, Name: "Series"},
		},
	},
	Authors: {
		Icon: "user", Singular: "author", Plural: "authors",
		Columns: []Column{
			{ID: ColAuthorName, Name: "Name", SortKey: "name"},
			{ID: ColCount, Name: "Book(s)"},
		},
	},
	Series: {
		Icon: "list", Singular: "series", Plural: "series",
		Columns: []Column{
			{ID: ColSerieName, Name: "Name", SortKey: "name"},
			{ID: ColCount, Name: "Book(s)"},
			{ID: ColAuthors, Name: "Author(s)"},
		},
	},
}

// Describe returns the descriptor for t. The column slice is a copy.
func Describe(t EntityType) (Descriptor, bool) {
	d, ok := descriptors[t]
	if !ok {
		return Descriptor{}, false
	}
	d.Columns = append([]Column(nil), d.Columns...)
	return d, true
}

// Valid reports whether t is a known entity type.
func (t EntityType) Valid() bool {
	_, ok := descriptors[t]
	return ok
}

// Path returns the listing path for t ("/books/"), or "" if t is unknown.
func (t EntityType) Path() string {
	if !t.Valid() {
		return ""
	}
	return "/" + string(t) + "/"
}

// ParseEntityType accepts the plural segment or the singular label,
// case-insensitively.
func ParseEntityType(s string) (EntityType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, t := range EntityTypes {
		d := descriptors[t]
		if s == string(t) || s == d.Singular {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown entity type %q (want books, authors or series)", s)
}

// ColumnByID finds a column of t by its ID or by its sort key.
func ColumnByID(t EntityType, id string) (Column, bool) {
	for _, c := range descriptors[t].Columns {
		if string(c.ID) == id || (c.SortKey != "" && c.SortKey == id) {
			return c, true
		}
	}
	return Column{}, false
}

// Label returns the singular label when count is 1, the plural otherwise.
func Label(t EntityType, count int) string {
	d := descriptors[t]
	if count == 1 {
		return d.Singular
	}
	return d.Plural
}
