package search

import (
	"strings"

	"github.com/blackwell-systems/bouquinsctl/internal/catalog"
)

// Scope restricts a search to one entity type, or covers all of them.
type Scope string

const (
	ScopeAll     Scope = "all"
	ScopeAuthors Scope = "authors"
	ScopeBooks   Scope = "books"
	ScopeSeries  Scope = "series"
)

// Scopes lists the scopes in menu order.
var Scopes = []Scope{ScopeAll, ScopeAuthors, ScopeBooks, ScopeSeries}

// ParseScope maps s to a Scope. Unrecognised values search everything.
func ParseScope(s string) Scope {
	switch sc := Scope(strings.ToLower(strings.TrimSpace(s))); sc {
	case ScopeAuthors, ScopeBooks, ScopeSeries:
		return sc
	}
	return ScopeAll
}

// Entities returns the entity types covered by the scope, authors first.
func (s Scope) Entities() []catalog.EntityType {
	switch s {
	case ScopeAuthors:
		return []catalog.EntityType{catalog.Authors}
	case ScopeBooks:
		return []catalog.EntityType{catalog.Books}
	case ScopeSeries:
		return []catalog.EntityType{catalog.Series}
	}
	return []catalog.EntityType{catalog.Authors, catalog.Books, catalog.Series}
}

// Terms splits a query on runs of whitespace.
func Terms(q string) []string {
	return strings.Fields(q)
}
