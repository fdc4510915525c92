// Package query composes the request paths sent to the catalog server.
package query

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/blackwell-systems/bouquinsctl/internal/catalog"
)

// ErrUnknownEntity is returned alongside a degraded path when the entity
// type has no path segment.
var ErrUnknownEntity = errors.New("unknown entity type")

// Params is the view state that ends up on the wire.
type Params struct {
	Page    int
	PerPage int
	Sort    string // server sort key, empty = unsorted
	Desc    bool   // ignored unless Sort is set
	Terms   []string
}

// Build returns the request path for entity with p applied. Parameters
// are always emitted in the same order: pagination, sort, then search
// terms, one term= per non-blank token.
//
// For an unknown entity the path segment is left empty and
// ErrUnknownEntity is returned with the string; the request is still
// usable and fails server-side.
func Build(entity catalog.EntityType, p Params) (string, error) {
	var err error
	path := entity.Path()
	if path == "" {
		err = ErrUnknownEntity
	}

	var b strings.Builder
	b.WriteString(path)
	b.WriteString("?page=")
	b.WriteString(strconv.Itoa(p.Page))
	b.WriteString("&perpage=")
	b.WriteString(strconv.Itoa(p.PerPage))

	if p.Sort != "" {
		b.WriteString("&sort=")
		b.WriteString(url.QueryEscape(p.Sort))
		if p.Desc {
			b.WriteString("&order=desc")
		}
	}

	for _, t := range p.Terms {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		b.WriteString("&term=")
		b.WriteString(url.QueryEscape(t))
	}

	return b.String(), err
}
