package query_test

import (
	"errors"
	"testing"

	"github.com/blackwell-systems/bouquinsctl/internal/catalog"
	"github.com/blackwell-systems/bouquinsctl/internal/query"
)

func TestBuild(t *testing.T) {
	cases := []struct {
		name   string
		entity catalog.EntityType
		params query.Params
		want   string
	}{
		{
			name:   "pagination only",
			entity: catalog.Books,
			params: query.Params{Page: 0, PerPage: 20},
			want:   "/books/?page=0&perpage=20",
		},
		{
			name:   "ascending sort",
			entity: catalog.Authors,
			params: query.Params{Page: 2, PerPage: 20, Sort: "name"},
			want:   "/authors/?page=2&perpage=20&sort=name",
		},
		{
			name:   "descending sort",
			entity: catalog.Series,
			params: query.Params{Page: 1, PerPage: 20, Sort: "name", Desc: true},
			want:   "/series/?page=1&perpage=20&sort=name&order=desc",
		},
		{
			name:   "desc without sort is dropped",
			entity: catalog.Books,
			params: query.Params{Page: 1, PerPage: 20, Desc: true},
			want:   "/books/?page=1&perpage=20",
		},
		{
			name:   "terms in order, blanks dropped",
			entity: catalog.Books,
			params: query.Params{Page: 1, PerPage: 10, Terms: []string{"foo", "", "  ", "bar"}},
			want:   "/books/?page=1&perpage=10&term=foo&term=bar",
		},
		{
			name:   "terms are trimmed and encoded",
			entity: catalog.Authors,
			params: query.Params{Page: 1, PerPage: 10, Terms: []string{" le guin ", "a&b"}},
			want:   "/authors/?page=1&perpage=10&term=le+guin&term=a%26b",
		},
		{
			name:   "sort before terms",
			entity: catalog.Books,
			params: query.Params{Page: 3, PerPage: 5, Sort: "title", Desc: true, Terms: []string{"dune"}},
			want:   "/books/?page=3&perpage=5&sort=title&order=desc&term=dune",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := query.Build(c.entity, c.params)
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			if got != c.want {
				t.Errorf("Build = %q, want %q", got, c.want)
			}
		})
	}
}

func TestBuild_Deterministic(t *testing.T) {
	p := query.Params{Page: 4, PerPage: 20, Sort: "name", Desc: true, Terms: []string{"x", "y"}}
	first, _ := query.Build(catalog.Series, p)
	for i := 0; i < 10; i++ {
		got, _ := query.Build(catalog.Series, p)
		if got != first {
			t.Fatalf("call %d = %q, first = %q", i, got, first)
		}
	}
}

func TestBuild_UnknownEntity(t *testing.T) {
	got, err := query.Build(catalog.EntityType("films"), query.Params{Page: 1, PerPage: 20})
	if !errors.Is(err, query.ErrUnknownEntity) {
		t.Errorf("err = %v, want ErrUnknownEntity", err)
	}
	if got != "?page=1&perpage=20" {
		t.Errorf("degraded path = %q", got)
	}
}

func TestBuild_DoesNotMutateTerms(t *testing.T) {
	terms := []string{" a ", "b"}
	_, _ = query.Build(catalog.Books, query.Params{Terms: terms})
	if terms[0] != " a " {
		t.Errorf("terms mutated: %q", terms)
	}
}
