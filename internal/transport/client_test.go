package transport_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/bouquinsctl/internal/catalog"
	"github.com/blackwell-systems/bouquinsctl/internal/catalogtest"
	"github.com/blackwell-systems/bouquinsctl/internal/transport"
)

// outcome captures which callback fired and how often.
type outcome struct {
	successes int
	failures  int
	body      json.RawMessage
	err       error
}

func fetch(t *testing.T, c *transport.Client, ctx context.Context, path string) outcome {
	t.Helper()
	var o outcome
	c.Fetch(ctx, path,
		func(raw json.RawMessage) { o.successes++; o.body = raw },
		func(err error) { o.failures++; o.err = err },
	)
	require.Equal(t, 1, o.successes+o.failures, "exactly one callback must fire")
	return o
}

func TestFetch_Success(t *testing.T) {
	srv := catalogtest.NewServer(t)
	srv.Respond(catalog.Books, http.StatusOK, catalogtest.Listing(catalog.Books, true, catalogtest.Book(1, "Dune")))

	c := transport.New(srv.URL)
	o := fetch(t, c, context.Background(), "/books/?page=0&perpage=20")

	require.Equal(t, 1, o.successes)
	page, err := catalog.DecodePage(o.body, catalog.Books)
	require.NoError(t, err)
	assert.True(t, page.More)
	assert.Len(t, page.Results, 1)
	assert.Equal(t, []string{"/books/?page=0&perpage=20"}, srv.Requests())
}

func TestFetch_NotFound(t *testing.T) {
	srv := catalogtest.NewServer(t)

	o := fetch(t, transport.New(srv.URL), context.Background(), "/books/?page=1&perpage=20")

	var se *transport.StatusError
	require.ErrorAs(t, o.err, &se)
	assert.Equal(t, http.StatusNotFound, se.Code)
	assert.Contains(t, se.Body, "404 page not found")
	assert.ErrorIs(t, o.err, transport.ErrNotFound)
}

func TestFetch_ServerError(t *testing.T) {
	srv := catalogtest.NewServer(t)
	srv.Respond(catalog.Authors, http.StatusInternalServerError, "database is locked")

	o := fetch(t, transport.New(srv.URL), context.Background(), "/authors/?page=1&perpage=20")

	assert.ErrorIs(t, o.err, transport.ErrServer)
	var se *transport.StatusError
	require.ErrorAs(t, o.err, &se)
	assert.Equal(t, "database is locked", se.Body)
}

func TestFetch_InvalidJSONOn200(t *testing.T) {
	srv := catalogtest.NewServer(t)
	srv.Respond(catalog.Series, http.StatusOK, `{"type": "series", "results": [`)

	o := fetch(t, transport.New(srv.URL), context.Background(), "/series/?page=1&perpage=20")

	assert.Zero(t, o.successes)
	var pe *transport.ParseError
	require.ErrorAs(t, o.err, &pe)
	assert.Equal(t, "SyntaxError", pe.Name)
	assert.NotEmpty(t, pe.Message)
}

func TestFetch_EmptyBodyOn200(t *testing.T) {
	srv := catalogtest.NewServer(t)
	srv.Respond(catalog.Books, http.StatusOK, "")

	o := fetch(t, transport.New(srv.URL), context.Background(), "/books/")

	var pe *transport.ParseError
	require.ErrorAs(t, o.err, &pe)
	assert.Equal(t, "SyntaxError", pe.Name)
}

func TestFetch_NetworkError(t *testing.T) {
	srv := catalogtest.NewServer(t)
	url := srv.URL
	srv.Close()

	o := fetch(t, transport.New(url), context.Background(), "/books/")

	require.Error(t, o.err)
	var se *transport.StatusError
	assert.False(t, errors.As(o.err, &se), "network failure is not a status error")
}

func TestFetch_CanceledContext(t *testing.T) {
	srv := catalogtest.NewServer(t)
	srv.Respond(catalog.Books, http.StatusOK, catalogtest.Listing(catalog.Books, false))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	o := fetch(t, transport.New(srv.URL), ctx, "/books/")

	assert.ErrorIs(t, o.err, context.Canceled)
}

func TestFetch_RateLimited(t *testing.T) {
	srv := catalogtest.NewServer(t)
	srv.Respond(catalog.Books, http.StatusOK, catalogtest.Listing(catalog.Books, false))
	c := transport.New(srv.URL, transport.WithRateLimit(0.01, 1))

	first := fetch(t, c, context.Background(), "/books/")
	require.Equal(t, 1, first.successes)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	second := fetch(t, c, ctx, "/books/")
	require.Error(t, second.err)
	assert.Len(t, srv.Requests(), 1, "limited request must not reach the server")
}

func TestNew_TrimsBaseURL(t *testing.T) {
	c := transport.New("http://example.test/")
	assert.Equal(t, "http://example.test", c.BaseURL())
	assert.Equal(t, "http://localhost:9000", transport.New("").BaseURL())
}

func TestNewParseError_Names(t *testing.T) {
	var syntaxErr *json.SyntaxError
	err := json.Unmarshal([]byte("{"), &struct{}{})
	require.ErrorAs(t, err, &syntaxErr)
	assert.Equal(t, "SyntaxError", transport.NewParseError(err).Name)

	err = json.Unmarshal([]byte(`{"n":"x"}`), &struct{ N int }{})
	assert.Equal(t, "TypeError", transport.NewParseError(err).Name)

	_, err = catalog.DecodePage([]byte(`{"more":1}`), catalog.Books)
	assert.Equal(t, "SchemaError", transport.NewParseError(err).Name)

	assert.Equal(t, "ParseError", transport.NewParseError(errors.New("boom")).Name)
}

func TestStatusError_Unwrap(t *testing.T) {
	cases := map[int]error{
		http.StatusNotFound:      transport.ErrNotFound,
		http.StatusUnauthorized:  transport.ErrUnauthorized,
		http.StatusForbidden:     transport.ErrUnauthorized,
		http.StatusNotAcceptable: transport.ErrNotAcceptable,
		http.StatusBadGateway:    transport.ErrServer,
	}
	for code, want := range cases {
		err := error(&transport.StatusError{Code: code})
		assert.ErrorIs(t, err, want, "status %d", code)
	}
	assert.Nil(t, (&transport.StatusError{Code: http.StatusTeapot}).Unwrap())
}
