package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Sentinels matched by StatusError through errors.Is.
var (
	// ErrNotFound is returned when the server has no such listing.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is returned when the server requires a session.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotAcceptable is returned when the server refuses to answer in JSON.
	ErrNotAcceptable = errors.New("not acceptable")
	// ErrServer is returned for any 5xx response.
	ErrServer = errors.New("server error")
)

// StatusError is a settled request with a status other than 200.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("bouquins API error %d: %s", e.Code, e.Body)
}

func (e *StatusError) Unwrap() error {
	switch {
	case e.Code == http.StatusNotFound:
		return ErrNotFound
	case e.Code == http.StatusUnauthorized, e.Code == http.StatusForbidden:
		return ErrUnauthorized
	case e.Code == http.StatusNotAcceptable:
		return ErrNotAcceptable
	case e.Code >= 500:
		return ErrServer
	}
	return nil
}

// ParseError is a 200 response whose body could not be used.
type ParseError struct {
	Name    string
	Message string
	err     error
}

func (e *ParseError) Error() string {
	return e.Name + ": " + e.Message
}

func (e *ParseError) Unwrap() error { return e.err }

// NewParseError classifies err. Errors exposing ErrorName() keep their own
// name; JSON syntax and type errors get theirs.
func NewParseError(err error) *ParseError {
	var (
		pe     *ParseError
		syntax *json.SyntaxError
		typ    *json.UnmarshalTypeError
		named  interface{ ErrorName() string }
	)
	name := "ParseError"
	switch {
	case errors.As(err, &pe):
		return pe
	case errors.As(err, &syntax):
		name = "SyntaxError"
	case errors.As(err, &typ):
		name = "TypeError"
	case errors.As(err, &named):
		name = named.ErrorName()
	}
	return &ParseError{Name: name, Message: err.Error(), err: err}
}
