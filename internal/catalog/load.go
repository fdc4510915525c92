package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema/page.json
var pageSchemaJSON string

var pageSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(pageSchemaJSON))
})

// Page is a decoded listing or search response.
//
// Listings carry Type and More; searches carry Count. Results is never nil.
type Page struct {
	Type    EntityType `json:"type,omitempty" yaml:"type,omitempty"`
	More    bool       `json:"more" yaml:"more"`
	Count   int        `json:"count,omitempty" yaml:"count,omitempty"`
	Results []Record   `json:"results" yaml:"results"`
}

// SchemaError reports a response that is valid JSON but not a result page.
type SchemaError struct {
	Problems []string
}

func (e *SchemaError) Error() string {
	return "invalid result page: " + strings.Join(e.Problems, "; ")
}

// ErrorName names the failure class for transport error reporting.
func (e *SchemaError) ErrorName() string { return "SchemaError" }

type envelope struct {
	Type    EntityType      `json:"type"`
	More    bool            `json:"more"`
	Count   int             `json:"count"`
	Results json.RawMessage `json:"results"`
}

// DecodePage validates data against the result page schema and decodes it.
// Records are decoded according to the declared type; fallback is used when
// the payload declares no known type (search responses omit it).
func DecodePage(data []byte, fallback EntityType) (*Page, error) {
	if err := validate(data); err != nil {
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}

	recType := env.Type
	if !recType.Valid() {
		recType = fallback
	}

	records, err := decodeRecords(recType, env.Results)
	if err != nil {
		return nil, fmt.Errorf("decoding %s results: %w", recType, err)
	}

	return &Page{
		Type:    env.Type,
		More:    env.More,
		Count:   env.Count,
		Results: records,
	}, nil
}

func validate(data []byte) error {
	schema, err := pageSchema()
	if err != nil {
		return fmt.Errorf("loading page schema: %w", err)
	}
	res, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return err
	}
	if res.Valid() {
		return nil
	}
	problems := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		problems = append(problems, e.String())
	}
	return &SchemaError{Problems: problems}
}

func decodeRecords(t EntityType, raw json.RawMessage) ([]Record, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return []Record{}, nil
	}
	switch t {
	case Books:
		return decodeAs[BookRecord](raw)
	case Authors:
		return decodeAs[AuthorRecord](raw)
	case Series:
		return decodeAs[SeriesRecord](raw)
	}
	return nil, fmt.Errorf("unknown entity type %q", t)
}

func decodeAs[T Record](raw json.RawMessage) ([]Record, error) {
	var rows []T
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, err
	}
	out := make([]Record, len(rows))
	for i, r := range rows {
		out[i] = r
	}
	return out, nil
}
