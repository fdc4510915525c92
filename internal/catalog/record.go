package catalog

// Record is one row of a listing or search result. The concrete type is
// BookRecord, AuthorRecord or SeriesRecord.
type Record interface {
	Entity() EntityType
	RecordID() int64
	record()
}

// AuthorRef is an author reference embedded in book and series rows.
type AuthorRef struct {
	ID   int64  `json:"id,omitempty" yaml:"id,omitempty"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// SeriesRef is the series a book belongs to.
type SeriesRef struct {
	ID   int64  `json:"id,omitempty" yaml:"id,omitempty"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// BookRecord is a book row.
type BookRecord struct {
	ID          int64       `json:"id,omitempty" yaml:"id,omitempty"`
	Title       string      `json:"title,omitempty" yaml:"title,omitempty"`
	Authors     []AuthorRef `json:"authors,omitempty" yaml:"authors,omitempty"`
	Series      *SeriesRef  `json:"series,omitempty" yaml:"series,omitempty"`
	SeriesIndex float64     `json:"series_idx,omitempty" yaml:"series_idx,omitempty"`
}

// AuthorRecord is an author row with the number of books.
type AuthorRecord struct {
	ID    int64  `json:"id,omitempty" yaml:"id,omitempty"`
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	Count int    `json:"count,omitempty" yaml:"count,omitempty"`
}

// SeriesRecord is a series row with its book count and authors.
type SeriesRecord struct {
	ID      int64       `json:"id,omitempty" yaml:"id,omitempty"`
	Name    string      `json:"name,omitempty" yaml:"name,omitempty"`
	Count   int         `json:"count,omitempty" yaml:"count,omitempty"`
	Authors []AuthorRef `json:"authors,omitempty" yaml:"authors,omitempty"`
}

func (BookRecord) Entity() EntityType   { return Books }
func (AuthorRecord) Entity() EntityType { return Authors }
func (SeriesRecord) Entity() EntityType { return Series }

func (r BookRecord) RecordID() int64   { return r.ID }
func (r AuthorRecord) RecordID() int64 { return r.ID }
func (r SeriesRecord) RecordID() int64 { return r.ID }

func (BookRecord) record()   {}
func (AuthorRecord) record() {}
func (SeriesRecord) record() {}

// Name returns the display label of a record: the title for books, the
// name otherwise.
func Name(r Record) string {
	switch v := r.(type) {
	case BookRecord:
		return v.Title
	case AuthorRecord:
		return v.Name
	case SeriesRecord:
		return v.Name
	}
	return ""
}
