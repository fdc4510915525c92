package catalogtest

import (
	"encoding/json"

	"github.com/blackwell-systems/bouquinsctl/internal/catalog"
)

// Listing renders a listing payload as the server would send it.
func Listing(entity catalog.EntityType, more bool, records ...catalog.Record) string {
	return mustJSON(map[string]any{
		"type":    entity,
		"more":    more,
		"results": nonNil(records),
	})
}

// Search renders a search payload.
func Search(count int, records ...catalog.Record) string {
	return mustJSON(map[string]any{
		"count":   count,
		"results": nonNil(records),
	})
}

// Book, Author and SeriesRow build minimal records.
func Book(id int64, title string) catalog.BookRecord {
	return catalog.BookRecord{ID: id, Title: title}
}

func Author(id int64, name string, count int) catalog.AuthorRecord {
	return catalog.AuthorRecord{ID: id, Name: name, Count: count}
}

func SeriesRow(id int64, name string, count int) catalog.SeriesRecord {
	return catalog.SeriesRecord{ID: id, Name: name, Count: count}
}

func nonNil(records []catalog.Record) []catalog.Record {
	if records == nil {
		return []catalog.Record{}
	}
	return records
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}
