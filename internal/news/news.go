// Package news computes full-text analytics over the news corpus:
// keyword extraction, tag distribution, publish-date timelines, corpus
// statistics and cursor-paginated recent listings.
package news

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrNoContent reports that nothing in the corpus matched the filter.
// The overview endpoint maps it to 204 instead of an empty body.
var ErrNoContent = errors.New("no matching articles")

// Filter is the shared query input: optional free text plus an
// optional inclusive publish-date range. All empty matches everything.
type Filter struct {
	Query string
	Start *time.Time
	End   *time.Time
}

type Keyword struct {
	Keyword string  `json:"keyword"`
	Count   int64   `json:"count"`
	Percent float64 `json:"percent,omitempty"`
}

type Tag struct {
	Tag   string `json:"tag"`
	Count int64  `json:"count"`
}

type TimelinePoint struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type DateRange struct {
	Earliest string `json:"earliest"`
	Latest   string `json:"latest"`
}

type Statistics struct {
	TotalArticles int64      `json:"total_articles"`
	UniqueAuthors int64      `json:"unique_authors"`
	UniqueTags    int64      `json:"unique_tags"`
	DateRange     *DateRange `json:"date_range"`
}

// Overview composes the dashboard payload in one response.
type Overview struct {
	Statistics       Statistics      `json:"statistics"`
	TopTitleKeywords []Keyword       `json:"top_title_keywords"`
	TagDistribution  []Tag           `json:"tag_distribution"`
	Timeline         []TimelinePoint `json:"timeline"`
	TopKeywords      []Keyword       `json:"top_keywords"`
}

// RecentPage is one page of the recent listing. Items are the raw
// article documents; Next is the cursor for the following page, empty
// when this page was empty.
type RecentPage struct {
	Items []json.RawMessage `json:"items"`
	Next  Cursor            `json:"next_search_after,omitempty"`
}

// Cursor is an opaque search-after marker: the base64 encoding of the
// last hit's sort values. Callers pass it back unmodified; deep offset
// pagination is not supported.
type Cursor string

// ParseCursor validates an incoming cursor string. The empty string is
// a valid cursor meaning "first page".
func ParseCursor(raw string) (Cursor, error) {
	if raw == "" {
		return "", nil
	}

	if _, err := Cursor(raw).values(); err != nil {
		return "", err
	}

	return Cursor(raw), nil
}

func encodeCursor(sort []any) (Cursor, error) {
	b, err := json.Marshal(sort)
	if err != nil {
		return "", fmt.Errorf("encoding cursor: %w", err)
	}

	return Cursor(base64.URLEncoding.EncodeToString(b)), nil
}

func (c Cursor) values() ([]any, error) {
	b, err := base64.URLEncoding.DecodeString(string(c))
	if err != nil {
		return nil, fmt.Errorf("invalid cursor: %w", err)
	}

	var sort []any
	if err := json.Unmarshal(b, &sort); err != nil {
		return nil, fmt.Errorf("invalid cursor: %w", err)
	}

	if len(sort) == 0 {
		return nil, errors.New("invalid cursor: empty sort values")
	}

	return sort, nil
}
