package news

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/adiwidjaja/tokolens/internal/search"
)

const Index = "news"

const (
	titleKeywordsField = "title.indonesian_words"
	bodyKeywordsField  = "article_text.indonesian_words"

	// Unfiltered timelines scan this fixed window instead of unbounded
	// corpus history.
	defaultTimelineStart = "2020-01-01T00:00:00Z"
	defaultTimelineEnd   = "2024-12-12T00:00:00Z"
)

// stopWords are English and Indonesian function words excluded from
// keyword extraction.
var stopWords = []string{
	"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for",
	"of", "with", "by", "is", "are", "was", "were", "be", "been", "being",
	"have", "has", "had", "do", "does", "did", "will", "would", "could",
	"should", "may", "might", "must", "shall", "can", "this", "that",
	"these", "those", "i", "you", "he", "she", "it", "we", "they", "me",
	"him", "her", "us", "them", "my", "your", "his", "its", "our",
	"their", "yang", "dari", "dan", "di", "ke", "untuk", "pada", "dengan",
	"adalah", "akan", "telah", "sudah", "juga", "tidak", "ini", "itu",
	"atau", "saja", "bisa", "dapat", "harus", "masih", "lebih", "karena",
}

// htmlNoise are markup fragments that leak into scraped article text.
var htmlNoise = []string{
	"img", "src", "href", "alt", "class", "id", "div", "span", "width",
	"height", "style", "px", "rgb", "rgba", "https", "http", "www",
	"jpg", "jpeg", "png", "gif", "css", "js", "html", "htm",
}

type Service struct {
	store search.Store
	index string
}

func NewService(store search.Store) *Service {
	return &Service{store: store, index: Index}
}

// baseQuery builds the shared boolean query: free text against title
// (boosted), body and tags, plus an inclusive publish-date range.
// Absence of all filters yields match_all.
func baseQuery(f Filter) map[string]any {
	var must []any

	if f.Query != "" {
		must = append(must, map[string]any{
			"query_string": map[string]any{
				"query":            f.Query,
				"fields":           []string{"title^2", "article_text", "tag"},
				"default_operator": "AND",
			},
		})
	}

	if f.Start != nil || f.End != nil {
		dateRange := map[string]any{}
		if f.Start != nil {
			dateRange["gte"] = f.Start.Format(time.RFC3339)
		}

		if f.End != nil {
			dateRange["lte"] = f.End.Format(time.RFC3339)
		}

		must = append(must, map[string]any{"range": map[string]any{"publish_date": dateRange}})
	}

	if len(must) == 0 {
		return map[string]any{"match_all": map[string]any{}}
	}

	return map[string]any{"bool": map[string]any{"must": must}}
}

type termsBucket struct {
	Key         any    `json:"key"`
	KeyAsString string `json:"key_as_string"`
	DocCount    int64  `json:"doc_count"`
}

type termsAgg struct {
	Buckets []termsBucket `json:"buckets"`
}

func (b termsBucket) keyString() string {
	if s, ok := b.Key.(string); ok {
		return s
	}

	return b.KeyAsString
}

func parseAgg[A any](res *search.Result, name string) (A, error) {
	var agg A

	raw, ok := res.Aggregations[name]
	if !ok {
		return agg, fmt.Errorf("aggregation %q missing from response", name)
	}

	if err := json.Unmarshal(raw, &agg); err != nil {
		return agg, fmt.Errorf("decoding aggregation %q: %w", name, err)
	}

	return agg, nil
}

// TitleKeywords returns the most frequent tokenized title terms.
func (s *Service) TitleKeywords(ctx context.Context, f Filter, size int) ([]Keyword, error) {
	if size < 1 {
		size = 10
	}

	body := map[string]any{
		"size":  0,
		"query": baseQuery(f),
		"aggs": map[string]any{
			"title_keywords": map[string]any{
				"terms": map[string]any{
					"field": titleKeywordsField,
					"size":  size,
				},
			},
		},
	}

	res, err := s.store.Search(ctx, s.index, body)
	if err != nil {
		return nil, fmt.Errorf("aggregating title keywords: %w", err)
	}

	agg, err := parseAgg[termsAgg](res, "title_keywords")
	if err != nil {
		return nil, err
	}

	keywords := make([]Keyword, 0, len(agg.Buckets))
	for _, b := range agg.Buckets {
		keywords = append(keywords, Keyword{Keyword: b.keyString(), Count: b.DocCount})
	}

	return keywords, nil
}

// Keywords extracts the dominant body-text terms. The aggregation
// oversamples five-fold before the exclusion list and the minimum
// document frequency thin out the buckets, then the top size terms are
// kept. Percent is each term's share of the returned set, not of the
// corpus.
func (s *Service) Keywords(ctx context.Context, f Filter, size int) ([]Keyword, error) {
	if size < 1 {
		size = 10
	}

	exclude := make([]string, 0, len(stopWords)+len(htmlNoise))
	exclude = append(exclude, stopWords...)
	exclude = append(exclude, htmlNoise...)

	body := map[string]any{
		"size":  0,
		"query": baseQuery(f),
		"aggs": map[string]any{
			"keywords": map[string]any{
				"terms": map[string]any{
					"field":         bodyKeywordsField,
					"size":          size * 5,
					"min_doc_count": 3,
					"exclude":       exclude,
				},
			},
		},
	}

	res, err := s.store.Search(ctx, s.index, body)
	if err != nil {
		return nil, fmt.Errorf("aggregating keywords: %w", err)
	}

	agg, err := parseAgg[termsAgg](res, "keywords")
	if err != nil {
		return nil, err
	}

	buckets := agg.Buckets
	if len(buckets) > size {
		buckets = buckets[:size]
	}

	var total int64
	for _, b := range buckets {
		total += b.DocCount
	}

	if total == 0 {
		total = 1
	}

	keywords := make([]Keyword, 0, len(buckets))
	for _, b := range buckets {
		percent := float64(b.DocCount) / float64(total) * 100

		keywords = append(keywords, Keyword{
			Keyword: b.keyString(),
			Count:   b.DocCount,
			Percent: roundTo(percent, 2),
		})
	}

	return keywords, nil
}

// TagDistribution returns article counts per tag.
func (s *Service) TagDistribution(ctx context.Context, f Filter, size int) ([]Tag, error) {
	if size < 1 {
		size = 20
	}

	body := map[string]any{
		"size":  0,
		"query": baseQuery(f),
		"aggs": map[string]any{
			"tags": map[string]any{
				"terms": map[string]any{
					"field": "tag",
					"size":  size,
				},
			},
		},
	}

	res, err := s.store.Search(ctx, s.index, body)
	if err != nil {
		return nil, fmt.Errorf("aggregating tags: %w", err)
	}

	agg, err := parseAgg[termsAgg](res, "tags")
	if err != nil {
		return nil, err
	}

	tags := make([]Tag, 0, len(agg.Buckets))
	for _, b := range agg.Buckets {
		tags = append(tags, Tag{Tag: b.keyString(), Count: b.DocCount})
	}

	return tags, nil
}

// Timeline buckets matching articles by publish date. The interval is
// weekly, narrowed to daily when the requested range spans fewer than
// two calendar months. A fully unfiltered request falls back to a
// fixed historical window.
func (s *Service) Timeline(ctx context.Context, f Filter) ([]TimelinePoint, error) {
	interval := "week"
	query := baseQuery(f)

	if f.Start == nil && f.End == nil && f.Query == "" {
		query = map[string]any{
			"range": map[string]any{
				"publish_date": map[string]any{
					"gte": defaultTimelineStart,
					"lte": defaultTimelineEnd,
				},
			},
		}
	}

	if f.Start != nil && f.End != nil && monthsBetween(*f.Start, *f.End) < 2 {
		interval = "day"
	}

	body := map[string]any{
		"size":  0,
		"query": query,
		"aggs": map[string]any{
			"timeline": map[string]any{
				"date_histogram": map[string]any{
					"field":             "publish_date",
					"calendar_interval": interval,
					"min_doc_count":     0,
				},
			},
		},
	}

	res, err := s.store.Search(ctx, s.index, body)
	if err != nil {
		return nil, fmt.Errorf("aggregating timeline: %w", err)
	}

	agg, err := parseAgg[termsAgg](res, "timeline")
	if err != nil {
		return nil, err
	}

	points := make([]TimelinePoint, 0, len(agg.Buckets))
	for _, b := range agg.Buckets {
		points = append(points, TimelinePoint{Date: b.KeyAsString, Count: b.DocCount})
	}

	return points, nil
}

type statsAgg struct {
	Count       int64  `json:"count"`
	MinAsString string `json:"min_as_string"`
	MaxAsString string `json:"max_as_string"`
}

type valueAgg struct {
	Value int64 `json:"value"`
}

// Statistics reports corpus-level counts for the filtered set.
func (s *Service) Statistics(ctx context.Context, f Filter) (*Statistics, error) {
	body := map[string]any{
		"size":  0,
		"query": baseQuery(f),
		"aggs": map[string]any{
			"total_articles": map[string]any{"value_count": map[string]any{"field": "title"}},
			"unique_authors": map[string]any{"cardinality": map[string]any{"field": "author.keyword"}},
			"unique_tags":    map[string]any{"cardinality": map[string]any{"field": "tag"}},
			"date_stats":     map[string]any{"stats": map[string]any{"field": "publish_date"}},
		},
	}

	res, err := s.store.Search(ctx, s.index, body)
	if err != nil {
		return nil, fmt.Errorf("aggregating statistics: %w", err)
	}

	total, err := parseAgg[valueAgg](res, "total_articles")
	if err != nil {
		return nil, err
	}

	authors, err := parseAgg[valueAgg](res, "unique_authors")
	if err != nil {
		return nil, err
	}

	tags, err := parseAgg[valueAgg](res, "unique_tags")
	if err != nil {
		return nil, err
	}

	dates, err := parseAgg[statsAgg](res, "date_stats")
	if err != nil {
		return nil, err
	}

	stats := &Statistics{
		TotalArticles: total.Value,
		UniqueAuthors: authors.Value,
		UniqueTags:    tags.Value,
	}

	if dates.Count > 0 {
		stats.DateRange = &DateRange{Earliest: dates.MinAsString, Latest: dates.MaxAsString}
	}

	return stats, nil
}

// Recent lists articles by publish date descending. The cursor is the
// previous page's search-after marker; empty means first page.
func (s *Service) Recent(ctx context.Context, f Filter, size int, cursor Cursor) (*RecentPage, error) {
	if size < 1 {
		size = 10
	}

	body := map[string]any{
		"size":    size,
		"query":   baseQuery(f),
		"sort":    []any{map[string]any{"publish_date": map[string]string{"order": "desc"}}},
		"_source": []string{"title", "author", "publish_date", "url", "main_image", "tag"},
	}

	if cursor != "" {
		after, err := cursor.values()
		if err != nil {
			return nil, err
		}

		body["search_after"] = after
	}

	res, err := s.store.Search(ctx, s.index, body)
	if err != nil {
		return nil, fmt.Errorf("listing recent news: %w", err)
	}

	page := &RecentPage{Items: make([]json.RawMessage, 0, len(res.Hits))}

	for _, hit := range res.Hits {
		page.Items = append(page.Items, hit.Source)
	}

	if len(res.Hits) > 0 {
		next, err := encodeCursor(res.Hits[len(res.Hits)-1].Sort)
		if err != nil {
			return nil, err
		}

		page.Next = next
	}

	return page, nil
}

// Overview composes statistics, keyword extraction, tag distribution
// and the timeline into one dashboard payload. Zero matching articles
// is reported as ErrNoContent.
func (s *Service) Overview(ctx context.Context, f Filter) (*Overview, error) {
	stats, err := s.Statistics(ctx, f)
	if err != nil {
		return nil, err
	}

	if stats.TotalArticles == 0 {
		return nil, ErrNoContent
	}

	titleKeywords, err := s.TitleKeywords(ctx, f, 10)
	if err != nil {
		return nil, err
	}

	tags, err := s.TagDistribution(ctx, f, 50)
	if err != nil {
		return nil, err
	}

	timeline, err := s.Timeline(ctx, f)
	if err != nil {
		return nil, err
	}

	keywords, err := s.Keywords(ctx, f, 15)
	if err != nil {
		return nil, err
	}

	return &Overview{
		Statistics:       *stats,
		TopTitleKeywords: titleKeywords,
		TagDistribution:  tags,
		Timeline:         timeline,
		TopKeywords:      keywords,
	}, nil
}

// monthsBetween counts whole calendar months from start to end,
// matching calendar arithmetic: partial trailing months do not count.
func monthsBetween(start, end time.Time) int {
	months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
	if end.Day() < start.Day() {
		months--
	}

	if months < 0 {
		return 0
	}

	return months
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
