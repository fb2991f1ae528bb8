package news

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/adiwidjaja/tokolens/internal/search"
)

func timePtr(t time.Time) *time.Time { return &t }

func aggs(pairs map[string]string) map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(pairs))
	for k, v := range pairs {
		out[k] = json.RawMessage(v)
	}
	return out
}

func TestBaseQuery(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC)

	t.Run("no filters is match all", func(t *testing.T) {
		q := baseQuery(Filter{})
		assert.Contains(t, q, "match_all")
	})

	t.Run("free text weights title", func(t *testing.T) {
		q := baseQuery(Filter{Query: "banjir jakarta"})

		must := q["bool"].(map[string]any)["must"].([]any)
		require.Len(t, must, 1)

		qs := must[0].(map[string]any)["query_string"].(map[string]any)
		assert.Equal(t, "banjir jakarta", qs["query"])
		assert.Equal(t, []string{"title^2", "article_text", "tag"}, qs["fields"])
		assert.Equal(t, "AND", qs["default_operator"])
	})

	t.Run("date range is inclusive", func(t *testing.T) {
		q := baseQuery(Filter{Start: timePtr(start), End: timePtr(end)})

		must := q["bool"].(map[string]any)["must"].([]any)
		require.Len(t, must, 1)

		dr := must[0].(map[string]any)["range"].(map[string]any)["publish_date"].(map[string]any)
		assert.Equal(t, "2024-03-01T00:00:00Z", dr["gte"])
		assert.Equal(t, "2024-04-30T00:00:00Z", dr["lte"])
	})

	t.Run("text and range combine", func(t *testing.T) {
		q := baseQuery(Filter{Query: "pemilu", Start: timePtr(start)})

		must := q["bool"].(map[string]any)["must"].([]any)
		assert.Len(t, must, 2)
	})
}

func TestKeywords_PercentAndTruncation(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := search.NewMockStore(ctrl)
	svc := NewService(store)

	store.EXPECT().
		Search(gomock.Any(), Index, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, body any) (*search.Result, error) {
			terms := body.(map[string]any)["aggs"].(map[string]any)["keywords"].(map[string]any)["terms"].(map[string]any)
			assert.Equal(t, 10, terms["size"], "oversamples five-fold")
			assert.Equal(t, 3, terms["min_doc_count"])
			assert.Contains(t, terms["exclude"], "yang")
			assert.Contains(t, terms["exclude"], "href")

			return &search.Result{
				Aggregations: aggs(map[string]string{
					"keywords": `{"buckets":[
						{"key":"ekonomi","doc_count":60},
						{"key":"politik","doc_count":30},
						{"key":"olahraga","doc_count":10}
					]}`,
				}),
			}, nil
		})

	keywords, err := svc.Keywords(context.Background(), Filter{}, 2)
	require.NoError(t, err)

	// Oversampled buckets are cut to the requested size; percent is the
	// share of the kept set.
	require.Len(t, keywords, 2)
	assert.Equal(t, Keyword{Keyword: "ekonomi", Count: 60, Percent: 66.67}, keywords[0])
	assert.Equal(t, Keyword{Keyword: "politik", Count: 30, Percent: 33.33}, keywords[1])
}

func TestTimeline_IntervalNarrowing(t *testing.T) {
	tests := []struct {
		name         string
		filter       Filter
		wantInterval string
	}{
		{
			name: "long range stays weekly",
			filter: Filter{
				Start: timePtr(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
				End:   timePtr(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)),
			},
			wantInterval: "week",
		},
		{
			name: "under two months narrows to daily",
			filter: Filter{
				Start: timePtr(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
				End:   timePtr(time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)),
			},
			wantInterval: "day",
		},
		{
			name: "exactly two months stays weekly",
			filter: Filter{
				Start: timePtr(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
				End:   timePtr(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)),
			},
			wantInterval: "week",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			store := search.NewMockStore(ctrl)
			svc := NewService(store)

			store.EXPECT().
				Search(gomock.Any(), Index, gomock.Any()).
				DoAndReturn(func(_ context.Context, _ string, body any) (*search.Result, error) {
					hist := body.(map[string]any)["aggs"].(map[string]any)["timeline"].(map[string]any)["date_histogram"].(map[string]any)
					assert.Equal(t, tt.wantInterval, hist["calendar_interval"])

					return &search.Result{
						Aggregations: aggs(map[string]string{"timeline": `{"buckets":[]}`}),
					}, nil
				})

			_, err := svc.Timeline(context.Background(), tt.filter)
			require.NoError(t, err)
		})
	}
}

func TestTimeline_UnfilteredFallsBackToFixedWindow(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := search.NewMockStore(ctrl)
	svc := NewService(store)

	store.EXPECT().
		Search(gomock.Any(), Index, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, body any) (*search.Result, error) {
			query := body.(map[string]any)["query"].(map[string]any)

			dr, ok := query["range"].(map[string]any)
			require.True(t, ok, "unfiltered timeline must not scan unbounded history")

			pd := dr["publish_date"].(map[string]any)
			assert.Equal(t, defaultTimelineStart, pd["gte"])
			assert.Equal(t, defaultTimelineEnd, pd["lte"])

			return &search.Result{
				Aggregations: aggs(map[string]string{
					"timeline": `{"buckets":[{"key_as_string":"2021-05-03T00:00:00.000Z","doc_count":7}]}`,
				}),
			}, nil
		})

	points, err := svc.Timeline(context.Background(), Filter{})
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, TimelinePoint{Date: "2021-05-03T00:00:00.000Z", Count: 7}, points[0])
}

func TestRecent_CursorRoundTrip(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := search.NewMockStore(ctrl)
	svc := NewService(store)

	store.EXPECT().
		Search(gomock.Any(), Index, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, body any) (*search.Result, error) {
			q := body.(map[string]any)
			assert.NotContains(t, q, "search_after")

			return &search.Result{
				Hits: []search.Hit{
					{Source: json.RawMessage(`{"title":"a"}`), Sort: []any{float64(1700000000000)}},
					{Source: json.RawMessage(`{"title":"b"}`), Sort: []any{float64(1690000000000)}},
				},
			}, nil
		})

	first, err := svc.Recent(context.Background(), Filter{}, 2, "")
	require.NoError(t, err)
	require.Len(t, first.Items, 2)
	require.NotEmpty(t, first.Next)

	// The cursor comes back unmodified and resumes after the last sort
	// value of the previous page.
	cursor, err := ParseCursor(string(first.Next))
	require.NoError(t, err)

	store.EXPECT().
		Search(gomock.Any(), Index, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, body any) (*search.Result, error) {
			after := body.(map[string]any)["search_after"].([]any)
			assert.Equal(t, []any{float64(1690000000000)}, after)

			return &search.Result{}, nil
		})

	second, err := svc.Recent(context.Background(), Filter{}, 2, cursor)
	require.NoError(t, err)
	assert.Empty(t, second.Items)
	assert.Empty(t, second.Next)
}

func TestParseCursor_RejectsGarbage(t *testing.T) {
	_, err := ParseCursor("not-base64!!")
	assert.Error(t, err)

	_, err = ParseCursor("aGVsbG8=") // valid base64, not a JSON array
	assert.Error(t, err)
}

func TestStatistics_EmptyCorpusHasNoDateRange(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := search.NewMockStore(ctrl)
	svc := NewService(store)

	store.EXPECT().Search(gomock.Any(), Index, gomock.Any()).Return(&search.Result{
		Aggregations: aggs(map[string]string{
			"total_articles": `{"value":0}`,
			"unique_authors": `{"value":0}`,
			"unique_tags":    `{"value":0}`,
			"date_stats":     `{"count":0}`,
		}),
	}, nil)

	stats, err := svc.Statistics(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.TotalArticles)
	assert.Nil(t, stats.DateRange)
}

func TestOverview_NoContent(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := search.NewMockStore(ctrl)
	svc := NewService(store)

	store.EXPECT().Search(gomock.Any(), Index, gomock.Any()).Return(&search.Result{
		Aggregations: aggs(map[string]string{
			"total_articles": `{"value":0}`,
			"unique_authors": `{"value":0}`,
			"unique_tags":    `{"value":0}`,
			"date_stats":     `{"count":0}`,
		}),
	}, nil)

	_, err := svc.Overview(context.Background(), Filter{Query: "tidak ada"})
	assert.ErrorIs(t, err, ErrNoContent)
}

func TestOverview_PropagatesUnavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := search.NewMockStore(ctrl)
	svc := NewService(store)

	store.EXPECT().Search(gomock.Any(), Index, gomock.Any()).Return(nil, search.ErrUnavailable)

	_, err := svc.Overview(context.Background(), Filter{})
	assert.ErrorIs(t, err, search.ErrUnavailable)
}
