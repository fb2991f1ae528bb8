package search

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// roundTripFunc fakes the Elasticsearch HTTP endpoint.
type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header: http.Header{
			"Content-Type":      []string{"application/json"},
			"X-Elastic-Product": []string{"Elasticsearch"},
		},
		Body: io.NopCloser(strings.NewReader(body)),
	}
}

func newTestClient(t *testing.T, rt roundTripFunc) *Client {
	t.Helper()

	client, err := NewClient(Config{URL: "http://search.test:9200", Transport: rt})
	require.NoError(t, err)

	return client
}

func TestClientPing(t *testing.T) {
	t.Run("reachable", func(t *testing.T) {
		client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, "{}"), nil
		})

		assert.NoError(t, client.Ping(context.Background()))
	})

	t.Run("transport failure maps to unavailable", func(t *testing.T) {
		client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
			return nil, errors.New("connection refused")
		})

		err := client.Ping(context.Background())
		assert.ErrorIs(t, err, ErrUnavailable)
	})
}

func TestClientExists(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   bool
	}{
		{name: "present", status: http.StatusOK, want: true},
		{name: "absent", status: http.StatusNotFound, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
				assert.Equal(t, http.MethodHead, r.Method)
				assert.Equal(t, "/sales_analytics", r.URL.Path)

				return jsonResponse(tt.status, ""), nil
			})

			got, err := client.Exists(context.Background(), "sales_analytics")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClientBulkUpsert(t *testing.T) {
	t.Run("builds action and source lines per document", func(t *testing.T) {
		var captured string

		client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)

			captured = string(body)

			return jsonResponse(http.StatusOK, `{
				"errors": false,
				"items": [
					{"index": {"_id": "2024-06-01", "status": 200}},
					{"index": {"_id": "2024-07-01", "status": 201}}
				]
			}`), nil
		})

		docs := []Document{
			{ID: "2024-06-01", Body: map[string]any{"total_sales": 1200}},
			{ID: "2024-07-01", Body: map[string]any{"total_sales": 1500}},
		}

		success, failed, err := client.BulkUpsert(context.Background(), "sales_analytics", docs)
		require.NoError(t, err)
		assert.Equal(t, 2, success)
		assert.Empty(t, failed)

		lines := strings.Split(strings.TrimSpace(captured), "\n")
		require.Len(t, lines, 4, "one action line and one source line per document")

		var action struct {
			Index struct {
				Index string `json:"_index"`
				ID    string `json:"_id"`
			} `json:"index"`
		}
		require.NoError(t, json.Unmarshal([]byte(lines[0]), &action))
		assert.Equal(t, "sales_analytics", action.Index.Index)
		assert.Equal(t, "2024-06-01", action.Index.ID)
	})

	t.Run("collects per-document failures", func(t *testing.T) {
		client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, `{
				"errors": true,
				"items": [
					{"index": {"_id": "a", "status": 200}},
					{"index": {"_id": "b", "status": 400, "error": {"type": "mapper_parsing_exception", "reason": "failed to parse"}}}
				]
			}`), nil
		})

		success, failed, err := client.BulkUpsert(context.Background(), "idx", []Document{
			{ID: "a", Body: map[string]any{}},
			{ID: "b", Body: map[string]any{}},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, success)
		require.Len(t, failed, 1)
		assert.Equal(t, BulkFailure{ID: "b", Status: 400, Reason: "failed to parse"}, failed[0])
	})

	t.Run("no documents is a no-op", func(t *testing.T) {
		client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
			t.Fatal("no request expected")
			return nil, nil
		})

		success, failed, err := client.BulkUpsert(context.Background(), "idx", nil)
		require.NoError(t, err)
		assert.Zero(t, success)
		assert.Empty(t, failed)
	})
}

func TestClientSearch(t *testing.T) {
	client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{
			"hits": {
				"total": {"value": 2},
				"hits": [
					{"_id": "a", "_source": {"title": "first"}, "sort": [1700000000000]},
					{"_id": "b", "_source": {"title": "second"}}
				]
			},
			"aggregations": {"tags": {"buckets": []}}
		}`), nil
	})

	res, err := client.Search(context.Background(), "news", map[string]any{"query": map[string]any{"match_all": map[string]any{}}})
	require.NoError(t, err)

	assert.Equal(t, int64(2), res.Total)
	require.Len(t, res.Hits, 2)
	assert.Equal(t, "a", res.Hits[0].ID)
	assert.JSONEq(t, `{"title": "first"}`, string(res.Hits[0].Source))
	assert.Equal(t, []any{float64(1700000000000)}, res.Hits[0].Sort)
	assert.Contains(t, res.Aggregations, "tags")
}

func TestClientCount(t *testing.T) {
	client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"count": 1234}`), nil
	})

	count, err := client.Count(context.Background(), "transactions")
	require.NoError(t, err)
	assert.Equal(t, int64(1234), count)
}

func TestClientSearch_Unavailable(t *testing.T) {
	client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		return nil, errors.New("no route to host")
	})

	_, err := client.Search(context.Background(), "news", map[string]any{})
	assert.ErrorIs(t, err, ErrUnavailable)
}
