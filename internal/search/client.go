package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	elasticsearch "github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// Config holds connection settings for the index store client.
type Config struct {
	URL        string
	Timeout    time.Duration
	MaxRetries int
	// Transport overrides the HTTP transport, used by tests.
	Transport http.RoundTripper
}

// Client implements Store on top of Elasticsearch. It is stateless
// between calls and safe for concurrent use, so one instance is shared
// for the lifetime of the process.
type Client struct {
	es      *elasticsearch.Client
	timeout time.Duration
}

func NewClient(cfg Config) (*Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	retries := cfg.MaxRetries
	if retries <= 0 {
		retries = 3
	}

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:     []string{cfg.URL},
		MaxRetries:    retries,
		RetryOnStatus: []int{502, 503, 504, 429},
		Transport:     cfg.Transport,
	})
	if err != nil {
		return nil, fmt.Errorf("creating search client: %w", err)
	}

	return &Client{es: es, timeout: timeout}, nil
}

func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	res, err := c.es.Ping(c.es.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("%w: ping returned %s", ErrUnavailable, res.Status())
	}

	return nil
}

func (c *Client) Exists(ctx context.Context, index string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	res, err := c.es.Indices.Exists([]string{index}, c.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("checking index %s: %s", index, res.Status())
	}
}

func (c *Client) Create(ctx context.Context, index, mapping string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	res, err := c.es.Indices.Create(index,
		c.es.Indices.Create.WithBody(strings.NewReader(mapping)),
		c.es.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("creating index %s: %s", index, responseError(res))
	}

	return nil
}

func (c *Client) BulkUpsert(ctx context.Context, index string, docs []Document) (int, []BulkFailure, error) {
	if len(docs) == 0 {
		return 0, nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)

	for _, doc := range docs {
		meta := map[string]map[string]string{"index": {"_index": index, "_id": doc.ID}}
		if err := enc.Encode(meta); err != nil {
			return 0, nil, fmt.Errorf("encoding bulk action: %w", err)
		}

		if err := enc.Encode(doc.Body); err != nil {
			return 0, nil, fmt.Errorf("encoding document %s: %w", doc.ID, err)
		}
	}

	res, err := c.es.Bulk(bytes.NewReader(buf.Bytes()),
		c.es.Bulk.WithIndex(index),
		c.es.Bulk.WithContext(ctx),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, nil, fmt.Errorf("bulk upsert into %s: %s", index, responseError(res))
	}

	var parsed struct {
		Items []map[string]struct {
			ID     string `json:"_id"`
			Status int    `json:"status"`
			Error  *struct {
				Type   string `json:"type"`
				Reason string `json:"reason"`
			} `json:"error"`
		} `json:"items"`
	}

	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return 0, nil, fmt.Errorf("decoding bulk response: %w", err)
	}

	var (
		success  int
		failures []BulkFailure
	)

	for _, item := range parsed.Items {
		for _, detail := range item {
			if detail.Status < 300 {
				success++
				continue
			}

			failure := BulkFailure{ID: detail.ID, Status: detail.Status}
			if detail.Error != nil {
				failure.Reason = detail.Error.Reason
			}

			failures = append(failures, failure)
		}
	}

	return success, failures, nil
}

func (c *Client) Search(ctx context.Context, index string, body any) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding search body: %w", err)
	}

	res, err := c.es.Search(
		c.es.Search.WithIndex(index),
		c.es.Search.WithBody(bytes.NewReader(payload)),
		c.es.Search.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("searching %s: %s", index, responseError(res))
	}

	var envelope struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				ID     string          `json:"_id"`
				Source json.RawMessage `json:"_source"`
				Sort   []any           `json:"sort"`
			} `json:"hits"`
		} `json:"hits"`
		Aggregations map[string]json.RawMessage `json:"aggregations"`
	}

	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}

	result := &Result{
		Total:        envelope.Hits.Total.Value,
		Hits:         make([]Hit, len(envelope.Hits.Hits)),
		Aggregations: envelope.Aggregations,
	}

	for i, hit := range envelope.Hits.Hits {
		result.Hits[i] = Hit{ID: hit.ID, Source: hit.Source, Sort: hit.Sort}
	}

	return result, nil
}

func (c *Client) Count(ctx context.Context, index string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	res, err := c.es.Count(
		c.es.Count.WithIndex(index),
		c.es.Count.WithContext(ctx),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, fmt.Errorf("counting %s: %s", index, responseError(res))
	}

	var parsed struct {
		Count int64 `json:"count"`
	}

	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return 0, fmt.Errorf("decoding count response: %w", err)
	}

	return parsed.Count, nil
}

func responseError(res *esapi.Response) string {
	body, err := io.ReadAll(io.LimitReader(res.Body, 1<<10))
	if err != nil || len(body) == 0 {
		return res.Status()
	}

	return fmt.Sprintf("%s: %s", res.Status(), body)
}
