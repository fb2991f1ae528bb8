package analytics

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/adiwidjaja/tokolens/internal/analytics"
	"github.com/adiwidjaja/tokolens/internal/search"
)

func newTestServer(t *testing.T, h *Handler) *httptest.Server {
	t.Helper()

	router := chi.NewRouter()
	router.Route("/analytics", h.Routes)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return server
}

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	return &buf
}

func TestPeriod_RejectsMalformedDates(t *testing.T) {
	server := newTestServer(t, NewHandler(nil))

	for _, path := range []string{
		"/analytics/summary?start_date=not-a-date",
		"/analytics/sales-pgsql?start_date=12/31/2024",
		"/analytics/products?end_date=2024-31-12",
		"/analytics/customers?end_date=yesterday",
	} {
		res, err := http.Get(server.URL + path)
		require.NoError(t, err)
		res.Body.Close()

		assert.Equal(t, http.StatusBadRequest, res.StatusCode, path)
	}
}

func TestSummary_AcceptsDateOnlyBounds(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := analytics.NewMockSource(ctrl)
	svc := analytics.NewService(source, search.NewMockStore(ctrl))

	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	source.EXPECT().PeriodTotals(gomock.Any(), start, end).Return(&analytics.PeriodTotals{}, nil)
	source.EXPECT().
		PeriodTotals(gomock.Any(), time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)).
		Return(&analytics.PeriodTotals{}, nil)

	server := newTestServer(t, NewHandler(svc))

	res, err := http.Get(server.URL + "/analytics/summary?start_date=2024-06-01&end_date=2024-06-30")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestSummary_SourceFailureIsLoggedAs500(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := analytics.NewMockSource(ctrl)
	svc := analytics.NewService(source, search.NewMockStore(ctrl))

	buf := captureLog(t)

	source.EXPECT().
		PeriodTotals(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, fmt.Errorf("querying period totals: %w", errors.New("connection refused")))

	server := newTestServer(t, NewHandler(svc))

	res, err := http.Get(server.URL + "/analytics/summary")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	assert.Contains(t, buf.String(), "querying period totals")
	assert.Contains(t, buf.String(), "connection refused")
}
