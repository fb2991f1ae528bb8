package news

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, h *Handler) *httptest.Server {
	t.Helper()

	router := chi.NewRouter()
	router.Route("/news", h.Routes)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return server
}

func TestFilter_RejectsMalformedDates(t *testing.T) {
	server := newTestServer(t, NewHandler(nil))

	for _, path := range []string{
		"/news/?start_date=not-a-date",
		"/news/?end_date=31-12-2024",
		"/news/recent?start_date=last-tuesday",
	} {
		res, err := http.Get(server.URL + path)
		require.NoError(t, err)
		res.Body.Close()

		assert.Equal(t, http.StatusBadRequest, res.StatusCode, path)
	}
}
