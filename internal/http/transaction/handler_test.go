package transaction

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/adiwidjaja/tokolens/internal/search"
	"github.com/adiwidjaja/tokolens/internal/transaction"
)

func newTestServer(t *testing.T) (*httptest.Server, *transaction.MockLister, *transaction.MockLister) {
	t.Helper()

	ctrl := gomock.NewController(t)
	relational := transaction.NewMockLister(ctrl)
	index := transaction.NewMockLister(ctrl)

	router := chi.NewRouter()
	router.Route("/transactions", NewHandler(transaction.NewService(relational, index)).Routes)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return server, relational, index
}

func TestList_DefaultsToRelationalStrategy(t *testing.T) {
	server, relational, _ := newTestServer(t)

	relational.EXPECT().
		List(gomock.Any(), 2, 25).
		Return(&transaction.Page{Items: []transaction.Row{}, Meta: transaction.PageMeta{CurrentPage: 2, PageSize: 25}}, nil)

	res, err := http.Get(server.URL + "/transactions/?page=2&page_size=25")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestList_IndexStrategyParam(t *testing.T) {
	server, _, index := newTestServer(t)

	index.EXPECT().
		List(gomock.Any(), 1, transaction.DefaultPageSize).
		Return(&transaction.Page{Items: []transaction.Row{}}, nil)

	res, err := http.Get(server.URL + "/transactions/?strategy=index")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestList_UnknownStrategyIsBadRequest(t *testing.T) {
	server, _, _ := newTestServer(t)

	res, err := http.Get(server.URL + "/transactions/?strategy=graphql")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestList_StoreFailureIsLoggedAs500(t *testing.T) {
	server, relational, _ := newTestServer(t)

	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	relational.EXPECT().
		List(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, fmt.Errorf("querying transactions page: %w", errors.New(`relation "transactions" does not exist`)))

	res, err := http.Get(server.URL + "/transactions/")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	assert.Contains(t, buf.String(), "querying transactions page")
	assert.Contains(t, buf.String(), "does not exist")
}

func TestList_UnavailableSearchStoreIs503(t *testing.T) {
	server, _, index := newTestServer(t)

	index.EXPECT().
		List(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, search.ErrUnavailable)

	res, err := http.Get(server.URL + "/transactions/?strategy=index")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)
}
