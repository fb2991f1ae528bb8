package transaction

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/adiwidjaja/tokolens/internal/search"
)

func hits(sources ...string) []search.Hit {
	out := make([]search.Hit, 0, len(sources))
	for _, s := range sources {
		out = append(out, search.Hit{Source: json.RawMessage(s)})
	}
	return out
}

func TestIndexListerList_StitchesLookups(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := search.NewMockStore(ctrl)
	lister := NewIndexLister(store)

	store.EXPECT().Count(gomock.Any(), TransactionsIndex).Return(int64(12), nil)

	store.EXPECT().Search(gomock.Any(), TransactionsIndex, gomock.Any()).Return(&search.Result{
		Hits: hits(
			`{"id":"7d9d1b54-43ea-4ef6-9ad9-7506c8a21c1e","transaction_date":"2026-07-14T09:30:00Z","customer_id":"c-1","total_amount":40}`,
			`{"id":"9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d","transaction_date":"2026-07-13","customer_id":"c-2","total_amount":99.50}`,
		),
	}, nil)

	store.EXPECT().Search(gomock.Any(), CustomersIndex, gomock.Any()).Return(&search.Result{
		Hits: hits(
			`{"id":"c-1","first_name":"Dewi","last_name":"Lestari","gender":"F","age":31}`,
		),
	}, nil)

	store.EXPECT().Search(gomock.Any(), ItemsIndex, gomock.Any()).Return(&search.Result{
		Hits: hits(
			`{"transaction_id":"7d9d1b54-43ea-4ef6-9ad9-7506c8a21c1e","product_id":"p-1","subtotal":25}`,
			`{"transaction_id":"7d9d1b54-43ea-4ef6-9ad9-7506c8a21c1e","product_id":"p-2","subtotal":17.50}`,
		),
	}, nil)

	store.EXPECT().Search(gomock.Any(), ProductsIndex, gomock.Any()).Return(&search.Result{
		Hits: hits(
			`{"id":"p-1","name":"Sepatu Lari"}`,
		),
	}, nil)

	page, err := lister.List(context.Background(), 1, 10)
	require.NoError(t, err)

	assert.Equal(t, PageMeta{CurrentPage: 1, PageSize: 10, TotalPages: 2, TotalItems: 12}, page.Meta)
	require.Len(t, page.Items, 2)

	first := page.Items[0]
	assert.Equal(t, "Dewi Lestari", first.CustomerName)
	require.NotNil(t, first.Gender)
	assert.Equal(t, "F", *first.Gender)
	require.NotNil(t, first.Age)
	assert.Equal(t, 31, *first.Age)
	assert.Equal(t, "Sepatu Lari, "+UnknownProduct, first.Products)
	assert.True(t, decimal.NewFromFloat(42.5).Equal(first.Total), "got %s", first.Total)

	// Second transaction has no customer hit and no line items.
	second := page.Items[1]
	assert.Equal(t, UnknownCustomer, second.CustomerName)
	assert.Nil(t, second.Gender)
	assert.Nil(t, second.Age)
	assert.Equal(t, NoProducts, second.Products)
	assert.True(t, decimal.NewFromFloat(99.5).Equal(second.Total), "got %s", second.Total)
	assert.Equal(t, 2026, second.Date.Year())
}

func TestIndexListerList_EmptyIndexShortCircuits(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := search.NewMockStore(ctrl)
	lister := NewIndexLister(store)

	store.EXPECT().Count(gomock.Any(), TransactionsIndex).Return(int64(0), nil)

	page, err := lister.List(context.Background(), 3, 10)
	require.NoError(t, err)

	assert.Empty(t, page.Items)
	assert.Equal(t, PageMeta{CurrentPage: 3, PageSize: 10, TotalPages: 0, TotalItems: 0}, page.Meta)
}

func TestIndexListerList_CountUnavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := search.NewMockStore(ctrl)
	lister := NewIndexLister(store)

	store.EXPECT().Count(gomock.Any(), TransactionsIndex).Return(int64(0), search.ErrUnavailable)

	_, err := lister.List(context.Background(), 1, 10)
	assert.ErrorIs(t, err, search.ErrUnavailable)
}

func TestIndexListerList_PageOffset(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := search.NewMockStore(ctrl)
	lister := NewIndexLister(store)

	store.EXPECT().Count(gomock.Any(), TransactionsIndex).Return(int64(50), nil)

	store.EXPECT().
		Search(gomock.Any(), TransactionsIndex, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, body any) (*search.Result, error) {
			q, ok := body.(map[string]any)
			require.True(t, ok)
			assert.Equal(t, 20, q["from"])
			assert.Equal(t, 10, q["size"])
			return &search.Result{}, nil
		})

	page, err := lister.List(context.Background(), 3, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}
