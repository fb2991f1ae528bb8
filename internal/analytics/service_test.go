package analytics

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/adiwidjaja/tokolens/internal/search"
)

func TestSummary_DerivesPreviousPeriod(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := NewMockSource(ctrl)
	svc := NewService(source, search.NewMockStore(ctrl))

	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	source.EXPECT().PeriodTotals(gomock.Any(), start, end).Return(&PeriodTotals{
		UnitsSold:     200,
		Orders:        80,
		Revenue:       decimal.NewFromInt(4000),
		AvgOrderValue: decimal.NewFromInt(50),
	}, nil)

	// Same window length, ending the day before the current one starts.
	source.EXPECT().
		PeriodTotals(gomock.Any(), time.Date(2026, 7, 2, 0, 0, 0, 0, time.UTC), time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)).
		Return(&PeriodTotals{
			UnitsSold:     100,
			Orders:        80,
			Revenue:       decimal.NewFromInt(2000),
			AvgOrderValue: decimal.Zero,
		}, nil)

	summary, err := svc.Summary(context.Background(), start, end)
	require.NoError(t, err)

	require.NotNil(t, summary.Sales.Growth)
	assert.Equal(t, 100.0, *summary.Sales.Growth)

	require.NotNil(t, summary.Orders.Growth)
	assert.Equal(t, 0.0, *summary.Orders.Growth)

	// Previous AOV of zero: growth undefined, not infinite.
	assert.Nil(t, summary.AOV.Growth)
}

func TestSales_SyncFirstThenRead(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := NewMockSource(ctrl)
	store := search.NewMockStore(ctrl)
	svc := NewService(source, store)

	source.EXPECT().MonthlySales(gomock.Any()).Return([]MonthlySalesRow{
		{Month: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), TotalSales: decimal.NewFromInt(1500), Transactions: 52},
	}, nil)

	gomock.InOrder(
		// Sync path.
		store.EXPECT().Ping(gomock.Any()).Return(nil),
		store.EXPECT().Exists(gomock.Any(), SalesIndex).Return(true, nil),
		store.EXPECT().
			BulkUpsert(gomock.Any(), SalesIndex, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, docs []search.Document) (int, []search.BulkFailure, error) {
				require.Len(t, docs, 1)
				assert.Equal(t, "2024-07-01", docs[0].ID)
				return 1, nil, nil
			}),
		// Read path.
		store.EXPECT().Ping(gomock.Any()).Return(nil),
		store.EXPECT().Exists(gomock.Any(), SalesIndex).Return(true, nil),
		store.EXPECT().Search(gomock.Any(), SalesIndex, gomock.Any()).Return(&search.Result{
			Hits: []search.Hit{
				{ID: "2024-07-01", Source: json.RawMessage(`{"month":"2024-07-01","total_sales":1500,"transactions_count":52}`)},
			},
		}, nil),
	)

	docs, err := svc.Sales(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, SalesDoc{Month: "2024-07-01", TotalSales: 1500, Transactions: 52}, docs[0])
}

func TestSales_MissingIndexIsEmptyResult(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := search.NewMockStore(ctrl)
	svc := NewService(NewMockSource(ctrl), store)

	store.EXPECT().Ping(gomock.Any()).Return(nil)
	store.EXPECT().Exists(gomock.Any(), SalesIndex).Return(false, nil)

	docs, err := svc.Sales(context.Background(), false)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestSales_UnavailableStore(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := search.NewMockStore(ctrl)
	svc := NewService(NewMockSource(ctrl), store)

	store.EXPECT().Ping(gomock.Any()).Return(search.ErrUnavailable)

	_, err := svc.Sales(context.Background(), false)
	assert.ErrorIs(t, err, search.ErrUnavailable)
}

func TestProducts_ComposesCategorySalesAndTopProducts(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := NewMockSource(ctrl)
	svc := NewService(source, search.NewMockStore(ctrl))

	start, end := DefaultPeriod(time.Now().UTC())

	source.EXPECT().CategorySales(gomock.Any(), start, end).Return([]CategorySalesRow{
		{Category: "Electronics", Quantity: 120, Sales: decimal.NewFromInt(9000)},
	}, nil)
	source.EXPECT().TopProducts(gomock.Any(), start, end, 5).Return([]ProductSalesRow{
		{Product: "Sepatu Lari", Quantity: 40, Sales: decimal.NewFromInt(2000)},
	}, nil)

	data, err := svc.Products(context.Background(), start, end)
	require.NoError(t, err)
	assert.Len(t, data.CategorySales, 1)
	assert.Len(t, data.TopProducts, 1)
}
