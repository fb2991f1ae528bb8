package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/adiwidjaja/tokolens/internal/search"
)

//go:generate mockgen -source=service.go -destination=source_mock.go -package=analytics
type Source interface {
	MonthlySales(ctx context.Context) ([]MonthlySalesRow, error)
	CurrentMonthCategoryShares(ctx context.Context) ([]CategoryShareRow, error)
	CustomerSegments(ctx context.Context) ([]CustomerSegmentRow, error)
	AgeGroupSales(ctx context.Context) ([]AgeGroupSalesRow, error)

	PeriodTotals(ctx context.Context, start, end time.Time) (*PeriodTotals, error)
	DailySales(ctx context.Context, start, end time.Time) ([]TrendPoint, error)
	CategorySales(ctx context.Context, start, end time.Time) ([]CategorySalesRow, error)
	TopProducts(ctx context.Context, start, end time.Time, limit int) ([]ProductSalesRow, error)
	AgeSpending(ctx context.Context, start, end time.Time) ([]AgeSpendingRow, error)
	AgeGroupCategorySales(ctx context.Context, start, end time.Time) ([]AgeGroupCategoryRow, error)
}

// Service orchestrates the two analytics request shapes: sync-then-read
// against the index, and live aggregates straight from Postgres.
type Service struct {
	source Source
	index  search.Store
}

func NewService(source Source, index search.Store) *Service {
	return &Service{source: source, index: index}
}

func (s *Service) SyncSales(ctx context.Context) (int, error) {
	return Sync(ctx, s.index, salesTarget(s.source))
}

func (s *Service) SyncCategories(ctx context.Context) (int, error) {
	return Sync(ctx, s.index, categoriesTarget(s.source))
}

func (s *Service) SyncCustomerSegments(ctx context.Context) (int, error) {
	return Sync(ctx, s.index, customersTarget(s.source))
}

func (s *Service) SyncAgeGroups(ctx context.Context) (int, error) {
	return Sync(ctx, s.index, ageGroupsTarget(s.source))
}

// Sales returns the sales index contents, oldest month first,
// optionally syncing beforehand. The read reflects the index as it is:
// if the sync no-opped, the caller gets whatever the last successful
// sync wrote (eventually consistent by contract).
func (s *Service) Sales(ctx context.Context, syncFirst bool) ([]SalesDoc, error) {
	if syncFirst {
		if _, err := s.SyncSales(ctx); err != nil {
			return nil, err
		}
	}

	body := map[string]any{
		"size":  1000,
		"sort":  []any{map[string]any{"month": map[string]string{"order": "asc"}}},
		"query": map[string]any{"match_all": map[string]any{}},
	}

	return readIndex[SalesDoc](ctx, s.index, SalesIndex, body)
}

// Categories returns the current-month category breakdown from the
// index, in insertion order.
func (s *Service) Categories(ctx context.Context, syncFirst bool) ([]CategoryDoc, error) {
	if syncFirst {
		if _, err := s.SyncCategories(ctx); err != nil {
			return nil, err
		}
	}

	return readIndex[CategoryDoc](ctx, s.index, CategoriesIndex, matchAll())
}

// CustomerSegments returns the category x gender segment breakdown.
func (s *Service) CustomerSegments(ctx context.Context, syncFirst bool) ([]SegmentDoc, error) {
	if syncFirst {
		if _, err := s.SyncCustomerSegments(ctx); err != nil {
			return nil, err
		}
	}

	return readIndex[SegmentDoc](ctx, s.index, CustomersIndex, matchAll())
}

// AgeGroups returns buyers and revenue per age band.
func (s *Service) AgeGroups(ctx context.Context, syncFirst bool) ([]AgeGroupDoc, error) {
	if syncFirst {
		if _, err := s.SyncAgeGroups(ctx); err != nil {
			return nil, err
		}
	}

	return readIndex[AgeGroupDoc](ctx, s.index, AgeGroupsIndex, matchAll())
}

func matchAll() map[string]any {
	return map[string]any{
		"size":  1000,
		"query": map[string]any{"match_all": map[string]any{}},
	}
}

// readIndex reads back a whole analytics index. A missing index is an
// empty result, not an error: nothing has been synced yet.
func readIndex[D any](ctx context.Context, store search.Store, index string, body map[string]any) ([]D, error) {
	if err := store.Ping(ctx); err != nil {
		return nil, err
	}

	exists, err := store.Exists(ctx, index)
	if err != nil {
		return nil, fmt.Errorf("checking index %s: %w", index, err)
	}

	if !exists {
		return nil, nil
	}

	res, err := store.Search(ctx, index, body)
	if err != nil {
		return nil, fmt.Errorf("reading index %s: %w", index, err)
	}

	docs := make([]D, 0, len(res.Hits))

	for _, hit := range res.Hits {
		var doc D
		if err := json.Unmarshal(hit.Source, &doc); err != nil {
			return nil, fmt.Errorf("decoding document %s: %w", hit.ID, err)
		}

		docs = append(docs, doc)
	}

	return docs, nil
}

// SummaryMetric compares one measure across the current and previous
// period. Growth is nil when the previous period had no value.
type SummaryMetric struct {
	Title    string
	Current  decimal.Decimal
	Previous decimal.Decimal
	Growth   *float64
}

type PeriodSummary struct {
	Sales   SummaryMetric
	Orders  SummaryMetric
	Revenue SummaryMetric
	AOV     SummaryMetric
}

// Summary computes current-period aggregates straight from Postgres
// together with an automatically derived previous period: same length,
// ending the day before the current one starts. The windows never
// overlap. (The previous-period derivation mirrors observed behavior;
// adjust previousPeriod if the product definition changes.)
func (s *Service) Summary(ctx context.Context, start, end time.Time) (*PeriodSummary, error) {
	prevStart, prevEnd := previousPeriod(start, end)

	current, err := s.source.PeriodTotals(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("current period totals: %w", err)
	}

	previous, err := s.source.PeriodTotals(ctx, prevStart, prevEnd)
	if err != nil {
		return nil, fmt.Errorf("previous period totals: %w", err)
	}

	return &PeriodSummary{
		Sales:   metric("Products Sold", decimal.NewFromInt(current.UnitsSold), decimal.NewFromInt(previous.UnitsSold)),
		Orders:  metric("Orders", decimal.NewFromInt(current.Orders), decimal.NewFromInt(previous.Orders)),
		Revenue: metric("Revenue", current.Revenue.Round(2), previous.Revenue.Round(2)),
		AOV:     metric("Average Order Value", current.AvgOrderValue.Round(2), previous.AvgOrderValue.Round(2)),
	}, nil
}

func metric(title string, current, previous decimal.Decimal) SummaryMetric {
	return SummaryMetric{
		Title:    title,
		Current:  current,
		Previous: previous,
		Growth:   Growth(current, previous),
	}
}

// Trend returns daily sales totals for the period, oldest first.
func (s *Service) Trend(ctx context.Context, start, end time.Time) ([]TrendPoint, error) {
	return s.source.DailySales(ctx, start, end)
}

type ProductAnalytics struct {
	CategorySales []CategorySalesRow
	TopProducts   []ProductSalesRow
}

const topProductsLimit = 5

func (s *Service) Products(ctx context.Context, start, end time.Time) (*ProductAnalytics, error) {
	categories, err := s.source.CategorySales(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("category sales: %w", err)
	}

	top, err := s.source.TopProducts(ctx, start, end, topProductsLimit)
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}

	return &ProductAnalytics{CategorySales: categories, TopProducts: top}, nil
}

type CustomerAnalytics struct {
	AgeSpending []AgeSpendingRow
	AgeGroups   []AgeGroupCategoryRow
}

func (s *Service) Customers(ctx context.Context, start, end time.Time) (*CustomerAnalytics, error) {
	spending, err := s.source.AgeSpending(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("age spending: %w", err)
	}

	groups, err := s.source.AgeGroupCategorySales(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("age group sales: %w", err)
	}

	return &CustomerAnalytics{AgeSpending: spending, AgeGroups: groups}, nil
}
