// Package analytics computes aggregate sales/customer analytics from
// the relational store and keeps a derived copy in the search index.
// The index is a cache: everything in it can be rebuilt by re-running
// a sync against Postgres.
package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

// Index names for the four sync targets.
const (
	SalesIndex      = "sales_analytics"
	CategoriesIndex = "categories_analytics"
	CustomersIndex  = "customers_analytics"
	AgeGroupsIndex  = "customers_age_group_analytics"
)

// MonthlySalesRow is one month of sales aggregated from transactions.
type MonthlySalesRow struct {
	Month        time.Time
	TotalSales   decimal.Decimal
	Transactions int
}

// CategoryShareRow is one category's sales share within a month.
type CategoryShareRow struct {
	Month      time.Time
	Category   string
	Sales      decimal.Decimal
	Percentage decimal.Decimal
}

// CustomerSegmentRow groups distinct buyers by category and gender.
type CustomerSegmentRow struct {
	Category   string
	Gender     string
	Customers  int
	TotalItems int
}

// AgeGroupSalesRow aggregates buyers and revenue per age band.
type AgeGroupSalesRow struct {
	AgeGroup  string
	Customers int
	Sales     decimal.Decimal
}

// PeriodTotals are the scalar aggregates behind the period summary.
type PeriodTotals struct {
	UnitsSold     int64
	Orders        int64
	Revenue       decimal.Decimal
	AvgOrderValue decimal.Decimal
}

// TrendPoint is one day of the sales trend.
type TrendPoint struct {
	Date         time.Time
	TotalSales   decimal.Decimal
	Transactions int
}

// CategorySalesRow aggregates quantity and revenue per category.
type CategorySalesRow struct {
	Category string
	Quantity int64
	Sales    decimal.Decimal
}

// ProductSalesRow aggregates quantity and revenue per product.
type ProductSalesRow struct {
	Product  string
	Quantity int64
	Sales    decimal.Decimal
}

// AgeSpendingRow aggregates spending per exact customer age.
type AgeSpendingRow struct {
	Age          int
	Spending     decimal.Decimal
	Transactions int
}

// AgeGroupCategoryRow aggregates sales per age band and category.
type AgeGroupCategoryRow struct {
	AgeGroup string
	Category string
	Sales    decimal.Decimal
}

// Document bodies stored in the index. Field names match the index
// mappings in targets.go.

type SalesDoc struct {
	Month        string  `json:"month"`
	TotalSales   float64 `json:"total_sales"`
	Transactions int     `json:"transactions_count"`
}

type CategoryDoc struct {
	Category   string  `json:"category"`
	Sales      float64 `json:"sales"`
	Percentage float64 `json:"percentage"`
}

type SegmentDoc struct {
	Category   string `json:"category"`
	Gender     string `json:"gender"`
	Customers  int    `json:"customers"`
	TotalItems int    `json:"total_items"`
}

type AgeGroupDoc struct {
	AgeGroup  string  `json:"ageGroup"`
	Customers int     `json:"customers"`
	Sales     float64 `json:"sales"`
}

// BandUnder18 is outside the analytics cohort but still needs a label
// so that every customer lands in exactly one group.
const BandUnder18 = "under-18"

// AgeBand maps an age to its cohort band. Bands partition [18, inf):
// 18-24, 25-34, 35-44, 45-54, 55+.
func AgeBand(age int) string {
	switch {
	case age < 18:
		return BandUnder18
	case age <= 24:
		return "18-24"
	case age <= 34:
		return "25-34"
	case age <= 44:
		return "35-44"
	case age <= 54:
		return "45-54"
	default:
		return "55+"
	}
}

// Growth returns the percentage change from previous to current,
// rounded to two decimals. It is nil when previous is zero: growth is
// undefined there, never infinite.
func Growth(current, previous decimal.Decimal) *float64 {
	if previous.IsZero() {
		return nil
	}

	g, _ := current.Sub(previous).
		Div(previous).
		Mul(decimal.NewFromInt(100)).
		Round(2).
		Float64()

	return &g
}

// DefaultPeriod is used when a request carries no explicit range:
// today truncated to midnight minus 30 days, up to now.
func DefaultPeriod(now time.Time) (time.Time, time.Time) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return midnight.AddDate(0, 0, -30), now
}

// previousPeriod derives the comparison window: same length in days,
// ending the day before the current window starts.
func previousPeriod(start, end time.Time) (time.Time, time.Time) {
	length := int(end.Sub(start).Hours()/24) + 1
	return start.AddDate(0, 0, -length), start.AddDate(0, 0, -1)
}

// Deterministic document identities. Re-syncing the same grouping key
// must overwrite, never append, so IDs derive purely from the key.

func SalesDocID(month time.Time) string {
	return month.Format(time.DateOnly)
}

func CategoryDocID(month time.Time, category string) string {
	return month.Format("2006-01") + "-" + category
}

func SegmentDocID(category, gender string) string {
	return category + "-" + gender
}

func AgeGroupDocID(band string) string {
	return band
}
