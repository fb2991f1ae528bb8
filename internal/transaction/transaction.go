// Package transaction produces the enriched, paginated transaction
// listing: transaction facts joined with customer and product display
// fields that live in separate tables/indices.
package transaction

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Placeholders for lookups that fail to resolve. A missing customer or
// product never fails the page.
const (
	UnknownCustomer = "Unknown Customer"
	UnknownProduct  = "Unknown"
	NoProducts      = "No products"
)

// Row is one enriched transaction line.
type Row struct {
	ID           uuid.UUID
	Date         time.Time
	CustomerName string
	Gender       *string
	Age          *int
	Products     string
	Total        decimal.Decimal
}

type PageMeta struct {
	CurrentPage int
	PageSize    int
	TotalPages  int
	TotalItems  int
}

type Page struct {
	Items []Row
	Meta  PageMeta
}

// TotalPages is ceil(totalItems/pageSize); zero items means zero pages.
func TotalPages(totalItems, pageSize int) int {
	if totalItems <= 0 {
		return 0
	}

	return (totalItems + pageSize - 1) / pageSize
}

// JoinProducts renders the distinct product names of a transaction,
// sorted, comma-joined.
func JoinProducts(names []string) string {
	if len(names) == 0 {
		return NoProducts
	}

	seen := make(map[string]struct{}, len(names))
	distinct := make([]string, 0, len(names))

	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}

		seen[name] = struct{}{}

		distinct = append(distinct, name)
	}

	sort.Strings(distinct)

	return strings.Join(distinct, ", ")
}

// RowTotal is the sum of item subtotals when line items exist, falling
// back to the transaction's stored total otherwise.
func RowTotal(subtotals []decimal.Decimal, stored decimal.Decimal) decimal.Decimal {
	if len(subtotals) == 0 {
		return stored
	}

	total := decimal.Zero
	for _, s := range subtotals {
		total = total.Add(s)
	}

	if total.IsPositive() {
		return total
	}

	return stored
}

func displayName(first, last *string) string {
	var parts []string

	if first != nil && *first != "" {
		parts = append(parts, *first)
	}

	if last != nil && *last != "" {
		parts = append(parts, *last)
	}

	if len(parts) == 0 {
		return UnknownCustomer
	}

	return strings.Join(parts, " ")
}
