package transaction

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTotalPages(t *testing.T) {
	tests := []struct {
		name       string
		totalItems int
		pageSize   int
		want       int
	}{
		{name: "empty collection", totalItems: 0, pageSize: 10, want: 0},
		{name: "exact multiple", totalItems: 30, pageSize: 10, want: 3},
		{name: "partial last page", totalItems: 31, pageSize: 10, want: 4},
		{name: "single item", totalItems: 1, pageSize: 10, want: 1},
		{name: "page size one", totalItems: 5, pageSize: 1, want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TotalPages(tt.totalItems, tt.pageSize))
		})
	}
}

func TestJoinProducts(t *testing.T) {
	tests := []struct {
		name  string
		names []string
		want  string
	}{
		{name: "no items", names: nil, want: NoProducts},
		{name: "single product", names: []string{"Kopi"}, want: "Kopi"},
		{name: "sorted output", names: []string{"Teh", "Kopi"}, want: "Kopi, Teh"},
		{name: "duplicates collapsed", names: []string{"Kopi", "Kopi", "Teh"}, want: "Kopi, Teh"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, JoinProducts(tt.names))
		})
	}
}

func TestRowTotal(t *testing.T) {
	dec := func(s string) decimal.Decimal {
		d, err := decimal.NewFromString(s)
		if err != nil {
			t.Fatalf("bad decimal %q: %v", s, err)
		}
		return d
	}

	tests := []struct {
		name      string
		subtotals []decimal.Decimal
		stored    decimal.Decimal
		want      decimal.Decimal
	}{
		{
			name:   "no items falls back to stored",
			stored: dec("125.50"),
			want:   dec("125.50"),
		},
		{
			name:      "positive sum wins over stored",
			subtotals: []decimal.Decimal{dec("10.25"), dec("4.75")},
			stored:    dec("999"),
			want:      dec("15"),
		},
		{
			name:      "zero sum falls back to stored",
			subtotals: []decimal.Decimal{dec("0"), dec("0")},
			stored:    dec("42"),
			want:      dec("42"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RowTotal(tt.subtotals, tt.stored)
			assert.True(t, tt.want.Equal(got), "want %s got %s", tt.want, got)
		})
	}
}
