// Package store implements the authoritative listing path: a single
// relational join across transactions, customers, line items and
// products, with offset/limit pagination.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/adiwidjaja/tokolens/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// joinedRow is one flattened row of the page join; a transaction with
// n line items produces n rows (or one row with NULL item columns).
type joinedRow struct {
	id        uuid.UUID
	date      sql.NullTime
	total     decimal.Decimal
	firstName sql.NullString
	lastName  sql.NullString
	gender    sql.NullString
	age       sql.NullInt64
	product   sql.NullString
	subtotal  decimal.NullDecimal
}

func (s *Store) List(ctx context.Context, page, pageSize int) (*transaction.Page, error) {
	var totalItems int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&totalItems); err != nil {
		return nil, fmt.Errorf("counting transactions: %w", err)
	}

	offset := (page - 1) * pageSize

	// Paginate transactions first, then join, so that line items do
	// not inflate the page size. Stable secondary sort on id keeps
	// equal dates deterministic.
	query := `
		WITH page AS (
			SELECT id, transaction_date, customer_id, total_amount
			FROM transactions
			ORDER BY transaction_date DESC, id DESC
			OFFSET $1 LIMIT $2
		)
		SELECT pt.id, pt.transaction_date, pt.total_amount,
		       c.first_name, c.last_name, c.gender, c.age,
		       p.name, ti.subtotal
		FROM page pt
		LEFT JOIN customers c ON c.id = pt.customer_id
		LEFT JOIN transaction_items ti ON ti.transaction_id = pt.id
		LEFT JOIN products p ON p.id = ti.product_id
		ORDER BY pt.transaction_date DESC, pt.id DESC`

	rows, err := s.db.QueryContext(ctx, query, offset, pageSize)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	type group struct {
		row       *joinedRow
		products  []string
		subtotals []decimal.Decimal
	}

	var (
		order  []uuid.UUID
		groups = make(map[uuid.UUID]*group)
	)

	for rows.Next() {
		var r joinedRow
		if err := rows.Scan(
			&r.id, &r.date, &r.total,
			&r.firstName, &r.lastName, &r.gender, &r.age,
			&r.product, &r.subtotal,
		); err != nil {
			return nil, fmt.Errorf("scanning transaction row: %w", err)
		}

		g, ok := groups[r.id]
		if !ok {
			g = &group{row: &r}
			groups[r.id] = g

			order = append(order, r.id)
		}

		if r.product.Valid {
			g.products = append(g.products, r.product.String)
		} else if r.subtotal.Valid {
			g.products = append(g.products, transaction.UnknownProduct)
		}

		if r.subtotal.Valid {
			g.subtotals = append(g.subtotals, r.subtotal.Decimal)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transaction rows: %w", err)
	}

	items := make([]transaction.Row, 0, len(order))

	for _, id := range order {
		g := groups[id]
		items = append(items, buildRow(g.row, g.products, g.subtotals))
	}

	return &transaction.Page{
		Items: items,
		Meta: transaction.PageMeta{
			CurrentPage: page,
			PageSize:    pageSize,
			TotalPages:  transaction.TotalPages(totalItems, pageSize),
			TotalItems:  totalItems,
		},
	}, nil
}

func buildRow(r *joinedRow, products []string, subtotals []decimal.Decimal) transaction.Row {
	row := transaction.Row{
		ID:           r.id,
		CustomerName: transaction.UnknownCustomer,
	}

	if r.date.Valid {
		row.Date = r.date.Time
	}

	if name := customerName(r.firstName, r.lastName); name != "" {
		row.CustomerName = name
	}

	if r.gender.Valid {
		row.Gender = &r.gender.String
	}

	if r.age.Valid {
		age := int(r.age.Int64)
		row.Age = &age
	}

	row.Products = transaction.JoinProducts(products)
	row.Total = transaction.RowTotal(subtotals, r.total)

	return row
}

func customerName(first, last sql.NullString) string {
	name := ""

	if first.Valid {
		name = first.String
	}

	if last.Valid {
		if name != "" {
			name += " "
		}

		name += last.String
	}

	return name
}
