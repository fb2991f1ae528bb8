// Package store is the relational source adapter for analytics: it
// runs parameterized aggregate queries against Postgres and returns
// typed rows. No caching, no business logic.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/adiwidjaja/tokolens/internal/analytics"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) MonthlySales(ctx context.Context) ([]analytics.MonthlySalesRow, error) {
	query := `
		SELECT DATE_TRUNC('month', t.transaction_date)::date AS month,
		       COALESCE(SUM(t.total_amount), 0) AS total_sales,
		       COUNT(t.id) AS transactions_count
		FROM transactions t
		GROUP BY month
		ORDER BY month`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying monthly sales: %w", err)
	}
	defer rows.Close()

	var result []analytics.MonthlySalesRow

	for rows.Next() {
		var r analytics.MonthlySalesRow
		if err := rows.Scan(&r.Month, &r.TotalSales, &r.Transactions); err != nil {
			return nil, fmt.Errorf("scanning monthly sales: %w", err)
		}

		result = append(result, r)
	}

	return result, rows.Err()
}

func (s *Store) CurrentMonthCategoryShares(ctx context.Context) ([]analytics.CategoryShareRow, error) {
	query := `
		WITH monthly_sales_by_category AS (
			SELECT DATE_TRUNC('month', t.transaction_date)::date AS month,
			       pc.name AS category,
			       SUM(ti.subtotal) AS total_sales
			FROM transaction_items ti
			JOIN products p ON p.id = ti.product_id
			JOIN product_categories pc ON pc.id = p.category_id
			JOIN transactions t ON t.id = ti.transaction_id
			WHERE DATE_TRUNC('month', t.transaction_date) = DATE_TRUNC('month', CURRENT_DATE)
			GROUP BY month, category
		)
		SELECT month, category, total_sales,
		       ROUND((total_sales / SUM(total_sales) OVER (PARTITION BY month)) * 100, 2) AS percentage
		FROM monthly_sales_by_category
		ORDER BY total_sales DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying category shares: %w", err)
	}
	defer rows.Close()

	var result []analytics.CategoryShareRow

	for rows.Next() {
		var r analytics.CategoryShareRow
		if err := rows.Scan(&r.Month, &r.Category, &r.Sales, &r.Percentage); err != nil {
			return nil, fmt.Errorf("scanning category share: %w", err)
		}

		result = append(result, r)
	}

	return result, rows.Err()
}

func (s *Store) CustomerSegments(ctx context.Context) ([]analytics.CustomerSegmentRow, error) {
	query := `
		SELECT pc.name AS category,
		       c.gender,
		       COUNT(DISTINCT c.id) AS customers,
		       COALESCE(SUM(ti.quantity), 0) AS total_items
		FROM customers c
		JOIN transactions t ON t.customer_id = c.id
		JOIN transaction_items ti ON ti.transaction_id = t.id
		JOIN products p ON p.id = ti.product_id
		JOIN product_categories pc ON pc.id = p.category_id
		GROUP BY pc.name, c.gender
		ORDER BY pc.name, c.gender`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying customer segments: %w", err)
	}
	defer rows.Close()

	var result []analytics.CustomerSegmentRow

	for rows.Next() {
		var r analytics.CustomerSegmentRow
		if err := rows.Scan(&r.Category, &r.Gender, &r.Customers, &r.TotalItems); err != nil {
			return nil, fmt.Errorf("scanning customer segment: %w", err)
		}

		result = append(result, r)
	}

	return result, rows.Err()
}

// ageGroupCase must stay in step with analytics.AgeBand.
const ageGroupCase = `CASE
		WHEN c.age < 18 THEN 'under-18'
		WHEN c.age BETWEEN 18 AND 24 THEN '18-24'
		WHEN c.age BETWEEN 25 AND 34 THEN '25-34'
		WHEN c.age BETWEEN 35 AND 44 THEN '35-44'
		WHEN c.age BETWEEN 45 AND 54 THEN '45-54'
		ELSE '55+'
	END`

func (s *Store) AgeGroupSales(ctx context.Context) ([]analytics.AgeGroupSalesRow, error) {
	query := `
		SELECT ` + ageGroupCase + ` AS age_group,
		       COUNT(DISTINCT c.id) AS customers,
		       COALESCE(SUM(t.total_amount), 0) AS sales
		FROM customers c
		JOIN transactions t ON t.customer_id = c.id
		GROUP BY age_group
		ORDER BY age_group`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying age group sales: %w", err)
	}
	defer rows.Close()

	var result []analytics.AgeGroupSalesRow

	for rows.Next() {
		var r analytics.AgeGroupSalesRow
		if err := rows.Scan(&r.AgeGroup, &r.Customers, &r.Sales); err != nil {
			return nil, fmt.Errorf("scanning age group sales: %w", err)
		}

		result = append(result, r)
	}

	return result, rows.Err()
}

func (s *Store) PeriodTotals(ctx context.Context, start, end time.Time) (*analytics.PeriodTotals, error) {
	query := `
		SELECT
			COALESCE((SELECT SUM(ti.quantity)
			          FROM transaction_items ti
			          JOIN transactions t ON t.id = ti.transaction_id
			          WHERE t.transaction_date BETWEEN $1 AND $2), 0) AS units_sold,
			(SELECT COUNT(*) FROM transactions
			 WHERE transaction_date BETWEEN $1 AND $2) AS orders,
			COALESCE((SELECT SUM(total_amount) FROM transactions
			          WHERE transaction_date BETWEEN $1 AND $2), 0) AS revenue,
			COALESCE((SELECT AVG(total_amount) FROM transactions
			          WHERE transaction_date BETWEEN $1 AND $2), 0) AS avg_order_value`

	var totals analytics.PeriodTotals

	err := s.db.QueryRowContext(ctx, query, start, end).Scan(
		&totals.UnitsSold, &totals.Orders, &totals.Revenue, &totals.AvgOrderValue,
	)
	if err != nil {
		return nil, fmt.Errorf("querying period totals: %w", err)
	}

	return &totals, nil
}

func (s *Store) DailySales(ctx context.Context, start, end time.Time) ([]analytics.TrendPoint, error) {
	query := `
		SELECT t.transaction_date,
		       COALESCE(SUM(t.total_amount), 0) AS total_sales,
		       COUNT(t.id) AS transaction_count
		FROM transactions t
		WHERE t.transaction_date >= $1 AND t.transaction_date <= $2
		GROUP BY t.transaction_date
		ORDER BY t.transaction_date ASC`

	rows, err := s.db.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("querying daily sales: %w", err)
	}
	defer rows.Close()

	var result []analytics.TrendPoint

	for rows.Next() {
		var r analytics.TrendPoint
		if err := rows.Scan(&r.Date, &r.TotalSales, &r.Transactions); err != nil {
			return nil, fmt.Errorf("scanning daily sales: %w", err)
		}

		result = append(result, r)
	}

	return result, rows.Err()
}

func (s *Store) CategorySales(ctx context.Context, start, end time.Time) ([]analytics.CategorySalesRow, error) {
	query := `
		SELECT pc.name AS category_name,
		       COALESCE(SUM(ti.quantity), 0) AS total_quantity,
		       COALESCE(SUM(ti.subtotal), 0) AS total_sales
		FROM product_categories pc
		JOIN products p ON pc.id = p.category_id
		JOIN transaction_items ti ON p.id = ti.product_id
		JOIN transactions t ON ti.transaction_id = t.id
		WHERE t.transaction_date >= $1 AND t.transaction_date <= $2
		GROUP BY pc.id, pc.name
		ORDER BY total_sales DESC`

	rows, err := s.db.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("querying category sales: %w", err)
	}
	defer rows.Close()

	var result []analytics.CategorySalesRow

	for rows.Next() {
		var r analytics.CategorySalesRow
		if err := rows.Scan(&r.Category, &r.Quantity, &r.Sales); err != nil {
			return nil, fmt.Errorf("scanning category sales: %w", err)
		}

		result = append(result, r)
	}

	return result, rows.Err()
}

func (s *Store) TopProducts(ctx context.Context, start, end time.Time, limit int) ([]analytics.ProductSalesRow, error) {
	query := `
		SELECT p.name AS product_name,
		       COALESCE(SUM(ti.quantity), 0) AS total_quantity,
		       COALESCE(SUM(ti.subtotal), 0) AS total_sales
		FROM products p
		JOIN transaction_items ti ON p.id = ti.product_id
		JOIN transactions t ON ti.transaction_id = t.id
		WHERE t.transaction_date >= $1 AND t.transaction_date <= $2
		GROUP BY p.name
		ORDER BY total_quantity DESC
		LIMIT $3`

	rows, err := s.db.QueryContext(ctx, query, start, end, limit)
	if err != nil {
		return nil, fmt.Errorf("querying top products: %w", err)
	}
	defer rows.Close()

	var result []analytics.ProductSalesRow

	for rows.Next() {
		var r analytics.ProductSalesRow
		if err := rows.Scan(&r.Product, &r.Quantity, &r.Sales); err != nil {
			return nil, fmt.Errorf("scanning top product: %w", err)
		}

		result = append(result, r)
	}

	return result, rows.Err()
}

func (s *Store) AgeSpending(ctx context.Context, start, end time.Time) ([]analytics.AgeSpendingRow, error) {
	query := `
		SELECT c.age,
		       COALESCE(SUM(t.total_amount), 0) AS total_spending,
		       COUNT(t.id) AS transaction_count
		FROM customers c
		JOIN transactions t ON c.id = t.customer_id
		WHERE t.transaction_date >= $1 AND t.transaction_date <= $2
		GROUP BY c.age
		ORDER BY c.age ASC`

	rows, err := s.db.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("querying age spending: %w", err)
	}
	defer rows.Close()

	var result []analytics.AgeSpendingRow

	for rows.Next() {
		var r analytics.AgeSpendingRow
		if err := rows.Scan(&r.Age, &r.Spending, &r.Transactions); err != nil {
			return nil, fmt.Errorf("scanning age spending: %w", err)
		}

		result = append(result, r)
	}

	return result, rows.Err()
}

func (s *Store) AgeGroupCategorySales(ctx context.Context, start, end time.Time) ([]analytics.AgeGroupCategoryRow, error) {
	query := `
		SELECT ` + ageGroupCase + ` AS age_group,
		       pc.name AS category,
		       COALESCE(SUM(ti.subtotal), 0) AS total_sales
		FROM customers c
		JOIN transactions t ON c.id = t.customer_id
		JOIN transaction_items ti ON t.id = ti.transaction_id
		JOIN products p ON ti.product_id = p.id
		JOIN product_categories pc ON p.category_id = pc.id
		WHERE t.transaction_date >= $1 AND t.transaction_date <= $2
		GROUP BY age_group, pc.name
		ORDER BY age_group ASC, total_sales DESC`

	rows, err := s.db.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("querying age group category sales: %w", err)
	}
	defer rows.Close()

	var result []analytics.AgeGroupCategoryRow

	for rows.Next() {
		var r analytics.AgeGroupCategoryRow
		if err := rows.Scan(&r.AgeGroup, &r.Category, &r.Sales); err != nil {
			return nil, fmt.Errorf("scanning age group category sales: %w", err)
		}

		result = append(result, r)
	}

	return result, rows.Err()
}
