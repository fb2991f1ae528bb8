package transaction

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/adiwidjaja/tokolens/internal/search"
)

// Index names for the denormalized copies the fan-out path reads.
const (
	TransactionsIndex = "transactions"
	ItemsIndex        = "transaction_items"
	CustomersIndex    = "customers"
	ProductsIndex     = "products"
)

// IndexLister is the read-scaled listing path. The search store cannot
// join, so this is modelled as what it is: three follow-up fetches and
// an in-memory stitch keyed by foreign identity. Unresolved lookups
// degrade to placeholders instead of failing the page.
type IndexLister struct {
	store search.Store
}

func NewIndexLister(store search.Store) *IndexLister {
	return &IndexLister{store: store}
}

type txDoc struct {
	ID          string  `json:"id"`
	Date        string  `json:"transaction_date"`
	CustomerID  string  `json:"customer_id"`
	TotalAmount float64 `json:"total_amount"`
}

type customerDoc struct {
	ID        string  `json:"id"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Gender    *string `json:"gender"`
	Age       *int    `json:"age"`
}

type itemDoc struct {
	TransactionID string  `json:"transaction_id"`
	ProductID     string  `json:"product_id"`
	Subtotal      float64 `json:"subtotal"`
}

type productDoc struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (l *IndexLister) List(ctx context.Context, page, pageSize int) (*Page, error) {
	// The total comes from the count endpoint, independent of the page
	// fetch; it may lag writes (eventual consistency).
	total, err := l.store.Count(ctx, TransactionsIndex)
	if err != nil {
		return nil, fmt.Errorf("counting transactions: %w", err)
	}

	meta := PageMeta{
		CurrentPage: page,
		PageSize:    pageSize,
		TotalPages:  TotalPages(int(total), pageSize),
		TotalItems:  int(total),
	}

	if total == 0 {
		return &Page{Items: []Row{}, Meta: meta}, nil
	}

	txs, err := l.fetchPage(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}

	if len(txs) == 0 {
		return &Page{Items: []Row{}, Meta: meta}, nil
	}

	customers, err := l.fetchCustomers(ctx, txs)
	if err != nil {
		return nil, err
	}

	items, err := l.fetchItems(ctx, txs)
	if err != nil {
		return nil, err
	}

	products, err := l.fetchProducts(ctx, items)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, stitch(tx, customers, items[tx.ID], products))
	}

	return &Page{Items: rows, Meta: meta}, nil
}

func (l *IndexLister) fetchPage(ctx context.Context, page, pageSize int) ([]txDoc, error) {
	body := map[string]any{
		"from":    (page - 1) * pageSize,
		"size":    pageSize,
		"_source": []string{"id", "transaction_date", "customer_id", "total_amount"},
		"sort":    []any{map[string]any{"transaction_date": map[string]string{"order": "desc"}}},
	}

	res, err := l.store.Search(ctx, TransactionsIndex, body)
	if err != nil {
		return nil, fmt.Errorf("fetching transaction page: %w", err)
	}

	txs := make([]txDoc, 0, len(res.Hits))

	for _, hit := range res.Hits {
		var doc txDoc
		if err := json.Unmarshal(hit.Source, &doc); err != nil {
			return nil, fmt.Errorf("decoding transaction %s: %w", hit.ID, err)
		}

		txs = append(txs, doc)
	}

	return txs, nil
}

func (l *IndexLister) fetchCustomers(ctx context.Context, txs []txDoc) (map[string]customerDoc, error) {
	ids := distinct(txs, func(t txDoc) string { return t.CustomerID })

	body := map[string]any{
		"size":    len(ids),
		"query":   map[string]any{"terms": map[string]any{"id": ids}},
		"_source": []string{"id", "first_name", "last_name", "gender", "age"},
	}

	res, err := l.store.Search(ctx, CustomersIndex, body)
	if err != nil {
		return nil, fmt.Errorf("resolving customers: %w", err)
	}

	customers := make(map[string]customerDoc, len(res.Hits))

	for _, hit := range res.Hits {
		var doc customerDoc
		if err := json.Unmarshal(hit.Source, &doc); err != nil {
			return nil, fmt.Errorf("decoding customer %s: %w", hit.ID, err)
		}

		customers[doc.ID] = doc
	}

	return customers, nil
}

func (l *IndexLister) fetchItems(ctx context.Context, txs []txDoc) (map[string][]itemDoc, error) {
	ids := distinct(txs, func(t txDoc) string { return t.ID })

	body := map[string]any{
		"size":    10000,
		"query":   map[string]any{"terms": map[string]any{"transaction_id": ids}},
		"_source": []string{"transaction_id", "product_id", "subtotal"},
	}

	res, err := l.store.Search(ctx, ItemsIndex, body)
	if err != nil {
		return nil, fmt.Errorf("resolving transaction items: %w", err)
	}

	items := make(map[string][]itemDoc)

	for _, hit := range res.Hits {
		var doc itemDoc
		if err := json.Unmarshal(hit.Source, &doc); err != nil {
			return nil, fmt.Errorf("decoding transaction item %s: %w", hit.ID, err)
		}

		items[doc.TransactionID] = append(items[doc.TransactionID], doc)
	}

	return items, nil
}

func (l *IndexLister) fetchProducts(ctx context.Context, items map[string][]itemDoc) (map[string]string, error) {
	var ids []string

	seen := make(map[string]struct{})

	for _, docs := range items {
		for _, doc := range docs {
			if _, ok := seen[doc.ProductID]; ok {
				continue
			}

			seen[doc.ProductID] = struct{}{}

			ids = append(ids, doc.ProductID)
		}
	}

	if len(ids) == 0 {
		return map[string]string{}, nil
	}

	body := map[string]any{
		"size":    len(ids),
		"query":   map[string]any{"terms": map[string]any{"id": ids}},
		"_source": []string{"id", "name"},
	}

	res, err := l.store.Search(ctx, ProductsIndex, body)
	if err != nil {
		return nil, fmt.Errorf("resolving products: %w", err)
	}

	products := make(map[string]string, len(res.Hits))

	for _, hit := range res.Hits {
		var doc productDoc
		if err := json.Unmarshal(hit.Source, &doc); err != nil {
			return nil, fmt.Errorf("decoding product %s: %w", hit.ID, err)
		}

		products[doc.ID] = doc.Name
	}

	return products, nil
}

func stitch(tx txDoc, customers map[string]customerDoc, items []itemDoc, products map[string]string) Row {
	row := Row{
		CustomerName: UnknownCustomer,
		Total:        decimal.NewFromFloat(tx.TotalAmount),
	}

	if id, err := uuid.Parse(tx.ID); err == nil {
		row.ID = id
	}

	row.Date = parseDate(tx.Date)

	if customer, ok := customers[tx.CustomerID]; ok {
		row.CustomerName = displayName(customer.FirstName, customer.LastName)
		row.Gender = customer.Gender
		row.Age = customer.Age
	}

	names := make([]string, 0, len(items))
	subtotals := make([]decimal.Decimal, 0, len(items))

	for _, item := range items {
		name, ok := products[item.ProductID]
		if !ok {
			name = UnknownProduct
		}

		names = append(names, name)

		subtotals = append(subtotals, decimal.NewFromFloat(item.Subtotal))
	}

	row.Products = JoinProducts(names)
	row.Total = RowTotal(subtotals, decimal.NewFromFloat(tx.TotalAmount))

	return row
}

func parseDate(raw string) time.Time {
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}

	return time.Time{}
}

func distinct(txs []txDoc, key func(txDoc) string) []string {
	seen := make(map[string]struct{}, len(txs))

	var out []string

	for _, tx := range txs {
		k := key(tx)
		if _, ok := seen[k]; ok {
			continue
		}

		seen[k] = struct{}{}

		out = append(out, k)
	}

	return out
}
