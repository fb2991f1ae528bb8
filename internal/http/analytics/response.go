package analytics

import (
	"time"

	"github.com/adiwidjaja/tokolens/internal/analytics"
)

type listResponse[D any] struct {
	Count int `json:"count"`
	Items []D `json:"items"`
}

type metricResponse struct {
	Title    string   `json:"title"`
	Current  float64  `json:"current"`
	Previous float64  `json:"previous"`
	Growth   *float64 `json:"growth"`
}

type summaryResponse struct {
	Sales   metricResponse `json:"sales"`
	Orders  metricResponse `json:"orders"`
	Revenue metricResponse `json:"revenue"`
	AOV     metricResponse `json:"average_order_value"`
}

func toMetricResponse(m analytics.SummaryMetric) metricResponse {
	return metricResponse{
		Title:    m.Title,
		Current:  m.Current.InexactFloat64(),
		Previous: m.Previous.InexactFloat64(),
		Growth:   m.Growth,
	}
}

func toSummaryResponse(s *analytics.PeriodSummary) summaryResponse {
	return summaryResponse{
		Sales:   toMetricResponse(s.Sales),
		Orders:  toMetricResponse(s.Orders),
		Revenue: toMetricResponse(s.Revenue),
		AOV:     toMetricResponse(s.AOV),
	}
}

type trendPointResponse struct {
	Date         string  `json:"date"`
	TotalSales   float64 `json:"total_sales"`
	Transactions int     `json:"transactions_count"`
}

func toTrendResponse(points []analytics.TrendPoint) listResponse[trendPointResponse] {
	items := make([]trendPointResponse, len(points))
	for i, p := range points {
		items[i] = trendPointResponse{
			Date:         p.Date.Format(time.DateOnly),
			TotalSales:   p.TotalSales.InexactFloat64(),
			Transactions: p.Transactions,
		}
	}

	return listResponse[trendPointResponse]{Count: len(items), Items: items}
}

type categorySalesResponse struct {
	Category string  `json:"category"`
	Quantity int64   `json:"quantity"`
	Sales    float64 `json:"sales"`
}

type productSalesResponse struct {
	Product  string  `json:"product"`
	Quantity int64   `json:"quantity"`
	Sales    float64 `json:"sales"`
}

type productsResponse struct {
	CategorySales []categorySalesResponse `json:"category_sales"`
	TopProducts   []productSalesResponse  `json:"top_products"`
}

func toProductsResponse(data *analytics.ProductAnalytics) productsResponse {
	resp := productsResponse{
		CategorySales: make([]categorySalesResponse, len(data.CategorySales)),
		TopProducts:   make([]productSalesResponse, len(data.TopProducts)),
	}

	for i, c := range data.CategorySales {
		resp.CategorySales[i] = categorySalesResponse{
			Category: c.Category,
			Quantity: c.Quantity,
			Sales:    c.Sales.InexactFloat64(),
		}
	}

	for i, p := range data.TopProducts {
		resp.TopProducts[i] = productSalesResponse{
			Product:  p.Product,
			Quantity: p.Quantity,
			Sales:    p.Sales.InexactFloat64(),
		}
	}

	return resp
}

type ageSpendingResponse struct {
	Age          int     `json:"age"`
	Spending     float64 `json:"spending"`
	Transactions int     `json:"transactions_count"`
}

type ageGroupCategoryResponse struct {
	AgeGroup string  `json:"age_group"`
	Category string  `json:"category"`
	Sales    float64 `json:"sales"`
}

type customersResponse struct {
	AgeSpending []ageSpendingResponse      `json:"age_spending"`
	AgeGroups   []ageGroupCategoryResponse `json:"age_group_sales"`
}

func toCustomersResponse(data *analytics.CustomerAnalytics) customersResponse {
	resp := customersResponse{
		AgeSpending: make([]ageSpendingResponse, len(data.AgeSpending)),
		AgeGroups:   make([]ageGroupCategoryResponse, len(data.AgeGroups)),
	}

	for i, a := range data.AgeSpending {
		resp.AgeSpending[i] = ageSpendingResponse{
			Age:          a.Age,
			Spending:     a.Spending.InexactFloat64(),
			Transactions: a.Transactions,
		}
	}

	for i, g := range data.AgeGroups {
		resp.AgeGroups[i] = ageGroupCategoryResponse{
			AgeGroup: g.AgeGroup,
			Category: g.Category,
			Sales:    g.Sales.InexactFloat64(),
		}
	}

	return resp
}
