package transaction

import (
	"time"

	"github.com/google/uuid"

	"github.com/adiwidjaja/tokolens/internal/transaction"
)

type rowResponse struct {
	ID           uuid.UUID `json:"id"`
	Date         time.Time `json:"transaction_date"`
	CustomerName string    `json:"customer_name"`
	Gender       *string   `json:"gender"`
	Age          *int      `json:"age"`
	Products     string    `json:"products"`
	Total        float64   `json:"total_amount"`
}

type paginationResponse struct {
	CurrentPage int `json:"current_page"`
	PageSize    int `json:"page_size"`
	TotalPages  int `json:"total_pages"`
	TotalItems  int `json:"total_items"`
}

type pageResponse struct {
	Items      []rowResponse      `json:"items"`
	Pagination paginationResponse `json:"pagination"`
}

func toPageResponse(page *transaction.Page) pageResponse {
	items := make([]rowResponse, len(page.Items))
	for i, row := range page.Items {
		items[i] = rowResponse{
			ID:           row.ID,
			Date:         row.Date,
			CustomerName: row.CustomerName,
			Gender:       row.Gender,
			Age:          row.Age,
			Products:     row.Products,
			Total:        row.Total.InexactFloat64(),
		}
	}

	return pageResponse{
		Items: items,
		Pagination: paginationResponse{
			CurrentPage: page.Meta.CurrentPage,
			PageSize:    page.Meta.PageSize,
			TotalPages:  page.Meta.TotalPages,
			TotalItems:  page.Meta.TotalItems,
		},
	}
}
