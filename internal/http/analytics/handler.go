package analytics

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/adiwidjaja/tokolens/internal/analytics"
	"github.com/adiwidjaja/tokolens/internal/search"
)

type Handler struct {
	svc *analytics.Service
}

func NewHandler(svc *analytics.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/summary", h.summary)
	r.Get("/sales", h.sales)
	r.Get("/sales-pgsql", h.salesTrend)
	r.Get("/products", h.products)
	r.Get("/customers", h.customers)
	r.Get("/categories", h.categories)
	r.Get("/customers/gender", h.customerSegments)
	r.Get("/customers/age-group", h.ageGroups)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	start, end, err := period(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	summary, err := h.svc.Summary(r.Context(), start, end)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, toSummaryResponse(summary))
}

func (h *Handler) sales(w http.ResponseWriter, r *http.Request) {
	docs, err := h.svc.Sales(r.Context(), syncFirst(r))
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, listResponse[analytics.SalesDoc]{Count: len(docs), Items: docs})
}

func (h *Handler) salesTrend(w http.ResponseWriter, r *http.Request) {
	start, end, err := period(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	points, err := h.svc.Trend(r.Context(), start, end)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, toTrendResponse(points))
}

func (h *Handler) products(w http.ResponseWriter, r *http.Request) {
	start, end, err := period(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	data, err := h.svc.Products(r.Context(), start, end)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, toProductsResponse(data))
}

func (h *Handler) customers(w http.ResponseWriter, r *http.Request) {
	start, end, err := period(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	data, err := h.svc.Customers(r.Context(), start, end)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, toCustomersResponse(data))
}

func (h *Handler) categories(w http.ResponseWriter, r *http.Request) {
	docs, err := h.svc.Categories(r.Context(), syncFirst(r))
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, listResponse[analytics.CategoryDoc]{Count: len(docs), Items: docs})
}

func (h *Handler) customerSegments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.svc.CustomerSegments(r.Context(), syncFirst(r))
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, listResponse[analytics.SegmentDoc]{Count: len(docs), Items: docs})
}

func (h *Handler) ageGroups(w http.ResponseWriter, r *http.Request) {
	docs, err := h.svc.AgeGroups(r.Context(), syncFirst(r))
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, listResponse[analytics.AgeGroupDoc]{Count: len(docs), Items: docs})
}

// period reads the start_date/end_date pair, defaulting to the last 30
// days when absent. A date that is present but unparseable is an error.
func period(r *http.Request) (time.Time, time.Time, error) {
	start, end := analytics.DefaultPeriod(time.Now().UTC())

	if raw := r.URL.Query().Get("start_date"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}

		start = t
	}

	if raw := r.URL.Query().Get("end_date"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}

		end = t
	}

	return start, end, nil
}

func parseDate(raw string) (time.Time, error) {
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}

func syncFirst(r *http.Request) bool {
	raw := r.URL.Query().Get("sync_first")
	if raw == "" {
		return true
	}

	v, err := strconv.ParseBool(raw)
	if err != nil {
		return true
	}

	return v
}

func respondError(w http.ResponseWriter, err error) {
	if errors.Is(err, search.ErrUnavailable) {
		http.Error(w, "search service is unavailable", http.StatusServiceUnavailable)
		return
	}

	slog.Error("analytics request failed", "error", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
