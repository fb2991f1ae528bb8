package transaction

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/adiwidjaja/tokolens/internal/search"
	"github.com/adiwidjaja/tokolens/internal/transaction"
)

type Handler struct {
	svc *transaction.Service
}

func NewHandler(svc *transaction.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page := intParam(r, "page", 1)
	pageSize := intParam(r, "page_size", transaction.DefaultPageSize)

	strategy := transaction.StrategyRelational
	if raw := r.URL.Query().Get("strategy"); raw != "" {
		strategy = transaction.Strategy(raw)
	}

	result, err := h.svc.List(r.Context(), strategy, page, pageSize)
	if err != nil {
		if errors.Is(err, transaction.ErrUnknownStrategy) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if errors.Is(err, search.ErrUnavailable) {
			http.Error(w, "search service is unavailable", http.StatusServiceUnavailable)
			return
		}

		slog.Error("failed to list transactions", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toPageResponse(result)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func intParam(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return v
}
