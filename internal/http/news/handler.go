package news

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/adiwidjaja/tokolens/internal/news"
	"github.com/adiwidjaja/tokolens/internal/search"
)

type Handler struct {
	svc *news.Service
}

func NewHandler(svc *news.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.overview)
	r.Get("/recent", h.recent)
}

func (h *Handler) overview(w http.ResponseWriter, r *http.Request) {
	f, err := filter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	overview, err := h.svc.Overview(r.Context(), f)
	if err != nil {
		if errors.Is(err, news.ErrNoContent) {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		respondError(w, err)

		return
	}

	writeJSON(w, overview)
}

func (h *Handler) recent(w http.ResponseWriter, r *http.Request) {
	size := 10
	if raw := r.URL.Query().Get("size"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			size = v
		}
	}

	cursor, err := news.ParseCursor(r.URL.Query().Get("search_after"))
	if err != nil {
		http.Error(w, "invalid search_after cursor", http.StatusBadRequest)
		return
	}

	f, err := filter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	page, err := h.svc.Recent(r.Context(), f, size, cursor)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, page)
}

func filter(r *http.Request) (news.Filter, error) {
	f := news.Filter{Query: r.URL.Query().Get("search_query")}

	if raw := r.URL.Query().Get("start_date"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			return news.Filter{}, err
		}

		f.Start = &t
	}

	if raw := r.URL.Query().Get("end_date"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			return news.Filter{}, err
		}

		f.End = &t
	}

	return f, nil
}

func parseDate(raw string) (time.Time, error) {
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}

func respondError(w http.ResponseWriter, err error) {
	if errors.Is(err, search.ErrUnavailable) {
		http.Error(w, "search service is unavailable", http.StatusServiceUnavailable)
		return
	}

	slog.Error("news request failed", "error", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
