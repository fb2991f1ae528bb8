package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/adiwidjaja/tokolens/internal/http/activity"
	"github.com/adiwidjaja/tokolens/internal/http/analytics"
	"github.com/adiwidjaja/tokolens/internal/http/auth"
	"github.com/adiwidjaja/tokolens/internal/http/news"
	"github.com/adiwidjaja/tokolens/internal/http/transaction"
)

func New(
	analyticsV1 *analytics.Handler,
	newsV1 *news.Handler,
	transactionsV1 *transaction.Handler,
	authV1 *auth.Handler,
	logsV1 *activity.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	router.Route("/api", func(r chi.Router) {
		r.Route("/analytics", func(r chi.Router) {
			analyticsV1.Routes(r)

			r.Route("/news", newsV1.Routes)
		})

		r.Route("/transactions", transactionsV1.Routes)

		r.Route("/auth", func(r chi.Router) {
			authV1.Routes(r)
		})

		r.Route("/logs", logsV1.Routes)
	})

	return router
}
