package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/elektromontazh-pro/order-service/internal/handler"
	"github.com/elektromontazh-pro/order-service/internal/order"
)

func NewRouter(dbPool *pgxpool.Pool) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	repo := order.NewRepository(dbPool)
	svc := order.NewService(repo)

	cartHandler := handler.NewCartHandler()
	r.Get("/catalog", cartHandler.HandleCatalog)
	r.Post("/cart/quote", cartHandler.HandleQuote)

	orderHandler := handler.NewOrderHandler(svc)
	orderHandler.RegisterRoutes(r)

	return r
}
