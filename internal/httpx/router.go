package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jcmexdev/table-order/internal/httpx/middlewares"
)

// NewRouter assembles the API routes. publicDir, when non-empty, is served
// as the static frontend with an SPA fallback.
func NewRouter(handler *Handler, publicDir string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middlewares.Trace)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/menu", handler.GetMenu)
		r.Post("/order", handler.PlaceOrder)
		r.Get("/orders/{orderId}", handler.GetOrder)
		r.Get("/kitchen", handler.GetKitchen)
		r.Post("/kitchen/{orderId}/complete", handler.CompleteOrder)

		r.Post("/login", handler.Login)
		r.Post("/logout", handler.Logout)

		r.Group(func(r chi.Router) {
			r.Use(handler.RequireSession)
			r.Get("/manager/orders", handler.ManagerOrders)
		})
	})

	if publicDir != "" {
		r.NotFound(spaHandler(publicDir))
	}

	return r
}
