package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tacoeljunior/ordering-backend/api/controllers"
	"github.com/tacoeljunior/ordering-backend/api/middleware"
	"github.com/tacoeljunior/ordering-backend/internal/cart"
	"github.com/tacoeljunior/ordering-backend/internal/menu"
	"github.com/tacoeljunior/ordering-backend/internal/orders"
	"github.com/tacoeljunior/ordering-backend/pkg/db"
	"github.com/tacoeljunior/ordering-backend/pkg/logger"
	"github.com/tacoeljunior/ordering-backend/pkg/redis"
)

// Deps carries everything the router needs to assemble controllers.
type Deps struct {
	Logger       *logger.Logger
	DB           *db.Client
	Cache        *redis.Client
	CartService  cart.Service
	MenuService  menu.Service
	OrderService orders.Service
	Registry     *prometheus.Registry
}

func New(deps Deps) http.Handler {
	healthCtrl := controllers.NewHealthController(deps.DB, deps.Cache, deps.Logger)
	menuCtrl := controllers.NewMenuController(deps.MenuService, deps.Logger)
	cartCtrl := controllers.NewCartController(deps.CartService, deps.Logger)
	ordersCtrl := controllers.NewOrdersController(deps.OrderService, deps.CartService, deps.Logger)

	r := chi.NewRouter()

	r.Use(middleware.Recoverer(deps.Logger))
	r.Use(middleware.RequestID(deps.Logger))
	r.Use(middleware.CORS())
	r.Use(middleware.Logging(deps.Logger))

	r.Get("/health/live", healthCtrl.Live)
	r.Get("/health/ready", healthCtrl.Ready)

	if deps.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/menu", func(r chi.Router) {
			r.Get("/", menuCtrl.List)
			r.Get("/meats", menuCtrl.Meats)
			r.Delete("/cache", menuCtrl.Invalidate)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(middleware.CartSession(deps.Logger))
			r.Get("/", cartCtrl.Get)
			r.Delete("/", cartCtrl.Clear)
			r.Post("/items", cartCtrl.AddItem)
			r.Patch("/items/{itemID}", cartCtrl.UpdateQuantity)
			r.Delete("/items/{itemID}", cartCtrl.RemoveItem)
		})

		r.Route("/orders", func(r chi.Router) {
			r.With(middleware.CartSession(deps.Logger)).Post("/", ordersCtrl.Create)
			r.Get("/{orderID}", ordersCtrl.Get)
			r.Patch("/{orderID}/payment", ordersCtrl.UpdatePayment)
		})
	})

	return r
}
