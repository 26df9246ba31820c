package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/velotown/bikerental-backend/api/controllers"
	"github.com/velotown/bikerental-backend/api/middleware"
	"github.com/velotown/bikerental-backend/api/render"
	"github.com/velotown/bikerental-backend/internal/cart"
	"github.com/velotown/bikerental-backend/internal/catalog"
	"github.com/velotown/bikerental-backend/internal/orders"
	"github.com/velotown/bikerental-backend/pkg/config"
	"github.com/velotown/bikerental-backend/pkg/db"
	"github.com/velotown/bikerental-backend/pkg/logger"
	"github.com/velotown/bikerental-backend/pkg/metrics"
	"github.com/velotown/bikerental-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	rnd *render.Renderer,
	dbP db.Pinger,
	redisP redis.Pinger,
	httpMetrics *metrics.HTTPMetrics,
	metricsHandler http.Handler,
	catalogService catalog.Service,
	cartService cart.Service,
	orderService orders.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.Method(http.MethodGet, "/metrics", metricsHandler)

	// Storefront. Every page and cart RPC runs under the visitor session.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Session(cfg.Session, logg))

		r.Get("/", controllers.Home(catalogService, rnd, logg))
		r.Get("/home", controllers.Home(catalogService, rnd, logg))
		r.Get("/bike/{bikeID}", controllers.BikeDetail(catalogService, rnd, logg))
		r.Get("/type/{typeID}", controllers.BikesByType(catalogService, rnd, logg))
		r.Get("/search", controllers.Search(catalogService, rnd, logg))

		r.Post("/add_to_cart", controllers.AddToCart(cartService, logg))
		r.Get("/cart", controllers.ViewCart(cartService, rnd, logg))
		r.Post("/remove_from_cart", controllers.RemoveFromCart(cartService, logg))

		r.Get("/checkout", controllers.CheckoutPage(cartService, rnd, logg))
		r.Post("/process_order", controllers.ProcessOrder(orderService, rnd, logg))
		r.Get("/payment/{orderID}", controllers.PaymentPage(orderService, rnd, logg))
		r.Post("/process_payment", controllers.ProcessPayment(orderService, rnd, logg))
		r.Get("/order_success/{orderID}", controllers.OrderSuccess(orderService, rnd, logg))
		r.Get("/my_orders", controllers.MyOrders(orderService, rnd, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.AdminKey(cfg.Admin, logg))

		r.Route("/types", func(r chi.Router) {
			r.Post("/", controllers.AdminCreateType(catalogService, logg))
			r.Patch("/{typeID}", controllers.AdminUpdateType(catalogService, logg))
			r.Delete("/{typeID}", controllers.AdminDeleteType(catalogService, logg))
		})
		r.Route("/bikes", func(r chi.Router) {
			r.Post("/", controllers.AdminCreateBike(catalogService, logg))
			r.Patch("/{bikeID}", controllers.AdminUpdateBike(catalogService, logg))
			r.Delete("/{bikeID}", controllers.AdminDeleteBike(catalogService, logg))
		})
		r.Route("/orders", func(r chi.Router) {
			r.Get("/{orderID}", controllers.AdminOrderDetail(orderService, logg))
			r.Post("/{orderID}/confirm", controllers.AdminConfirmOrder(orderService, logg))
			r.Post("/{orderID}/start", controllers.AdminStartRental(orderService, logg))
			r.Post("/{orderID}/return", controllers.AdminReturnOrder(orderService, logg))
			r.Post("/{orderID}/cancel", controllers.AdminCancelOrder(orderService, logg))
		})
	})

	return r
}
