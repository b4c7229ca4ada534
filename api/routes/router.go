package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/adolfosa/feria-manager/api/controllers"
	"github.com/adolfosa/feria-manager/api/middleware"
	authsvc "github.com/adolfosa/feria-manager/internal/auth"
	clientsvc "github.com/adolfosa/feria-manager/internal/clients"
	ordersvc "github.com/adolfosa/feria-manager/internal/orders"
	productsvc "github.com/adolfosa/feria-manager/internal/products"
	"github.com/adolfosa/feria-manager/pkg/auth/session"
	"github.com/adolfosa/feria-manager/pkg/config"
	"github.com/adolfosa/feria-manager/pkg/db"
	"github.com/adolfosa/feria-manager/pkg/logger"
	"github.com/adolfosa/feria-manager/pkg/metrics"
	"github.com/adolfosa/feria-manager/pkg/redis"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config          *config.Config
	Logger          *logger.Logger
	DB              db.Pinger
	Redis           redis.Pinger
	SessionChecker  session.Checker
	Metrics         *metrics.HTTPMetrics
	MetricsGatherer prometheus.Gatherer

	AuthService    authsvc.Service
	ClientService  clientsvc.Service
	ProductService productsvc.Service
	OrderService   ordersvc.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
		middleware.Metrics(deps.Metrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	if deps.MetricsGatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.MetricsGatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/google", controllers.AuthGoogle(deps.AuthService, cfg, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.SessionChecker, logg))
			r.Get("/session", controllers.AuthSession(cfg, logg))
			r.Post("/logout", controllers.AuthLogout(deps.AuthService, cfg, logg))
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionChecker, logg))

		r.Route("/clients", func(r chi.Router) {
			r.Get("/", controllers.ListClients(deps.ClientService, logg))
			r.Post("/", controllers.CreateClient(deps.ClientService, logg))
			r.Put("/{clientID}", controllers.UpdateClient(deps.ClientService, logg))
			r.Delete("/{clientID}", controllers.DeleteClient(deps.ClientService, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(deps.ProductService, logg))
			r.Post("/", controllers.CreateProduct(deps.ProductService, logg))
			r.Put("/{productID}", controllers.UpdateProduct(deps.ProductService, logg))
			r.Delete("/{productID}", controllers.DeleteProduct(deps.ProductService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.ListOrders(deps.OrderService, logg))
			r.Post("/", controllers.CreateOrder(deps.OrderService, logg))
			r.Put("/{orderID}", controllers.ChangeOrderStatus(deps.OrderService, logg))
			r.Delete("/{orderID}", controllers.DeleteOrder(deps.OrderService, logg))
		})
	})

	return r
}
