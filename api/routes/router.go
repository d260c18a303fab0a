package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agrilinkhq/agrilink-backend/api/controllers"
	"github.com/agrilinkhq/agrilink-backend/api/middleware"
	"github.com/agrilinkhq/agrilink-backend/internal/auth"
	"github.com/agrilinkhq/agrilink-backend/internal/messages"
	"github.com/agrilinkhq/agrilink-backend/internal/orders"
	"github.com/agrilinkhq/agrilink-backend/internal/products"
	"github.com/agrilinkhq/agrilink-backend/internal/proofs"
	"github.com/agrilinkhq/agrilink-backend/pkg/config"
	"github.com/agrilinkhq/agrilink-backend/pkg/db"
	"github.com/agrilinkhq/agrilink-backend/pkg/logger"
	"github.com/agrilinkhq/agrilink-backend/pkg/metrics"
	"github.com/agrilinkhq/agrilink-backend/pkg/redis"
	"github.com/agrilinkhq/agrilink-backend/pkg/storage/gcs"
)

// Deps carries everything the HTTP surface needs. Nil pingers and a nil
// rate limiter simply disable the corresponding checks.
type Deps struct {
	Cfg         *config.Config
	Logg        *logger.Logger
	DBPinger    db.Pinger
	RedisPinger redis.Pinger
	GCSPinger   gcs.Pinger
	RateLimiter redis.RateLimiter
	HTTPMetrics *metrics.HTTPMetrics
	Gatherer    prometheus.Gatherer

	AuthService     auth.Service
	RegisterService auth.RegisterService
	OrdersService   orders.Service
	ProofsService   proofs.Service
	ProductsService products.Service
	MessagesService messages.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Cfg
	logg := deps.Logg

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, deps.HTTPMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DBPinger, deps.RedisPinger, deps.GCSPinger))
	})

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.RateLimiter, logg)).Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, deps.RateLimiter, logg)).Post("/register", controllers.AuthRegister(deps.RegisterService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.OrderCreate(deps.OrdersService, logg))
			r.Get("/", controllers.OrderList(deps.OrdersService, logg))
			r.Get("/{orderId}", controllers.OrderGet(deps.OrdersService, logg))
			r.Post("/{orderId}/collect", controllers.OrderCollect(deps.OrdersService, logg))
			r.Post("/{orderId}/cancel", controllers.OrderCancel(deps.OrdersService, logg))
			r.Post("/{orderId}/confirm-payment", controllers.OrderConfirmPayment(deps.OrdersService, logg))
			r.Delete("/{orderId}", controllers.OrderDelete(deps.OrdersService, logg))
		})

		r.Route("/proofs", func(r chi.Router) {
			r.Post("/", controllers.ProofUpload(deps.ProofsService, cfg.Proofs.MaxUploadBytes(), logg))
			r.Get("/", controllers.ProofRetrieve(deps.ProofsService, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductListAll(deps.ProductsService, logg))
			r.Get("/mine", controllers.ProductListMine(deps.ProductsService, logg))
			r.Post("/", controllers.ProductAdd(deps.ProductsService, logg))
			r.Delete("/{productId}", controllers.ProductDelete(deps.ProductsService, logg))
		})

		r.Post("/farmers/{farmerEmail}/comments", controllers.FarmerCommentAdd(deps.ProductsService, logg))

		r.Route("/messages", func(r chi.Router) {
			r.Get("/", controllers.MessageList(deps.MessagesService, logg))
			r.Post("/", controllers.MessagePost(deps.MessagesService, logg))
		})
	})

	return r
}
