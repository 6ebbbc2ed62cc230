package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/storefront-backend/api/controllers"
	"github.com/angelmondragon/storefront-backend/api/middleware"
	"github.com/angelmondragon/storefront-backend/internal/auth"
	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/internal/newsletter"
	"github.com/angelmondragon/storefront-backend/internal/users"
	"github.com/angelmondragon/storefront-backend/pkg/auth/session"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
	"github.com/angelmondragon/storefront-backend/pkg/redis"
)

// Dependencies are the services and infrastructure the API routes call into.
type Dependencies struct {
	Auth       auth.Service
	Users      *users.Service
	Sessions   session.Resolver
	Catalog    *catalog.Service
	Cart       *cart.Service
	Newsletter *newsletter.Service
	Redis      *redis.Client

	HTTPMetrics *metrics.HTTPMetrics
	Gatherer    prometheus.Gatherer
	Ready       map[string]controllers.Pinger
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(cfg.CORS.AllowedOrigins),
		middleware.RateLimit(middleware.NewClientRateLimiter(cfg.RateLimit), logg),
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
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Ready))
	})

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Session(cfg.Session, deps.Sessions, deps.Users, logg))
		r.Use(middleware.CartSession(logg))

		r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).Post("/register", controllers.AuthRegister(deps.Auth, cfg.Session, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AuthLogin(deps.Auth, cfg.Session, logg))
		r.Post("/logout", controllers.AuthLogout(deps.Auth, cfg.Session, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(logg))
			r.Get("/user", controllers.CurrentUser(deps.Auth, logg))
			r.Put("/user", controllers.UpdateCurrentUser(deps.Auth, logg))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin(logg))
			r.Get("/users", controllers.AdminListUsers(deps.Users, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ResourceList(deps.Catalog.Products, logg))
			r.Get("/new-arrivals", controllers.ProductsFlagged(deps.Catalog, catalog.FlagNew, logg))
			r.Get("/best-sellers", controllers.ProductsFlagged(deps.Catalog, catalog.FlagBestSeller, logg))
			r.Get("/on-sale", controllers.ProductsFlagged(deps.Catalog, catalog.FlagSale, logg))
			r.Get("/category/{category}", controllers.ProductsByCategory(deps.Catalog, logg))
			r.Get("/{id}", controllers.ResourceGet(deps.Catalog.Products, logg))
			adminWrites(r, deps.Catalog.Products, "product", logg)
		})
		mountResource(r, "/categories", deps.Catalog.Categories, "category", logg)
		mountResource(r, "/collections", deps.Catalog.Collections, "collection", logg)
		mountResource(r, "/carousel-slides", deps.Catalog.Slides, "carousel slide", logg)
		mountResource(r, "/promos", deps.Catalog.Promos, "promo", logg)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(deps.Cart, logg))
			r.With(middleware.Idempotency(deps.Redis, cfg.App.IdempotencyTTL, logg)).Post("/", controllers.CartAdd(deps.Cart, logg))
			r.Put("/{id}", controllers.CartUpdate(deps.Cart, logg))
			r.Delete("/{id}", controllers.CartRemove(deps.Cart, logg))
		})

		r.Route("/newsletter", func(r chi.Router) {
			r.Post("/", controllers.NewsletterSubscribe(deps.Newsletter, logg))
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin(logg))
				r.Get("/subscribers", controllers.NewsletterList(deps.Newsletter, logg))
				r.Delete("/subscribers/{id}", controllers.NewsletterDelete(deps.Newsletter, logg))
			})
		})
	})

	return r
}

// mountResource registers public reads and admin writes for a catalog entity.
func mountResource[T any, C catalog.Creator[T], P catalog.Patcher[T]](r chi.Router, path string, res *catalog.Resource[T, C, P], name string, logg *logger.Logger) {
	r.Route(path, func(r chi.Router) {
		r.Get("/", controllers.ResourceList(res, logg))
		r.Get("/{id}", controllers.ResourceGet(res, logg))
		adminWrites(r, res, name, logg)
	})
}

func adminWrites[T any, C catalog.Creator[T], P catalog.Patcher[T]](r chi.Router, res *catalog.Resource[T, C, P], name string, logg *logger.Logger) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin(logg))
		r.Post("/", controllers.ResourceCreate(res, logg))
		r.Put("/{id}", controllers.ResourceUpdate(res, logg))
		r.Delete("/{id}", controllers.ResourceDelete(res, name, logg))
	})
}
