// Package http exposes the storefront API over chi. Routes under /api/v1
// that mutate or read per-user state require a bearer token; adding to the
// cart or wishlist without one is answered with 401 and a login notice.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stylekart/storefront/pkg/health"
	"github.com/stylekart/storefront/pkg/middleware"

	"github.com/stylekart/storefront/internal/catalog"
	"github.com/stylekart/storefront/internal/checkout"
	"github.com/stylekart/storefront/internal/config"
	"github.com/stylekart/storefront/internal/identity"
	"github.com/stylekart/storefront/internal/session"
	"github.com/stylekart/storefront/internal/wishlist"
)

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(
	cfg *config.Config,
	carts *session.Registry,
	identitySvc *identity.Service,
	wishlistSvc *wishlist.Service,
	checkoutSvc *checkout.Service,
	catalogClient *catalog.Client,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		ExposedHeaders: []string{"X-Correlation-ID"},
		Environment:    cfg.Environment,
	}))
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(middleware.Tracing("storefront"))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Pprof debug endpoints with IP allowlist.
	middleware.RegisterPprof(r, cfg.PprofCIDRs, logger)

	authHandler := NewAuthHandler(identitySvc, carts, logger)
	cartHandler := NewCartHandler(carts, catalogClient, logger)
	wishlistHandler := NewWishlistHandler(wishlistSvc, logger)
	checkoutHandler := NewCheckoutHandler(checkoutSvc, logger)
	productHandler := NewProductHandler(catalogClient, logger)

	requireAuth := middleware.Auth(func(token string) (*middleware.Claims, error) {
		claims, err := identitySvc.ValidateToken(token)
		if err != nil {
			return nil, err
		}
		return &middleware.Claims{UserID: claims.UserID, Email: claims.Email}, nil
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Catalog reads are public and cacheable.
		r.Group(func(r chi.Router) {
			r.Use(cacheControl(300))
			r.Get("/products", productHandler.ListProducts)
			r.Get("/products/{productId}", productHandler.GetProduct)
		})

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Post("/auth/logout", authHandler.Logout)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartHandler.GetCart)
				r.Delete("/", cartHandler.ClearCart)
				r.Get("/summary", cartHandler.GetSummary)
				r.Get("/contains", cartHandler.Contains)

				r.Post("/items", cartHandler.AddItem)
				r.Put("/items/{entryId}", cartHandler.UpdateQuantity)
				r.Delete("/items/{entryId}", cartHandler.RemoveItem)
			})

			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", wishlistHandler.GetWishlist)
				r.Delete("/", wishlistHandler.ClearWishlist)

				r.Post("/items", wishlistHandler.AddItem)
				r.Delete("/items/{productId}", wishlistHandler.RemoveItem)
				r.Post("/items/{productId}/move-to-cart", wishlistHandler.MoveToCart)
			})

			r.Post("/checkout", checkoutHandler.PlaceOrder)
			r.Get("/orders", checkoutHandler.ListOrders)
		})
	})

	return r
}
