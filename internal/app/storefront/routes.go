package storefront

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/subscription-storefront/internal/config"
	"github.com/magabrotheeeer/subscription-storefront/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/subscription-storefront/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/subscription-storefront/internal/http/handlers/auth/register"
	productcreate "github.com/magabrotheeeer/subscription-storefront/internal/http/handlers/product/create"
	productlist "github.com/magabrotheeeer/subscription-storefront/internal/http/handlers/product/list"
	productread "github.com/magabrotheeeer/subscription-storefront/internal/http/handlers/product/read"
	productupdate "github.com/magabrotheeeer/subscription-storefront/internal/http/handlers/product/update"
	"github.com/magabrotheeeer/subscription-storefront/internal/http/handlers/subscription/entitlement"
	"github.com/magabrotheeeer/subscription-storefront/internal/http/handlers/subscription/health"
	sublist "github.com/magabrotheeeer/subscription-storefront/internal/http/handlers/subscription/list"
	"github.com/magabrotheeeer/subscription-storefront/internal/http/handlers/subscription/subscribe"
	"github.com/magabrotheeeer/subscription-storefront/internal/http/middlewarectx"
	authservice "github.com/magabrotheeeer/subscription-storefront/internal/services/auth"
	catalogservice "github.com/magabrotheeeer/subscription-storefront/internal/services/catalog"
	subservice "github.com/magabrotheeeer/subscription-storefront/internal/services/subscription"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config,
	authService *authservice.AuthService,
	catalogService *catalogservice.CatalogService,
	subscriptionService *subservice.SubscriptionService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	cookie := register.CookieConfig{
		Name:   cfg.SessionToken.CookieName,
		TTL:    cfg.SessionToken.TokenTTL,
		Secure: cfg.SessionToken.CookieSecure,
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authService, cookie).ServeHTTP)
		r.Post("/login", login.New(logger, authService, cookie).ServeHTTP)
		r.Get("/products", productlist.New(logger, catalogService).ServeHTTP)
		r.Get("/products/{id}", productread.New(logger, catalogService, subscriptionService).ServeHTTP)

		// Группа с сессионной аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.SessionMiddleware(authService, cfg.SessionToken.CookieName, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Post("/logout", logout.New(logger, cookie).ServeHTTP)
			r.Post("/products", productcreate.New(logger, catalogService).ServeHTTP)
			r.Put("/products/{id}", productupdate.New(logger, catalogService).ServeHTTP)
			r.Post("/products/{id}/subscribe", subscribe.New(logger, subscriptionService).ServeHTTP)
			r.Get("/products/{id}/entitlement", entitlement.New(logger, subscriptionService).ServeHTTP)
			r.Get("/subscriptions/list", sublist.New(logger, subscriptionService).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
