// Package storefront собирает приложение витрины: хранилище, кэш,
// брокер сообщений, сервисы и HTTP-сервер.
package storefront

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/subscription-storefront/internal/cache"
	"github.com/magabrotheeeer/subscription-storefront/internal/config"
	"github.com/magabrotheeeer/subscription-storefront/internal/lib/jwt"
	"github.com/magabrotheeeer/subscription-storefront/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-storefront/internal/migrations"
	"github.com/magabrotheeeer/subscription-storefront/internal/rabbitmq"
	authservice "github.com/magabrotheeeer/subscription-storefront/internal/services/auth"
	catalogservice "github.com/magabrotheeeer/subscription-storefront/internal/services/catalog"
	subservice "github.com/magabrotheeeer/subscription-storefront/internal/services/subscription"
	"github.com/magabrotheeeer/subscription-storefront/internal/storage/repository"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitConnection.AddressRabbit,
		cfg.RabbitConnection.Retries, cfg.RabbitConnection.RetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn)
	if err != nil {
		return nil, err
	}
	publisher := rabbitmq.NewPublisher(ch)

	tokenMaker := jwt.NewMaker(cfg.SessionToken.SecretKey, cfg.SessionToken.TokenTTL)

	authService := authservice.NewAuthService(db, tokenMaker)
	catalogService := catalogservice.NewCatalogService(db, cacheRedis, logger, cfg.RedisConnection.CacheTTL)
	subscriptionService := subservice.NewSubscriptionService(db, cacheRedis, publisher, logger, cfg.RedisConnection.CacheTTL)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, authService, catalogService, subscriptionService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if cerr := a.db.DB.Close(); cerr != nil {
			a.logger.Error("failed to close storage", sl.Err(cerr))
		}
		return err
	}
}
