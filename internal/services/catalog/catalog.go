// Package services содержит бизнес-логику каталога товаров,
// включая кеширование карточек.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/subscription-storefront/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-storefront/internal/models"
)

// CatalogRepository определяет методы для работы с товарами в хранилище.
type CatalogRepository interface {
	// CreateProduct вставляет товар и вложенный тарифный план.
	CreateProduct(ctx context.Context, req models.DummyProduct) (*models.Product, error)
	// UpdateProduct обновляет товар по ID.
	UpdateProduct(ctx context.Context, id int, req models.DummyProduct) (*models.Product, error)
	// GetProduct возвращает товар с планом по ID.
	GetProduct(ctx context.Context, id int) (*models.Product, error)
	// ListProducts возвращает все товары каталога.
	ListProducts(ctx context.Context) ([]*models.Product, error)
}

// Cache описывает методы для кэширования карточек товаров.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// CatalogService реализует бизнес-логику каталога.
type CatalogService struct {
	repo     CatalogRepository
	cache    Cache
	log      *slog.Logger
	cacheTTL time.Duration
}

// NewCatalogService создает новый экземпляр CatalogService.
func NewCatalogService(repo CatalogRepository, cache Cache, log *slog.Logger, cacheTTL time.Duration) *CatalogService {
	return &CatalogService{
		repo:     repo,
		cache:    cache,
		log:      log,
		cacheTTL: cacheTTL,
	}
}

func productKey(id int) string { return fmt.Sprintf("product:%d", id) }

// Create создает новый товар каталога. Тарифный план создаётся только
// если в запросе задана хотя бы одна положительная цена.
func (s *CatalogService) Create(ctx context.Context, req models.DummyProduct) (*models.Product, error) {
	product, err := s.repo.CreateProduct(ctx, req)
	if err != nil {
		return nil, err
	}
	s.log.Info("created new product", slog.Int("id", product.ID))
	return product, nil
}

// Update обновляет товар и сбрасывает его кешированную карточку.
func (s *CatalogService) Update(ctx context.Context, id int, req models.DummyProduct) (*models.Product, error) {
	product, err := s.repo.UpdateProduct(ctx, id, req)
	if err != nil {
		return nil, err
	}

	cacheKey := productKey(id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate product cache", slog.String("key", cacheKey), sl.Err(err))
	}
	s.log.Info("updated product", slog.Int("id", id))
	return product, nil
}

// Read возвращает карточку товара, используя кеш или репозиторий.
func (s *CatalogService) Read(ctx context.Context, id int) (*models.Product, error) {
	var result *models.Product
	cacheKey := productKey(id)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		s.log.Warn("failed to read product cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if found {
		return result, nil
	}

	result, err = s.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(cacheKey, result, s.cacheTTL); err != nil {
		s.log.Warn("failed to cache product", slog.String("key", cacheKey), sl.Err(err))
	}
	return result, nil
}

// List возвращает все товары каталога с планами.
func (s *CatalogService) List(ctx context.Context) ([]*models.Product, error) {
	return s.repo.ListProducts(ctx)
}
