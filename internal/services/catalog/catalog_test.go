package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/subscription-storefront/internal/models"
	"github.com/magabrotheeeer/subscription-storefront/internal/storage/repository"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateProduct(ctx context.Context, req models.DummyProduct) (*models.Product, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *RepoMock) UpdateProduct(ctx context.Context, id int, req models.DummyProduct) (*models.Product, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *RepoMock) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *RepoMock) ListProducts(ctx context.Context) ([]*models.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Product), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}
func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}
func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestCatalogService_Create(t *testing.T) {
	req := models.DummyProduct{
		Name:        "Pro Toolkit",
		Description: "Набор инструментов",
		Category:    "tools",
		Status:      models.ProductStatusActive,
		PriceThree:  999,
	}

	t.Run("успешное создание", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("CreateProduct", mock.Anything, req).
			Return(&models.Product{ID: 1, Name: "Pro Toolkit"}, nil).Once()

		svc := NewCatalogService(repo, new(CacheMock), newNoopLogger(), time.Hour)

		product, err := svc.Create(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 1, product.ID)

		repo.AssertExpectations(t)
	})

	t.Run("ошибка хранилища", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("CreateProduct", mock.Anything, req).
			Return(nil, errors.New("db down")).Once()

		svc := NewCatalogService(repo, new(CacheMock), newNoopLogger(), time.Hour)

		product, err := svc.Create(context.Background(), req)
		assert.Error(t, err)
		assert.Nil(t, product)
	})
}

func TestCatalogService_Update(t *testing.T) {
	req := models.DummyProduct{
		Name:        "Pro Toolkit",
		Description: "Набор инструментов",
		Category:    "tools",
		Status:      models.ProductStatusArchived,
	}

	t.Run("обновление сбрасывает кеш карточки", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		repo.On("UpdateProduct", mock.Anything, 1, req).
			Return(&models.Product{ID: 1, Status: models.ProductStatusArchived}, nil).Once()
		cache.On("Invalidate", "product:1").Return(nil).Once()

		svc := NewCatalogService(repo, cache, newNoopLogger(), time.Hour)

		product, err := svc.Update(context.Background(), 1, req)
		require.NoError(t, err)
		assert.Equal(t, models.ProductStatusArchived, product.Status)

		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("несуществующий товар", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("UpdateProduct", mock.Anything, 99, req).
			Return(nil, repository.ErrNotFound).Once()

		svc := NewCatalogService(repo, new(CacheMock), newNoopLogger(), time.Hour)

		_, err := svc.Update(context.Background(), 99, req)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("сбой кеша не мешает обновлению", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		repo.On("UpdateProduct", mock.Anything, 1, req).
			Return(&models.Product{ID: 1}, nil).Once()
		cache.On("Invalidate", "product:1").Return(errors.New("redis down")).Once()

		svc := NewCatalogService(repo, cache, newNoopLogger(), time.Hour)

		product, err := svc.Update(context.Background(), 1, req)
		require.NoError(t, err)
		assert.NotNil(t, product)
	})
}

func TestCatalogService_Read(t *testing.T) {
	cached := &models.Product{ID: 1, Name: "Pro Toolkit"}

	t.Run("попадание в кеш", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		cache.On("Get", "product:1", mock.Anything).
			Run(func(args mock.Arguments) {
				out := args.Get(1).(**models.Product)
				*out = cached
			}).Return(true, nil).Once()

		svc := NewCatalogService(repo, cache, newNoopLogger(), time.Hour)

		product, err := svc.Read(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, cached, product)

		repo.AssertExpectations(t)
	})

	t.Run("промах кеша идёт в хранилище", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		cache.On("Get", "product:1", mock.Anything).Return(false, nil).Once()
		repo.On("GetProduct", mock.Anything, 1).Return(cached, nil).Once()
		cache.On("Set", "product:1", cached, time.Hour).Return(nil).Once()

		svc := NewCatalogService(repo, cache, newNoopLogger(), time.Hour)

		product, err := svc.Read(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, cached, product)

		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("несуществующий товар", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		cache.On("Get", "product:99", mock.Anything).Return(false, nil).Once()
		repo.On("GetProduct", mock.Anything, 99).Return(nil, repository.ErrNotFound).Once()

		svc := NewCatalogService(repo, cache, newNoopLogger(), time.Hour)

		_, err := svc.Read(context.Background(), 99)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestCatalogService_List(t *testing.T) {
	repo := new(RepoMock)
	items := []*models.Product{{ID: 1}, {ID: 2}}
	repo.On("ListProducts", mock.Anything).Return(items, nil).Once()

	svc := NewCatalogService(repo, new(CacheMock), newNoopLogger(), time.Hour)

	got, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, items, got)
}
