// Package services содержит бизнес-логику движка подписок: оформление,
// проверку права доступа, выбор лучшей цены и список подписок пользователя.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/subscription-storefront/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-storefront/internal/lib/tier"
	"github.com/magabrotheeeer/subscription-storefront/internal/models"
	"github.com/magabrotheeeer/subscription-storefront/internal/storage/repository"
)

// SubscriptionRepository определяет методы хранилища, нужные движку подписок.
type SubscriptionRepository interface {
	// GetProduct возвращает товар с тарифным планом или repository.ErrNotFound.
	GetProduct(ctx context.Context, id int) (*models.Product, error)
	// FindEntitlement возвращает подписку пары (пользователь, товар)
	// или repository.ErrNotFound.
	FindEntitlement(ctx context.Context, userUID string, productID int) (*models.UserSubscription, error)
	// UpsertEntitlement атомарно создаёт или перезаписывает подписку;
	// при действующей подписке возвращает repository.ErrActiveSubscription.
	UpsertEntitlement(ctx context.Context, entry models.UserSubscription) (*models.UserSubscription, error)
	// ListEntitlementsForUser возвращает подписки пользователя, новые первыми.
	ListEntitlementsForUser(ctx context.Context, userUID string) ([]*models.SubscriptionInfo, error)
}

// Cache описывает методы для кэширования представлений.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// InvalidationPublisher сигнализирует слою представления об устаревших
// ключах представлений. Сама инвалидация страниц выполняется снаружи.
type InvalidationPublisher interface {
	PublishInvalidation(keys ...string) error
}

// SubscriptionService реализует движок подписок.
type SubscriptionService struct {
	repo      SubscriptionRepository
	cache     Cache
	publisher InvalidationPublisher
	log       *slog.Logger
	cacheTTL  time.Duration
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
func NewSubscriptionService(repo SubscriptionRepository, cache Cache,
	publisher InvalidationPublisher, log *slog.Logger, cacheTTL time.Duration) *SubscriptionService {
	return &SubscriptionService{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		log:       log,
		cacheTTL:  cacheTTL,
	}
}

func dashboardKey(username string) string { return "dashboard:" + username }
func productKey(id int) string            { return fmt.Sprintf("product:%d", id) }

// Subscribe оформляет подписку пользователя session на товар productID
// со сроком plan. Предусловия проверяются по порядку, каждое нарушение
// завершает операцию структурированным отказом с собственной причиной.
// Ошибка возвращается только для неожиданных сбоев инфраструктуры.
func (s *SubscriptionService) Subscribe(ctx context.Context, session *models.SessionUser,
	productID int, plan tier.PlanType) (*models.SubscribeResult, error) {
	if session == nil {
		return &models.SubscribeResult{
			Reason:  models.ReasonAuthRequired,
			Message: "please login to subscribe to products",
		}, nil
	}

	product, err := s.repo.GetProduct(ctx, productID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if product == nil || product.Status != models.ProductStatusActive {
		return &models.SubscribeResult{
			Reason:  models.ReasonProductUnavailable,
			Message: "product not found or is not available",
		}, nil
	}

	if product.Plan == nil {
		return &models.SubscribeResult{
			Reason:  models.ReasonNoPlans,
			Message: "no subscription plans available for this product",
		}, nil
	}

	price, ok := product.Plan.PriceFor(plan)
	if !ok {
		return &models.SubscribeResult{
			Reason:  models.ReasonPlanUnavailable,
			Message: "selected plan is not available",
		}, nil
	}

	now := time.Now().UTC()

	// Предварительная проверка нужна только для дружелюбного отказа:
	// авторитетна охрана внутри условного upsert-а в хранилище.
	existing, err := s.repo.FindEntitlement(ctx, session.UID, productID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if existing != nil && existing.IsCurrent(now) {
		return &models.SubscribeResult{
			Reason:  models.ReasonAlreadySubscribed,
			Message: "you already have an active subscription for this product",
		}, nil
	}

	entry := models.UserSubscription{
		UserUID:   session.UID,
		ProductID: productID,
		PlanType:  plan,
		Status:    models.SubscriptionStatusActive,
		StartDate: now,
		EndDate:   plan.EndDate(now),
		Amount:    price,
	}
	created, err := s.repo.UpsertEntitlement(ctx, entry)
	if errors.Is(err, repository.ErrActiveSubscription) {
		// Конкурентный запрос успел оформить подписку между проверкой и записью.
		return &models.SubscribeResult{
			Reason:  models.ReasonAlreadySubscribed,
			Message: "you already have an active subscription for this product",
		}, nil
	}
	if err != nil {
		return nil, err
	}

	s.log.Info("subscription upserted",
		slog.Int("product_id", productID),
		slog.String("plan_type", string(plan)),
		slog.Int("amount", price))

	s.invalidateViews(productID, session.Username)

	return &models.SubscribeResult{
		Success: true,
		Message: fmt.Sprintf("Successfully subscribed to %s (%s)! Valid until %s",
			product.Name, plan.Label(), created.EndDate.Format("02 Jan 2006")),
		Subscription: created,
	}, nil
}

// invalidateViews сбрасывает кешированные представления и публикует
// событие инвалидации для слоя представления. Сбои здесь не прерывают
// успешную операцию, только логируются.
func (s *SubscriptionService) invalidateViews(productID int, username string) {
	keys := []string{productKey(productID), dashboardKey(username)}
	for _, key := range keys {
		if err := s.cache.Invalidate(key); err != nil {
			s.log.Warn("failed to invalidate cache", slog.String("key", key), sl.Err(err))
		}
	}
	if err := s.publisher.PublishInvalidation(keys...); err != nil {
		s.log.Warn("failed to publish invalidation event", sl.Err(err))
	}
}

// IsEntitled сообщает, имеет ли пользователь действующий доступ к товару.
// Контракт единый с проверкой конфликта в Subscribe: строка должна быть
// в статусе ACTIVE и срок её действия ещё не истёк.
func (s *SubscriptionService) IsEntitled(ctx context.Context, session *models.SessionUser, productID int) (bool, error) {
	if session == nil {
		return false, nil
	}
	sub, err := s.repo.FindEntitlement(ctx, session.UID, productID)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return sub.IsCurrent(time.Now().UTC()), nil
}

// List возвращает подписки пользователя для личного кабинета,
// используя кеш или репозиторий. Порядок — от новых к старым.
func (s *SubscriptionService) List(ctx context.Context, session *models.SessionUser) ([]*models.SubscriptionInfo, error) {
	var result []*models.SubscriptionInfo
	cacheKey := dashboardKey(session.Username)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		s.log.Warn("failed to read dashboard cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if found {
		return result, nil
	}

	result, err = s.repo.ListEntitlementsForUser(ctx, session.UID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(cacheKey, result, s.cacheTTL); err != nil {
		s.log.Warn("failed to cache dashboard", slog.String("key", cacheKey), sl.Err(err))
	}
	return result, nil
}

// BestValueTier выбирает срок с наименьшей удельной стоимостью месяца
// среди доступных. Возвращает nil, если доступных сроков нет. Сроки
// перебираются в фиксированном порядке три → шесть → двенадцать, замена
// текущего лучшего происходит только при строгом улучшении, поэтому при
// равенстве выигрывает более короткий срок.
func (s *SubscriptionService) BestValueTier(plan *models.SubscriptionPlan) *tier.PlanType {
	if plan == nil {
		return nil
	}
	var best *tier.PlanType
	var bestMonthly float64
	for _, t := range tier.All() {
		price, ok := plan.PriceFor(t)
		if !ok {
			continue
		}
		monthly := float64(price) / float64(t.Months())
		if best == nil || monthly < bestMonthly {
			t := t
			best = &t
			bestMonthly = monthly
		}
	}
	return best
}
