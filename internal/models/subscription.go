package models

import (
	"time"

	"github.com/magabrotheeeer/subscription-storefront/internal/lib/tier"
)

// SubscriptionStatusActive — единственный статус, который движок когда-либо
// записывает. Истечение вычисляется при чтении (end_date <= now), фоновый
// перевод строки в EXPIRED не выполняется.
const SubscriptionStatusActive = "ACTIVE"

// UserSubscription — запись о праве пользователя на доступ к товару.
// На пару (user, product) существует не более одной строки: повторное
// оформление перезаписывает её, история прошлых сроков не ведётся.
type UserSubscription struct {
	ID        int           // Идентификатор записи
	UserUID   string        // Пользователь
	ProductID int           // Товар
	PlanType  tier.PlanType // Оформленный срок
	Status    string        // Статус, движок пишет только ACTIVE
	StartDate time.Time     // Начало действия
	EndDate   time.Time     // Окончание действия
	Amount    int           // Зафиксированная цена
	CreatedAt time.Time     // Дата первого оформления
	UpdatedAt time.Time     // Дата последней перезаписи
}

// IsCurrent сообщает, действует ли подписка в момент now.
// Единый контракт: статус ACTIVE и срок ещё не истёк.
func (s *UserSubscription) IsCurrent(now time.Time) bool {
	return s.Status == SubscriptionStatusActive && s.EndDate.After(now)
}

// SubscriptionInfo — подписка, дополненная данными товара и плана
// для отображения в личном кабинете.
type SubscriptionInfo struct {
	UserSubscription
	ProductName     string            // Название товара
	ProductCategory string            // Категория товара
	ProductImageURL string            // Изображение товара
	Plan            *SubscriptionPlan // Актуальный тарифный план товара
}

// Reason — машинно-различимая причина отказа в оформлении подписки.
type Reason string

// Ожидаемые бизнес-исходы операции Subscribe. Это не ошибки: они
// возвращаются как значения результата, а не через error.
const (
	ReasonAuthRequired       Reason = "auth_required"
	ReasonProductUnavailable Reason = "product_unavailable"
	ReasonNoPlans            Reason = "no_plans"
	ReasonPlanUnavailable    Reason = "plan_unavailable"
	ReasonAlreadySubscribed  Reason = "already_subscribed"
)

// SubscribeResult — структурированный результат операции Subscribe.
// При отказе заполняются Reason и Message, при успехе — Message и Subscription.
type SubscribeResult struct {
	Success      bool              // Признак успеха
	Reason       Reason            // Причина отказа (пустая при успехе)
	Message      string            // Человекочитаемое сообщение
	Subscription *UserSubscription // Созданная или перезаписанная подписка
}

// DummySubscribe используется для приёма запроса на оформление подписки.
type DummySubscribe struct {
	PlanType string `json:"plan_type" validate:"required,oneof=THREE_MONTHS SIX_MONTHS TWELVE_MONTHS"` // Срок подписки
}
