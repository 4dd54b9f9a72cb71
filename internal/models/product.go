// Package models содержит доменные структуры витрины: товары, тарифные
// планы, пользователей и подписки, а также вспомогательные типы для
// приёма данных из JSON-запросов.
package models

import (
	"time"

	"github.com/magabrotheeeer/subscription-storefront/internal/lib/tier"
)

// Статусы товара. Подписка возможна только на товар в статусе active.
const (
	ProductStatusActive   = "active"
	ProductStatusDraft    = "draft"
	ProductStatusArchived = "archived"
)

// Product представляет товар каталога.
// Поле Plan может быть nil — это означает, что тарифных планов у товара нет.
type Product struct {
	ID          int               // Идентификатор товара
	Name        string            // Название
	Description string            // Описание
	Category    string            // Категория
	Features    []string          // Список особенностей, порядок значим
	Status      string            // Статус: active, draft или archived
	ImageURL    string            // Ссылка на изображение
	Plan        *SubscriptionPlan // Тарифный план (nil, если планов нет)
	CreatedAt   time.Time         // Дата создания
	UpdatedAt   time.Time         // Дата последнего изменения
}

// SubscriptionPlan хранит цены трёх фиксированных сроков подписки.
// Цена nil или <= 0 означает, что срок недоступен для оформления.
type SubscriptionPlan struct {
	ID        int  // Идентификатор плана
	ProductID int  // Товар, которому принадлежит план (1:1)
	Three     *int // Цена за 3 месяца
	Six       *int // Цена за 6 месяцев
	Twelve    *int // Цена за 12 месяцев
}

// PriceFor возвращает цену выбранного срока и признак его доступности.
// Срок доступен, только если цена задана и строго положительна.
func (p *SubscriptionPlan) PriceFor(t tier.PlanType) (int, bool) {
	var price *int
	switch t {
	case tier.ThreeMonths:
		price = p.Three
	case tier.SixMonths:
		price = p.Six
	case tier.TwelveMonths:
		price = p.Twelve
	}
	if price == nil || *price <= 0 {
		return 0, false
	}
	return *price, true
}

// DummyProduct используется для приёма данных товара из JSON-запроса,
// прежде чем конвертировать их в Product и SubscriptionPlan.
type DummyProduct struct {
	Name        string   `json:"name" validate:"required,min=2,max=200"`                    // Название
	Description string   `json:"description" validate:"required"`                           // Описание
	Category    string   `json:"category" validate:"required"`                              // Категория
	Features    []string `json:"features,omitempty" validate:"omitempty,dive,min=1"`        // Особенности
	Status      string   `json:"status" validate:"required,oneof=active draft archived"`    // Статус
	ImageURL    string   `json:"image_url,omitempty" validate:"omitempty,url"`              // Изображение
	PriceThree  int      `json:"price_three,omitempty" validate:"omitempty,gte=0"`          // Цена за 3 месяца
	PriceSix    int      `json:"price_six,omitempty" validate:"omitempty,gte=0"`            // Цена за 6 месяцев
	PriceTwelve int      `json:"price_twelve,omitempty" validate:"omitempty,gte=0"`         // Цена за 12 месяцев
}
