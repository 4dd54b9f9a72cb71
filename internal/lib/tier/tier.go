// Package tier определяет закрытое перечисление сроков подписки
// и календарную арифметику окна действия.
package tier

import (
	"fmt"
	"time"
)

// PlanType — один из трёх фиксированных сроков подписки.
type PlanType string

const (
	// ThreeMonths — подписка на 3 месяца.
	ThreeMonths PlanType = "THREE_MONTHS"
	// SixMonths — подписка на 6 месяцев.
	SixMonths PlanType = "SIX_MONTHS"
	// TwelveMonths — подписка на 12 месяцев.
	TwelveMonths PlanType = "TWELVE_MONTHS"
)

// All возвращает все сроки в фиксированном порядке вычисления:
// три → шесть → двенадцать месяцев. Порядок значим для выбора
// лучшей цены: при равенстве удельной стоимости выигрывает более
// короткий срок, встреченный первым.
func All() []PlanType {
	return []PlanType{ThreeMonths, SixMonths, TwelveMonths}
}

// Parse преобразует строку в PlanType или возвращает ошибку,
// если строка не входит в перечисление.
func Parse(s string) (PlanType, error) {
	switch PlanType(s) {
	case ThreeMonths, SixMonths, TwelveMonths:
		return PlanType(s), nil
	}
	return "", fmt.Errorf("unknown plan type: %q", s)
}

// Months возвращает длительность срока в календарных месяцах.
func (t PlanType) Months() int {
	switch t {
	case ThreeMonths:
		return 3
	case SixMonths:
		return 6
	case TwelveMonths:
		return 12
	}
	return 0
}

// Label возвращает человекочитаемое название срока для сообщений
// пользователю, например "Three Months".
func (t PlanType) Label() string {
	switch t {
	case ThreeMonths:
		return "Three Months"
	case SixMonths:
		return "Six Months"
	case TwelveMonths:
		return "Twelve Months"
	}
	return string(t)
}

// EndDate вычисляет дату окончания подписки от start по календарю.
// Используется time.AddDate: прибавление месяцев нормализует переполнение,
// 31 января + 1 месяц даёт 2 или 3 марта. Подсчёт по 30 дней не применяется.
func (t PlanType) EndDate(start time.Time) time.Time {
	return start.AddDate(0, t.Months(), 0)
}
