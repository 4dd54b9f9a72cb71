package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/subscription-storefront/internal/models"
)

// UpsertEntitlement атомарно создаёт или перезаписывает подписку по
// уникальной паре (user_uid, product_id). Перезапись разрешена только
// когда существующая строка не является действующей: охранное условие
// в DO UPDATE выполняется на стороне сервера, поэтому гонка
// «проверил-записал» между конкурентными запросами невозможна.
// Если действующая подписка уже есть, возвращает ErrActiveSubscription.
func (s *Storage) UpsertEntitlement(ctx context.Context, entry models.UserSubscription) (*models.UserSubscription, error) {
	const op = "storage.UpsertEntitlement"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO user_subscriptions (user_uid, product_id, plan_type, status,
			      start_date, end_date, amount)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  ON CONFLICT (user_uid, product_id) DO UPDATE
			  SET plan_type = EXCLUDED.plan_type,
			      status = EXCLUDED.status,
			      start_date = EXCLUDED.start_date,
			      end_date = EXCLUDED.end_date,
			      amount = EXCLUDED.amount,
			      updated_at = NOW()
			  WHERE user_subscriptions.status <> $8
			     OR user_subscriptions.end_date <= EXCLUDED.start_date
			  RETURNING id, created_at, updated_at`
	result := entry
	err := s.DB.QueryRowContext(ctx, query,
		entry.UserUID, entry.ProductID, entry.PlanType, entry.Status,
		entry.StartDate, entry.EndDate, entry.Amount,
		models.SubscriptionStatusActive).Scan(&result.ID, &result.CreatedAt, &result.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrActiveSubscription
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// FindEntitlement возвращает подписку пары (пользователь, товар)
// или ErrNotFound, если строки нет.
func (s *Storage) FindEntitlement(ctx context.Context, userUID string, productID int) (*models.UserSubscription, error) {
	const op = "storage.FindEntitlement"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, product_id, plan_type, status, start_date, end_date,
			      amount, created_at, updated_at
			  FROM user_subscriptions
			  WHERE user_uid = $1 AND product_id = $2`
	row := s.DB.QueryRowContext(ctx, query, userUID, productID)

	var result models.UserSubscription
	err := row.Scan(&result.ID, &result.UserUID, &result.ProductID, &result.PlanType,
		&result.Status, &result.StartDate, &result.EndDate, &result.Amount,
		&result.CreatedAt, &result.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// ListEntitlementsForUser возвращает подписки пользователя, дополненные
// данными товара и плана, от новых к старым.
func (s *Storage) ListEntitlementsForUser(ctx context.Context, userUID string) ([]*models.SubscriptionInfo, error) {
	const op = "storage.ListEntitlementsForUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT us.id, us.user_uid, us.product_id, us.plan_type, us.status,
			      us.start_date, us.end_date, us.amount, us.created_at, us.updated_at,
			      p.name, p.category, p.image_url,
			      sp.id, sp.three, sp.six, sp.twelve
			  FROM user_subscriptions us
			  JOIN products p ON p.id = us.product_id
			  LEFT JOIN subscription_plans sp ON sp.product_id = p.id
			  WHERE us.user_uid = $1
			  ORDER BY us.created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.SubscriptionInfo
	for rows.Next() {
		var item models.SubscriptionInfo
		var planID, three, six, twelve sql.NullInt64
		if err = rows.Scan(&item.ID, &item.UserUID, &item.ProductID, &item.PlanType,
			&item.Status, &item.StartDate, &item.EndDate, &item.Amount,
			&item.CreatedAt, &item.UpdatedAt,
			&item.ProductName, &item.ProductCategory, &item.ProductImageURL,
			&planID, &three, &six, &twelve); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if planID.Valid {
			item.Plan = &models.SubscriptionPlan{
				ID:        int(planID.Int64),
				ProductID: item.ProductID,
				Three:     nullToPtr(three),
				Six:       nullToPtr(six),
				Twelve:    nullToPtr(twelve),
			}
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
