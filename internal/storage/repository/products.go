package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/subscription-storefront/internal/models"
)

// priceOrNull преобразует цену запроса в nullable-значение столбца:
// нулевая и отрицательная цена означают отсутствие срока.
func priceOrNull(price int) sql.NullInt64 {
	if price <= 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(price), Valid: true}
}

func nullToPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	p := int(v.Int64)
	return &p
}

// CreateProduct вставляет товар и, если задана хотя бы одна цена,
// вложенный тарифный план. Обе вставки выполняются в одной транзакции.
func (s *Storage) CreateProduct(ctx context.Context, req models.DummyProduct) (*models.Product, error) {
	const op = "storage.CreateProduct"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	features := req.Features
	if features == nil {
		features = []string{}
	}
	featuresJSON, err := json.Marshal(features)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	product := &models.Product{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Features:    features,
		Status:      req.Status,
		ImageURL:    req.ImageURL,
	}

	query := `INSERT INTO products (name, description, category, features, status, image_url)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id, created_at, updated_at`
	if err = tx.QueryRowContext(ctx, query,
		req.Name, req.Description, req.Category, featuresJSON, req.Status,
		req.ImageURL).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if req.PriceThree > 0 || req.PriceSix > 0 || req.PriceTwelve > 0 {
		plan := &models.SubscriptionPlan{ProductID: product.ID}
		query = `INSERT INTO subscription_plans (product_id, three, six, twelve)
				 VALUES ($1, $2, $3, $4)
				 RETURNING id, three, six, twelve`
		var three, six, twelve sql.NullInt64
		if err = tx.QueryRowContext(ctx, query, product.ID,
			priceOrNull(req.PriceThree), priceOrNull(req.PriceSix),
			priceOrNull(req.PriceTwelve)).Scan(&plan.ID, &three, &six, &twelve); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		plan.Three, plan.Six, plan.Twelve = nullToPtr(three), nullToPtr(six), nullToPtr(twelve)
		product.Plan = plan
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return product, nil
}

// UpdateProduct обновляет все поля товара по ID и повторно записывает
// тарифный план. Возвращает ErrNotFound, если товара нет.
func (s *Storage) UpdateProduct(ctx context.Context, id int, req models.DummyProduct) (*models.Product, error) {
	const op = "storage.UpdateProduct"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	features := req.Features
	if features == nil {
		features = []string{}
	}
	featuresJSON, err := json.Marshal(features)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	product := &models.Product{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Features:    features,
		Status:      req.Status,
		ImageURL:    req.ImageURL,
	}

	query := `UPDATE products
			  SET name = $1, description = $2, category = $3, features = $4,
			      status = $5, image_url = $6, updated_at = NOW()
			  WHERE id = $7
			  RETURNING created_at, updated_at`
	err = tx.QueryRowContext(ctx, query,
		req.Name, req.Description, req.Category, featuresJSON, req.Status,
		req.ImageURL, id).Scan(&product.CreatedAt, &product.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if req.PriceThree > 0 || req.PriceSix > 0 || req.PriceTwelve > 0 {
		plan := &models.SubscriptionPlan{ProductID: id}
		query = `INSERT INTO subscription_plans (product_id, three, six, twelve)
				 VALUES ($1, $2, $3, $4)
				 ON CONFLICT (product_id) DO UPDATE
				 SET three = EXCLUDED.three, six = EXCLUDED.six, twelve = EXCLUDED.twelve
				 RETURNING id, three, six, twelve`
		var three, six, twelve sql.NullInt64
		if err = tx.QueryRowContext(ctx, query, id,
			priceOrNull(req.PriceThree), priceOrNull(req.PriceSix),
			priceOrNull(req.PriceTwelve)).Scan(&plan.ID, &three, &six, &twelve); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		plan.Three, plan.Six, plan.Twelve = nullToPtr(three), nullToPtr(six), nullToPtr(twelve)
		product.Plan = plan
	} else {
		query = `DELETE FROM subscription_plans WHERE product_id = $1`
		if _, err = tx.ExecContext(ctx, query, id); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return product, nil
}

// GetProduct возвращает товар вместе с тарифным планом или ErrNotFound.
func (s *Storage) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	const op = "storage.GetProduct"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT p.id, p.name, p.description, p.category, p.features, p.status,
			      p.image_url, p.created_at, p.updated_at,
			      sp.id, sp.three, sp.six, sp.twelve
			  FROM products p
			  LEFT JOIN subscription_plans sp ON sp.product_id = p.id
			  WHERE p.id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	product, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return product, nil
}

// ListProducts возвращает все товары каталога с планами, по возрастанию ID.
func (s *Storage) ListProducts(ctx context.Context) ([]*models.Product, error) {
	const op = "storage.ListProducts"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT p.id, p.name, p.description, p.category, p.features, p.status,
			      p.image_url, p.created_at, p.updated_at,
			      sp.id, sp.three, sp.six, sp.twelve
			  FROM products p
			  LEFT JOIN subscription_plans sp ON sp.product_id = p.id
			  ORDER BY p.id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, product)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*models.Product, error) {
	var p models.Product
	var featuresJSON []byte
	var planID, three, six, twelve sql.NullInt64

	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Category, &featuresJSON,
		&p.Status, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt,
		&planID, &three, &six, &twelve); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(featuresJSON, &p.Features); err != nil {
		return nil, err
	}
	if planID.Valid {
		p.Plan = &models.SubscriptionPlan{
			ID:        int(planID.Int64),
			ProductID: p.ID,
			Three:     nullToPtr(three),
			Six:       nullToPtr(six),
			Twelve:    nullToPtr(twelve),
		}
	}
	return &p, nil
}
