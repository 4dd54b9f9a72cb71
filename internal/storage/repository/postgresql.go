// Package repository реализует хранилище данных на основе PostgreSQL
// для управления каталогом товаров, пользователями и подписками.
// Предоставляет методы создания, чтения и обновления записей, а также
// атомарный условный upsert подписки.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Сентинельные ошибки слоя хранения.
var (
	// ErrNotFound возвращается, когда запрошенная запись отсутствует.
	ErrNotFound = errors.New("not found")
	// ErrUsernameTaken возвращается при попытке занять существующий username.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrActiveSubscription возвращается условным upsert-ом, когда действующая
	// подписка на пару (пользователь, товар) уже существует.
	ErrActiveSubscription = errors.New("active subscription already exists")
)

// Storage инкапсулирует соединение с базой данных PostgreSQL
// и реализует методы работы с каталогом, пользователями и подписками.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady проверяет готовность базы данных.
func CheckDatabaseReady(storage *Storage) error {
	var exists bool
	err := storage.DB.QueryRow(`SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'user_subscriptions'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table user_subscriptions missing or query error: %w", err)
	}
	return nil
}
