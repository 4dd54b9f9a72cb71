package models

import "time"

// User представляет зарегистрированного пользователя витрины.
type User struct {
	UID          string    // Уникальный идентификатор пользователя
	Username     string    // Имя пользователя (уникальное)
	Email        string    // Электронная почта
	PasswordHash string    // bcrypt-хэш пароля
	CreatedAt    time.Time // Дата регистрации
}

// SessionUser — пользователь, восстановленный из сессионного токена.
// Передаётся явным параметром через все операции движка подписок,
// вместо чтения глобального состояния запроса.
type SessionUser struct {
	UID      string // Идентификатор пользователя
	Username string // Имя пользователя
}

// DummyRegister используется для приёма данных регистрации из JSON-запроса.
type DummyRegister struct {
	Username string `json:"username" validate:"required,min=3,max=50,alphanum"` // Имя пользователя
	Email    string `json:"email" validate:"required,email"`                    // Электронная почта
	Password string `json:"password" validate:"required,min=6"`                 // Пароль
}

// DummyLogin используется для приёма учётных данных из JSON-запроса.
type DummyLogin struct {
	Username string `json:"username" validate:"required,min=3,max=50"` // Имя пользователя
	Password string `json:"password" validate:"required,min=6"`        // Пароль
}
