// Package services содержит логику бизнес-уровня для работы с пользователями и аутентификацией.
package services

import (
	"context"
	"errors"

	"github.com/magabrotheeeer/subscription-storefront/internal/lib/jwt"
	"github.com/magabrotheeeer/subscription-storefront/internal/lib/password"
	"github.com/magabrotheeeer/subscription-storefront/internal/models"
	"github.com/magabrotheeeer/subscription-storefront/internal/storage/repository"
)

// ErrInvalidCredentials возвращается при неверном username или пароле.
// Несуществующий пользователь и неверный пароль неразличимы для вызывающего.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его UID.
	RegisterUser(ctx context.Context, user models.User) (string, error)

	// GetUserByUsername возвращает пользователя по имени или ошибку, если не найден.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// AuthService отвечает за регистрацию, авторизацию и валидацию сессионных токенов.
type AuthService struct {
	users      UserRepository
	tokenMaker jwt.Maker
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, tokenMaker jwt.Maker) *AuthService {
	return &AuthService{
		users:      users,
		tokenMaker: tokenMaker,
	}
}

// Register создает нового пользователя с хэшированием пароля и сразу
// выдаёт сессионный токен. Занятый username приводит к
// repository.ErrUsernameTaken.
func (s *AuthService) Register(ctx context.Context, req models.DummyRegister) (uid, token string, err error) {
	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return "", "", err
	}
	user := models.User{
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hashed,
	}
	uid, err = s.users.RegisterUser(ctx, user)
	if err != nil {
		return "", "", err
	}
	token, err = s.tokenMaker.GenerateToken(uid, req.Username)
	if err != nil {
		return "", "", err
	}
	return uid, token, nil
}

// Login проверяет пароль пользователя и выдаёт сессионный токен.
// Проверка пароля единообразная для всех учётных записей: bcrypt-сравнение
// сохранённого хэша с введённым паролем.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (string, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.tokenMaker.GenerateToken(user.UID, user.Username)
}

// ValidateToken проверяет сессионный токен и возвращает пользователя сессии.
// Токен валиден при корректной подписи и неистёкшем сроке действия.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*models.SessionUser, error) {
	claims, err := s.tokenMaker.ParseToken(token)
	if err != nil {
		return nil, err
	}
	return &models.SessionUser{
		UID:      claims.UserUID,
		Username: claims.Username,
	}, nil
}
