// Package middlewarectx содержит HTTP middleware для восстановления
// пользователя из сессионного токена.
//
// SessionMiddleware ищет токен сначала в HTTP-only cookie сессии, затем
// в заголовке Authorization (Bearer — для API-клиентов), валидирует его
// и кладёт пользователя сессии в контекст запроса.
//
// В случае ошибки проверки возвращает HTTP 401 Unauthorized с сообщением об ошибке.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-storefront/internal/http/response"
	"github.com/magabrotheeeer/subscription-storefront/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-storefront/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// SessionUserKey — ключ для пользователя сессии в контексте.
const SessionUserKey Key = "session_user"

// Service описывает интерфейс сервиса для валидации сессионного токена.
type Service interface {
	ValidateToken(ctx context.Context, token string) (*models.SessionUser, error)
}

// TokenFromRequest извлекает сессионный токен из запроса: сначала из
// cookie с именем cookieName, затем из заголовка Authorization.
// Пустая строка означает отсутствие токена.
func TokenFromRequest(r *http.Request, cookieName string) string {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value
	}
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// SessionUserFromContext возвращает пользователя сессии из контекста
// или nil, если запрос не аутентифицирован.
func SessionUserFromContext(ctx context.Context) *models.SessionUser {
	user, ok := ctx.Value(SessionUserKey).(*models.SessionUser)
	if !ok {
		return nil
	}
	return user
}

// SessionMiddleware возвращает HTTP middleware, который восстанавливает
// пользователя из сессионного токена.
//
// Если токен валиден, добавляет пользователя сессии в контекст запроса,
// иначе возвращает ошибку с HTTP статусом 401 Unauthorized.
func SessionMiddleware(authService Service, cookieName string, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.SessionMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			tokenStr := TokenFromRequest(r, cookieName)
			if tokenStr == "" {
				log.Error("missing session token")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Rejection(models.ReasonAuthRequired, "authentication required"))
				return
			}

			user, err := authService.ValidateToken(r.Context(), tokenStr)
			if err != nil {
				log.Error("invalid or expired session token", sl.Err(err))
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Rejection(models.ReasonAuthRequired, "invalid or expired session"))
				return
			}
			ctx := context.WithValue(r.Context(), SessionUserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
