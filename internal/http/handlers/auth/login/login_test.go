package login

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/subscription-storefront/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/subscription-storefront/internal/models"
	authservice "github.com/magabrotheeeer/subscription-storefront/internal/services/auth"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Login(ctx context.Context, username, password string) (string, error) {
	args := m.Called(ctx, username, password)
	return args.String(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestLoginHandler_ServeHTTP(t *testing.T) {
	cookie := register.CookieConfig{Name: "session", TTL: time.Hour, Secure: false}

	tests := []struct {
		name           string
		requestBody    any
		setupMocks     func(s *ServiceMock)
		wantStatusCode int
		wantStatus     string
		wantCookie     bool
	}{
		{
			name:        "успешный вход",
			requestBody: models.DummyLogin{Username: "user1", Password: "secret123"},
			setupMocks: func(s *ServiceMock) {
				s.On("Login", mock.Anything, "user1", "secret123").Return("tok", nil).Once()
			},
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
			wantCookie:     true,
		},
		{
			name:           "некорректный json",
			requestBody:    "not a json",
			setupMocks:     func(_ *ServiceMock) {},
			wantStatusCode: http.StatusBadRequest,
			wantStatus:     "Error",
		},
		{
			name:           "нет пароля",
			requestBody:    models.DummyLogin{Username: "user1"},
			setupMocks:     func(_ *ServiceMock) {},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantStatus:     "Error",
		},
		{
			name:        "неверные учётные данные",
			requestBody: models.DummyLogin{Username: "user1", Password: "wrongpass"},
			setupMocks: func(s *ServiceMock) {
				s.On("Login", mock.Anything, "user1", "wrongpass").
					Return("", authservice.ErrInvalidCredentials).Once()
			},
			wantStatusCode: http.StatusUnauthorized,
			wantStatus:     "Error",
		},
		{
			name:        "сбой сервиса",
			requestBody: models.DummyLogin{Username: "user1", Password: "secret123"},
			setupMocks: func(s *ServiceMock) {
				s.On("Login", mock.Anything, "user1", "secret123").
					Return("", errors.New("db down")).Once()
			},
			wantStatusCode: http.StatusInternalServerError,
			wantStatus:     "Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			tt.setupMocks(svc)

			handler := New(newNoopLogger(), svc, cookie)

			var bodyBytes []byte
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				var err error
				bodyBytes, err = json.Marshal(v)
				require.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(bodyBytes))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, tt.wantStatus, got["status"])

			cookies := rec.Result().Cookies()
			if tt.wantCookie {
				require.Len(t, cookies, 1)
				assert.Equal(t, "session", cookies[0].Name)
				assert.Equal(t, "tok", cookies[0].Value)
			} else {
				assert.Empty(t, cookies)
			}

			svc.AssertExpectations(t)
		})
	}
}
