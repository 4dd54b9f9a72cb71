package register

import (
	"bytes"
	"context"
	"encoding/json"
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

	"github.com/magabrotheeeer/subscription-storefront/internal/models"
	"github.com/magabrotheeeer/subscription-storefront/internal/storage/repository"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Register(ctx context.Context, req models.DummyRegister) (string, string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.String(1), args.Error(2)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestRegisterHandler_ServeHTTP(t *testing.T) {
	cookie := CookieConfig{Name: "session", TTL: time.Hour, Secure: false}
	valid := models.DummyRegister{Username: "user1", Email: "user1@example.com", Password: "secret123"}

	tests := []struct {
		name           string
		requestBody    any
		setupMocks     func(s *ServiceMock)
		wantStatusCode int
		wantStatus     string
		wantCookie     bool
	}{
		{
			name:        "успешная регистрация открывает сессию",
			requestBody: valid,
			setupMocks: func(s *ServiceMock) {
				s.On("Register", mock.Anything, valid).Return("uid-1", "tok", nil).Once()
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
			name:           "слишком короткий пароль",
			requestBody:    models.DummyRegister{Username: "user1", Email: "user1@example.com", Password: "123"},
			setupMocks:     func(_ *ServiceMock) {},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantStatus:     "Error",
		},
		{
			name:           "некорректный email",
			requestBody:    models.DummyRegister{Username: "user1", Email: "not-an-email", Password: "secret123"},
			setupMocks:     func(_ *ServiceMock) {},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantStatus:     "Error",
		},
		{
			name:        "занятый username",
			requestBody: valid,
			setupMocks: func(s *ServiceMock) {
				s.On("Register", mock.Anything, valid).
					Return("", "", repository.ErrUsernameTaken).Once()
			},
			wantStatusCode: http.StatusConflict,
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

			req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(bodyBytes))
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
				assert.True(t, cookies[0].HttpOnly)

				data := got["data"].(map[string]any)
				assert.Equal(t, "uid-1", data["uid"])
				assert.Equal(t, "user1", data["username"])
				assert.Equal(t, "tok", data["token"])
			} else {
				assert.Empty(t, cookies)
			}

			svc.AssertExpectations(t)
		})
	}
}
