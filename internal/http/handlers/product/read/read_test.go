package read

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/subscription-storefront/internal/lib/tier"
	"github.com/magabrotheeeer/subscription-storefront/internal/models"
	"github.com/magabrotheeeer/subscription-storefront/internal/storage/repository"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Read(ctx context.Context, id int) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

type EngineMock struct {
	mock.Mock
}

func (m *EngineMock) BestValueTier(plan *models.SubscriptionPlan) *tier.PlanType {
	args := m.Called(plan)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*tier.PlanType)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func intPtr(v int) *int { return &v }

func planPtr(t tier.PlanType) *tier.PlanType { return &t }

func newRequest(productID string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/products/"+productID, nil)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", productID)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	ctx = context.WithValue(ctx, middleware.RequestIDKey, "reqid123")
	return req.WithContext(ctx)
}

func TestReadHandler_ServeHTTP(t *testing.T) {
	product := &models.Product{
		ID:     1,
		Name:   "Pro Toolkit",
		Status: models.ProductStatusActive,
		Plan: &models.SubscriptionPlan{
			Three:  intPtr(999),
			Six:    intPtr(1899),
			Twelve: intPtr(3599),
		},
	}

	tests := []struct {
		name           string
		productID      string
		setupMocks     func(s *ServiceMock, e *EngineMock)
		wantStatusCode int
		wantStatus     string
		wantBestValue  any
	}{
		{
			name:      "карточка с лучшей ценой",
			productID: "1",
			setupMocks: func(s *ServiceMock, e *EngineMock) {
				s.On("Read", mock.Anything, 1).Return(product, nil).Once()
				e.On("BestValueTier", product.Plan).Return(planPtr(tier.TwelveMonths)).Once()
			},
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
			wantBestValue:  "TWELVE_MONTHS",
		},
		{
			name:      "товар без планов не содержит best_value",
			productID: "1",
			setupMocks: func(s *ServiceMock, e *EngineMock) {
				noPlan := &models.Product{ID: 1, Name: "Pro Toolkit", Status: models.ProductStatusActive}
				s.On("Read", mock.Anything, 1).Return(noPlan, nil).Once()
				e.On("BestValueTier", (*models.SubscriptionPlan)(nil)).Return(nil).Once()
			},
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
			wantBestValue:  nil,
		},
		{
			name:      "товар не найден",
			productID: "99",
			setupMocks: func(s *ServiceMock, _ *EngineMock) {
				s.On("Read", mock.Anything, 99).Return(nil, repository.ErrNotFound).Once()
			},
			wantStatusCode: http.StatusNotFound,
			wantStatus:     "Error",
		},
		{
			name:           "некорректный id",
			productID:      "abc",
			setupMocks:     func(_ *ServiceMock, _ *EngineMock) {},
			wantStatusCode: http.StatusBadRequest,
			wantStatus:     "Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			engine := new(EngineMock)
			tt.setupMocks(svc, engine)

			handler := New(newNoopLogger(), svc, engine)

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, newRequest(tt.productID))

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, tt.wantStatus, got["status"])

			if tt.wantStatusCode == http.StatusOK {
				data := got["data"].(map[string]any)
				assert.Equal(t, tt.wantBestValue, data["best_value"])
				assert.NotNil(t, data["product"])
			}

			svc.AssertExpectations(t)
			engine.AssertExpectations(t)
		})
	}
}
