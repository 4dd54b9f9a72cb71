// Package list реализует HTTP-обработчик списка подписок пользователя.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-storefront/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-storefront/internal/http/response"
	"github.com/magabrotheeeer/subscription-storefront/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-storefront/internal/models"
)

// Handler управляет HTTP-запросами на получение подписок пользователя.
type Handler struct {
	log    *slog.Logger // Логгер для записи информации и ошибок
	engine Engine       // Движок подписок
}

// Engine описывает операцию движка подписок для чтения личного кабинета.
type Engine interface {
	List(ctx context.Context, session *models.SessionUser) ([]*models.SubscriptionInfo, error)
}

// New создает новый Handler с переданными логгером и движком.
func New(log *slog.Logger, engine Engine) *Handler {
	return &Handler{
		log:    log,
		engine: engine,
	}
}

// ServeHTTP godoc
// @Summary Список подписок пользователя
// @Description Возвращает все подписки текущего пользователя с данными товаров и признаком актуальности.
// @Tags Subscriptions
// @Produce  json
// @Success 200 {object} map[string]any "Список подписок"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /subscriptions/list [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	session := middlewarectx.SessionUserFromContext(r.Context())
	if session == nil {
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Rejection(models.ReasonAuthRequired, "please login to view subscriptions"))
		return
	}

	items, err := h.engine.List(r.Context(), session)
	if err != nil {
		log.Error("failed to list subscriptions", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list subscriptions"))
		return
	}

	log.Info("subscriptions listed", slog.Int("count", len(items)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"count":         len(items),
		"subscriptions": items,
	}))
}
