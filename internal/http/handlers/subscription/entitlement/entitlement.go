// Package entitlement реализует HTTP-обработчик проверки доступа к товару.
package entitlement

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-storefront/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-storefront/internal/http/response"
	"github.com/magabrotheeeer/subscription-storefront/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-storefront/internal/models"
)

// Handler управляет HTTP-запросами на проверку действующей подписки.
type Handler struct {
	log    *slog.Logger // Логгер для записи информации и ошибок
	engine Engine       // Движок подписок
}

// Engine описывает операцию движка подписок для проверки доступа.
type Engine interface {
	IsEntitled(ctx context.Context, session *models.SessionUser, productID int) (bool, error)
}

// New создает новый Handler с переданными логгером и движком.
func New(log *slog.Logger, engine Engine) *Handler {
	return &Handler{
		log:    log,
		engine: engine,
	}
}

// ServeHTTP godoc
// @Summary Проверить доступ к товару
// @Description Возвращает признак наличия действующей подписки текущего пользователя на товар.
// @Tags Subscriptions
// @Produce  json
// @Param id path int true "ID товара"
// @Success 200 {object} map[string]any "Признак доступа"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /products/{id}/entitlement [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.entitlement"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	productID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || productID <= 0 {
		log.Error("invalid product id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid product id"))
		return
	}

	session := middlewarectx.SessionUserFromContext(r.Context())

	entitled, err := h.engine.IsEntitled(r.Context(), session, productID)
	if err != nil {
		log.Error("failed to check entitlement", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to check entitlement"))
		return
	}

	log.Info("entitlement checked",
		slog.Int("product_id", productID),
		slog.Bool("entitled", entitled))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"product_id": productID,
		"entitled":   entitled,
	}))
}
