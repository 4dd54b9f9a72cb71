// Package subscribe реализует HTTP-обработчик оформления подписки на товар.
//
// Handler принимает JSON-запрос с выбранным сроком, валидирует его,
// извлекает пользователя сессии из контекста и передаёт решение движку
// подписок. Ожидаемые бизнес-отказы приходят из движка структурированным
// результатом и транслируются в HTTP-статусы; ошибкой считается только
// неожиданный сбой инфраструктуры.
package subscribe

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/subscription-storefront/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-storefront/internal/http/response"
	"github.com/magabrotheeeer/subscription-storefront/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-storefront/internal/lib/tier"
	"github.com/magabrotheeeer/subscription-storefront/internal/models"
)

// Handler управляет HTTP-запросами на оформление подписки.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	engine   Engine              // Движок подписок
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Engine описывает операцию движка подписок для оформления.
type Engine interface {
	Subscribe(ctx context.Context, session *models.SessionUser, productID int, plan tier.PlanType) (*models.SubscribeResult, error)
}

// New создает новый Handler с переданными логгером и движком.
func New(log *slog.Logger, engine Engine) *Handler {
	return &Handler{
		log:      log,
		engine:   engine,
		validate: validator.New(),
	}
}

// statusForReason транслирует причину бизнес-отказа в HTTP-статус.
func statusForReason(reason models.Reason) int {
	switch reason {
	case models.ReasonAuthRequired:
		return http.StatusUnauthorized
	case models.ReasonProductUnavailable:
		return http.StatusNotFound
	case models.ReasonNoPlans, models.ReasonPlanUnavailable:
		return http.StatusUnprocessableEntity
	case models.ReasonAlreadySubscribed:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// ServeHTTP godoc
// @Summary Оформить подписку на товар
// @Description Создает или продлевает подписку текущего пользователя на товар с выбранным сроком.
// @Tags Subscriptions
// @Accept  json
// @Produce  json
// @Param id path int true "ID товара"
// @Param request body models.DummySubscribe true "Выбранный срок подписки"
// @Success 200 {object} map[string]any "Подписка оформлена"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или ID"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Товар не найден или недоступен"
// @Failure 409 {object} response.ErrorResponse "Действующая подписка уже есть"
// @Failure 422 {object} response.ErrorResponse "Срок недоступен или ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /products/{id}/subscribe [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.subscribe"
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

	var req models.DummySubscribe
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	plan, err := tier.Parse(req.PlanType)
	if err != nil {
		log.Error("unknown plan type", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error("unknown plan type"))
		return
	}

	session := middlewarectx.SessionUserFromContext(r.Context())

	result, err := h.engine.Subscribe(r.Context(), session, productID, plan)
	if err != nil {
		log.Error("failed to subscribe", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to subscribe, please try again"))
		return
	}

	if !result.Success {
		log.Info("subscribe rejected",
			slog.Int("product_id", productID),
			slog.String("reason", string(result.Reason)))
		w.WriteHeader(statusForReason(result.Reason))
		render.JSON(w, r, response.Rejection(result.Reason, result.Message))
		return
	}

	log.Info("subscribe success",
		slog.Int("product_id", productID),
		slog.String("plan_type", string(plan)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message":      result.Message,
		"subscription": result.Subscription,
	}))
}
