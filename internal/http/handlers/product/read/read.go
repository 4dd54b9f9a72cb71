// Package read реализует HTTP-обработчик карточки товара.
//
// В ответ включается тарифный план и срок с лучшей удельной ценой,
// который слой представления помечает бейджем "Best Value".
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-storefront/internal/http/response"
	"github.com/magabrotheeeer/subscription-storefront/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-storefront/internal/lib/tier"
	"github.com/magabrotheeeer/subscription-storefront/internal/models"
	"github.com/magabrotheeeer/subscription-storefront/internal/storage/repository"
)

// Handler управляет HTTP-запросами карточки товара.
type Handler struct {
	log     *slog.Logger
	service Service
	engine  Engine
}

// Service описывает интерфейс бизнес-логики чтения товара.
type Service interface {
	Read(ctx context.Context, id int) (*models.Product, error)
}

// Engine описывает операцию движка подписок, нужную карточке товара.
type Engine interface {
	BestValueTier(plan *models.SubscriptionPlan) *tier.PlanType
}

// New создает новый Handler с переданными логгером и сервисами.
func New(log *slog.Logger, service Service, engine Engine) *Handler {
	return &Handler{
		log:     log,
		service: service,
		engine:  engine,
	}
}

// ServeHTTP godoc
// @Summary Карточка товара
// @Description Возвращает товар с тарифным планом и лучшим по удельной цене сроком.
// @Tags Products
// @Produce  json
// @Param id path int true "ID товара"
// @Success 200 {object} map[string]any "Карточка товара"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Товар не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /products/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.product.read"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		log.Error("invalid product id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid product id"))
		return
	}

	product, err := h.service.Read(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		log.Info("product not found", slog.Int("id", id))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("product not found"))
		return
	}
	if err != nil {
		log.Error("failed to read product", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read product"))
		return
	}

	data := map[string]any{
		"product": product,
	}
	if best := h.engine.BestValueTier(product.Plan); best != nil {
		data["best_value"] = *best
	}

	render.JSON(w, r, response.OKWithData(data))
}
