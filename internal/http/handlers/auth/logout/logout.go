// Package logout реализует HTTP-обработчик завершения сессии.
package logout

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-storefront/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/subscription-storefront/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-storefront/internal/http/response"
)

// Handler обрабатывает HTTP-запросы выхода из сессии.
type Handler struct {
	log    *slog.Logger
	cookie register.CookieConfig
}

// New создает новый Handler.
func New(log *slog.Logger, cookie register.CookieConfig) *Handler {
	return &Handler{
		log:    log,
		cookie: cookie,
	}
}

// ServeHTTP godoc
// @Summary Выход из сессии
// @Description Сбрасывает cookie сессии текущего пользователя.
// @Tags Auth
// @Produce  json
// @Success 200 {object} map[string]any "Сессия завершена"
// @Router /logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	middlewarectx.ClearSessionCookie(w, h.cookie.Name, h.cookie.Secure)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"logged_out": true,
	}))
}
