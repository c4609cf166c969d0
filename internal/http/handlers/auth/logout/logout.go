// Package logout реализует выход: сессионная cookie удаляется на клиенте.
// Выданный токен остаётся действительным до истечения срока.
package logout

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/adarsh1278/HSass-backend/internal/http/response"
	"github.com/adarsh1278/HSass-backend/internal/http/session"
)

type Handler struct {
	log    *slog.Logger
	cookie session.Cookie
}

func New(log *slog.Logger, cookie session.Cookie) *Handler {
	return &Handler{log: log, cookie: cookie}
}

// ServeHTTP godoc
// @Summary Выход
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response
// @Router /super-admin/logout [post]
// @Router /admin/logout [post]
// @Router /auth/logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.cookie.Clear(w)
	h.log.Debug("session cookie cleared", slog.String("request_id", middleware.GetReqID(r.Context())))
	response.JSON(w, r, http.StatusOK, nil, "Logged out successfully")
}
