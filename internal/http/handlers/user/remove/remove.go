// Package remove реализует HTTP-обработчик для удаления пользователя по ID.
// Удаление разрешено только ROLE_ROOT; запись находится по query-параметру,
// успешный ответ — пустой JSON-объект.
package remove

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/user-service/internal/access"
	"github.com/magabrotheeeer/user-service/internal/errs"
	"github.com/magabrotheeeer/user-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/user-service/internal/http/response"
	"github.com/magabrotheeeer/user-service/internal/lib/sl"
	"github.com/magabrotheeeer/user-service/internal/models"
)

// Handler управляет HTTP-запросами на удаление пользователей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики удаления пользователя.
type Service interface {
	GetByID(ctx context.Context, rawID string) (*models.User, error)
	Delete(ctx context.Context, user *models.User) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удалить пользователя по ID
// @Description Удаляет запись с указанным id. Доступно только ROLE_ROOT.
// @Tags Users
// @Produce  json
// @Param id query string true "ID пользователя"
// @Success 200 {object} object "Пустой объект"
// @Failure 400 {object} response.ErrorResponse "Некорректный id"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Security BearerAuth
// @Router /users [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	target, err := h.service.GetByID(r.Context(), r.URL.Query().Get("id"))
	if err != nil {
		log.Error("failed to resolve user", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	actor, _ := middlewarectx.UserFromContext(r.Context())
	if !access.Decide(actor, target, access.ActionDelete) {
		log.Error("delete access denied", slog.Int("target_id", target.ID))
		response.RenderError(w, r, errs.Forbidden("Access Denied."))
		return
	}

	if err := h.service.Delete(r.Context(), target); err != nil {
		log.Error("failed to delete user", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("success to delete user", slog.Int("id", target.ID))
	render.JSON(w, r, struct{}{})
}
