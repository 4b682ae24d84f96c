// Package update реализует HTTP-обработчик для обновления пользователя.
//
// Handler принимает JSON-запрос с полями id, login, pass и phone,
// находит запись по id, проверяет право редактирования и заменяет
// login, pass и phone. Роли при обновлении не меняются.
package update

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

// Handler управляет HTTP-запросами на обновление пользователей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики обновления пользователя.
type Service interface {
	GetByID(ctx context.Context, rawID string) (*models.User, error)
	Update(ctx context.Context, user *models.User, req models.DummyUser) (*models.User, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Обновить пользователя
// @Description Заменяет login, pass и phone записи с указанным id. Доступно владельцу записи и ROLE_ROOT.
// @Tags Users
// @Accept  json
// @Produce  json
// @Param user body models.DummyUser true "Поля пользователя с id"
// @Success 200 {object} map[string]int "ID обновлённого пользователя"
// @Failure 400 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Security BearerAuth
// @Router /users [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyUser
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Info("failed to decode request body, treating as empty", sl.Err(err))
		req = models.DummyUser{}
	}

	target, err := h.service.GetByID(r.Context(), req.ID)
	if err != nil {
		log.Error("failed to resolve user", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	actor, _ := middlewarectx.UserFromContext(r.Context())
	if !access.Decide(actor, target, access.ActionEdit) {
		log.Error("edit access denied", slog.Int("target_id", target.ID))
		response.RenderError(w, r, errs.Forbidden("Access Denied."))
		return
	}

	updated, err := h.service.Update(r.Context(), target, req)
	if err != nil {
		log.Error("failed to update user", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("success to update user", slog.Int("id", updated.ID))
	render.JSON(w, r, map[string]any{
		"id": updated.ID,
	})
}
