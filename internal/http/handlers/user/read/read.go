// Package read реализует HTTP-обработчик для получения пользователя по ID.
//
// Handler извлекает ID из query-параметра, вызывает бизнес-логику чтения,
// проверяет право просмотра и возвращает login, pass и phone в JSON-формате.
//
// В случае ошибок формирует соответствующие HTTP-ответы с описанием проблемы.
package read

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

// Handler обрабатывает запросы на получение пользователя по идентификатору.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения пользователя.
type Service interface {
	GetByID(ctx context.Context, rawID string) (*models.User, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить пользователя по ID
// @Description Возвращает login, pass и phone пользователя. Доступно владельцу записи и ROLE_ROOT.
// @Tags Users
// @Produce  json
// @Param id query string true "ID пользователя"
// @Success 200 {object} map[string]string "Данные пользователя"
// @Failure 400 {object} response.ErrorResponse "Некорректный id"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Security BearerAuth
// @Router /users [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	target, err := h.service.GetByID(r.Context(), r.URL.Query().Get("id"))
	if err != nil {
		log.Error("failed to read user", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	actor, _ := middlewarectx.UserFromContext(r.Context())
	if !access.Decide(actor, target, access.ActionView) {
		log.Error("view access denied", slog.Int("target_id", target.ID))
		response.RenderError(w, r, errs.Forbidden("Access Denied."))
		return
	}

	log.Info("success to read user", slog.Int("id", target.ID))
	render.JSON(w, r, map[string]string{
		"login": target.Login,
		"pass":  target.Pass,
		"phone": target.Phone,
	})
}
