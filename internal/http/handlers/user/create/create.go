// Package create реализует HTTP-обработчик для создания новых пользователей.
//
// Handler принимает JSON-запрос с полями login, pass и phone, вызывает
// бизнес-логику создания и возвращает созданную запись с присвоенным ID.
// Роли из запроса игнорируются: новая запись всегда получает ROLE_USER.
//
// В случае ошибок формируются соответствующие HTTP-ответы с описанием проблемы.
package create

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/user-service/internal/http/response"
	"github.com/magabrotheeeer/user-service/internal/lib/sl"
	"github.com/magabrotheeeer/user-service/internal/models"
)

// Handler управляет HTTP-запросами на создание пользователей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики создания пользователя.
type Service interface {
	Create(ctx context.Context, req models.DummyUser) (*models.User, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Создать нового пользователя
// @Description Создает пользователя с ролью ROLE_USER. Пара (login, pass) должна быть уникальна.
// @Tags Users
// @Accept  json
// @Produce  json
// @Param request body models.DummyUser true "Данные нового пользователя"
// @Success 201 {object} map[string]any "Созданный пользователь"
// @Failure 400 {object} response.ErrorResponse "Ошибка валидации или дубликат"
// @Router /users [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyUser
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		// некорректное или пустое тело равносильно пустому набору полей:
		// сервис сообщит о первом отсутствующем
		log.Info("failed to decode request body, treating as empty", sl.Err(err))
		req = models.DummyUser{}
	}

	user, err := h.service.Create(r.Context(), req)
	if err != nil {
		log.Error("failed to create user", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("success to create user", slog.Int("id", user.ID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, map[string]any{
		"id":    user.ID,
		"login": user.Login,
		"pass":  user.Pass,
		"phone": user.Phone,
	})
}
