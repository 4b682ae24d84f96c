// Package middlewarectx содержит HTTP middleware аутентификации по
// Bearer-токену. Токен — это login пользователя в открытом виде:
// подписи и срока действия нет. Проверка вынесена за интерфейс
// UserFinder, чтобы схему токена можно было заменить, не трогая
// авторизацию и сервисный слой.
//
// Запрос без заголовка Authorization с префиксом "Bearer " проходит дальше
// неаутентифицированным: решение об отказе принимает проверка авторизации
// в обработчике. Пустой или неизвестный токен — HTTP 401; существование
// login при этом не раскрывается.
package middlewarectx

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/user-service/internal/errs"
	"github.com/magabrotheeeer/user-service/internal/http/response"
	"github.com/magabrotheeeer/user-service/internal/lib/sl"
	"github.com/magabrotheeeer/user-service/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// User — ключ для аутентифицированного пользователя в контексте.
const User Key = "user"

// UserFinder описывает поиск пользователя по login для аутентификации.
type UserFinder interface {
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
}

// BearerAuthMiddleware возвращает HTTP middleware, который разбирает
// заголовок Authorization и кладёт найденного пользователя в контекст.
func BearerAuthMiddleware(users UserFinder, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.BearerAuthMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				// аутентификация пропущена, отказ вынесет авторизация
				next.ServeHTTP(w, r)
				return
			}

			token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
			if token == "" {
				log.Error("empty bearer token")
				response.RenderError(w, r, errs.Unauthenticated("Empty Bearer token"))
				return
			}

			user, err := users.GetUserByLogin(r.Context(), token)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					log.Error("unknown bearer token")
				} else {
					log.Error("failed to resolve bearer token", sl.Err(err))
				}
				response.RenderError(w, r, errs.Unauthenticated("Invalid token"))
				return
			}

			ctx := context.WithValue(r.Context(), User, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext возвращает аутентифицированного пользователя запроса,
// если он есть.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(User).(*models.User)
	return user, ok && user != nil
}
