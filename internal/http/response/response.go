// Package response содержит вспомогательные типы и функции для формирования
// JSON‑ответов HTTP‑обработчиков. Любая ошибка, дошедшая до границы,
// превращается в тело вида {"error": "<сообщение>"} со статусом,
// соответствующим её классу.
package response

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/magabrotheeeer/user-service/internal/errs"
)

// ErrorResponse описывает структуру тела ошибки.
type ErrorResponse struct {
	Error string `json:"error" example:"Invalid id"`
}

// Error возвращает тело ошибки с переданным сообщением.
func Error(msg string) ErrorResponse {
	return ErrorResponse{Error: msg}
}

// RenderError записывает ошибку в ответ. Статус выбирается по классу ошибки;
// неклассифицированные ошибки отдаются как 500 с нейтральным сообщением,
// чтобы не раскрывать внутренности. Неклассифицированное нарушение
// уникального индекса базы транслируется в ту же ошибку дубликата,
// что и предварительная проверка сервиса.
func RenderError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := classify(err)
	w.WriteHeader(status)
	render.JSON(w, r, Error(msg))
}

func classify(err error) (int, string) {
	switch errs.KindOf(err) {
	case errs.KindUnauthenticated:
		return http.StatusUnauthorized, err.Error()
	case errs.KindForbidden:
		return http.StatusForbidden, err.Error()
	case errs.KindNotFound:
		return http.StatusNotFound, err.Error()
	case errs.KindInvalidInput, errs.KindDuplicate:
		return http.StatusBadRequest, err.Error()
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return http.StatusBadRequest, errs.MsgDuplicateUser
	}

	return http.StatusInternalServerError, "An error occurred"
}
