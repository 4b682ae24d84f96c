// Package userservice предоставляет маршруты для основного приложения.
package userservice

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/user-service/internal/http/handlers/user/create"
	"github.com/magabrotheeeer/user-service/internal/http/handlers/user/read"
	"github.com/magabrotheeeer/user-service/internal/http/handlers/user/remove"
	"github.com/magabrotheeeer/user-service/internal/http/handlers/user/update"
	"github.com/magabrotheeeer/user-service/internal/http/middlewarectx"
	usrservice "github.com/magabrotheeeer/user-service/internal/services/user"
	"github.com/magabrotheeeer/user-service/internal/storage"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, userService *usrservice.UserService, db *storage.Storage) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/v1/api", func(r chi.Router) {
		// Регистрация открыта без токена
		r.Post("/users", create.New(logger, userService).ServeHTTP)

		// Группа с Bearer-аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.BearerAuthMiddleware(db, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Get("/users", read.New(logger, userService).ServeHTTP)
			r.Put("/users", update.New(logger, userService).ServeHTTP)
			r.Delete("/users", remove.New(logger, userService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
