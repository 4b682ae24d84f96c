// Package services содержит бизнес-логику управления записями пользователей:
// валидацию входных полей, контроль уникальности пары (login, pass)
// и оркестрацию вызовов хранилища и кеша.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/user-service/internal/errs"
	"github.com/magabrotheeeer/user-service/internal/lib/sl"
	"github.com/magabrotheeeer/user-service/internal/models"
)

// requiredFields — обязательные поля запроса в порядке проверки.
var requiredFields = []string{"login", "pass", "phone"}

// UserRepository определяет методы для работы с пользователями в хранилище.
type UserRepository interface {
	// CreateUser добавляет нового пользователя и возвращает его ID.
	CreateUser(ctx context.Context, user models.User) (int, error)
	// GetUserByID возвращает пользователя по ID.
	GetUserByID(ctx context.Context, id int) (*models.User, error)
	// FindUserByLoginAndPass ищет пользователя по паре (login, pass).
	FindUserByLoginAndPass(ctx context.Context, login, pass string) (*models.User, bool, error)
	// UpdateUser обновляет login, pass и phone и возвращает количество изменённых строк.
	UpdateUser(ctx context.Context, user models.User) (int, error)
	// DeleteUser удаляет пользователя по ID и возвращает количество удалённых строк.
	DeleteUser(ctx context.Context, id int) (int, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// UserService реализует бизнес-логику работы с пользователями, включая кеширование.
type UserService struct {
	repo     UserRepository
	cache    Cache
	validate *validator.Validate
	log      *slog.Logger
}

// NewUserService создает новый экземпляр UserService.
func NewUserService(repo UserRepository, cache Cache, log *slog.Logger) *UserService {
	return &UserService{
		repo:     repo,
		cache:    cache,
		validate: validator.New(),
		log:      log,
	}
}

// GetByID разбирает строковый идентификатор и возвращает пользователя.
// Пустой id, нечисловой или неположительный — ошибки валидации;
// отсутствие записи — NotFound.
func (s *UserService) GetByID(ctx context.Context, rawID string) (*models.User, error) {
	id, err := parseUserID(rawID)
	if err != nil {
		return nil, err
	}

	var cached *models.User
	cacheKey := fmt.Sprintf("user:%d", id)
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read from cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if found {
		return cached, nil
	}

	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.NotFound("User not found")
		}
		return nil, err
	}

	if err := s.cache.Set(cacheKey, user, time.Hour); err != nil {
		s.log.Warn("failed to cache user", slog.String("key", cacheKey), sl.Err(err))
	}
	return user, nil
}

// Create проверяет поля запроса, принудительно назначает роль ROLE_USER
// и сохраняет нового пользователя. Пара (login, pass) предварительно
// проверяется на уникальность; решающая проверка — индекс в базе.
func (s *UserService) Create(ctx context.Context, req models.DummyUser) (*models.User, error) {
	if err := validateRequiredFields(req); err != nil {
		return nil, err
	}

	user := models.User{
		Login: req.Login,
		Pass:  req.Pass,
		Phone: req.Phone,
		Roles: []string{models.RoleUser},
	}

	if err := s.validateEntity(user); err != nil {
		return nil, err
	}

	_, found, err := s.repo.FindUserByLoginAndPass(ctx, user.Login, user.Pass)
	if err != nil {
		return nil, err
	}
	if found {
		return nil, errs.Duplicate(errs.MsgDuplicateUser)
	}

	id, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}
	user.ID = id

	s.log.Info("created new user", slog.Int("id", id))

	cacheKey := fmt.Sprintf("user:%d", id)
	if err := s.cache.Set(cacheKey, &user, time.Hour); err != nil {
		s.log.Warn("failed to cache user", slog.String("key", cacheKey), sl.Err(err))
	}

	return &user, nil
}

// Update заменяет login, pass и phone существующей записи; роли не меняются.
// Уникальность пары (login, pass) повторно не проверяется.
func (s *UserService) Update(ctx context.Context, user *models.User, req models.DummyUser) (*models.User, error) {
	if err := validateRequiredFields(req); err != nil {
		return nil, err
	}

	user.Login = req.Login
	user.Pass = req.Pass
	user.Phone = req.Phone

	if err := s.validateEntity(*user); err != nil {
		return nil, err
	}

	count, err := s.repo.UpdateUser(ctx, *user)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, errs.NotFound("User not found")
	}

	s.log.Info("updated user", slog.Int("id", user.ID))

	cacheKey := fmt.Sprintf("user:%d", user.ID)
	if err := s.cache.Set(cacheKey, user, time.Hour); err != nil {
		s.log.Warn("failed to cache user", slog.String("key", cacheKey), sl.Err(err))
	}

	return user, nil
}

// Delete удаляет запись пользователя и инвалидирует кеш.
func (s *UserService) Delete(ctx context.Context, user *models.User) error {
	cacheKey := fmt.Sprintf("user:%d", user.ID)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey), sl.Err(err))
	}

	count, err := s.repo.DeleteUser(ctx, user.ID)
	if err != nil {
		return err
	}
	if count == 0 {
		return errs.NotFound("User not found")
	}

	s.log.Info("deleted user", slog.Int("id", user.ID))
	return nil
}

func parseUserID(rawID string) (int, error) {
	rawID = strings.TrimSpace(rawID)
	if rawID == "" {
		return 0, errs.InvalidInput("id is required")
	}

	id, err := strconv.Atoi(rawID)
	if err != nil || id <= 0 {
		return 0, errs.InvalidInput("Invalid id")
	}
	return id, nil
}

// validateRequiredFields проверяет наличие обязательных полей
// в фиксированном порядке login, pass, phone. Поле из одних пробелов
// считается отсутствующим.
func validateRequiredFields(req models.DummyUser) error {
	values := map[string]string{
		"login": req.Login,
		"pass":  req.Pass,
		"phone": req.Phone,
	}
	for _, field := range requiredFields {
		if strings.TrimSpace(values[field]) == "" {
			return errs.InvalidInput(fmt.Sprintf("%s is required", field))
		}
	}
	return nil
}

// validateEntity проверяет ограничения длины на записи,
// готовой к сохранению. Сообщается первое нарушение.
func (s *UserService) validateEntity(user models.User) error {
	err := s.validate.Struct(user)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return err
	}

	first := validationErrs[0]
	field := strings.ToLower(first.Field())
	switch first.ActualTag() {
	case "max":
		return errs.InvalidInput(fmt.Sprintf("%s is too long. It should have 8 characters or less.", field))
	case "required":
		return errs.InvalidInput(fmt.Sprintf("%s is required", field))
	default:
		return errs.InvalidInput(fmt.Sprintf("%s is not a valid", field))
	}
}
