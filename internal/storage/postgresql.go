// Package storage реализует хранилище данных на основе PostgreSQL
// для управления пользователями. Предоставляет методы создания, чтения,
// обновления и удаления записей. Уникальность пары (login, pass)
// гарантирует уникальный индекс uniq_login_pass: его нарушение
// транслируется в ошибку класса Duplicate.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/magabrotheeeer/user-service/internal/errs"
	"github.com/magabrotheeeer/user-service/internal/models"
)

// Storage инкапсулирует соединение с базой данных PostgreSQL
// и реализует методы работы с пользователями.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL и проверяет его доступность.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CreateUser вставляет новую запись пользователя и возвращает её ID.
// Нарушение уникального индекса (login, pass) возвращается как Duplicate.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (int, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	roles, err := json.Marshal(user.RolesOrDefault())
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO users (login, pass, phone, roles)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id`
	var newID int
	err = s.DB.QueryRowContext(ctx, query,
		user.Login, user.Pass, user.Phone, roles).Scan(&newID)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, errs.Duplicate(errs.MsgDuplicateUser)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetUserByID возвращает пользователя по его ID.
func (s *Storage) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	const op = "storage.GetUserByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, login, pass, phone, roles
			  FROM users
			  WHERE id = $1`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, id), op)
}

// GetUserByLogin возвращает пользователя по его login.
func (s *Storage) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	const op = "storage.GetUserByLogin"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, login, pass, phone, roles
			  FROM users
			  WHERE login = $1`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, login), op)
}

// FindUserByLoginAndPass ищет пользователя по паре (login, pass).
// Возвращает false без ошибки, если совпадения нет.
func (s *Storage) FindUserByLoginAndPass(ctx context.Context, login, pass string) (*models.User, bool, error) {
	const op = "storage.FindUserByLoginAndPass"
	select {
	case <-ctx.Done():
		return nil, false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, login, pass, phone, roles
			  FROM users
			  WHERE login = $1 AND pass = $2`
	user, err := s.scanUser(s.DB.QueryRowContext(ctx, query, login, pass), op)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return user, true, nil
}

// UpdateUser обновляет login, pass и phone пользователя по его ID
// и возвращает количество изменённых строк. Роли не меняются.
func (s *Storage) UpdateUser(ctx context.Context, user models.User) (int, error) {
	const op = "storage.UpdateUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET login = $1, pass = $2, phone = $3
			  WHERE id = $4`
	result, err := s.DB.ExecContext(ctx, query, user.Login, user.Pass, user.Phone, user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, errs.Duplicate(errs.MsgDuplicateUser)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// DeleteUser удаляет пользователя по ID и возвращает количество удалённых строк.
func (s *Storage) DeleteUser(ctx context.Context, id int) (int, error) {
	const op = "storage.DeleteUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM users WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

func (s *Storage) scanUser(row *sql.Row, op string) (*models.User, error) {
	u := &models.User{}
	var roles []byte
	if err := row.Scan(&u.ID, &u.Login, &u.Pass, &u.Phone, &roles); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := json.Unmarshal(roles, &u.Roles); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
