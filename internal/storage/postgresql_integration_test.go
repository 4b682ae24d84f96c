package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/user-service/internal/errs"
	"github.com/magabrotheeeer/user-service/internal/migrations"
	"github.com/magabrotheeeer/user-service/internal/models"
)

func setupTestDatabase(t *testing.T) (*Storage, func()) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx)
	require.NoError(t, err)

	storage, err := New(dsn)
	require.NoError(t, err)

	migrationsPath, err := filepath.Abs("../../migrations")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(storage.DB, migrationsPath))

	cleanup := func() {
		storage.DB.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return storage, cleanup
}

func TestStorage_CreateAndGetUser(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()

	id, err := storage.CreateUser(ctx, models.User{
		Login: "ivan",
		Pass:  "secret",
		Phone: "12345678",
	})
	require.NoError(t, err)
	require.Greater(t, id, 0)

	got, err := storage.GetUserByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "ivan", got.Login)
	assert.Equal(t, "secret", got.Pass)
	assert.Equal(t, "12345678", got.Phone)
	assert.Equal(t, []string{models.RoleUser}, got.Roles)
}

func TestStorage_CreateUser_DuplicatePair(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()

	_, err := storage.CreateUser(ctx, models.User{Login: "ivan", Pass: "secret", Phone: "11111111"})
	require.NoError(t, err)

	// тот же (login, pass), другой телефон: индекс должен отклонить вставку
	_, err = storage.CreateUser(ctx, models.User{Login: "ivan", Pass: "secret", Phone: "22222222"})
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.KindDuplicate))
	assert.Equal(t, errs.MsgDuplicateUser, err.Error())

	var count int
	err = storage.DB.QueryRow(`SELECT COUNT(*) FROM users WHERE login = 'ivan' AND pass = 'secret'`).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestStorage_GetUserByID_NotFound(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	_, err := storage.GetUserByID(context.Background(), 999999)
	require.Error(t, err)
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestStorage_GetUserByLogin_Seed(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	got, err := storage.GetUserByLogin(context.Background(), "admin")
	require.NoError(t, err)
	assert.Equal(t, "admin", got.Pass)
	assert.Equal(t, []string{models.RoleRoot}, got.Roles)
}

func TestStorage_FindUserByLoginAndPass(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()

	_, found, err := storage.FindUserByLoginAndPass(ctx, "ghost", "none")
	require.NoError(t, err)
	assert.False(t, found)

	id, err := storage.CreateUser(ctx, models.User{Login: "ivan", Pass: "secret", Phone: "12345678"})
	require.NoError(t, err)

	user, found, err := storage.FindUserByLoginAndPass(ctx, "ivan", "secret")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, id, user.ID)
}

func TestStorage_UpdateUser_KeepsRoles(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()

	id, err := storage.CreateUser(ctx, models.User{Login: "ivan", Pass: "secret", Phone: "12345678"})
	require.NoError(t, err)

	count, err := storage.UpdateUser(ctx, models.User{ID: id, Login: "ivan2", Pass: "secret2", Phone: "87654321"})
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	got, err := storage.GetUserByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "ivan2", got.Login)
	assert.Equal(t, "secret2", got.Pass)
	assert.Equal(t, "87654321", got.Phone)
	assert.Equal(t, []string{models.RoleUser}, got.Roles)
}

func TestStorage_DeleteUser(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()

	id, err := storage.CreateUser(ctx, models.User{Login: "ivan", Pass: "secret", Phone: "12345678"})
	require.NoError(t, err)

	count, err := storage.DeleteUser(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = storage.GetUserByID(ctx, id)
	require.Error(t, err)
	assert.True(t, errors.Is(err, sql.ErrNoRows))

	// повторное удаление ничего не находит
	count, err = storage.DeleteUser(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
