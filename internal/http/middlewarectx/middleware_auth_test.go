package middlewarectx

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/user-service/internal/models"
)

// MockUserFinder реализует интерфейс UserFinder
type MockUserFinder struct {
	mock.Mock
}

func (m *MockUserFinder) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	args := m.Called(ctx, login)
	if res := args.Get(0); res != nil {
		return res.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestBearerAuthMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		authHeader     string
		setupMock      func(*MockUserFinder)
		wantStatus     int
		wantBody       string
		wantNextCalled bool
		wantIdentity   bool
	}{
		{
			name:           "без заголовка запрос проходит неаутентифицированным",
			authHeader:     "",
			setupMock:      func(_ *MockUserFinder) {},
			wantStatus:     http.StatusOK,
			wantNextCalled: true,
			wantIdentity:   false,
		},
		{
			name:           "заголовок без префикса Bearer игнорируется",
			authHeader:     "Basic abc123",
			setupMock:      func(_ *MockUserFinder) {},
			wantStatus:     http.StatusOK,
			wantNextCalled: true,
			wantIdentity:   false,
		},
		{
			name:       "пустой токен",
			authHeader: "Bearer   ",
			setupMock:  func(_ *MockUserFinder) {},
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"error":"Empty Bearer token"}`,
		},
		{
			name:       "неизвестный login",
			authHeader: "Bearer ghost",
			setupMock: func(m *MockUserFinder) {
				m.On("GetUserByLogin", mock.Anything, "ghost").
					Return(nil, fmt.Errorf("storage.GetUserByLogin: %w", sql.ErrNoRows))
			},
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"error":"Invalid token"}`,
		},
		{
			name:       "ошибка хранилища не раскрывается",
			authHeader: "Bearer ivan",
			setupMock: func(m *MockUserFinder) {
				m.On("GetUserByLogin", mock.Anything, "ivan").
					Return(nil, fmt.Errorf("connection refused"))
			},
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"error":"Invalid token"}`,
		},
		{
			name:       "валидный токен кладёт пользователя в контекст",
			authHeader: "Bearer ivan",
			setupMock: func(m *MockUserFinder) {
				m.On("GetUserByLogin", mock.Anything, "ivan").
					Return(&models.User{ID: 7, Login: "ivan"}, nil)
			},
			wantStatus:     http.StatusOK,
			wantNextCalled: true,
			wantIdentity:   true,
		},
		{
			name:       "токен обрезается по пробелам",
			authHeader: "Bearer   ivan  ",
			setupMock: func(m *MockUserFinder) {
				m.On("GetUserByLogin", mock.Anything, "ivan").
					Return(&models.User{ID: 7, Login: "ivan"}, nil)
			},
			wantStatus:     http.StatusOK,
			wantNextCalled: true,
			wantIdentity:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			finder := new(MockUserFinder)
			tt.setupMock(finder)

			nextCalled := false
			var identityFound bool
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				_, identityFound = UserFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/v1/api/users?id=7", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()

			BearerAuthMiddleware(finder, logger)(next).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantNextCalled, nextCalled)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, w.Body.String())
			}
			if tt.wantNextCalled {
				assert.Equal(t, tt.wantIdentity, identityFound)
			}
			finder.AssertExpectations(t)
		})
	}
}

func TestUserFromContext_Empty(t *testing.T) {
	_, ok := UserFromContext(context.Background())
	assert.False(t, ok)
}
