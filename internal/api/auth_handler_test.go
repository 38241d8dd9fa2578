package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursewise/coursewise/internal/domain"
	"github.com/coursewise/coursewise/internal/service/auth"
	"github.com/coursewise/coursewise/internal/store"
)

// MockUserStore is a mock implementation of store.UserStore for testing
type MockUserStore struct {
	CreateFn     func(ctx context.Context, user *domain.User) error
	GetByEmailFn func(ctx context.Context, email string) (*domain.User, error)
	GetByIDFn    func(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// Create implements store.UserStore
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}
	return nil
}

// GetByEmail implements store.UserStore
func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	return nil, store.ErrUserNotFound
}

// GetByID implements store.UserStore
func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, store.ErrUserNotFound
}

// MockJWTService is a mock implementation of auth.JWTService for testing
type MockJWTService struct {
	GenerateTokenFn func(ctx context.Context, userID uuid.UUID) (string, error)
	ValidateTokenFn func(ctx context.Context, tokenString string) (*auth.Claims, error)
}

// GenerateToken implements auth.JWTService
func (m *MockJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.GenerateTokenFn != nil {
		return m.GenerateTokenFn(ctx, userID)
	}
	return "test-token", nil
}

// ValidateToken implements auth.JWTService
func (m *MockJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, tokenString)
	}
	return nil, auth.ErrInvalidToken
}

// MockPasswordVerifier is a mock implementation of auth.PasswordVerifier for testing
type MockPasswordVerifier struct {
	CompareFn func(hashedPassword, password string) error
}

// Compare implements auth.PasswordVerifier
func (m *MockPasswordVerifier) Compare(hashedPassword, password string) error {
	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	return nil
}

func newAuthTestHandler(
	userStore store.UserStore,
	jwtService auth.JWTService,
	verifier auth.PasswordVerifier,
) *AuthHandler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewAuthHandler(userStore, jwtService, verifier, logger)
}

func postJSON(t *testing.T, target string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestAuthHandler_Register(t *testing.T) {
	t.Run("successful_registration_returns_201_with_token", func(t *testing.T) {
		var createdUser *domain.User
		userStore := &MockUserStore{
			CreateFn: func(ctx context.Context, user *domain.User) error {
				createdUser = user
				return nil
			},
		}
		jwtService := &MockJWTService{
			GenerateTokenFn: func(ctx context.Context, userID uuid.UUID) (string, error) {
				return "signed-token", nil
			},
		}
		handler := newAuthTestHandler(userStore, jwtService, &MockPasswordVerifier{})

		req := postJSON(t, "/api/auth/register", RegisterRequest{
			Email:    "new@example.com",
			Password: "correct horse battery",
		})
		rr := httptest.NewRecorder()
		handler.Register(rr, req)

		require.Equal(t, http.StatusCreated, rr.Code)
		require.NotNil(t, createdUser)
		assert.Equal(t, "new@example.com", createdUser.Email)

		var resp AuthResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Equal(t, createdUser.ID.String(), resp.UserID)
		assert.Equal(t, "signed-token", resp.Token)
	})

	t.Run("duplicate_email_returns_409", func(t *testing.T) {
		userStore := &MockUserStore{
			CreateFn: func(ctx context.Context, user *domain.User) error {
				return store.ErrEmailExists
			},
		}
		handler := newAuthTestHandler(userStore, &MockJWTService{}, &MockPasswordVerifier{})

		req := postJSON(t, "/api/auth/register", RegisterRequest{
			Email:    "taken@example.com",
			Password: "correct horse battery",
		})
		rr := httptest.NewRecorder()
		handler.Register(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("short_password_returns_400", func(t *testing.T) {
		handler := newAuthTestHandler(&MockUserStore{}, &MockJWTService{}, &MockPasswordVerifier{})

		req := postJSON(t, "/api/auth/register", RegisterRequest{
			Email:    "new@example.com",
			Password: "short",
		})
		rr := httptest.NewRecorder()
		handler.Register(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("invalid_email_returns_400", func(t *testing.T) {
		handler := newAuthTestHandler(&MockUserStore{}, &MockJWTService{}, &MockPasswordVerifier{})

		req := postJSON(t, "/api/auth/register", RegisterRequest{
			Email:    "not-an-email",
			Password: "correct horse battery",
		})
		rr := httptest.NewRecorder()
		handler.Register(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	fixedUserID := uuid.MustParse("11111111-1111-1111-1111-111111111111")

	knownUser := &domain.User{
		ID:             fixedUserID,
		Email:          "known@example.com",
		HashedPassword: "$2a$10$stored-hash",
	}

	t.Run("successful_login_returns_200_with_token", func(t *testing.T) {
		userStore := &MockUserStore{
			GetByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
				assert.Equal(t, "known@example.com", email)
				return knownUser, nil
			},
		}
		verifier := &MockPasswordVerifier{
			CompareFn: func(hashedPassword, password string) error {
				assert.Equal(t, knownUser.HashedPassword, hashedPassword)
				assert.Equal(t, "correct horse battery", password)
				return nil
			},
		}
		jwtService := &MockJWTService{
			GenerateTokenFn: func(ctx context.Context, userID uuid.UUID) (string, error) {
				assert.Equal(t, fixedUserID, userID)
				return "signed-token", nil
			},
		}
		handler := newAuthTestHandler(userStore, jwtService, verifier)

		req := postJSON(t, "/api/auth/login", LoginRequest{
			Email:    "known@example.com",
			Password: "correct horse battery",
		})
		rr := httptest.NewRecorder()
		handler.Login(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var resp AuthResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Equal(t, fixedUserID.String(), resp.UserID)
		assert.Equal(t, "signed-token", resp.Token)
	})

	t.Run("wrong_password_returns_401", func(t *testing.T) {
		userStore := &MockUserStore{
			GetByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
				return knownUser, nil
			},
		}
		verifier := &MockPasswordVerifier{
			CompareFn: func(hashedPassword, password string) error {
				return errors.New("mismatch")
			},
		}
		handler := newAuthTestHandler(userStore, &MockJWTService{}, verifier)

		req := postJSON(t, "/api/auth/login", LoginRequest{
			Email:    "known@example.com",
			Password: "wrong password",
		})
		rr := httptest.NewRecorder()
		handler.Login(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("unknown_user_returns_401_like_wrong_password", func(t *testing.T) {
		userStore := &MockUserStore{
			GetByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
				return nil, store.ErrUserNotFound
			},
		}
		handler := newAuthTestHandler(userStore, &MockJWTService{}, &MockPasswordVerifier{})

		req := postJSON(t, "/api/auth/login", LoginRequest{
			Email:    "ghost@example.com",
			Password: "whatever password",
		})
		rr := httptest.NewRecorder()
		handler.Login(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("malformed_body_returns_400", func(t *testing.T) {
		handler := newAuthTestHandler(&MockUserStore{}, &MockJWTService{}, &MockPasswordVerifier{})

		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString("{not json"))
		rr := httptest.NewRecorder()
		handler.Login(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
