package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"manifest-analyzer/internal/domains/user"
	"manifest-analyzer/internal/domains/user/repository"
	"manifest-analyzer/pkg/jwt"
)

func newTestService() UserService {
	return NewUserService(
		repository.NewMemoryRepository(),
		jwt.NewManager("test-secret", 15, 168),
	)
}

func registerReq() user.RegisterRequest {
	return user.RegisterRequest{
		Email:    "buyer@example.com",
		Password: "correct-horse-battery",
		FullName: "Test Buyer",
	}
}

func TestRegisterIssuesTokens(t *testing.T) {
	svc := newTestService()

	resp, err := svc.Register(context.Background(), registerReq())
	require.NoError(t, err)

	assert.Equal(t, "buyer@example.com", resp.User.Email)
	assert.Equal(t, user.RoleUser, resp.User.Role)
	assert.Empty(t, resp.User.PasswordHash)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestService()

	_, err := svc.Register(context.Background(), registerReq())
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), registerReq())
	assert.ErrorIs(t, err, user.ErrEmailAlreadyExists)
}

func TestLogin(t *testing.T) {
	svc := newTestService()
	_, err := svc.Register(context.Background(), registerReq())
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		resp, err := svc.Login(context.Background(), user.LoginRequest{
			Email:    "buyer@example.com",
			Password: "correct-horse-battery",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), user.LoginRequest{
			Email:    "buyer@example.com",
			Password: "wrong",
		})
		assert.ErrorIs(t, err, user.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(context.Background(), user.LoginRequest{
			Email:    "nobody@example.com",
			Password: "whatever",
		})
		assert.ErrorIs(t, err, user.ErrInvalidCredentials)
	})
}

func TestRefresh(t *testing.T) {
	svc := newTestService()
	registered, err := svc.Register(context.Background(), registerReq())
	require.NoError(t, err)

	t.Run("valid refresh token", func(t *testing.T) {
		resp, err := svc.Refresh(context.Background(), registered.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, registered.User.ID, resp.User.ID)
		assert.NotEmpty(t, resp.AccessToken)
	})

	t.Run("access token rejected", func(t *testing.T) {
		_, err := svc.Refresh(context.Background(), registered.AccessToken)
		assert.ErrorIs(t, err, user.ErrInvalidToken)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		_, err := svc.Refresh(context.Background(), "not-a-jwt")
		assert.ErrorIs(t, err, user.ErrInvalidToken)
	})
}

func TestGetProfile(t *testing.T) {
	svc := newTestService()
	registered, err := svc.Register(context.Background(), registerReq())
	require.NoError(t, err)

	u, err := svc.GetProfile(context.Background(), registered.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "buyer@example.com", u.Email)
	assert.Empty(t, u.PasswordHash)

	_, err = svc.GetProfile(context.Background(), uuid.New())
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}
