package service

import (
	"aksara_backend/internal/config"
	"aksara_backend/internal/repository"
	"aksara_backend/internal/testutil"
	"aksara_backend/internal/util"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) *AuthService {
	db := testutil.DB(t)
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "test-secret", ExpireTime: time.Hour}}
	return NewAuthService(repository.NewUserRepository(db), cfg)
}

func TestRegisterAndLogin(t *testing.T) {
	s := newAuthService(t)
	ctx := context.Background()

	user, err := s.Register(ctx, RegisterRequest{
		Email:       " Siti@Example.com ",
		Password:    "rahasia123",
		FullName:    "Siti Aminah",
		Username:    "siti",
		Institution: "SMA 1 Yogyakarta",
	})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "siti@example.com", user.Email)
	assert.Zero(t, user.Tinta)
	assert.NotEqual(t, "rahasia123", user.Password)

	t.Run("by email", func(t *testing.T) {
		resp, err := s.Login(ctx, "SITI@example.com", "rahasia123")
		require.NoError(t, err)
		claims, err := util.ParseJWT(resp.Token, "test-secret")
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
	})

	t.Run("by username", func(t *testing.T) {
		resp, err := s.Login(ctx, "siti", "rahasia123")
		require.NoError(t, err)
		assert.Equal(t, user.ID, resp.User.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := s.Login(ctx, "siti", "salah")
		assert.ErrorIs(t, err, util.ErrInvalidCredentials)
	})

	t.Run("unknown account", func(t *testing.T) {
		_, err := s.Login(ctx, "budi@example.com", "rahasia123")
		assert.ErrorIs(t, err, util.ErrInvalidCredentials)
	})
}

func TestRegisterDuplicates(t *testing.T) {
	s := newAuthService(t)
	ctx := context.Background()

	_, err := s.Register(ctx, RegisterRequest{Email: "a@example.com", Password: "123456", FullName: "A", Username: "aksara"})
	require.NoError(t, err)

	_, err = s.Register(ctx, RegisterRequest{Email: "a@example.com", Password: "123456", FullName: "A2"})
	assert.ErrorIs(t, err, util.ErrEmailRegistered)

	_, err = s.Register(ctx, RegisterRequest{Email: "b@example.com", Password: "123456", FullName: "B", Username: "aksara"})
	assert.ErrorIs(t, err, util.ErrUsernameTaken)

	// 不填用户名的账号可以有多个
	_, err = s.Register(ctx, RegisterRequest{Email: "c@example.com", Password: "123456", FullName: "C"})
	require.NoError(t, err)
	_, err = s.Register(ctx, RegisterRequest{Email: "d@example.com", Password: "123456", FullName: "D"})
	require.NoError(t, err)
}

func TestGetProfile(t *testing.T) {
	s := newAuthService(t)
	ctx := context.Background()

	user, err := s.Register(ctx, RegisterRequest{Email: "a@example.com", Password: "123456", FullName: "A"})
	require.NoError(t, err)

	got, err := s.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", got.FullName)

	_, err = s.GetProfile(ctx, 0)
	assert.ErrorIs(t, err, util.ErrNotAuthenticated)
	_, err = s.GetProfile(ctx, 999)
	assert.ErrorIs(t, err, util.ErrNotAuthenticated)
}

func TestChangePassword(t *testing.T) {
	s := newAuthService(t)
	ctx := context.Background()

	user, err := s.Register(ctx, RegisterRequest{Email: "siti@example.com", Password: "rahasia123", FullName: "Siti"})
	require.NoError(t, err)

	err = s.ChangePassword(ctx, user.ID, ChangePasswordRequest{CurrentPassword: "salah", NewPassword: "baru12345"})
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
	_, err = s.Login(ctx, "siti@example.com", "rahasia123")
	require.NoError(t, err, "a rejected change keeps the old password")

	require.NoError(t, s.ChangePassword(ctx, user.ID, ChangePasswordRequest{CurrentPassword: "rahasia123", NewPassword: "baru12345"}))
	_, err = s.Login(ctx, "siti@example.com", "rahasia123")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
	_, err = s.Login(ctx, "siti@example.com", "baru12345")
	assert.NoError(t, err)

	err = s.ChangePassword(ctx, 4242, ChangePasswordRequest{CurrentPassword: "x", NewPassword: "baru12345"})
	assert.ErrorIs(t, err, util.ErrNotAuthenticated)
}
