package service

import (
	"aksara_backend/internal/config"
	"aksara_backend/internal/repository"
	"aksara_backend/internal/testutil"
	"aksara_backend/internal/util"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProfileService(t *testing.T) (*ProfileService, string) {
	db := testutil.DB(t)
	dir := t.TempDir()
	cfg := &config.Config{Storage: config.StorageConfig{Type: util.StorageLocal, LocalPath: dir}}

	storage, err := NewStorageService(context.Background(), cfg)
	require.NoError(t, err)

	users := repository.NewUserRepository(db)
	auth := NewAuthService(users, cfg)
	return NewProfileService(users, auth, storage), dir
}

func strPtr(s string) *string { return &s }

func TestUpdateProfile(t *testing.T) {
	s, _ := newProfileService(t)
	ctx := context.Background()

	siti, err := s.Auth.Register(ctx, RegisterRequest{Email: "siti@example.com", Password: "123456", FullName: "Siti", Username: "siti"})
	require.NoError(t, err)
	budi, err := s.Auth.Register(ctx, RegisterRequest{Email: "budi@example.com", Password: "123456", FullName: "Budi"})
	require.NoError(t, err)

	updated, err := s.UpdateProfile(ctx, budi.ID, UpdateProfileRequest{
		FullName:    strPtr("Budi Santoso"),
		Username:    strPtr("budi"),
		Institution: strPtr("UGM"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Budi Santoso", updated.FullName)
	require.NotNil(t, updated.Username)
	assert.Equal(t, "budi", *updated.Username)
	assert.Equal(t, "UGM", updated.Institution)

	_, err = s.UpdateProfile(ctx, budi.ID, UpdateProfileRequest{Username: strPtr("siti")})
	assert.ErrorIs(t, err, util.ErrUsernameTaken)

	// 保留自己的用户名不算冲突
	_, err = s.UpdateProfile(ctx, siti.ID, UpdateProfileRequest{Username: strPtr("siti")})
	assert.NoError(t, err)

	_, err = s.UpdateProfile(ctx, 999, UpdateProfileRequest{FullName: strPtr("x")})
	assert.ErrorIs(t, err, util.ErrNotAuthenticated)
}

func TestUploadAvatar(t *testing.T) {
	s, dir := newProfileService(t)
	ctx := context.Background()

	user, err := s.Auth.Register(ctx, RegisterRequest{Email: "siti@example.com", Password: "123456", FullName: "Siti"})
	require.NoError(t, err)

	content := []byte("\x89PNG fake image")
	updated, err := s.UploadAvatar(ctx, user.ID, AvatarFile{
		Name:        "Me.PNG",
		Size:        int64(len(content)),
		ContentType: "image/png",
		Reader:      bytes.NewReader(content),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(updated.AvatarURL, "/uploads/avatars/"))
	assert.True(t, strings.HasSuffix(updated.AvatarURL, ".png"))

	stored := filepath.Join(dir, strings.TrimPrefix(updated.AvatarURL, "/uploads/"))
	data, err := os.ReadFile(stored)
	require.NoError(t, err)
	assert.Equal(t, content, data)

	// 新头像替换后删除旧文件
	second, err := s.UploadAvatar(ctx, user.ID, AvatarFile{
		Name:   "new.jpg",
		Size:   int64(len(content)),
		Reader: bytes.NewReader(content),
	})
	require.NoError(t, err)
	assert.NotEqual(t, updated.AvatarURL, second.AvatarURL)
	_, err = os.Stat(stored)
	assert.True(t, os.IsNotExist(err))
}

func TestUploadAvatarRejectsInvalidFiles(t *testing.T) {
	s, _ := newProfileService(t)
	ctx := context.Background()

	user, err := s.Auth.Register(ctx, RegisterRequest{Email: "siti@example.com", Password: "123456", FullName: "Siti"})
	require.NoError(t, err)

	tests := []struct {
		name string
		file AvatarFile
	}{
		{"extension", AvatarFile{Name: "a.gif", Size: 10, ContentType: "image/gif"}},
		{"content type", AvatarFile{Name: "a.png", Size: 10, ContentType: "text/plain"}},
		{"too large", AvatarFile{Name: "a.png", Size: util.MaxAvatarSize + 1, ContentType: "image/png"}},
		{"empty", AvatarFile{Name: "a.png", Size: 0, ContentType: "image/png"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.file.Reader = bytes.NewReader(nil)
			_, err := s.UploadAvatar(ctx, user.ID, tt.file)
			assert.ErrorIs(t, err, util.ErrInvalidAvatar)
		})
	}
}
