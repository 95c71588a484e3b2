package util

import "errors"

var (
	ErrNotAuthenticated   = errors.New("user not authenticated")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username sudah digunakan")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRecordNotFound     = errors.New("record not found")
	ErrAlreadyCompleted   = errors.New("already completed")
	ErrStoreFailure       = errors.New("store failure")
	ErrModuleNotFound     = errors.New("module not found")
	ErrQuizNotFound       = errors.New("quiz has no questions")
	ErrUnknownGame        = errors.New("unknown game")
	ErrArtworkNotFound    = errors.New("artwork not found")
	ErrInsufficientTinta  = errors.New("insufficient tinta")
	ErrInvalidAvatar      = errors.New("avatar must be a jpg, png or webp image up to 2MB")
)
