package auth

import (
	"errors"
	"time"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
)

type AccessClaims struct {
	UserID    int64
	ExpiresAt time.Time
}

type LoginResult struct {
	AccessToken   string
	AccessExpires time.Time
	UserID        int64
}
