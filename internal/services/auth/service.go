package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/SilverAnton/UserIteractionProj/internal/domain/model"
	pgrepo "github.com/SilverAnton/UserIteractionProj/internal/repo/postgres"
)

type UserStore interface {
	GetByEmail(ctx context.Context, email string) (model.User, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

type Service struct {
	jwtManager *JWTManager
	users      UserStore
}

func NewService(jwtManager *JWTManager, users UserStore) *Service {
	return &Service{
		jwtManager: jwtManager,
		users:      users,
	}
}

// Login verifies the email/password pair and issues an access token.
func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return LoginResult{}, ErrInvalidInput
	}
	if s.users == nil || s.jwtManager == nil {
		return LoginResult{}, fmt.Errorf("auth dependencies are not configured")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, fmt.Errorf("load user for login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.jwtManager.GenerateAccessToken(user.ID)
	if err != nil {
		return LoginResult{}, fmt.Errorf("issue access token: %w", err)
	}

	return LoginResult{
		AccessToken:   token,
		AccessExpires: expiresAt,
		UserID:        user.ID,
	}, nil
}

// ValidateAccessToken verifies the token and requires its subject to
// resolve to an existing user.
func (s *Service) ValidateAccessToken(ctx context.Context, raw string) (AccessClaims, error) {
	if s.jwtManager == nil {
		return AccessClaims{}, fmt.Errorf("jwt manager is not configured")
	}

	claims, err := s.jwtManager.ParseAccessToken(raw)
	if err != nil {
		return AccessClaims{}, err
	}

	if s.users != nil {
		known, err := s.users.Exists(ctx, claims.UserID)
		if err != nil {
			return AccessClaims{}, fmt.Errorf("resolve token subject: %w", err)
		}
		if !known {
			return AccessClaims{}, ErrInvalidCredentials
		}
	}

	return claims, nil
}
