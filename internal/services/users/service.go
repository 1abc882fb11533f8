package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/SilverAnton/UserIteractionProj/internal/domain/model"
	pgrepo "github.com/SilverAnton/UserIteractionProj/internal/repo/postgres"
	"github.com/SilverAnton/UserIteractionProj/internal/services/geo"
)

var (
	ErrValidation = errors.New("validation error")
	ErrEmailTaken = errors.New("email already registered")
)

type UserStore interface {
	Create(ctx context.Context, u pgrepo.NewUser) (model.User, error)
}

// AvatarStore runs the watermark pipeline and returns the stored
// object reference. Nil means avatars are not accepted.
type AvatarStore interface {
	StoreAvatar(ctx context.Context, source []byte) (string, error)
}

type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Gender    string
	Latitude  *float64
	Longitude *float64
	Avatar    []byte
}

type Service struct {
	users   UserStore
	avatars AvatarStore
}

func NewService(users UserStore, avatars AvatarStore) *Service {
	return &Service{
		users:   users,
		avatars: avatars,
	}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (model.User, error) {
	if err := validateInput(in); err != nil {
		return model.User{}, err
	}
	if s.users == nil {
		return model.User{}, fmt.Errorf("user store is not configured")
	}

	var avatarRef string
	if len(in.Avatar) > 0 {
		if s.avatars == nil {
			return model.User{}, fmt.Errorf("avatar storage is not configured")
		}
		ref, err := s.avatars.StoreAvatar(ctx, in.Avatar)
		if err != nil {
			return model.User{}, fmt.Errorf("process avatar: %w", err)
		}
		avatarRef = ref
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.users.Create(ctx, pgrepo.NewUser{
		Avatar:       avatarRef,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: string(hash),
		Gender:       strings.ToLower(strings.TrimSpace(in.Gender)),
		Latitude:     in.Latitude,
		Longitude:    in.Longitude,
	})
	if err != nil {
		if errors.Is(err, pgrepo.ErrEmailTaken) {
			return model.User{}, ErrEmailTaken
		}
		return model.User{}, fmt.Errorf("create user: %w", err)
	}

	return created, nil
}

func validateInput(in RegisterInput) error {
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return ErrValidation
	}
	email := strings.TrimSpace(in.Email)
	if email == "" || !strings.Contains(email, "@") {
		return ErrValidation
	}
	if in.Password == "" {
		return ErrValidation
	}
	switch strings.ToLower(strings.TrimSpace(in.Gender)) {
	case "male", "female":
	default:
		return ErrValidation
	}

	// Coordinates come as a pair or not at all.
	if (in.Latitude == nil) != (in.Longitude == nil) {
		return ErrValidation
	}
	if in.Latitude != nil {
		if err := geo.ValidateCoordinates(*in.Latitude, *in.Longitude); err != nil {
			return ErrValidation
		}
	}

	return nil
}
