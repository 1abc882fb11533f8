package media

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var ErrValidation = errors.New("validation error")

// Storage persists a finished avatar object and returns the reference
// stored on the user record.
type Storage interface {
	Save(ctx context.Context, objectName string, payload []byte, contentType string) (string, error)
}

// Service runs the avatar pipeline: watermark the upload, then hand the
// PNG to the configured storage backend under a random object name.
type Service struct {
	watermarker *Watermarker
	storage     Storage
}

func NewService(watermarker *Watermarker, storage Storage) *Service {
	return &Service{
		watermarker: watermarker,
		storage:     storage,
	}
}

func (s *Service) StoreAvatar(ctx context.Context, source []byte) (string, error) {
	if len(source) == 0 {
		return "", ErrValidation
	}
	if s.watermarker == nil || s.storage == nil {
		return "", fmt.Errorf("media dependencies are not configured")
	}

	stamped, err := s.watermarker.Apply(source)
	if err != nil {
		return "", err
	}

	objectName := uuid.NewString() + ".png"

	ref, err := s.storage.Save(ctx, objectName, stamped, "image/png")
	if err != nil {
		return "", fmt.Errorf("store avatar: %w", err)
	}

	return ref, nil
}
