package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// LocalStorage writes avatar objects to a directory on disk. The
// returned reference is the path relative to the base directory.
type LocalStorage struct {
	dir string
}

func NewLocalStorage(dir string) (*LocalStorage, error) {
	if dir == "" {
		return nil, fmt.Errorf("local media directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media directory %q: %w", dir, err)
	}
	return &LocalStorage{dir: dir}, nil
}

func (s *LocalStorage) Save(_ context.Context, objectName string, payload []byte, _ string) (string, error) {
	if objectName == "" || len(payload) == 0 {
		return "", ErrValidation
	}

	target := filepath.Join(s.dir, objectName)
	if err := os.WriteFile(target, payload, 0o644); err != nil {
		return "", fmt.Errorf("write avatar file %q: %w", target, err)
	}

	return objectName, nil
}
