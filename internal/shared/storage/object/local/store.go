package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"resumeboost-backend/internal/shared/storage/object"
)

// Store keeps objects as plain files under a root directory.
type Store struct {
	root string
}

func New(root string) object.ObjectStore {
	return &Store{root: root}
}

func (s *Store) Save(ctx context.Context, ownerID string, fileName string, r io.Reader) (string, int64, string, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, "", err
	}
	key, err := object.UploadKey(ownerID, fileName)
	if err != nil {
		return "", 0, "", err
	}
	mimeType, body, err := object.Sniff(r)
	if err != nil {
		return "", 0, "", err
	}
	size, err := s.write(key, body)
	if err != nil {
		return "", 0, "", err
	}
	return key, size, mimeType, nil
}

// SaveWithKey ignores contentType; the filesystem has nowhere to keep it.
func (s *Store) SaveWithKey(ctx context.Context, storageKey string, _ string, r io.Reader) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return s.write(storageKey, r)
}

func (s *Store) Open(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	full, err := s.resolve(storageKey)
	if err != nil {
		return nil, err
	}
	return os.Open(full)
}

func (s *Store) write(storageKey string, r io.Reader) (int64, error) {
	full, err := s.resolve(storageKey)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return 0, fmt.Errorf("mkdir %s: %w", filepath.Dir(full), err)
	}
	f, err := os.Create(full)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", storageKey, err)
	}
	n, copyErr := io.Copy(f, r)
	closeErr := f.Close()
	if copyErr != nil {
		return 0, fmt.Errorf("write %s: %w", storageKey, copyErr)
	}
	if closeErr != nil {
		return 0, fmt.Errorf("close %s: %w", storageKey, closeErr)
	}
	return n, nil
}

func (s *Store) resolve(storageKey string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(storageKey))
	if clean == "." || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) || filepath.IsAbs(clean) {
		return "", fmt.Errorf("%w: %s", object.ErrInvalidKey, storageKey)
	}
	return filepath.Join(s.root, clean), nil
}

var _ object.ObjectStore = (*Store)(nil)
