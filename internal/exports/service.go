package exports

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"resumeboost-backend/internal/projects"
	"resumeboost-backend/internal/shared/storage/object"
)

// ProjectReader loads owned projects.
type ProjectReader interface {
	Lookup(ctx context.Context, userID, projectID string) (projects.Project, error)
	Get(ctx context.Context, userID, projectID string) (projects.Detail, error)
}

// Service renders projects to files and serves them back.
type Service struct {
	Projects ProjectReader
	Repo     Repo
	Store    object.ObjectStore
	now      func() time.Time
}

func NewService(projects ProjectReader, repo Repo, store object.ObjectStore) *Service {
	return &Service{Projects: projects, Repo: repo, Store: store, now: func() time.Time { return time.Now().UTC() }}
}

// NormalizeFormat lower-cases format, defaults it to pdf and rejects anything else.
func NormalizeFormat(format string) (string, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatPDF
	}
	if format != FormatPDF {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	return format, nil
}

// Export renders the project and stores the file under its export key.
func (s *Service) Export(ctx context.Context, userID, projectID, format string) (Export, error) {
	format, err := NormalizeFormat(format)
	if err != nil {
		return Export{}, err
	}
	detail, err := s.Projects.Get(ctx, userID, projectID)
	if err != nil {
		return Export{}, err
	}

	data, err := RenderPDF(detail)
	if err != nil {
		return Export{}, err
	}

	createdAt := s.clock()
	key := object.ExportKey(projectID, format, createdAt)
	if _, err := s.Store.SaveWithKey(ctx, key, "application/pdf", bytes.NewReader(data)); err != nil {
		return Export{}, fmt.Errorf("save export: %w", err)
	}

	export := Export{
		ID:         uuid.NewString(),
		UserID:     userID,
		ProjectID:  projectID,
		Format:     format,
		StorageKey: key,
		CreatedAt:  createdAt,
	}
	if err := s.Repo.Create(ctx, export); err != nil {
		return Export{}, err
	}
	return export, nil
}

// Open returns the stored file of an owned export and its download name.
func (s *Service) Open(ctx context.Context, userID, exportID string) (io.ReadCloser, string, error) {
	export, err := s.Repo.Get(ctx, userID, exportID)
	if err != nil {
		return nil, "", err
	}
	body, err := s.Store.Open(ctx, export.StorageKey)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", ErrFileMissing
		}
		return nil, "", err
	}
	return body, path.Base(export.StorageKey), nil
}

func (s *Service) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now().UTC()
}
