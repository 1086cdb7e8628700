package exports

import (
	"errors"
	"time"
)

const FormatPDF = "pdf"

var (
	ErrNotFound          = errors.New("export not found")
	ErrFileMissing       = errors.New("export file not found")
	ErrUnsupportedFormat = errors.New("unsupported export format")
)

// Export records one rendered file of a project.
type Export struct {
	ID         string    `json:"id"`
	UserID     string    `json:"-"`
	ProjectID  string    `json:"projectId"`
	Format     string    `json:"format"`
	StorageKey string    `json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
}
