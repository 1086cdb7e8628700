package object

import (
	"context"
	"errors"
	"io"
	"path"
	"strconv"
	"time"
)

// ErrInvalidKey reports a storage key that escapes the store root.
var ErrInvalidKey = errors.New("invalid storage key")

// ObjectStore saves and retrieves binary objects such as uploaded resumes and
// rendered exports.
type ObjectStore interface {
	// Save stores an upload under the owner's namespace and returns the generated key.
	Save(ctx context.Context, ownerID string, fileName string, r io.Reader) (storageKey string, sizeBytes int64, mimeType string, err error)
	// SaveWithKey stores data under a caller-chosen key.
	SaveWithKey(ctx context.Context, storageKey string, contentType string, r io.Reader) (int64, error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
}

// ExportKey returns the key for a rendered export of a project.
func ExportKey(projectID, format string, at time.Time) string {
	return path.Join("exports", projectID, "resume_"+projectID+"_"+strconv.FormatInt(at.Unix(), 10)+"."+format)
}
