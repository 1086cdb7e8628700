package tasks

import (
	"context"
	"encoding/json"
	"errors"
)

var ErrNotFound = errors.New("task not found")

// Repo persists tasks.
type Repo interface {
	Create(ctx context.Context, task Task) error
	UpdateStatus(ctx context.Context, taskID, status string, result json.RawMessage, errorMessage string) error
	Get(ctx context.Context, userID, taskID string) (Task, error)
}
