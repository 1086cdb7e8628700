package tasks

import (
	"encoding/json"
	"time"
)

const (
	StatusQueued  = "queued"
	StatusRunning = "running"
	StatusDone    = "done"
	StatusFailed  = "failed"

	TypeParse   = "parse"
	TypeScore   = "score"
	TypeRewrite = "rewrite"
	TypeExport  = "export"
)

// Task records one pipeline run against a project.
type Task struct {
	ID           string          `json:"id"`
	UserID       string          `json:"-"`
	ProjectID    string          `json:"projectId,omitempty"`
	Type         string          `json:"taskType"`
	Status       string          `json:"status"`
	Result       json.RawMessage `json:"result,omitempty"`
	ErrorMessage string          `json:"errorMessage,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}
