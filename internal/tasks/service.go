package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"resumeboost-backend/internal/shared/metrics"
	"resumeboost-backend/internal/shared/telemetry"
)

// Service records the lifecycle of pipeline runs.
type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// Run creates a queued task, marks it running, executes fn and stores either
// its JSON result (done) or its error message (failed). A failing fn does not
// make Run fail; the returned error only reports bookkeeping problems.
func (s *Service) Run(ctx context.Context, userID, projectID, taskType string, fn func(ctx context.Context) (any, error)) (Task, error) {
	now := time.Now().UTC()
	task := Task{
		ID:        uuid.NewString(),
		UserID:    userID,
		ProjectID: projectID,
		Type:      taskType,
		Status:    StatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Repo.Create(ctx, task); err != nil {
		return Task{}, fmt.Errorf("create task: %w", err)
	}
	if err := s.Repo.UpdateStatus(ctx, task.ID, StatusRunning, nil, ""); err != nil {
		return Task{}, fmt.Errorf("start task: %w", err)
	}
	metrics.IncTaskStarted(taskType)

	start := time.Now()
	out, runErr := fn(ctx)
	metrics.ObserveTaskDurationMs(float64(time.Since(start).Microseconds()) / 1000.0)

	fields := map[string]any{
		"task_id":    task.ID,
		"task_type":  taskType,
		"project_id": projectID,
		"user_id":    userID,
	}

	if runErr != nil {
		metrics.IncTaskFailed(taskType)
		fields["error"] = runErr.Error()
		telemetry.Warn("task.failed", fields)
		if err := s.Repo.UpdateStatus(ctx, task.ID, StatusFailed, nil, runErr.Error()); err != nil {
			return Task{}, fmt.Errorf("fail task: %w", err)
		}
		return s.Repo.Get(ctx, userID, task.ID)
	}

	var result json.RawMessage
	if out != nil {
		raw, err := json.Marshal(out)
		if err != nil {
			return Task{}, fmt.Errorf("encode task result: %w", err)
		}
		result = raw
	}
	if err := s.Repo.UpdateStatus(ctx, task.ID, StatusDone, result, ""); err != nil {
		return Task{}, fmt.Errorf("finish task: %w", err)
	}
	metrics.IncTaskDone(taskType)
	telemetry.Info("task.done", fields)
	return s.Repo.Get(ctx, userID, task.ID)
}

// Get returns a task owned by userID.
func (s *Service) Get(ctx context.Context, userID, taskID string) (Task, error) {
	return s.Repo.Get(ctx, userID, taskID)
}
