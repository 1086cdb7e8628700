package tasks

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu    sync.RWMutex
	tasks map[string]Task
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{tasks: make(map[string]Task)}
}

func (r *MemoryRepo) Create(ctx context.Context, task Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks[task.ID] = task
	return nil
}

func (r *MemoryRepo) UpdateStatus(ctx context.Context, taskID, status string, result json.RawMessage, errorMessage string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[taskID]
	if !ok {
		return ErrNotFound
	}
	task.Status = status
	if result != nil {
		task.Result = append(json.RawMessage(nil), result...)
	}
	task.ErrorMessage = errorMessage
	task.UpdatedAt = time.Now().UTC()
	r.tasks[taskID] = task
	return nil
}

func (r *MemoryRepo) Get(ctx context.Context, userID, taskID string) (Task, error) {
	if err := ctx.Err(); err != nil {
		return Task{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	task, ok := r.tasks[taskID]
	if !ok || task.UserID != userID {
		return Task{}, ErrNotFound
	}
	return task, nil
}

var _ Repo = (*MemoryRepo)(nil)
