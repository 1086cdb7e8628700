package exports

import (
	"context"
	"sync"
)

type MemoryRepo struct {
	mu      sync.RWMutex
	exports map[string]Export
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{exports: make(map[string]Export)}
}

func (r *MemoryRepo) Create(ctx context.Context, export Export) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exports[export.ID] = export
	return nil
}

func (r *MemoryRepo) Get(ctx context.Context, userID, exportID string) (Export, error) {
	if err := ctx.Err(); err != nil {
		return Export{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	export, ok := r.exports[exportID]
	if !ok || export.UserID != userID {
		return Export{}, ErrNotFound
	}
	return export, nil
}

var _ Repo = (*MemoryRepo)(nil)
