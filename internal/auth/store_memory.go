package auth

import (
	"context"
	"sync"
	"time"
)

type MemoryOTPStore struct {
	mu      sync.Mutex
	records map[string][]OTPRecord
}

func NewMemoryOTPStore() *MemoryOTPStore {
	return &MemoryOTPStore{records: make(map[string][]OTPRecord)}
}

func (s *MemoryOTPStore) Save(ctx context.Context, rec OTPRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.Email] = append(s.records[rec.Email], rec)
	return nil
}

func (s *MemoryOTPStore) Latest(ctx context.Context, email string, now time.Time) (OTPRecord, error) {
	if err := ctx.Err(); err != nil {
		return OTPRecord{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.records[email]
	for i := len(list) - 1; i >= 0; i-- {
		rec := list[i]
		if !rec.Used && rec.ExpiresAt.After(now) {
			return rec, nil
		}
	}
	return OTPRecord{}, ErrOTPNotFound
}

func (s *MemoryOTPStore) MarkUsed(ctx context.Context, rec OTPRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.records[rec.Email]
	for i := range list {
		if list[i].ID == rec.ID {
			list[i].Used = true
			return nil
		}
	}
	return ErrOTPNotFound
}

var _ OTPStore = (*MemoryOTPStore)(nil)
