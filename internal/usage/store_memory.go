package usage

import (
	"context"
	"sort"
	"sync"
	"time"
)

type memoryStore struct {
	mu            sync.RWMutex
	plans         map[string]Plan
	subscriptions map[string][]Subscription
	ledger        map[string][]Entry
}

// NewMemoryStore returns an in-memory store seeded with the default plans.
func NewMemoryStore() Store {
	s := &memoryStore{
		plans:         make(map[string]Plan),
		subscriptions: make(map[string][]Subscription),
		ledger:        make(map[string][]Entry),
	}
	for _, p := range DefaultPlans() {
		s.plans[p.Code] = p
	}
	return s
}

func (s *memoryStore) ListPlans(ctx context.Context) ([]Plan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Plan, 0, len(s.plans))
	for _, p := range s.plans {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PriceCents < out[j].PriceCents })
	return out, nil
}

func (s *memoryStore) GetPlan(ctx context.Context, code string) (Plan, error) {
	if err := ctx.Err(); err != nil {
		return Plan{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.plans[code]
	if !ok {
		return Plan{}, ErrPlanNotFound
	}
	return p, nil
}

func (s *memoryStore) LatestSubscription(ctx context.Context, userID string) (Subscription, error) {
	if err := ctx.Err(); err != nil {
		return Subscription{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	subs := s.subscriptions[userID]
	if len(subs) == 0 {
		return Subscription{}, ErrSubscriptionNotFound
	}
	return subs[len(subs)-1], nil
}

func (s *memoryStore) CreateSubscription(ctx context.Context, sub Subscription) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscriptions[sub.UserID] = append(s.subscriptions[sub.UserID], sub)
	return nil
}

func (s *memoryStore) AddEntry(ctx context.Context, entry Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger[entry.UserID] = append(s.ledger[entry.UserID], entry)
	return nil
}

func (s *memoryStore) SumUnitsSince(ctx context.Context, userID string, since time.Time) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, e := range s.ledger[userID] {
		if !e.CreatedAt.Before(since) {
			total += e.Units
		}
	}
	return total, nil
}
