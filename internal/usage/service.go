package usage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Store persists plans, subscriptions and the usage ledger.
type Store interface {
	ListPlans(ctx context.Context) ([]Plan, error)
	GetPlan(ctx context.Context, code string) (Plan, error)
	LatestSubscription(ctx context.Context, userID string) (Subscription, error)
	CreateSubscription(ctx context.Context, sub Subscription) error
	AddEntry(ctx context.Context, entry Entry) error
	SumUnitsSince(ctx context.Context, userID string, since time.Time) (int, error)
}

// Service manages billing data via an underlying store.
type Service struct {
	Store     Store
	FreeQuota int

	now func() time.Time
}

// NewService constructs a Service. freeQuota applies when a user has no active subscription.
func NewService(store Store, freeQuota int) *Service {
	return &Service{Store: store, FreeQuota: freeQuota}
}

func (s *Service) clock() time.Time {
	if s.now != nil {
		return s.now().UTC()
	}
	return time.Now().UTC()
}

// NewEntry validates a debit and stamps its ID and creation time. The entry
// is not stored; callers persist it with Record or inside their own unit of
// work via InsertEntry.
func (s *Service) NewEntry(entry Entry) (Entry, error) {
	if strings.TrimSpace(entry.UserID) == "" || strings.TrimSpace(entry.Action) == "" || entry.Units <= 0 {
		return Entry{}, ErrInvalidEntry
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.clock()
	}
	return entry, nil
}

// Record appends a ledger debit.
func (s *Service) Record(ctx context.Context, entry Entry) error {
	entry, err := s.NewEntry(entry)
	if err != nil {
		return err
	}
	if err := s.Store.AddEntry(ctx, entry); err != nil {
		return fmt.Errorf("add usage entry: %w", err)
	}
	return nil
}

// Plans lists plans ordered by price.
func (s *Service) Plans(ctx context.Context) ([]Plan, error) {
	return s.Store.ListPlans(ctx)
}

// Summary reports the user's plan, quota and usage for the current UTC month.
func (s *Service) Summary(ctx context.Context, userID string) (Summary, error) {
	now := s.clock()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	used, err := s.Store.SumUnitsSince(ctx, userID, monthStart)
	if err != nil {
		return Summary{}, err
	}

	planCode := PlanFree
	quota := s.FreeQuota
	sub, err := s.Store.LatestSubscription(ctx, userID)
	switch {
	case err == nil:
		if sub.Status == SubscriptionActive && sub.EndAt.After(now) {
			plan, perr := s.Store.GetPlan(ctx, sub.PlanCode)
			if perr != nil && !errors.Is(perr, ErrPlanNotFound) {
				return Summary{}, perr
			}
			if perr == nil {
				planCode = plan.Code
				quota = plan.QuotaPerMonth
			}
		}
	case errors.Is(err, ErrSubscriptionNotFound):
	default:
		return Summary{}, err
	}

	return Summary{
		PlanCode:      planCode,
		QuotaPerMonth: quota,
		UsedThisMonth: used,
		Remaining:     max(0, quota-used),
	}, nil
}

// ActivatePro grants a 30-day PRO_MONTHLY subscription without payment.
func (s *Service) ActivatePro(ctx context.Context, userID string) (Subscription, error) {
	plan, err := s.Store.GetPlan(ctx, PlanProMonthly)
	if err != nil {
		return Subscription{}, err
	}
	now := s.clock()
	sub := Subscription{
		ID:       uuid.NewString(),
		UserID:   userID,
		PlanCode: plan.Code,
		Status:   SubscriptionActive,
		StartAt:  now,
		EndAt:    now.Add(30 * 24 * time.Hour),
	}
	if err := s.Store.CreateSubscription(ctx, sub); err != nil {
		return Subscription{}, fmt.Errorf("create subscription: %w", err)
	}
	return sub, nil
}
