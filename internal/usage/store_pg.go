package usage

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type pgStore struct {
	DB *sql.DB
}

// NewPGStore constructs a Postgres-backed billing store.
func NewPGStore(db *sql.DB) Store {
	return &pgStore{DB: db}
}

func (s *pgStore) ListPlans(ctx context.Context) ([]Plan, error) {
	const query = `
SELECT code, name, price_cents, monthly_quota
FROM plans
ORDER BY price_cents`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Plan
	for rows.Next() {
		var p Plan
		if err := rows.Scan(&p.Code, &p.Name, &p.PriceCents, &p.QuotaPerMonth); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *pgStore) GetPlan(ctx context.Context, code string) (Plan, error) {
	const query = `
SELECT code, name, price_cents, monthly_quota
FROM plans
WHERE code = $1`
	var p Plan
	err := s.DB.QueryRowContext(ctx, query, code).Scan(&p.Code, &p.Name, &p.PriceCents, &p.QuotaPerMonth)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Plan{}, ErrPlanNotFound
		}
		return Plan{}, err
	}
	return p, nil
}

func (s *pgStore) LatestSubscription(ctx context.Context, userID string) (Subscription, error) {
	const query = `
SELECT id, user_id, plan_code, status, start_at, end_at
FROM subscriptions
WHERE user_id = $1
ORDER BY start_at DESC
LIMIT 1`
	var sub Subscription
	err := s.DB.QueryRowContext(ctx, query, userID).Scan(
		&sub.ID,
		&sub.UserID,
		&sub.PlanCode,
		&sub.Status,
		&sub.StartAt,
		&sub.EndAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Subscription{}, ErrSubscriptionNotFound
		}
		return Subscription{}, err
	}
	return sub, nil
}

func (s *pgStore) CreateSubscription(ctx context.Context, sub Subscription) error {
	const query = `
INSERT INTO subscriptions (id, user_id, plan_code, status, start_at, end_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := s.DB.ExecContext(ctx, query, sub.ID, sub.UserID, sub.PlanCode, sub.Status, sub.StartAt, sub.EndAt)
	return err
}

func (s *pgStore) AddEntry(ctx context.Context, entry Entry) error {
	return InsertEntry(ctx, s.DB, entry)
}

// Execer is satisfied by *sql.DB and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// InsertEntry writes one ledger row through ex, so other repositories can
// debit inside their own transaction.
func InsertEntry(ctx context.Context, ex Execer, entry Entry) error {
	const query = `
INSERT INTO usage_ledger (id, user_id, action, units, project_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	var projectID any
	if entry.ProjectID != "" {
		projectID = entry.ProjectID
	}
	_, err := ex.ExecContext(ctx, query, entry.ID, entry.UserID, entry.Action, entry.Units, projectID, entry.CreatedAt)
	return err
}

func (s *pgStore) SumUnitsSince(ctx context.Context, userID string, since time.Time) (int, error) {
	const query = `
SELECT COALESCE(SUM(units), 0)
FROM usage_ledger
WHERE user_id = $1 AND created_at >= $2`
	var total int
	if err := s.DB.QueryRowContext(ctx, query, userID, since).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
