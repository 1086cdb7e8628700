package usage

import "time"

const (
	PlanFree       = "FREE"
	PlanProMonthly = "PRO_MONTHLY"

	SubscriptionActive = "active"

	ActionRewrite = "rewrite"
)

// Plan is a billing tier with a monthly action quota.
type Plan struct {
	Code          string `json:"planCode"`
	Name          string `json:"name"`
	PriceCents    int    `json:"priceCents"`
	QuotaPerMonth int    `json:"quotaPerMonth"`
}

// Subscription binds a user to a plan for a period.
type Subscription struct {
	ID       string    `json:"id"`
	UserID   string    `json:"userId"`
	PlanCode string    `json:"planCode"`
	Status   string    `json:"status"`
	StartAt  time.Time `json:"startAt"`
	EndAt    time.Time `json:"endAt"`
}

// Entry is one usage-ledger debit.
type Entry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ProjectID string    `json:"projectId,omitempty"`
	Action    string    `json:"action"`
	Units     int       `json:"units"`
	CreatedAt time.Time `json:"createdAt"`
}

// Summary is the caller's plan and consumption for the current calendar month.
type Summary struct {
	PlanCode      string `json:"planCode"`
	QuotaPerMonth int    `json:"quotaPerMonth"`
	UsedThisMonth int    `json:"usedThisMonth"`
	Remaining     int    `json:"remaining"`
}

// DefaultPlans mirrors the rows seeded by the billing migration.
func DefaultPlans() []Plan {
	return []Plan{
		{Code: PlanFree, Name: "Free", PriceCents: 0, QuotaPerMonth: 3},
		{Code: PlanProMonthly, Name: "Pro Monthly", PriceCents: 3900, QuotaPerMonth: 200},
	}
}
