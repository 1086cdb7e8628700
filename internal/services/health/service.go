package health

import (
	"context"
	"database/sql"
	"time"

	"github.com/redis/go-redis/v9"
)

const probeTimeout = 2 * time.Second

// Service encapsulates health-related checks. Nil dependencies are reported
// as "memory" (database) or "disabled" (redis).
type Service struct {
	DB    *sql.DB
	Redis *redis.Client
}

// NewService constructs a new health service.
func NewService(db *sql.DB, redisClient *redis.Client) *Service {
	return &Service{DB: db, Redis: redisClient}
}

// Report is the health payload.
type Report struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Redis    string `json:"redis"`
}

// Status probes the backing stores. Status is "degraded" when any probe fails.
func (s *Service) Status(ctx context.Context) Report {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	report := Report{Status: "ok", Database: "memory", Redis: "disabled"}
	if s.DB != nil {
		report.Database = "ok"
		if err := s.DB.PingContext(ctx); err != nil {
			report.Database = "unreachable"
			report.Status = "degraded"
		}
	}
	if s.Redis != nil {
		report.Redis = "ok"
		if err := s.Redis.Ping(ctx).Err(); err != nil {
			report.Redis = "unreachable"
			report.Status = "degraded"
		}
	}
	return report
}
