package projects

import (
	"context"

	"resumeboost-backend/internal/usage"
)

// Repo persists projects and their derived data. Lookups taking a userID only
// return non-deleted projects owned by that user.
type Repo interface {
	Create(ctx context.Context, project Project) error
	Get(ctx context.Context, userID, projectID string) (Project, error)
	List(ctx context.Context, userID string) ([]Project, error)
	SoftDelete(ctx context.Context, userID, projectID string) error
	SetParseStatus(ctx context.Context, projectID string, status ParseStatus) error

	// ReplaceSections swaps the whole section set and the parse status in one unit of work.
	ReplaceSections(ctx context.Context, projectID string, sections []Section, status ParseStatus) error
	ListSections(ctx context.Context, projectID string) ([]Section, error)
	// SaveRewrites stores OptimizedText for each section, resets Accepted and
	// appends debit to the usage ledger, all in one unit of work.
	SaveRewrites(ctx context.Context, projectID string, sections []Section, debit usage.Entry) error
	GetSection(ctx context.Context, userID, sectionID string) (Section, error)
	UpdateSection(ctx context.Context, section Section) error

	// UpsertScore keeps the existing row ID when the project was scored before.
	UpsertScore(ctx context.Context, score Score) (Score, error)
	GetScore(ctx context.Context, projectID string) (Score, error)
	UpsertJdProfile(ctx context.Context, profile JdProfile) (JdProfile, error)
	GetJdProfile(ctx context.Context, projectID string) (JdProfile, error)
}
