package projects

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"resumeboost-backend/internal/usage"
)

// LedgerWriter appends usage-ledger rows; usage.Store satisfies it.
type LedgerWriter interface {
	AddEntry(ctx context.Context, entry usage.Entry) error
}

type MemoryRepo struct {
	ledger LedgerWriter

	mu       sync.RWMutex
	projects map[string]Project
	sections map[string][]Section
	scores   map[string]Score
	jd       map[string]JdProfile
}

// NewMemoryRepo returns a repo whose rewrite debits go to ledger.
func NewMemoryRepo(ledger LedgerWriter) *MemoryRepo {
	return &MemoryRepo{
		ledger:   ledger,
		projects: make(map[string]Project),
		sections: make(map[string][]Section),
		scores:   make(map[string]Score),
		jd:       make(map[string]JdProfile),
	}
}

func (r *MemoryRepo) Create(ctx context.Context, project Project) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.projects[project.ID] = project
	return nil
}

func (r *MemoryRepo) Get(ctx context.Context, userID, projectID string) (Project, error) {
	if err := ctx.Err(); err != nil {
		return Project{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ownedLocked(userID, projectID)
}

func (r *MemoryRepo) ownedLocked(userID, projectID string) (Project, error) {
	p, ok := r.projects[projectID]
	if !ok || p.Deleted || p.UserID != userID {
		return Project{}, ErrNotFound
	}
	return p, nil
}

func (r *MemoryRepo) List(ctx context.Context, userID string) ([]Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Project, 0)
	for _, p := range r.projects {
		if p.UserID == userID && !p.Deleted {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepo) SoftDelete(ctx context.Context, userID, projectID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, err := r.ownedLocked(userID, projectID)
	if err != nil {
		return err
	}
	p.Deleted = true
	p.UpdatedAt = time.Now().UTC()
	r.projects[projectID] = p
	return nil
}

func (r *MemoryRepo) SetParseStatus(ctx context.Context, projectID string, status ParseStatus) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[projectID]
	if !ok {
		return ErrNotFound
	}
	p.ParseStatus = status
	p.UpdatedAt = time.Now().UTC()
	r.projects[projectID] = p
	return nil
}

func (r *MemoryRepo) ReplaceSections(ctx context.Context, projectID string, sections []Section, status ParseStatus) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[projectID]
	if !ok {
		return ErrNotFound
	}
	r.sections[projectID] = append([]Section(nil), sections...)
	p.ParseStatus = status
	p.UpdatedAt = time.Now().UTC()
	r.projects[projectID] = p
	return nil
}

func (r *MemoryRepo) ListSections(ctx context.Context, projectID string) ([]Section, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := append([]Section{}, r.sections[projectID]...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func (r *MemoryRepo) SaveRewrites(ctx context.Context, projectID string, sections []Section, debit usage.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.ledger == nil {
		return ErrNoLedger
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	// Sections are only touched once the debit is stored.
	if err := r.ledger.AddEntry(ctx, debit); err != nil {
		return fmt.Errorf("debit usage: %w", err)
	}
	byID := make(map[string]Section, len(sections))
	for _, s := range sections {
		byID[s.ID] = s
	}
	stored := r.sections[projectID]
	for i := range stored {
		if s, ok := byID[stored[i].ID]; ok {
			stored[i].OptimizedText = s.OptimizedText
			stored[i].Accepted = false
		}
	}
	return nil
}

func (r *MemoryRepo) GetSection(ctx context.Context, userID, sectionID string) (Section, error) {
	if err := ctx.Err(); err != nil {
		return Section{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for projectID, list := range r.sections {
		for _, s := range list {
			if s.ID != sectionID {
				continue
			}
			if _, err := r.ownedLocked(userID, projectID); err != nil {
				return Section{}, ErrSectionNotFound
			}
			return s, nil
		}
	}
	return Section{}, ErrSectionNotFound
}

func (r *MemoryRepo) UpdateSection(ctx context.Context, section Section) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.sections[section.ProjectID]
	for i := range list {
		if list[i].ID == section.ID {
			list[i].OptimizedText = section.OptimizedText
			list[i].Accepted = section.Accepted
			return nil
		}
	}
	return ErrSectionNotFound
}

func (r *MemoryRepo) UpsertScore(ctx context.Context, score Score) (Score, error) {
	if err := ctx.Err(); err != nil {
		return Score{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.scores[score.ProjectID]; ok {
		score.ID = existing.ID
	}
	score.UpdatedAt = time.Now().UTC()
	r.scores[score.ProjectID] = score
	return score, nil
}

func (r *MemoryRepo) GetScore(ctx context.Context, projectID string) (Score, error) {
	if err := ctx.Err(); err != nil {
		return Score{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.scores[projectID]
	if !ok {
		return Score{}, errScoreNotFound
	}
	return s, nil
}

func (r *MemoryRepo) UpsertJdProfile(ctx context.Context, profile JdProfile) (JdProfile, error) {
	if err := ctx.Err(); err != nil {
		return JdProfile{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.jd[profile.ProjectID]; ok {
		profile.ID = existing.ID
	}
	profile.UpdatedAt = time.Now().UTC()
	r.jd[profile.ProjectID] = profile
	return profile, nil
}

func (r *MemoryRepo) GetJdProfile(ctx context.Context, projectID string) (JdProfile, error) {
	if err := ctx.Err(); err != nil {
		return JdProfile{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.jd[projectID]
	if !ok {
		return JdProfile{}, errJdProfileNotFound
	}
	return p, nil
}

var _ Repo = (*MemoryRepo)(nil)
