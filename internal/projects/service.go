package projects

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"resumeboost-backend/internal/extract"
	"resumeboost-backend/internal/pipeline"
	"resumeboost-backend/internal/shared/storage/object"
	"resumeboost-backend/internal/usage"
)

// EntryBuilder validates and stamps usage-ledger debits; *usage.Service
// satisfies it. The repo stores the entry together with the rewrite.
type EntryBuilder interface {
	NewEntry(entry usage.Entry) (usage.Entry, error)
}

// Service contains business logic for resume projects.
type Service struct {
	Repo  Repo
	Store object.ObjectStore
	Usage EntryBuilder
}

// CreateFromText stores a project whose resume was pasted as text.
func (s *Service) CreateFromText(ctx context.Context, userID string, in CreateInput) (Project, error) {
	text := strings.TrimSpace(in.SourceText)
	if text == "" {
		return Project{}, fmt.Errorf("%w: sourceText is required", ErrInvalidInput)
	}
	project, err := newProject(userID, in)
	if err != nil {
		return Project{}, err
	}
	project.SourceType = SourceText
	project.SourceText = text
	if err := s.Repo.Create(ctx, project); err != nil {
		return Project{}, err
	}
	return project, nil
}

// CreateFromFile saves the upload to the object store and derives the source text from it.
func (s *Service) CreateFromFile(ctx context.Context, userID string, in CreateInput, fileName string, r io.Reader) (Project, error) {
	if strings.TrimSpace(fileName) == "" {
		return Project{}, fmt.Errorf("%w: file is required", ErrInvalidInput)
	}
	project, err := newProject(userID, in)
	if err != nil {
		return Project{}, err
	}

	key, _, _, err := s.Store.Save(ctx, userID, fileName, r)
	if err != nil {
		return Project{}, fmt.Errorf("save upload: %w", err)
	}
	text, err := extract.FromStore(ctx, s.Store, key, fileName)
	if err != nil {
		return Project{}, err
	}

	project.SourceType = SourceFile
	project.SourceFileKey = key
	project.SourceText = strings.TrimSpace(text)
	if err := s.Repo.Create(ctx, project); err != nil {
		return Project{}, err
	}
	return project, nil
}

func newProject(userID string, in CreateInput) (Project, error) {
	if strings.TrimSpace(userID) == "" {
		return Project{}, fmt.Errorf("%w: user id required", ErrInvalidInput)
	}
	title := strings.TrimSpace(in.Title)
	role := strings.TrimSpace(in.TargetRole)
	if title == "" || role == "" {
		return Project{}, fmt.Errorf("%w: title and targetRole are required", ErrInvalidInput)
	}
	if in.YearsExperience != nil && *in.YearsExperience < 0 {
		return Project{}, fmt.Errorf("%w: yearsExperience must not be negative", ErrInvalidInput)
	}
	now := time.Now().UTC()
	return Project{
		ID:              uuid.NewString(),
		UserID:          userID,
		Title:           title,
		TargetRole:      role,
		TargetCity:      in.TargetCity,
		YearsExperience: in.YearsExperience,
		ParseStatus:     ParsePending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// List returns the user's projects, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]Project, error) {
	return s.Repo.List(ctx, userID)
}

// Get returns the project with its sections, score and JD profile.
func (s *Service) Get(ctx context.Context, userID, projectID string) (Detail, error) {
	project, err := s.Repo.Get(ctx, userID, projectID)
	if err != nil {
		return Detail{}, err
	}
	sections, err := s.Repo.ListSections(ctx, projectID)
	if err != nil {
		return Detail{}, err
	}
	detail := Detail{Project: project, Sections: sections}

	score, err := s.Repo.GetScore(ctx, projectID)
	switch {
	case err == nil:
		detail.Score = &score
	case !errors.Is(err, errScoreNotFound):
		return Detail{}, err
	}

	profile, err := s.Repo.GetJdProfile(ctx, projectID)
	switch {
	case err == nil:
		detail.JdProfile = &profile
	case !errors.Is(err, errJdProfileNotFound):
		return Detail{}, err
	}
	return detail, nil
}

// Delete soft-deletes the project.
func (s *Service) Delete(ctx context.Context, userID, projectID string) error {
	return s.Repo.SoftDelete(ctx, userID, projectID)
}

// Parse segments the source text and replaces the project's sections. Blank
// source text marks the parse failed and leaves existing sections in place.
func (s *Service) Parse(ctx context.Context, userID, projectID string) ([]Section, error) {
	project, err := s.Repo.Get(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}

	text := strings.TrimSpace(project.SourceText)
	if text == "" {
		if err := s.Repo.SetParseStatus(ctx, projectID, ParseFailed); err != nil {
			return nil, fmt.Errorf("mark parse failed: %w", err)
		}
		return nil, pipeline.ErrEmptySourceText
	}

	chunks := pipeline.Segment(text)
	sections := make([]Section, 0, len(chunks))
	for i, chunk := range chunks {
		sections = append(sections, Section{
			ID:         uuid.NewString(),
			ProjectID:  projectID,
			Type:       chunk.Type,
			OriginText: strings.TrimSpace(chunk.Text),
			SortOrder:  i,
		})
	}
	if err := s.Repo.ReplaceSections(ctx, projectID, sections, ParseDone); err != nil {
		return nil, fmt.Errorf("replace sections: %w", err)
	}
	return sections, nil
}

// Score rates the stored sections against the project's target role.
func (s *Service) Score(ctx context.Context, userID, projectID string) (Score, error) {
	project, err := s.Repo.Get(ctx, userID, projectID)
	if err != nil {
		return Score{}, err
	}
	sections, err := s.Repo.ListSections(ctx, projectID)
	if err != nil {
		return Score{}, err
	}

	result := pipeline.Score(chunksOf(sections), project.TargetRole)
	return s.Repo.UpsertScore(ctx, Score{
		ID:           uuid.NewString(),
		ProjectID:    projectID,
		ATS:          result.ATS,
		Completeness: result.Completeness,
		Match:        result.Match,
		Issues:       result.Issues,
	})
}

// AnalyzeJD extracts keywords from a job description and stores those missing
// from the project's source text.
func (s *Service) AnalyzeJD(ctx context.Context, userID, projectID, jdText string) (JdProfile, error) {
	jdText = strings.TrimSpace(jdText)
	if jdText == "" {
		return JdProfile{}, fmt.Errorf("%w: jdText is required", ErrInvalidInput)
	}
	project, err := s.Repo.Get(ctx, userID, projectID)
	if err != nil {
		return JdProfile{}, err
	}

	match := pipeline.AnalyzeJD(jdText, project.SourceText)
	return s.Repo.UpsertJdProfile(ctx, JdProfile{
		ID:              uuid.NewString(),
		ProjectID:       projectID,
		JDText:          jdText,
		Keywords:        match.Keywords,
		MissingKeywords: match.MissingKeywords,
	})
}

// Rewrite produces an optimized variant of every section and debits one usage
// unit in the same unit of work. Missing JD keywords are suggested only when
// useJD is set and the project has a JD profile.
func (s *Service) Rewrite(ctx context.Context, userID, projectID string, mode pipeline.Mode, useJD bool) ([]Section, error) {
	if s.Usage == nil {
		return nil, ErrNoLedger
	}
	if _, err := s.Repo.Get(ctx, userID, projectID); err != nil {
		return nil, err
	}
	debit, err := s.Usage.NewEntry(usage.Entry{
		UserID:    userID,
		ProjectID: projectID,
		Action:    usage.ActionRewrite,
		Units:     1,
	})
	if err != nil {
		return nil, fmt.Errorf("record usage: %w", err)
	}
	sections, err := s.Repo.ListSections(ctx, projectID)
	if err != nil {
		return nil, err
	}

	var missing []string
	if useJD {
		profile, err := s.Repo.GetJdProfile(ctx, projectID)
		switch {
		case err == nil:
			missing = profile.MissingKeywords
		case !errors.Is(err, errJdProfileNotFound):
			return nil, err
		}
	}

	for i := range sections {
		optimized := pipeline.Rewrite(sections[i].OriginText, mode, missing)
		sections[i].OptimizedText = &optimized
		sections[i].Accepted = false
	}
	if err := s.Repo.SaveRewrites(ctx, projectID, sections, debit); err != nil {
		return nil, fmt.Errorf("save rewrites: %w", err)
	}
	return sections, nil
}

// UpdateSection applies a user edit to one section of an owned project.
func (s *Service) UpdateSection(ctx context.Context, userID, sectionID string, patch SectionPatch) (Section, error) {
	section, err := s.Repo.GetSection(ctx, userID, sectionID)
	if err != nil {
		return Section{}, err
	}
	if patch.OptimizedText != nil {
		v := *patch.OptimizedText
		section.OptimizedText = &v
	}
	if patch.Accepted != nil {
		section.Accepted = *patch.Accepted
	}
	if err := s.Repo.UpdateSection(ctx, section); err != nil {
		return Section{}, err
	}
	return section, nil
}

// Lookup returns the project when it is owned by userID and not deleted.
func (s *Service) Lookup(ctx context.Context, userID, projectID string) (Project, error) {
	return s.Repo.Get(ctx, userID, projectID)
}
