package projects

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"resumeboost-backend/internal/pipeline"
	"resumeboost-backend/internal/shared/storage/db"
	"resumeboost-backend/internal/usage"
)

type PGRepo struct {
	DB *sql.DB
}

const projectColumns = `id, user_id, title, target_role, target_city, years_experience,
       source_type, source_file_key, source_text, parse_status, is_deleted, created_at, updated_at`

func (r *PGRepo) Create(ctx context.Context, project Project) error {
	const query = `
INSERT INTO resume_projects (
  id, user_id, title, target_role, target_city, years_experience,
  source_type, source_file_key, source_text, parse_status, is_deleted, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, FALSE, $11, $11)`
	var city, years, fileKey any
	if project.TargetCity != nil {
		city = *project.TargetCity
	}
	if project.YearsExperience != nil {
		years = *project.YearsExperience
	}
	if project.SourceFileKey != "" {
		fileKey = project.SourceFileKey
	}
	_, err := r.DB.ExecContext(ctx, query,
		project.ID,
		project.UserID,
		project.Title,
		project.TargetRole,
		city,
		years,
		project.SourceType,
		fileKey,
		project.SourceText,
		project.ParseStatus,
		project.CreatedAt,
	)
	return err
}

func (r *PGRepo) Get(ctx context.Context, userID, projectID string) (Project, error) {
	query := `
SELECT ` + projectColumns + `
FROM resume_projects
WHERE id = $1 AND user_id = $2 AND is_deleted = FALSE`
	project, err := scanProject(r.DB.QueryRowContext(ctx, query, projectID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Project{}, ErrNotFound
		}
		return Project{}, err
	}
	return project, nil
}

func (r *PGRepo) List(ctx context.Context, userID string) ([]Project, error) {
	query := `
SELECT ` + projectColumns + `
FROM resume_projects
WHERE user_id = $1 AND is_deleted = FALSE
ORDER BY created_at DESC, id DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Project, 0)
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, project)
	}
	return out, rows.Err()
}

func (r *PGRepo) SoftDelete(ctx context.Context, userID, projectID string) error {
	const query = `
UPDATE resume_projects
SET is_deleted = TRUE, updated_at = now()
WHERE id = $1 AND user_id = $2 AND is_deleted = FALSE`
	return expectOneRow(r.DB.ExecContext(ctx, query, projectID, userID))
}

func (r *PGRepo) SetParseStatus(ctx context.Context, projectID string, status ParseStatus) error {
	return expectOneRow(r.DB.ExecContext(ctx, updateParseStatusQuery, projectID, status))
}

const updateParseStatusQuery = `
UPDATE resume_projects
SET parse_status = $2, updated_at = now()
WHERE id = $1`

func (r *PGRepo) ReplaceSections(ctx context.Context, projectID string, sections []Section, status ParseStatus) error {
	const deleteQuery = `DELETE FROM resume_sections WHERE project_id = $1`
	const insertQuery = `
INSERT INTO resume_sections (id, project_id, section_type, origin_text, optimized_text, sort_order, accepted)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	return db.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, deleteQuery, projectID); err != nil {
			return fmt.Errorf("delete sections: %w", err)
		}
		for _, s := range sections {
			var optimized any
			if s.OptimizedText != nil {
				optimized = *s.OptimizedText
			}
			if _, err := tx.ExecContext(ctx, insertQuery,
				s.ID, projectID, int(s.Type), s.OriginText, optimized, s.SortOrder, s.Accepted,
			); err != nil {
				return fmt.Errorf("insert section: %w", err)
			}
		}
		return expectOneRow(tx.ExecContext(ctx, updateParseStatusQuery, projectID, status))
	})
}

func (r *PGRepo) ListSections(ctx context.Context, projectID string) ([]Section, error) {
	const query = `
SELECT id, project_id, section_type, origin_text, optimized_text, sort_order, accepted
FROM resume_sections
WHERE project_id = $1
ORDER BY sort_order ASC`
	rows, err := r.DB.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Section, 0)
	for rows.Next() {
		section, err := scanSection(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, section)
	}
	return out, rows.Err()
}

func (r *PGRepo) SaveRewrites(ctx context.Context, projectID string, sections []Section, debit usage.Entry) error {
	const query = `
UPDATE resume_sections
SET optimized_text = $3, accepted = FALSE
WHERE id = $1 AND project_id = $2`
	return db.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		for _, s := range sections {
			var optimized any
			if s.OptimizedText != nil {
				optimized = *s.OptimizedText
			}
			if _, err := tx.ExecContext(ctx, query, s.ID, projectID, optimized); err != nil {
				return fmt.Errorf("save rewrite: %w", err)
			}
		}
		if err := usage.InsertEntry(ctx, tx, debit); err != nil {
			return fmt.Errorf("debit usage: %w", err)
		}
		return nil
	})
}

func (r *PGRepo) GetSection(ctx context.Context, userID, sectionID string) (Section, error) {
	const query = `
SELECT s.id, s.project_id, s.section_type, s.origin_text, s.optimized_text, s.sort_order, s.accepted
FROM resume_sections s
JOIN resume_projects p ON p.id = s.project_id
WHERE s.id = $1 AND p.user_id = $2 AND p.is_deleted = FALSE`
	section, err := scanSection(r.DB.QueryRowContext(ctx, query, sectionID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Section{}, ErrSectionNotFound
		}
		return Section{}, err
	}
	return section, nil
}

func (r *PGRepo) UpdateSection(ctx context.Context, section Section) error {
	const query = `
UPDATE resume_sections
SET optimized_text = $2, accepted = $3
WHERE id = $1`
	var optimized any
	if section.OptimizedText != nil {
		optimized = *section.OptimizedText
	}
	err := expectOneRow(r.DB.ExecContext(ctx, query, section.ID, optimized, section.Accepted))
	if errors.Is(err, ErrNotFound) {
		return ErrSectionNotFound
	}
	return err
}

func (r *PGRepo) UpsertScore(ctx context.Context, score Score) (Score, error) {
	const query = `
INSERT INTO resume_scores (id, project_id, ats_score, completeness_score, match_score, issues, updated_at)
VALUES ($1, $2, $3, $4, $5, $6::jsonb, now())
ON CONFLICT (project_id) DO UPDATE
SET ats_score = EXCLUDED.ats_score,
    completeness_score = EXCLUDED.completeness_score,
    match_score = EXCLUDED.match_score,
    issues = EXCLUDED.issues,
    updated_at = now()
RETURNING id, updated_at`
	issues, err := marshalList(score.Issues)
	if err != nil {
		return Score{}, err
	}
	err = r.DB.QueryRowContext(ctx, query,
		score.ID, score.ProjectID, score.ATS, score.Completeness, score.Match, issues,
	).Scan(&score.ID, &score.UpdatedAt)
	if err != nil {
		return Score{}, err
	}
	return score, nil
}

func (r *PGRepo) GetScore(ctx context.Context, projectID string) (Score, error) {
	const query = `
SELECT id, project_id, ats_score, completeness_score, match_score, issues, updated_at
FROM resume_scores
WHERE project_id = $1`
	var score Score
	var issues []byte
	err := r.DB.QueryRowContext(ctx, query, projectID).Scan(
		&score.ID,
		&score.ProjectID,
		&score.ATS,
		&score.Completeness,
		&score.Match,
		&issues,
		&score.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Score{}, errScoreNotFound
		}
		return Score{}, err
	}
	if score.Issues, err = unmarshalList(issues); err != nil {
		return Score{}, fmt.Errorf("decode issues: %w", err)
	}
	return score, nil
}

func (r *PGRepo) UpsertJdProfile(ctx context.Context, profile JdProfile) (JdProfile, error) {
	const query = `
INSERT INTO jd_profiles (id, project_id, jd_text, keywords, missing_keywords, updated_at)
VALUES ($1, $2, $3, $4::jsonb, $5::jsonb, now())
ON CONFLICT (project_id) DO UPDATE
SET jd_text = EXCLUDED.jd_text,
    keywords = EXCLUDED.keywords,
    missing_keywords = EXCLUDED.missing_keywords,
    updated_at = now()
RETURNING id, updated_at`
	keywords, err := marshalList(profile.Keywords)
	if err != nil {
		return JdProfile{}, err
	}
	missing, err := marshalList(profile.MissingKeywords)
	if err != nil {
		return JdProfile{}, err
	}
	err = r.DB.QueryRowContext(ctx, query,
		profile.ID, profile.ProjectID, profile.JDText, keywords, missing,
	).Scan(&profile.ID, &profile.UpdatedAt)
	if err != nil {
		return JdProfile{}, err
	}
	return profile, nil
}

func (r *PGRepo) GetJdProfile(ctx context.Context, projectID string) (JdProfile, error) {
	const query = `
SELECT id, project_id, jd_text, keywords, missing_keywords, updated_at
FROM jd_profiles
WHERE project_id = $1`
	var profile JdProfile
	var keywords, missing []byte
	err := r.DB.QueryRowContext(ctx, query, projectID).Scan(
		&profile.ID,
		&profile.ProjectID,
		&profile.JDText,
		&keywords,
		&missing,
		&profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return JdProfile{}, errJdProfileNotFound
		}
		return JdProfile{}, err
	}
	if profile.Keywords, err = unmarshalList(keywords); err != nil {
		return JdProfile{}, fmt.Errorf("decode keywords: %w", err)
	}
	if profile.MissingKeywords, err = unmarshalList(missing); err != nil {
		return JdProfile{}, fmt.Errorf("decode missing keywords: %w", err)
	}
	return profile, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (Project, error) {
	var p Project
	var city, fileKey sql.NullString
	var years sql.NullInt64
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Title,
		&p.TargetRole,
		&city,
		&years,
		&p.SourceType,
		&fileKey,
		&p.SourceText,
		&p.ParseStatus,
		&p.Deleted,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return Project{}, err
	}
	if city.Valid {
		v := city.String
		p.TargetCity = &v
	}
	if years.Valid {
		v := int(years.Int64)
		p.YearsExperience = &v
	}
	if fileKey.Valid {
		p.SourceFileKey = fileKey.String
	}
	return p, nil
}

func scanSection(row rowScanner) (Section, error) {
	var s Section
	var sectionType int
	var optimized sql.NullString
	err := row.Scan(
		&s.ID,
		&s.ProjectID,
		&sectionType,
		&s.OriginText,
		&optimized,
		&s.SortOrder,
		&s.Accepted,
	)
	if err != nil {
		return Section{}, err
	}
	s.Type = pipeline.ParseSectionType(sectionType)
	if optimized.Valid {
		v := optimized.String
		s.OptimizedText = &v
	}
	return s, nil
}

func expectOneRow(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func marshalList(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func unmarshalList(raw []byte) ([]string, error) {
	out := []string{}
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

var _ Repo = (*PGRepo)(nil)
