package projects

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"resumeboost-backend/internal/pipeline"
	"resumeboost-backend/internal/usage"
)

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func TestPGRepoReplaceSectionsRunsInTransaction(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM resume_sections WHERE project_id = \\$1").
		WithArgs("p1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("INSERT INTO resume_sections").
		WithArgs("s1", "p1", int(pipeline.SectionProfile), "张三", nil, 0, false).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO resume_sections").
		WithArgs("s2", "p1", int(pipeline.SectionSkills), "Go", nil, 1, false).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE resume_projects\\s+SET parse_status = \\$2").
		WithArgs("p1", ParseDone).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	sections := []Section{
		{ID: "s1", ProjectID: "p1", Type: pipeline.SectionProfile, OriginText: "张三", SortOrder: 0},
		{ID: "s2", ProjectID: "p1", Type: pipeline.SectionSkills, OriginText: "Go", SortOrder: 1},
	}
	if err := repo.ReplaceSections(context.Background(), "p1", sections, ParseDone); err != nil {
		t.Fatalf("ReplaceSections: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoReplaceSectionsRollsBackOnInsertError(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM resume_sections").
		WithArgs("p1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO resume_sections").
		WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	err := repo.ReplaceSections(context.Background(), "p1", []Section{{ID: "s1", OriginText: "x"}}, ParseDone)
	if err == nil {
		t.Fatalf("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoSaveRewritesDebitsInSameTransaction(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	debit := usage.Entry{ID: "e1", UserID: "u1", ProjectID: "p1", Action: usage.ActionRewrite, Units: 1, CreatedAt: now}
	text := "成果导向：Go"

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE resume_sections\\s+SET optimized_text = \\$3, accepted = FALSE").
		WithArgs("s1", "p1", text).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO usage_ledger").
		WithArgs("e1", "u1", usage.ActionRewrite, 1, "p1", now).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	if err := repo.SaveRewrites(context.Background(), "p1", []Section{{ID: "s1", OptimizedText: &text}}, debit); err != nil {
		t.Fatalf("SaveRewrites: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoSaveRewritesRollsBackWhenDebitFails(t *testing.T) {
	repo, mock := newMockRepo(t)
	text := "成果导向：Go"

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE resume_sections").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO usage_ledger").
		WillReturnError(errors.New("ledger down"))
	mock.ExpectRollback()

	err := repo.SaveRewrites(context.Background(), "p1", []Section{{ID: "s1", OptimizedText: &text}},
		usage.Entry{ID: "e1", UserID: "u1", Action: usage.ActionRewrite, Units: 1})
	if err == nil {
		t.Fatalf("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetFiltersOwnerAndDeleted(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("FROM resume_projects\\s+WHERE id = \\$1 AND user_id = \\$2 AND is_deleted = FALSE").
		WithArgs("p1", "u2").
		WillReturnError(sql.ErrNoRows)

	if _, err := repo.Get(context.Background(), "u2", "p1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetScansNullableColumns(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{
		"id", "user_id", "title", "target_role", "target_city", "years_experience",
		"source_type", "source_file_key", "source_text", "parse_status", "is_deleted", "created_at", "updated_at",
	}).AddRow("p1", "u1", "Resume", "Go", "Shanghai", nil, "text", nil, "body", "done", false, now, now)
	mock.ExpectQuery("FROM resume_projects").WithArgs("p1", "u1").WillReturnRows(rows)

	project, err := repo.Get(context.Background(), "u1", "p1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if project.TargetCity == nil || *project.TargetCity != "Shanghai" {
		t.Fatalf("expected target city Shanghai, got %v", project.TargetCity)
	}
	if project.YearsExperience != nil {
		t.Fatalf("expected nil years, got %v", *project.YearsExperience)
	}
	if project.ParseStatus != ParseDone || project.SourceFileKey != "" {
		t.Fatalf("unexpected project: %+v", project)
	}
}

func TestPGRepoSoftDeleteMissing(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE resume_projects\\s+SET is_deleted = TRUE").
		WithArgs("p1", "u1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.SoftDelete(context.Background(), "u1", "p1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoGetSectionJoinsOwner(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("JOIN resume_projects p ON p.id = s.project_id").
		WithArgs("s1", "u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "project_id", "section_type", "origin_text", "optimized_text", "sort_order", "accepted"}).
			AddRow("s1", "p1", 5, "Go", "成果导向：Go", 2, true))

	section, err := repo.GetSection(context.Background(), "u1", "s1")
	if err != nil {
		t.Fatalf("GetSection: %v", err)
	}
	if section.Type != pipeline.SectionSkills || section.FinalText() != "成果导向：Go" || !section.Accepted {
		t.Fatalf("unexpected section: %+v", section)
	}

	mock.ExpectQuery("JOIN resume_projects").
		WithArgs("s1", "u2").
		WillReturnError(sql.ErrNoRows)
	if _, err := repo.GetSection(context.Background(), "u2", "s1"); !errors.Is(err, ErrSectionNotFound) {
		t.Fatalf("expected ErrSectionNotFound, got %v", err)
	}
}

func TestPGRepoUpsertScoreReturnsStoredID(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery("INSERT INTO resume_scores").
		WithArgs("new-id", "p1", 55, 90, 48, `["缺少联系方式字段，可能影响 HR 回访。"]`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "updated_at"}).AddRow("old-id", now))

	score, err := repo.UpsertScore(context.Background(), Score{
		ID:           "new-id",
		ProjectID:    "p1",
		ATS:          55,
		Completeness: 90,
		Match:        48,
		Issues:       []string{"缺少联系方式字段，可能影响 HR 回访。"},
	})
	if err != nil {
		t.Fatalf("UpsertScore: %v", err)
	}
	if score.ID != "old-id" {
		t.Fatalf("expected stored id old-id, got %s", score.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetJdProfileDecodesLists(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery("FROM jd_profiles").
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "project_id", "jd_text", "keywords", "missing_keywords", "updated_at"}).
			AddRow("j1", "p1", "jd", []byte(`["Go","Kafka"]`), []byte(`["Kafka"]`), now))

	profile, err := repo.GetJdProfile(context.Background(), "p1")
	if err != nil {
		t.Fatalf("GetJdProfile: %v", err)
	}
	if len(profile.Keywords) != 2 || profile.MissingKeywords[0] != "Kafka" {
		t.Fatalf("unexpected profile: %+v", profile)
	}

	mock.ExpectQuery("FROM jd_profiles").WithArgs("p2").WillReturnError(sql.ErrNoRows)
	if _, err := repo.GetJdProfile(context.Background(), "p2"); !errors.Is(err, errJdProfileNotFound) {
		t.Fatalf("expected errJdProfileNotFound, got %v", err)
	}
}
