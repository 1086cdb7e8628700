package projects

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumeboost-backend/internal/extract"
	"resumeboost-backend/internal/pipeline"
	"resumeboost-backend/internal/shared/storage/object/local"
	"resumeboost-backend/internal/usage"
)

const sampleResume = `张三
zhangsan@example.com
教育
某大学 计算机科学
工作经历
负责后端开发，服务 200万 用户
技能
Go, Python, Redis`

type fixture struct {
	svc   *Service
	repo  *MemoryRepo
	usage *usage.Service
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ledger := usage.NewMemoryStore()
	repo := NewMemoryRepo(ledger)
	usageSvc := usage.NewService(ledger, 3)
	return fixture{
		svc:   &Service{Repo: repo, Store: local.New(t.TempDir()), Usage: usageSvc},
		repo:  repo,
		usage: usageSvc,
	}
}

func (f fixture) createProject(t *testing.T, userID, text string) Project {
	t.Helper()
	p, err := f.svc.CreateFromText(context.Background(), userID, CreateInput{
		Title:      "Backend resume",
		TargetRole: "Python 后端",
		SourceText: text,
	})
	require.NoError(t, err)
	return p
}

func TestCreateFromTextValidatesInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateFromText(ctx, "u1", CreateInput{Title: "t", TargetRole: "r", SourceText: "   "})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.CreateFromText(ctx, "u1", CreateInput{Title: " ", TargetRole: "r", SourceText: "x"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	years := -1
	_, err = f.svc.CreateFromText(ctx, "u1", CreateInput{Title: "t", TargetRole: "r", SourceText: "x", YearsExperience: &years})
	assert.ErrorIs(t, err, ErrInvalidInput)

	p := f.createProject(t, "u1", "  hello  ")
	assert.Equal(t, "hello", p.SourceText)
	assert.Equal(t, SourceText, p.SourceType)
	assert.Equal(t, ParsePending, p.ParseStatus)
}

func TestCreateFromFile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	in := CreateInput{Title: "File resume", TargetRole: "frontend"}

	txt, err := f.svc.CreateFromFile(ctx, "u1", in, "resume.txt", strings.NewReader("教育\n某大学\n"))
	require.NoError(t, err)
	assert.Equal(t, SourceFile, txt.SourceType)
	assert.Equal(t, "教育\n某大学", txt.SourceText)
	assert.NotEmpty(t, txt.SourceFileKey)

	pdf, err := f.svc.CreateFromFile(ctx, "u1", in, "resume.pdf", strings.NewReader("%PDF-1.4 binary"))
	require.NoError(t, err)
	assert.Equal(t, extract.Placeholder, pdf.SourceText)

	_, err = f.svc.CreateFromFile(ctx, "u1", in, "", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestParseReplacesSections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.createProject(t, "u1", sampleResume)

	sections, err := f.svc.Parse(ctx, "u1", p.ID)
	require.NoError(t, err)
	require.Len(t, sections, 4)

	wantTypes := []pipeline.SectionType{
		pipeline.SectionProfile, pipeline.SectionEducation, pipeline.SectionExperience, pipeline.SectionSkills,
	}
	for i, s := range sections {
		assert.Equal(t, wantTypes[i], s.Type)
		assert.Equal(t, i, s.SortOrder)
		assert.False(t, s.Accepted)
		assert.Nil(t, s.OptimizedText)
	}

	again, err := f.svc.Parse(ctx, "u1", p.ID)
	require.NoError(t, err)
	stored, err := f.repo.ListSections(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, stored, 4)
	assert.Equal(t, again[0].ID, stored[0].ID)
	assert.NotEqual(t, sections[0].ID, stored[0].ID)

	detail, err := f.svc.Get(ctx, "u1", p.ID)
	require.NoError(t, err)
	assert.Equal(t, ParseDone, detail.Project.ParseStatus)
}

func TestParseEmptySourceKeepsExistingSections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.createProject(t, "u1", sampleResume)

	before, err := f.svc.Parse(ctx, "u1", p.ID)
	require.NoError(t, err)

	f.repo.mu.Lock()
	stored := f.repo.projects[p.ID]
	stored.SourceText = " \n\t "
	f.repo.projects[p.ID] = stored
	f.repo.mu.Unlock()

	_, err = f.svc.Parse(ctx, "u1", p.ID)
	require.ErrorIs(t, err, pipeline.ErrEmptySourceText)

	after, err := f.repo.ListSections(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	detail, err := f.svc.Get(ctx, "u1", p.ID)
	require.NoError(t, err)
	assert.Equal(t, ParseFailed, detail.Project.ParseStatus)
}

func TestScoreUpsertKeepsID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.createProject(t, "u1", sampleResume)
	_, err := f.svc.Parse(ctx, "u1", p.ID)
	require.NoError(t, err)

	first, err := f.svc.Score(ctx, "u1", p.ID)
	require.NoError(t, err)
	second, err := f.svc.Score(ctx, "u1", p.ID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	for _, v := range []int{second.ATS, second.Completeness, second.Match} {
		assert.GreaterOrEqual(t, v, 1)
		assert.LessOrEqual(t, v, 100)
	}
	assert.Equal(t, 90, second.Completeness)

	detail, err := f.svc.Get(ctx, "u1", p.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.Score)
	assert.Equal(t, first.ID, detail.Score.ID)
	assert.Nil(t, detail.JdProfile)
}

func TestAnalyzeJD(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.createProject(t, "u1", sampleResume)

	_, err := f.svc.AnalyzeJD(ctx, "u1", p.ID, "  ")
	assert.ErrorIs(t, err, ErrInvalidInput)

	first, err := f.svc.AnalyzeJD(ctx, "u1", p.ID, "熟悉 Kubernetes 和 Python")
	require.NoError(t, err)
	assert.Equal(t, []string{"熟悉", "Kubernetes", "Python"}, first.Keywords)
	assert.Equal(t, []string{"熟悉", "Kubernetes"}, first.MissingKeywords)

	second, err := f.svc.AnalyzeJD(ctx, "u1", p.ID, "Redis")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Empty(t, second.MissingKeywords)
}

func TestRewriteUsesJDAndDebitsUsage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.createProject(t, "u1", sampleResume)
	_, err := f.svc.Parse(ctx, "u1", p.ID)
	require.NoError(t, err)
	_, err = f.svc.AnalyzeJD(ctx, "u1", p.ID, "熟悉 Kubernetes 和 Python")
	require.NoError(t, err)

	sections, err := f.svc.Rewrite(ctx, "u1", p.ID, pipeline.ModeConservative, true)
	require.NoError(t, err)
	require.Len(t, sections, 4)
	for _, s := range sections {
		require.NotNil(t, s.OptimizedText)
		assert.True(t, strings.HasPrefix(*s.OptimizedText, "优化建议："))
		assert.Contains(t, *s.OptimizedText, "关键词补齐建议：可结合实际补充 熟悉、Kubernetes。")
		assert.False(t, s.Accepted)
	}

	plain, err := f.svc.Rewrite(ctx, "u1", p.ID, pipeline.ParseMode("unknown"), false)
	require.NoError(t, err)
	assert.NotContains(t, *plain[0].OptimizedText, "关键词补齐建议")
	assert.True(t, strings.HasPrefix(*plain[0].OptimizedText, "成果导向："))

	summary, err := f.usage.Summary(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, summary.UsedThisMonth)
}

func TestRewriteResetsAcceptedAndDebitsWithoutSections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.createProject(t, "u1", sampleResume)

	sections, err := f.svc.Rewrite(ctx, "u1", p.ID, pipeline.ModeBalanced, false)
	require.NoError(t, err)
	assert.Empty(t, sections)

	parsed, err := f.svc.Parse(ctx, "u1", p.ID)
	require.NoError(t, err)
	accepted := true
	_, err = f.svc.UpdateSection(ctx, "u1", parsed[0].ID, SectionPatch{Accepted: &accepted})
	require.NoError(t, err)

	rewritten, err := f.svc.Rewrite(ctx, "u1", p.ID, pipeline.ModeBalanced, false)
	require.NoError(t, err)
	assert.False(t, rewritten[0].Accepted)
	stored, err := f.repo.GetSection(ctx, "u1", parsed[0].ID)
	require.NoError(t, err)
	assert.False(t, stored.Accepted)

	summary, err := f.usage.Summary(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, summary.UsedThisMonth)
}

type failingLedger struct{}

func (failingLedger) AddEntry(context.Context, usage.Entry) error {
	return errors.New("ledger down")
}

func TestRewriteKeepsSectionsWhenDebitFails(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo(failingLedger{})
	svc := &Service{Repo: repo, Store: local.New(t.TempDir()), Usage: usage.NewService(usage.NewMemoryStore(), 3)}
	p, err := svc.CreateFromText(ctx, "u1", CreateInput{Title: "t", TargetRole: "Python", SourceText: sampleResume})
	require.NoError(t, err)
	_, err = svc.Parse(ctx, "u1", p.ID)
	require.NoError(t, err)

	_, err = svc.Rewrite(ctx, "u1", p.ID, pipeline.ModeBalanced, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ledger down")

	stored, err := repo.ListSections(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, stored, 4)
	for _, s := range stored {
		assert.Nil(t, s.OptimizedText)
	}
}

func TestRewriteRequiresLedger(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.createProject(t, "u1", sampleResume)
	_, err := f.svc.Parse(ctx, "u1", p.ID)
	require.NoError(t, err)

	noUsage := &Service{Repo: f.repo, Store: f.svc.Store}
	_, err = noUsage.Rewrite(ctx, "u1", p.ID, pipeline.ModeBalanced, false)
	assert.ErrorIs(t, err, ErrNoLedger)

	noLedger := &Service{Repo: NewMemoryRepo(nil), Store: f.svc.Store, Usage: f.usage}
	orphan, err := noLedger.CreateFromText(ctx, "u1", CreateInput{Title: "t", TargetRole: "r", SourceText: sampleResume})
	require.NoError(t, err)
	_, err = noLedger.Rewrite(ctx, "u1", orphan.ID, pipeline.ModeBalanced, false)
	assert.ErrorIs(t, err, ErrNoLedger)

	stored, err := f.repo.ListSections(ctx, p.ID)
	require.NoError(t, err)
	for _, s := range stored {
		assert.Nil(t, s.OptimizedText)
	}
}

func TestUpdateSection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.createProject(t, "u1", sampleResume)
	parsed, err := f.svc.Parse(ctx, "u1", p.ID)
	require.NoError(t, err)

	text := "edited"
	accepted := true
	updated, err := f.svc.UpdateSection(ctx, "u1", parsed[1].ID, SectionPatch{OptimizedText: &text, Accepted: &accepted})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.FinalText())
	assert.True(t, updated.Accepted)

	_, err = f.svc.UpdateSection(ctx, "u2", parsed[1].ID, SectionPatch{Accepted: &accepted})
	assert.ErrorIs(t, err, ErrSectionNotFound)
	_, err = f.svc.UpdateSection(ctx, "u1", "missing", SectionPatch{})
	assert.ErrorIs(t, err, ErrSectionNotFound)
}

func TestOwnershipAndSoftDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.createProject(t, "u1", sampleResume)

	for _, call := range []func() error{
		func() error { _, err := f.svc.Get(ctx, "u2", p.ID); return err },
		func() error { _, err := f.svc.Parse(ctx, "u2", p.ID); return err },
		func() error { _, err := f.svc.Score(ctx, "u2", p.ID); return err },
		func() error { _, err := f.svc.Rewrite(ctx, "u2", p.ID, pipeline.ModeBalanced, false); return err },
		func() error { return f.svc.Delete(ctx, "u2", p.ID) },
	} {
		if err := call(); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound for foreign project, got %v", err)
		}
	}

	require.NoError(t, f.svc.Delete(ctx, "u1", p.ID))
	_, err := f.svc.Get(ctx, "u1", p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	list, err := f.svc.List(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, list)
}
