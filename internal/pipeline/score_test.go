package pipeline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreCompleteResume(t *testing.T) {
	filler := strings.Repeat("负责核心模块的设计与实现，", 30)
	sections := []Chunk{
		{Type: SectionEducation, Text: "清华大学 计算机科学"},
		{Type: SectionExperience, Text: "某公司 后端工程师\n使用 Python、FastAPI 和 Flask 构建服务\n" + filler},
		{Type: SectionSkills, Text: "联系邮箱 dev@example.com"},
	}

	got := Score(sections, "Python 后端")

	assert.Equal(t, 70, got.ATS)
	assert.Equal(t, 75, got.Completeness)
	assert.Equal(t, 72, got.Match) // python, fastapi, flask, api
	assert.Empty(t, got.Issues)
}

func TestScoreEmptySectionsIssueOrder(t *testing.T) {
	got := Score(nil, "产品经理")

	assert.Equal(t, 45, got.ATS)
	assert.Equal(t, 6, got.Completeness)
	assert.Equal(t, 40, got.Match)
	require.Equal(t, []string{
		"简历内容偏短，建议补充可量化成果。",
		"缺少联系方式字段，可能影响 HR 回访。",
		"缺少 education 模块。",
		"缺少 experience 模块。",
		"缺少 skills 模块。",
		"与目标岗位 `产品经理` 的关键词匹配偏低。",
	}, got.Issues)
}

func TestScoreCompletenessCapped(t *testing.T) {
	sections := []Chunk{
		{Type: SectionProfile, Text: "邮箱: a"},
		{Type: SectionEducation, Text: "b"},
		{Type: SectionExperience, Text: "c"},
		{Type: SectionProjectExperience, Text: "d"},
		{Type: SectionSkills, Text: "e"},
		{Type: SectionSkills, Text: "f"},
	}
	got := Score(sections, "")
	assert.Equal(t, 95, got.Completeness)
	assert.Equal(t, 55, got.ATS)
}

func TestScoreMatchCapped(t *testing.T) {
	sections := []Chunk{{Type: SectionSkills, Text: "Python FastAPI Flask SQL Redis Docker API"}}
	got := Score(sections, "Senior PYTHON Engineer")
	assert.Equal(t, 95, got.Match)
	assert.NotContains(t, got.Issues, "与目标岗位 `Senior PYTHON Engineer` 的关键词匹配偏低。")
}

func TestScoreFrontendRole(t *testing.T) {
	sections := []Chunk{{Type: SectionSkills, Text: "Vue React"}}
	got := Score(sections, "高级前端工程师")
	assert.Equal(t, 56, got.Match)
	assert.Contains(t, got.Issues, "与目标岗位 `高级前端工程师` 的关键词匹配偏低。")
}

func TestScoreBounds(t *testing.T) {
	inputs := [][]Chunk{
		nil,
		{{Type: SectionProfile, Text: ""}},
		{{Type: SectionSkills, Text: strings.Repeat("python redis docker api sql flask fastapi @ ", 40)}},
		Segment("教育\n北大\n工作经历\nAcme\n技能\nGo\n项目经历\nX\nprojects\nY"),
	}
	roles := []string{"", "python", "frontend", "前端", "产品"}
	for _, sections := range inputs {
		for _, role := range roles {
			got := Score(sections, role)
			for _, v := range []int{got.ATS, got.Completeness, got.Match} {
				assert.GreaterOrEqual(t, v, 1)
				assert.LessOrEqual(t, v, 100)
			}
		}
	}
}

func TestRoleKeywords(t *testing.T) {
	assert.Equal(t, []string{"python", "fastapi", "flask", "sql", "redis", "docker", "api"}, RoleKeywords("Python Developer"))
	assert.Equal(t, []string{"vue", "react", "javascript", "typescript", "css", "webpack"}, RoleKeywords("FrontEnd"))
	assert.Equal(t, []string{"沟通", "协作", "项目", "交付", "优化"}, RoleKeywords("运营"))
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 1, clampScore(-20))
	assert.Equal(t, 100, clampScore(140))
	assert.Equal(t, 57, clampScore(57))
}
