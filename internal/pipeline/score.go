package pipeline

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	atsBase           = 70
	atsMinLength      = 300
	atsShortPenalty   = 15
	atsContactPenalty = 10

	completenessBase       = 30
	completenessPerSection = 15
	completenessCap        = 95
	completenessPenalty    = 8

	matchBase    = 40
	matchPerHit  = 8
	matchHitCap  = 55
	matchLowHits = 3
	scoreFloor   = 1
	scoreCeiling = 100
)

// ScoreResult holds the three heuristic scores and the issues found while computing them.
type ScoreResult struct {
	ATS          int      `json:"atsScore"`
	Completeness int      `json:"completenessScore"`
	Match        int      `json:"matchScore"`
	Issues       []string `json:"issues"`
}

var requiredSections = []SectionType{SectionEducation, SectionExperience, SectionSkills}

// Score rates segmented sections for ATS friendliness, completeness and match with the
// target role. Every score lands in [1,100].
func Score(sections []Chunk, targetRole string) ScoreResult {
	texts := make([]string, 0, len(sections))
	present := make(map[SectionType]bool, len(sections))
	for _, s := range sections {
		texts = append(texts, s.Text)
		present[s.Type] = true
	}
	allText := strings.ToLower(strings.Join(texts, "\n"))
	issues := []string{}

	ats := atsBase
	if utf8.RuneCountInString(allText) < atsMinLength {
		ats -= atsShortPenalty
		issues = append(issues, "简历内容偏短，建议补充可量化成果。")
	}
	if !strings.Contains(allText, "@") && !strings.Contains(allText, "邮箱") {
		ats -= atsContactPenalty
		issues = append(issues, "缺少联系方式字段，可能影响 HR 回访。")
	}

	completeness := min(completenessCap, completenessBase+completenessPerSection*len(sections))
	for _, required := range requiredSections {
		if present[required] {
			continue
		}
		completeness -= completenessPenalty
		issues = append(issues, fmt.Sprintf("缺少 %s 模块。", required))
	}

	hits := 0
	for _, kw := range RoleKeywords(targetRole) {
		if strings.Contains(allText, kw) {
			hits++
		}
	}
	match := matchBase + min(matchHitCap, hits*matchPerHit)
	if hits < matchLowHits {
		issues = append(issues, fmt.Sprintf("与目标岗位 `%s` 的关键词匹配偏低。", targetRole))
	}

	return ScoreResult{
		ATS:          clampScore(ats),
		Completeness: clampScore(completeness),
		Match:        clampScore(match),
		Issues:       issues,
	}
}

// RoleKeywords returns the keyword table used for match scoring.
func RoleKeywords(role string) []string {
	role = strings.ToLower(role)
	switch {
	case strings.Contains(role, "python"):
		return []string{"python", "fastapi", "flask", "sql", "redis", "docker", "api"}
	case strings.Contains(role, "前端") || strings.Contains(role, "frontend"):
		return []string{"vue", "react", "javascript", "typescript", "css", "webpack"}
	default:
		return []string{"沟通", "协作", "项目", "交付", "优化"}
	}
}

func clampScore(v int) int {
	return max(scoreFloor, min(scoreCeiling, v))
}
