package pipeline

import "strings"

// SectionType identifies the semantic block a chunk of resume text belongs to.
// The numeric values are persisted, so they must stay stable.
type SectionType int

const (
	SectionProfile           SectionType = 1
	SectionEducation         SectionType = 2
	SectionExperience        SectionType = 3
	SectionProjectExperience SectionType = 4
	SectionSkills            SectionType = 5
)

// String returns the short name used in issue texts and API payloads.
func (t SectionType) String() string {
	switch t {
	case SectionEducation:
		return "education"
	case SectionExperience:
		return "experience"
	case SectionProjectExperience:
		return "project"
	case SectionSkills:
		return "skills"
	default:
		return "profile"
	}
}

// ParseSectionType maps a stored code back to a SectionType; unknown codes become Profile.
func ParseSectionType(code int) SectionType {
	switch t := SectionType(code); t {
	case SectionProfile, SectionEducation, SectionExperience, SectionProjectExperience, SectionSkills:
		return t
	default:
		return SectionProfile
	}
}

// Chunk is one typed span of resume text.
type Chunk struct {
	Type SectionType `json:"type"`
	Text string      `json:"text"`
}

// splitLines breaks text on every Unicode line boundary: \n, \r\n, \r,
// \v, \f, the file/group/record separators, NEL, U+2028 and U+2029.
// Empty lines are dropped.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.FieldsFunc(text, isLineBoundary)
}

func isLineBoundary(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', 0x1c, 0x1d, 0x1e, 0x85, 0x2028, 0x2029:
		return true
	}
	return false
}
