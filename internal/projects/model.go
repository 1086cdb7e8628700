package projects

import (
	"time"

	"resumeboost-backend/internal/pipeline"
)

type SourceType string

const (
	SourceText SourceType = "text"
	SourceFile SourceType = "file"
)

type ParseStatus string

const (
	ParsePending ParseStatus = "pending"
	ParseDone    ParseStatus = "done"
	ParseFailed  ParseStatus = "failed"
)

// Project is one resume submitted by a user, with the target it is tuned for.
type Project struct {
	ID              string      `json:"id"`
	UserID          string      `json:"-"`
	Title           string      `json:"title"`
	TargetRole      string      `json:"targetRole"`
	TargetCity      *string     `json:"targetCity"`
	YearsExperience *int        `json:"yearsExperience"`
	SourceType      SourceType  `json:"sourceType"`
	SourceFileKey   string      `json:"-"`
	SourceText      string      `json:"sourceText,omitempty"`
	ParseStatus     ParseStatus `json:"parseStatus"`
	Deleted         bool        `json:"-"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

// Section is a typed block of the project's resume text. SortOrder is 0-based
// and contiguous within a project.
type Section struct {
	ID            string               `json:"id"`
	ProjectID     string               `json:"projectId"`
	Type          pipeline.SectionType `json:"sectionType"`
	OriginText    string               `json:"originText"`
	OptimizedText *string              `json:"optimizedText"`
	SortOrder     int                  `json:"sortOrder"`
	Accepted      bool                 `json:"accepted"`
}

// FinalText is the accepted rendering of the section: the rewrite when one
// exists, otherwise the original text.
func (s Section) FinalText() string {
	if s.OptimizedText != nil && *s.OptimizedText != "" {
		return *s.OptimizedText
	}
	return s.OriginText
}

// Score is the stored scoring result of a project.
type Score struct {
	ID           string    `json:"id"`
	ProjectID    string    `json:"projectId"`
	ATS          int       `json:"atsScore"`
	Completeness int       `json:"completenessScore"`
	Match        int       `json:"matchScore"`
	Issues       []string  `json:"issues"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// JdProfile is the stored job-description analysis of a project.
type JdProfile struct {
	ID              string    `json:"id"`
	ProjectID       string    `json:"projectId"`
	JDText          string    `json:"jdText"`
	Keywords        []string  `json:"keywords"`
	MissingKeywords []string  `json:"missingKeywords"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Detail aggregates a project with its derived data.
type Detail struct {
	Project   Project    `json:"project"`
	Sections  []Section  `json:"sections"`
	Score     *Score     `json:"score"`
	JdProfile *JdProfile `json:"jdProfile"`
}

// CreateInput carries the user-supplied project metadata.
type CreateInput struct {
	Title           string
	TargetRole      string
	TargetCity      *string
	YearsExperience *int
	SourceText      string
}

// SectionPatch updates the user-editable fields of a section; nil fields are left unchanged.
type SectionPatch struct {
	OptimizedText *string
	Accepted      *bool
}

func chunksOf(sections []Section) []pipeline.Chunk {
	chunks := make([]pipeline.Chunk, 0, len(sections))
	for _, s := range sections {
		chunks = append(chunks, pipeline.Chunk{Type: s.Type, Text: s.OriginText})
	}
	return chunks
}
