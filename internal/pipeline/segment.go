package pipeline

import "strings"

type marker struct {
	section SectionType
	keys    []string
}

// Checked top to bottom; the first group with a hit wins.
var sectionMarkers = []marker{
	{section: SectionEducation, keys: []string{"教育", "education"}},
	{section: SectionExperience, keys: []string{"工作经历", "experience", "经历"}},
	{section: SectionProjectExperience, keys: []string{"项目经历", "projects", "project"}},
	{section: SectionSkills, keys: []string{"技能", "skills"}},
}

// Segment splits raw resume text into ordered, typed chunks. Marker lines switch the
// current section and are not part of any chunk body. It never returns an empty slice.
func Segment(text string) []Chunk {
	var lines []string
	for _, raw := range splitLines(text) {
		if line := strings.TrimSpace(raw); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return []Chunk{{Type: SectionProfile, Text: text}}
	}

	var out []Chunk
	current := SectionProfile
	var buf []string
	for _, line := range lines {
		matched, ok := matchMarker(strings.ToLower(line))
		if !ok {
			buf = append(buf, line)
			continue
		}
		if len(buf) > 0 {
			out = append(out, Chunk{Type: current, Text: strings.Join(buf, "\n")})
		}
		current = matched
		buf = nil
	}
	if len(buf) > 0 {
		out = append(out, Chunk{Type: current, Text: strings.Join(buf, "\n")})
	}
	if len(out) == 0 {
		out = append(out, Chunk{Type: SectionProfile, Text: text})
	}
	return out
}

func matchMarker(lowered string) (SectionType, bool) {
	for _, m := range sectionMarkers {
		for _, key := range m.keys {
			if strings.Contains(lowered, key) {
				return m.section, true
			}
		}
	}
	return 0, false
}
