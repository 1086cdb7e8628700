package pipeline

import (
	"regexp"
	"strings"
)

// Mode controls the prefix used when rewriting section lines.
type Mode string

const (
	ModeConservative Mode = "conservative"
	ModeBalanced     Mode = "balanced"
	ModeAggressive   Mode = "aggressive"
)

const (
	quantifySuffix       = "，并通过量化指标体现业务影响。"
	maxSuggestedKeywords = 5
)

var quantifiedPattern = regexp.MustCompile(`\p{Nd}+(?:%|人|个|万)`)

// ParseMode maps raw onto a Mode. Matching is exact; anything else, including
// other casings, falls back to ModeBalanced.
func ParseMode(raw string) Mode {
	switch m := Mode(raw); m {
	case ModeConservative, ModeAggressive:
		return m
	default:
		return ModeBalanced
	}
}

func (m Mode) prefix() string {
	switch m {
	case ModeConservative:
		return "优化建议："
	case ModeAggressive:
		return "高强度改写："
	default:
		return "成果导向："
	}
}

// Rewrite produces the optimized variant of a section body. Lines without a quantified
// result get a nudge to add one; missing JD keywords become a trailing suggestion line.
// If no line survives trimming the origin text is returned unchanged.
func Rewrite(origin string, mode Mode, missingKeywords []string) string {
	prefix := mode.prefix()
	var out []string
	for _, raw := range splitLines(origin) {
		line := strings.TrimSpace(strings.Trim(raw, "- "))
		if line == "" {
			continue
		}
		if quantifiedPattern.MatchString(line) {
			out = append(out, prefix+line)
		} else {
			out = append(out, prefix+line+quantifySuffix)
		}
	}
	if len(out) == 0 {
		return origin
	}
	if len(missingKeywords) > 0 {
		top := missingKeywords[:min(maxSuggestedKeywords, len(missingKeywords))]
		out = append(out, "关键词补齐建议：可结合实际补充 "+strings.Join(top, "、")+"。")
	}
	return strings.Join(out, "\n")
}
