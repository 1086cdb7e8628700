package pipeline

import (
	"regexp"
	"strings"
)

// MaxKeywords caps the number of keywords returned by ExtractKeywords.
const MaxKeywords = 30

var keywordPattern = regexp.MustCompile(`[A-Za-z][A-Za-z0-9+.#-]{1,20}|[\x{4e00}-\x{9fa5}]{2,8}`)

var stopWords = map[string]struct{}{
	"我们": {}, "负责": {}, "要求": {}, "相关": {}, "优先": {},
	"经验": {}, "能力": {}, "以上": {}, "以及": {}, "进行": {},
}

// ExtractKeywords tokenizes text into Latin-initial words and CJK runs, drops stop-words,
// and de-duplicates case-insensitively keeping the first-seen form.
func ExtractKeywords(text string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, word := range keywordPattern.FindAllString(text, -1) {
		lw := strings.ToLower(word)
		if _, stop := stopWords[lw]; stop {
			continue
		}
		if _, dup := seen[lw]; dup {
			continue
		}
		seen[lw] = struct{}{}
		out = append(out, word)
		if len(out) == MaxKeywords {
			break
		}
	}
	return out
}
