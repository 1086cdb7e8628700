package pipeline

import "strings"

// JDMatch is the keyword view of a job description against a resume.
type JDMatch struct {
	Keywords        []string `json:"keywords"`
	MissingKeywords []string `json:"missingKeywords"`
}

// AnalyzeJD extracts keywords from jdText and lists, in order, those absent from rawText.
func AnalyzeJD(jdText, rawText string) JDMatch {
	keywords := ExtractKeywords(jdText)
	haystack := strings.ToLower(rawText)
	missing := []string{}
	for _, kw := range keywords {
		if !strings.Contains(haystack, strings.ToLower(kw)) {
			missing = append(missing, kw)
		}
	}
	return JDMatch{Keywords: keywords, MissingKeywords: missing}
}
