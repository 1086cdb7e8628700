package exports

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-pdf/fpdf"

	"resumeboost-backend/internal/projects"
)

var nonASCIIRun = regexp.MustCompile(`[^\x00-\x7F]+`)

// safeText replaces runs the core fonts cannot draw with a single '?'.
func safeText(text string) string {
	return nonASCIIRun.ReplaceAllString(text, "?")
}

// RenderPDF lays out the project title, target role and every section's final
// text on A4 pages using the built-in Helvetica font.
func RenderPDF(detail projects.Detail) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetCreator("resumeboost", false)
	doc.SetAutoPageBreak(true, 12)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 14)
	doc.CellFormat(0, 10, safeText(detail.Project.Title), "", 1, "", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(0, 8, safeText("Target Role: "+detail.Project.TargetRole), "", 1, "", false, 0, "")

	for _, section := range detail.Sections {
		doc.Ln(2)
		doc.SetFont("Helvetica", "B", 12)
		doc.CellFormat(0, 8, fmt.Sprintf("Section %d", int(section.Type)), "", 1, "", false, 0, "")
		doc.SetFont("Helvetica", "", 10)
		for _, line := range lines(section.FinalText()) {
			doc.MultiCell(0, 6, safeText(line), "", "", false)
		}
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func lines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
