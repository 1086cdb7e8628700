package main

import (
	"strings"

	"github.com/spf13/cobra"

	"resumeboost-backend/internal/pipeline"
)

var rewriteCmd = &cobra.Command{
	Use:   "rewrite [file]",
	Short: "Rewrite every section of a resume",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRewrite,
}

var (
	rewriteMode   string
	rewriteJDFile string
)

func init() {
	rewriteCmd.Flags().StringVar(&rewriteMode, "mode", string(pipeline.ModeBalanced), "conservative, balanced or aggressive")
	rewriteCmd.Flags().StringVar(&rewriteJDFile, "jd", "", "Optional job description; missing keywords are suggested")
	rootCmd.AddCommand(rewriteCmd)
}

type rewriteOut struct {
	Type      string `json:"type"`
	Origin    string `json:"origin"`
	Optimized string `json:"optimized"`
}

func runRewrite(cmd *cobra.Command, args []string) error {
	text, err := readResume(cmd, args)
	if err != nil {
		return err
	}
	jdText, err := readJD(rewriteJDFile)
	if err != nil {
		return err
	}

	var missing []string
	if strings.TrimSpace(jdText) != "" {
		missing = pipeline.AnalyzeJD(jdText, text).MissingKeywords
	}

	mode := pipeline.ParseMode(rewriteMode)
	chunks := pipeline.Segment(text)
	out := make([]rewriteOut, 0, len(chunks))
	for _, c := range chunks {
		origin := strings.TrimSpace(c.Text)
		out = append(out, rewriteOut{
			Type:      c.Type.String(),
			Origin:    origin,
			Optimized: pipeline.Rewrite(origin, mode, missing),
		})
	}
	return writeJSON(cmd, out)
}
