package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"resumeboost-backend/internal/pipeline"
)

var jdCmd = &cobra.Command{
	Use:   "jd [file]",
	Short: "Compare a resume with a job description",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runJD,
}

var jdFile string

func init() {
	jdCmd.Flags().StringVar(&jdFile, "jd", "", "Path to the job description text (required)")
	rootCmd.AddCommand(jdCmd)
}

func runJD(cmd *cobra.Command, args []string) error {
	jdText, err := readJD(jdFile)
	if err != nil {
		return err
	}
	if strings.TrimSpace(jdText) == "" {
		return fmt.Errorf("--jd must name a non-empty job description file")
	}
	text, err := readResume(cmd, args)
	if err != nil {
		return err
	}
	return writeJSON(cmd, pipeline.AnalyzeJD(jdText, text))
}
