package main

import (
	"github.com/spf13/cobra"

	"resumeboost-backend/internal/pipeline"
)

var keywordsCmd = &cobra.Command{
	Use:   "keywords [file]",
	Short: "Extract keywords from text",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runKeywords,
}

func init() {
	rootCmd.AddCommand(keywordsCmd)
}

func runKeywords(cmd *cobra.Command, args []string) error {
	text, err := readResume(cmd, args)
	if err != nil {
		return err
	}
	return writeJSON(cmd, pipeline.ExtractKeywords(text))
}
