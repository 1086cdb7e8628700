package main

import (
	"github.com/spf13/cobra"

	"resumeboost-backend/internal/pipeline"
)

var scoreCmd = &cobra.Command{
	Use:   "score [file]",
	Short: "Score a resume against a target role",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runScore,
}

var scoreRole string

func init() {
	scoreCmd.Flags().StringVar(&scoreRole, "role", "", "Target role, e.g. \"python backend\"")
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	text, err := readResume(cmd, args)
	if err != nil {
		return err
	}
	return writeJSON(cmd, pipeline.Score(pipeline.Segment(text), scoreRole))
}
