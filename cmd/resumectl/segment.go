package main

import (
	"github.com/spf13/cobra"

	"resumeboost-backend/internal/pipeline"
)

var segmentCmd = &cobra.Command{
	Use:   "segment [file]",
	Short: "Split a resume into typed sections",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSegment,
}

func init() {
	rootCmd.AddCommand(segmentCmd)
}

type sectionOut struct {
	Type string `json:"type"`
	Code int    `json:"code"`
	Text string `json:"text"`
}

func runSegment(cmd *cobra.Command, args []string) error {
	text, err := readResume(cmd, args)
	if err != nil {
		return err
	}
	return writeJSON(cmd, toSectionOut(pipeline.Segment(text)))
}

func toSectionOut(chunks []pipeline.Chunk) []sectionOut {
	out := make([]sectionOut, 0, len(chunks))
	for _, c := range chunks {
		out = append(out, sectionOut{Type: c.Type.String(), Code: int(c.Type), Text: c.Text})
	}
	return out
}
