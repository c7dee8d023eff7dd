package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"go-equipment-analytics/internal/pipeline"
)

var analyzePreview int

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file.csv>",
	Short: "Compute summary analytics for a local CSV file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		t, err := pipeline.ParseCSV(f)
		if err != nil {
			return err
		}
		result, err := pipeline.ComputeSummaryAnalytics(t)
		if err != nil {
			return err
		}

		out := map[string]any{"summary": result}
		if cmd.Flags().Changed("preview") {
			out["preview"] = pipeline.PreviewRows(t, analyzePreview)
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
		return nil
	},
}

func init() {
	analyzeCmd.Flags().IntVar(&analyzePreview, "preview", 5, "also print the first N rows")
	rootCmd.AddCommand(analyzeCmd)
}
