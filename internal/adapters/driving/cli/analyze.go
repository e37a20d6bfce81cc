package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SJF-ECNU/paperhelper/internal/core/domain"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]...",
	Short: "Analyse documents and print their summaries",
	Long: `Ingest one or more documents, wait for their analysis to finish and print
the summary and top keywords of each. Supported types: .pdf .md .markdown .txt`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

var analyzeFormat string

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeFormat, "format", "f", formatText, "Output format: text, json or yaml")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if err := requireAnalysis(); err != nil {
		return err
	}
	if err := validFormat(analyzeFormat, formatText, formatJSON, formatYAML); err != nil {
		return err
	}

	ctx := cmd.Context()
	var ids []string
	rejected := 0
	for _, path := range args {
		record, err := ingestFile(ctx, path)
		if err != nil {
			rejected++
			cmd.PrintErrf("Skipping %s: %v\n", path, err)
			continue
		}
		ids = append(ids, record.ID)
	}

	analysisService.Wait()

	records := make([]*domain.DocumentRecord, 0, len(ids))
	failed := 0
	for _, id := range ids {
		record, err := analysisService.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get document: %w", err)
		}
		if record.Status == domain.StatusFailed {
			failed++
		}
		records = append(records, record)
	}

	if analyzeFormat == formatText {
		for _, record := range records {
			printAnalysis(cmd, record)
		}
	} else if err := writeStructured(cmd.OutOrStdout(), analyzeFormat, records); err != nil {
		return err
	}

	if rejected+failed > 0 {
		return fmt.Errorf("%d of %d documents could not be analysed", rejected+failed, len(args))
	}
	return nil
}

func ingestFile(ctx context.Context, path string) (*domain.DocumentRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return analysisService.Ingest(ctx, filepath.Base(path), f)
}

func printAnalysis(cmd *cobra.Command, record *domain.DocumentRecord) {
	cmd.Printf("Document: %s\n", record.ID)
	cmd.Printf("  File:     %s\n", record.Filename)
	cmd.Printf("  Status:   %s\n", record.Status)

	if record.Status == domain.StatusFailed {
		cmd.Printf("  Error:    %s\n\n", record.ErrorMessage())
		return
	}
	if record.Artifacts != nil {
		cmd.Printf("  Summary:  %s\n", record.Artifacts.Summary)
		cmd.Printf("  Keywords: %s\n", strings.Join(keywordLabels(record.Artifacts), ", "))
	}
	cmd.Println()
}
