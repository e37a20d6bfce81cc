package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Inspect analysed documents",
	Long:  `List document records, view one record, or export its artifacts.`,
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentList,
}

var documentGetCmd = &cobra.Command{
	Use:   "get [doc-id]",
	Short: "Show document info",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentGet,
}

var documentArtifactsCmd = &cobra.Command{
	Use:   "artifacts [doc-id]",
	Short: "Export the summary, mind map and glossary of a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentArtifacts,
}

var (
	documentFormat  string
	artifactsFormat string
)

func init() {
	documentListCmd.Flags().StringVarP(&documentFormat, "format", "f", formatText, "Output format: text, json or yaml")
	documentGetCmd.Flags().StringVarP(&documentFormat, "format", "f", formatText, "Output format: text, json or yaml")
	documentArtifactsCmd.Flags().StringVarP(&artifactsFormat, "format", "f", formatJSON, "Output format: json or yaml")

	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentGetCmd)
	documentCmd.AddCommand(documentArtifactsCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	if err := requireAnalysis(); err != nil {
		return err
	}
	if err := validFormat(documentFormat, formatText, formatJSON, formatYAML); err != nil {
		return err
	}

	records, err := analysisService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if documentFormat != formatText {
		return writeStructured(cmd.OutOrStdout(), documentFormat, records)
	}

	if len(records) == 0 {
		cmd.Println("No documents found.")
		return nil
	}

	for _, r := range sortedRecords(records) {
		cmd.Printf("  %s  %-10s  %s  %s\n", r.ID, r.Status, r.UploadedAt.Format("2006-01-02 15:04:05"), r.Filename)
	}
	cmd.Printf("\nTotal: %d documents\n", len(records))
	return nil
}

func runDocumentGet(cmd *cobra.Command, args []string) error {
	if err := requireAnalysis(); err != nil {
		return err
	}
	if err := validFormat(documentFormat, formatText, formatJSON, formatYAML); err != nil {
		return err
	}

	record, err := analysisService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	if documentFormat != formatText {
		return writeStructured(cmd.OutOrStdout(), documentFormat, record)
	}

	cmd.Printf("Document: %s\n\n", record.ID)
	cmd.Printf("  File:      %s\n", record.Filename)
	cmd.Printf("  Stored at: %s\n", record.StoragePath)
	cmd.Printf("  Status:    %s\n", record.Status)
	cmd.Printf("  Uploaded:  %s\n", record.UploadedAt.Format("2006-01-02 15:04:05"))
	if msg := record.ErrorMessage(); msg != "" {
		cmd.Printf("  Error:     %s\n", msg)
	}
	if record.Artifacts != nil {
		cmd.Printf("  Summary:   %s\n", record.Artifacts.Summary)
		cmd.Printf("  Keywords:  %s\n", strings.Join(keywordLabels(record.Artifacts), ", "))
		cmd.Printf("  Glossary:  %d entries\n", len(record.Artifacts.Glossary))
	}

	if len(record.Metadata) > 0 {
		cmd.Println("\n  Metadata:")
		for _, k := range sortedKeys(record.Metadata) {
			cmd.Printf("    %s: %s\n", k, record.Metadata[k])
		}
	}

	return nil
}

func runDocumentArtifacts(cmd *cobra.Command, args []string) error {
	if err := requireAnalysis(); err != nil {
		return err
	}
	if err := validFormat(artifactsFormat, formatJSON, formatYAML); err != nil {
		return err
	}

	artifacts, err := analysisService.Artifacts(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get artifacts: %w", err)
	}

	return writeStructured(cmd.OutOrStdout(), artifactsFormat, artifacts)
}
