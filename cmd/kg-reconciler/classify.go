// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/kg-reconciler/internal/classify"
	"github.com/pdiddy/kg-reconciler/internal/dataset"
	"github.com/pdiddy/kg-reconciler/pkg/types"
)

var classifyCmd = &cobra.Command{
	Use:   "classify [dataset] [nodes-file]",
	Short: "Map raw dataset identifiers to CURIEs and build compendia",
	Long: `Classify reads a dataset's nodes CSV, maps each raw identifier to a
CURIE using the fixed-priority rule list, and writes a compendia JSONL file
plus a mapping report. Identifiers that match no rule are reported as
unmapped with bounded examples per node type, never treated as errors.

Supported datasets: ` + strings.Join(dataset.Names(), ", ") + `.`,
	Args: cobra.ExactArgs(2),
	RunE: runClassify,
}

func init() {
	classifyCmd.Flags().String("out-dir", "compendia", "output directory for compendia and reports")
	classifyCmd.Flags().Int("limit-per-type", 0, "cap rows per node type for sampling runs (0 = all)")
	classifyCmd.Flags().Int("unmapped-examples", 0, "unmapped examples retained per node type (default 5)")

	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
	name, nodesFile := args[0], args[1]

	outDir, _ := cmd.Flags().GetString("out-dir")
	limitPerType, _ := cmd.Flags().GetInt("limit-per-type")
	unmappedExamples, _ := cmd.Flags().GetInt("unmapped-examples")

	cfg := types.ClassifyConfig{
		OutDir:           outDir,
		LimitPerType:     limitPerType,
		UnmappedExamples: unmappedExamples,
	}

	result, err := dataset.Build(name, nodesFile, classify.NewDefault(), cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	compendiaPath := filepath.Join(cfg.OutDir, name+"_compendia.jsonl")
	if err := dataset.WriteJSONL(compendiaPath, result.Records); err != nil {
		return err
	}

	reportPath := filepath.Join(cfg.OutDir, name+"_mapping_report.txt")
	reportFile, err := os.Create(reportPath)
	if err != nil {
		return fmt.Errorf("creating mapping report %s: %w", reportPath, err)
	}
	result.Summary.WriteReport(reportFile)
	if err := reportFile.Close(); err != nil {
		return fmt.Errorf("writing mapping report %s: %w", reportPath, err)
	}

	result.Summary.WriteReport(os.Stdout)
	fmt.Printf("\nWrote %d compendia records to %s\n", len(result.Records), compendiaPath)
	fmt.Printf("Wrote mapping report to %s\n", reportPath)
	return nil
}
