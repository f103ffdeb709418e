// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/kg-reconciler/internal/report"
	"github.com/pdiddy/kg-reconciler/pkg/types"
)

var validateCmd = &cobra.Command{
	Use:   "validate [collection.json]",
	Short: "Check a combined collection for structural problems",
	Long: `Validate runs the structural, consistency, and duplicate-identifier
checks over a combined collection and reports every finding. The command
exits non-zero when any issue is found, so it can gate pipelines.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().Bool("json", false, "output the full report as JSON")
	validateCmd.Flags().String("report", "", "also write the full report to this file as YAML")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	reportPath, _ := cmd.Flags().GetString("report")

	c, err := types.LoadCollection(args[0])
	if err != nil {
		return err
	}

	r := report.Generate(c)

	if reportPath != "" {
		if err := r.SaveYAML(reportPath); err != nil {
			return err
		}
		fmt.Printf("Wrote report to %s\n", reportPath)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return err
		}
	} else {
		r.WriteSummary(os.Stdout)
	}

	issues := len(r.ValidationIssues) + len(r.DuplicateIssues)
	if issues > 0 {
		return fmt.Errorf("%d issue(s) found in %s", issues, args[0])
	}
	fmt.Println("\nAll checks passed.")
	return nil
}
