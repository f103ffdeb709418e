// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pdiddy/kg-reconciler/internal/report"
	"github.com/pdiddy/kg-reconciler/pkg/types"
)

var statsCmd = &cobra.Command{
	Use:   "stats [collection.json]",
	Short: "Show distributional statistics for a collection",
	Long: `Stats computes the distribution of a combined collection: entity
counts by source and type, multi-source overlap, and the mean
equivalent-identifier list length. Unlike validate, stats never fails on
an imperfect collection.`,
	Args: cobra.ExactArgs(1),
	RunE: runStats,
}

func init() {
	statsCmd.Flags().Bool("json", false, "output statistics as JSON")

	rootCmd.AddCommand(statsCmd)
}

// statsOutput is the JSON shape of the stats command.
type statsOutput struct {
	Statistics    report.Statistics    `json:"statistics"`
	SourceOverlap report.SourceOverlap `json:"source_overlap"`
}

func runStats(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	c, err := types.LoadCollection(args[0])
	if err != nil {
		return err
	}

	stats := report.ComputeStatistics(c)
	overlap := report.ComputeSourceOverlap(c)

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(statsOutput{Statistics: stats, SourceOverlap: overlap})
	}

	fmt.Printf("Total entities: %d\n", stats.TotalEntities)
	fmt.Printf("Multi-source entities: %d\n", stats.MultiSourceEntities)
	fmt.Printf("Average equivalent identifiers: %.2f\n", stats.AverageEquivalentIdentifiers)

	fmt.Println("\nEntities by source:")
	writeCountMap(stats.EntitiesBySource)

	fmt.Println("\nType distribution:")
	writeCountMap(stats.TypeDistribution)

	fmt.Println("\nSource combinations:")
	writeCountMap(overlap.Combinations)
	return nil
}

func writeCountMap(m map[string]int) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("  %s: %d\n", k, m[k])
	}
}
