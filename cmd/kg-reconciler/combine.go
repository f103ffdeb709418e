// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/kg-reconciler/internal/merge"
	"github.com/pdiddy/kg-reconciler/internal/report"
	"github.com/pdiddy/kg-reconciler/pkg/types"
)

const defaultLeftWeight = 0.6

var combineCmd = &cobra.Command{
	Use:   "combine [source=collection.json...]",
	Short: "Merge normalized collections from multiple sources",
	Long: `Combine merges two or more normalized entity collections into one,
resolving colliding canonical identifiers under the selected strategy:

  union         keep every identifier, merge colliding entities (default)
  intersection  keep only identifiers present in every source
  confidence    score entities and let the higher score win collisions
  type          keep the entity whose semantic types rank highest

Sources are given as name=path pairs, e.g. PrimeKG=normalized/primekg.json.
Order matters for the confidence and type strategies: ties keep the entity
from the earlier source.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runCombine,
}

func init() {
	combineCmd.Flags().String("strategy", "union", "merge strategy: union, intersection, confidence, or type")
	combineCmd.Flags().Float64("left-weight", defaultLeftWeight, "confidence base weight for the first source; the rest get its complement")
	combineCmd.Flags().String("primary-source", "", "source receiving the primary confidence bonus (default: first source)")
	combineCmd.Flags().String("out", "combined.json", "output file for the combined collection")
	combineCmd.Flags().Bool("stats", false, "print a quality report for the combined collection")

	rootCmd.AddCommand(combineCmd)
}

func runCombine(cmd *cobra.Command, args []string) error {
	strategyName, _ := cmd.Flags().GetString("strategy")
	leftWeight, _ := cmd.Flags().GetFloat64("left-weight")
	primarySource, _ := cmd.Flags().GetString("primary-source")
	out, _ := cmd.Flags().GetString("out")
	showStats, _ := cmd.Flags().GetBool("stats")

	strategy, err := merge.ParseStrategy(strategyName)
	if err != nil {
		return err
	}
	if leftWeight < 0 || leftWeight > 1 {
		return fmt.Errorf("left-weight must be in [0,1], got %g", leftWeight)
	}

	sources, err := parseSources(args)
	if err != nil {
		return err
	}

	opts := merge.Options{
		SourceWeights: sourceWeights(sources, leftWeight),
		PrimarySource: primarySource,
	}

	result, err := merge.Merge(strategy, sources, opts)
	if err != nil {
		return err
	}

	for _, issue := range result.Issues {
		fmt.Fprintf(os.Stderr, "warning: %s/%s excluded: %s\n", issue.Source, issue.Key, issue.Message)
	}

	combined := result.Collection()
	if err := types.SaveCollection(out, combined); err != nil {
		return err
	}

	fmt.Printf("Combined %d sources into %d entities (%s strategy, %d excluded)\n",
		len(sources), len(combined), strategy, len(result.Issues))
	fmt.Printf("Wrote collection to %s\n", out)

	if showStats {
		fmt.Println()
		report.Generate(combined).WriteSummary(os.Stdout)
	}
	return nil
}

// parseSources resolves name=path arguments into loaded collections,
// preserving argument order.
func parseSources(args []string) ([]merge.Source, error) {
	sources := make([]merge.Source, 0, len(args))
	for _, arg := range args {
		name, path, ok := strings.Cut(arg, "=")
		if !ok || name == "" || path == "" {
			return nil, fmt.Errorf("invalid source %q: use name=path, e.g. PrimeKG=normalized/primekg.json", arg)
		}
		records, err := types.LoadCollection(path)
		if err != nil {
			return nil, err
		}
		sources = append(sources, merge.Source{Name: name, Records: records})
	}
	return sources, nil
}

// sourceWeights assigns the left weight to the first source and its
// complement to the rest.
func sourceWeights(sources []merge.Source, leftWeight float64) map[string]float64 {
	weights := make(map[string]float64, len(sources))
	for i, src := range sources {
		if i == 0 {
			weights[src.Name] = leftWeight
		} else {
			weights[src.Name] = 1 - leftWeight
		}
	}
	return weights
}
