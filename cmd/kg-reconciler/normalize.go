// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/kg-reconciler/internal/normalize"
	"github.com/pdiddy/kg-reconciler/pkg/types"
)

const defaultUserAgent = "kg-reconciler/0.1"

var normalizeCmd = &cobra.Command{
	Use:   "normalize [input-file]",
	Short: "Resolve CURIEs through the node-normalization service",
	Long: `Normalize reads CURIEs from a compendia JSONL file or a CSV with an
input_curie column, sends them to the normalization service in batches, and
writes the resulting entity collection as JSON. CURIEs the service cannot
map are recorded as null; a failed batch degrades its members to null and
the run continues.`,
	Args: cobra.ExactArgs(1),
	RunE: runNormalize,
}

func init() {
	normalizeCmd.Flags().String("out", "normalized.json", "output file for the normalized collection")
	normalizeCmd.Flags().String("endpoint", "", "get_normalized_nodes URL (default local service)")
	normalizeCmd.Flags().Int("batch-size", 0, "CURIEs per request (default 100)")
	normalizeCmd.Flags().Duration("batch-delay", 0, "pause between batches (default 100ms)")
	normalizeCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	normalizeCmd.Flags().Int("limit", 0, "only normalize the first N CURIEs (0 = all)")
	normalizeCmd.Flags().String("api-key", "", "API key sent as x-api-key (default: .secrets/nodenorm-api-key)")

	rootCmd.AddCommand(normalizeCmd)
}

func runNormalize(cmd *cobra.Command, args []string) error {
	out, _ := cmd.Flags().GetString("out")
	endpoint, _ := cmd.Flags().GetString("endpoint")
	batchSize, _ := cmd.Flags().GetInt("batch-size")
	batchDelay, _ := cmd.Flags().GetDuration("batch-delay")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	limit, _ := cmd.Flags().GetInt("limit")
	apiKey, _ := cmd.Flags().GetString("api-key")

	curies, err := normalize.LoadCuries(args[0], limit)
	if err != nil {
		return err
	}
	if len(curies) == 0 {
		return fmt.Errorf("no CURIEs found in %s", args[0])
	}

	cfg := types.NormalizeConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		Endpoint:   endpoint,
		BatchSize:  batchSize,
		BatchDelay: batchDelay,
		APIKey:     secretDefault("nodenorm-api-key", apiKey),
	}

	client := normalize.NewClient(cfg)

	start := time.Now()
	results, err := client.NormalizeAll(context.Background(), curies, os.Stdout)
	if err != nil {
		return err
	}

	if err := types.SaveCollection(out, results); err != nil {
		return err
	}

	mapped := normalize.Mapped(results)
	fmt.Printf("\nNormalized %d/%d CURIEs in %s\n", mapped, len(curies), time.Since(start).Round(time.Millisecond))
	fmt.Printf("Wrote collection to %s\n", out)
	return nil
}
