// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/kg-reconciler/internal/entityindex"
	"github.com/pdiddy/kg-reconciler/pkg/types"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Serve lookups over a combined collection (load, lookup, search)",
	Long: `Index persists a combined collection in a local SQLite database and
serves lookups: by canonical CURIE, by any equivalent identifier, or by
full-text search over entity labels.`,
}

// --- load subcommand ---

var indexLoadCmd = &cobra.Command{
	Use:   "load [collection.json]",
	Short: "Load a combined collection into the entity index",
	Long: `Load writes a combined collection into the index database. Entities
already present are replaced along with their equivalent identifiers; null
records are skipped and counted.`,
	Args: cobra.ExactArgs(1),
	RunE: runIndexLoad,
}

func runIndexLoad(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	c, err := types.LoadCollection(args[0])
	if err != nil {
		return err
	}

	_, err = store.Load(context.Background(), c, os.Stdout)
	return err
}

// --- lookup subcommand ---

var indexLookupCmd = &cobra.Command{
	Use:   "lookup [curie]",
	Short: "Resolve a CURIE to its entity record",
	Long: `Lookup resolves a CURIE to its full entity record, matching either
the canonical identifier or any equivalent identifier.`,
	Args: cobra.ExactArgs(1),
	RunE: runIndexLookup,
}

func runIndexLookup(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	rec, err := store.Lookup(context.Background(), args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(rec)
}

// --- search subcommand ---

var indexSearchCmd = &cobra.Command{
	Use:   "search [query...]",
	Short: "Full-text search over entity labels",
	RunE:  runIndexSearch,
}

func runIndexSearch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide a search query")
	}
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	results, err := store.Search(context.Background(), strings.Join(args, " "), limit)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}
	for i, r := range results {
		fmt.Printf("%-4d  %-24s  %s\n", i+1, r.Key, r.ID.Label)
	}
	fmt.Printf("\n%d results\n", len(results))
	return nil
}

// --- shared helpers ---

func openStore(cmd *cobra.Command) (*entityindex.Store, error) {
	indexDir, _ := cmd.Flags().GetString("index-dir")
	maxResults, _ := cmd.Flags().GetInt("max-results")

	return entityindex.NewStore(types.IndexConfig{
		IndexDir:   indexDir,
		MaxResults: maxResults,
	})
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	indexCmd.PersistentFlags().String("index-dir", "index", "directory containing the index database")
	indexCmd.PersistentFlags().Int("max-results", 20, "maximum number of query results")

	indexSearchCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	indexSearchCmd.Flags().Bool("json", false, "output results as JSON")

	indexCmd.AddCommand(indexLoadCmd)
	indexCmd.AddCommand(indexLookupCmd)
	indexCmd.AddCommand(indexSearchCmd)

	rootCmd.AddCommand(indexCmd)
}
