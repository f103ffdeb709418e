// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the kg-reconciler CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/kg-reconciler/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns the secret value for key if it exists, or fallback otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the kg-reconciler CLI.
var rootCmd = &cobra.Command{
	Use:   "kg-reconciler",
	Short: "Reconcile biomedical knowledge-graph entities across sources",
	Long: `kg-reconciler builds a unified biomedical entity collection from
heterogeneous knowledge-graph exports. Raw node identifiers are classified
into CURIEs, resolved through a node-normalization service, merged across
sources under a chosen strategy, and checked for structural quality.

Each pipeline stage is a subcommand: classify, normalize, combine, validate,
and stats. The index subcommand serves lookups over a combined collection;
service manages a local normalization service container.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./kg-reconciler.yaml or ~/.config/kg-reconciler/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("kg-reconciler")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "kg-reconciler"))
		}
	}

	viper.SetEnvPrefix("KG_RECONCILER")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
