// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/kg-reconciler/internal/container"
	"github.com/pdiddy/kg-reconciler/pkg/types"
)

const (
	defaultServiceImage = "renciorg/nodenorm:latest"
	defaultServicePort  = 8000
)

var serviceCmd = &cobra.Command{
	Use:   "service",
	Short: "Manage a local node-normalization service container",
	Long: `Service runs and inspects a local node-normalization service in a
Docker or Podman container. The normalize stage defaults to the endpoint
this service exposes.`,
}

// --- run subcommand ---

var serviceRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the normalization service in the foreground",
	Long: `Run starts the normalization service container with its port
published on the configured host port, streaming container output until
interrupted.`,
	RunE: runServiceRun,
}

func runServiceRun(cmd *cobra.Command, args []string) error {
	cfg := serviceConfig(cmd)

	rt, err := container.DetectRuntime()
	if err != nil {
		return err
	}
	if err := rt.ImageExists(cfg.Image); err != nil {
		return fmt.Errorf("%w\nPull it first: %s pull %s", err, rt.Name(), cfg.Image)
	}

	fmt.Printf("Starting %s on port %d using %s (Ctrl-C to stop)\n", cfg.Image, cfg.Port, rt.Name())
	return rt.RunService(cfg.Image, cfg.Port, os.Stdout)
}

// --- status subcommand ---

var serviceStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check runtime, image, and service reachability",
	RunE:  runServiceStatus,
}

func runServiceStatus(cmd *cobra.Command, args []string) error {
	cfg := serviceConfig(cmd)

	rt, err := container.DetectRuntime()
	if err != nil {
		fmt.Println("Container runtime: not available")
		return err
	}
	fmt.Printf("Container runtime: %s\n", rt.Name())

	if err := rt.ImageExists(cfg.Image); err != nil {
		fmt.Printf("Image %s: not found\n", cfg.Image)
	} else {
		fmt.Printf("Image %s: present\n", cfg.Image)
	}

	url := fmt.Sprintf("http://127.0.0.1:%d/", cfg.Port)
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		fmt.Printf("Service on port %d: not reachable\n", cfg.Port)
		return nil
	}
	resp.Body.Close()
	fmt.Printf("Service on port %d: reachable (HTTP %d)\n", cfg.Port, resp.StatusCode)
	return nil
}

// --- shared helpers ---

func serviceConfig(cmd *cobra.Command) types.ServiceConfig {
	image, _ := cmd.Flags().GetString("image")
	if image == "" {
		image = defaultServiceImage
	}
	port, _ := cmd.Flags().GetInt("port")
	if port <= 0 {
		port = defaultServicePort
	}
	return types.ServiceConfig{Image: image, Port: port}
}

func init() {
	serviceCmd.PersistentFlags().String("image", defaultServiceImage, "normalization service container image")
	serviceCmd.PersistentFlags().Int("port", defaultServicePort, "host port to publish the service on")

	serviceCmd.AddCommand(serviceRunCmd)
	serviceCmd.AddCommand(serviceStatusCmd)

	rootCmd.AddCommand(serviceCmd)
}
