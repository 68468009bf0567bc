package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/IlyasAlla/Cloud-Attack-Surface-Detector/internal/app"
	"github.com/IlyasAlla/Cloud-Attack-Surface-Detector/internal/domain"
	"github.com/IlyasAlla/Cloud-Attack-Surface-Detector/internal/logging"
	"github.com/IlyasAlla/Cloud-Attack-Surface-Detector/internal/store"
)

func main() {
	var (
		debug      bool
		configPath string
	)

	rootCmd := &cobra.Command{
		Use:   "cloudsurface",
		Short: "Cloud Surface - attack surface graph builder",
		Long:  "Builds an attack surface graph from discovered cloud assets and simulates breach blast radius",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (optional, production should use real env vars)
			_ = godotenv.Load()

			logging.SetLogLevel(logging.LogLevelWarn)
			if debug {
				logging.SetLogLevel(logging.LogLevelDebug)
			}
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging (verbose output)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a config file overriding the defaults")

	var scanName string
	buildCmd := &cobra.Command{
		Use:   "build <assets.json>",
		Short: "Build the attack surface graph from an asset inventory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(configPath, args[0], scanName)
		},
	}
	buildCmd.Flags().StringVar(&scanName, "name", "", "Name to store the scan under")

	var startNode string
	simulateCmd := &cobra.Command{
		Use:   "simulate <scan-id>",
		Short: "Simulate a breach starting from a compromised node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(configPath, args[0], startNode)
		},
	}
	simulateCmd.Flags().StringVar(&startNode, "start", "", "Node id the attacker starts from")
	_ = simulateCmd.MarkFlagRequired("start")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List stored scans, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(configPath)
		},
	}

	rootCmd.AddCommand(buildCmd, simulateCmd, listCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// runBuild reads the asset inventory, builds the graph, and persists the
// scan. The graph is printed to stdout so it can be piped straight into
// a visualizer.
func runBuild(configPath, assetsPath, scanName string) error {
	a, err := app.New(configPath)
	if err != nil {
		return err
	}

	assets, err := readAssets(assetsPath)
	if err != nil {
		return err
	}

	elements := a.Builder.Build(assets)

	scan := &store.Scan{Name: scanName, Assets: assets, Graph: elements}
	id, err := a.Store.Save(scan)
	if err != nil {
		return fmt.Errorf("saving scan: %w", err)
	}

	fmt.Fprintf(os.Stderr, "scan %s: %d assets, %d graph elements\n", id, len(assets), len(elements))
	return printJSON(elements)
}

func runSimulate(configPath, scanID, startNode string) error {
	a, err := app.New(configPath)
	if err != nil {
		return err
	}

	scan, err := a.Store.Load(scanID)
	if err != nil {
		return err
	}

	result := a.Simulator.Simulate(scan.Graph, startNode)
	return printJSON(result)
}

func runList(configPath string) error {
	a, err := app.New(configPath)
	if err != nil {
		return err
	}

	ids, err := a.Store.List()
	if err != nil {
		return err
	}
	for _, id := range ids {
		scan, err := a.Store.Load(id)
		if err != nil {
			fmt.Fprintf(os.Stderr, "skipping unreadable scan %s: %v\n", id, err)
			continue
		}
		fmt.Printf("%s  %s  %d assets (%d vulnerable)\n",
			scan.ID, scan.Timestamp.Format("2006-01-02 15:04"), scan.Summary.TotalAssets, scan.Summary.VulnAssets)
	}
	return nil
}

func readAssets(path string) ([]domain.Asset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading assets %s: %w", path, err)
	}
	var assets []domain.Asset
	if err := json.Unmarshal(data, &assets); err != nil {
		return nil, fmt.Errorf("parsing assets %s: %w", path, err)
	}
	return assets, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
