// Package app wires the scanner's components together for the CLI.
package app

import (
	"fmt"

	"github.com/IlyasAlla/Cloud-Attack-Surface-Detector/internal/breachsim"
	"github.com/IlyasAlla/Cloud-Attack-Surface-Detector/internal/config"
	"github.com/IlyasAlla/Cloud-Attack-Surface-Detector/internal/graph"
	"github.com/IlyasAlla/Cloud-Attack-Surface-Detector/internal/metrics"
	"github.com/IlyasAlla/Cloud-Attack-Surface-Detector/internal/store"
)

// App holds the configured components shared by every command.
type App struct {
	Config    *config.Config
	Store     *store.Store
	Builder   *graph.Builder
	Simulator *breachsim.Simulator
}

// New loads configuration and initializes the scan store, graph builder,
// and breach simulator. Fails fast if the config or data directory is
// unusable.
func New(configPath string) (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	scanStore, err := store.NewStore(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("initializing scan store: %w", err)
	}

	reg := metrics.Default()
	builder := graph.NewBuilder(graph.Options{
		AttackPaths:         cfg.Build.AttackPaths,
		Persistence:         cfg.Build.Persistence,
		PrivilegeEscalation: cfg.Build.PrivilegeEscalation,
		Metrics:             reg,
	})

	return &App{
		Config:    cfg,
		Store:     scanStore,
		Builder:   builder,
		Simulator: breachsim.NewSimulator(reg),
	}, nil
}
