// Command dune-engine runs a full game against a mock agent provider and
// prints the resulting event stream, serving as both a smoke test and a
// worked example of driving the manager from outside the package.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/arrakis-dune/engine/internal/config"
	"github.com/arrakis-dune/engine/internal/logger"
	"github.com/arrakis-dune/engine/pkg/dune"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	logger.Init(cfg.LogLevel, cfg.DevMode)
	log := logger.Get()
	runID := logger.NewRunID()
	ctx := logger.WithRunID(context.Background(), runID)

	if cfg.Seed != 0 {
		dune.SeedEngine(cfg.Seed)
	}

	reg := prometheus.NewRegistry()
	metrics := dune.NewMetrics(reg)

	provider := dune.PassAllProvider{}
	mgr := dune.NewManager(provider)
	metrics.Instrument(mgr)

	mgr.AddEventListener(func(e dune.Event) {
		log.Info().
			Str("run_id", runID).
			Str("type", string(e.Type)).
			Int("turn", e.Turn).
			Str("phase", string(e.Phase)).
			Str("faction", string(e.Faction)).
			Msg("event")
	})

	initial := &dune.GameState{
		Config: dune.GameConfig{
			MaxTurns:      cfg.MaxTurns,
			AdvancedRules: cfg.AdvancedRules,
		},
		FactionOrder: []dune.Faction{
			dune.Atreides, dune.Harkonnen, dune.Emperor, dune.Fremen, dune.BeneGesserit, dune.Guild,
		},
	}

	final, err := mgr.Run(ctx, initial)
	if err != nil {
		log.Error().Err(err).Msg("run aborted")
		os.Exit(1)
	}

	log.Info().Str("winner", string(final.Winner)).Int("turns", final.Turn).Msg("game complete")
}
