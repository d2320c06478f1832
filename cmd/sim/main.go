package main

import (
	"context"
	"flag"
	"fmt"
	"os/signal"
	"syscall"

	"hftsim/internal/common"
	"hftsim/internal/config"
	"hftsim/internal/logger"
	"hftsim/internal/output"
	"hftsim/internal/sim"

	"github.com/rs/zerolog/log"
)

func main() {
	envPath := flag.String("env", "", "Path to a .env file (defaults to ./.env)")
	ticks := flag.Int("ticks", 0, "Number of ticks to simulate")
	deterministic := flag.Bool("deterministic", false, "Use a stepping clock and sequential ids")
	priority := flag.String("priority", "", "Queue ordering: ['time', 'price-time']")
	csvPath := flag.String("csv", "", "Trade CSV output path")
	chartPath := flag.String("chart", "", "Chart PNG output path")
	dbPath := flag.String("db", "", "SQLite trade store path (disabled when empty)")
	flag.Parse()

	cfg, err := config.LoadFromEnv(*envPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Flags given on the command line win over the environment.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "ticks":
			cfg.Ticks = *ticks
		case "deterministic":
			cfg.Deterministic = *deterministic
		case "priority":
			cfg.Priority = *priority
		case "csv":
			cfg.Output.TradesCSV = *csvPath
		case "chart":
			cfg.Output.Chart = *chartPath
		case "db":
			cfg.Output.Database = *dbPath
		}
	})

	logger.Init(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
	)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("simulation failed")
	}
}

// run simulates the market in memory, then hands the finished tape to the
// output sinks. Any error is fatal to the run.
func run(ctx context.Context, cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	clock, ids := sim.Sources(cfg.Deterministic)
	simulator, err := sim.FromConfig(cfg, clock, ids)
	if err != nil {
		return fmt.Errorf("setup: %w", err)
	}

	log.Info().
		Int("ticks", cfg.Ticks).
		Str("priority", cfg.Priority).
		Bool("deterministic", cfg.Deterministic).
		Msg("simulation starting")

	result := simulator.Run()
	for _, p := range result.Positions {
		log.Info().
			Str("owner", p.Owner).
			Float64("position", p.Quantity).
			Float64("cash", p.Cash).
			Int("fills", p.Fills).
			Msg("strategy position")
	}

	sinks := []output.Sink{
		&output.CSVWriter{Path: cfg.Output.TradesCSV},
		output.NewChartRenderer(cfg.Output.Chart),
	}
	if cfg.Output.Database != "" {
		store, err := output.OpenTradeStore(cfg.Output.Database)
		if err != nil {
			return fmt.Errorf("sqlite: %w", err)
		}
		defer store.Close()

		// Run ids stay random even in deterministic mode so repeated runs
		// can share a store.
		runID := common.RandomIDs{}.NewID()
		sinks = append(sinks, &output.StoreSink{Store: store, RunID: runID})
		log.Info().Str("run_id", runID).Msg("storing trades")
	}

	return output.Publish(ctx, result.Trades, sinks...)
}
