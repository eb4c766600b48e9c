package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/pthm-cable/depthcharge/config"
	"github.com/pthm-cable/depthcharge/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for snapshot files")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Uint64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	throttle := flag.Float64("player-throttle", 0, "Player engine and motor target in -1..1")
	dive := flag.Float64("player-dive", 0, "Player ballast pump target in -1..1 (positive floods)")
	debug := flag.Bool("debug", false, "Log debug events")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = uint64(time.Now().UnixNano())
	}

	sim, err := game.NewSim(config.Cfg(), game.Options{
		Seed:           rngSeed,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		SnapshotDir:    *snapshotDir,
		OutputDir:      *outputDir,
	})
	if err != nil {
		slog.Error("failed to create simulation", "error", err)
		os.Exit(1)
	}

	ctl := sim.Control()
	for _, set := range []struct {
		channel string
		target  float64
	}{
		{game.ChannelEngine, *throttle},
		{game.ChannelMotor, *throttle},
		{game.ChannelPump, *dive},
	} {
		if err := ctl.SetTarget(set.channel, set.target); err != nil {
			slog.Error("failed to set player control", "channel", set.channel, "error", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	slog.Info("starting headless simulation",
		"seed", rngSeed,
		"max_ticks", *maxTicks,
		"output_dir", *outputDir,
	)

	runErr := sim.Run(ctx, *maxTicks)
	if runErr != nil {
		slog.Error("simulation failed", "tick", sim.Tick(), "error", runErr)
	}
	closeErr := sim.Close()
	if closeErr != nil {
		slog.Error("failed to close output", "error", closeErr)
	}
	if runErr != nil || closeErr != nil {
		stop()
		os.Exit(1)
	}
	slog.Info("simulation finished", "tick", sim.Tick(), "sim_time", sim.Elapsed(), "player_alive", sim.PlayerAlive())
}
