// Package game wires the world, the entity factory and the systems into a
// fixed-step simulation.
package game

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/depthcharge/components"
	"github.com/pthm-cable/depthcharge/config"
	"github.com/pthm-cable/depthcharge/ocean"
	"github.com/pthm-cable/depthcharge/systems"
	"github.com/pthm-cable/depthcharge/telemetry"
)

// Options configures simulation creation.
type Options struct {
	Seed           uint64
	LogStats       bool    // log window stats and bookmarks via slog
	StatsWindowSec float64 // 0 = use config
	OutputDir      string  // CSV output and config snapshot, empty = disabled
	SnapshotDir    string  // vessel snapshots on bookmarks, empty = disabled
	NoPopulate     bool    // start with the player only
}

// Sim holds the complete simulation state.
type Sim struct {
	cfg   *config.Config
	world *ecs.World
	rng   *rand.Rand
	seed  uint64
	sea   *ocean.Sea

	factory *Factory
	control *Control
	cmds    systems.Commands
	player  ecs.Entity

	// Systems in step order
	enemy      *systems.EnemySystem
	tracking   *systems.TrackingSystem
	tubes      *systems.TorpedoTubeSystem
	bubbling   *systems.BubblingSystem
	bubbles    *systems.BubbleSystem
	ships      *systems.ShipSystem
	submarines *systems.SubmarineSystem
	rockets    *systems.RocketSystem
	physics    *systems.PhysicsSystem
	exploding  *systems.ExplodingSystem
	damage     *systems.DamageSystem

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	statsCallback    func(telemetry.WindowStats)
	logStats         bool
	snapshotDir      string
	census           census
	eventRows        []telemetry.EventRecord

	// State
	tick    int32
	elapsed float64
}

// NewSim creates a simulation from cfg, populated with the player, the
// initial enemies and bubble clouds.
func NewSim(cfg *config.Config, opts Options) (*Sim, error) {
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
	sea, err := ocean.NewSea(cfg.Sea, rng)
	if err != nil {
		return nil, fmt.Errorf("creating sea: %w", err)
	}

	world := ecs.NewWorld()
	s := &Sim{
		cfg:     cfg,
		world:   world,
		rng:     rng,
		seed:    opts.Seed,
		sea:     sea,
		factory: NewFactory(world, cfg, sea, rng),

		enemy:      systems.NewEnemySystem(world, cfg.Enemy, rng),
		tracking:   systems.NewTrackingSystem(world),
		tubes:      systems.NewTorpedoTubeSystem(world),
		bubbling:   systems.NewBubblingSystem(world, rng),
		bubbles:    systems.NewBubbleSystem(world, sea, cfg.Bubbles, rng),
		ships:      systems.NewShipSystem(world),
		submarines: systems.NewSubmarineSystem(world, sea),
		rockets:    systems.NewRocketSystem(world),
		physics:    systems.NewPhysicsSystem(world, sea, cfg.Physics.ParallelThreshold, cfg.Physics.Workers),
		exploding:  systems.NewExplodingSystem(world, cfg.Exploding.ScanInterval),
		damage:     systems.NewDamageSystem(world, cfg.Exploding.DestructionRadius),

		logStats:    opts.LogStats,
		snapshotDir: opts.SnapshotDir,
		census:      newCensus(world),
	}

	windowSec := cfg.Telemetry.Window
	if opts.StatsWindowSec > 0 {
		windowSec = opts.StatsWindowSec
	}
	s.collector = telemetry.NewCollector(windowSec, cfg.Physics.DT)
	s.perfCollector = telemetry.NewPerfCollector(int(s.collector.WindowDurationTicks()))
	s.bookmarkDetector = telemetry.NewBookmarkDetector(10)

	if s.outputManager, err = telemetry.NewOutputManager(opts.OutputDir); err != nil {
		return nil, err
	}
	if err := s.outputManager.WriteConfig(cfg); err != nil {
		s.outputManager.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	if s.player, err = s.factory.Player(); err != nil {
		s.outputManager.Close()
		return nil, fmt.Errorf("creating player: %w", err)
	}
	s.control = NewControl(world, s.player)
	if !opts.NoPopulate {
		s.factory.Populate()
	}
	s.collector.RecordBubbles(s.factory.TakeBubbles())

	slog.Info("simulation_created",
		"seed", opts.Seed,
		"dt", cfg.Physics.DT,
		"stats_window", windowSec,
		"enemies", cfg.World.InitialEnemies,
	)
	return s, nil
}

// SetStatsCallback registers a function called with every flushed window.
func (s *Sim) SetStatsCallback(fn func(telemetry.WindowStats)) {
	s.statsCallback = fn
}

// World returns the ECS world.
func (s *Sim) World() *ecs.World { return s.world }

// Sea returns the fluid environment.
func (s *Sim) Sea() *ocean.Sea { return s.sea }

// Factory returns the entity factory.
func (s *Sim) Factory() *Factory { return s.factory }

// Control returns the player's control surface.
func (s *Sim) Control() *Control { return s.control }

// Player returns the player's entity. It may no longer be alive.
func (s *Sim) Player() ecs.Entity { return s.player }

// PlayerAlive reports whether the player's submarine still exists.
func (s *Sim) PlayerAlive() bool { return s.world.Alive(s.player) }

// Tick returns the number of completed steps.
func (s *Sim) Tick() int32 { return s.tick }

// Elapsed returns simulated seconds.
func (s *Sim) Elapsed() float64 { return s.elapsed }

// Close flushes and closes telemetry output.
func (s *Sim) Close() error {
	return s.outputManager.Close()
}

// playerLocation returns the player's location, or false when it is gone.
func (s *Sim) playerLocation() (components.Location, bool) {
	if !s.PlayerAlive() {
		return components.Location{}, false
	}
	loc, _, _, _, _ := s.census.vessel.Get(s.player)
	return *loc, true
}
