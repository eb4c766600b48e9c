// Package telemetry provides windowed battle statistics, bookmarks, and
// CSV output for headless runs.
package telemetry

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float64

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	explosions        int
	destroyed         int
	torpedoesLaunched int
	enemiesSpawned    int
	bubblesSpawned    int
	removed           int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec, dt float64) *Collector {
	ticksPerWindow := int32(windowDurationSec / dt)
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordExplosions records warheads that went off.
func (c *Collector) RecordExplosions(n int) {
	c.explosions += n
}

// RecordDestroyed records hulls that ran out of hit points.
func (c *Collector) RecordDestroyed(n int) {
	c.destroyed += n
}

// RecordLaunches records torpedoes fired.
func (c *Collector) RecordLaunches(n int) {
	c.torpedoesLaunched += n
}

// RecordEnemySpawns records enemies added by the AI.
func (c *Collector) RecordEnemySpawns(n int) {
	c.enemiesSpawned += n
}

// RecordBubbles records bubbles created.
func (c *Collector) RecordBubbles(n int) {
	c.bubblesSpawned += n
}

// RecordRemovals records entities removed from the world.
func (c *Collector) RecordRemovals(n int) {
	c.removed += n
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Partial reports whether ticks have passed since the last flush.
func (c *Collector) Partial(currentTick int32) bool {
	return currentTick > c.windowStartTick
}

// PlayerState is the player's submarine at the end of a window.
type PlayerState struct {
	Alive     bool
	Depth     float64 // m
	Speed     float64 // m/s
	Diesel    float64 // fill level 0..1
	Battery   float64 // fill level 0..1
	Ballast   float64 // fill level 0..1
	HitPoints float64
}

// Population holds entity counts and samples taken at the end of a window.
type Population struct {
	Enemies   int
	Torpedoes int
	Bubbles   int

	EnemyDepths []float64
	EnemySpeeds []float64
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, pop Population, player PlayerState) WindowStats {
	depth := ComputeDistribution(pop.EnemyDepths)
	speed := ComputeDistribution(pop.EnemySpeeds)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		Enemies:   pop.Enemies,
		Torpedoes: pop.Torpedoes,
		Bubbles:   pop.Bubbles,

		Explosions:        c.explosions,
		Destroyed:         c.destroyed,
		TorpedoesLaunched: c.torpedoesLaunched,
		EnemiesSpawned:    c.enemiesSpawned,
		BubblesSpawned:    c.bubblesSpawned,
		Removed:           c.removed,

		PlayerAlive:     player.Alive,
		PlayerDepth:     player.Depth,
		PlayerSpeed:     player.Speed,
		PlayerDiesel:    player.Diesel,
		PlayerBattery:   player.Battery,
		PlayerBallast:   player.Ballast,
		PlayerHitPoints: player.HitPoints,

		EnemyDepthMean: depth.Mean,
		EnemyDepthStd:  depth.Std,
		EnemyDepthP10:  depth.P10,
		EnemyDepthP50:  depth.P50,
		EnemyDepthP90:  depth.P90,

		EnemySpeedMean: speed.Mean,
		EnemySpeedStd:  speed.Std,
		EnemySpeedP90:  speed.P90,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.explosions = 0
	c.destroyed = 0
	c.torpedoesLaunched = 0
	c.enemiesSpawned = 0
	c.bubblesSpawned = 0
	c.removed = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
