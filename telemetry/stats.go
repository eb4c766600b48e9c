package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Entity counts at window end
	Enemies   int `csv:"enemies"`
	Torpedoes int `csv:"torpedoes"`
	Bubbles   int `csv:"bubbles"`

	// Events during window
	Explosions        int `csv:"explosions"`
	Destroyed         int `csv:"destroyed"`
	TorpedoesLaunched int `csv:"torpedoes_launched"`
	EnemiesSpawned    int `csv:"enemies_spawned"`
	BubblesSpawned    int `csv:"bubbles_spawned"`
	Removed           int `csv:"removed"`

	// Player at window end
	PlayerAlive     bool    `csv:"player_alive"`
	PlayerDepth     float64 `csv:"player_depth"`
	PlayerSpeed     float64 `csv:"player_speed"`
	PlayerDiesel    float64 `csv:"player_diesel"`
	PlayerBattery   float64 `csv:"player_battery"`
	PlayerBallast   float64 `csv:"player_ballast"`
	PlayerHitPoints float64 `csv:"player_hp"`

	// Enemy distribution (sampled at window end)
	EnemyDepthMean float64 `csv:"enemy_depth_mean"`
	EnemyDepthStd  float64 `csv:"enemy_depth_std"`
	EnemyDepthP10  float64 `csv:"enemy_depth_p10"`
	EnemyDepthP50  float64 `csv:"enemy_depth_p50"`
	EnemyDepthP90  float64 `csv:"enemy_depth_p90"`

	EnemySpeedMean float64 `csv:"enemy_speed_mean"`
	EnemySpeedStd  float64 `csv:"enemy_speed_std"`
	EnemySpeedP90  float64 `csv:"enemy_speed_p90"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// Distribution summarizes a sample.
type Distribution struct {
	Mean, Std     float64
	P10, P50, P90 float64
}

// ComputeDistribution calculates mean, sample standard deviation and
// percentiles. Empty input yields zeros.
func ComputeDistribution(values []float64) Distribution {
	n := len(values)
	if n == 0 {
		return Distribution{}
	}

	var d Distribution
	if n == 1 {
		d.Mean = values[0]
	} else {
		d.Mean, d.Std = stat.MeanStdDev(values, nil)
	}

	// Sort for percentiles
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	d.P10 = Percentile(sorted, 0.10)
	d.P50 = Percentile(sorted, 0.50)
	d.P90 = Percentile(sorted, 0.90)
	return d
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("enemies", s.Enemies),
		slog.Int("torpedoes", s.Torpedoes),
		slog.Int("bubbles", s.Bubbles),
		slog.Int("explosions", s.Explosions),
		slog.Int("destroyed", s.Destroyed),
		slog.Int("torpedoes_launched", s.TorpedoesLaunched),
		slog.Int("enemies_spawned", s.EnemiesSpawned),
		slog.Int("bubbles_spawned", s.BubblesSpawned),
		slog.Int("removed", s.Removed),
		slog.Bool("player_alive", s.PlayerAlive),
		slog.Float64("player_depth", s.PlayerDepth),
		slog.Float64("player_speed", s.PlayerSpeed),
		slog.Float64("player_diesel", s.PlayerDiesel),
		slog.Float64("player_battery", s.PlayerBattery),
		slog.Float64("player_ballast", s.PlayerBallast),
		slog.Float64("player_hp", s.PlayerHitPoints),
		slog.Float64("enemy_depth_mean", s.EnemyDepthMean),
		slog.Float64("enemy_depth_std", s.EnemyDepthStd),
		slog.Float64("enemy_depth_p10", s.EnemyDepthP10),
		slog.Float64("enemy_depth_p50", s.EnemyDepthP50),
		slog.Float64("enemy_depth_p90", s.EnemyDepthP90),
		slog.Float64("enemy_speed_mean", s.EnemySpeedMean),
		slog.Float64("enemy_speed_std", s.EnemySpeedStd),
		slog.Float64("enemy_speed_p90", s.EnemySpeedP90),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("telemetry_window", "stats", s)
}
