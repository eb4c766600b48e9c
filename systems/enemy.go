package systems

import (
	"math/rand/v2"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/depthcharge/components"
	"github.com/pthm-cable/depthcharge/config"
)

// EnemySystem drives enemy submarines with random decisions and spawns
// new enemies up to a cap.
type EnemySystem struct {
	filter  ecs.Filter5[components.Enemy, components.Ship, components.Submarine, components.TorpedoTube, components.Location]
	cfg     config.EnemyConfig
	rng     *rand.Rand
	pending float64
}

// NewEnemySystem creates a new enemy system.
func NewEnemySystem(w *ecs.World, cfg config.EnemyConfig, rng *rand.Rand) *EnemySystem {
	return &EnemySystem{
		filter: *ecs.NewFilter5[components.Enemy, components.Ship, components.Submarine, components.TorpedoTube, components.Location](w),
		cfg:    cfg,
		rng:    rng,
	}
}

// Update makes one round of decisions every interval.
func (s *EnemySystem) Update(t Time, cmds *Commands) {
	s.pending += t.Delta
	if s.pending < s.cfg.Interval {
		return
	}
	s.pending = 0

	count := 0
	query := s.filter.Query()
	for query.Next() {
		count++
		_, ship, sub, tube, _ := query.Get()
		if s.chance(s.cfg.FireChance) {
			tube.RequestLaunch()
		}
		if s.chance(s.cfg.RudderChance) {
			ship.Rudder.SetTarget(s.signed())
		}
		if s.chance(s.cfg.EngineChance) {
			ship.Engine.SetTarget(s.signed())
		}
		if s.chance(s.cfg.PumpChance) {
			sub.Pump.SetTarget(s.signed())
		}
		if s.chance(s.cfg.FinsChance) {
			sub.DiveFins.SetTarget(s.signed())
		}
		if s.chance(s.cfg.MotorChance) {
			sub.Motor.SetTarget(s.signed())
		}
	}

	if count < s.cfg.MaxEnemies && s.chance(s.cfg.SpawnChance) {
		spread := s.cfg.SpawnSpread
		pos := r3.Scale(spread, r3.Vec{X: s.rng.NormFloat64(), Y: s.rng.NormFloat64(), Z: s.rng.NormFloat64()})
		size := s.rng.Float64() * s.rng.Float64()
		sleekness := s.rng.Float64() * s.rng.Float64()
		cmds.Spawn(func(sp Spawner) { sp.EnemySubmarine(pos, size, sleekness) })
		cmds.Events.Add(Event{Kind: EventEnemySpawned, Pos: pos, Value: size})
	}
}

// chance draws a decision with the given percent-per-second probability.
func (s *EnemySystem) chance(percentPerSecond float64) bool {
	return s.rng.Float64() < percentPerSecond*s.cfg.Interval/100
}

func (s *EnemySystem) signed() float64 {
	return s.rng.Float64()*2 - 1
}
