package game

import (
	"log/slog"
	"math"
	"math/rand/v2"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/depthcharge/components"
	"github.com/pthm-cable/depthcharge/config"
	"github.com/pthm-cable/depthcharge/geom"
	"github.com/pthm-cable/depthcharge/ocean"
)

// Factory creates every entity in the world. It implements systems.Spawner
// and must only be called while no query is open.
type Factory struct {
	world *ecs.World
	cfg   *config.Config
	sea   *ocean.Sea
	rng   *rand.Rand

	subMapper *ecs.Map8[
		components.Location,
		components.Physical,
		components.Ship,
		components.Submarine,
		components.Damageable,
		components.TorpedoTube,
		components.Bubbling,
		components.Enemy,
	]
	playerMapper *ecs.Map8[
		components.Location,
		components.Physical,
		components.Ship,
		components.Submarine,
		components.Damageable,
		components.TorpedoTube,
		components.Bubbling,
		components.Player,
	]
	torpedoMapper *ecs.Map5[
		components.Location,
		components.Physical,
		components.Rocket,
		components.Exploding,
		components.Bubbling,
	]
	bubbleMapper *ecs.Map3[components.Location, components.Physical, components.Bubble]
	cloudMapper  *ecs.Map3[components.Location, components.Bubbling, components.Tracking]
	physMap      *ecs.Map[components.Physical]

	bubbles int // created since the last TakeBubbles
}

// NewFactory creates a factory for world.
func NewFactory(w *ecs.World, cfg *config.Config, sea *ocean.Sea, rng *rand.Rand) *Factory {
	return &Factory{
		world: w,
		cfg:   cfg,
		sea:   sea,
		rng:   rng,
		subMapper: ecs.NewMap8[
			components.Location,
			components.Physical,
			components.Ship,
			components.Submarine,
			components.Damageable,
			components.TorpedoTube,
			components.Bubbling,
			components.Enemy,
		](w),
		playerMapper: ecs.NewMap8[
			components.Location,
			components.Physical,
			components.Ship,
			components.Submarine,
			components.Damageable,
			components.TorpedoTube,
			components.Bubbling,
			components.Player,
		](w),
		torpedoMapper: ecs.NewMap5[
			components.Location,
			components.Physical,
			components.Rocket,
			components.Exploding,
			components.Bubbling,
		](w),
		bubbleMapper: ecs.NewMap3[components.Location, components.Physical, components.Bubble](w),
		cloudMapper:  ecs.NewMap3[components.Location, components.Bubbling, components.Tracking](w),
		physMap:      ecs.NewMap[components.Physical](w),
	}
}

// TakeBubbles returns the number of bubbles created since the last call.
func (f *Factory) TakeBubbles() int {
	n := f.bubbles
	f.bubbles = 0
	return n
}

// hull holds the parts shared by player and enemy submarines.
type hull struct {
	loc    components.Location
	phys   components.Physical
	ship   components.Ship
	sub    components.Submarine
	dmg    components.Damageable
	tube   components.TorpedoTube
	trail  components.Bubbling
	length float64
}

// newHull derives a submarine from size and sleekness, both in 0..1.
func (f *Factory) newHull(loc components.Location, size, sleekness float64) (hull, error) {
	var h hull
	var err error
	h.loc = loc

	mass := geom.LerpClamp(size, 1e4, 1e5)
	drag := geom.LerpClamp(sleekness, 0.5, 0.03)
	if h.phys, err = components.BodyFromMassDensity(mass, 1000, drag); err != nil {
		return hull{}, err
	}
	if h.ship, err = components.NewShip(f.cfg.Ship); err != nil {
		return hull{}, err
	}
	if h.sub, err = components.NewSubmarine(f.cfg.Submarine); err != nil {
		return hull{}, err
	}
	hp := 1000 + size*2000 - sleekness*800
	if h.dmg, err = components.NewDamageable(hp, 1, size); err != nil {
		return hull{}, err
	}

	h.tube = components.TorpedoTube{
		Reload:      geom.LerpClamp(size, 2, 5),
		SizeFactor:  geom.LerpClamp(size, 0.1, 1),
		SpeedFactor: geom.LerpClamp(size, 0.4, 0.2) + geom.LerpClamp(sleekness, 0.1, 0.6),
	}

	h.length = geom.LerpClamp(size, 5, 100)
	width := geom.LerpClamp(size, 3, 16) * geom.LerpClamp(sleekness, 1.5, 0.5)
	trail := f.cfg.Bubbles.SubmarineTrail
	trail.CloudDiameter = width * 0.5
	h.trail = components.NewBubbling(trail, r3.Vec{X: -h.length / 2}, f.rng)
	return h, nil
}

// Player creates the player's submarine at the origin together with the
// bubble cloud that follows it.
func (f *Factory) Player() (ecs.Entity, error) {
	w := f.cfg.World
	h, err := f.newHull(components.NewLocation(r3.Vec{}), w.PlayerSize, w.PlayerSleekness)
	if err != nil {
		return ecs.Entity{}, err
	}
	player := f.playerMapper.NewEntity(&h.loc, &h.phys, &h.ship, &h.sub, &h.dmg, &h.tube, &h.trail, &components.Player{})

	cloudLoc := h.loc
	cloud := components.NewBubbling(f.cfg.Bubbles.PlayerCloud, r3.Vec{}, f.rng)
	track := components.NewTracking(player, r3.Vec{Y: f.cfg.Bubbles.PlayerCloudOffset})
	f.cloudMapper.NewEntity(&cloudLoc, &cloud, &track)

	slog.Info("player_spawned", "entity", player.ID(), "size", w.PlayerSize, "sleekness", w.PlayerSleekness, "hp", h.dmg.HitPoints.Amount())
	return player, nil
}

// EnemySubmarine creates an AI submarine facing a random heading.
func (f *Factory) EnemySubmarine(pos r3.Vec, size, sleekness float64) {
	loc := components.Location{
		Position:  pos,
		Direction: geom.AxisAngle(geom.AxisY, f.rng.Float64()*geom.Tau),
	}
	h, err := f.newHull(loc, size, sleekness)
	if err != nil {
		slog.Warn("enemy_skipped", "error", err)
		return
	}
	e := f.subMapper.NewEntity(&h.loc, &h.phys, &h.ship, &h.sub, &h.dmg, &h.tube, &h.trail, &components.Enemy{})
	slog.Debug("enemy_spawned", "entity", e.ID(), "depth", f.sea.Depth(pos), "size", size, "sleekness", sleekness)
}

// Torpedo launches a torpedo from source. size and speed are in 0..1.
func (f *Factory) Torpedo(source ecs.Entity, loc components.Location, size, speed float64) {
	tc := f.cfg.Torpedo
	phys, err := components.BodyFromMassDensity(geom.Lerp(size, 100, 1000), tc.Density, geom.Lerp(speed, 0.3, 0.05))
	if err != nil {
		slog.Warn("torpedo_skipped", "error", err)
		return
	}
	if f.world.Alive(source) && f.physMap.Has(source) {
		phys.Velocity = f.physMap.Get(source).Velocity
	}

	rocket, err := components.NewRocket(f.cfg.Rocket, geom.Lerp(size+speed, 1e4, 1e5))
	if err != nil {
		slog.Warn("torpedo_skipped", "error", err)
		return
	}

	radius := geom.Lerp(size, 30, 100)
	ex := components.Exploding{
		UntilArmed:      tc.ArmTime,
		UntilExplode:    tc.LifeTime,
		ProximityRadius: radius * tc.ProximityFactor,
		Damage:          geom.Lerp(size, 200, 1000),
		DamageRadius:    radius,
		Ignore:          source,
	}
	trail := components.NewBubbling(f.cfg.Bubbles.TorpedoTrail, r3.Vec{X: -phys.Radius()}, f.rng)
	f.torpedoMapper.NewEntity(&loc, &phys, &rocket, &ex, &trail)
}

// Explosion leaves a bubble cloud scaled by damage.
func (f *Factory) Explosion(pos r3.Vec, damage, radius float64) {
	count := int(geom.MapClamp(damage, 0, 1000, 3, 200))
	size := geom.MapClamp(damage, 0, 1000, 0.1, 10)
	lifeTime := geom.MapClamp(damage, 0, 1000, 4, 16)
	f.VaryingBubbleCloud(pos, count, size, radius, lifeTime)
}

// BubbleCloud creates count bubbles of similar size around pos.
func (f *Factory) BubbleCloud(pos r3.Vec, count int, diameter, cloudDiameter, lifeTime float64) {
	for range count {
		p := f.jitter(pos, cloudDiameter)
		f.Bubble(p, 0.01+f.positiveNormal(diameter*2), lifeTime*0.5+f.normal(lifeTime*0.5))
	}
}

// VaryingBubbleCloud creates count bubbles growing in size and lifetime
// from the first to the last.
func (f *Factory) VaryingBubbleCloud(pos r3.Vec, count int, diameter, cloudDiameter, lifeTime float64) {
	for i := range count {
		rel := float64(i+1) / float64(count)
		size := geom.Lerp(rel*rel*rel, diameter*0.25, diameter*4)
		life := geom.Lerp(rel*rel, lifeTime*0.5, lifeTime*1.5)
		p := f.jitter(pos, cloudDiameter)
		f.Bubble(p, 0.001+f.positiveNormal(size*2), life)
	}
}

// Bubble creates a single bubble. Bubbles that would start above the pop
// depth, or with no size or life, are not created.
func (f *Factory) Bubble(pos r3.Vec, diameter, lifeTime float64) {
	if diameter <= 0 || lifeTime <= 0 || f.sea.Depth(pos) <= f.cfg.Bubbles.PopDepth {
		return
	}
	phys, err := components.Sphere(diameter/2, f.sea.AirDensity())
	if err != nil {
		return
	}
	loc := components.NewLocation(pos)
	b := components.NewBubble(lifeTime, f.rng)
	f.bubbleMapper.NewEntity(&loc, &phys, &b)
	f.bubbles++
}

// Populate creates the initial enemies and bubble clouds.
func (f *Factory) Populate() {
	w := f.cfg.World
	for range w.InitialEnemies {
		pos := r3.Scale(w.EnemySpread, f.gaussian())
		pos.Y = -math.Abs(pos.Y) - f.cfg.Submarine.DiveDepth
		f.EnemySubmarine(pos, f.rng.Float64()*f.rng.Float64(), f.rng.Float64()*f.rng.Float64())
	}
	spec := f.cfg.Bubbles.SubmarineTrail
	for range w.BubbleClouds {
		pos := r3.Scale(w.BubbleSpread, f.gaussian())
		pos.Y = -math.Abs(pos.Y) * 0.1
		f.VaryingBubbleCloud(pos, spec.Count, spec.Diameter, spec.CloudDiameter*10, spec.LifeTime)
	}
}

func (f *Factory) gaussian() r3.Vec {
	return r3.Vec{X: f.rng.NormFloat64(), Y: f.rng.NormFloat64(), Z: f.rng.NormFloat64()}
}

// normal returns a cheap bell-shaped value in [-s/2, s/2].
func (f *Factory) normal(s float64) float64 {
	return (2*f.rng.Float64() - 1) * (2*f.rng.Float64() - 1) * s * 0.5
}

// positiveNormal returns a bell-shaped value in [0, s].
func (f *Factory) positiveNormal(s float64) float64 {
	return 0.5*s + f.normal(s)
}

func (f *Factory) jitter(pos r3.Vec, d float64) r3.Vec {
	return r3.Vec{X: pos.X + f.normal(d), Y: pos.Y + f.normal(d), Z: pos.Z + f.normal(d)}
}
