package components

import (
	"fmt"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/depthcharge/parts"
)

// Exploding is a timed, proximity-triggered warhead.
type Exploding struct {
	UntilArmed      float64 // seconds
	UntilExplode    float64 // seconds
	ProximityRadius float64 // m
	Damage          float64
	DamageRadius    float64 // m

	// Ignore is never a proximity trigger, typically the launcher.
	Ignore ecs.Entity
}

// IsArmed reports whether the proximity fuse is live.
func (e *Exploding) IsArmed() bool { return e.UntilArmed <= 0 }

// ShouldExplode reports whether the timer has run out.
func (e *Exploding) ShouldExplode() bool { return e.UntilExplode <= 0 }

// Damageable is a hit point pool with passive regeneration.
type Damageable struct {
	HitPoints *parts.Tank
	Debris    float64 // size of the effect left behind when destroyed
}

// NewDamageable returns a pool filled to hitPoints.
func NewDamageable(hitPoints, regen, debris float64) (Damageable, error) {
	hp, err := parts.NewTank("hitpoints", hitPoints, 1, regen)
	if err != nil {
		return Damageable{}, fmt.Errorf("damageable: %w", err)
	}
	return Damageable{HitPoints: hp, Debris: debris}, nil
}

// AddDamage removes hit points. Negative damage heals.
func (d *Damageable) AddDamage(damage float64) { d.HitPoints.Change(-damage) }

// IsDestroyed reports whether the pool is empty.
func (d *Damageable) IsDestroyed() bool { return d.HitPoints.IsEmpty() }

// TorpedoTube launches torpedoes on request once reloaded.
type TorpedoTube struct {
	Reload        float64 // seconds
	SizeFactor    float64 // 0..1
	SpeedFactor   float64 // 0..1
	UntilReloaded float64
	Requested     bool
}

// Ready reports whether the tube is loaded.
func (t *TorpedoTube) Ready() bool { return t.UntilReloaded <= 0 }

// RequestLaunch queues a launch. Requests while reloading are dropped.
func (t *TorpedoTube) RequestLaunch() {
	if t.Ready() {
		t.Requested = true
	}
}

// Enemy marks AI-driven submarines.
type Enemy struct{}

// Player marks the player's submarine.
type Player struct{}
