// Package systems contains ECS systems for the simulation.
package systems

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/depthcharge/components"
)

// Time is the clock handed to every system for one tick.
type Time struct {
	Delta   float64 // seconds since the last step
	Elapsed float64 // seconds since the simulation started
}

// Spawner creates entities. It is only ever called while no query is open.
type Spawner interface {
	Torpedo(source ecs.Entity, loc components.Location, size, speed float64)
	EnemySubmarine(pos r3.Vec, size, sleekness float64)
	BubbleCloud(pos r3.Vec, count int, diameter, cloudDiameter, lifeTime float64)
	VaryingBubbleCloud(pos r3.Vec, count int, diameter, cloudDiameter, lifeTime float64)
	Explosion(pos r3.Vec, damage, radius float64)
}

// EventKind names a lifecycle event.
type EventKind string

const (
	EventExplosion    EventKind = "explosion"
	EventDestroyed    EventKind = "destroyed"
	EventLaunch       EventKind = "torpedo_launched"
	EventEnemySpawned EventKind = "enemy_spawned"
)

// Event is one lifecycle event. Value is the blast damage for explosions,
// the debris size for destructions and the size factor for launches and
// spawns.
type Event struct {
	Kind   EventKind
	Entity ecs.Entity // zero for entities that do not exist yet
	Pos    r3.Vec
	Value  float64
}

// Events counts lifecycle events and keeps them in order until the owner
// resets it.
type Events struct {
	Explosions        int
	Destroyed         int
	TorpedoesLaunched int
	EnemiesSpawned    int

	Log []Event
}

// Add counts ev and appends it to the log.
func (e *Events) Add(ev Event) {
	switch ev.Kind {
	case EventExplosion:
		e.Explosions++
	case EventDestroyed:
		e.Destroyed++
	case EventLaunch:
		e.TorpedoesLaunched++
	case EventEnemySpawned:
		e.EnemiesSpawned++
	}
	e.Log = append(e.Log, ev)
}

// Reset clears the counters and the log, keeping the log's storage.
func (e *Events) Reset() {
	*e = Events{Log: e.Log[:0]}
}

// Commands queues structural changes while systems iterate. The world is
// locked during queries, so removals and spawns are applied by Flush
// between system phases.
type Commands struct {
	removals []ecs.Entity
	spawns   []func(Spawner)
	Events   Events
}

// Remove queues e for removal. Removing an entity twice is harmless.
func (c *Commands) Remove(e ecs.Entity) {
	c.removals = append(c.removals, e)
}

// Spawn queues an entity creation.
func (c *Commands) Spawn(fn func(Spawner)) {
	c.spawns = append(c.spawns, fn)
}

// Pending reports whether anything is queued.
func (c *Commands) Pending() bool {
	return len(c.removals) > 0 || len(c.spawns) > 0
}

// Flush applies queued removals, then queued spawns, and returns how many
// entities were removed.
func (c *Commands) Flush(w *ecs.World, s Spawner) int {
	removed := 0
	for _, e := range c.removals {
		if w.Alive(e) {
			w.RemoveEntity(e)
			removed++
		}
	}
	c.removals = c.removals[:0]

	// Spawns may queue further spawns.
	for len(c.spawns) > 0 {
		batch := c.spawns
		c.spawns = nil
		for _, fn := range batch {
			fn(s)
		}
	}
	return removed
}
