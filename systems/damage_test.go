package systems

import (
	"testing"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/depthcharge/components"
)

func TestDamageSystem(t *testing.T) {
	w := ecs.NewWorld()
	hulls := ecs.NewMap2[components.Damageable, components.Location](w)

	wrecked := mustDamageable(t, 100, 0, 0.5)
	wrecked.AddDamage(100)
	wreckLoc := components.NewLocation(r3.Vec{X: 3, Y: -40})
	wreck := hulls.NewEntity(&wrecked, &wreckLoc)

	healing := mustDamageable(t, 100, 5, 1)
	healing.AddDamage(50)
	healLoc := components.NewLocation(r3.Vec{})
	survivor := hulls.NewEntity(&healing, &healLoc)

	s := NewDamageSystem(w, 20)
	var cmds Commands
	s.Update(Time{Delta: 2}, &cmds)

	if got := healing.HitPoints.Amount(); !nearly(got, 60) {
		t.Errorf("regenerated hit points = %v, want 60", got)
	}
	if cmds.Events.Destroyed != 1 {
		t.Errorf("destroyed = %d, want 1", cmds.Events.Destroyed)
	}

	sp := &recordingSpawner{}
	cmds.Flush(w, sp)
	if w.Alive(wreck) {
		t.Error("wreck not removed")
	}
	if !w.Alive(survivor) {
		t.Error("survivor removed")
	}
	if len(sp.explosions) != 1 {
		t.Fatalf("explosions = %d, want 1", len(sp.explosions))
	}
	if e := sp.explosions[0]; e.pos != wreckLoc.Position || e.damage != 0.5 || e.radius != 20 {
		t.Errorf("debris effect = %+v", e)
	}
}
