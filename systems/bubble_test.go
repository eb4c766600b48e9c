package systems

import (
	"testing"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/depthcharge/components"
)

type bubbleWorld struct {
	w       *ecs.World
	bubbles *ecs.Map3[components.Bubble, components.Location, components.Physical]
	sys     *BubbleSystem
}

func newBubbleWorld(t *testing.T) bubbleWorld {
	t.Helper()
	w := ecs.NewWorld()
	return bubbleWorld{
		w:       w,
		bubbles: ecs.NewMap3[components.Bubble, components.Location, components.Physical](w),
		sys:     NewBubbleSystem(w, testSea(t), testConfig(t).Bubbles, testRand()),
	}
}

func (bw bubbleWorld) add(t *testing.T, y, radius float64, b components.Bubble) ecs.Entity {
	t.Helper()
	loc := components.NewLocation(r3.Vec{Y: y})
	p := mustBody(t)(components.Sphere(radius, 1.25))
	return bw.bubbles.NewEntity(&b, &loc, &p)
}

func TestBubbleSystem_CompressedAtDepth(t *testing.T) {
	bw := newBubbleWorld(t)
	e := bw.add(t, -100, 0.05, components.Bubble{LifeTime: 10})
	mass := func() float64 { _, _, p := bw.bubbles.Get(e); return p.Mass() }()

	var cmds Commands
	bw.sys.Update(Time{Delta: 0.1, Elapsed: 0.1}, &cmds)

	b, loc, p := bw.bubbles.Get(e)
	if want := bw.sys.sea.GasDensity(loc.Position); !near(p.Density(), want, 1e-9) {
		t.Errorf("density = %v, want gas density %v", p.Density(), want)
	}
	if !near(p.Mass(), mass, 1e-12) {
		t.Errorf("compression changed the mass: %v -> %v", mass, p.Mass())
	}
	if p.Radius() >= 0.05 {
		t.Errorf("radius %v, want compressed below 0.05", p.Radius())
	}
	if b.Age != 0.1 || b.Floating {
		t.Errorf("bubble state = %+v", *b)
	}
	if cmds.Pending() {
		t.Error("young deep bubble queued for removal")
	}
}

func TestBubbleSystem_FloatsAtSurface(t *testing.T) {
	bw := newBubbleWorld(t)
	e := bw.add(t, -0.5, 0.5, components.Bubble{LifeTime: 10})
	_, _, p := bw.bubbles.Get(e)
	p.Velocity = r3.Vec{Y: 2}

	var cmds Commands
	bw.sys.Update(Time{Delta: 0.1, Elapsed: 0.1}, &cmds)

	b, _, p := bw.bubbles.Get(e)
	if !b.Floating {
		t.Fatal("bubble near the surface not floating")
	}
	if !near(p.Radius(), 0.2, 1e-9) {
		t.Errorf("surface radius = %v, want 0.2", p.Radius())
	}
	if !near(p.Velocity.Y, 0.2, 1e-12) {
		t.Errorf("vertical velocity = %v, want damped to 0.2", p.Velocity.Y)
	}
}

func TestBubbleSystem_Removal(t *testing.T) {
	bw := newBubbleWorld(t)
	expired := bw.add(t, -50, 0.05, components.Bubble{LifeTime: 1, Age: 0.95})
	escaped := bw.add(t, 3, 0.05, components.Bubble{LifeTime: 10})
	kept := bw.add(t, -50, 0.05, components.Bubble{LifeTime: 10})

	var cmds Commands
	bw.sys.Update(Time{Delta: 0.1, Elapsed: 0.1}, &cmds)
	cmds.Flush(bw.w, &recordingSpawner{})

	if bw.w.Alive(expired) {
		t.Error("expired bubble kept")
	}
	if bw.w.Alive(escaped) {
		t.Error("bubble above the surface kept")
	}
	if !bw.w.Alive(kept) {
		t.Error("live bubble removed")
	}
}

func TestBubblingSystem(t *testing.T) {
	tests := []struct {
		name string
		spec components.BubblingSpec
		want func(t *testing.T, c cloud)
	}{
		{
			name: "uniform",
			spec: components.BubblingSpec{Interval: 1, Count: 5, Diameter: 0.1, CloudDiameter: 2, LifeTime: 3},
			want: func(t *testing.T, c cloud) {
				if c.varying || c.count != 5 || c.cloudDiameter != 2 {
					t.Errorf("cloud = %+v", c)
				}
				if c.pos != (r3.Vec{X: 11, Y: -20}) {
					t.Errorf("cloud at %v, want offset from the source", c.pos)
				}
			},
		},
		{
			name: "varying count",
			spec: components.BubblingSpec{Interval: 1, Count: 5, Diameter: 0.1, CloudDiameter: 2, LifeTime: 3, VaryingSizes: true, VaryingCount: true},
			want: func(t *testing.T, c cloud) {
				if !c.varying || c.count < 0 || c.count >= 5 {
					t.Errorf("cloud = %+v", c)
				}
			},
		},
		{
			name: "cluster",
			spec: components.BubblingSpec{Interval: 1, Count: 5, Diameter: 0.1, CloudDiameter: 200, LifeTime: 3, Cluster: true},
			want: func(t *testing.T, c cloud) {
				if !near(c.cloudDiameter, 2, 1e-12) {
					t.Errorf("cluster cloud diameter = %v, want 2", c.cloudDiameter)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ecs.NewWorld()
			sources := ecs.NewMap2[components.Location, components.Bubbling](w)
			loc := components.NewLocation(r3.Vec{X: 10, Y: -20})
			b := components.Bubbling{BubblingSpec: tt.spec, Offset: r3.Vec{X: 1}, UntilNext: 0.05}
			e := sources.NewEntity(&loc, &b)

			s := NewBubblingSystem(w, testRand())
			var cmds Commands
			s.Update(Time{Delta: 0.1}, &cmds)

			sp := &recordingSpawner{}
			cmds.Flush(w, sp)
			if len(sp.clouds) != 1 {
				t.Fatalf("clouds = %d, want 1", len(sp.clouds))
			}
			tt.want(t, sp.clouds[0])

			_, src := sources.Get(e)
			if src.UntilNext < 0.5 || src.UntilNext > 1.5 {
				t.Errorf("next cloud in %v s, want about one interval", src.UntilNext)
			}
		})
	}
}

func TestBubbleSystem_InvalidSurfaceRadiusPops(t *testing.T) {
	bw := newBubbleWorld(t)
	bw.sys.cfg.MaxSurfaceRadius = 0
	e := bw.add(t, -0.5, 0.5, components.Bubble{LifeTime: 10})

	var cmds Commands
	bw.sys.Update(Time{Delta: 0.1, Elapsed: 0.1}, &cmds)
	cmds.Flush(bw.w, &recordingSpawner{})

	if bw.w.Alive(e) {
		t.Error("bubble with an unrepresentable radius kept")
	}
}
