package systems

import (
	"errors"
	"fmt"
	"math"
	"runtime"

	"github.com/mlange-42/ark/ecs"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/depthcharge/components"
	"github.com/pthm-cable/depthcharge/geom"
	"github.com/pthm-cable/depthcharge/ocean"
)

// ErrNonFinite is returned when integration produces a NaN or infinite state.
var ErrNonFinite = errors.New("non-finite body state")

// addedMassFactor is the share of displaced fluid, per m2 of cross section,
// that moves with a body. It keeps very light bodies from accelerating
// unrealistically in dense fluid.
const addedMassFactor = 0.01

// PhysicsSystem integrates buoyancy, gravity, thrust and drag for every body.
type PhysicsSystem struct {
	filter    ecs.Filter2[components.Location, components.Physical]
	sea       *ocean.Sea
	threshold int
	workers   int

	bodies []body
}

type body struct {
	loc  components.Location
	phys components.Physical
}

// NewPhysicsSystem creates a new physics system. Above threshold bodies the
// integration is split across workers goroutines (0 = GOMAXPROCS).
func NewPhysicsSystem(w *ecs.World, sea *ocean.Sea, threshold, workers int) *PhysicsSystem {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &PhysicsSystem{
		filter:    *ecs.NewFilter2[components.Location, components.Physical](w),
		sea:       sea,
		threshold: threshold,
		workers:   workers,
	}
}

// Update advances every body by t.Delta. Thrust and torque accumulators are
// cleared afterwards, so propulsion systems must run before this one.
func (s *PhysicsSystem) Update(t Time) error {
	dt := t.Delta

	s.bodies = s.bodies[:0]
	query := s.filter.Query()
	for query.Next() {
		loc, phys := query.Get()
		s.bodies = append(s.bodies, body{loc: *loc, phys: *phys})
	}

	var err error
	if len(s.bodies) < s.threshold || s.workers == 1 {
		err = s.integrateRange(0, len(s.bodies), dt)
	} else {
		err = s.integrateParallel(dt)
	}

	// Write back in query order; nothing changed the world in between.
	i := 0
	query = s.filter.Query()
	for query.Next() {
		loc, phys := query.Get()
		*loc = s.bodies[i].loc
		*phys = s.bodies[i].phys
		i++
	}
	return err
}

func (s *PhysicsSystem) integrateParallel(dt float64) error {
	var g errgroup.Group
	chunk := (len(s.bodies) + s.workers - 1) / s.workers
	for start := 0; start < len(s.bodies); start += chunk {
		end := min(start+chunk, len(s.bodies))
		g.Go(func() error { return s.integrateRange(start, end, dt) })
	}
	return g.Wait()
}

func (s *PhysicsSystem) integrateRange(start, end int, dt float64) error {
	var firstErr error
	for i := start; i < end; i++ {
		b := &s.bodies[i]
		Integrate(s.sea, dt, &b.loc, &b.phys)
		if firstErr == nil && !finite(b.loc.Position) {
			firstErr = fmt.Errorf("%w: body %d at %v", ErrNonFinite, i, b.loc.Position)
		}
	}
	return firstErr
}

// SurroundingDensity returns the fluid density a body of the given radius
// experiences at depth. Within one radius of the surface it blends linearly
// between air and surface water.
func SurroundingDensity(sea *ocean.Sea, pos r3.Vec, radius float64) float64 {
	depth := sea.Depth(pos)
	if depth <= -radius || depth >= radius {
		return sea.Density(pos)
	}
	waterPart := 0.5*depth/radius + 0.5
	return geom.Lerp(waterPart, sea.AirDensity(), sea.SurfaceWaterDensity())
}

// Integrate advances one body by dt.
func Integrate(sea *ocean.Sea, dt float64, loc *components.Location, p *components.Physical) {
	g := sea.Gravity()
	mass := p.Mass()
	cross := p.CrossArea()
	surrounding := SurroundingDensity(sea, loc.Position, p.Radius())

	relative := r3.Sub(p.Velocity, sea.Current(loc.Position))

	// Buoyancy and gravity
	p.Thrust.Y += surrounding*p.Volume()*g - mass*g

	moved := mass + addedMassFactor*cross*surrounding
	p.Velocity = r3.Add(p.Velocity, r3.Scale(dt/moved, p.Thrust))

	// Drag may stop relative motion within a tick but never reverse it.
	speed := r3.Norm(relative)
	if speed > 0 {
		drag := 0.5 * speed * speed * surrounding * p.Drag * cross * dt / mass
		if drag > speed {
			drag = speed
		}
		p.Velocity = r3.Sub(p.Velocity, r3.Scale(drag/speed, relative))
	}

	loc.Position = r3.Add(loc.Position, r3.Scale(dt, p.Velocity))

	p.Thrust = r3.Vec{}
	p.Torque = geom.Identity
}

func finite(v r3.Vec) bool {
	return !math.IsNaN(v.X+v.Y+v.Z) && !math.IsInf(v.X+v.Y+v.Z, 0)
}
