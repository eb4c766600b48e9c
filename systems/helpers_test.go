package systems

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/depthcharge/components"
	"github.com/pthm-cable/depthcharge/config"
	"github.com/pthm-cable/depthcharge/ocean"
)

func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(7, 11))
}

func testSea(t *testing.T) *ocean.Sea {
	t.Helper()
	sea, err := ocean.NewSea(ocean.DefaultSeaParams(), testRand())
	if err != nil {
		t.Fatalf("NewSea: %v", err)
	}
	return sea
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	return cfg
}

func near(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

type explosion struct {
	pos            r3.Vec
	damage, radius float64
}

type cloud struct {
	pos                     r3.Vec
	count                   int
	diameter, cloudDiameter float64
	lifeTime                float64
	varying                 bool
}

// recordingSpawner remembers every creation request.
type recordingSpawner struct {
	torpedoes  []ecs.Entity
	enemies    []r3.Vec
	clouds     []cloud
	explosions []explosion
}

func (s *recordingSpawner) Torpedo(source ecs.Entity, _ components.Location, _, _ float64) {
	s.torpedoes = append(s.torpedoes, source)
}

func (s *recordingSpawner) EnemySubmarine(pos r3.Vec, _, _ float64) {
	s.enemies = append(s.enemies, pos)
}

func (s *recordingSpawner) BubbleCloud(pos r3.Vec, count int, diameter, cloudDiameter, lifeTime float64) {
	s.clouds = append(s.clouds, cloud{pos, count, diameter, cloudDiameter, lifeTime, false})
}

func (s *recordingSpawner) VaryingBubbleCloud(pos r3.Vec, count int, diameter, cloudDiameter, lifeTime float64) {
	s.clouds = append(s.clouds, cloud{pos, count, diameter, cloudDiameter, lifeTime, true})
}

func (s *recordingSpawner) Explosion(pos r3.Vec, damage, radius float64) {
	s.explosions = append(s.explosions, explosion{pos, damage, radius})
}

// mustBody wraps a body constructor: mustBody(t)(components.Sphere(r, d)).
func mustBody(t *testing.T) func(components.Physical, error) components.Physical {
	t.Helper()
	return func(p components.Physical, err error) components.Physical {
		t.Helper()
		if err != nil {
			t.Fatalf("body: %v", err)
		}
		return p
	}
}

func mustDamageable(t *testing.T, hp, regen, debris float64) components.Damageable {
	t.Helper()
	d, err := components.NewDamageable(hp, regen, debris)
	if err != nil {
		t.Fatalf("NewDamageable: %v", err)
	}
	return d
}
