// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/depthcharge/components"
	"github.com/pthm-cable/depthcharge/ocean"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Physics   PhysicsConfig            `yaml:"physics"`
	Sea       ocean.SeaParams          `yaml:"sea"`
	Ship      components.ShipSpec      `yaml:"ship"`
	Submarine components.SubmarineSpec `yaml:"submarine"`
	Rocket    components.RocketSpec    `yaml:"rocket"`
	Torpedo   TorpedoConfig            `yaml:"torpedo"`
	Exploding ExplodingConfig          `yaml:"exploding"`
	Bubbles   BubblesConfig            `yaml:"bubbles"`
	Enemy     EnemyConfig              `yaml:"enemy"`
	World     WorldConfig              `yaml:"world"`
	Telemetry TelemetryConfig          `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// PhysicsConfig holds integration settings.
type PhysicsConfig struct {
	DT                float64 `yaml:"dt"`                 // fixed step, seconds
	ParallelThreshold int     `yaml:"parallel_threshold"` // bodies before integration is split across workers
	Workers           int     `yaml:"workers"`            // 0 = GOMAXPROCS
}

// TorpedoConfig holds the fixed torpedo parameters. Size and speed
// dependent values are derived by the entity factory.
type TorpedoConfig struct {
	LifeTime        float64 `yaml:"life_time"`        // seconds until self-destruct
	ArmTime         float64 `yaml:"arm_time"`         // seconds until the proximity fuse is live
	Density         float64 `yaml:"density"`          // kg/m3
	ProximityFactor float64 `yaml:"proximity_factor"` // trigger radius as a fraction of damage radius
}

// ExplodingConfig holds warhead and destruction settings.
type ExplodingConfig struct {
	ScanInterval      float64 `yaml:"scan_interval"`      // seconds between proximity scans
	DestructionRadius float64 `yaml:"destruction_radius"` // m, bubble cloud size of a destroyed hull
}

// BubblesConfig holds bubble behaviour and the bubble sources vessels carry.
type BubblesConfig struct {
	PopDepth         float64 `yaml:"pop_depth"`          // bubbles are not created shallower than this
	FloatDepth       float64 `yaml:"float_depth"`        // bubbles start floating above this depth
	RemoveAbove      float64 `yaml:"remove_above"`       // bubbles this far above the surface are removed
	MaxSurfaceRadius float64 `yaml:"max_surface_radius"` // m
	DriftForce       float64 `yaml:"drift_force"`        // N for a 1 m bubble
	WobblesPerSecond float64 `yaml:"wobbles_per_second"`

	SubmarineTrail    components.BubblingSpec `yaml:"submarine_trail"`
	TorpedoTrail      components.BubblingSpec `yaml:"torpedo_trail"`
	PlayerCloud       components.BubblingSpec `yaml:"player_cloud"`
	PlayerCloudOffset float64                 `yaml:"player_cloud_offset"` // m above the player
}

// EnemyConfig holds the random enemy controller settings. Chances are in
// percent per second.
type EnemyConfig struct {
	Interval     float64 `yaml:"interval"` // seconds between decisions
	MaxEnemies   int     `yaml:"max_enemies"`
	SpawnSpread  float64 `yaml:"spawn_spread"` // m, deviation of spawn positions
	SpawnChance  float64 `yaml:"spawn_chance"`
	FireChance   float64 `yaml:"fire_chance"`
	RudderChance float64 `yaml:"rudder_chance"`
	EngineChance float64 `yaml:"engine_chance"`
	PumpChance   float64 `yaml:"pump_chance"`
	FinsChance   float64 `yaml:"fins_chance"`
	MotorChance  float64 `yaml:"motor_chance"`
}

// WorldConfig holds the initial population.
type WorldConfig struct {
	InitialEnemies  int     `yaml:"initial_enemies"`
	EnemySpread     float64 `yaml:"enemy_spread"`
	BubbleClouds    int     `yaml:"bubble_clouds"`
	BubbleSpread    float64 `yaml:"bubble_spread"`
	PlayerSize      float64 `yaml:"player_size"`      // 0..1
	PlayerSleekness float64 `yaml:"player_sleekness"` // 0..1
}

// TelemetryConfig holds telemetry settings.
type TelemetryConfig struct {
	Window float64 `yaml:"window"` // seconds per stats window
}

// DerivedConfig holds values computed from other config values.
type DerivedConfig struct {
	TicksPerWindow int
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in the file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()
	return cfg, nil
}

func (c *Config) validate() error {
	if !(c.Physics.DT > 0) {
		return fmt.Errorf("physics.dt must be positive, got %v", c.Physics.DT)
	}
	if !(c.Exploding.ScanInterval > 0) || !(c.Enemy.Interval > 0) {
		return errors.New("exploding.scan_interval and enemy.interval must be positive")
	}
	if !(c.Bubbles.MaxSurfaceRadius > 0) {
		return fmt.Errorf("bubbles.max_surface_radius must be positive, got %v", c.Bubbles.MaxSurfaceRadius)
	}
	if !(c.Telemetry.Window > 0) {
		return fmt.Errorf("telemetry.window must be positive, got %v", c.Telemetry.Window)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.TicksPerWindow = max(1, int(math.Round(c.Telemetry.Window/c.Physics.DT)))
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
