// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Arena      ArenaConfig      `yaml:"arena"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Muncher    MuncherConfig    `yaml:"muncher"`
	Foodlet    FoodletConfig    `yaml:"foodlet"`
	Obstacle   ObstacleConfig   `yaml:"obstacle"`
	PowerUp    PowerUpConfig    `yaml:"power_up"`
	Projectile ProjectileConfig `yaml:"projectile"`
	Spawn      SpawnConfig      `yaml:"spawn"`
	Population PopulationConfig `yaml:"population"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Audio      AudioConfig      `yaml:"audio"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// ArenaConfig holds the simulated arena dimensions.
// The arena is fixed for the whole session; the window only scales it.
type ArenaConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// PhysicsConfig holds simulation physics parameters.
type PhysicsConfig struct {
	DT               float64 `yaml:"dt"`                // simulation seconds per tick
	GridCellSize     float64 `yaml:"grid_cell_size"`    // broad phase cell size
	ContactTolerance float64 `yaml:"contact_tolerance"` // circle gap still counted as contact
}

// MuncherConfig holds muncher body and behavior parameters.
type MuncherConfig struct {
	PlayerRadius  float64 `yaml:"player_radius"`
	SpawnRadius   float64 `yaml:"spawn_radius"`
	InitialHealth float64 `yaml:"initial_health"`
	ShrinkFloor   float64 `yaml:"shrink_floor"`  // radius at or below which shrinking is refused
	ShrinkStep    float64 `yaml:"shrink_step"`   // radius lost per shrink
	ShrinkHealth  float64 `yaml:"shrink_health"` // health lost per shrink
	MaxSpawnSpeed float64 `yaml:"max_spawn_speed"`
	PlayerSpeed   float64 `yaml:"player_speed"`
	AgePerTick    float64 `yaml:"age_per_tick"`
	ShootChance   float64 `yaml:"shoot_chance"`
}

// FoodletConfig holds foodlet parameters.
type FoodletConfig struct {
	Radius float64 `yaml:"radius"`
	Growth float64 `yaml:"growth"`
}

// ObstacleConfig holds obstacle parameters.
type ObstacleConfig struct {
	Radius float64 `yaml:"radius"`
}

// PowerUpConfig holds power-up parameters.
type PowerUpConfig struct {
	Radius          float64 `yaml:"radius"`
	Duration        float64 `yaml:"duration"` // simulation seconds
	SpeedMultiplier float64 `yaml:"speed_multiplier"`
}

// ProjectileConfig holds projectile parameters.
type ProjectileConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Speed  float64 `yaml:"speed"`
}

// SpawnConfig holds per-tick spawn probabilities.
type SpawnConfig struct {
	Foodlet  float64 `yaml:"foodlet"`
	Obstacle float64 `yaml:"obstacle"`
	Muncher  float64 `yaml:"muncher"`
	PowerUp  float64 `yaml:"power_up"`
}

// PopulationConfig holds the population placed at session start, besides the player.
type PopulationConfig struct {
	InitialMunchers  int `yaml:"initial_munchers"`
	InitialFoodlets  int `yaml:"initial_foodlets"`
	InitialObstacles int `yaml:"initial_obstacles"`
	InitialPowerUps  int `yaml:"initial_power_ups"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// AudioConfig holds sound cue settings.
type AudioConfig struct {
	Enabled bool    `yaml:"enabled"`
	Volume  float64 `yaml:"volume"` // master gain in [0,1]
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32           float32 // Physics.DT as float32
	ArenaW32       float32 // Arena.Width as float32
	ArenaH32       float32 // Arena.Height as float32
	PowerUpTicks   int32   // PowerUp.Duration in ticks, rounded up
	MaxPickupR32   float32 // largest static pickup radius
	ContactTol32   float32
	StatsWindowTks int32 // Telemetry.StatsWindow in ticks
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

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are broken: %v", err))
	}
	return cfg
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
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.ComputeDerived()

	return cfg, nil
}

type namedValue struct {
	name string
	v    float64
}

// Validate rejects configurations the simulation cannot run with.
func (c *Config) Validate() error {
	if c.Arena.Width <= 0 || c.Arena.Height <= 0 {
		return fmt.Errorf("%w: arena must be positive, got %vx%v", ErrInvalid, c.Arena.Width, c.Arena.Height)
	}
	if c.Physics.DT <= 0 {
		return fmt.Errorf("%w: physics.dt must be positive", ErrInvalid)
	}
	if c.Physics.GridCellSize <= 0 {
		return fmt.Errorf("%w: physics.grid_cell_size must be positive", ErrInvalid)
	}

	// Checked in field order so the first bad field is always the one reported
	probs := []namedValue{
		{"spawn.foodlet", c.Spawn.Foodlet},
		{"spawn.obstacle", c.Spawn.Obstacle},
		{"spawn.muncher", c.Spawn.Muncher},
		{"spawn.power_up", c.Spawn.PowerUp},
		{"muncher.shoot_chance", c.Muncher.ShootChance},
	}
	for _, p := range probs {
		if p.v < 0 || p.v > 1 {
			return fmt.Errorf("%w: %s must be in [0,1], got %v", ErrInvalid, p.name, p.v)
		}
	}

	radii := []namedValue{
		{"muncher.player_radius", c.Muncher.PlayerRadius},
		{"muncher.spawn_radius", c.Muncher.SpawnRadius},
		{"foodlet.radius", c.Foodlet.Radius},
		{"obstacle.radius", c.Obstacle.Radius},
		{"power_up.radius", c.PowerUp.Radius},
	}
	for _, r := range radii {
		if r.v <= 0 {
			return fmt.Errorf("%w: %s must be positive", ErrInvalid, r.name)
		}
		if 2*r.v > c.Arena.Width || 2*r.v > c.Arena.Height {
			return fmt.Errorf("%w: %s=%v does not fit in the arena", ErrInvalid, r.name, r.v)
		}
	}

	if c.Muncher.ShrinkFloor <= 0 || c.Muncher.ShrinkStep <= 0 {
		return fmt.Errorf("%w: muncher shrink floor and step must be positive", ErrInvalid)
	}
	if c.Projectile.Width <= 0 || c.Projectile.Height <= 0 || c.Projectile.Speed <= 0 {
		return fmt.Errorf("%w: projectile size and speed must be positive", ErrInvalid)
	}
	if c.PowerUp.Duration < 0 || c.PowerUp.SpeedMultiplier <= 0 {
		return fmt.Errorf("%w: power_up duration must be >= 0 and speed_multiplier > 0", ErrInvalid)
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		return fmt.Errorf("%w: audio.volume must be in [0,1], got %v", ErrInvalid, c.Audio.Volume)
	}
	return nil
}

// ComputeDerived calculates values derived from loaded config.
// Call again after mutating a loaded config in place.
func (c *Config) ComputeDerived() {
	c.Derived.DT32 = float32(c.Physics.DT)
	c.Derived.ArenaW32 = float32(c.Arena.Width)
	c.Derived.ArenaH32 = float32(c.Arena.Height)
	c.Derived.ContactTol32 = float32(c.Physics.ContactTolerance)

	ticks := c.PowerUp.Duration / c.Physics.DT
	c.Derived.PowerUpTicks = int32(ticks)
	if float64(c.Derived.PowerUpTicks) < ticks {
		c.Derived.PowerUpTicks++
	}

	maxR := c.Foodlet.Radius
	if c.Obstacle.Radius > maxR {
		maxR = c.Obstacle.Radius
	}
	if c.PowerUp.Radius > maxR {
		maxR = c.PowerUp.Radius
	}
	c.Derived.MaxPickupR32 = float32(maxR)

	window := int32(c.Telemetry.StatsWindow / c.Physics.DT)
	if window < 1 {
		window = 1
	}
	c.Derived.StatsWindowTks = window
}

// Clone returns a deep copy of the config.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
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
