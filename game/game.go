// Package game runs the arena: the ECS world, the ordered population and the per-tick step.
package game

import (
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/munchers/components"
	"github.com/pthm-cable/munchers/config"
	"github.com/pthm-cable/munchers/systems"
	"github.com/pthm-cable/munchers/telemetry"
)

// MaxStepsPerUpdate caps fast-forward.
const MaxStepsPerUpdate = 10

// Rand is the random source for every draw the simulation makes.
// *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// Options configures game initialization.
type Options struct {
	Config         *config.Config // nil uses config.Cfg()
	Seed           int64
	Rand           Rand // overrides Seed when set
	NoPlayer       bool // skip the player muncher (tuning, tests)
	LogStats       bool
	OutputDir      string
	StepsPerUpdate int

	StatsCallback func(telemetry.WindowStats)
	EventSink     func(telemetry.Event) // called for every event as it happens
}

// Game holds the complete simulation state.
type Game struct {
	cfg   *config.Config
	rules systems.Rules
	world *ecs.World
	rng   Rand

	// Archetype mappers for entity creation
	muncherMapper    *ecs.Map4[components.Position, components.Velocity, components.Body, components.Muncher]
	projectileMapper *ecs.Map3[components.Position, components.Velocity, components.Projectile]
	foodletMapper    *ecs.Map3[components.Position, components.Body, components.Foodlet]
	obstacleMapper   *ecs.Map3[components.Position, components.Body, components.Obstacle]
	powerUpMapper    *ecs.Map3[components.Position, components.Body, components.PowerUp]

	// Individual component mappers for lookups
	posMap     *ecs.Map1[components.Position]
	velMap     *ecs.Map1[components.Velocity]
	bodyMap    *ecs.Map1[components.Body]
	muncherMap *ecs.Map1[components.Muncher]
	projMap    *ecs.Map1[components.Projectile]
	foodletMap *ecs.Map1[components.Foodlet]
	powerUpMap *ecs.Map1[components.PowerUp]

	pop    *Population
	causes map[ecs.Entity]string // removal cause for marked munchers

	// Broad phase for static pickups, indexed by kind
	grids   [components.NumKinds]*systems.SpatialGrid
	scratch []systems.Neighbor

	player    ecs.Entity
	hasPlayer bool
	intents   []Intent

	// State
	tick           int32
	nextID         uint32
	inStep         bool
	paused         bool
	stepsPerUpdate int

	// Telemetry
	collector       *telemetry.Collector
	lifetimeTracker *telemetry.LifetimeTracker
	perfCollector   *telemetry.PerfCollector
	outputManager   *telemetry.OutputManager
	logStats        bool
	statsCallback   func(telemetry.WindowStats)
	eventSink       func(telemetry.Event)
}

// NewGame creates a game with default options.
func NewGame() *Game {
	return NewGameWithOptions(Options{Seed: 42})
}

// NewGameWithOptions creates a new game instance with the specified options.
func NewGameWithOptions(opts Options) *Game {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(opts.Seed))
	}

	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}

	world := ecs.NewWorld()

	g := &Game{
		cfg:            cfg,
		rules:          systems.RulesFromConfig(cfg),
		world:          world,
		rng:            rng,
		pop:            NewPopulation(),
		causes:         make(map[ecs.Entity]string),
		stepsPerUpdate: min(steps, MaxStepsPerUpdate),
		nextID:         1,

		muncherMapper:    ecs.NewMap4[components.Position, components.Velocity, components.Body, components.Muncher](world),
		projectileMapper: ecs.NewMap3[components.Position, components.Velocity, components.Projectile](world),
		foodletMapper:    ecs.NewMap3[components.Position, components.Body, components.Foodlet](world),
		obstacleMapper:   ecs.NewMap3[components.Position, components.Body, components.Obstacle](world),
		powerUpMapper:    ecs.NewMap3[components.Position, components.Body, components.PowerUp](world),

		posMap:     ecs.NewMap1[components.Position](world),
		velMap:     ecs.NewMap1[components.Velocity](world),
		bodyMap:    ecs.NewMap1[components.Body](world),
		muncherMap: ecs.NewMap1[components.Muncher](world),
		projMap:    ecs.NewMap1[components.Projectile](world),
		foodletMap: ecs.NewMap1[components.Foodlet](world),
		powerUpMap: ecs.NewMap1[components.PowerUp](world),

		collector:       telemetry.NewCollector(cfg.Derived.StatsWindowTks, cfg.Derived.DT32),
		lifetimeTracker: telemetry.NewLifetimeTracker(),
		perfCollector:   telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		logStats:        opts.LogStats,
		statsCallback:   opts.StatsCallback,
		eventSink:       opts.EventSink,
	}

	for _, kind := range pickupKinds {
		g.grids[kind] = systems.NewSpatialGrid(g.rules.ArenaW, g.rules.ArenaH, float32(cfg.Physics.GridCellSize))
	}

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			slog.Error("failed to create output manager", "error", err)
		} else {
			g.outputManager = om
			if err := om.WriteConfig(cfg); err != nil {
				slog.Error("failed to write config", "error", err)
			}
		}
	}

	if !opts.NoPlayer {
		g.spawnPlayer()
	}
	g.spawnInitialPopulation()

	return g
}

// Update runs stepsPerUpdate simulation steps unless paused.
func (g *Game) Update() {
	g.perfCollector.RecordFrame()
	if g.paused {
		return
	}
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.Step()
	}
}

// UpdateHeadless runs stepsPerUpdate steps, ignoring pause.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.Step()
	}
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int32 {
	return g.tick
}

// Clock returns the simulation time in seconds.
func (g *Game) Clock() float32 {
	return float32(g.tick) * g.cfg.Derived.DT32
}

// Config returns the game's configuration.
func (g *Game) Config() *config.Config {
	return g.cfg
}

// Player returns the player muncher, if it is still in the arena.
func (g *Game) Player() (ecs.Entity, bool) {
	if !g.hasPlayer || !g.isMuncher(g.player) {
		return ecs.Entity{}, false
	}
	return g.player, true
}

// Population returns the ordered entity registry.
func (g *Game) Population() *Population {
	return g.pop
}

// Paused reports whether Update is suspended.
func (g *Game) Paused() bool {
	return g.paused
}

// SetPaused suspends or resumes Update.
func (g *Game) SetPaused(p bool) {
	g.paused = p
}

// TogglePause flips the paused state.
func (g *Game) TogglePause() {
	g.paused = !g.paused
}

// StepsPerUpdate returns the fast-forward factor.
func (g *Game) StepsPerUpdate() int {
	return g.stepsPerUpdate
}

// SetStepsPerUpdate sets the fast-forward factor, clamped to [1, MaxStepsPerUpdate].
func (g *Game) SetStepsPerUpdate(n int) {
	g.stepsPerUpdate = max(1, min(n, MaxStepsPerUpdate))
}

// Perf returns the performance collector.
func (g *Game) Perf() *telemetry.PerfCollector {
	return g.perfCollector
}

// Unload finalizes lifetime records for munchers still in the arena and closes output files.
func (g *Game) Unload() {
	for _, e := range g.pop.Entities(components.KindMuncher) {
		if g.pop.Removed(e) {
			continue
		}
		g.retireMuncher(e, telemetry.CauseSession)
	}
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
	g.outputManager = nil
}
