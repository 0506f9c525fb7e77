package game

import (
	"math/rand"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/munchers/components"
	"github.com/pthm-cable/munchers/config"
	"github.com/pthm-cable/munchers/telemetry"
)

// constRand returns the same draw every time.
type constRand struct {
	f float64
	n int
}

func (r constRand) Float64() float64 { return r.f }
func (r constRand) Intn(n int) int   { return r.n % n }

// quietRand never passes a spawn or shoot trial under the default probabilities.
var quietRand = constRand{f: 0.999}

func newTestGame(t *testing.T, mutate func(*config.Config), opts Options) *Game {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
		cfg.ComputeDerived()
	}
	opts.Config = cfg
	if opts.Rand == nil {
		opts.Rand = quietRand
	}
	g := NewGameWithOptions(opts)
	t.Cleanup(g.Unload)
	return g
}

func radius(g *Game, e ecs.Entity) float32 { return g.bodyMap.Get(e).Radius }

func TestLargerMuncherEatsSmaller(t *testing.T) {
	tests := []struct {
		name       string
		smallFirst bool
	}{
		{"larger first in order", false},
		{"smaller first in order", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(t, nil, Options{NoPlayer: true})

			var a, b ecs.Entity
			if tt.smallFirst {
				b = g.SpawnMuncher(125, 100, 10, 0, 0)
				a = g.SpawnMuncher(100, 100, 20, 0, 0)
			} else {
				a = g.SpawnMuncher(100, 100, 20, 0, 0)
				b = g.SpawnMuncher(125, 100, 10, 0, 0)
			}

			g.Step()

			if got := radius(g, a); got != 25 {
				t.Errorf("eater radius = %v, want 25", got)
			}
			if got := g.muncherMap.Get(a).Health; got != 105 {
				t.Errorf("eater health = %v, want 105", got)
			}
			if g.isMuncher(b) {
				t.Error("eaten muncher still in the arena")
			}
			if n := g.pop.Len(components.KindMuncher); n != 1 {
				t.Errorf("munchers = %d, want 1", n)
			}
		})
	}
}

func TestEqualMunchersDoNotEat(t *testing.T) {
	g := newTestGame(t, nil, Options{NoPlayer: true})
	a := g.SpawnMuncher(100, 100, 15, 0, 0)
	b := g.SpawnMuncher(120, 100, 15, 0, 0)

	g.Step()

	if !g.isMuncher(a) || !g.isMuncher(b) {
		t.Fatal("equal-sized munchers must both survive")
	}
	if radius(g, a) != 15 || radius(g, b) != 15 {
		t.Errorf("radii = %v, %v", radius(g, a), radius(g, b))
	}
}

func TestFoodletGoesToFirstInOrder(t *testing.T) {
	g := newTestGame(t, nil, Options{NoPlayer: true})
	a := g.SpawnMuncher(85, 100, 10, 0, 0)
	b := g.SpawnMuncher(115, 100, 10, 0, 0)
	g.SpawnFoodlet(100, 100)

	g.Step()

	if radius(g, a) != 12 {
		t.Errorf("first muncher radius = %v, want 12", radius(g, a))
	}
	if radius(g, b) != 10 {
		t.Errorf("second muncher radius = %v, want 10 (foodlet already taken)", radius(g, b))
	}
	if n := g.pop.Len(components.KindFoodlet); n != 0 {
		t.Errorf("foodlets = %d, want 0", n)
	}
}

func TestMuncherEatsSeveralFoodletsInOneTick(t *testing.T) {
	g := newTestGame(t, nil, Options{NoPlayer: true})
	a := g.SpawnMuncher(300, 300, 10, 0, 0)
	g.SpawnFoodlet(310, 300)
	g.SpawnFoodlet(290, 300)
	// Only reachable once the muncher has grown from the first two
	g.SpawnFoodlet(300, 319.5)

	g.Step()

	if got := radius(g, a); got != 16 {
		t.Errorf("radius = %v, want 16", got)
	}
	if n := g.pop.Len(components.KindFoodlet); n != 0 {
		t.Errorf("foodlets left = %d, want 0", n)
	}
}

func TestObstacleShrinksAndIsConsumed(t *testing.T) {
	g := newTestGame(t, nil, Options{NoPlayer: true})
	a := g.SpawnMuncher(300, 300, 20, 0, 0)
	g.SpawnObstacle(320, 300)

	g.Step()

	if radius(g, a) != 18 || g.muncherMap.Get(a).Health != 90 {
		t.Errorf("after obstacle: r=%v h=%v, want 18/90", radius(g, a), g.muncherMap.Get(a).Health)
	}
	if n := g.pop.Len(components.KindObstacle); n != 0 {
		t.Errorf("obstacles = %d, want 0", n)
	}
}

func TestShootWithZeroVelocity(t *testing.T) {
	g := newTestGame(t, nil, Options{NoPlayer: true})

	tests := []struct {
		name         string
		vx, vy       float32
		wantX, wantY float32
	}{
		{"at rest", 0, 0, 5, 5},
		{"moving left", -1.5, 0, -5, 5},
		{"moving down right", 0.1, 3, 5, 5},
		{"moving up", 0, -2, 5, -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := g.SpawnMuncher(200, 300, 10, tt.vx, tt.vy)
			p, ok := g.Shoot(e)
			if !ok {
				t.Fatal("Shoot failed on a live muncher")
			}

			vel := g.velMap.Get(p)
			if vel.X != tt.wantX || vel.Y != tt.wantY {
				t.Errorf("projectile velocity = (%v, %v), want (%v, %v)", vel.X, vel.Y, tt.wantX, tt.wantY)
			}
			pos := g.posMap.Get(p)
			if pos.X != 200 || pos.Y != 300 {
				t.Errorf("projectile corner = (%v, %v), want muncher center", pos.X, pos.Y)
			}
			proj := g.projMap.Get(p)
			if proj.Width != 10 || proj.Height != 5 || proj.Shooter != e {
				t.Errorf("projectile = %+v", proj)
			}
		})
	}
}

func TestInvincibleIgnoresHealthLoss(t *testing.T) {
	g := newTestGame(t, nil, Options{NoPlayer: true})
	a := g.SpawnMuncher(200, 200, 10, 1, 0)
	b := g.SpawnMuncher(400, 400, 10, 1, 0)

	g.ActivatePowerUp(a, components.PowerUpInvincibility)
	g.LoseHealth(a, 30)
	g.LoseHealth(b, 30)

	if h := g.muncherMap.Get(a).Health; h != 100 {
		t.Errorf("invincible health = %v, want 100", h)
	}
	if h := g.muncherMap.Get(b).Health; h != 70 {
		t.Errorf("health = %v, want 70", h)
	}
}

func TestNoSpawnsWhenDrawsAreHigh(t *testing.T) {
	g := newTestGame(t, nil, Options{NoPlayer: true})

	for i := 0; i < 1000; i++ {
		g.Step()
	}

	if counts := g.pop.Counts(); counts != ([components.NumKinds]int{}) {
		t.Errorf("counts after 1000 ticks = %v, want all zero", counts)
	}
}

func TestEveryKindSpawnsWhenDrawsAreZero(t *testing.T) {
	g := newTestGame(t, nil, Options{NoPlayer: true, Rand: constRand{f: 0}})

	g.Step()

	counts := g.pop.Counts()
	for _, kind := range []components.Kind{
		components.KindFoodlet, components.KindObstacle, components.KindMuncher, components.KindPowerUp,
	} {
		if counts[kind] != 1 {
			t.Errorf("%v count = %d, want 1", kind, counts[kind])
		}
	}

	s := g.Snapshot()
	m := s.Munchers[0]
	if m.X != 10 || m.Y != 10 || m.Radius != 10 {
		t.Errorf("spawned muncher at (%v, %v) r=%v, want (10, 10) r=10", m.X, m.Y, m.Radius)
	}
	if m.VX != -2 || m.VY != -2 {
		t.Errorf("spawned velocity = (%v, %v), want (-2, -2)", m.VX, m.VY)
	}
	if m.Name != "Tiny Hunter" || m.Health != 100 {
		t.Errorf("spawned muncher = %+v", m)
	}
	if f := s.Foodlets[0]; f.X != 5 || f.Y != 5 || f.Radius != 5 {
		t.Errorf("foodlet = %+v", f)
	}
	if p := s.PowerUps[0]; p.Radius != 8 || p.Type != components.PowerUpInvincibility {
		t.Errorf("power-up = %+v", p)
	}
}

func TestProjectileNeverHitsShooter(t *testing.T) {
	g := newTestGame(t, nil, Options{NoPlayer: true})
	a := g.SpawnMuncher(200, 200, 30, 0, 0)
	g.Shoot(a)

	for i := 0; i < 3; i++ {
		g.Step()
	}

	if radius(g, a) != 30 {
		t.Errorf("shooter radius = %v, want 30", radius(g, a))
	}
	if n := g.pop.Len(components.KindProjectile); n != 1 {
		t.Errorf("projectiles = %d, want 1", n)
	}
}

func TestProjectileShrinksTarget(t *testing.T) {
	g := newTestGame(t, nil, Options{NoPlayer: true})
	a := g.SpawnMuncher(100, 100, 10, 0, 0)
	b := g.SpawnMuncher(130, 130, 20, 0, 0)
	g.Shoot(a)

	g.Step()
	if radius(g, b) != 20 {
		t.Fatalf("target hit too early: r=%v", radius(g, b))
	}

	g.Step()
	if radius(g, b) != 18 || g.muncherMap.Get(b).Health != 90 {
		t.Errorf("target r=%v h=%v, want 18/90", radius(g, b), g.muncherMap.Get(b).Health)
	}
	if n := g.pop.Len(components.KindProjectile); n != 0 {
		t.Errorf("projectiles = %d, want 0 after a hit", n)
	}
}

func TestProjectilePassesTargetAtFloor(t *testing.T) {
	g := newTestGame(t, nil, Options{NoPlayer: true})
	a := g.SpawnMuncher(100, 100, 10, 0, 0)
	b := g.SpawnMuncher(130, 130, 10, 0, 0)
	g.Shoot(a)

	for i := 0; i < 5; i++ {
		g.Step()
	}

	if radius(g, b) != 10 || g.muncherMap.Get(b).Health != 100 {
		t.Errorf("floor target r=%v h=%v, want unchanged", radius(g, b), g.muncherMap.Get(b).Health)
	}
	if n := g.pop.Len(components.KindProjectile); n != 1 {
		t.Errorf("projectiles = %d, want 1 (no shrink, no removal)", n)
	}
}

func TestProjectileRemovedOnlyWhenFullyOutside(t *testing.T) {
	tests := []struct {
		name   string
		x, y   float32
		vx, vy float32
	}{
		{"right edge", 1275, 100, 5, 0},
		{"left edge", -5, 100, -5, 0},
		{"bottom edge", 100, 795, 0, 5},
		{"top edge", 100, 0, 0, -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(t, nil, Options{NoPlayer: true})
			g.spawnProjectile(tt.x, tt.y, tt.vx, tt.vy, ecs.Entity{}, 0)

			// First step leaves the rect touching the boundary
			g.Step()
			if n := g.pop.Len(components.KindProjectile); n != 1 {
				t.Fatalf("projectile removed while still touching the arena")
			}

			g.Step()
			if n := g.pop.Len(components.KindProjectile); n != 0 {
				t.Errorf("projectile kept after fully leaving the arena")
			}
		})
	}
}

func TestPowerUpExpiresAfterDuration(t *testing.T) {
	g := newTestGame(t, nil, Options{NoPlayer: true})
	a := g.SpawnMuncher(100, 400, 10, 1, 0)
	g.SpawnPowerUp(101, 400, components.PowerUpInvincibility)

	g.Step()
	m := g.muncherMap.Get(a)
	if !m.Invincible || !m.SpeedBoosted || g.velMap.Get(a).X != 2 {
		t.Fatalf("after pickup: %+v vx=%v", *m, g.velMap.Get(a).X)
	}

	// 300 ticks at 60 Hz
	for g.Tick() < 300 {
		g.Step()
	}
	if !g.muncherMap.Get(a).Invincible {
		t.Fatal("power-up expired early")
	}

	g.Step()
	m = g.muncherMap.Get(a)
	if m.Invincible || m.SpeedBoosted {
		t.Error("power-up still active after 5 seconds")
	}
	if vx := g.velMap.Get(a).X; vx != 1 {
		t.Errorf("vx = %v, want restored 1", vx)
	}
}

func TestExhaustedMuncherRemoved(t *testing.T) {
	var events []telemetry.Event
	g := newTestGame(t, nil, Options{
		NoPlayer:  true,
		EventSink: func(ev telemetry.Event) { events = append(events, ev) },
	})
	a := g.SpawnMuncher(300, 300, 20, 0, 0)
	g.muncherMap.Get(a).Health = 5
	g.SpawnObstacle(300, 300)

	g.Step()

	if g.isMuncher(a) || g.pop.Len(components.KindMuncher) != 0 {
		t.Error("muncher with no health left is still in the arena")
	}
	found := false
	for _, ev := range events {
		if ev.Type == telemetry.EventExhausted {
			found = true
		}
	}
	if !found {
		t.Error("no exhausted event emitted")
	}
}

func TestExhaustedMuncherEndsItsTurn(t *testing.T) {
	g := newTestGame(t, nil, Options{NoPlayer: true})
	a := g.SpawnMuncher(300, 300, 30, 0, 0)
	g.muncherMap.Get(a).Health = 5
	g.SpawnObstacle(300, 300)
	b := g.SpawnMuncher(310, 300, 10, 0, 0)
	g.SpawnPowerUp(290, 300, components.PowerUpInvincibility)

	g.Step()

	if g.isMuncher(a) {
		t.Fatal("muncher with no health left is still in the arena")
	}
	if !g.isMuncher(b) {
		t.Fatal("smaller muncher was eaten by one already exhausted this turn")
	}
	if r := radius(g, b); r != 10 {
		t.Errorf("survivor radius = %v, want 10", r)
	}
	if n := g.pop.Len(components.KindPowerUp); n != 1 {
		t.Errorf("power-ups = %d, want 1 left uncollected", n)
	}
}

func TestRemoveTakesEntityOutOfWorld(t *testing.T) {
	g := newTestGame(t, nil, Options{NoPlayer: true})
	f := g.SpawnFoodlet(100, 100)
	m := g.SpawnMuncher(300, 300, 20, 0, 0)

	if !g.Remove(f) || !g.Remove(m) {
		t.Fatal("Remove failed for entities in the arena")
	}
	if g.world.Alive(f) || g.world.Alive(m) {
		t.Error("removed entities still alive in the world")
	}
	if g.pop.Len(components.KindFoodlet) != 0 || g.pop.Len(components.KindMuncher) != 0 {
		t.Error("removed entities still in the registry")
	}
	if g.Remove(f) {
		t.Error("second Remove should report false")
	}
}

func TestLoseHealthBetweenStepsRemoves(t *testing.T) {
	g := newTestGame(t, nil, Options{NoPlayer: true})
	a := g.SpawnMuncher(300, 300, 20, 0, 0)

	g.LoseHealth(a, 150)

	if g.pop.Len(components.KindMuncher) != 0 {
		t.Error("exhausted muncher should be removed immediately outside a step")
	}
	if g.Grow(a, 5) || g.Shrink(a) {
		t.Error("operations on a removed muncher must be no-ops")
	}
	if _, ok := g.Shoot(a); ok {
		t.Error("removed muncher must not shoot")
	}
}

func TestGrowKeepsMuncherInside(t *testing.T) {
	g := newTestGame(t, nil, Options{NoPlayer: true})
	a := g.SpawnMuncher(1270, 790, 10, 0, 0)

	g.Grow(a, 10)

	pos := g.posMap.Get(a)
	if pos.X != 1260 || pos.Y != 780 {
		t.Errorf("pos = (%v, %v), want (1260, 780)", pos.X, pos.Y)
	}
}

func TestPlayerIntents(t *testing.T) {
	g := newTestGame(t, nil, Options{})
	p, ok := g.Player()
	if !ok {
		t.Fatal("no player")
	}

	s := g.Snapshot()
	pv, ok := s.PlayerView()
	if !ok || pv.X != 640 || pv.Y != 400 || pv.Radius != 20 || pv.VX != 0 || pv.VY != 0 {
		t.Fatalf("player view = %+v", pv)
	}

	g.Submit(SetAxisIntent(AxisX, 1))
	g.Submit(SetAxisIntent(AxisY, -1))
	g.Step()
	vel := g.velMap.Get(p)
	if vel.X != 2 || vel.Y != -2 {
		t.Errorf("vel = %+v, want (2, -2)", *vel)
	}

	g.Submit(SetAxisIntent(AxisX, 0))
	g.Submit(SetAxisIntent(AxisY, 7))
	g.Step()
	vel = g.velMap.Get(p)
	if vel.X != 0 || vel.Y != 2 {
		t.Errorf("vel = %+v, want (0, 2)", *vel)
	}

	g.ActivatePowerUp(p, components.PowerUpInvincibility)
	g.Submit(SetAxisIntent(AxisX, -1))
	g.Step()
	if vx := g.velMap.Get(p).X; vx != -4 {
		t.Errorf("boosted vx = %v, want -4", vx)
	}

	g.Submit(ShootIntent())
	g.Step()
	if n := g.pop.Len(components.KindProjectile); n != 1 {
		t.Fatalf("projectiles = %d, want 1", n)
	}
	if shooter := g.projMap.Get(g.pop.At(components.KindProjectile, 0)).Shooter; shooter != p {
		t.Error("projectile shooter is not the player")
	}
}

func TestIntentsAfterPlayerGone(t *testing.T) {
	g := newTestGame(t, nil, Options{})
	p, _ := g.Player()
	g.LoseHealth(p, 1000)

	if _, ok := g.Player(); ok {
		t.Fatal("player still reported after removal")
	}
	g.Submit(SetAxisIntent(AxisX, 1))
	g.Submit(ShootIntent())
	g.Step()

	if n := g.pop.Len(components.KindProjectile); n != 0 {
		t.Errorf("projectiles = %d, want 0", n)
	}
	if s := g.Snapshot(); s.PlayerAlive {
		t.Error("snapshot reports a live player")
	}
}

func TestSeededRunsAreReproducible(t *testing.T) {
	mutate := func(c *config.Config) {
		c.Population.InitialMunchers = 20
		c.Population.InitialFoodlets = 40
		c.Population.InitialObstacles = 10
		c.Population.InitialPowerUps = 5
		c.Spawn.Muncher = 0.05
		c.Muncher.ShootChance = 0.05
	}
	run := func() Snapshot {
		g := newTestGame(t, mutate, Options{Rand: rand.New(rand.NewSource(7))})
		for i := 0; i < 600; i++ {
			g.Step()
		}
		return g.Snapshot()
	}

	a, b := run(), run()
	if !reflect.DeepEqual(a, b) {
		t.Error("two runs with the same seed diverged")
	}
	if len(a.Munchers) == 0 {
		t.Error("expected some munchers after 600 ticks")
	}
}

func TestInvariantsHoldOverLongRun(t *testing.T) {
	g := newTestGame(t, func(c *config.Config) {
		c.Population.InitialMunchers = 30
		c.Population.InitialFoodlets = 60
		c.Population.InitialObstacles = 20
		c.Population.InitialPowerUps = 10
		c.Muncher.ShootChance = 0.05
	}, Options{Rand: rand.New(rand.NewSource(3))})

	ages := make(map[uint32]float32)
	var s Snapshot
	for i := 0; i < 2000; i++ {
		g.Step()
		g.SnapshotInto(&s)

		for _, m := range s.Munchers {
			if m.Radius < 10 {
				t.Fatalf("tick %d: %s radius %v below floor", s.Tick, m.Name, m.Radius)
			}
			if m.Health <= 0 {
				t.Fatalf("tick %d: %s alive with health %v", s.Tick, m.Name, m.Health)
			}
			if prev, ok := ages[m.ID]; ok && m.Age < prev {
				t.Fatalf("tick %d: %s age decreased", s.Tick, m.Name)
			}
			ages[m.ID] = m.Age
		}
		if g.pop.Pending() != 0 {
			t.Fatalf("tick %d: %d marks survived compaction", s.Tick, g.pop.Pending())
		}
	}
}

func TestStatsWindowFlush(t *testing.T) {
	var windows []telemetry.WindowStats
	g := newTestGame(t, func(c *config.Config) {
		c.Physics.DT = 0.5
		c.Telemetry.StatsWindow = 5
	}, Options{
		NoPlayer:      true,
		StatsCallback: func(s telemetry.WindowStats) { windows = append(windows, s) },
	})
	g.SpawnMuncher(300, 300, 10, 0, 0)
	g.SpawnMuncher(600, 300, 30, 0, 0)

	for i := 0; i < 25; i++ {
		g.Step()
	}

	if len(windows) != 2 {
		t.Fatalf("windows = %d, want 2", len(windows))
	}
	if windows[0].WindowEndTick != 10 || windows[1].WindowEndTick != 20 {
		t.Errorf("window ends = %d, %d", windows[0].WindowEndTick, windows[1].WindowEndTick)
	}
	if windows[0].Munchers != 2 || windows[0].RadiusMax != 30 || windows[0].RadiusMean != 20 {
		t.Errorf("window = %+v", windows[0])
	}
}

func TestLifetimesWrittenOnUnload(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	g := NewGameWithOptions(Options{Config: cfg, Rand: quietRand, OutputDir: dir})
	a := g.SpawnMuncher(100, 100, 20, 0, 0)
	g.SpawnMuncher(125, 100, 10, 0, 0)
	g.Step()
	name := g.muncherMap.Get(a).Name

	g.Unload()

	data, err := os.ReadFile(filepath.Join(dir, "lifetimes.csv"))
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	if strings.Count(text, "\n") != 4 {
		t.Errorf("lifetimes.csv should have a header and 3 rows:\n%s", text)
	}
	if !strings.Contains(text, telemetry.CauseEaten) || !strings.Contains(text, telemetry.CauseSession) {
		t.Errorf("lifetimes.csv missing causes:\n%s", text)
	}
	if !strings.Contains(text, name) {
		t.Errorf("lifetimes.csv missing %q", name)
	}
}

func TestPauseAndFastForward(t *testing.T) {
	g := newTestGame(t, nil, Options{NoPlayer: true, StepsPerUpdate: 3})

	g.Update()
	if g.Tick() != 3 {
		t.Errorf("tick = %d, want 3", g.Tick())
	}

	g.TogglePause()
	g.Update()
	if g.Tick() != 3 {
		t.Errorf("paused tick = %d, want 3", g.Tick())
	}

	g.SetPaused(false)
	g.SetStepsPerUpdate(100)
	if g.StepsPerUpdate() != MaxStepsPerUpdate {
		t.Errorf("steps = %d, want clamp to %d", g.StepsPerUpdate(), MaxStepsPerUpdate)
	}
	g.SetStepsPerUpdate(0)
	g.Update()
	if g.Tick() != 4 {
		t.Errorf("tick = %d, want 4", g.Tick())
	}
}
