package game

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/munchers/components"
	"github.com/pthm-cable/munchers/naming"
	"github.com/pthm-cable/munchers/telemetry"
)

// pickupKinds are the static kinds a muncher collides with through the broad phase.
var pickupKinds = [...]components.Kind{
	components.KindFoodlet,
	components.KindObstacle,
	components.KindPowerUp,
}

// spawnPlayer places the player muncher at the arena center, at rest.
func (g *Game) spawnPlayer() {
	r := float32(g.cfg.Muncher.PlayerRadius)
	g.player = g.newMuncher(g.rules.ArenaW/2, g.rules.ArenaH/2, r, 0, 0, true)
	g.hasPlayer = true
}

// spawnInitialPopulation creates the configured starting entities.
func (g *Game) spawnInitialPopulation() {
	p := g.cfg.Population
	for i := 0; i < p.InitialMunchers; i++ {
		g.spawnRandomMuncher()
	}
	for i := 0; i < p.InitialFoodlets; i++ {
		g.spawnRandomFoodlet()
	}
	for i := 0; i < p.InitialObstacles; i++ {
		g.spawnRandomObstacle()
	}
	for i := 0; i < p.InitialPowerUps; i++ {
		g.spawnRandomPowerUp()
	}
}

// spawnArrivals runs one Bernoulli trial per kind, in fixed order.
func (g *Game) spawnArrivals() {
	sp := g.cfg.Spawn
	if g.rng.Float64() < sp.Foodlet {
		g.spawnRandomFoodlet()
	}
	if g.rng.Float64() < sp.Obstacle {
		g.spawnRandomObstacle()
	}
	if g.rng.Float64() < sp.Muncher {
		g.spawnRandomMuncher()
	}
	if g.rng.Float64() < sp.PowerUp {
		g.spawnRandomPowerUp()
	}
}

// randomPlacement returns a uniform center for a disk of radius r fully inside the arena.
func (g *Game) randomPlacement(r float32) (float32, float32) {
	x := float32(g.rng.Float64())*(g.rules.ArenaW-2*r) + r
	y := float32(g.rng.Float64())*(g.rules.ArenaH-2*r) + r
	return x, y
}

func (g *Game) spawnRandomMuncher() ecs.Entity {
	r := float32(g.cfg.Muncher.SpawnRadius)
	x, y := g.randomPlacement(r)
	s := float32(g.cfg.Muncher.MaxSpawnSpeed)
	vx := (float32(g.rng.Float64()) - 0.5) * 2 * s
	vy := (float32(g.rng.Float64()) - 0.5) * 2 * s
	return g.newMuncher(x, y, r, vx, vy, false)
}

func (g *Game) spawnRandomFoodlet() ecs.Entity {
	x, y := g.randomPlacement(float32(g.cfg.Foodlet.Radius))
	return g.SpawnFoodlet(x, y)
}

func (g *Game) spawnRandomObstacle() ecs.Entity {
	x, y := g.randomPlacement(float32(g.cfg.Obstacle.Radius))
	return g.SpawnObstacle(x, y)
}

func (g *Game) spawnRandomPowerUp() ecs.Entity {
	x, y := g.randomPlacement(float32(g.cfg.PowerUp.Radius))
	return g.SpawnPowerUp(x, y, components.PowerUpInvincibility)
}

// SpawnMuncher adds a non-player muncher with a random name.
func (g *Game) SpawnMuncher(x, y, radius, vx, vy float32) ecs.Entity {
	return g.newMuncher(x, y, radius, vx, vy, false)
}

func (g *Game) newMuncher(x, y, radius, vx, vy float32, player bool) ecs.Entity {
	id := g.nextID
	g.nextID++

	pos := components.Position{X: x, Y: y}
	vel := components.Velocity{X: vx, Y: vy}
	body := components.Body{Radius: radius}
	m := components.Muncher{
		ID:     id,
		Name:   naming.RandomName(g.rng),
		Health: g.rules.InitialHealth,
		Player: player,
	}

	e := g.muncherMapper.NewEntity(&pos, &vel, &body, &m)
	g.pop.Append(components.KindMuncher, e)
	g.lifetimeTracker.Register(id, m.Name, player, g.tick, radius)
	g.emit(telemetry.NewSpawnEvent(g.tick, id, components.KindMuncher))
	return e
}

// SpawnFoodlet adds a foodlet centered at (x, y).
func (g *Game) SpawnFoodlet(x, y float32) ecs.Entity {
	pos := components.Position{X: x, Y: y}
	body := components.Body{Radius: float32(g.cfg.Foodlet.Radius)}
	food := components.Foodlet{Growth: g.rules.FoodletGrowth}

	e := g.foodletMapper.NewEntity(&pos, &body, &food)
	g.pop.Append(components.KindFoodlet, e)
	g.emit(telemetry.NewSpawnEvent(g.tick, 0, components.KindFoodlet))
	return e
}

// SpawnObstacle adds an obstacle centered at (x, y).
func (g *Game) SpawnObstacle(x, y float32) ecs.Entity {
	pos := components.Position{X: x, Y: y}
	body := components.Body{Radius: float32(g.cfg.Obstacle.Radius)}

	e := g.obstacleMapper.NewEntity(&pos, &body, &components.Obstacle{})
	g.pop.Append(components.KindObstacle, e)
	g.emit(telemetry.NewSpawnEvent(g.tick, 0, components.KindObstacle))
	return e
}

// SpawnPowerUp adds a power-up of type t centered at (x, y).
func (g *Game) SpawnPowerUp(x, y float32, t components.PowerUpType) ecs.Entity {
	pos := components.Position{X: x, Y: y}
	body := components.Body{Radius: float32(g.cfg.PowerUp.Radius)}
	pu := components.PowerUp{Type: t}

	e := g.powerUpMapper.NewEntity(&pos, &body, &pu)
	g.pop.Append(components.KindPowerUp, e)
	g.emit(telemetry.NewSpawnEvent(g.tick, 0, components.KindPowerUp))
	return e
}

// spawnProjectile adds a projectile whose top-left corner is at (x, y).
func (g *Game) spawnProjectile(x, y, vx, vy float32, shooter ecs.Entity, shooterID uint32) ecs.Entity {
	pos := components.Position{X: x, Y: y}
	vel := components.Velocity{X: vx, Y: vy}
	p := components.Projectile{
		Width:     g.rules.ProjectileW,
		Height:    g.rules.ProjectileH,
		Shooter:   shooter,
		ShooterID: shooterID,
	}

	e := g.projectileMapper.NewEntity(&pos, &vel, &p)
	g.pop.Append(components.KindProjectile, e)
	return e
}

// removeExhausted marks munchers whose health is at or below zero.
func (g *Game) removeExhausted() {
	for _, e := range g.pop.Entities(components.KindMuncher) {
		if g.pop.Removed(e) {
			continue
		}
		g.checkHealth(e, g.muncherMap.Get(e))
	}
}

// Remove takes e out of the arena. Between steps it leaves the registry and
// the world at once; during a step it leaves at compaction.
// Returns false if e is not in the arena.
func (g *Game) Remove(e ecs.Entity) bool {
	if !g.world.Alive(e) || g.pop.Removed(e) {
		return false
	}
	if g.muncherMap.HasAll(e) {
		g.markMuncher(e, telemetry.CauseRemoved)
	} else {
		g.pop.Mark(e)
	}
	g.settle()
	return true
}

// compact drops marked entities from the registry and the world.
func (g *Game) compact() {
	g.pop.Compact(func(kind components.Kind, e ecs.Entity) {
		if kind == components.KindMuncher {
			cause, ok := g.causes[e]
			if !ok {
				cause = telemetry.CauseEaten
			}
			g.retireMuncher(e, cause)
			if g.hasPlayer && e == g.player {
				g.hasPlayer = false
				slog.Info("player removed", "tick", g.tick, "cause", cause)
			}
		}
		g.world.RemoveEntity(e)
	})
	clear(g.causes)
}

// retireMuncher finalizes and outputs a muncher's lifetime record.
func (g *Game) retireMuncher(e ecs.Entity, cause string) {
	body := g.bodyMap.Get(e)
	m := g.muncherMap.Get(e)

	s := g.lifetimeTracker.Remove(m.ID, g.tick, g.cfg.Derived.DT32, body.Radius, m.Age, cause)
	if s == nil {
		return
	}
	if g.logStats {
		slog.Info("muncher_removed", "muncher", s)
	}
	if err := g.outputManager.WriteLifetime(s); err != nil {
		slog.Error("failed to write lifetime", "error", err)
	}
}
