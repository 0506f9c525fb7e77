package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/munchers/components"
	"github.com/pthm-cable/munchers/systems"
	"github.com/pthm-cable/munchers/telemetry"
)

// isMuncher reports whether e is a muncher that has not been removed.
func (g *Game) isMuncher(e ecs.Entity) bool {
	return g.world.Alive(e) && g.muncherMap.HasAll(e) && !g.pop.Removed(e)
}

// Grow adds amount to a muncher's radius and health and keeps it inside the arena.
// Returns false if e is not a live muncher.
func (g *Game) Grow(e ecs.Entity, amount float32) bool {
	if !g.isMuncher(e) {
		return false
	}
	g.grow(e, amount)
	return true
}

// Shrink shrinks a muncher by one step if it is above the radius floor.
// A muncher whose health runs out is removed.
func (g *Game) Shrink(e ecs.Entity) bool {
	if !g.isMuncher(e) {
		return false
	}
	ok := g.shrink(e)
	g.settle()
	return ok
}

// LoseHealth subtracts amount from a muncher's health unless it is invincible.
// A muncher whose health runs out is removed.
func (g *Game) LoseHealth(e ecs.Entity, amount float32) bool {
	if !g.isMuncher(e) {
		return false
	}
	m := g.muncherMap.Get(e)
	systems.LoseHealth(m, amount)
	g.checkHealth(e, m)
	g.settle()
	return true
}

// ActivatePowerUp applies a power-up effect to a muncher.
func (g *Game) ActivatePowerUp(e ecs.Entity, t components.PowerUpType) bool {
	if !g.isMuncher(e) {
		return false
	}
	g.activate(e, t)
	return true
}

// Shoot fires a projectile from a muncher's center.
func (g *Game) Shoot(e ecs.Entity) (ecs.Entity, bool) {
	if !g.isMuncher(e) {
		return ecs.Entity{}, false
	}
	return g.shoot(e), true
}

func (g *Game) grow(e ecs.Entity, amount float32) {
	pos := g.posMap.Get(e)
	body := g.bodyMap.Get(e)
	m := g.muncherMap.Get(e)
	systems.Grow(pos, body, m, amount, &g.rules)
	g.lifetimeTracker.UpdateRadius(m.ID, body.Radius)
}

func (g *Game) shrink(e ecs.Entity) bool {
	body := g.bodyMap.Get(e)
	m := g.muncherMap.Get(e)
	if !systems.Shrink(body, m, &g.rules) {
		return false
	}
	g.checkHealth(e, m)
	return true
}

func (g *Game) activate(e ecs.Entity, t components.PowerUpType) {
	vel := g.velMap.Get(e)
	m := g.muncherMap.Get(e)
	systems.ActivatePowerUp(vel, m, t, g.tick, &g.rules)
	g.emit(telemetry.NewPowerUpEvent(g.tick, m.ID))
}

func (g *Game) shoot(shooter ecs.Entity) ecs.Entity {
	pos := g.posMap.Get(shooter)
	vel := g.velMap.Get(shooter)
	m := g.muncherMap.Get(shooter)

	vx, vy := systems.ShotDirection(vel.X, vel.Y, g.rules.ProjectileSpeed)
	id := m.ID
	e := g.spawnProjectile(pos.X, pos.Y, vx, vy, shooter, id)
	g.emit(telemetry.NewShotEvent(g.tick, id))
	return e
}

// checkHealth marks a muncher whose health has run out.
func (g *Game) checkHealth(e ecs.Entity, m *components.Muncher) {
	if m.Health > 0 {
		return
	}
	if g.markMuncher(e, telemetry.CauseExhausted) {
		g.emit(telemetry.NewExhaustedEvent(g.tick, m.ID))
	}
}

// markMuncher flags a muncher for removal with the given cause.
func (g *Game) markMuncher(e ecs.Entity, cause string) bool {
	if !g.pop.Mark(e) {
		return false
	}
	g.causes[e] = cause
	return true
}

// settle applies pending removals right away when called between steps.
func (g *Game) settle() {
	if !g.inStep {
		g.compact()
	}
}
