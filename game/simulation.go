package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/munchers/components"
	"github.com/pthm-cable/munchers/systems"
	"github.com/pthm-cable/munchers/telemetry"
)

// Step advances the simulation by one tick.
func (g *Game) Step() {
	g.perfCollector.StartTick()
	g.inStep = true
	g.tick++

	munchers := g.pop.Len(components.KindMuncher)

	// 1. Power-up expiry, then player intents
	g.perfCollector.StartPhase(telemetry.PhaseIntents, munchers)
	g.expireEffects()
	g.applyIntents()

	// 2. Rebuild the broad phase for static pickups
	g.perfCollector.StartPhase(telemetry.PhaseSpatialGrid, g.pop.Len(components.KindFoodlet)+
		g.pop.Len(components.KindObstacle)+g.pop.Len(components.KindPowerUp))
	g.updateSpatialGrids()

	// 3. Move munchers and resolve their collisions
	g.perfCollector.StartPhase(telemetry.PhaseMunchers, munchers)
	g.updateMunchers()

	// 4. Move projectiles, including this tick's shots
	g.perfCollector.StartPhase(telemetry.PhaseProjectiles, g.pop.Len(components.KindProjectile))
	g.updateProjectiles()

	// 5. Exhausted munchers, then compaction
	g.perfCollector.StartPhase(telemetry.PhaseCleanup, g.pop.Pending())
	g.removeExhausted()
	g.compact()

	// 6. Arrivals
	g.perfCollector.StartPhase(telemetry.PhaseSpawn, 0)
	g.spawnArrivals()

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry, 0)
	g.flushTelemetry()

	g.inStep = false
	g.perfCollector.EndTick()
}

// expireEffects reverts power-ups whose expiry tick has been reached.
func (g *Game) expireEffects() {
	for _, e := range g.pop.Entities(components.KindMuncher) {
		vel := g.velMap.Get(e)
		m := g.muncherMap.Get(e)
		if systems.ExpireEffects(vel, m, g.tick, &g.rules) {
			g.emit(telemetry.NewPowerUpExpiredEvent(g.tick, m.ID))
		}
	}
}

// updateSpatialGrids rebuilds the per-kind pickup grids.
func (g *Game) updateSpatialGrids() {
	for _, kind := range pickupKinds {
		grid := g.grids[kind]
		grid.Clear()
		for i, e := range g.pop.Entities(kind) {
			if g.pop.Removed(e) {
				continue
			}
			pos := g.posMap.Get(e)
			body := g.bodyMap.Get(e)
			grid.Insert(systems.Neighbor{
				E:     e,
				Index: i,
				C:     systems.Circle{X: pos.X, Y: pos.Y, R: body.Radius},
			})
		}
	}
}

// updateMunchers runs every muncher's turn in registry order.
func (g *Game) updateMunchers() {
	// Munchers only arrive in the spawn phase, so the list does not grow here.
	for i, e := range g.pop.Entities(components.KindMuncher) {
		if g.pop.Removed(e) {
			continue
		}

		pos := g.posMap.Get(e)
		vel := g.velMap.Get(e)
		body := g.bodyMap.Get(e)
		m := g.muncherMap.Get(e)
		systems.AdvanceMuncher(pos, vel, body, m, &g.rules)

		if g.rng.Float64() < g.cfg.Muncher.ShootChance {
			g.shoot(e)
		}

		// An obstacle can exhaust the muncher, which ends its turn.
		g.touchPickups(components.KindFoodlet, e, g.eatFoodlet)
		g.touchPickups(components.KindObstacle, e, g.hitObstacle)
		if g.pop.Removed(e) {
			continue
		}
		g.eatMunchers(i, e)
		g.touchPickups(components.KindPowerUp, e, g.collectPowerUp)
	}
}

// touchPickups calls onHit for every unremoved pickup of kind the muncher touches,
// in registry order. The muncher's disk is re-read after each hit since a hit can
// grow or move it.
func (g *Game) touchPickups(kind components.Kind, e ecs.Entity, onHit func(muncher, pickup ecs.Entity)) {
	grid := g.grids[kind]
	last := -1
	for !g.pop.Removed(e) {
		pos := g.posMap.Get(e)
		body := g.bodyMap.Get(e)
		self := systems.Circle{X: pos.X, Y: pos.Y, R: body.Radius}
		reach := body.Radius + g.rules.MaxPickupRadius + g.rules.ContactTol

		g.scratch = grid.QueryInto(g.scratch[:0], pos.X, pos.Y, reach)
		var hit ecs.Entity
		found := false
		for _, n := range g.scratch {
			if n.Index <= last {
				continue
			}
			last = n.Index
			if g.pop.Removed(n.E) {
				continue
			}
			if systems.CircleIntersectsCircle(self, n.C, g.rules.ContactTol) {
				hit = n.E
				found = true
				break
			}
		}
		if !found {
			return
		}
		onHit(e, hit)
	}
}

func (g *Game) eatFoodlet(e, food ecs.Entity) {
	g.pop.Mark(food)
	growth := g.foodletMap.Get(food).Growth
	g.grow(e, growth)
	g.emit(telemetry.NewFoodEatenEvent(g.tick, g.muncherMap.Get(e).ID, growth))
}

func (g *Game) hitObstacle(e, obstacle ecs.Entity) {
	g.pop.Mark(obstacle)
	g.emit(telemetry.NewObstacleHitEvent(g.tick, g.muncherMap.Get(e).ID))
	g.shrink(e)
}

func (g *Game) collectPowerUp(e, pu ecs.Entity) {
	g.pop.Mark(pu)
	g.activate(e, g.powerUpMap.Get(pu).Type)
}

// eatMunchers lets the muncher at index i absorb every strictly smaller muncher it touches.
// A removed muncher eats nothing.
func (g *Game) eatMunchers(i int, e ecs.Entity) {
	for j, other := range g.pop.Entities(components.KindMuncher) {
		if g.pop.Removed(e) {
			return
		}
		if j == i || g.pop.Removed(other) {
			continue
		}

		pos := g.posMap.Get(e)
		body := g.bodyMap.Get(e)
		opos := g.posMap.Get(other)
		obody := g.bodyMap.Get(other)

		self := systems.Circle{X: pos.X, Y: pos.Y, R: body.Radius}
		them := systems.Circle{X: opos.X, Y: opos.Y, R: obody.Radius}
		if !systems.CircleIntersectsCircle(self, them, g.rules.ContactTol) || body.Radius <= obody.Radius {
			continue
		}

		growth := obody.Radius / 2
		g.markMuncher(other, telemetry.CauseEaten)
		g.grow(e, growth)
		g.emit(telemetry.NewMuncherEatenEvent(g.tick, g.muncherMap.Get(e).ID, g.muncherMap.Get(other).ID, growth))
	}
}

// updateProjectiles advances every projectile and resolves hits and exits.
func (g *Game) updateProjectiles() {
	for _, e := range g.pop.Entities(components.KindProjectile) {
		if g.pop.Removed(e) {
			continue
		}

		pos := g.posMap.Get(e)
		vel := g.velMap.Get(e)
		p := g.projMap.Get(e)
		systems.AdvanceProjectile(pos, vel)

		rect := systems.Rect{X: pos.X, Y: pos.Y, W: p.Width, H: p.Height}
		if g.hitMunchers(e, rect, p) {
			continue
		}
		if rect.OutsideBounds(g.rules.ArenaW, g.rules.ArenaH) {
			g.pop.Mark(e)
		}
	}
}

// hitMunchers shrinks the first non-shooter muncher the projectile overlaps that can shrink.
// Returns whether the projectile was spent.
func (g *Game) hitMunchers(proj ecs.Entity, rect systems.Rect, p *components.Projectile) bool {
	for _, target := range g.pop.Entities(components.KindMuncher) {
		if target == p.Shooter || g.pop.Removed(target) {
			continue
		}

		pos := g.posMap.Get(target)
		body := g.bodyMap.Get(target)
		if !systems.RectIntersectsCircle(rect, systems.Circle{X: pos.X, Y: pos.Y, R: body.Radius}) {
			continue
		}

		m := g.muncherMap.Get(target)
		if !systems.Shrink(body, m, &g.rules) {
			continue
		}
		g.pop.Mark(proj)
		g.emit(telemetry.NewProjectileHitEvent(g.tick, p.ShooterID, m.ID))
		g.checkHealth(target, m)
		return true
	}
	return false
}
