package game

import (
	"sort"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/munchers/components"
)

// MuncherView is a read-only copy of a muncher's state.
type MuncherView struct {
	Entity       ecs.Entity
	ID           uint32
	Name         string
	X, Y         float32
	Radius       float32
	VX, VY       float32
	Health       float32
	Age          float32
	Invincible   bool
	SpeedBoosted bool
	Player       bool
}

// DiskView is a read-only copy of a static disk-shaped entity.
type DiskView struct {
	X, Y   float32
	Radius float32
}

// PowerUpView is a read-only copy of a power-up.
type PowerUpView struct {
	DiskView
	Type components.PowerUpType
}

// ProjectileView is a read-only copy of a projectile. X, Y is the top-left corner.
type ProjectileView struct {
	X, Y float32
	W, H float32
}

// Snapshot is everything a presentation adapter needs to draw one frame.
type Snapshot struct {
	Tick           int32
	Clock          float32
	ArenaW, ArenaH float32

	Munchers    []MuncherView
	Projectiles []ProjectileView
	Foodlets    []DiskView
	Obstacles   []DiskView
	PowerUps    []PowerUpView

	// Leaderboard holds the munchers sorted by radius, largest first.
	Leaderboard []MuncherView

	PlayerAlive    bool
	Paused         bool
	StepsPerUpdate int
}

// PlayerView returns the player's view, if the player is still in the arena.
func (s *Snapshot) PlayerView() (MuncherView, bool) {
	for _, m := range s.Munchers {
		if m.Player {
			return m, true
		}
	}
	return MuncherView{}, false
}

// Snapshot returns a copy of the current state.
func (g *Game) Snapshot() Snapshot {
	var s Snapshot
	g.SnapshotInto(&s)
	return s
}

// SnapshotInto fills s with the current state, reusing its slices.
func (g *Game) SnapshotInto(s *Snapshot) {
	s.Tick = g.tick
	s.Clock = g.Clock()
	s.ArenaW = g.rules.ArenaW
	s.ArenaH = g.rules.ArenaH
	s.Paused = g.paused
	s.StepsPerUpdate = g.stepsPerUpdate
	_, s.PlayerAlive = g.Player()

	s.Munchers = s.Munchers[:0]
	for _, e := range g.pop.Entities(components.KindMuncher) {
		if g.pop.Removed(e) {
			continue
		}
		pos := g.posMap.Get(e)
		vel := g.velMap.Get(e)
		body := g.bodyMap.Get(e)
		m := g.muncherMap.Get(e)
		s.Munchers = append(s.Munchers, MuncherView{
			Entity:       e,
			ID:           m.ID,
			Name:         m.Name,
			X:            pos.X,
			Y:            pos.Y,
			Radius:       body.Radius,
			VX:           vel.X,
			VY:           vel.Y,
			Health:       m.Health,
			Age:          m.Age,
			Invincible:   m.Invincible,
			SpeedBoosted: m.SpeedBoosted,
			Player:       m.Player,
		})
	}

	s.Projectiles = s.Projectiles[:0]
	for _, e := range g.pop.Entities(components.KindProjectile) {
		if g.pop.Removed(e) {
			continue
		}
		pos := g.posMap.Get(e)
		p := g.projMap.Get(e)
		s.Projectiles = append(s.Projectiles, ProjectileView{X: pos.X, Y: pos.Y, W: p.Width, H: p.Height})
	}

	s.Foodlets = g.appendDisks(s.Foodlets[:0], components.KindFoodlet)
	s.Obstacles = g.appendDisks(s.Obstacles[:0], components.KindObstacle)

	s.PowerUps = s.PowerUps[:0]
	for _, e := range g.pop.Entities(components.KindPowerUp) {
		if g.pop.Removed(e) {
			continue
		}
		pos := g.posMap.Get(e)
		body := g.bodyMap.Get(e)
		s.PowerUps = append(s.PowerUps, PowerUpView{
			DiskView: DiskView{X: pos.X, Y: pos.Y, Radius: body.Radius},
			Type:     g.powerUpMap.Get(e).Type,
		})
	}

	s.Leaderboard = append(s.Leaderboard[:0], s.Munchers...)
	SortLeaderboard(s.Leaderboard)
}

func (g *Game) appendDisks(dst []DiskView, kind components.Kind) []DiskView {
	for _, e := range g.pop.Entities(kind) {
		if g.pop.Removed(e) {
			continue
		}
		pos := g.posMap.Get(e)
		body := g.bodyMap.Get(e)
		dst = append(dst, DiskView{X: pos.X, Y: pos.Y, Radius: body.Radius})
	}
	return dst
}

// SortLeaderboard orders munchers by radius, largest first. Ties keep registry order.
func SortLeaderboard(ms []MuncherView) {
	sort.SliceStable(ms, func(i, j int) bool {
		return ms[i].Radius > ms[j].Radius
	})
}
