package systems

import (
	"github.com/pthm-cable/munchers/components"
	"github.com/pthm-cable/munchers/config"
)

// Rules caches the config values used on the per-tick hot path.
type Rules struct {
	ArenaW, ArenaH  float32
	ContactTol      float32
	ShrinkFloor     float32
	ShrinkStep      float32
	ShrinkHealth    float32
	AgePerTick      float32
	SpeedMultiplier float32
	PowerUpTicks    int32
	ProjectileW     float32
	ProjectileH     float32
	ProjectileSpeed float32
	PlayerSpeed     float32
	FoodletGrowth   float32
	MaxPickupRadius float32
	InitialHealth   float32
}

// RulesFromConfig extracts Rules from a loaded config.
func RulesFromConfig(cfg *config.Config) Rules {
	return Rules{
		ArenaW:          cfg.Derived.ArenaW32,
		ArenaH:          cfg.Derived.ArenaH32,
		ContactTol:      cfg.Derived.ContactTol32,
		ShrinkFloor:     float32(cfg.Muncher.ShrinkFloor),
		ShrinkStep:      float32(cfg.Muncher.ShrinkStep),
		ShrinkHealth:    float32(cfg.Muncher.ShrinkHealth),
		AgePerTick:      float32(cfg.Muncher.AgePerTick),
		SpeedMultiplier: float32(cfg.PowerUp.SpeedMultiplier),
		PowerUpTicks:    cfg.Derived.PowerUpTicks,
		ProjectileW:     float32(cfg.Projectile.Width),
		ProjectileH:     float32(cfg.Projectile.Height),
		ProjectileSpeed: float32(cfg.Projectile.Speed),
		PlayerSpeed:     float32(cfg.Muncher.PlayerSpeed),
		FoodletGrowth:   float32(cfg.Foodlet.Growth),
		MaxPickupRadius: cfg.Derived.MaxPickupR32,
		InitialHealth:   float32(cfg.Muncher.InitialHealth),
	}
}

// AdvanceMuncher moves a muncher one tick, bounces it off the arena walls and ages it.
func AdvanceMuncher(pos *components.Position, vel *components.Velocity, body *components.Body, m *components.Muncher, r *Rules) {
	pos.X += vel.X
	pos.Y += vel.Y
	vel.X, vel.Y = Bounce(Circle{X: pos.X, Y: pos.Y, R: body.Radius}, vel.X, vel.Y, r.ArenaW, r.ArenaH)
	m.Age += r.AgePerTick
}

// AdvanceProjectile moves a projectile one tick.
func AdvanceProjectile(pos *components.Position, vel *components.Velocity) {
	pos.X += vel.X
	pos.Y += vel.Y
}

// Grow adds amount to radius and health, then pulls the disk back inside the arena.
func Grow(pos *components.Position, body *components.Body, m *components.Muncher, amount float32, r *Rules) {
	body.Radius += amount
	m.Health += amount
	pos.X, pos.Y = ContainDisk(pos.X, pos.Y, body.Radius, r.ArenaW, r.ArenaH)
}

// Shrink reduces radius and health by one step if the radius is above the floor.
// Returns whether the muncher actually shrank.
func Shrink(body *components.Body, m *components.Muncher, r *Rules) bool {
	if body.Radius <= r.ShrinkFloor {
		return false
	}
	body.Radius -= r.ShrinkStep
	if body.Radius < r.ShrinkFloor {
		body.Radius = r.ShrinkFloor
	}
	m.Health -= r.ShrinkHealth
	return true
}

// LoseHealth subtracts amount from health unless the muncher is invincible.
// Returns whether health is now exhausted.
func LoseHealth(m *components.Muncher, amount float32) bool {
	if !m.Invincible {
		m.Health -= amount
	}
	return m.Health <= 0
}

// ActivatePowerUp applies a power-up effect starting at tick now.
// Collecting invincibility while already boosted only extends the expiry.
func ActivatePowerUp(vel *components.Velocity, m *components.Muncher, t components.PowerUpType, now int32, r *Rules) {
	switch t {
	case components.PowerUpInvincibility:
		if !m.SpeedBoosted {
			vel.X *= r.SpeedMultiplier
			vel.Y *= r.SpeedMultiplier
		}
		m.Invincible = true
		m.SpeedBoosted = true
		m.EffectExpiry = now + r.PowerUpTicks
	}
}

// ExpireEffects reverts an active power-up whose expiry tick has been reached.
// Returns whether an effect ended.
func ExpireEffects(vel *components.Velocity, m *components.Muncher, now int32, r *Rules) bool {
	if !m.SpeedBoosted || now < m.EffectExpiry {
		return false
	}
	m.Invincible = false
	m.SpeedBoosted = false
	vel.X /= r.SpeedMultiplier
	vel.Y /= r.SpeedMultiplier
	return true
}
