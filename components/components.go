// Package components defines ECS components for the simulation.
package components

import "github.com/mlange-42/ark/ecs"

// Kind identifies which population an entity belongs to.
type Kind uint8

const (
	KindMuncher Kind = iota
	KindProjectile
	KindFoodlet
	KindObstacle
	KindPowerUp

	NumKinds int = iota
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindMuncher:
		return "muncher"
	case KindProjectile:
		return "projectile"
	case KindFoodlet:
		return "foodlet"
	case KindObstacle:
		return "obstacle"
	case KindPowerUp:
		return "power_up"
	}
	return "unknown"
}

// Muncher holds the state of a mobile agent.
type Muncher struct {
	ID           uint32
	Name         string
	Health       float32
	Invincible   bool
	SpeedBoosted bool
	Age          float32
	EffectExpiry int32 // tick at which the active power-up reverts; meaningful while SpeedBoosted
	Player       bool
}

// Projectile is a rectangle fired by a muncher. Position is its top-left corner.
type Projectile struct {
	Width, Height float32

	// Shooter is compared by identity only; it may refer to a muncher that no longer exists.
	Shooter   ecs.Entity
	ShooterID uint32
}

// Foodlet grows the muncher that touches it.
type Foodlet struct {
	Growth float32
}

// Obstacle shrinks the muncher that touches it.
type Obstacle struct{}

// PowerUpType enumerates power-up effects.
type PowerUpType uint8

const (
	PowerUpInvincibility PowerUpType = iota
)

// String returns the power-up type name.
func (t PowerUpType) String() string {
	switch t {
	case PowerUpInvincibility:
		return "invincibility"
	}
	return "unknown"
}

// PowerUp grants a temporary effect to the muncher that collects it.
type PowerUp struct {
	Type PowerUpType
}
