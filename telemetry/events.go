// Package telemetry provides arena statistics, per-muncher lifetime tracking and CSV output.
package telemetry

import "github.com/pthm-cable/munchers/components"

// EventType identifies telemetry events.
type EventType uint8

const (
	EventSpawn EventType = iota
	EventFoodEaten
	EventObstacleHit
	EventMuncherEaten
	EventShot
	EventProjectileHit
	EventPowerUp
	EventPowerUpExpired
	EventExhausted
)

var eventNames = [...]string{
	EventSpawn:          "spawn",
	EventFoodEaten:      "food_eaten",
	EventObstacleHit:    "obstacle_hit",
	EventMuncherEaten:   "muncher_eaten",
	EventShot:           "shot",
	EventProjectileHit:  "projectile_hit",
	EventPowerUp:        "power_up",
	EventPowerUpExpired: "power_up_expired",
	EventExhausted:      "exhausted",
}

func (t EventType) String() string {
	if int(t) < len(eventNames) {
		return eventNames[t]
	}
	return "unknown"
}

// Event represents a single simulation event.
type Event struct {
	Type     EventType
	Tick     int32
	EntityID uint32 // acting muncher; 0 for non-muncher spawns
	Kind     components.Kind

	// Optional fields depending on event type
	TargetID uint32  // muncher that was eaten or hit
	Amount   float32 // radius gained
}

// NewSpawnEvent creates a spawn event. id is 0 for anything but munchers.
func NewSpawnEvent(tick int32, id uint32, kind components.Kind) Event {
	return Event{Type: EventSpawn, Tick: tick, EntityID: id, Kind: kind}
}

// NewFoodEatenEvent creates a foodlet consumption event.
func NewFoodEatenEvent(tick int32, id uint32, growth float32) Event {
	return Event{Type: EventFoodEaten, Tick: tick, EntityID: id, Kind: components.KindFoodlet, Amount: growth}
}

// NewObstacleHitEvent creates an obstacle collision event.
func NewObstacleHitEvent(tick int32, id uint32) Event {
	return Event{Type: EventObstacleHit, Tick: tick, EntityID: id, Kind: components.KindObstacle}
}

// NewMuncherEatenEvent creates an event for eaterID absorbing eatenID.
func NewMuncherEatenEvent(tick int32, eaterID, eatenID uint32, growth float32) Event {
	return Event{
		Type:     EventMuncherEaten,
		Tick:     tick,
		EntityID: eaterID,
		Kind:     components.KindMuncher,
		TargetID: eatenID,
		Amount:   growth,
	}
}

// NewShotEvent creates a projectile firing event.
func NewShotEvent(tick int32, shooterID uint32) Event {
	return Event{Type: EventShot, Tick: tick, EntityID: shooterID, Kind: components.KindProjectile}
}

// NewProjectileHitEvent creates an event for a projectile that shrank its target.
func NewProjectileHitEvent(tick int32, shooterID, targetID uint32) Event {
	return Event{
		Type:     EventProjectileHit,
		Tick:     tick,
		EntityID: shooterID,
		Kind:     components.KindProjectile,
		TargetID: targetID,
	}
}

// NewPowerUpEvent creates a power-up collection event.
func NewPowerUpEvent(tick int32, id uint32) Event {
	return Event{Type: EventPowerUp, Tick: tick, EntityID: id, Kind: components.KindPowerUp}
}

// NewPowerUpExpiredEvent creates a power-up expiry event.
func NewPowerUpExpiredEvent(tick int32, id uint32) Event {
	return Event{Type: EventPowerUpExpired, Tick: tick, EntityID: id, Kind: components.KindPowerUp}
}

// NewExhaustedEvent creates an event for a muncher whose health ran out.
func NewExhaustedEvent(tick int32, id uint32) Event {
	return Event{Type: EventExhausted, Tick: tick, EntityID: id, Kind: components.KindMuncher}
}
