package telemetry

import "github.com/pthm-cable/munchers/components"

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationTicks int32
	dt                  float32

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	spawns         [components.NumKinds]int
	foodEaten      int
	obstacleHits   int
	munchersEaten  int
	shots          int
	projectileHits int
	powerUps       int
	exhausted      int
}

// NewCollector creates a new stats collector.
// windowTicks is the window length in ticks; dt converts ticks to simulation seconds.
func NewCollector(windowTicks int32, dt float32) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{
		windowDurationTicks: windowTicks,
		dt:                  dt,
	}
}

// Record counts a single event into the current window.
func (c *Collector) Record(ev Event) {
	switch ev.Type {
	case EventSpawn:
		if int(ev.Kind) < len(c.spawns) {
			c.spawns[ev.Kind]++
		}
	case EventFoodEaten:
		c.foodEaten++
	case EventObstacleHit:
		c.obstacleHits++
	case EventMuncherEaten:
		c.munchersEaten++
	case EventShot:
		c.shots++
	case EventProjectileHit:
		c.projectileHits++
	case EventPowerUp:
		c.powerUps++
	case EventExhausted:
		c.exhausted++
	}
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
// counts holds the live population per kind; radii and healths are sampled from live munchers.
func (c *Collector) Flush(currentTick int32, counts [components.NumKinds]int, radii, healths []float64) WindowStats {
	var hitRate float64
	if c.shots > 0 {
		hitRate = float64(c.projectileHits) / float64(c.shots)
	}

	radius := ComputeDistribution(radii)
	health := ComputeDistribution(healths)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * float64(c.dt),

		Munchers:    counts[components.KindMuncher],
		Projectiles: counts[components.KindProjectile],
		Foodlets:    counts[components.KindFoodlet],
		Obstacles:   counts[components.KindObstacle],
		PowerUps:    counts[components.KindPowerUp],

		MuncherSpawns:  c.spawns[components.KindMuncher],
		FoodletSpawns:  c.spawns[components.KindFoodlet],
		ObstacleSpawns: c.spawns[components.KindObstacle],
		PowerUpSpawns:  c.spawns[components.KindPowerUp],

		FoodEaten:      c.foodEaten,
		ObstacleHits:   c.obstacleHits,
		MunchersEaten:  c.munchersEaten,
		Shots:          c.shots,
		ProjectileHits: c.projectileHits,
		HitRate:        hitRate,
		PowerUpsTaken:  c.powerUps,
		Exhausted:      c.exhausted,

		RadiusMean: radius.Mean,
		RadiusStd:  radius.Std,
		RadiusP10:  radius.P10,
		RadiusP50:  radius.P50,
		RadiusP90:  radius.P90,
		RadiusMax:  radius.Max,

		HealthMean: health.Mean,
		HealthP50:  health.P50,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.spawns = [components.NumKinds]int{}
	c.foodEaten = 0
	c.obstacleHits = 0
	c.munchersEaten = 0
	c.shots = 0
	c.projectileHits = 0
	c.powerUps = 0
	c.exhausted = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
