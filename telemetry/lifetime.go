package telemetry

import "log/slog"

// Removal causes recorded in lifetime stats.
const (
	CauseEaten     = "eaten"
	CauseExhausted = "exhausted"
	CauseSession   = "session_end"
	CauseRemoved   = "removed" // taken out by a caller
)

// LifetimeStats tracks per-muncher statistics over its lifetime.
type LifetimeStats struct {
	ID              uint32  `csv:"id"`
	Name            string  `csv:"name"`
	Player          bool    `csv:"player"`
	BirthTick       int32   `csv:"birth_tick"`
	DeathTick       int32   `csv:"death_tick"`
	SurvivalTimeSec float32 `csv:"survival_sec"`
	Cause           string  `csv:"cause"`

	FoodEaten     int `csv:"food_eaten"`
	ObstaclesHit  int `csv:"obstacles_hit"`
	MunchersEaten int `csv:"munchers_eaten"`
	Shots         int `csv:"shots"`
	Hits          int `csv:"hits"`
	TimesHit      int `csv:"times_hit"`
	PowerUps      int `csv:"power_ups"`

	PeakRadius  float32 `csv:"peak_radius"`
	FinalRadius float32 `csv:"final_radius"`
	Age         float32 `csv:"age"`
}

// LogValue implements slog.LogValuer for structured logging.
func (s *LifetimeStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("id", int(s.ID)),
		slog.String("name", s.Name),
		slog.Bool("player", s.Player),
		slog.String("cause", s.Cause),
		slog.Float64("survival_sec", float64(s.SurvivalTimeSec)),
		slog.Int("food_eaten", s.FoodEaten),
		slog.Int("munchers_eaten", s.MunchersEaten),
		slog.Int("shots", s.Shots),
		slog.Int("hits", s.Hits),
		slog.Float64("peak_radius", float64(s.PeakRadius)),
	)
}

// LifetimeTracker manages per-muncher lifetime statistics.
type LifetimeTracker struct {
	stats map[uint32]*LifetimeStats
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{
		stats: make(map[uint32]*LifetimeStats),
	}
}

// Register creates lifetime stats for a new muncher.
func (lt *LifetimeTracker) Register(id uint32, name string, player bool, birthTick int32, radius float32) {
	lt.stats[id] = &LifetimeStats{
		ID:         id,
		Name:       name,
		Player:     player,
		BirthTick:  birthTick,
		PeakRadius: radius,
	}
}

// Get returns the lifetime stats for a muncher, or nil if not found.
func (lt *LifetimeTracker) Get(id uint32) *LifetimeStats {
	return lt.stats[id]
}

// Record attributes an event to the munchers it involves.
func (lt *LifetimeTracker) Record(ev Event) {
	s := lt.stats[ev.EntityID]
	switch ev.Type {
	case EventFoodEaten:
		if s != nil {
			s.FoodEaten++
		}
	case EventObstacleHit:
		if s != nil {
			s.ObstaclesHit++
		}
	case EventMuncherEaten:
		if s != nil {
			s.MunchersEaten++
		}
	case EventShot:
		if s != nil {
			s.Shots++
		}
	case EventProjectileHit:
		if s != nil {
			s.Hits++
		}
		if t := lt.stats[ev.TargetID]; t != nil {
			t.TimesHit++
		}
	case EventPowerUp:
		if s != nil {
			s.PowerUps++
		}
	}
}

// UpdateRadius tracks peak radius.
func (lt *LifetimeTracker) UpdateRadius(id uint32, radius float32) {
	if s := lt.stats[id]; s != nil && radius > s.PeakRadius {
		s.PeakRadius = radius
	}
}

// Remove finalizes a muncher's stats and stops tracking it.
// Returns nil if the muncher was never registered.
func (lt *LifetimeTracker) Remove(id uint32, tick int32, dt float32, radius, age float32, cause string) *LifetimeStats {
	s := lt.stats[id]
	if s == nil {
		return nil
	}
	delete(lt.stats, id)

	s.DeathTick = tick
	s.SurvivalTimeSec = float32(tick-s.BirthTick) * dt
	s.Cause = cause
	s.FinalRadius = radius
	s.Age = age
	if radius > s.PeakRadius {
		s.PeakRadius = radius
	}
	return s
}

// Count returns the number of tracked munchers.
func (lt *LifetimeTracker) Count() int {
	return len(lt.stats)
}
