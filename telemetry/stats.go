package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population counts at window end
	Munchers    int `csv:"munchers"`
	Projectiles int `csv:"projectiles"`
	Foodlets    int `csv:"foodlets"`
	Obstacles   int `csv:"obstacles"`
	PowerUps    int `csv:"power_ups"`

	// Arrivals during window
	MuncherSpawns  int `csv:"muncher_spawns"`
	FoodletSpawns  int `csv:"foodlet_spawns"`
	ObstacleSpawns int `csv:"obstacle_spawns"`
	PowerUpSpawns  int `csv:"power_up_spawns"`

	// Interactions during window
	FoodEaten      int     `csv:"food_eaten"`
	ObstacleHits   int     `csv:"obstacle_hits"`
	MunchersEaten  int     `csv:"munchers_eaten"`
	Shots          int     `csv:"shots"`
	ProjectileHits int     `csv:"projectile_hits"`
	HitRate        float64 `csv:"hit_rate"`
	PowerUpsTaken  int     `csv:"power_ups_taken"`
	Exhausted      int     `csv:"exhausted"`

	// Size distribution (sampled at window end)
	RadiusMean float64 `csv:"radius_mean"`
	RadiusStd  float64 `csv:"radius_std"`
	RadiusP10  float64 `csv:"radius_p10"`
	RadiusP50  float64 `csv:"radius_p50"`
	RadiusP90  float64 `csv:"radius_p90"`
	RadiusMax  float64 `csv:"radius_max"`

	HealthMean float64 `csv:"health_mean"`
	HealthP50  float64 `csv:"health_p50"`
}

// Distribution summarizes a sample of values.
type Distribution struct {
	Mean, Std     float64
	P10, P50, P90 float64
	Max           float64
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeDistribution calculates mean, std, percentiles and max of values.
// Std is the sample standard deviation and is 0 for fewer than two values.
func ComputeDistribution(values []float64) Distribution {
	n := len(values)
	if n == 0 {
		return Distribution{}
	}

	var d Distribution
	if n == 1 {
		d.Mean = values[0]
	} else {
		d.Mean, d.Std = stat.MeanStdDev(values, nil)
	}
	d.Max = floats.Max(values)

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	d.P10 = Percentile(sorted, 0.10)
	d.P50 = Percentile(sorted, 0.50)
	d.P90 = Percentile(sorted, 0.90)
	return d
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("munchers", s.Munchers),
		slog.Int("projectiles", s.Projectiles),
		slog.Int("foodlets", s.Foodlets),
		slog.Int("obstacles", s.Obstacles),
		slog.Int("power_ups", s.PowerUps),
		slog.Int("muncher_spawns", s.MuncherSpawns),
		slog.Int("food_eaten", s.FoodEaten),
		slog.Int("obstacle_hits", s.ObstacleHits),
		slog.Int("munchers_eaten", s.MunchersEaten),
		slog.Int("shots", s.Shots),
		slog.Int("projectile_hits", s.ProjectileHits),
		slog.Float64("hit_rate", s.HitRate),
		slog.Int("power_ups_taken", s.PowerUpsTaken),
		slog.Int("exhausted", s.Exhausted),
		slog.Float64("radius_mean", s.RadiusMean),
		slog.Float64("radius_p50", s.RadiusP50),
		slog.Float64("radius_p90", s.RadiusP90),
		slog.Float64("radius_max", s.RadiusMax),
		slog.Float64("health_mean", s.HealthMean),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
