package main

import (
	"github.com/pthm-cable/munchers/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name    string  // CSV column and report name
	Path    string  // config path for logging
	Min     float64 // lower bound
	Max     float64 // upper bound
	Default float64
}

// ParamVector holds the set of tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the spawn-rate parameter set.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "spawn_foodlet", Path: "spawn.foodlet", Min: 0.001, Max: 0.1, Default: 0.01},
			{Name: "spawn_obstacle", Path: "spawn.obstacle", Min: 0.0002, Max: 0.02, Default: 0.002},
			{Name: "spawn_muncher", Path: "spawn.muncher", Min: 0.0005, Max: 0.05, Default: 0.005},
			{Name: "spawn_power_up", Path: "spawn.power_up", Min: 0.0003, Max: 0.03, Default: 0.003},
			{Name: "shoot_chance", Path: "muncher.shoot_chance", Min: 0, Max: 0.05, Default: 0.01},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// FromConfig reads the current parameter values out of cfg.
func (pv *ParamVector) FromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Spawn.Foodlet,
		cfg.Spawn.Obstacle,
		cfg.Spawn.Muncher,
		cfg.Spawn.PowerUp,
		cfg.Muncher.ShootChance,
	}
}

// Normalize maps raw values to [0,1].
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize maps [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp keeps every value within its bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = max(spec.Min, min(v[i], spec.Max))
	}
	return clamped
}

// ApplyToConfig writes clamped parameter values into cfg.
// Order must match Specs.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	v := pv.Clamp(values)

	cfg.Spawn.Foodlet = v[0]
	cfg.Spawn.Obstacle = v[1]
	cfg.Spawn.Muncher = v[2]
	cfg.Spawn.PowerUp = v[3]
	cfg.Muncher.ShootChance = v[4]

	cfg.ComputeDerived()
}
