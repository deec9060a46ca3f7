// Package main provides CMA-ES optimization of the eye and mutation
// parameters that make birds learn to forage fastest.
package main

import (
	"github.com/pthm-cable/aviary/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value

	get func(*config.Config) float64
	set func(*config.Config, float64)
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Eye
			{
				Name: "fov_range", Path: "eye.fov_range", Min: 0.05, Max: 0.6, Default: 0.25,
				get: func(c *config.Config) float64 { return c.Eye.FOVRange },
				set: func(c *config.Config, v float64) { c.Eye.FOVRange = v },
			},
			{
				Name: "fov_angle", Path: "eye.fov_angle", Min: 0.5, Max: 6.28, Default: 3.927,
				get: func(c *config.Config) float64 { return c.Eye.FOVAngle },
				set: func(c *config.Config, v float64) { c.Eye.FOVAngle = v },
			},
			// Mutation
			{
				Name: "mutation_chance", Path: "evolution.mutation_chance", Min: 0.001, Max: 0.2, Default: 0.01,
				get: func(c *config.Config) float64 { return c.Evolution.MutationChance },
				set: func(c *config.Config, v float64) { c.Evolution.MutationChance = v },
			},
			{
				Name: "mutation_coeff", Path: "evolution.mutation_coeff", Min: 0.02, Max: 1.0, Default: 0.3,
				get: func(c *config.Config) float64 { return c.Evolution.MutationCoeff },
				set: func(c *config.Config, v float64) { c.Evolution.MutationCoeff = v },
			},
			// Steering
			{
				Name: "rotation_accel", Path: "bird.rotation_accel", Min: 0.1, Max: 3.14, Default: 1.5708,
				get: func(c *config.Config) float64 { return c.Bird.RotationAccel },
				set: func(c *config.Config, v float64) { c.Bird.RotationAccel = v },
			},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig writes clamped parameter values into cfg and refreshes
// its derived values.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	for i, v := range pv.Clamp(values) {
		pv.Specs[i].set(cfg, v)
	}
	cfg.ComputeDerived()
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.get(cfg)
	}
	return v
}
