package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a window of ticks.
type WindowStats struct {
	WindowStartTick int32 `csv:"-"`
	WindowEndTick   int32 `csv:"window_end"`
	Generation      int   `csv:"generation"`
	Age             int   `csv:"age"` // ticks into the generation at window end

	// Population counts at window end
	Birds int `csv:"birds"`
	Foods int `csv:"foods"`

	// Events during window
	FoodEaten int     `csv:"food_eaten"`
	EatRate   float64 `csv:"eat_rate"` // food eaten per tick

	// Satiation distribution (sampled at window end)
	SatiationMean float64 `csv:"satiation_mean"`
	SatiationP10  float64 `csv:"satiation_p10"`
	SatiationP50  float64 `csv:"satiation_p50"`
	SatiationP90  float64 `csv:"satiation_p90"`

	// Speed distribution (sampled at window end)
	SpeedMean float64 `csv:"speed_mean"`
	SpeedP10  float64 `csv:"speed_p10"`
	SpeedP90  float64 `csv:"speed_p90"`
}

// Percentile returns the p-th quantile of a sorted sample, interpolating
// linearly between order statistics. p is clamped to [0, 1]. Returns 0
// for an empty sample.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	return stat.Quantile(max(0, min(p, 1)), stat.LinInterp, sorted, nil)
}

// ComputeStats calculates mean and percentiles of a sample without
// reordering it.
func ComputeStats(values []float64) (mean, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	return stat.Mean(sorted, nil),
		Percentile(sorted, 0.10),
		Percentile(sorted, 0.50),
		Percentile(sorted, 0.90)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Int("generation", s.Generation),
		slog.Int("age", s.Age),
		slog.Int("birds", s.Birds),
		slog.Int("foods", s.Foods),
		slog.Int("food_eaten", s.FoodEaten),
		slog.Float64("eat_rate", s.EatRate),
		slog.Float64("satiation_mean", s.SatiationMean),
		slog.Float64("satiation_p10", s.SatiationP10),
		slog.Float64("satiation_p50", s.SatiationP50),
		slog.Float64("satiation_p90", s.SatiationP90),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_p10", s.SpeedP10),
		slog.Float64("speed_p90", s.SpeedP90),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"generation", s.Generation,
		"age", s.Age,
		"birds", s.Birds,
		"foods", s.Foods,
		"food_eaten", s.FoodEaten,
		"eat_rate", s.EatRate,
		"satiation_mean", s.SatiationMean,
		"satiation_p50", s.SatiationP50,
		"satiation_p90", s.SatiationP90,
		"speed_mean", s.SpeedMean,
	)
}

// GenerationStats is one row of generations.csv.
type GenerationStats struct {
	Generation int     `csv:"generation"`
	EndTick    int32   `csv:"end_tick"`
	Ticks      int     `csv:"ticks"`
	FoodEaten  int     `csv:"food_eaten"`
	Min        float64 `csv:"fitness_min"`
	Max        float64 `csv:"fitness_max"`
	Mean       float64 `csv:"fitness_mean"`
	StdDev     float64 `csv:"fitness_std"`
}

// LogValue implements slog.LogValuer for structured logging.
func (s GenerationStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("generation", s.Generation),
		slog.Int("end_tick", int(s.EndTick)),
		slog.Int("ticks", s.Ticks),
		slog.Int("food_eaten", s.FoodEaten),
		slog.Float64("min", s.Min),
		slog.Float64("max", s.Max),
		slog.Float64("mean", s.Mean),
		slog.Float64("std", s.StdDev),
	)
}
