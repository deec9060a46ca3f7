package telemetry

// Collector accumulates events within tick windows and produces WindowStats.
type Collector struct {
	windowDurationTicks int32

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	foodEaten int
}

// NewCollector creates a new stats collector that flushes every
// windowTicks ticks.
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowDurationTicks: int32(windowTicks)}
}

// RecordEaten records food eaten during a tick.
func (c *Collector) RecordEaten(n int) {
	c.foodEaten += n
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Sample is the population state the caller reads at window end.
type Sample struct {
	Generation int
	Age        int
	Foods      int
	Satiation  []float64 // one value per bird
	Speeds     []float64 // one value per bird
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, s Sample) WindowStats {
	var eatRate float64
	if ticks := currentTick - c.windowStartTick; ticks > 0 {
		eatRate = float64(c.foodEaten) / float64(ticks)
	}

	satMean, satP10, satP50, satP90 := ComputeStats(s.Satiation)
	speedMean, speedP10, _, speedP90 := ComputeStats(s.Speeds)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		Generation:      s.Generation,
		Age:             s.Age,

		Birds: len(s.Satiation),
		Foods: s.Foods,

		FoodEaten: c.foodEaten,
		EatRate:   eatRate,

		SatiationMean: satMean,
		SatiationP10:  satP10,
		SatiationP50:  satP50,
		SatiationP90:  satP90,

		SpeedMean: speedMean,
		SpeedP10:  speedP10,
		SpeedP90:  speedP90,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.foodEaten = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
