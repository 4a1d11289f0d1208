package calculator

const (
	// ThresholdMultiplier scales the mean absolute return into a reversal threshold.
	ThresholdMultiplier = 2.0
	MinPctThreshold     = 1.0
	MaxPctThreshold     = 5.0

	// ToleranceRatio is the share of the window's price range treated as "equal".
	ToleranceRatio    = 0.02
	FallbackTolerance = 0.1
)

// Calibration holds the thresholds derived from a window's volatility.
type Calibration struct {
	AvgAbsReturnPct float64
	PctThreshold    float64
	PriceRange      float64
	Tolerance       float64
}

// Calibrate derives the zigzag reversal threshold (percent, clamped to [1, 5])
// and the classifier tolerance band (2% of the price range, 0.1 when flat).
func Calibrate(prices []float64) (Calibration, error) {
	returns, err := Returns(prices)
	if err != nil {
		return Calibration{}, err
	}
	avg, err := MeanAbsReturnPct(returns)
	if err != nil {
		return Calibration{}, err
	}

	high, low, err := PriceRange(prices)
	if err != nil {
		return Calibration{}, err
	}
	priceRange := high - low

	c := Calibration{
		AvgAbsReturnPct: avg,
		PctThreshold:    clamp(avg*ThresholdMultiplier, MinPctThreshold, MaxPctThreshold),
		PriceRange:      priceRange,
		Tolerance:       FallbackTolerance,
	}
	if priceRange > 0 {
		c.Tolerance = priceRange * ToleranceRatio
	}
	return c, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
