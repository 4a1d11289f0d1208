package trend

import (
	"sort"

	"TrendLabeler/internal/model"
)

// MinPivots is the minimum pivot count for a non-neutral verdict.
const MinPivots = 4

// Classify judges the trend from the last two highs and the last two lows.
// Highs may stay level within tolerance for an uptrend, but lows must rise
// beyond it; a downtrend needs both to fall beyond tolerance. Anything else,
// including too few pivots, is Sideways.
func Classify(pivots []model.Pivot, tolerance float64) model.Trend {
	if len(pivots) < MinPivots {
		return model.Sideways
	}

	var highs, lows []model.Pivot
	for _, p := range pivots {
		switch p.Type {
		case model.PivotHigh:
			highs = append(highs, p)
		case model.PivotLow:
			lows = append(lows, p)
		}
	}
	if len(highs) < 2 || len(lows) < 2 {
		return model.Sideways
	}

	sort.SliceStable(highs, func(i, j int) bool { return highs[i].Index < highs[j].Index })
	sort.SliceStable(lows, func(i, j int) bool { return lows[i].Index < lows[j].Index })

	h1, h2 := highs[len(highs)-2].Price, highs[len(highs)-1].Price
	l1, l2 := lows[len(lows)-2].Price, lows[len(lows)-1].Price

	switch {
	case h2 >= h1-tolerance && l2 > l1+tolerance:
		return model.Uptrend
	case h1 > h2+tolerance && l1 > l2+tolerance:
		return model.Downtrend
	default:
		return model.Sideways
	}
}
