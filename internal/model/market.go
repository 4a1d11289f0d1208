package model

import "time"

// OHLCV represents a single daily bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PriceSeries holds the raw bars of one instrument.
type PriceSeries struct {
	Code      string
	Bars      []OHLCV
	FetchedAt time.Time
}

// PricePoint is a single closing price. Index is the position within the
// instrument's series, so pivots found in a sub-window still point back into it.
type PricePoint struct {
	Index int
	Time  time.Time
	Price float64
}

// ClosePoints converts bars into price points indexed by their position.
func ClosePoints(bars []OHLCV) []PricePoint {
	points := make([]PricePoint, len(bars))
	for i, b := range bars {
		points[i] = PricePoint{Index: i, Time: b.Time, Price: b.Close}
	}
	return points
}

// Prices extracts the raw price values.
func Prices(points []PricePoint) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Price
	}
	return out
}
