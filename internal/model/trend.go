package model

import "fmt"

// Trend is the classification of a price window. Its integer value is the
// training label.
type Trend int

const (
	Downtrend Trend = iota
	Sideways
	Uptrend
)

// Label returns the integer class label.
func (t Trend) Label() int { return int(t) }

func (t Trend) String() string {
	switch t {
	case Downtrend:
		return "Downtrend"
	case Sideways:
		return "Sideways"
	case Uptrend:
		return "Uptrend"
	default:
		return fmt.Sprintf("Trend(%d)", int(t))
	}
}

// Valid reports whether t is one of the three known trends.
func (t Trend) Valid() bool {
	return t >= Downtrend && t <= Uptrend
}

// TrendFromLabel maps a class label back to its trend.
func TrendFromLabel(label int) (Trend, error) {
	t := Trend(label)
	if !t.Valid() {
		return Sideways, fmt.Errorf("unknown trend label %d", label)
	}
	return t, nil
}

// AllTrends lists the trends in label order.
var AllTrends = []Trend{Downtrend, Sideways, Uptrend}
