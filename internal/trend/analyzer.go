// Package trend labels a price window as up, sideways or down from its
// zigzag pivots.
package trend

import (
	"errors"

	"github.com/rs/zerolog/log"

	"TrendLabeler/internal/calculator"
	"TrendLabeler/internal/model"
	"TrendLabeler/internal/zigzag"
)

// Status tells a real classification apart from a neutral fallback.
type Status int

const (
	StatusClassified Status = iota
	StatusInsufficientData
	StatusComputationError
)

func (s Status) String() string {
	switch s {
	case StatusClassified:
		return "classified"
	case StatusInsufficientData:
		return "insufficient_data"
	case StatusComputationError:
		return "computation_error"
	default:
		return "unknown"
	}
}

// Analysis is the outcome of Analyze. Trend is Sideways and Pivots is empty
// unless Status is StatusClassified.
type Analysis struct {
	Status      Status
	Trend       model.Trend
	Pivots      []model.Pivot
	Calibration calculator.Calibration
	Err         error
}

// Classified reports whether the trend came from an actual pivot judgment.
func (a Analysis) Classified() bool { return a.Status == StatusClassified }

// Analyze calibrates thresholds from the window itself, extracts pivots and
// classifies them. It is a pure function of points.
func Analyze(points []model.PricePoint) Analysis {
	if len(points) < 2 {
		return neutral(StatusInsufficientData, calculator.ErrInsufficientData)
	}

	cal, err := calculator.Calibrate(model.Prices(points))
	if err != nil {
		if errors.Is(err, calculator.ErrInsufficientData) {
			return neutral(StatusInsufficientData, err)
		}
		return neutral(StatusComputationError, err)
	}
	log.Debug().
		Float64("pct_threshold", cal.PctThreshold).
		Float64("tolerance", cal.Tolerance).
		Msg("calibrated")

	pivots, err := zigzag.Extract(points, cal.PctThreshold)
	if err != nil {
		return neutral(StatusComputationError, err)
	}

	return Analysis{
		Status:      StatusClassified,
		Trend:       Classify(pivots, cal.Tolerance),
		Pivots:      pivots,
		Calibration: cal,
	}
}

func neutral(status Status, err error) Analysis {
	return Analysis{
		Status: status,
		Trend:  model.Sideways,
		Pivots: []model.Pivot{},
		Err:    err,
	}
}
