package calculator

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInsufficientData = errors.New("insufficient data")
	ErrZeroPrice        = errors.New("zero base price")
	ErrInvalidPrice     = errors.New("invalid price")
)

// ValidatePrice rejects NaN, infinite and negative prices.
func ValidatePrice(p float64) error {
	if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidPrice, p)
	}
	return nil
}

// Returns computes the per-step simple returns r_i = (p_i - p_{i-1}) / p_{i-1}.
// A zero base price is reported instead of producing Inf/NaN.
func Returns(prices []float64) ([]float64, error) {
	if len(prices) < 2 {
		return nil, ErrInsufficientData
	}
	for _, p := range prices {
		if err := ValidatePrice(p); err != nil {
			return nil, err
		}
	}
	out := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		base := prices[i-1]
		if base == 0 {
			return nil, fmt.Errorf("%w at position %d", ErrZeroPrice, i-1)
		}
		out[i-1] = (prices[i] - base) / base
	}
	return out, nil
}

// MeanAbsReturnPct returns mean(|r|) * 100.
func MeanAbsReturnPct(returns []float64) (float64, error) {
	if len(returns) == 0 {
		return 0, ErrInsufficientData
	}
	sum := 0.0
	for _, r := range returns {
		sum += math.Abs(r)
	}
	return sum / float64(len(returns)) * 100, nil
}
