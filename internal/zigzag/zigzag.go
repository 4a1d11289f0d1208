// Package zigzag extracts alternating high/low pivots from a closing-price
// series using a percentage reversal threshold.
package zigzag

import (
	"errors"
	"fmt"

	"TrendLabeler/internal/calculator"
	"TrendLabeler/internal/model"
)

var ErrInvalidThreshold = errors.New("reversal threshold must be positive")

// State is the direction the tracker is waiting for.
type State int

const (
	// SeekingHigh: the provisional extremum is a low.
	SeekingHigh State = iota
	// SeekingLow: the provisional extremum is a high.
	SeekingLow
)

func (s State) String() string {
	if s == SeekingLow {
		return "SeekingLow"
	}
	return "SeekingHigh"
}

// Tracker is the zigzag automaton. Confirmed pivots are only appended once
// price has reversed by the threshold; until then the running extremum of the
// current leg is kept as a provisional pivot and replaced as the leg extends.
type Tracker struct {
	threshold   float64
	state       State
	confirmed   []model.Pivot
	provisional model.Pivot
	started     bool
}

// NewTracker creates a tracker for the given reversal threshold in percent.
func NewTracker(pctThreshold float64) (*Tracker, error) {
	if !(pctThreshold > 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidThreshold, pctThreshold)
	}
	return &Tracker{threshold: pctThreshold, state: SeekingHigh}, nil
}

// State returns the current automaton state.
func (t *Tracker) State() State { return t.state }

// Push feeds the next point. Points must arrive in chronological order.
func (t *Tracker) Push(p model.PricePoint) error {
	if err := calculator.ValidatePrice(p.Price); err != nil {
		return err
	}
	if !t.started {
		t.provisional = pivotAt(p, model.PivotLow)
		t.state = SeekingHigh
		t.started = true
		return nil
	}

	base := t.provisional.Price
	if base == 0 {
		return fmt.Errorf("%w at index %d", calculator.ErrZeroPrice, t.provisional.Index)
	}
	changePct := (p.Price - base) / base * 100

	switch t.state {
	case SeekingHigh:
		if changePct >= t.threshold {
			t.confirm(pivotAt(p, model.PivotHigh), SeekingLow)
		} else if p.Price < base {
			t.provisional = pivotAt(p, model.PivotLow)
		}
	case SeekingLow:
		if changePct <= -t.threshold {
			t.confirm(pivotAt(p, model.PivotLow), SeekingHigh)
		} else if p.Price > base {
			t.provisional = pivotAt(p, model.PivotHigh)
		}
	}
	return nil
}

func (t *Tracker) confirm(next model.Pivot, state State) {
	t.confirmed = append(t.confirmed, t.provisional)
	t.provisional = next
	t.state = state
}

// Confirmed returns only the pivots that price has already reversed from.
func (t *Tracker) Confirmed() []model.Pivot {
	out := make([]model.Pivot, len(t.confirmed))
	copy(out, t.confirmed)
	return out
}

// Pivots returns the confirmed pivots followed by the provisional extremum of
// the current leg. Empty until the first point is pushed.
func (t *Tracker) Pivots() []model.Pivot {
	if !t.started {
		return []model.Pivot{}
	}
	out := make([]model.Pivot, 0, len(t.confirmed)+1)
	out = append(out, t.confirmed...)
	return append(out, t.provisional)
}

// Extract runs a fresh tracker over points.
func Extract(points []model.PricePoint, pctThreshold float64) ([]model.Pivot, error) {
	tr, err := NewTracker(pctThreshold)
	if err != nil {
		return nil, err
	}
	for _, p := range points {
		if err := tr.Push(p); err != nil {
			return nil, err
		}
	}
	return tr.Pivots(), nil
}

func pivotAt(p model.PricePoint, typ model.PivotType) model.Pivot {
	return model.Pivot{Index: p.Index, Time: p.Time, Price: p.Price, Type: typ}
}
