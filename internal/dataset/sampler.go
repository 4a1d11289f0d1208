// Package dataset turns per-instrument price series into labeled samples and
// splits them into training and validation sets.
package dataset

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"go.uber.org/multierr"

	"TrendLabeler/internal/model"
	"TrendLabeler/internal/trend"
)

// DefaultStep is the distance between consecutive window starts.
const DefaultStep = 5

var (
	ErrSeriesTooShort = errors.New("series shorter than input+output window")
	ErrInvalidWindow  = errors.New("invalid window configuration")
)

// OnError decides what happens to a window whose trend analysis failed.
type OnError string

const (
	// OnErrorSkip drops the window.
	OnErrorSkip OnError = "skip"
	// OnErrorNeutral keeps the window labeled Sideways.
	OnErrorNeutral OnError = "neutral"
)

// Sampler slides an input/output window pair over a price series.
type Sampler struct {
	InputWindow  int
	OutputWindow int
	Step         int
	OnError      OnError
	// Workers bounds how many instruments SampleAll processes at once.
	Workers int
}

// NewSampler returns a sampler with the default step and skip policy.
func NewSampler(inputWindow, outputWindow int) *Sampler {
	return &Sampler{
		InputWindow:  inputWindow,
		OutputWindow: outputWindow,
		Step:         DefaultStep,
		OnError:      OnErrorSkip,
		Workers:      1,
	}
}

// Validate checks the window parameters.
func (s *Sampler) Validate() error {
	if s.InputWindow <= 0 || s.OutputWindow <= 0 {
		return fmt.Errorf("%w: input=%d output=%d", ErrInvalidWindow, s.InputWindow, s.OutputWindow)
	}
	if s.Step <= 0 {
		return fmt.Errorf("%w: step=%d", ErrInvalidWindow, s.Step)
	}
	switch s.OnError {
	case OnErrorSkip, OnErrorNeutral:
	default:
		return fmt.Errorf("%w: on_error=%q", ErrInvalidWindow, s.OnError)
	}
	return nil
}

// Sample emits one labeled sample per window start i = 0, step, 2*step, ...
// while i+input+output <= len(series). The series must be in chronological order.
func (s *Sampler) Sample(code string, series []model.PricePoint) ([]model.Sample, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	need := s.InputWindow + s.OutputWindow
	if len(series) < need {
		log.Warn().Str("code", code).Int("len", len(series)).Int("need", need).Msg("series too short, skipped")
		return nil, fmt.Errorf("%s: %w (%d < %d)", code, ErrSeriesTooShort, len(series), need)
	}

	samples := make([]model.Sample, 0, (len(series)-need)/s.Step+1)
	for i := 0; i+need <= len(series); i += s.Step {
		input := series[i : i+s.InputWindow]
		output := series[i+s.InputWindow : i+need]
		if len(output) < s.OutputWindow {
			continue
		}

		a := trend.Analyze(output)
		if a.Status == trend.StatusComputationError {
			log.Warn().Str("code", code).Int("start", i).Err(a.Err).
				Str("policy", string(s.OnError)).Msg("window analysis failed")
			if s.OnError == OnErrorSkip {
				continue
			}
		}

		samples = append(samples, model.Sample{
			Code:         code,
			Start:        i,
			Features:     model.Prices(input),
			Label:        a.Trend,
			InputWindow:  model.Prices(input),
			OutputWindow: model.Prices(output),
		})
	}
	return samples, nil
}

// SampleAll samples every code independently. Output follows the order of
// codes. A failing code is reported in the returned error but never stops
// the others; the samples of all successful codes are always returned.
func (s *Sampler) SampleAll(codes []string, series map[string][]model.PricePoint) ([]model.Sample, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	results := make([][]model.Sample, len(codes))
	errs := make([]error, len(codes))

	workers := s.Workers
	if workers <= 0 {
		workers = 1
	}
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i, code := range codes {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, code string) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i], errs[i] = s.Sample(code, series[code])
		}(i, code)
	}
	wg.Wait()

	var all []model.Sample
	var err error
	for i := range codes {
		all = append(all, results[i]...)
		err = multierr.Append(err, errs[i])
	}
	return all, err
}
