package collector

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"go.uber.org/multierr"

	"TrendLabeler/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price float64
	Bars  map[string][]model.OHLCV
	Errs  map[string]error
}

func (m *MockFetcher) Name() string { return SourceMock }

func (m *MockFetcher) FetchDailyBars(_ context.Context, code string, start, end time.Time) ([]model.OHLCV, error) {
	if err, ok := m.Errs[code]; ok {
		return nil, err
	}
	if bars, ok := m.Bars[code]; ok {
		return bars, nil
	}
	return generateMockBars(code, m.Price, start, end), nil
}

// generateMockBars produces a deterministic wave per code so that generated
// datasets contain all three labels.
func generateMockBars(code string, basePrice float64, start, end time.Time) []model.OHLCV {
	if basePrice <= 0 {
		basePrice = 100
	}
	phase := 0.0
	for _, r := range code {
		phase += float64(r)
	}
	var bars []model.OHLCV
	i := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		x := float64(i)
		p := basePrice * (1 + 0.15*math.Sin(x/15+phase) + 0.03*math.Sin(x/2.5+phase))
		bars = append(bars, model.OHLCV{
			Time:   d,
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		})
		i++
	}
	return bars
}

// Collector fetches daily histories for a set of instruments.
type Collector struct {
	Fetcher Fetcher
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher) *Collector {
	return &Collector{Fetcher: fetcher}
}

// Collect fetches every code in order. A failing code is logged and reported
// in the returned error while the remaining codes are still fetched.
func (c *Collector) Collect(ctx context.Context, codes []string, start, end time.Time) (map[string]model.PriceSeries, error) {
	out := make(map[string]model.PriceSeries, len(codes))
	var errs error
	for _, code := range codes {
		if err := ctx.Err(); err != nil {
			return out, multierr.Append(errs, err)
		}
		bars, err := c.Fetcher.FetchDailyBars(ctx, code, start, end)
		if err != nil {
			log.Warn().Str("code", code).Str("source", c.Fetcher.Name()).Err(err).Msg("fetch failed")
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", code, err))
			continue
		}
		bars = cleanBars(code, bars)
		if len(bars) == 0 {
			errs = multierr.Append(errs, fmt.Errorf("%s: no usable bars", code))
			continue
		}
		log.Info().Str("code", code).Int("bars", len(bars)).
			Time("first", bars[0].Time).Time("last", bars[len(bars)-1].Time).Msg("collected")
		out[code] = model.PriceSeries{Code: code, Bars: bars, FetchedAt: time.Now()}
	}
	return out, errs
}

// cleanBars sorts bars by time, drops duplicate dates and bars whose close is
// not a positive finite number.
func cleanBars(code string, bars []model.OHLCV) []model.OHLCV {
	sorted := make([]model.OHLCV, len(bars))
	copy(sorted, bars)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time.Before(sorted[j].Time) })

	out := sorted[:0]
	dropped := 0
	for _, b := range sorted {
		if b.Close <= 0 || math.IsNaN(b.Close) || math.IsInf(b.Close, 0) {
			dropped++
			continue
		}
		if n := len(out); n > 0 && out[n-1].Time.Equal(b.Time) {
			out[n-1] = b
			dropped++
			continue
		}
		out = append(out, b)
	}
	if dropped > 0 {
		log.Debug().Str("code", code).Int("dropped", dropped).Msg("dropped invalid bars")
	}
	return out
}
