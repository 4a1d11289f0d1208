package collector

import (
	"context"
	"fmt"
	"strings"
	"time"

	"TrendLabeler/internal/model"
)

// Fetcher defines the interface for fetching daily price history.
type Fetcher interface {
	FetchDailyBars(ctx context.Context, code string, start, end time.Time) ([]model.OHLCV, error)
	Name() string
}

// Source names accepted by NewFetcher.
const (
	SourceYahoo    = "yahoo"
	SourceVsTrader = "vstrader"
	SourceMock     = "mock"
)

// FetcherConfig carries what the fetcher implementations need.
type FetcherConfig struct {
	Source  string
	Market  string
	BaseURL string
	APIKey  string
	Proxy   string
}

// NewFetcher creates the fetcher for cfg.Source.
func NewFetcher(cfg FetcherConfig) (Fetcher, error) {
	switch strings.ToLower(cfg.Source) {
	case SourceYahoo:
		return NewYahooFetcher(cfg.Market, cfg.Proxy), nil
	case SourceVsTrader:
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("vstrader source requires base_url")
		}
		return NewVsTraderFetcher(cfg.BaseURL, cfg.APIKey, cfg.Proxy), nil
	case SourceMock:
		return &MockFetcher{Price: 100}, nil
	default:
		return nil, fmt.Errorf("unsupported data source: %s", cfg.Source)
	}
}
