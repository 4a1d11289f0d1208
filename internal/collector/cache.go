package collector

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cast"

	"TrendLabeler/internal/model"
)

var cacheHeader = []string{"time", "open", "high", "low", "close", "volume"}

var errEmptyCache = errors.New("cache file has no bars")

// CachedFetcher stores each fetched history as a CSV file under Dir and serves
// later requests for the same code and range from disk.
type CachedFetcher struct {
	Fetcher Fetcher
	Market  string
	Dir     string
}

// NewCachedFetcher wraps f. An empty dir disables caching.
func NewCachedFetcher(f Fetcher, market, dir string) Fetcher {
	if dir == "" {
		return f
	}
	return &CachedFetcher{Fetcher: f, Market: market, Dir: dir}
}

func (c *CachedFetcher) Name() string { return c.Fetcher.Name() }

func (c *CachedFetcher) path(code string, start, end time.Time) string {
	name := fmt.Sprintf("%s_%s_%s_%s_%s.csv", c.Market, c.Fetcher.Name(), SanitizeCode(code),
		start.Format("20060102"), end.Format("20060102"))
	return filepath.Join(c.Dir, name)
}

// SanitizeCode makes an instrument code safe for use in a file name.
func SanitizeCode(code string) string {
	return strings.NewReplacer("/", "-", "\\", "-", "^", "", " ", "").Replace(code)
}

func (c *CachedFetcher) FetchDailyBars(ctx context.Context, code string, start, end time.Time) ([]model.OHLCV, error) {
	path := c.path(code, start, end)
	bars, err := readBarsCSV(path)
	if err == nil {
		log.Debug().Str("code", code).Str("path", path).Int("bars", len(bars)).Msg("cache hit")
		return bars, nil
	}
	if !errors.Is(err, fs.ErrNotExist) && !errors.Is(err, errEmptyCache) {
		log.Warn().Str("path", path).Err(err).Msg("unreadable cache file, refetching")
	}

	bars, err = c.Fetcher.FetchDailyBars(ctx, code, start, end)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return bars, nil
	}
	if err := writeBarsCSV(path, bars); err != nil {
		log.Warn().Str("path", path).Err(err).Msg("write cache failed")
	}
	return bars, nil
}

func writeBarsCSV(path string, bars []model.OHLCV) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	_ = w.Write(cacheHeader)
	for _, b := range bars {
		_ = w.Write([]string{
			b.Time.Format(time.RFC3339),
			strconv.FormatFloat(b.Open, 'f', -1, 64),
			strconv.FormatFloat(b.High, 'f', -1, 64),
			strconv.FormatFloat(b.Low, 'f', -1, 64),
			strconv.FormatFloat(b.Close, 'f', -1, 64),
			strconv.FormatFloat(b.Volume, 'f', -1, 64),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func readBarsCSV(path string) ([]model.OHLCV, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) <= 1 {
		return nil, errEmptyCache
	}
	bars := make([]model.OHLCV, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) != len(cacheHeader) {
			return nil, fmt.Errorf("row %d: expected %d columns, got %d", i+1, len(cacheHeader), len(row))
		}
		t, err := parseCacheTime(row[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		var vals [5]float64
		for j := range vals {
			if vals[j], err = cast.ToFloat64E(row[j+1]); err != nil {
				return nil, fmt.Errorf("row %d: %s: %w", i+1, cacheHeader[j+1], err)
			}
		}
		bars = append(bars, model.OHLCV{
			Time: t, Open: vals[0], High: vals[1], Low: vals[2], Close: vals[3], Volume: vals[4],
		})
	}
	return bars, nil
}

// parseCacheTime accepts RFC3339 and the date-only layout of older cache files.
func parseCacheTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
