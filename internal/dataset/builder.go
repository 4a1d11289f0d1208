package dataset

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.uber.org/multierr"

	"TrendLabeler/internal/collector"
	"TrendLabeler/internal/model"
	"TrendLabeler/internal/recorder"
)

// ErrNoSamples is returned when no instrument produced a single window.
var ErrNoSamples = errors.New("no samples produced")

// Options describes one dataset build.
type Options struct {
	Market     string
	Codes      []string
	Start      time.Time
	End        time.Time
	TrainRatio float64
	Seed       int64
	OutputDir  string
}

// Builder runs fetch, sample, split, save and record for a set of instruments.
type Builder struct {
	Collector *collector.Collector
	Sampler   *Sampler
	Recorder  recorder.Recorder
	Options   Options
}

// NewBuilder creates a Builder. A nil recorder records nothing.
func NewBuilder(col *collector.Collector, s *Sampler, rec recorder.Recorder, opts Options) *Builder {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Builder{Collector: col, Sampler: s, Recorder: rec, Options: opts}
}

// Build produces and persists one dataset. Per-code failures are listed in
// the report; the build fails only when nothing could be sampled.
func (b *Builder) Build(ctx context.Context) (*model.BuildReport, error) {
	opts := b.Options
	if len(opts.Codes) == 0 {
		return nil, fmt.Errorf("no codes configured")
	}
	if !opts.End.After(opts.Start) {
		return nil, fmt.Errorf("end date %s is not after start date %s",
			opts.End.Format("2006-01-02"), opts.Start.Format("2006-01-02"))
	}
	if err := b.Sampler.Validate(); err != nil {
		return nil, err
	}

	rep := &model.BuildReport{
		BuildID:      uuid.NewString(),
		Market:       opts.Market,
		Source:       b.Collector.Fetcher.Name(),
		Codes:        opts.Codes,
		InputWindow:  b.Sampler.InputWindow,
		OutputWindow: b.Sampler.OutputWindow,
		TrainRatio:   opts.TrainRatio,
		StartedAt:    time.Now(),
	}
	logger := log.With().Str("build_id", rep.BuildID).Logger()
	logger.Info().Strs("codes", opts.Codes).Str("source", rep.Source).
		Int("input_window", rep.InputWindow).Int("output_window", rep.OutputWindow).Msg("build started")

	series, err := b.Collector.Collect(ctx, opts.Codes, opts.Start, opts.End)
	rep.Errors = append(rep.Errors, errorStrings(err)...)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return rep, ctxErr
	}

	collected := make([]string, 0, len(series))
	points := make(map[string][]model.PricePoint, len(series))
	for _, code := range opts.Codes {
		if s, ok := series[code]; ok {
			collected = append(collected, code)
			points[code] = model.ClosePoints(s.Bars)
		}
	}

	samples, err := b.Sampler.SampleAll(collected, points)
	rep.Errors = append(rep.Errors, errorStrings(err)...)
	rep.SkippedCodes = skippedCodes(opts.Codes, samples)

	if len(samples) == 0 {
		rep.FinishedAt = time.Now()
		logger.Error().Strs("errors", rep.Errors).Msg("build produced no samples")
		return rep, ErrNoSamples
	}

	rng, seed := NewRand(opts.Seed)
	rep.Seed = seed
	train, val, err := Split(samples, opts.TrainRatio, rng)
	if err != nil {
		return rep, err
	}

	ds := &model.Dataset{
		Meta: model.DatasetMeta{
			BuildID:      rep.BuildID,
			Market:       opts.Market,
			Source:       rep.Source,
			Codes:        opts.Codes,
			StartDate:    opts.Start.Format("2006-01-02"),
			EndDate:      opts.End.Format("2006-01-02"),
			InputWindow:  b.Sampler.InputWindow,
			OutputWindow: b.Sampler.OutputWindow,
			Step:         b.Sampler.Step,
			TrainRatio:   opts.TrainRatio,
			Seed:         seed,
			CreatedAt:    time.Now(),
		},
		Train: train,
		Val:   val,
	}
	rep.TrainCount = train.Len()
	rep.ValCount = val.Len()
	rep.Labels = DatasetLabels(ds)

	base := filepath.Join(opts.OutputDir, BaseName(ds.Meta))
	rep.DatasetPath = base + ".json"
	rep.CSVPath = base + ".csv"
	if err := SaveJSON(rep.DatasetPath, ds); err != nil {
		return rep, fmt.Errorf("save dataset: %w", err)
	}
	if err := WriteCSV(rep.CSVPath, ds); err != nil {
		return rep, fmt.Errorf("write csv: %w", err)
	}
	rep.FinishedAt = time.Now()

	b.record(rep, ds)

	logger.Info().
		Int64("seed", seed).
		Int("train", rep.TrainCount).
		Int("val", rep.ValCount).
		Int("downtrend", rep.Labels[model.Downtrend.Label()]).
		Int("sideways", rep.Labels[model.Sideways.Label()]).
		Int("uptrend", rep.Labels[model.Uptrend.Label()]).
		Strs("skipped", rep.SkippedCodes).
		Str("path", rep.DatasetPath).
		Dur("elapsed", rep.FinishedAt.Sub(rep.StartedAt)).
		Msg("build finished")
	return rep, nil
}

// record stores the build history. Failures are logged and kept in the
// report but never fail the build.
func (b *Builder) record(rep *model.BuildReport, ds *model.Dataset) {
	err := b.Recorder.RecordBuild(rep)
	if err == nil {
		err = multierr.Append(
			b.Recorder.RecordSamples(rep.BuildID, "train", ds.Train.Samples),
			b.Recorder.RecordSamples(rep.BuildID, "val", ds.Val.Samples),
		)
	}
	if err != nil {
		log.Error().Str("build_id", rep.BuildID).Err(err).Msg("record build")
		rep.Errors = append(rep.Errors, fmt.Sprintf("record: %v", err))
	}
}

func errorStrings(err error) []string {
	var out []string
	for _, e := range multierr.Errors(err) {
		out = append(out, e.Error())
	}
	return out
}

// skippedCodes lists the codes that contributed no sample, in input order.
func skippedCodes(codes []string, samples []model.Sample) []string {
	seen := make(map[string]bool, len(codes))
	for _, s := range samples {
		seen[s.Code] = true
	}
	var out []string
	for _, c := range codes {
		if !seen[c] {
			out = append(out, c)
		}
	}
	return out
}
