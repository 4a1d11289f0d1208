package model

import "time"

// LabelCounts holds the number of samples per trend, indexed by label.
type LabelCounts [3]int

// Add counts one sample with trend t.
func (c *LabelCounts) Add(t Trend) {
	if t.Valid() {
		c[t.Label()]++
	}
}

// Total returns the number of counted samples.
func (c LabelCounts) Total() int { return c[0] + c[1] + c[2] }

// Share returns the fraction of samples labeled t, 0 when empty.
func (c LabelCounts) Share(t Trend) float64 {
	total := c.Total()
	if total == 0 || !t.Valid() {
		return 0
	}
	return float64(c[t.Label()]) / float64(total)
}

// BuildReport summarizes one dataset build.
type BuildReport struct {
	BuildID      string
	Market       string
	Source       string
	Codes        []string
	InputWindow  int
	OutputWindow int
	TrainRatio   float64
	Seed         int64
	TrainCount   int
	ValCount     int
	Labels       LabelCounts
	SkippedCodes []string
	Errors       []string
	DatasetPath  string
	CSVPath      string
	StartedAt    time.Time
	FinishedAt   time.Time
}

// Total returns the number of samples in the build.
func (r *BuildReport) Total() int { return r.TrainCount + r.ValCount }
