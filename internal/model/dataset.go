package model

import "time"

// Sample is one labeled window of a single instrument.
type Sample struct {
	Code         string    `json:"code"`
	Start        int       `json:"start"`
	Features     []float64 `json:"features"`
	Label        Trend     `json:"label"`
	InputWindow  []float64 `json:"input_window"`
	OutputWindow []float64 `json:"output_window"`
}

// Split is one partition of the dataset. X[i] and Y[i] belong to Samples[i].
type Split struct {
	X       [][]float64 `json:"X"`
	Y       []int       `json:"y"`
	Samples []Sample    `json:"samples"`
}

// NewSplit builds X and Y from samples.
func NewSplit(samples []Sample) Split {
	s := Split{
		X:       make([][]float64, len(samples)),
		Y:       make([]int, len(samples)),
		Samples: samples,
	}
	for i, smp := range samples {
		s.X[i] = smp.Features
		s.Y[i] = smp.Label.Label()
	}
	return s
}

// Len returns the number of samples in the split.
func (s Split) Len() int { return len(s.X) }

// At returns the feature vector and label at i.
func (s Split) At(i int) ([]float64, int) { return s.X[i], s.Y[i] }

// DatasetMeta describes how a dataset was built.
type DatasetMeta struct {
	BuildID      string    `json:"build_id"`
	Market       string    `json:"market"`
	Source       string    `json:"source"`
	Codes        []string  `json:"codes"`
	StartDate    string    `json:"start_date"`
	EndDate      string    `json:"end_date"`
	InputWindow  int       `json:"input_window"`
	OutputWindow int       `json:"output_window"`
	Step         int       `json:"step"`
	TrainRatio   float64   `json:"train_ratio"`
	Seed         int64     `json:"seed"`
	CreatedAt    time.Time `json:"created_at"`
}

// Dataset is the terminal artifact handed to a trainer.
type Dataset struct {
	Meta  DatasetMeta `json:"metadata"`
	Train Split       `json:"train"`
	Val   Split       `json:"val"`
}

// Len returns the total number of samples.
func (d *Dataset) Len() int { return d.Train.Len() + d.Val.Len() }
