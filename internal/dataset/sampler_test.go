package dataset

import (
	"errors"
	"math"
	"testing"

	"TrendLabeler/internal/model"
)

func series(n int, f func(i int) float64) []model.PricePoint {
	out := make([]model.PricePoint, n)
	for i := range out {
		out[i] = model.PricePoint{Index: i, Price: f(i)}
	}
	return out
}

func wave(i int) float64 {
	return 100 + 8*math.Sin(float64(i)/3) + float64(i)*0.1
}

func TestSample_WindowCounts(t *testing.T) {
	s := NewSampler(60, 20)
	tests := []struct {
		n    int
		want int
	}{
		{79, 0},
		{80, 1},
		{84, 1},
		{85, 2},
		{90, 3},
		{100, 5},
	}
	for _, tt := range tests {
		samples, err := s.Sample("000001", series(tt.n, wave))
		if tt.want == 0 {
			if !errors.Is(err, ErrSeriesTooShort) {
				t.Errorf("n=%d: expected ErrSeriesTooShort, got %v", tt.n, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("n=%d: unexpected error: %v", tt.n, err)
		}
		if len(samples) != tt.want {
			t.Errorf("n=%d: expected %d samples, got %d", tt.n, tt.want, len(samples))
		}
		for k, smp := range samples {
			if smp.Start != k*DefaultStep {
				t.Errorf("n=%d: sample %d starts at %d", tt.n, k, smp.Start)
			}
			if smp.Start+60+20 > tt.n {
				t.Errorf("n=%d: sample %d overruns series", tt.n, k)
			}
		}
	}
}

func TestSample_Contents(t *testing.T) {
	s := NewSampler(10, 5)
	pts := series(20, func(i int) float64 { return float64(100 + i) })
	samples, err := s.Sample("AAPL", pts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(samples))
	}
	second := samples[1]
	if second.Code != "AAPL" || second.Start != 5 {
		t.Errorf("unexpected sample header %+v", second)
	}
	if len(second.Features) != 10 || second.Features[0] != 105 || second.Features[9] != 114 {
		t.Errorf("unexpected features %v", second.Features)
	}
	if len(second.InputWindow) != 10 || second.InputWindow[0] != second.Features[0] {
		t.Errorf("input window should mirror features, got %v", second.InputWindow)
	}
	if len(second.OutputWindow) != 5 || second.OutputWindow[0] != 115 || second.OutputWindow[4] != 119 {
		t.Errorf("unexpected output window %v", second.OutputWindow)
	}
	// a single monotone leg has no swings to judge
	if second.Label != model.Sideways {
		t.Errorf("expected Sideways, got %s", second.Label)
	}
}

func TestSample_LabelFromOutputWindow(t *testing.T) {
	up := []float64{
		100, 102, 104, 106, 103, 101, 104, 107, 110, 112, 108,
		106, 109, 112, 115, 117, 113, 111, 114, 117, 120,
	}
	flat := make([]float64, 30)
	for i := range flat {
		flat[i] = 50
	}
	vals := append(flat, up...)
	s := NewSampler(30, len(up))
	samples, err := s.Sample("X", series(len(vals), func(i int) float64 { return vals[i] }))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(samples) != 1 {
		t.Fatalf("expected 1 sample, got %d", len(samples))
	}
	if samples[0].Label != model.Uptrend {
		t.Errorf("expected Uptrend, got %s", samples[0].Label)
	}
}

func TestSample_OnErrorPolicy(t *testing.T) {
	vals := []float64{10, 11, 12, 13, 0, 14, 15, 16, 17, 18}
	pts := series(len(vals), func(i int) float64 { return vals[i] })

	skip := NewSampler(2, 3)
	skip.Step = 1
	got, err := skip.Sample("Z", pts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	neutral := NewSampler(2, 3)
	neutral.Step = 1
	neutral.OnError = OnErrorNeutral
	all, err := neutral.Sample("Z", pts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 6 {
		t.Fatalf("expected 6 windows with neutral policy, got %d", len(all))
	}
	// output windows starting at 1 and 2 use the zero price as a return base
	if len(got) != 4 {
		t.Errorf("expected 4 windows with skip policy, got %d", len(got))
	}
	for _, smp := range got {
		for _, v := range smp.OutputWindow[:len(smp.OutputWindow)-1] {
			if v == 0 {
				t.Errorf("window at %d should have been skipped", smp.Start)
			}
		}
	}
}

func TestSampler_Validate(t *testing.T) {
	bad := []*Sampler{
		{InputWindow: 0, OutputWindow: 5, Step: 5, OnError: OnErrorSkip},
		{InputWindow: 5, OutputWindow: -1, Step: 5, OnError: OnErrorSkip},
		{InputWindow: 5, OutputWindow: 5, Step: 0, OnError: OnErrorSkip},
		{InputWindow: 5, OutputWindow: 5, Step: 5, OnError: "panic"},
	}
	for i, s := range bad {
		if err := s.Validate(); !errors.Is(err, ErrInvalidWindow) {
			t.Errorf("case %d: expected ErrInvalidWindow, got %v", i, err)
		}
	}
}

func TestSampleAll_IsolatesFailures(t *testing.T) {
	s := NewSampler(10, 5)
	s.Workers = 3
	data := map[string][]model.PricePoint{
		"A": series(25, wave),
		"B": series(8, wave),
		"C": series(15, wave),
	}
	samples, err := s.SampleAll([]string{"A", "B", "C", "D"}, data)
	if err == nil {
		t.Fatal("expected error for short/missing series")
	}
	if !errors.Is(err, ErrSeriesTooShort) {
		t.Errorf("expected ErrSeriesTooShort in %v", err)
	}
	if len(samples) != 3+1 {
		t.Fatalf("expected 4 samples, got %d", len(samples))
	}
	want := []string{"A", "A", "A", "C"}
	for i, smp := range samples {
		if smp.Code != want[i] {
			t.Errorf("sample %d: expected code %s, got %s", i, want[i], smp.Code)
		}
	}
}

func TestSampleAll_Deterministic(t *testing.T) {
	s := NewSampler(20, 10)
	s.Workers = 4
	data := map[string][]model.PricePoint{}
	codes := []string{"a", "b", "c", "d", "e"}
	for k, c := range codes {
		k := k
		data[c] = series(120, func(i int) float64 { return wave(i + 7*k) })
	}
	first, err := s.SampleAll(codes, data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, _ := s.SampleAll(codes, data)
	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Code != second[i].Code || first[i].Start != second[i].Start || first[i].Label != second[i].Label {
			t.Fatalf("sample %d differs", i)
		}
	}
}
