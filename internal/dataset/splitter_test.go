package dataset

import (
	"errors"
	"math/rand"
	"sort"
	"testing"

	"TrendLabeler/internal/model"
)

func TestPartition_IsPartition(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, n := range []int{0, 1, 2, 7, 10, 33, 100} {
		for _, ratio := range []float64{0.1, 0.5, 0.7, 0.8, 0.999, 1} {
			train, val, err := Partition(n, ratio, rng)
			if err != nil {
				t.Fatalf("n=%d ratio=%.3f: %v", n, ratio, err)
			}
			if len(train)+len(val) != n {
				t.Fatalf("n=%d ratio=%.3f: sizes %d+%d", n, ratio, len(train), len(val))
			}
			if len(train) != int(float64(n)*ratio) {
				t.Errorf("n=%d ratio=%.3f: expected %d train, got %d", n, ratio, int(float64(n)*ratio), len(train))
			}
			all := append(append([]int{}, train...), val...)
			sort.Ints(all)
			for i, v := range all {
				if v != i {
					t.Fatalf("n=%d ratio=%.3f: indices do not cover 0..n-1: %v", n, ratio, all)
				}
			}
		}
	}
}

func TestPartition_InvalidRatio(t *testing.T) {
	for _, ratio := range []float64{0, -0.5, 1.01} {
		if _, _, err := Partition(10, ratio, nil); !errors.Is(err, ErrInvalidRatio) {
			t.Errorf("ratio %.2f: expected ErrInvalidRatio, got %v", ratio, err)
		}
	}
}

func TestPartition_SeedReproducible(t *testing.T) {
	a, _, _ := Partition(50, 0.7, rand.New(rand.NewSource(42)))
	b, _, _ := Partition(50, 0.7, rand.New(rand.NewSource(42)))
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed gave different permutations at %d", i)
		}
	}
}

func TestSplit(t *testing.T) {
	samples := make([]model.Sample, 10)
	for i := range samples {
		samples[i] = model.Sample{Start: i, Features: []float64{float64(i)}, Label: model.AllTrends[i%3]}
	}
	train, val, err := Split(samples, 0.7, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if train.Len() != 7 || val.Len() != 3 {
		t.Fatalf("expected 7/3, got %d/%d", train.Len(), val.Len())
	}
	seen := map[int]bool{}
	for _, sp := range []model.Split{train, val} {
		for i := 0; i < sp.Len(); i++ {
			x, y := sp.At(i)
			smp := sp.Samples[i]
			if x[0] != float64(smp.Start) || y != smp.Label.Label() {
				t.Errorf("X/y not aligned with sample %d", smp.Start)
			}
			if seen[smp.Start] {
				t.Errorf("sample %d in both splits", smp.Start)
			}
			seen[smp.Start] = true
		}
	}
	if len(seen) != 10 {
		t.Errorf("expected 10 distinct samples, got %d", len(seen))
	}
}

func TestNewRand(t *testing.T) {
	_, seed := NewRand(99)
	if seed != 99 {
		t.Errorf("expected seed 99, got %d", seed)
	}
	_, seed = NewRand(0)
	if seed == 0 {
		t.Error("expected a generated seed")
	}
}
