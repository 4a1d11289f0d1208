package model

import "testing"

func TestTrendLabels(t *testing.T) {
	want := map[Trend]int{Downtrend: 0, Sideways: 1, Uptrend: 2}
	for tr, label := range want {
		if tr.Label() != label {
			t.Errorf("%s: expected label %d, got %d", tr, label, tr.Label())
		}
		back, err := TrendFromLabel(label)
		if err != nil || back != tr {
			t.Errorf("label %d: expected %s, got %s (%v)", label, tr, back, err)
		}
	}
	for _, bad := range []int{-1, 3, 42} {
		if _, err := TrendFromLabel(bad); err == nil {
			t.Errorf("label %d: expected error", bad)
		}
	}
	if len(AllTrends) != 3 {
		t.Errorf("expected 3 trends, got %d", len(AllTrends))
	}
}

func TestTrendString(t *testing.T) {
	if Uptrend.String() != "Uptrend" || Sideways.String() != "Sideways" || Downtrend.String() != "Downtrend" {
		t.Error("unexpected trend names")
	}
}

func TestLabelCounts(t *testing.T) {
	var c LabelCounts
	c.Add(Uptrend)
	c.Add(Uptrend)
	c.Add(Sideways)
	c.Add(Trend(7))
	if c.Total() != 3 {
		t.Fatalf("expected 3, got %d", c.Total())
	}
	if c.Share(Uptrend) < 0.66 || c.Share(Uptrend) > 0.67 {
		t.Errorf("unexpected uptrend share %.3f", c.Share(Uptrend))
	}
	if c.Share(Downtrend) != 0 {
		t.Errorf("expected zero downtrend share")
	}
}

func TestNewSplit(t *testing.T) {
	samples := []Sample{
		{Features: []float64{1, 2}, Label: Uptrend},
		{Features: []float64{3, 4}, Label: Downtrend},
	}
	s := NewSplit(samples)
	if s.Len() != 2 {
		t.Fatalf("expected 2, got %d", s.Len())
	}
	x, y := s.At(1)
	if x[0] != 3 || y != 0 {
		t.Errorf("unexpected sample at 1: %v %d", x, y)
	}
}

func TestClosePoints(t *testing.T) {
	pts := ClosePoints([]OHLCV{{Close: 10}, {Close: 11}})
	if len(pts) != 2 || pts[1].Index != 1 || pts[1].Price != 11 {
		t.Errorf("unexpected points %+v", pts)
	}
	if p := Prices(pts); p[0] != 10 || p[1] != 11 {
		t.Errorf("unexpected prices %v", p)
	}
}
