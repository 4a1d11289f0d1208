package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"TrendLabeler/internal/model"
)

func TestRebind(t *testing.T) {
	q := "INSERT INTO t (a, b) VALUES (?,?)"
	if got := sqliteDialect.rebind(q); got != q {
		t.Errorf("sqlite should keep placeholders, got %q", got)
	}
	if got := postgresDialect.rebind(q); got != "INSERT INTO t (a, b) VALUES ($1,$2)" {
		t.Errorf("unexpected postgres query %q", got)
	}
}

func TestNew(t *testing.T) {
	r, err := New("sqlite", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := r.(*NoopRecorder); !ok {
		t.Errorf("expected NoopRecorder for empty dsn, got %T", r)
	}
	if _, err := New("mysql", "x"); err == nil {
		t.Error("expected error for unsupported driver")
	}
}

func TestSQLiteRecorder(t *testing.T) {
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "labeler.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer r.Close()

	rep := &model.BuildReport{
		BuildID:      "b-1",
		Market:       "zh",
		Source:       "mock",
		Codes:        []string{"000001", "600000"},
		InputWindow:  60,
		OutputWindow: 20,
		TrainRatio:   0.7,
		Seed:         42,
		TrainCount:   2,
		ValCount:     1,
		Labels:       model.LabelCounts{1, 1, 1},
		SkippedCodes: []string{"300750"},
		StartedAt:    time.Now().Add(-time.Second),
		FinishedAt:   time.Now(),
	}
	if err := r.RecordBuild(rep); err != nil {
		t.Fatalf("record build: %v", err)
	}
	if err := r.RecordBuild(rep); err == nil {
		t.Error("expected duplicate build id to fail")
	}

	train := []model.Sample{
		{Code: "000001", Start: 0, Label: model.Uptrend},
		{Code: "000001", Start: 5, Label: model.Downtrend},
	}
	val := []model.Sample{{Code: "600000", Start: 0, Label: model.Sideways}}
	if err := r.RecordSamples(rep.BuildID, "train", train); err != nil {
		t.Fatalf("record train: %v", err)
	}
	if err := r.RecordSamples(rep.BuildID, "val", val); err != nil {
		t.Fatalf("record val: %v", err)
	}

	var codes, skipped string
	var up int
	err = r.db.QueryRow(`SELECT codes, skipped_codes, uptrend FROM dataset_builds WHERE build_id = ?`, "b-1").
		Scan(&codes, &skipped, &up)
	if err != nil {
		t.Fatalf("query build: %v", err)
	}
	if codes != "000001,600000" || skipped != "300750" || up != 1 {
		t.Errorf("unexpected build row: %s %s %d", codes, skipped, up)
	}

	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM samples WHERE build_id = ? AND split = ?`, "b-1", "train").Scan(&n); err != nil {
		t.Fatalf("count samples: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 train samples, got %d", n)
	}
	var label int
	if err := r.db.QueryRow(`SELECT label FROM samples WHERE split = ?`, "val").Scan(&label); err != nil {
		t.Fatalf("query val: %v", err)
	}
	if label != model.Sideways.Label() {
		t.Errorf("expected label %d, got %d", model.Sideways.Label(), label)
	}
}
