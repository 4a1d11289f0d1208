package recorder

import "TrendLabeler/internal/model"

// NoopRecorder is a no-op implementation used when no database is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordBuild(_ *model.BuildReport) error           { return nil }
func (n *NoopRecorder) RecordSamples(_, _ string, _ []model.Sample) error { return nil }
func (n *NoopRecorder) Close() error                                      { return nil }
