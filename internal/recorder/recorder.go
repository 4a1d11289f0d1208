package recorder

import (
	"fmt"
	"strings"

	"TrendLabeler/internal/model"
)

// Recorder persists build history for later analysis.
type Recorder interface {
	RecordBuild(report *model.BuildReport) error
	RecordSamples(buildID, split string, samples []model.Sample) error
	Close() error
}

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// New opens the recorder for driver. An empty dsn yields a NoopRecorder.
func New(driver, dsn string) (Recorder, error) {
	if dsn == "" {
		return NewNoopRecorder(), nil
	}
	switch strings.ToLower(driver) {
	case "", DriverSQLite:
		return NewSQLiteRecorder(dsn)
	case DriverPostgres:
		return NewPostgresRecorder(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
}
