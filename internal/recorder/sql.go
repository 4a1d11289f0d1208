package recorder

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"sync"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"TrendLabeler/internal/model"
)

// dialect holds the statements that differ between drivers.
type dialect struct {
	driver     string
	idColumn   string
	positional bool // $1, $2 ... instead of ?
}

var (
	sqliteDialect   = dialect{driver: DriverSQLite, idColumn: "INTEGER PRIMARY KEY AUTOINCREMENT"}
	postgresDialect = dialect{driver: DriverPostgres, idColumn: "BIGSERIAL PRIMARY KEY", positional: true}
)

// rebind rewrites ? placeholders for drivers that use numbered parameters.
func (d dialect) rebind(query string) string {
	if !d.positional {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SQLRecorder persists builds and their samples to SQLite or PostgreSQL.
type SQLRecorder struct {
	db      *sql.DB
	dialect dialect
	mu      sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets readers query while a build is writing.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	return open(db, sqliteDialect, dbPath)
}

// NewPostgresRecorder connects to PostgreSQL and runs migrations.
func NewPostgresRecorder(dsn string) (*SQLRecorder, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return open(db, postgresDialect, "postgres")
}

func open(db *sql.DB, d dialect, name string) (*SQLRecorder, error) {
	r := &SQLRecorder{db: db, dialect: d}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	log.Info().Str("driver", d.driver).Str("db", name).Msg("recorder opened")
	return r, nil
}

func (r *SQLRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS dataset_builds (
			build_id      TEXT PRIMARY KEY,
			started_at    BIGINT NOT NULL,
			finished_at   BIGINT NOT NULL,
			market        TEXT,
			source        TEXT,
			codes         TEXT,
			input_window  INTEGER,
			output_window INTEGER,
			train_ratio   REAL,
			seed          BIGINT,
			train_count   INTEGER,
			val_count     INTEGER,
			downtrend     INTEGER,
			sideways      INTEGER,
			uptrend       INTEGER,
			skipped_codes TEXT,
			errors        TEXT,
			dataset_path  TEXT,
			csv_path      TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_builds_started ON dataset_builds(started_at)`,

		`CREATE TABLE IF NOT EXISTS samples (
			id          ` + r.dialect.idColumn + `,
			build_id    TEXT NOT NULL,
			split       TEXT NOT NULL,
			code        TEXT NOT NULL,
			start_index INTEGER NOT NULL,
			label       INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_samples_build ON samples(build_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLRecorder) RecordBuild(rep *model.BuildReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(r.dialect.rebind(`INSERT INTO dataset_builds
		(build_id, started_at, finished_at, market, source, codes,
		 input_window, output_window, train_ratio, seed, train_count, val_count,
		 downtrend, sideways, uptrend, skipped_codes, errors, dataset_path, csv_path)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`),
		rep.BuildID, rep.StartedAt.Unix(), rep.FinishedAt.Unix(), rep.Market, rep.Source,
		strings.Join(rep.Codes, ","),
		rep.InputWindow, rep.OutputWindow, rep.TrainRatio, rep.Seed, rep.TrainCount, rep.ValCount,
		rep.Labels[model.Downtrend.Label()], rep.Labels[model.Sideways.Label()], rep.Labels[model.Uptrend.Label()],
		strings.Join(rep.SkippedCodes, ","), strings.Join(rep.Errors, "\n"),
		rep.DatasetPath, rep.CSVPath,
	)
	return err
}

// RecordSamples stores one row per sample in a single transaction.
func (r *SQLRecorder) RecordSamples(buildID, split string, samples []model.Sample) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(r.dialect.rebind(`INSERT INTO samples
		(build_id, split, code, start_index, label) VALUES (?,?,?,?,?)`))
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, s := range samples {
		if _, err := stmt.Exec(buildID, split, s.Code, s.Start, s.Label.Label()); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert sample %s@%d: %w", s.Code, s.Start, err)
		}
	}
	return tx.Commit()
}

func (r *SQLRecorder) Close() error {
	log.Info().Str("driver", r.dialect.driver).Msg("closing recorder")
	return r.db.Close()
}
