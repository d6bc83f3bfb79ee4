package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/refdocs/docmirror/internal/model"
)

// MirrorDB stores the history of mirror runs in a SQLite database.
// One database file holds all runs so the status command can show
// history across invocations.
type MirrorDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures MirrorDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent
	// performance. Recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a MirrorDB under dbDir.
// When CreateIfNotExists is false and no database exists, an error is
// returned instead of creating an empty one.
func Open(dbDir string, opts Options) (*MirrorDB, error) {
	dbPath := filepath.Join(dbDir, "docmirror.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite uses mode=rw to refuse creating new files and
	// mode=rwc to allow creation.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports only one writer; multiple connections just
	// contend on the write lock.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	mdb := &MirrorDB{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := mdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return mdb, nil
}

// Close closes the database connection.
func (mdb *MirrorDB) Close() error {
	return mdb.db.Close()
}

// Path returns the path to the SQLite database file.
func (mdb *MirrorDB) Path() string {
	return mdb.dbPath
}

// createTables creates the schema if it doesn't exist.
func (mdb *MirrorDB) createTables() error {
	schema := `
	-- Runs store one row per bulk mirror invocation
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		command TEXT NOT NULL,
		started_at DATETIME NOT NULL,
		finished_at DATETIME NOT NULL,
		downloaded INTEGER NOT NULL,
		skipped INTEGER NOT NULL,
		failed INTEGER NOT NULL,
		total INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

	-- Fetches store the final outcome of every target in a run
	CREATE TABLE IF NOT EXISTS fetches (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		url TEXT NOT NULL,
		path TEXT NOT NULL,
		outcome TEXT NOT NULL,
		status_code INTEGER,
		attempts INTEGER NOT NULL,
		error TEXT,
		fetched_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_fetches_run ON fetches(run_id);
	CREATE INDEX IF NOT EXISTS idx_fetches_url ON fetches(url);
	`

	_, err := mdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveRun persists a complete run report with all its fetch records.
// The insert runs in one transaction so a run is either fully recorded
// or not at all.
func (mdb *MirrorDB) SaveRun(ctx context.Context, report *model.RunReport) (int64, error) {
	tx, err := mdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback after commit is a no-op

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (command, started_at, finished_at, downloaded, skipped, failed, total)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		report.Command,
		formatTimestamp(report.StartedAt),
		formatTimestamp(report.FinishedAt),
		report.Summary.Downloaded,
		report.Summary.Skipped,
		report.Summary.Failed,
		report.Summary.Total,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO fetches (run_id, url, path, outcome, status_code, attempts, error, fetched_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare fetch insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range report.Records {
		if _, err := stmt.ExecContext(ctx,
			runID, rec.URL, rec.Path, string(rec.Outcome),
			rec.StatusCode, rec.Attempts, rec.Error, formatTimestamp(rec.FetchedAt),
		); err != nil {
			return 0, fmt.Errorf("failed to insert fetch record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	return runID, nil
}

// RunRow is one row of run history.
type RunRow struct {
	// ID is the run's database identifier.
	ID int64

	// Command is the subcommand that produced the run.
	Command string

	// StartedAt and FinishedAt bound the run.
	StartedAt  time.Time
	FinishedAt time.Time

	// Summary holds the aggregate counters.
	Summary model.RunSummary
}

// RecentRuns returns the most recent runs, newest first.
func (mdb *MirrorDB) RecentRuns(ctx context.Context, limit int) ([]RunRow, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := mdb.db.QueryContext(ctx,
		`SELECT id, command, started_at, finished_at, downloaded, skipped, failed, total
		 FROM runs ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	runs := make([]RunRow, 0, limit)
	for rows.Next() {
		var r RunRow
		var startedAt, finishedAt string
		if err := rows.Scan(
			&r.ID, &r.Command, &startedAt, &finishedAt,
			&r.Summary.Downloaded, &r.Summary.Skipped, &r.Summary.Failed, &r.Summary.Total,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		r.StartedAt = parseTimestamp(startedAt)
		r.FinishedAt = parseTimestamp(finishedAt)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RunFailures returns the failed fetch records of a run.
func (mdb *MirrorDB) RunFailures(ctx context.Context, runID int64) ([]model.FetchRecord, error) {
	rows, err := mdb.db.QueryContext(ctx,
		`SELECT url, path, outcome, status_code, attempts, error, fetched_at
		 FROM fetches WHERE run_id = ? AND outcome = ? ORDER BY id`,
		runID, string(model.OutcomeFailed))
	if err != nil {
		return nil, fmt.Errorf("failed to query failures: %w", err)
	}
	defer rows.Close()

	return scanFetchRecords(rows)
}

// FetchHistory returns the recorded outcomes of one URL across runs,
// newest first.
func (mdb *MirrorDB) FetchHistory(ctx context.Context, url string, limit int) ([]model.FetchRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := mdb.db.QueryContext(ctx,
		`SELECT url, path, outcome, status_code, attempts, error, fetched_at
		 FROM fetches WHERE url = ? ORDER BY fetched_at DESC, id DESC LIMIT ?`,
		url, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query fetch history: %w", err)
	}
	defer rows.Close()

	return scanFetchRecords(rows)
}

// scanFetchRecords reads fetch rows into records.
func scanFetchRecords(rows *sql.Rows) ([]model.FetchRecord, error) {
	records := make([]model.FetchRecord, 0)
	for rows.Next() {
		var rec model.FetchRecord
		var outcome, fetchedAt string
		var statusCode sql.NullInt64
		var errMsg sql.NullString
		if err := rows.Scan(
			&rec.URL, &rec.Path, &outcome, &statusCode,
			&rec.Attempts, &errMsg, &fetchedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan fetch row: %w", err)
		}
		rec.Outcome = model.Outcome(outcome)
		rec.FetchedAt = parseTimestamp(fetchedAt)
		if statusCode.Valid {
			rec.StatusCode = int(statusCode.Int64)
		}
		if errMsg.Valid {
			rec.Error = errMsg.String
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// timestampFormats are the layouts SQLite may hand back depending on
// how the value was written.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// formatTimestamp renders a time for storage.
func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTimestamp parses a stored timestamp, returning the zero time
// when no known layout matches.
func parseTimestamp(s string) time.Time {
	for _, layout := range timestampFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
