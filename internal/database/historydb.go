package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/valaw/internal/model"
)

// FileName is the database file created inside the data directory.
const FileName = "valaw.db"

// HistoryDB provides SQLite-based storage for harvest run history.
// Each run stores one row per domain with the written file, its checksum,
// and the request counts, so later runs can tell whether a domain changed.
//
// Design decision: Documents themselves are not stored. They are large and
// already on disk; the history only needs enough to detect change and to
// audit past runs.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB in dbDir.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist,
// ErrDatabaseNotFound is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s", ErrDatabaseNotFound, dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite takes the mode as a query parameter:
	// rw refuses to create a missing file, rwc creates it.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// Path returns the database file path.
func (hdb *HistoryDB) Path() string {
	return hdb.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	-- One row per harvest run
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at TEXT NOT NULL,
		finished_at TEXT,
		base_url TEXT NOT NULL,
		cancelled INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

	-- One row per domain harvested in a run
	CREATE TABLE IF NOT EXISTS outputs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		domain TEXT NOT NULL,
		file_path TEXT,
		checksum TEXT,
		bytes INTEGER NOT NULL DEFAULT 0,
		requests INTEGER NOT NULL DEFAULT 0,
		failures INTEGER NOT NULL DEFAULT 0,
		changed INTEGER NOT NULL DEFAULT 0,
		elapsed_ms INTEGER NOT NULL DEFAULT 0,
		error TEXT,
		UNIQUE(run_id, domain)
	);

	CREATE INDEX IF NOT EXISTS idx_outputs_domain ON outputs(domain, run_id);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// RunRecord is a stored run with its aggregate counts.
type RunRecord struct {
	ID         int64
	StartedAt  time.Time
	FinishedAt time.Time
	BaseURL    string
	Cancelled  bool
	Domains    int
	Requests   int64
	Failures   int64
	Changed    int
}

// OutputRecord is one domain's outcome within a stored run.
type OutputRecord struct {
	RunID    int64
	Domain   model.Domain
	FilePath string
	Checksum string
	Bytes    int64
	Requests int64
	Failures int64
	Changed  bool
	Elapsed  time.Duration
	Error    string
}

// SaveRun stores report and its domain results in one transaction.
// Returns the new run ID.
func (hdb *HistoryDB) SaveRun(ctx context.Context, report *model.RunReport) (int64, error) {
	tx, err := hdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	result, err := tx.ExecContext(ctx, `
	INSERT INTO runs (started_at, finished_at, base_url, cancelled)
	VALUES (?, ?, ?, ?)
	`,
		formatTimestamp(report.StartedAt),
		formatTimestamp(report.FinishedAt),
		report.BaseURL,
		boolToInt(report.Cancelled),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read run id: %w", err)
	}

	for _, r := range report.Results() {
		_, err := tx.ExecContext(ctx, `
		INSERT INTO outputs (run_id, domain, file_path, checksum, bytes, requests, failures, changed, elapsed_ms, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			runID,
			r.Domain.String(),
			r.FilePath,
			r.Checksum,
			r.Bytes,
			r.Requests,
			r.Failures,
			boolToInt(r.Changed),
			r.Elapsed.Milliseconds(),
			r.Error,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert output for %s: %w", r.Domain, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	return runID, nil
}

// runSelect reads runs with their aggregate output counts.
const runSelect = `
	SELECT r.id, r.started_at, COALESCE(r.finished_at, ''), r.base_url, r.cancelled,
		COUNT(o.id), COALESCE(SUM(o.requests), 0), COALESCE(SUM(o.failures), 0), COALESCE(SUM(o.changed), 0)
	FROM runs r
	LEFT JOIN outputs o ON o.run_id = r.id
	`

// ListRuns returns the most recent runs, newest first.
// A limit of zero or less returns every run.
func (hdb *HistoryDB) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	query := runSelect + " GROUP BY r.id ORDER BY r.id DESC"
	args := make([]any, 0, 1)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := hdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}

	return runs, rows.Err()
}

// GetRun retrieves one run by ID.
// Returns ErrRunNotFound if no such run exists.
func (hdb *HistoryDB) GetRun(ctx context.Context, id int64) (*RunRecord, error) {
	row := hdb.db.QueryRowContext(ctx, runSelect+" WHERE r.id = ? GROUP BY r.id", id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(s rowScanner) (*RunRecord, error) {
	var run RunRecord
	var started, finished string
	var cancelled int

	err := s.Scan(
		&run.ID,
		&started,
		&finished,
		&run.BaseURL,
		&cancelled,
		&run.Domains,
		&run.Requests,
		&run.Failures,
		&run.Changed,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	run.StartedAt = parseTimestamp(started)
	run.FinishedAt = parseTimestamp(finished)
	run.Cancelled = cancelled != 0
	return &run, nil
}

// GetRunOutputs returns the domain outputs of a run in domain order.
func (hdb *HistoryDB) GetRunOutputs(ctx context.Context, runID int64) ([]OutputRecord, error) {
	rows, err := hdb.db.QueryContext(ctx, `
	SELECT run_id, domain, COALESCE(file_path, ''), COALESCE(checksum, ''), bytes,
		requests, failures, changed, elapsed_ms, COALESCE(error, '')
	FROM outputs
	WHERE run_id = ?
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run outputs: %w", err)
	}
	defer rows.Close()

	byDomain := make(map[model.Domain]OutputRecord)
	for rows.Next() {
		var out OutputRecord
		var domain string
		var changed int
		var elapsedMS int64

		if err := rows.Scan(
			&out.RunID,
			&domain,
			&out.FilePath,
			&out.Checksum,
			&out.Bytes,
			&out.Requests,
			&out.Failures,
			&changed,
			&elapsedMS,
			&out.Error,
		); err != nil {
			return nil, fmt.Errorf("failed to scan output: %w", err)
		}

		out.Domain = model.Domain(domain)
		out.Changed = changed != 0
		out.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		byDomain[out.Domain] = out
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	outputs := make([]OutputRecord, 0, len(byDomain))
	for _, d := range model.AllDomains() {
		if out, ok := byDomain[d]; ok {
			outputs = append(outputs, out)
		}
	}
	return outputs, nil
}

// LatestChecksum returns the checksum of the most recently written document
// for domain, or "" if the domain was never written.
func (hdb *HistoryDB) LatestChecksum(ctx context.Context, domain model.Domain) (string, error) {
	var checksum string
	err := hdb.db.QueryRowContext(ctx, `
	SELECT checksum FROM outputs
	WHERE domain = ? AND checksum IS NOT NULL AND checksum != ''
	ORDER BY run_id DESC
	LIMIT 1
	`, domain.String()).Scan(&checksum)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get latest checksum: %w", err)
	}
	return checksum, nil
}

// DeleteRunsBefore removes runs that started before cutoff.
// Returns the number of runs removed.
func (hdb *HistoryDB) DeleteRunsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tx, err := hdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	ts := formatTimestamp(cutoff)
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM outputs WHERE run_id IN (SELECT id FROM runs WHERE started_at < ?)`, ts); err != nil {
		return 0, fmt.Errorf("failed to delete outputs: %w", err)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE started_at < ?`, ts)
	if err != nil {
		return 0, fmt.Errorf("failed to delete runs: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted runs: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit delete: %w", err)
	}
	return n, nil
}

// storedTimestampLayout sorts lexically in time order, which the
// started_at comparisons rely on.
const storedTimestampLayout = "2006-01-02T15:04:05.000000000Z"

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(storedTimestampLayout)
}

// timestampFormats contains the timestamp formats the history may hold.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	storedTimestampLayout,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05", // SQLite default datetime format
	"2006-01-02T15:04:05", // ISO 8601 without timezone
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
