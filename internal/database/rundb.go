package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	_ "modernc.org/sqlite" // SQLite driver

	"instantreview/internal/model"
)

// dbFileName is the SQLite database file name inside the data directory.
const dbFileName = "instantreview.db"

// RunDB provides SQLite-based storage for automation run history.
// It manages connection pooling and provides methods for saving and
// querying stored reports.
type RunDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures RunDB behavior.
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

// Open opens or creates a RunDB in the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is
// returned.
func Open(dbDir string, opts Options) (*RunDB, error) {
	dbPath := filepath.Join(dbDir, dbFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating new
	// files, mode=rwc allows creation.
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

	rdb := &RunDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := rdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return rdb, nil
}

// Close closes the database connection.
func (rdb *RunDB) Close() error {
	return rdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (rdb *RunDB) createTables() error {
	schema := `
	-- Runs store complete automation reports as JSON
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL UNIQUE,
		issue_number INTEGER NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		status TEXT NOT NULL,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_issue ON runs(issue_number);
	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp);
	`

	_, err := rdb.db.ExecContext(context.Background(), schema)
	return err
}

// RunRecord describes a stored run without its full report payload.
type RunRecord struct {
	// ID is the database row ID, usable with GetReportByID.
	ID int64

	// RunID is the unique identifier assigned when the run was saved.
	RunID string

	// IssueNumber is the issue the run covered.
	IssueNumber int

	// Timestamp is when the run was saved.
	Timestamp time.Time

	// Status is the implementation status recorded in the report.
	Status string

	// StepsCompleted is the step count extracted from the stored report.
	StepsCompleted int
}

// SaveReport stores a report in the run history.
// The report is serialized in its envelope form so stored rows carry the
// exact published schema.
func (rdb *RunDB) SaveReport(ctx context.Context, report *model.Report) (string, error) {
	data, err := json.Marshal(model.ReportEnvelope{Report: report})
	if err != nil {
		return "", fmt.Errorf("failed to serialize report: %w", err)
	}

	runID := uuid.NewString()

	query := `
	INSERT INTO runs (run_id, issue_number, status, report_json)
	VALUES (?, ?, ?, ?)
	`

	_, err = rdb.db.ExecContext(ctx, query,
		runID,
		report.IssueNumber,
		report.Implementation.Status,
		string(data),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	return runID, nil
}

// GetLatestReport retrieves the most recently saved report for an issue.
// Returns nil without error when the issue has no stored runs.
func (rdb *RunDB) GetLatestReport(ctx context.Context, issueNumber int) (*model.Report, error) {
	query := `
	SELECT report_json FROM runs
	WHERE issue_number = ?
	ORDER BY timestamp DESC, id DESC
	LIMIT 1
	`

	var reportJSON string
	err := rdb.db.QueryRowContext(ctx, query, issueNumber).Scan(&reportJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest report: %w", err)
	}

	return decodeReport(reportJSON)
}

// GetReportByID retrieves a stored report by its database row ID.
// Returns nil without error when no row matches.
func (rdb *RunDB) GetReportByID(ctx context.Context, id int64) (*model.Report, error) {
	query := `SELECT report_json FROM runs WHERE id = ?`

	var reportJSON string
	err := rdb.db.QueryRowContext(ctx, query, id).Scan(&reportJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report by id: %w", err)
	}

	return decodeReport(reportJSON)
}

// ListIssues returns all issue numbers with stored runs, most recently
// run first.
func (rdb *RunDB) ListIssues(ctx context.Context) ([]int, error) {
	query := `
	SELECT issue_number FROM runs
	GROUP BY issue_number
	ORDER BY MAX(timestamp) DESC
	`

	rows, err := rdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list issues: %w", err)
	}
	defer rows.Close()

	var issues []int
	for rows.Next() {
		var issue int
		if err := rows.Scan(&issue); err != nil {
			return nil, fmt.Errorf("failed to scan issue number: %w", err)
		}
		issues = append(issues, issue)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate issues: %w", err)
	}

	return issues, nil
}

// GetRunHistory returns the stored run records for an issue, newest first.
// The per-run metadata (status, step count) is extracted from the stored
// report JSON without decoding the full document.
func (rdb *RunDB) GetRunHistory(ctx context.Context, issueNumber int) ([]RunRecord, error) {
	query := `
	SELECT id, run_id, issue_number, timestamp, status, report_json
	FROM runs
	WHERE issue_number = ?
	ORDER BY timestamp DESC, id DESC
	`

	rows, err := rdb.db.QueryContext(ctx, query, issueNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to query run history: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var record RunRecord
		var timestamp string
		var reportJSON string

		if err := rows.Scan(
			&record.ID,
			&record.RunID,
			&record.IssueNumber,
			&timestamp,
			&record.Status,
			&reportJSON,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run record: %w", err)
		}

		record.Timestamp = parseTimestamp(timestamp)
		record.StepsCompleted = int(gjson.Get(reportJSON,
			"claude_automation_report.implementation.steps_completed").Int())

		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate run history: %w", err)
	}

	return records, nil
}

// decodeReport unmarshals a stored envelope document back into a Report.
func decodeReport(reportJSON string) (*model.Report, error) {
	var envelope model.ReportEnvelope
	if err := json.Unmarshal([]byte(reportJSON), &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse stored report: %w", err)
	}
	if envelope.Report == nil {
		return nil, fmt.Errorf("stored report is missing its envelope payload")
	}
	return envelope.Report, nil
}

// parseTimestamp parses SQLite timestamp strings, which vary by version
// and configuration. Unparseable values yield the zero time rather than
// an error; history listing should not fail over a timestamp format.
func parseTimestamp(value string) time.Time {
	layouts := []string{
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05Z",
		time.RFC3339,
		time.RFC3339Nano,
	}
	for _, layout := range layouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts
		}
	}
	return time.Time{}
}
