package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/fernlea-labs/attest-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/fernlea-labs/attest-cli/internal/core/domain"
	"github.com/fernlea-labs/attest-cli/internal/core/ports/driven"
)

// Store is a SQLite-based storage that provides access to the export
// history through a wrapper type.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.attest/data/history.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".attest", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "history.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// ExportStore returns an ExportStore interface backed by this store.
func (s *Store) ExportStore() driven.ExportStore {
	return &exportStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_exports.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Export Store ====================

// exportStore implements driven.ExportStore.
type exportStore struct {
	store *Store
}

var _ driven.ExportStore = (*exportStore)(nil)

// Save stores or updates an export record.
func (s *exportStore) Save(ctx context.Context, record domain.ExportRecord) error {
	if record.ID == "" {
		return domain.ErrInvalidInput
	}

	artifactsJSON, err := json.Marshal(record.Artifacts)
	if err != nil {
		return fmt.Errorf("marshalling artifacts: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO exports
			(id, report_id, employee_name, mode, state, artifacts,
			 stats_attempted, stats_fetched, stats_failed, error, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			report_id = excluded.report_id,
			employee_name = excluded.employee_name,
			mode = excluded.mode,
			state = excluded.state,
			artifacts = excluded.artifacts,
			stats_attempted = excluded.stats_attempted,
			stats_fetched = excluded.stats_fetched,
			stats_failed = excluded.stats_failed,
			error = excluded.error,
			started_at = excluded.started_at,
			finished_at = excluded.finished_at
	`, record.ID, record.ReportID, record.EmployeeName, string(record.Mode), string(record.State),
		string(artifactsJSON), record.Stats.Attempted, record.Stats.Fetched, record.Stats.Failed,
		nullString(record.Error), record.StartedAt, record.FinishedAt)

	if err != nil {
		return fmt.Errorf("saving export record: %w", err)
	}
	return nil
}

// Get retrieves an export record by invocation id.
func (s *exportStore) Get(ctx context.Context, id string) (*domain.ExportRecord, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, report_id, employee_name, mode, state, artifacts,
		       stats_attempted, stats_fetched, stats_failed, error, started_at, finished_at
		FROM exports WHERE id = ?
	`, id)

	return scanExportRecord(row)
}

// List returns all export records, most recent first.
func (s *exportStore) List(ctx context.Context) ([]domain.ExportRecord, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, report_id, employee_name, mode, state, artifacts,
		       stats_attempted, stats_fetched, stats_failed, error, started_at, finished_at
		FROM exports
		ORDER BY started_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying export records: %w", err)
	}
	defer rows.Close()

	var records []domain.ExportRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		record, err := scanExportRecordRows(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating export records: %w", err)
	}

	return records, nil
}

// ==================== Helper Functions ====================

// scanExportRecord scans a single export record row.
func scanExportRecord(row *sql.Row) (*domain.ExportRecord, error) {
	var record domain.ExportRecord
	var mode, state, artifactsJSON string
	var errMsg sql.NullString
	var startedAt, finishedAt sql.NullTime

	if err := row.Scan(&record.ID, &record.ReportID, &record.EmployeeName, &mode, &state,
		&artifactsJSON, &record.Stats.Attempted, &record.Stats.Fetched, &record.Stats.Failed,
		&errMsg, &startedAt, &finishedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning export record: %w", err)
	}

	return finishExportRecord(&record, mode, state, artifactsJSON, errMsg, startedAt, finishedAt)
}

// scanExportRecordRows scans an export record from *sql.Rows.
func scanExportRecordRows(rows *sql.Rows) (*domain.ExportRecord, error) {
	var record domain.ExportRecord
	var mode, state, artifactsJSON string
	var errMsg sql.NullString
	var startedAt, finishedAt sql.NullTime

	if err := rows.Scan(&record.ID, &record.ReportID, &record.EmployeeName, &mode, &state,
		&artifactsJSON, &record.Stats.Attempted, &record.Stats.Fetched, &record.Stats.Failed,
		&errMsg, &startedAt, &finishedAt); err != nil {
		return nil, fmt.Errorf("scanning export record: %w", err)
	}

	return finishExportRecord(&record, mode, state, artifactsJSON, errMsg, startedAt, finishedAt)
}

func finishExportRecord(
	record *domain.ExportRecord,
	mode, state, artifactsJSON string,
	errMsg sql.NullString,
	startedAt, finishedAt sql.NullTime,
) (*domain.ExportRecord, error) {
	record.Mode = domain.ExportMode(mode)
	record.State = domain.ExportState(state)
	record.Error = errMsg.String

	if err := json.Unmarshal([]byte(artifactsJSON), &record.Artifacts); err != nil {
		return nil, fmt.Errorf("unmarshalling artifacts: %w", err)
	}
	if startedAt.Valid {
		record.StartedAt = startedAt.Time
	}
	if finishedAt.Valid {
		record.FinishedAt = finishedAt.Time
	}

	return record, nil
}

// nullString converts an empty string to a SQL NULL.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
