package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/SJF-ECNU/paperhelper/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/SJF-ECNU/paperhelper/internal/core/domain"
	"github.com/SJF-ECNU/paperhelper/internal/core/ports/driven"
)

// DefaultFilename is the database file created inside the data directory.
const DefaultFilename = "paperhelper.db"

// Store is a SQLite-backed store. Port implementations are exposed
// through wrapper types sharing one connection.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store in the specified data directory.
// If dataDir is empty, defaults to ~/.paperhelper/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".paperhelper", "data")
	}

	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DefaultFilename)

	// WAL lets readers proceed while a background analysis writes.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

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

// RecordStore returns a RecordStore interface backed by this store.
func (s *Store) RecordStore() driven.RecordStore {
	return &recordStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Record Store ====================

// recordStore implements driven.RecordStore.
type recordStore struct {
	store *Store
}

var _ driven.RecordStore = (*recordStore)(nil)

// SaveRecord stores or updates a record.
func (s *recordStore) SaveRecord(ctx context.Context, record *domain.DocumentRecord) error {
	if record == nil || record.ID == "" {
		return domain.ErrInvalidInput
	}

	metadataJSON, err := json.Marshal(record.Metadata)
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}

	var artifactsJSON sql.NullString
	if record.Artifacts != nil {
		data, err := json.Marshal(record.Artifacts)
		if err != nil {
			return fmt.Errorf("marshalling artifacts: %w", err)
		}
		artifactsJSON = sql.NullString{String: string(data), Valid: true}
	}

	var errMsg sql.NullString
	if record.Error != nil {
		errMsg = sql.NullString{String: *record.Error, Valid: true}
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO records (id, filename, storage_path, status, uploaded_at, error, artifacts, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			filename = excluded.filename,
			storage_path = excluded.storage_path,
			status = excluded.status,
			uploaded_at = excluded.uploaded_at,
			error = excluded.error,
			artifacts = excluded.artifacts,
			metadata = excluded.metadata
	`, record.ID, record.Filename, record.StoragePath, string(record.Status),
		record.UploadedAt.UTC().Format(time.RFC3339Nano), errMsg, artifactsJSON, string(metadataJSON))

	if err != nil {
		return fmt.Errorf("saving record: %w", err)
	}
	return nil
}

// GetRecord retrieves a record by ID.
func (s *recordStore) GetRecord(ctx context.Context, id string) (*domain.DocumentRecord, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, filename, storage_path, status, uploaded_at, error, artifacts, metadata
		FROM records WHERE id = ?
	`, id)

	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return record, err
}

// ListRecords returns every record keyed by ID.
func (s *recordStore) ListRecords(ctx context.Context) (map[string]domain.DocumentRecord, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, filename, storage_path, status, uploaded_at, error, artifacts, metadata
		FROM records
	`)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	records := make(map[string]domain.DocumentRecord)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records[record.ID] = *record
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}
	return records, nil
}

// ==================== Helper Functions ====================

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanRecord scans one records row. sql.ErrNoRows is returned unwrapped.
func scanRecord(row rowScanner) (*domain.DocumentRecord, error) {
	var record domain.DocumentRecord
	var status, uploadedAt, metadataJSON string
	var errMsg, artifactsJSON sql.NullString

	if err := row.Scan(&record.ID, &record.Filename, &record.StoragePath, &status,
		&uploadedAt, &errMsg, &artifactsJSON, &metadataJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning record: %w", err)
	}

	if err := record.Status.UnmarshalText([]byte(status)); err != nil {
		return nil, fmt.Errorf("record %s: %w", record.ID, err)
	}

	t, err := time.Parse(time.RFC3339Nano, uploadedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing uploaded_at: %w", err)
	}
	record.UploadedAt = t

	if errMsg.Valid {
		msg := errMsg.String
		record.Error = &msg
	}

	if artifactsJSON.Valid {
		var artifacts domain.DocumentArtifacts
		if err := json.Unmarshal([]byte(artifactsJSON.String), &artifacts); err != nil {
			return nil, fmt.Errorf("unmarshaling artifacts: %w", err)
		}
		record.Artifacts = &artifacts
	}

	record.Metadata = make(map[string]string)
	if metadataJSON != "" {
		if err := json.Unmarshal([]byte(metadataJSON), &record.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshaling metadata: %w", err)
		}
	}
	if record.Metadata == nil {
		record.Metadata = make(map[string]string)
	}

	return &record, nil
}
