// Package sqlite implements storage.ChunkStore on SQLite via the
// modernc.org pure-Go driver.
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

	"github.com/poiesic/textvault/core"
	"github.com/poiesic/textvault/storage"
	"github.com/poiesic/textvault/storage/sqlite/migrations"
)

// Store implements storage.ChunkStore backed by a single SQLite file.
type Store struct {
	db   *sql.DB
	path string
}

var _ storage.ChunkStore = (*Store)(nil)

// newStore is an internal constructor that returns the concrete type.
func newStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		return nil, errors.New("data directory required")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "chunks.db")

	// Open database with WAL mode for better concurrency
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

// NewStore creates a chunk store at the specified data directory.
// The directory is created if missing; the database file is chunks.db.
//
// Returns storage.ChunkStore interface to enforce abstraction.
func NewStore(dataDir string) (storage.ChunkStore, error) {
	return newStore(dataDir)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
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
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

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

// CreateChunk inserts one chunk row. Rows are write-once: an existing id
// is a duplicate-key error, never an overwrite.
func (s *Store) CreateChunk(ctx context.Context, record *core.ChunkRecord) (*core.ChunkRecord, error) {
	metadataJSON, err := json.Marshal(record.Metadata)
	if err != nil {
		return nil, fmt.Errorf("marshalling metadata: %w", err)
	}

	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO document_chunks (id, document_id, content_type, content, chunk_index, total_chunks, embedding_id, content_hash, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, record.ID, record.DocumentID, string(record.ContentType), record.Content,
		record.ChunkIndex, record.TotalChunks, record.EmbeddingID,
		record.ContentHash, string(metadataJSON), record.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: chunk %s", storage.ErrDuplicateKey, record.ID)
		}
		return nil, fmt.Errorf("inserting chunk %s: %w", record.ID, err)
	}

	return record, nil
}

// GetChunk retrieves a single chunk row by id.
func (s *Store) GetChunk(ctx context.Context, id string) (*core.ChunkRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, document_id, content_type, content, chunk_index, total_chunks, embedding_id, content_hash, metadata, created_at
		FROM document_chunks WHERE id = ?
	`, id)

	record, err := scanChunk(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: chunk %s", storage.ErrNotFound, id)
		}
		return nil, err
	}
	return record, nil
}

// GetChunksByDocument retrieves all chunk rows for a document id,
// ordered by chunk index, then creation time for rows from repeated runs.
func (s *Store) GetChunksByDocument(ctx context.Context, documentID string) ([]*core.ChunkRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, document_id, content_type, content, chunk_index, total_chunks, embedding_id, content_hash, metadata, created_at
		FROM document_chunks WHERE document_id = ?
		ORDER BY chunk_index, created_at
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var records []*core.ChunkRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		record, err := scanChunk(rows.Scan)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	return records, nil
}

// CountChunks returns the number of stored rows for a document id.
func (s *Store) CountChunks(ctx context.Context, documentID string) (int, error) {
	var count int
	row := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM document_chunks WHERE document_id = ?", documentID)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return count, nil
}

// scanChunk builds a record from a row scan function.
func scanChunk(scan func(dest ...any) error) (*core.ChunkRecord, error) {
	var record core.ChunkRecord
	var contentType, metadataJSON string
	var createdAt sql.NullTime

	if err := scan(&record.ID, &record.DocumentID, &contentType, &record.Content,
		&record.ChunkIndex, &record.TotalChunks, &record.EmbeddingID,
		&record.ContentHash, &metadataJSON, &createdAt); err != nil {
		return nil, err
	}

	record.ContentType = core.ContentType(contentType)
	if err := json.Unmarshal([]byte(metadataJSON), &record.Metadata); err != nil {
		return nil, fmt.Errorf("unmarshaling metadata: %w", err)
	}
	if createdAt.Valid {
		record.CreatedAt = createdAt.Time
	}

	return &record, nil
}

// isUniqueViolation recognizes a primary-key conflict from the driver.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
