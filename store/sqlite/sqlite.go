package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/smallnest/fbpgraph/graph"
	"github.com/smallnest/fbpgraph/store"
)

// SqliteDocumentStore implements store.DocumentStore using SQLite
type SqliteDocumentStore struct {
	db        *sql.DB
	tableName string
}

// SqliteOptions configuration for SQLite connection
type SqliteOptions struct {
	Path      string
	TableName string // Default "graph_revisions"
}

// NewSqliteDocumentStore opens the database at opts.Path and creates the
// schema if needed
func NewSqliteDocumentStore(opts SqliteOptions) (*SqliteDocumentStore, error) {
	db, err := sql.Open("sqlite3", opts.Path)
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	s := NewSqliteDocumentStoreWithDB(db, opts.TableName)
	if err := s.InitSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// NewSqliteDocumentStoreWithDB creates a store on an already opened database
func NewSqliteDocumentStoreWithDB(db *sql.DB, tableName string) *SqliteDocumentStore {
	if tableName == "" {
		tableName = "graph_revisions"
	}
	return &SqliteDocumentStore{
		db:        db,
		tableName: tableName,
	}
}

// InitSchema creates the necessary table if it doesn't exist
func (s *SqliteDocumentStore) InitSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			document TEXT NOT NULL,
			metadata TEXT,
			timestamp DATETIME NOT NULL,
			version INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_%s_name_version ON %s (name, version);
	`, s.tableName, s.tableName, s.tableName)

	_, err := s.db.ExecContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *SqliteDocumentStore) Close() error {
	return s.db.Close()
}

// Save stores a record, replacing any record with the same ID
func (s *SqliteDocumentStore) Save(ctx context.Context, record *store.Record) error {
	documentJSON, err := json.Marshal(record.Document)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	metadataJSON, err := json.Marshal(record.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, document, metadata, timestamp, version)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			document = excluded.document,
			metadata = excluded.metadata,
			timestamp = excluded.timestamp,
			version = excluded.version
	`, s.tableName)

	_, err = s.db.ExecContext(ctx, query,
		record.ID,
		record.Name,
		string(documentJSON),
		string(metadataJSON),
		record.Timestamp,
		record.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to save record: %w", err)
	}

	return nil
}

// Load retrieves a record by ID
func (s *SqliteDocumentStore) Load(ctx context.Context, id string) (*store.Record, error) {
	query := fmt.Sprintf(`
		SELECT id, name, document, metadata, timestamp, version
		FROM %s
		WHERE id = ?
	`, s.tableName)

	record, err := scanRecord(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.NotFound(id)
		}
		return nil, fmt.Errorf("failed to load record: %w", err)
	}

	return record, nil
}

// List returns the records of a graph ordered by version
func (s *SqliteDocumentStore) List(ctx context.Context, name string) ([]*store.Record, error) {
	query := fmt.Sprintf(`
		SELECT id, name, document, metadata, timestamp, version
		FROM %s
		WHERE name = ?
		ORDER BY version ASC, timestamp ASC
	`, s.tableName)

	rows, err := s.db.QueryContext(ctx, query, name)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	records := []*store.Record{}
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record row: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating record rows: %w", err)
	}

	return records, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*store.Record, error) {
	var record store.Record
	var documentJSON string
	var metadataJSON sql.NullString

	err := row.Scan(
		&record.ID,
		&record.Name,
		&documentJSON,
		&metadataJSON,
		&record.Timestamp,
		&record.Version,
	)
	if err != nil {
		return nil, err
	}

	var doc graph.Document
	if err := json.Unmarshal([]byte(documentJSON), &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document: %w", err)
	}
	record.Document = &doc

	if metadataJSON.Valid && len(metadataJSON.String) > 0 {
		if err := json.Unmarshal([]byte(metadataJSON.String), &record.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}

	return &record, nil
}

// Delete removes a record
func (s *SqliteDocumentStore) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = ?", s.tableName)
	_, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	return nil
}

// Clear removes all records of a graph
func (s *SqliteDocumentStore) Clear(ctx context.Context, name string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE name = ?", s.tableName)
	_, err := s.db.ExecContext(ctx, query, name)
	if err != nil {
		return fmt.Errorf("failed to clear records: %w", err)
	}
	return nil
}
