package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/smallnest/fbpgraph/graph"
	"github.com/smallnest/fbpgraph/store"
)

// DBPool defines the interface for database connection pool
type DBPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresDocumentStore implements store.DocumentStore using PostgreSQL
type PostgresDocumentStore struct {
	pool      DBPool
	tableName string
}

// PostgresOptions configuration for Postgres connection
type PostgresOptions struct {
	ConnString string
	TableName  string // Default "graph_revisions"
}

const defaultTableName = "graph_revisions"

// NewPostgresDocumentStore creates a new Postgres document store
func NewPostgresDocumentStore(ctx context.Context, opts PostgresOptions) (*PostgresDocumentStore, error) {
	pool, err := pgxpool.New(ctx, opts.ConnString)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	return NewPostgresDocumentStoreWithPool(pool, opts.TableName), nil
}

// NewPostgresDocumentStoreWithPool creates a new Postgres document store with an existing pool
// Useful for testing with mocks
func NewPostgresDocumentStoreWithPool(pool DBPool, tableName string) *PostgresDocumentStore {
	if tableName == "" {
		tableName = defaultTableName
	}
	return &PostgresDocumentStore{
		pool:      pool,
		tableName: tableName,
	}
}

// InitSchema creates the necessary table if it doesn't exist
func (s *PostgresDocumentStore) InitSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			document JSONB NOT NULL,
			metadata JSONB,
			timestamp TIMESTAMPTZ NOT NULL,
			version INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_%s_name_version ON %s (name, version);
	`, s.tableName, s.tableName, s.tableName)

	_, err := s.pool.Exec(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the connection pool
func (s *PostgresDocumentStore) Close() {
	s.pool.Close()
}

// Save stores a record
func (s *PostgresDocumentStore) Save(ctx context.Context, record *store.Record) error {
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
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			document = EXCLUDED.document,
			metadata = EXCLUDED.metadata,
			timestamp = EXCLUDED.timestamp,
			version = EXCLUDED.version
	`, s.tableName)

	_, err = s.pool.Exec(ctx, query,
		record.ID,
		record.Name,
		documentJSON,
		metadataJSON,
		record.Timestamp,
		record.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to save record: %w", err)
	}
	return nil
}

// Load retrieves a record by ID
func (s *PostgresDocumentStore) Load(ctx context.Context, id string) (*store.Record, error) {
	query := fmt.Sprintf(`
		SELECT id, name, document, metadata, timestamp, version
		FROM %s
		WHERE id = $1
	`, s.tableName)

	record, err := scanRecord(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.NotFound(id)
		}
		return nil, fmt.Errorf("failed to load record: %w", err)
	}
	return record, nil
}

// List returns the records of a graph ordered by version
func (s *PostgresDocumentStore) List(ctx context.Context, name string) ([]*store.Record, error) {
	query := fmt.Sprintf(`
		SELECT id, name, document, metadata, timestamp, version
		FROM %s
		WHERE name = $1
		ORDER BY version ASC, timestamp ASC
	`, s.tableName)

	rows, err := s.pool.Query(ctx, query, name)
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

func scanRecord(row pgx.Row) (*store.Record, error) {
	var record store.Record
	var documentJSON []byte
	var metadataJSON []byte

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
	if err := json.Unmarshal(documentJSON, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document: %w", err)
	}
	record.Document = &doc

	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &record.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}
	return &record, nil
}

// Delete removes a record
func (s *PostgresDocumentStore) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", s.tableName)
	if _, err := s.pool.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	return nil
}

// Clear removes every record of a graph
func (s *PostgresDocumentStore) Clear(ctx context.Context, name string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE name = $1", s.tableName)
	if _, err := s.pool.Exec(ctx, query, name); err != nil {
		return fmt.Errorf("failed to clear records: %w", err)
	}
	return nil
}
