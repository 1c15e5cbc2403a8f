package store

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/smallnest/fbpgraph/graph"
)

// ErrNotFound is wrapped by lookups of records that do not exist
var ErrNotFound = errors.New("record not found")

// Record is a persisted revision of a graph document
type Record struct {
	ID        string          `json:"id" yaml:"id" msgpack:"id"`
	Name      string          `json:"name" yaml:"name" msgpack:"name"`
	Document  *graph.Document `json:"document" yaml:"document" msgpack:"document"`
	Metadata  map[string]any  `json:"metadata" yaml:"metadata" msgpack:"metadata"`
	Timestamp time.Time       `json:"timestamp" yaml:"timestamp" msgpack:"timestamp"`
	Version   int             `json:"version" yaml:"version" msgpack:"version"`
}

// NewRecord snapshots g into a record with a fresh id
func NewRecord(g *graph.Graph, version int, metadata map[string]any) *Record {
	if metadata == nil {
		metadata = map[string]any{}
	}
	return &Record{
		ID:        uuid.NewString(),
		Name:      g.Name,
		Document:  g.ToJSON(),
		Metadata:  metadata,
		Timestamp: time.Now(),
		Version:   version,
	}
}

// DocumentStore defines the interface for graph document persistence
type DocumentStore interface {
	// Save stores a record, replacing one with the same ID
	Save(ctx context.Context, record *Record) error

	// Load retrieves a record by ID
	Load(ctx context.Context, id string) (*Record, error)

	// List returns the records of a graph ordered by version
	List(ctx context.Context, name string) ([]*Record, error)

	// Delete removes a record
	Delete(ctx context.Context, id string) error

	// Clear removes every record of a graph
	Clear(ctx context.Context, name string) error
}

// Latest returns the highest-version record of the named graph
func Latest(ctx context.Context, s DocumentStore, name string) (*Record, error) {
	records, err := s.List(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no revisions of graph %q", ErrNotFound, name)
	}
	return records[len(records)-1], nil
}

// SortByVersion orders records by ascending version, oldest first on ties
func SortByVersion(records []*Record) {
	slices.SortStableFunc(records, func(a, b *Record) int {
		if c := cmp.Compare(a.Version, b.Version); c != 0 {
			return c
		}
		return a.Timestamp.Compare(b.Timestamp)
	})
}

// NotFound builds the error returned for a missing record id
func NotFound(id string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Graph rebuilds the graph stored in the record. The record id is attached
// to the load transaction.
func (r *Record) Graph(opts ...graph.Option) (*graph.Graph, error) {
	return graph.FromJSON(r.Document, graph.Metadata{"record": r.ID}, opts...)
}
