// Package store persists revisions of FBP graphs.
//
// A Record is one revision of a named graph: its canonical graph.Document,
// free-form metadata, a timestamp and a version number that increases with
// every revision of the same graph. Every backend implements DocumentStore:
//
//	type DocumentStore interface {
//		Save(ctx context.Context, record *Record) error
//		Load(ctx context.Context, id string) (*Record, error)
//		List(ctx context.Context, name string) ([]*Record, error)
//		Delete(ctx context.Context, id string) error
//		Clear(ctx context.Context, name string) error
//	}
//
// Load reports a missing record with an error wrapping ErrNotFound. List
// returns records ordered by version.
//
// # Backends
//
//   - store/memory: process-local map, for tests and short-lived tools
//   - store/file: one file per record in JSON, YAML or MessagePack
//   - store/sqlite: a single SQLite database file
//   - store/postgres: PostgreSQL through a pgx pool
//   - store/redis: Redis, with optional expiry
//
// # Snapshots
//
// A Snapshotter listens for end_transaction on a graph and saves a new
// revision each time a transaction closes:
//
//	s := memory.NewMemoryDocumentStore()
//	store.NewSnapshotter(ctx, s).Attach(g)
//
//	g.AddNode("Read", "ReadFile", nil) // version 1
//
//	latest, _ := store.Latest(ctx, s, g.Name)
//	restored, _ := latest.Graph()
//
// Listeners cannot return errors, so a failed save is logged and kept for
// Snapshotter.Err.
package store
