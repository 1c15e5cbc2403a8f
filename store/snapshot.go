package store

import (
	"context"
	"errors"
	"sync"

	"github.com/smallnest/fbpgraph/graph"
	"github.com/smallnest/fbpgraph/log"
)

// MetadataTransaction is the record metadata key holding the id of the
// transaction that produced the revision
const MetadataTransaction = "transaction"

// Snapshotter persists a new revision of a graph every time one of its
// transactions ends
type Snapshotter struct {
	ctx    context.Context
	store  DocumentStore
	logger log.Logger

	mu  sync.Mutex
	err error
}

// SnapshotOption configures a Snapshotter
type SnapshotOption func(*Snapshotter)

// WithLogger sets the snapshotter's logger
func WithLogger(logger log.Logger) SnapshotOption {
	return func(s *Snapshotter) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSnapshotter creates a snapshotter saving into s. ctx bounds every save.
func NewSnapshotter(ctx context.Context, s DocumentStore, opts ...SnapshotOption) *Snapshotter {
	sn := &Snapshotter{
		ctx:    ctx,
		store:  s,
		logger: log.GetDefaultLogger(),
	}
	for _, opt := range opts {
		opt(sn)
	}
	return sn
}

// Attach connects the snapshotter to g's end_transaction event
func (s *Snapshotter) Attach(g *graph.Graph) *Snapshotter {
	g.Connect(graph.EventEndTransaction, s, false)
	return s
}

// OnGraphEvent implements graph.Listener
func (s *Snapshotter) OnGraphEvent(event graph.Event) {
	if event.Name != graph.EventEndTransaction || event.Graph == nil {
		return
	}
	tx, _ := event.Data.(graph.TransactionEvent)

	if err := s.save(event.Graph, tx); err != nil {
		s.logger.Error("snapshot of graph %q after %q failed: %v", event.Graph.Name, tx.ID, err)
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
	}
}

func (s *Snapshotter) save(g *graph.Graph, tx graph.TransactionEvent) error {
	version := 1
	latest, err := Latest(s.ctx, s.store, g.Name)
	switch {
	case err == nil:
		version = latest.Version + 1
	case !errors.Is(err, ErrNotFound):
		return err
	}

	metadata := make(map[string]any, len(tx.Metadata)+1)
	for k, v := range tx.Metadata {
		metadata[k] = v
	}
	metadata[MetadataTransaction] = tx.ID

	record := NewRecord(g, version, metadata)
	if err := s.store.Save(s.ctx, record); err != nil {
		return err
	}
	s.logger.Debug("graph %q saved as version %d", g.Name, version)
	return nil
}

// Err returns the most recent save failure, if any
func (s *Snapshotter) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
