package store_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/smallnest/fbpgraph/log"
	"github.com/smallnest/fbpgraph/store"
	"github.com/smallnest/fbpgraph/store/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyStore fails the first n calls of every operation
type flakyStore struct {
	store.DocumentStore
	failures int32
	calls    atomic.Int32
}

func (f *flakyStore) fail() error {
	if f.calls.Add(1) <= f.failures {
		return errors.New("connection reset")
	}
	return nil
}

func (f *flakyStore) Save(ctx context.Context, r *store.Record) error {
	if err := f.fail(); err != nil {
		return err
	}
	return f.DocumentStore.Save(ctx, r)
}

func (f *flakyStore) List(ctx context.Context, name string) ([]*store.Record, error) {
	if err := f.fail(); err != nil {
		return nil, err
	}
	return f.DocumentStore.List(ctx, name)
}

func fastRetry(attempts int) *store.RetryConfig {
	cfg := store.DefaultRetryConfig()
	cfg.MaxAttempts = attempts
	cfg.InitialDelay = time.Millisecond
	cfg.MaxDelay = 5 * time.Millisecond
	return cfg
}

func TestRetryStore_RecoversFromTransientErrors(t *testing.T) {
	ctx := context.Background()
	flaky := &flakyStore{DocumentStore: memory.NewMemoryDocumentStore(), failures: 2}
	s := store.NewRetryStore(flaky, fastRetry(3))

	r := store.NewRecord(newGraph(), 1, nil)
	require.NoError(t, s.Save(ctx, r))
	assert.Equal(t, int32(3), flaky.calls.Load())

	records, err := s.List(ctx, "Main")
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestRetryStore_GivesUp(t *testing.T) {
	flaky := &flakyStore{DocumentStore: memory.NewMemoryDocumentStore(), failures: 10}
	s := store.NewRetryStore(flaky, fastRetry(3))

	err := s.Save(context.Background(), store.NewRecord(newGraph(), 1, nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max retries (3) exceeded for save")
	assert.Contains(t, err.Error(), "connection reset")
	assert.Equal(t, int32(3), flaky.calls.Load())
}

func TestRetryStore_AttemptsAtLeastOnce(t *testing.T) {
	for _, attempts := range []int{0, -1} {
		flaky := &flakyStore{DocumentStore: memory.NewMemoryDocumentStore(), failures: 10}
		s := store.NewRetryStore(flaky, fastRetry(attempts))

		err := s.Save(context.Background(), store.NewRecord(newGraph(), 1, nil))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max retries (1) exceeded for save: connection reset")
		assert.Equal(t, int32(1), flaky.calls.Load())

		ok := store.NewRetryStore(memory.NewMemoryDocumentStore(), fastRetry(attempts))
		require.NoError(t, ok.Save(context.Background(), store.NewRecord(newGraph(), 1, nil)))
	}
}

func TestRetryStore_NotFoundIsNotRetried(t *testing.T) {
	s := store.NewRetryStore(memory.NewMemoryDocumentStore(), fastRetry(5))

	start := time.Now()
	_, err := s.Load(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Less(t, time.Since(start), time.Second)

	_, err = store.Latest(context.Background(), s, "Main")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRetryStore_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	flaky := &flakyStore{DocumentStore: memory.NewMemoryDocumentStore()}
	s := store.NewRetryStore(flaky, nil)

	err := s.Save(ctx, store.NewRecord(newGraph(), 1, nil))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(0), flaky.calls.Load())
}

// slowStore blocks until its context is done
type slowStore struct {
	store.DocumentStore
}

func (slowStore) Delete(ctx context.Context, _ string) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestRetryStore_AttemptTimeout(t *testing.T) {
	cfg := fastRetry(2)
	cfg.AttemptTimeout = 10 * time.Millisecond
	s := store.NewRetryStore(slowStore{memory.NewMemoryDocumentStore()}, cfg)

	err := s.Delete(context.Background(), "rev-1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "max retries (2) exceeded for delete")
}

func TestRetryStore_WithSnapshotter(t *testing.T) {
	ctx := context.Background()
	flaky := &flakyStore{DocumentStore: memory.NewMemoryDocumentStore(), failures: 1}
	g := newGraph()
	snap := store.NewSnapshotter(ctx, store.NewRetryStore(flaky, fastRetry(3)),
		store.WithLogger(&log.NoOpLogger{})).Attach(g)

	g.AddNode("Read", "ReadFile", nil)

	require.NoError(t, snap.Err())
	records, err := flaky.DocumentStore.List(ctx, "Main")
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
