package store

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// RetryConfig configures retry behavior for store operations
type RetryConfig struct {
	MaxAttempts   int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
	// AttemptTimeout bounds each attempt when positive
	AttemptTimeout time.Duration
	// RetryableErrors determines if an error should trigger a retry
	RetryableErrors func(error) bool
}

// DefaultRetryConfig returns a default retry configuration. ErrNotFound
// is never retried.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      5 * time.Second,
		BackoffFactor: 2.0,
		RetryableErrors: func(err error) bool {
			return !errors.Is(err, ErrNotFound)
		},
	}
}

// RetryStore wraps a DocumentStore and retries failed operations with
// exponential backoff
type RetryStore struct {
	store  DocumentStore
	config *RetryConfig
}

// NewRetryStore creates a new retrying store around s. Every operation
// is attempted at least once.
func NewRetryStore(s DocumentStore, config *RetryConfig) *RetryStore {
	if config == nil {
		config = DefaultRetryConfig()
	}
	if config.MaxAttempts < 1 {
		clamped := *config
		clamped.MaxAttempts = 1
		config = &clamped
	}
	return &RetryStore{
		store:  s,
		config: config,
	}
}

func (rs *RetryStore) do(ctx context.Context, op string, fn func(context.Context) error) error {
	var lastErr error
	delay := rs.config.InitialDelay

	for attempt := 1; attempt <= rs.config.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%s cancelled: %w", op, ctx.Err())
		default:
		}

		err := rs.attempt(ctx, fn)
		if err == nil {
			return nil
		}
		lastErr = err

		if rs.config.RetryableErrors != nil && !rs.config.RetryableErrors(err) {
			return err
		}

		if attempt < rs.config.MaxAttempts {
			select {
			case <-time.After(delay):
				delay = min(time.Duration(float64(delay)*rs.config.BackoffFactor), rs.config.MaxDelay)
			case <-ctx.Done():
				return fmt.Errorf("%s cancelled during backoff: %w", op, ctx.Err())
			}
		}
	}

	return fmt.Errorf("max retries (%d) exceeded for %s: %w", rs.config.MaxAttempts, op, lastErr)
}

func (rs *RetryStore) attempt(ctx context.Context, fn func(context.Context) error) error {
	if rs.config.AttemptTimeout <= 0 {
		return fn(ctx)
	}
	attemptCtx, cancel := context.WithTimeout(ctx, rs.config.AttemptTimeout)
	defer cancel()
	return fn(attemptCtx)
}

// Save implements DocumentStore
func (rs *RetryStore) Save(ctx context.Context, record *Record) error {
	return rs.do(ctx, "save", func(ctx context.Context) error {
		return rs.store.Save(ctx, record)
	})
}

// Load implements DocumentStore
func (rs *RetryStore) Load(ctx context.Context, id string) (*Record, error) {
	var record *Record
	err := rs.do(ctx, "load", func(ctx context.Context) error {
		var err error
		record, err = rs.store.Load(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// List implements DocumentStore
func (rs *RetryStore) List(ctx context.Context, name string) ([]*Record, error) {
	var records []*Record
	err := rs.do(ctx, "list", func(ctx context.Context) error {
		var err error
		records, err = rs.store.List(ctx, name)
		return err
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Delete implements DocumentStore
func (rs *RetryStore) Delete(ctx context.Context, id string) error {
	return rs.do(ctx, "delete", func(ctx context.Context) error {
		return rs.store.Delete(ctx, id)
	})
}

// Clear implements DocumentStore
func (rs *RetryStore) Clear(ctx context.Context, name string) error {
	return rs.do(ctx, "clear", func(ctx context.Context) error {
		return rs.store.Clear(ctx, name)
	})
}
