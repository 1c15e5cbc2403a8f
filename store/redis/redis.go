package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/smallnest/fbpgraph/graph"
	"github.com/smallnest/fbpgraph/store"
)

// RedisDocumentStore implements store.DocumentStore using Redis. Records
// live under <prefix>record:<id>; each graph has a set of its record ids
// under <prefix>graph:<name>:records.
type RedisDocumentStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	format graph.Format
}

// RedisOptions configuration for Redis connection
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string        // Key prefix, default "fbpgraph:"
	TTL      time.Duration // Expiration for records, default 0 (no expiration)
	Format   graph.Format  // Record encoding, default JSON
}

// NewRedisDocumentStore creates a new Redis document store
func NewRedisDocumentStore(opts RedisOptions) *RedisDocumentStore {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	prefix := opts.Prefix
	if prefix == "" {
		prefix = "fbpgraph:"
	}

	return &RedisDocumentStore{
		client: client,
		prefix: prefix,
		ttl:    opts.TTL,
		format: opts.Format,
	}
}

// Close closes the Redis client
func (s *RedisDocumentStore) Close() error {
	return s.client.Close()
}

func (s *RedisDocumentStore) recordKey(id string) string {
	return fmt.Sprintf("%srecord:%s", s.prefix, id)
}

func (s *RedisDocumentStore) graphKey(name string) string {
	return fmt.Sprintf("%sgraph:%s:records", s.prefix, name)
}

// Save stores a record and indexes it under its graph name
func (s *RedisDocumentStore) Save(ctx context.Context, record *store.Record) error {
	data, err := store.Marshal(record, s.format)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	graphKey := s.graphKey(record.Name)
	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.recordKey(record.ID), data, s.ttl)
	pipe.SAdd(ctx, graphKey, record.ID)
	if s.ttl > 0 {
		pipe.Expire(ctx, graphKey, s.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save record to redis: %w", err)
	}
	return nil
}

// Load retrieves a record by ID
func (s *RedisDocumentStore) Load(ctx context.Context, id string) (*store.Record, error) {
	data, err := s.client.Get(ctx, s.recordKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, store.NotFound(id)
		}
		return nil, fmt.Errorf("failed to load record from redis: %w", err)
	}

	record, err := store.Unmarshal(data, s.format)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal record: %w", err)
	}
	return record, nil
}

// List returns the records of a graph ordered by version. Ids whose record
// expired are skipped.
func (s *RedisDocumentStore) List(ctx context.Context, name string) ([]*store.Record, error) {
	ids, err := s.client.SMembers(ctx, s.graphKey(name)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list records of graph %s: %w", name, err)
	}
	if len(ids) == 0 {
		return []*store.Record{}, nil
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, s.recordKey(id))
	}

	results, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch records: %w", err)
	}

	records := make([]*store.Record, 0, len(results))
	for i, result := range results {
		data, ok := result.(string)
		if !ok {
			continue
		}
		record, err := store.Unmarshal([]byte(data), s.format)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal record %s: %w", ids[i], err)
		}
		records = append(records, record)
	}

	store.SortByVersion(records)
	return records, nil
}

// Delete removes a record. Deleting a missing record is a no-op.
func (s *RedisDocumentStore) Delete(ctx context.Context, id string) error {
	record, err := s.Load(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.recordKey(id))
	pipe.SRem(ctx, s.graphKey(record.Name), id)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	return nil
}

// Clear removes every record of a graph
func (s *RedisDocumentStore) Clear(ctx context.Context, name string) error {
	graphKey := s.graphKey(name)
	ids, err := s.client.SMembers(ctx, graphKey).Result()
	if err != nil {
		return fmt.Errorf("failed to get records for clearing: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}

	pipe := s.client.Pipeline()
	for _, id := range ids {
		pipe.Del(ctx, s.recordKey(id))
	}
	pipe.Del(ctx, graphKey)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to clear records: %w", err)
	}
	return nil
}
