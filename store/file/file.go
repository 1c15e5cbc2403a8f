package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/smallnest/fbpgraph/graph"
	"github.com/smallnest/fbpgraph/log"
	"github.com/smallnest/fbpgraph/store"
	"golang.org/x/sync/errgroup"
)

// listConcurrency bounds the number of files decoded in parallel by List
const listConcurrency = 8

// FileDocumentStore keeps one file per record in a directory
type FileDocumentStore struct {
	mu     sync.RWMutex
	path   string
	format graph.Format
	logger log.Logger
}

// Option configures a FileDocumentStore
type Option func(*FileDocumentStore)

// WithFormat selects the encoding of record files, JSON by default
func WithFormat(format graph.Format) Option {
	return func(s *FileDocumentStore) {
		s.format = format
	}
}

// WithLogger sets the store's logger
func WithLogger(logger log.Logger) Option {
	return func(s *FileDocumentStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewFileDocumentStore creates a store rooted at path, creating the
// directory if needed
func NewFileDocumentStore(path string, opts ...Option) (*FileDocumentStore, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	s := &FileDocumentStore{
		path:   path,
		format: graph.FormatJSON,
		logger: log.GetDefaultLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Path returns the store directory
func (s *FileDocumentStore) Path() string {
	return s.path
}

func (s *FileDocumentStore) ext() string {
	switch s.format {
	case graph.FormatYAML:
		return ".yaml"
	case graph.FormatMsgpack:
		return ".msgpack"
	default:
		return ".json"
	}
}

func (s *FileDocumentStore) filename(id string) string {
	return filepath.Join(s.path, id+s.ext())
}

// isRecordFile reports whether name is a record file rather than a
// temporary file of an in-flight save
func (s *FileDocumentStore) isRecordFile(name string) bool {
	base := filepath.Base(name)
	return !strings.HasPrefix(base, ".") && filepath.Ext(base) == s.ext()
}

// Save writes the record file atomically
func (s *FileDocumentStore) Save(_ context.Context, record *store.Record) error {
	data, err := store.Marshal(record, s.format)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.path, "."+record.ID+".*")
	if err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write record: %w", err)
	}
	if err := os.Rename(tmpName, s.filename(record.ID)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write record: %w", err)
	}
	return nil
}

// Load retrieves a record by ID
func (s *FileDocumentStore) Load(_ context.Context, id string) (*store.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read(s.filename(id), id)
}

func (s *FileDocumentStore) read(filename, id string) (*store.Record, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, store.NotFound(id)
		}
		return nil, fmt.Errorf("failed to read record: %w", err)
	}
	record, err := store.Unmarshal(data, s.format)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal record %s: %w", id, err)
	}
	return record, nil
}

// List returns the records of a graph ordered by version. Files are
// decoded concurrently. Files that cannot be read as records are logged
// and skipped so foreign files in the directory never hide the others.
func (s *FileDocumentStore) List(ctx context.Context, name string) ([]*store.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read store directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && s.isRecordFile(e.Name()) {
			files = append(files, e.Name())
		}
	}

	records := make([]*store.Record, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(listConcurrency)
	for i, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			id := strings.TrimSuffix(file, s.ext())
			r, err := s.read(filepath.Join(s.path, file), id)
			if err != nil {
				s.logger.Warn("list: skipping %s: %v", file, err)
				return nil
			}
			records[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]*store.Record, 0, len(records))
	for _, r := range records {
		if r != nil && r.Name == name {
			out = append(out, r)
		}
	}
	store.SortByVersion(out)
	return out, nil
}

// Delete removes a record. Deleting a missing record is a no-op.
func (s *FileDocumentStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.filename(id)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	return nil
}

// Clear removes every record of a graph
func (s *FileDocumentStore) Clear(ctx context.Context, name string) error {
	records, err := s.List(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to list records for clearing: %w", err)
	}
	for _, r := range records {
		if err := s.Delete(ctx, r.ID); err != nil {
			return err
		}
	}
	return nil
}

// Watch calls fn with every record file created or rewritten in the store
// directory, including those written by other processes. It returns once
// the watch is established; watching stops when ctx is done.
func (s *FileDocumentStore) Watch(ctx context.Context, fn func(*store.Record)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(s.path); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", s.path, err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
					continue
				}
				if !s.isRecordFile(event.Name) {
					continue
				}
				id := strings.TrimSuffix(filepath.Base(event.Name), s.ext())
				record, err := s.Load(ctx, id)
				if err != nil {
					s.logger.Debug("watch: skipping %s: %v", event.Name, err)
					continue
				}
				fn(record)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Warn("watch %s: %v", s.path, err)
			}
		}
	}()
	return nil
}
