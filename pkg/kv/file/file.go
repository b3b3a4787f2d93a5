// Package file implements a kv.Store kept in a single JSON file. Several
// processes may open the same file; writes are serialized through an
// advisory lock on a sidecar ".lock" file and each store learns about the
// others' writes through filesystem notifications.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gofrs/flock"

	"storefront/pkg/kv"
	"storefront/pkg/logger"
)

// lockRetry is how often a busy file lock is retried.
const lockRetry = 5 * time.Millisecond

// Store reads and rewrites the whole file on every operation.
type Store struct {
	mu   sync.Mutex
	path string
	// lock is held across every read-modify-write of the file.
	lock *flock.Flock
	// seen is the state last reported to watchers, plus this store's own writes.
	seen map[string]string
	log  *logger.Logger
}

// Open prepares a store at path, creating parent directories.
func Open(path string, log *logger.Logger) (*Store, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	s := &Store{path: path, lock: flock.New(path + ".lock"), log: log}
	values, err := s.read()
	if err != nil {
		return nil, err
	}
	s.seen = values
	return s, nil
}

// Path returns the absolute file path.
func (s *Store) Path() string { return s.path }

// Get reads key from the current file contents.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return "", err
	}
	v, ok := values[key]
	if !ok {
		return "", kv.ErrNotFound
	}
	return v, nil
}

// Set rewrites the file with key set to value.
func (s *Store) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.update(ctx, func(values map[string]string) bool {
		values[key] = value
		return true
	})
	if err != nil {
		return err
	}
	s.seen[key] = value
	return nil
}

// Delete rewrites the file without key.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed bool
	err := s.update(ctx, func(values map[string]string) bool {
		if _, removed = values[key]; removed {
			delete(values, key)
		}
		return removed
	})
	if err != nil {
		return err
	}
	if removed {
		delete(s.seen, key)
	}
	return nil
}

// update applies fn to the current file contents under the file lock and
// writes the result back when fn reports a change. Callers hold s.mu.
func (s *Store) update(ctx context.Context, fn func(values map[string]string) bool) error {
	ok, err := s.lock.TryLockContext(ctx, lockRetry)
	if err != nil {
		return fmt.Errorf("lock %s: %w", s.lock.Path(), err)
	}
	if !ok {
		return fmt.Errorf("lock %s: not acquired", s.lock.Path())
	}
	defer s.lock.Unlock()

	values, err := s.read()
	if err != nil {
		return err
	}
	if !fn(values) {
		return nil
	}
	return s.write(values)
}

// Watch reports keys changed in the file by other processes. It blocks
// until ctx is done.
func (s *Store) Watch(ctx context.Context, fn func(key string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Writes replace the file, so the directory is watched instead.
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(s.path), err)
	}
	s.log.Info(ctx, "watching file changes", "path", s.path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != s.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) {
				continue
			}
			for _, key := range s.changed(ctx) {
				fn(key)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.log.Warn(ctx, "file watcher error", "path", s.path, "error", err)
		}
	}
}

// changed diffs the file against seen and adopts the file state.
func (s *Store) changed(ctx context.Context) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		s.log.Warn(ctx, "reread store file", "path", s.path, "error", err)
		return nil
	}
	var keys []string
	for k, v := range values {
		if old, ok := s.seen[k]; !ok || old != v {
			keys = append(keys, k)
		}
	}
	for k := range s.seen {
		if _, ok := values[k]; !ok {
			keys = append(keys, k)
		}
	}
	s.seen = values
	sort.Strings(keys)
	return keys
}

// read loads the file. A missing or malformed file reads as empty.
func (s *Store) read() (map[string]string, error) {
	values := make(map[string]string)
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return values, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	if len(b) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(b, &values); err != nil {
		s.log.Warn(context.Background(), "malformed store file, treating as empty", "path", s.path, "error", err)
		return make(map[string]string), nil
	}
	return values, nil
}

// write replaces the file atomically.
func (s *Store) write(values map[string]string) error {
	b, err := json.Marshal(values)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".kv-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}
