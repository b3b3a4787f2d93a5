// Package postgres implements a kv.Store on PostgreSQL. Writes are
// announced with NOTIFY so that other processes can LISTEN for them.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"storefront/pkg/kv"
	"storefront/pkg/logger"
)

// Schema creates the table the store expects.
const Schema = `CREATE TABLE IF NOT EXISTS kv (key TEXT PRIMARY KEY, value TEXT NOT NULL)`

// DefaultChannel is the NOTIFY channel used for change messages.
const DefaultChannel = "storefront_kv_changed"

// Store persists values in the kv table.
type Store struct {
	db       *sql.DB
	dsn      string
	channel  string
	instance string
	log      *logger.Logger
}

// New creates a PostgreSQL store. dsn is only needed by Watch, which opens
// a dedicated listener connection.
func New(db *sql.DB, dsn string, log *logger.Logger) *Store {
	return &Store{
		db:       db,
		dsn:      dsn,
		channel:  DefaultChannel,
		instance: uuid.NewString(),
		log:      log,
	}
}

// Migrate creates the kv table.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, Schema)
	return err
}

// Get reads key.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key=$1", key).Scan(&v)
	if err == sql.ErrNoRows {
		return "", kv.ErrNotFound
	}
	return v, err
}

// Set upserts key and notifies listeners in the same transaction.
func (s *Store) Set(ctx context.Context, key, value string) error {
	return s.inTx(ctx, key, "INSERT INTO kv (key,value) VALUES ($1,$2) ON CONFLICT (key) DO UPDATE SET value=EXCLUDED.value", key, value)
}

// Delete removes key and notifies listeners.
func (s *Store) Delete(ctx context.Context, key string) error {
	return s.inTx(ctx, key, "DELETE FROM kv WHERE key=$1", key)
}

func (s *Store) inTx(ctx context.Context, key, query string, args ...any) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	if _, err := tx.ExecContext(ctx, "SELECT pg_notify($1,$2)", s.channel, s.instance+" "+key); err != nil {
		return fmt.Errorf("notify %s: %w", key, err)
	}
	return tx.Commit()
}

// Watch listens for change notifications from other instances and calls
// fn for each changed key. It blocks until ctx is done.
func (s *Store) Watch(ctx context.Context, fn func(key string)) error {
	listener := pq.NewListener(s.dsn, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			s.log.Warn(ctx, "postgres listener event", "event", int(ev), "error", err)
		}
	})
	defer listener.Close()

	if err := listener.Listen(s.channel); err != nil {
		return fmt.Errorf("listen %s: %w", s.channel, err)
	}
	s.log.Info(ctx, "watching postgres changes", "channel", s.channel, "instance", s.instance)

	for {
		select {
		case <-ctx.Done():
			return nil
		case n := <-listener.Notify:
			// nil after a reconnect; state may have been missed.
			if n == nil {
				continue
			}
			instance, key, found := strings.Cut(n.Extra, " ")
			if !found || instance == s.instance {
				continue
			}
			fn(key)
		case <-time.After(90 * time.Second):
			go listener.Ping()
		}
	}
}
