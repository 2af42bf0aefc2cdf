package turso

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tursodatabase/go-libsql"
)

// Options selects how the database is reached. With only Path set the
// database is a local file. With only URL set every query goes to the remote
// Turso database. With both set, Path is an embedded replica of URL.
type Options struct {
	URL       string
	AuthToken string
	Path      string
	Ping      bool
}

// DB wraps a SQL database connection. Embedded replicas keep their connector
// so writes can be pushed with Sync.
type DB struct {
	*sql.DB
	connector *libsql.Connector
}

// Open connects to the database described by opts.
func Open(opts Options) (*DB, error) {
	switch {
	case opts.URL != "" && opts.Path != "":
		return openReplica(opts)
	case opts.URL != "":
		return openRemote(opts)
	case opts.Path != "":
		return openLocal(opts)
	default:
		return nil, fmt.Errorf("database url or path is required")
	}
}

func openLocal(opts Options) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	db, err := sql.Open("libsql", "file:"+opts.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One writer at a time for a local file.
	db.SetMaxOpenConns(1)
	return finish(&DB{DB: db}, opts)
}

func openRemote(opts Options) (*DB, error) {
	connStr := opts.URL
	if opts.AuthToken != "" {
		connStr += "?authToken=" + opts.AuthToken
	}
	db, err := sql.Open("libsql", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Turso aggressively closes idle streams, causing "stream not found"
	// errors on stale connections.
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(0)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(0)

	return finish(&DB{DB: db}, opts)
}

func openReplica(opts Options) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create replica directory: %w", err)
	}

	var connOpts []libsql.Option
	if opts.AuthToken != "" {
		connOpts = append(connOpts, libsql.WithAuthToken(opts.AuthToken))
	}
	connector, err := libsql.NewEmbeddedReplicaConnector(opts.Path, opts.URL, connOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedded replica: %w", err)
	}

	return finish(&DB{DB: sql.OpenDB(connector), connector: connector}, opts)
}

func finish(db *DB, opts Options) (*DB, error) {
	if opts.Ping {
		if err := db.Ping(); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
	}
	return db, nil
}

// Sync pushes local replica writes to the remote database. It is a no-op for
// local and remote connections.
func (d *DB) Sync() error {
	if d.connector == nil {
		return nil
	}
	if _, err := d.connector.Sync(); err != nil {
		return fmt.Errorf("failed to sync replica: %w", err)
	}
	return nil
}

// Close closes the pool and the replica connector.
func (d *DB) Close() error {
	err := d.DB.Close()
	if d.connector != nil {
		if cerr := d.connector.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// IsStreamError checks if an error is a Turso "stream not found" error.
func IsStreamError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "stream not found")
}

// WithRetry executes fn, retrying up to maxRetries times on Turso stream
// errors.
func WithRetry[T any](ctx context.Context, maxRetries int, fn func() (T, error)) (T, error) {
	var result T
	var err error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		result, err = fn()
		if err == nil {
			return result, nil
		}

		if !IsStreamError(err) || attempt == maxRetries {
			return result, err
		}

		select {
		case <-ctx.Done():
			return result, ctx.Err()
		case <-time.After(10 * time.Millisecond):
		}
	}

	return result, err
}
