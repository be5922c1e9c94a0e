// Package sqlitekv persists the client's key/value pairs in a single SQLite table.
package sqlitekv

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/blogfront/internal/storage"
)

const schema = `CREATE TABLE IF NOT EXISTS kv (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at INTEGER NOT NULL
)`

const timeout = 5 * time.Second

type KV struct {
	db *sql.DB
}

// Open opens (or creates) the database at dsn and makes sure the table exists.
func Open(dsn string) (*KV, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		log.Error().Err(err).Str("dsn", dsn).Msg("failed to open database")
		return nil, err
	}
	// A single connection keeps in-memory databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if _, err = db.ExecContext(ctx, schema); err != nil {
		db.Close()
		log.Error().Err(err).Msg("failed to create kv table")
		return nil, err
	}

	return &KV{db: db}, nil
}

func (k *KV) Close() error {
	return k.db.Close()
}

func (k *KV) Get(key string) (value string, err error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	err = k.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	return value, handleError(err)
}

func (k *KV) Set(key, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	_, err := k.db.ExecContext(ctx, `INSERT INTO kv(key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().Unix())
	return handleError(err)
}

func (k *KV) Delete(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	_, err := k.db.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key)
	return handleError(err)
}

// handleError hides the driver behind the storage package's errors.
func handleError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return storage.ErrNotExist
	default:
		log.Error().Err(err).Msg("sqlite kv error")
		return errors.Join(storage.ErrInternal, err)
	}
}
