package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// sqliteKeyValueStore expects the kv table created by storage.SQLiteStorage.Init.
type sqliteKeyValueStore struct {
	conn *sql.DB
}

func NewSQLiteKeyValueStore(conn *sql.DB) KeyValueStore {
	return &sqliteKeyValueStore{
		conn: conn,
	}
}

func (that *sqliteKeyValueStore) Get(ctx context.Context, key string) (string, error) {
	query := `SELECT value FROM kv WHERE key = ?`

	var value string

	err := that.conn.QueryRowContext(ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("can't get key %s: %w", key, err)
	}

	return value, nil
}

func (that *sqliteKeyValueStore) Set(ctx context.Context, key, value string) error {
	query := `INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`

	if _, err := that.conn.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("can't set key %s: %w", key, err)
	}

	return nil
}

func (that *sqliteKeyValueStore) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM kv WHERE key = ?`

	if _, err := that.conn.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("can't delete key %s: %w", key, err)
	}

	return nil
}
