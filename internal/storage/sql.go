package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// SQLStore persists slots in the kv_slots table created by db.Open.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, error) {
	var v []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM kv_slots WHERE slot=$1`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (s *SQLStore) PutMany(ctx context.Context, entries map[string][]byte) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UnixMilli()
	for k, v := range entries {
		if _, err := tx.ExecContext(ctx, `INSERT INTO kv_slots (slot,data,updated_at)
			VALUES ($1,$2,$3)
			ON CONFLICT (slot) DO UPDATE SET data=EXCLUDED.data, updated_at=EXCLUDED.updated_at`,
			k, v, now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLStore) DeleteMany(ctx context.Context, keys ...string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, k := range keys {
		if _, err := tx.ExecContext(ctx, `DELETE FROM kv_slots WHERE slot=$1`, k); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLStore) Close() error { return s.db.Close() }
