package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has never been written or was deleted.
var ErrNotFound = errors.New("storage: key not found")

// KV is key/value byte storage that survives process restarts.
//
// PutMany and DeleteMany are all-or-nothing: a concurrent reader observes
// either every entry of the batch or none of them.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	PutMany(ctx context.Context, entries map[string][]byte) error
	DeleteMany(ctx context.Context, keys ...string) error
	Close() error
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
