package repository

import (
	"context"
	"errors"
)

var ErrKeyNotFound = errors.New("key not found")

// KeyValueStore is the device-local persistence used for scores and board snapshots.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
