package repository

import (
	"context"
	"sync"
)

type memoryKeyValueStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryKeyValueStore() KeyValueStore {
	return &memoryKeyValueStore{
		values: make(map[string]string),
	}
}

func (that *memoryKeyValueStore) Get(_ context.Context, key string) (string, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	value, ok := that.values[key]
	if !ok {
		return "", ErrKeyNotFound
	}

	return value, nil
}

func (that *memoryKeyValueStore) Set(_ context.Context, key, value string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.values[key] = value

	return nil
}

func (that *memoryKeyValueStore) Delete(_ context.Context, key string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.values, key)

	return nil
}
