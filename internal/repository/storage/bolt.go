package storage

import (
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

const boltOpenTimeout = time.Second

type BoltStorage struct {
	Connection *bbolt.DB
}

func NewBoltStorage(path string) (*BoltStorage, error) {
	conn, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: boltOpenTimeout})
	if err != nil {
		return nil, fmt.Errorf("can't open bolt database: %w", err)
	}

	return &BoltStorage{Connection: conn}, nil
}

func (that *BoltStorage) Close() error {
	if err := that.Connection.Close(); err != nil {
		return fmt.Errorf("can't close bolt database: %w", err)
	}

	return nil
}
