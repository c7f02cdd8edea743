package repository

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"
)

type boltKeyValueStore struct {
	db     *bbolt.DB
	bucket []byte
}

func NewBoltKeyValueStore(db *bbolt.DB, bucket string) (KeyValueStore, error) {
	err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("can't create bucket %s: %w", bucket, err)
	}

	return &boltKeyValueStore{
		db:     db,
		bucket: []byte(bucket),
	}, nil
}

func (that *boltKeyValueStore) Get(_ context.Context, key string) (string, error) {
	var (
		value string
		found bool
	)

	err := that.db.View(func(tx *bbolt.Tx) error {
		// bolt values are only valid inside the transaction
		if raw := tx.Bucket(that.bucket).Get([]byte(key)); raw != nil {
			value, found = string(raw), true
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("can't get key %s: %w", key, err)
	}

	if !found {
		return "", ErrKeyNotFound
	}

	return value, nil
}

func (that *boltKeyValueStore) Set(_ context.Context, key, value string) error {
	err := that.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(that.bucket).Put([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("can't set key %s: %w", key, err)
	}

	return nil
}

func (that *boltKeyValueStore) Delete(_ context.Context, key string) error {
	err := that.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(that.bucket).Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("can't delete key %s: %w", key, err)
	}

	return nil
}
