package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	documentDeleted = "deleted"
)

// updateScript writes only existing documents and publishes the change in the same step.
// KEYS[1] document hash, KEYS[2] change channel, ARGV[1] merge flag, ARGV[2:] field/value pairs.
var updateScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return 0
end
if ARGV[1] == '0' then
	redis.call('DEL', KEYS[1])
end
redis.call('HSET', KEYS[1], unpack(ARGV, 2))
redis.call('PUBLISH', KEYS[2], 'changed')
return 1
`)

type redisDocumentStore struct {
	logger *slog.Logger
	client *redis.Client
}

func NewRedisDocumentStore(logger *slog.Logger, client *redis.Client) DocumentStore {
	return &redisDocumentStore{
		logger: logger.With("component", "redisDocumentStore"),
		client: client,
	}
}

func (that *redisDocumentStore) Create(ctx context.Context, collection string, fields Fields) (string, error) {
	id := uuid.NewString()

	seq, err := that.client.Incr(ctx, sequenceKey(collection)).Result()
	if err != nil {
		return "", fmt.Errorf("failed to allocate document sequence: %w", err)
	}

	_, err = that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, documentKey(collection, id), fieldValues(fields)...)
		pipe.ZAdd(ctx, indexKey(collection), redis.Z{Score: float64(seq), Member: id})
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to create document: %w", err)
	}

	return id, nil
}

func (that *redisDocumentStore) Get(ctx context.Context, collection, id string) (*Snapshot, error) {
	values, err := that.client.HGetAll(ctx, documentKey(collection, id)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	return snapshotFromHash(id, values), nil
}

// GetOne scans the collection index from the oldest document.
func (that *redisDocumentStore) GetOne(ctx context.Context, query Query) (*Snapshot, error) {
	ids, err := that.client.ZRange(ctx, indexKey(query.Collection), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	for _, id := range ids {
		snapshot, err := that.Get(ctx, query.Collection, id)
		if err != nil {
			return nil, err
		}

		if snapshot.Exists && matchesAll(snapshot.Fields, query.Filters) {
			return snapshot, nil
		}
	}

	return nil, ErrDocumentNotFound
}

func (that *redisDocumentStore) Update(ctx context.Context, collection, id string, fields Fields, merge bool) error {
	if len(fields) == 0 {
		return nil
	}

	mergeFlag := "0"
	if merge {
		mergeFlag = "1"
	}

	args := append([]interface{}{mergeFlag}, fieldValues(fields)...)
	keys := []string{documentKey(collection, id), changesChannel(collection, id)}

	written, err := updateScript.Run(ctx, that.client, keys, args...).Int()
	if err != nil {
		return fmt.Errorf("failed to update document: %w", err)
	}

	if written == 0 {
		return fmt.Errorf("%w: %s/%s", ErrDocumentNotFound, collection, id)
	}

	return nil
}

func (that *redisDocumentStore) Delete(ctx context.Context, collection, id string) error {
	_, err := that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, documentKey(collection, id))
		pipe.ZRem(ctx, indexKey(collection), id)
		pipe.Publish(ctx, changesChannel(collection, id), documentDeleted)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	return nil
}

// Subscribe returns once the channel subscription is confirmed. Each notification re-reads the document.
func (that *redisDocumentStore) Subscribe(ctx context.Context, collection, id string, callback func(*Snapshot)) (Subscription, error) {
	log := that.logger.With("method", "Subscribe", "collection", collection, "id", id)

	pubsub := that.client.Subscribe(ctx, changesChannel(collection, id))
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to document: %w", err)
	}

	subCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	subscription := &redisSubscription{
		cancel:  cancel,
		pubsub:  pubsub,
		stopped: make(chan struct{}),
	}

	messages := pubsub.Channel()

	go func() {
		defer close(subscription.stopped)

		deliver := func() {
			snapshot, err := that.Get(subCtx, collection, id)
			if err != nil {
				if subCtx.Err() == nil {
					log.Error("failed to read document", "error", err)
				}
				return
			}

			if subCtx.Err() != nil {
				return
			}

			callback(snapshot)
		}

		deliver()

		for {
			select {
			case <-subCtx.Done():
				return
			case message, ok := <-messages:
				if !ok {
					return
				}

				if message.Payload == documentDeleted {
					if subCtx.Err() == nil {
						callback(&Snapshot{ID: id})
					}
					continue
				}

				deliver()
			}
		}
	}()

	return subscription, nil
}

type redisSubscription struct {
	cancel  context.CancelFunc
	pubsub  *redis.PubSub
	stopped chan struct{}
}

func (that *redisSubscription) Remove() {
	that.cancel()
	_ = that.pubsub.Close()

	<-that.stopped
}

func snapshotFromHash(id string, values map[string]string) *Snapshot {
	if len(values) == 0 {
		return &Snapshot{ID: id}
	}

	fields := make(Fields, len(values))
	for name, value := range values {
		fields[name] = json.RawMessage(value)
	}

	return &Snapshot{ID: id, Exists: true, Fields: fields}
}

func fieldValues(fields Fields) []interface{} {
	values := make([]interface{}, 0, len(fields)*2)
	for name, value := range fields {
		values = append(values, name, string(value))
	}

	return values
}

func documentKey(collection, id string) string {
	return "doc:" + collection + ":" + id
}

func indexKey(collection string) string {
	return "doc:" + collection
}

func sequenceKey(collection string) string {
	return "doc:" + collection + ":seq"
}

func changesChannel(collection, id string) string {
	return documentKey(collection, id) + ":changes"
}
