package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

type memoryDocument struct {
	seq    uint64
	fields Fields
}

type memoryDocumentStore struct {
	mu       sync.Mutex
	seq      uint64
	docs     map[string]map[string]*memoryDocument
	watchers map[string]map[*memoryWatcher]struct{}
}

func NewMemoryDocumentStore() DocumentStore {
	return &memoryDocumentStore{
		docs:     make(map[string]map[string]*memoryDocument),
		watchers: make(map[string]map[*memoryWatcher]struct{}),
	}
}

func (that *memoryDocumentStore) Create(_ context.Context, collection string, fields Fields) (string, error) {
	id := uuid.NewString()

	that.mu.Lock()
	defer that.mu.Unlock()

	if that.docs[collection] == nil {
		that.docs[collection] = make(map[string]*memoryDocument)
	}

	that.seq++
	that.docs[collection][id] = &memoryDocument{seq: that.seq, fields: fields.Clone()}
	that.notifyLocked(collection, id)

	return id, nil
}

func (that *memoryDocumentStore) Get(_ context.Context, collection, id string) (*Snapshot, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.snapshotLocked(collection, id), nil
}

// GetOne returns the oldest matching document.
func (that *memoryDocumentStore) GetOne(_ context.Context, query Query) (*Snapshot, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	var (
		foundID  string
		foundDoc *memoryDocument
	)

	for id, doc := range that.docs[query.Collection] {
		if !matchesAll(doc.fields, query.Filters) {
			continue
		}

		if foundDoc == nil || doc.seq < foundDoc.seq {
			foundID, foundDoc = id, doc
		}
	}

	if foundDoc == nil {
		return nil, ErrDocumentNotFound
	}

	return &Snapshot{ID: foundID, Exists: true, Fields: foundDoc.fields.Clone()}, nil
}

func (that *memoryDocumentStore) Update(_ context.Context, collection, id string, fields Fields, merge bool) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	doc, ok := that.docs[collection][id]
	if !ok {
		return fmt.Errorf("%w: %s/%s", ErrDocumentNotFound, collection, id)
	}

	if !merge {
		doc.fields = make(Fields, len(fields))
	}

	for name, value := range fields.Clone() {
		doc.fields[name] = value
	}

	that.notifyLocked(collection, id)

	return nil
}

func (that *memoryDocumentStore) Delete(_ context.Context, collection, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.docs[collection][id]; !ok {
		return nil
	}

	delete(that.docs[collection], id)
	that.notifyLocked(collection, id)

	return nil
}

// Subscribe delivers the current snapshot first, then one snapshot per change in write order.
func (that *memoryDocumentStore) Subscribe(_ context.Context, collection, id string, callback func(*Snapshot)) (Subscription, error) {
	watcher := &memoryWatcher{
		store:    that,
		key:      watchKey(collection, id),
		callback: callback,
		signal:   make(chan struct{}, 1),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}

	that.mu.Lock()
	if that.watchers[watcher.key] == nil {
		that.watchers[watcher.key] = make(map[*memoryWatcher]struct{})
	}
	that.watchers[watcher.key][watcher] = struct{}{}
	watcher.push(that.snapshotLocked(collection, id))
	that.mu.Unlock()

	go watcher.run()

	return watcher, nil
}

func (that *memoryDocumentStore) snapshotLocked(collection, id string) *Snapshot {
	doc, ok := that.docs[collection][id]
	if !ok {
		return &Snapshot{ID: id}
	}

	return &Snapshot{ID: id, Exists: true, Fields: doc.fields.Clone()}
}

func (that *memoryDocumentStore) notifyLocked(collection, id string) {
	watchers := that.watchers[watchKey(collection, id)]
	if len(watchers) == 0 {
		return
	}

	for watcher := range watchers {
		watcher.push(that.snapshotLocked(collection, id))
	}
}

func (that *memoryDocumentStore) unwatch(watcher *memoryWatcher) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.watchers[watcher.key], watcher)
	if len(that.watchers[watcher.key]) == 0 {
		delete(that.watchers, watcher.key)
	}
}

func watchKey(collection, id string) string {
	return collection + "/" + id
}

type memoryWatcher struct {
	store    *memoryDocumentStore
	key      string
	callback func(*Snapshot)

	mu      sync.Mutex
	pending []*Snapshot

	signal   chan struct{}
	done     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
}

func (that *memoryWatcher) push(snapshot *Snapshot) {
	that.mu.Lock()
	that.pending = append(that.pending, snapshot)
	that.mu.Unlock()

	select {
	case that.signal <- struct{}{}:
	default:
	}
}

func (that *memoryWatcher) run() {
	defer close(that.stopped)

	for {
		select {
		case <-that.done:
			return
		case <-that.signal:
		}

		that.mu.Lock()
		batch := that.pending
		that.pending = nil
		that.mu.Unlock()

		for _, snapshot := range batch {
			select {
			case <-that.done:
				return
			default:
			}

			that.callback(snapshot)
		}
	}
}

func (that *memoryWatcher) Remove() {
	that.stopOnce.Do(func() {
		that.store.unwatch(that)
		close(that.done)
	})

	<-that.stopped
}
