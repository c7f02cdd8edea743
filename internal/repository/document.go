package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
)

var ErrDocumentNotFound = errors.New("document not found")

// Fields holds JSON-encoded document values keyed by field name.
type Fields map[string]json.RawMessage

func (that Fields) Clone() Fields {
	clone := make(Fields, len(that))
	for name, value := range that {
		clone[name] = append(json.RawMessage(nil), value...)
	}

	return clone
}

// Snapshot is one observed version of a document. Exists is false once the document is deleted.
type Snapshot struct {
	ID     string
	Exists bool
	Fields Fields
}

type Operator string

const (
	OpEqual    Operator = "=="
	OpNotEqual Operator = "!="
)

type Filter struct {
	Field string
	Op    Operator
	Value json.RawMessage
}

type Query struct {
	Collection string
	Filters    []Filter
}

type Subscription interface {
	// Remove stops delivery and waits for a running callback, so it must not be called from the callback.
	// The callback is never invoked after Remove returns.
	Remove()
}

// DocumentStore is a shared mutable document service with change notifications.
type DocumentStore interface {
	Create(ctx context.Context, collection string, fields Fields) (string, error)
	Get(ctx context.Context, collection, id string) (*Snapshot, error)
	GetOne(ctx context.Context, query Query) (*Snapshot, error)
	// Update fails with ErrDocumentNotFound for missing documents. With merge unset the fields replace the document.
	Update(ctx context.Context, collection, id string, fields Fields, merge bool) error
	Delete(ctx context.Context, collection, id string) error
	Subscribe(ctx context.Context, collection, id string, callback func(*Snapshot)) (Subscription, error)
}

func (that Filter) Matches(fields Fields) bool {
	value, ok := fields[that.Field]
	equal := ok && jsonEqual(value, that.Value)

	switch that.Op {
	case OpEqual:
		return equal
	case OpNotEqual:
		return !equal
	default:
		return false
	}
}

func matchesAll(fields Fields, filters []Filter) bool {
	for _, filter := range filters {
		if !filter.Matches(fields) {
			return false
		}
	}

	return true
}

func jsonEqual(a, b json.RawMessage) bool {
	var left, right bytes.Buffer
	if json.Compact(&left, a) != nil || json.Compact(&right, b) != nil {
		return bytes.Equal(a, b)
	}

	return bytes.Equal(left.Bytes(), right.Bytes())
}
