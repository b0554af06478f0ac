// Package storage defines the key-value port every ChatVault collection is
// persisted through, plus an in-memory implementation for tests and a
// SQLite-backed one for production.
//
// Values are opaque JSON blobs; the stores above this package own encoding.
// A Batch groups writes that must land together (for example a conversation
// index entry and its message blob): the SQLite store applies a batch inside
// a single transaction.
package storage

import "context"

// Store is the persistence port.
//
// Get returns common.ErrorNotFound when the key is absent. Write failures
// are wrapped with common.ErrorStorageFailure so callers can match them with
// errors.Is.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error

	// Apply executes every operation of the batch, atomically where the
	// substrate allows it.
	Apply(ctx context.Context, batch *Batch) error

	Close() error
}

type batchOp struct {
	key    string
	value  []byte
	delete bool
}

// Batch is an ordered list of writes applied together via Store.Apply.
type Batch struct {
	ops []batchOp
}

func NewBatch() *Batch { return &Batch{} }

func (b *Batch) Set(key string, value []byte) *Batch {
	b.ops = append(b.ops, batchOp{key: key, value: value})
	return b
}

func (b *Batch) Delete(key string) *Batch {
	b.ops = append(b.ops, batchOp{key: key, delete: true})
	return b
}

func (b *Batch) Len() int { return len(b.ops) }
