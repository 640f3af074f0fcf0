package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/dgraph-io/badger/v4"

	"github.com/roverlab/mapmem/internal/graph"
)

// Key layout: one record per signature. The zero-padded id keeps badger's
// lexicographic iteration in ascending id order.
const prefixSignature = "sig:"

func signatureKey(id int) []byte {
	return []byte(fmt.Sprintf("%s%010d", prefixSignature, id))
}

// BadgerStore is a BadgerDB-backed SignatureStore.
type BadgerStore struct {
	mu sync.RWMutex
	db *badger.DB
}

// NewBadgerStore creates a new, unopened BadgerDB store.
func NewBadgerStore() *BadgerStore {
	return &BadgerStore{}
}

// Open opens or creates the BadgerDB database at the given path.
func (b *BadgerStore) Open(path string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	opts := badger.DefaultOptions(path).
		WithNumCompactors(2).
		WithLoggingLevel(badger.ERROR) // Suppress INFO/WARNING logs

	db, err := badger.Open(opts)
	if err != nil {
		return fmt.Errorf("opening badger DB: %w", err)
	}
	b.db = db
	return nil
}

// Close releases all resources held by the store.
func (b *BadgerStore) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.db == nil {
		return nil
	}
	err := b.db.Close()
	b.db = nil
	return err
}

// Put implements SignatureStore.
func (b *BadgerStore) Put(ctx context.Context, sig *graph.Signature) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.db == nil {
		return errors.New("storage: store not open")
	}

	data, err := json.Marshal(sig.Snapshot())
	if err != nil {
		return fmt.Errorf("encoding signature %d: %w", sig.ID(), err)
	}
	err = b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(signatureKey(sig.ID()), data)
	})
	if err != nil {
		return fmt.Errorf("storing signature %d: %w", sig.ID(), err)
	}
	return nil
}

// Get implements SignatureStore.
func (b *BadgerStore) Get(ctx context.Context, id int) (*graph.Signature, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.db == nil {
		return nil, errors.New("storage: store not open")
	}

	var snap graph.SignatureSnapshot
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(signatureKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &snap)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading signature %d: %w", id, err)
	}
	return graph.FromSnapshot(&snap), nil
}

// Delete implements SignatureStore.
func (b *BadgerStore) Delete(ctx context.Context, id int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.db == nil {
		return errors.New("storage: store not open")
	}

	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(signatureKey(id))
	})
	if err != nil {
		return fmt.Errorf("deleting signature %d: %w", id, err)
	}
	return nil
}

// IDs implements SignatureStore.
func (b *BadgerStore) IDs(ctx context.Context) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.db == nil {
		return nil, errors.New("storage: store not open")
	}

	var ids []int
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefixSignature)
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			key := string(it.Item().Key())
			id, err := strconv.Atoi(strings.TrimPrefix(key, prefixSignature))
			if err != nil {
				continue
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing signatures: %w", err)
	}
	return ids, nil
}

// Count implements SignatureStore.
func (b *BadgerStore) Count(ctx context.Context) (int, error) {
	ids, err := b.IDs(ctx)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}
