// Package service wires the settlement engine to persistence, event
// publication and the sale archive.
package service

import (
	"context"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/nftstore/nftstored/internal/core/ledger/keylet"
	"github.com/nftstore/nftstored/internal/core/types"
	"github.com/nftstore/nftstored/internal/storage/keyvaluedb"
)

// stateKeyPrefix namespaces ledger state entries in the key/value
// store.
var stateKeyPrefix = []byte("s:")

const defaultCacheSize = 4096

// Ledger is the base ledger view: reads go through an LRU cache to the
// key/value store, writes stage into a pending batch that Flush
// commits atomically. A transition whose staged commit fails part-way
// is discarded without touching storage.
type Ledger struct {
	db      keyvaluedb.DB
	cache   *lru.Cache[types.Address, []byte]
	overlay map[types.Address][]byte // nil value marks a pending delete
	ops     []keyvaluedb.BatchOperation
}

// NewLedger creates a ledger view over the given store.
func NewLedger(db keyvaluedb.DB) (*Ledger, error) {
	cache, err := lru.New[types.Address, []byte](defaultCacheSize)
	if err != nil {
		return nil, err
	}
	return &Ledger{
		db:      db,
		cache:   cache,
		overlay: make(map[types.Address][]byte),
	}, nil
}

func stateKey(addr types.Address) []byte {
	return append(append([]byte{}, stateKeyPrefix...), addr[:]...)
}

// Read reads a ledger entry, or nil if absent.
func (l *Ledger) Read(k keylet.Keylet) ([]byte, error) {
	if data, ok := l.overlay[k.Key]; ok {
		return data, nil
	}
	if data, ok := l.cache.Get(k.Key); ok {
		return data, nil
	}

	data, err := l.db.Read(context.Background(), stateKey(k.Key))
	if err != nil {
		if errors.Is(err, keyvaluedb.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}
	l.cache.Add(k.Key, data)
	return data, nil
}

// Exists checks if an entry exists.
func (l *Ledger) Exists(k keylet.Keylet) (bool, error) {
	data, err := l.Read(k)
	if err != nil {
		return false, err
	}
	return data != nil, nil
}

// Insert stages a new entry.
func (l *Ledger) Insert(k keylet.Keylet, data []byte) error {
	existing, err := l.Read(k)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("entry already exists at %s", k.Key)
	}
	l.stagePut(k.Key, data)
	return nil
}

// Update stages a modification of an existing entry.
func (l *Ledger) Update(k keylet.Keylet, data []byte) error {
	existing, err := l.Read(k)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("entry not found: %s", k.Key)
	}
	l.stagePut(k.Key, data)
	return nil
}

// Erase stages a deletion.
func (l *Ledger) Erase(k keylet.Keylet) error {
	existing, err := l.Read(k)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("entry not found: %s", k.Key)
	}
	l.overlay[k.Key] = nil
	l.ops = append(l.ops, keyvaluedb.BatchOperation{
		Type: keyvaluedb.BatchDelete,
		Key:  stateKey(k.Key),
	})
	return nil
}

func (l *Ledger) stagePut(addr types.Address, data []byte) {
	l.overlay[addr] = data
	l.ops = append(l.ops, keyvaluedb.BatchOperation{
		Type:  keyvaluedb.BatchPut,
		Key:   stateKey(addr),
		Value: data,
	})
}

// Flush commits all staged writes in one atomic batch and folds them
// into the cache.
func (l *Ledger) Flush(ctx context.Context) error {
	if len(l.ops) == 0 {
		return nil
	}
	if err := l.db.Batch(ctx, l.ops); err != nil {
		return fmt.Errorf("flush ledger batch: %w", err)
	}
	for addr, data := range l.overlay {
		if data == nil {
			l.cache.Remove(addr)
			continue
		}
		l.cache.Add(addr, data)
	}
	l.reset()
	return nil
}

// Discard drops all staged writes.
func (l *Ledger) Discard() {
	l.reset()
}

func (l *Ledger) reset() {
	l.overlay = make(map[types.Address][]byte)
	l.ops = nil
}
