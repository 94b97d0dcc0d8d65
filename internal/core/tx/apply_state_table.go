package tx

import (
	"fmt"

	"github.com/nftstore/nftstored/internal/core/ledger/keylet"
	"github.com/nftstore/nftstored/internal/core/types"
)

// LedgerView provides read/write access to ledger state.
type LedgerView interface {
	// Read reads a ledger entry. Returns nil data if absent.
	Read(k keylet.Keylet) ([]byte, error)

	// Exists checks if an entry exists.
	Exists(k keylet.Keylet) (bool, error)

	// Insert adds a new entry. Fails if the address is occupied.
	Insert(k keylet.Keylet, data []byte) error

	// Update modifies an existing entry.
	Update(k keylet.Keylet, data []byte) error

	// Erase removes an entry.
	Erase(k keylet.Keylet) error
}

// Action represents the type of modification to a ledger entry.
type Action int

const (
	// ActionCache means the entry was read but not modified.
	ActionCache Action = iota
	// ActionInsert means a new entry was created.
	ActionInsert
	// ActionModify means an existing entry was modified.
	ActionModify
	// ActionErase means an entry was deleted.
	ActionErase
)

// TrackedEntry represents a ledger entry being tracked for changes.
type TrackedEntry struct {
	Keylet   keylet.Keylet
	Action   Action
	Original []byte // Original state (nil for inserts)
	Current  []byte // Current state (nil after erase)
}

// ApplyStateTable wraps a LedgerView and stages all modifications of
// one transition. Nothing reaches the base view until Commit; a failed
// transition simply drops the table, which is the all-or-nothing
// contract.
type ApplyStateTable struct {
	base  LedgerView
	items map[types.Address]*TrackedEntry
}

// NewApplyStateTable creates a new ApplyStateTable over the given base
// view.
func NewApplyStateTable(base LedgerView) *ApplyStateTable {
	return &ApplyStateTable{
		base:  base,
		items: make(map[types.Address]*TrackedEntry),
	}
}

// Read reads a ledger entry, tracking it as cached.
func (t *ApplyStateTable) Read(k keylet.Keylet) ([]byte, error) {
	if e, ok := t.items[k.Key]; ok {
		if e.Action == ActionErase {
			return nil, nil
		}
		return e.Current, nil
	}

	data, err := t.base.Read(k)
	if err != nil {
		return nil, err
	}
	if data != nil {
		t.items[k.Key] = &TrackedEntry{
			Keylet:   k,
			Action:   ActionCache,
			Original: data,
			Current:  data,
		}
	}
	return data, nil
}

// Exists checks if an entry exists.
func (t *ApplyStateTable) Exists(k keylet.Keylet) (bool, error) {
	if e, ok := t.items[k.Key]; ok {
		return e.Action != ActionErase, nil
	}
	return t.base.Exists(k)
}

// Insert adds a new entry. Inserting at an occupied address fails,
// which is what rejects re-initialization of an existing derived
// record.
func (t *ApplyStateTable) Insert(k keylet.Keylet, data []byte) error {
	if e, ok := t.items[k.Key]; ok {
		if e.Action != ActionErase {
			return fmt.Errorf("entry already exists at %s", k.Key)
		}
		e.Action = ActionModify
		e.Current = data
		return nil
	}

	exists, err := t.base.Exists(k)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("entry already exists at %s", k.Key)
	}

	t.items[k.Key] = &TrackedEntry{
		Keylet:  k,
		Action:  ActionInsert,
		Current: data,
	}
	return nil
}

// Update modifies an existing entry.
func (t *ApplyStateTable) Update(k keylet.Keylet, data []byte) error {
	if e, ok := t.items[k.Key]; ok {
		if e.Action == ActionErase {
			return fmt.Errorf("entry not found (deleted): %s", k.Key)
		}
		if e.Action == ActionCache {
			e.Action = ActionModify
		}
		e.Current = data
		return nil
	}

	exists, err := t.base.Exists(k)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("entry not found: %s", k.Key)
	}

	original, err := t.base.Read(k)
	if err != nil {
		return err
	}
	t.items[k.Key] = &TrackedEntry{
		Keylet:   k,
		Action:   ActionModify,
		Original: original,
		Current:  data,
	}
	return nil
}

// Erase removes an entry.
func (t *ApplyStateTable) Erase(k keylet.Keylet) error {
	if e, ok := t.items[k.Key]; ok {
		if e.Action == ActionErase {
			return fmt.Errorf("entry not found (deleted): %s", k.Key)
		}
		if e.Action == ActionInsert {
			delete(t.items, k.Key)
			return nil
		}
		e.Action = ActionErase
		e.Current = nil
		return nil
	}

	exists, err := t.base.Exists(k)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("entry not found: %s", k.Key)
	}

	original, err := t.base.Read(k)
	if err != nil {
		return err
	}
	t.items[k.Key] = &TrackedEntry{
		Keylet:   k,
		Action:   ActionErase,
		Original: original,
	}
	return nil
}

// Commit writes all staged modifications to the base view.
func (t *ApplyStateTable) Commit() error {
	for _, e := range t.items {
		var err error
		switch e.Action {
		case ActionInsert:
			err = t.base.Insert(e.Keylet, e.Current)
		case ActionModify:
			err = t.base.Update(e.Keylet, e.Current)
		case ActionErase:
			err = t.base.Erase(e.Keylet)
		case ActionCache:
			// read-only, nothing to write
		}
		if err != nil {
			return fmt.Errorf("commit %s: %w", e.Keylet.Key, err)
		}
	}
	return nil
}
