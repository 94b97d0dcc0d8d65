package tx

import (
	"errors"
	"fmt"

	"github.com/nftstore/nftstored/internal/core/ledger/entry"
	"github.com/nftstore/nftstored/internal/core/ledger/keylet"
	"github.com/nftstore/nftstored/internal/core/types"
)

func init() {
	Register(TypeInitializeStore, func() Transaction {
		return &InitializeStore{BaseTx: *NewBaseTx(TypeInitializeStore, types.ZeroAddress)}
	})
	Register(TypeFreezeStore, func() Transaction {
		return &FreezeStore{BaseTx: *NewBaseTx(TypeFreezeStore, types.ZeroAddress)}
	})
	Register(TypeThawStore, func() Transaction {
		return &ThawStore{BaseTx: *NewBaseTx(TypeThawStore, types.ZeroAddress)}
	})
}

// InitializeStore creates a named store owned by the caller. The name
// is persisted space-padded; the trimmed form plus the bump is the
// store's derivation seed.
type InitializeStore struct {
	BaseTx

	// Name is the store name, at most 10 bytes (required)
	Name string `json:"Name"`

	// Bump is the disambiguation byte for the store address (required)
	Bump uint8 `json:"Bump"`
}

// NewInitializeStore creates a new InitializeStore transition.
func NewInitializeStore(account types.Address, name string, bump uint8) *InitializeStore {
	return &InitializeStore{
		BaseTx: *NewBaseTx(TypeInitializeStore, account),
		Name:   name,
		Bump:   bump,
	}
}

// Validate validates the InitializeStore transition.
func (t *InitializeStore) Validate() error {
	if err := t.BaseTx.Validate(); err != nil {
		return err
	}
	if len(entry.TrimName([]byte(t.Name))) == 0 {
		return errors.New("temBAD_NAME: Name is required")
	}
	if len(t.Name) > entry.StoreNameLen {
		return fmt.Errorf("temBAD_NAME: %w", entry.ErrNameTooLong)
	}
	return nil
}

// Apply applies an InitializeStore transition.
func (t *InitializeStore) Apply(ctx *ApplyContext) Result {
	padded, err := entry.PadName(t.Name)
	if err != nil {
		return TemBAD_NAME
	}

	k := keylet.Store(entry.TrimName([]byte(t.Name)), t.Bump)
	exists, err := ctx.View.Exists(k)
	if err != nil {
		return TefINTERNAL
	}
	if exists {
		return TecDUPLICATE
	}

	store := &entry.Store{
		Name:  padded,
		Bump:  t.Bump,
		Owner: ctx.AccountID,
	}
	data, err := store.Serialize()
	if err != nil {
		return TefINTERNAL
	}
	if err := ctx.View.Insert(k, data); err != nil {
		return TefINTERNAL
	}
	return TesSUCCESS
}

// FreezeStore halts new listings on a store. In-flight sales are
// unaffected: sell validates against the store flag, buy and redeem
// validate against the listing record.
type FreezeStore struct {
	BaseTx

	// Name is the store name (required)
	Name string `json:"Name"`

	// Bump is the store's stored disambiguation byte (required)
	Bump uint8 `json:"Bump"`
}

// NewFreezeStore creates a new FreezeStore transition.
func NewFreezeStore(account types.Address, name string, bump uint8) *FreezeStore {
	return &FreezeStore{
		BaseTx: *NewBaseTx(TypeFreezeStore, account),
		Name:   name,
		Bump:   bump,
	}
}

// Apply applies a FreezeStore transition.
func (t *FreezeStore) Apply(ctx *ApplyContext) Result {
	store, k, res := loadStore(ctx, t.Name, t.Bump)
	if !res.IsSuccess() {
		return res
	}
	if store.Owner != ctx.AccountID {
		return TecNO_PERMISSION
	}
	if store.Frozen {
		return TecFROZEN
	}

	store.Frozen = true
	return writeStore(ctx, k, store)
}

// ThawStore lifts a freeze set by FreezeStore.
type ThawStore struct {
	BaseTx

	// Name is the store name (required)
	Name string `json:"Name"`

	// Bump is the store's stored disambiguation byte (required)
	Bump uint8 `json:"Bump"`
}

// NewThawStore creates a new ThawStore transition.
func NewThawStore(account types.Address, name string, bump uint8) *ThawStore {
	return &ThawStore{
		BaseTx: *NewBaseTx(TypeThawStore, account),
		Name:   name,
		Bump:   bump,
	}
}

// Apply applies a ThawStore transition.
func (t *ThawStore) Apply(ctx *ApplyContext) Result {
	store, k, res := loadStore(ctx, t.Name, t.Bump)
	if !res.IsSuccess() {
		return res
	}
	if store.Owner != ctx.AccountID {
		return TecNO_PERMISSION
	}
	if !store.Frozen {
		return TecNOT_FROZEN
	}

	store.Frozen = false
	return writeStore(ctx, k, store)
}
