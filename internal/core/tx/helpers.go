package tx

import (
	"errors"

	"github.com/nftstore/nftstored/internal/core/ledger/entry"
	"github.com/nftstore/nftstored/internal/core/ledger/keylet"
	"github.com/nftstore/nftstored/internal/core/token"
	"github.com/nftstore/nftstored/internal/core/types"
)

// loadStore reads the store derived from the supplied name and bump.
// The name is trimmed before derivation; a wrong bump derives an
// unoccupied address and fails with TecNO_ENTRY.
func loadStore(ctx *ApplyContext, name string, bump uint8) (*entry.Store, keylet.Keylet, Result) {
	k := keylet.Store(entry.TrimName([]byte(name)), bump)
	data, err := ctx.View.Read(k)
	if err != nil {
		return nil, k, TefINTERNAL
	}
	if data == nil {
		return nil, k, TecNO_ENTRY
	}
	store, err := entry.ParseStore(data)
	if err != nil {
		return nil, k, TefINTERNAL
	}
	return store, k, TesSUCCESS
}

// loadRecord reads the listing record derived from the asset and the
// supplied record bump.
func loadRecord(ctx *ApplyContext, assetID types.Address, bump uint8) (*entry.Record, keylet.Keylet, Result) {
	k := keylet.Record(assetID, bump)
	data, err := ctx.View.Read(k)
	if err != nil {
		return nil, k, TefINTERNAL
	}
	if data == nil {
		return nil, k, TecNO_ENTRY
	}
	record, err := entry.ParseRecord(data)
	if err != nil {
		return nil, k, TefINTERNAL
	}
	return record, k, TesSUCCESS
}

func writeStore(ctx *ApplyContext, k keylet.Keylet, store *entry.Store) Result {
	data, err := store.Serialize()
	if err != nil {
		return TefINTERNAL
	}
	if err := ctx.View.Update(k, data); err != nil {
		return TefINTERNAL
	}
	return TesSUCCESS
}

func writeRecord(ctx *ApplyContext, k keylet.Keylet, record *entry.Record) Result {
	data, err := record.Serialize()
	if err != nil {
		return TefINTERNAL
	}
	if err := ctx.View.Update(k, data); err != nil {
		return TefINTERNAL
	}
	return TesSUCCESS
}

// callerTokenAccount resolves the caller's custody account for the
// asset: the account must exist, be owned by the caller and hold the
// listed mint.
func callerTokenAccount(ctx *ApplyContext, caller, assetID types.Address) (*entry.TokenAccount, keylet.Keylet, Result) {
	k := keylet.UserToken(caller, assetID)
	data, err := ctx.View.Read(k)
	if err != nil {
		return nil, k, TefINTERNAL
	}
	if data == nil {
		return nil, k, TecNO_ENTRY
	}
	acct, err := entry.ParseTokenAccount(data)
	if err != nil {
		return nil, k, TefINTERNAL
	}
	if acct.Owner != caller {
		return nil, k, TecNO_PERMISSION
	}
	if acct.Mint != assetID {
		return nil, k, TecWRONG_ASSET
	}
	return acct, k, TesSUCCESS
}

// tokenResult maps token service errors to transition results.
func tokenResult(err error) Result {
	switch {
	case err == nil:
		return TesSUCCESS
	case errors.Is(err, token.ErrNoAccount):
		return TecNO_ENTRY
	case errors.Is(err, token.ErrNotAuthorized):
		return TecNO_PERMISSION
	case errors.Is(err, token.ErrMintMismatch):
		return TecWRONG_ASSET
	case errors.Is(err, token.ErrInsufficientUnits):
		return TecUNFUNDED
	case errors.Is(err, token.ErrUnitOverflow):
		return TecOVERFLOW
	default:
		return TefINTERNAL
	}
}
