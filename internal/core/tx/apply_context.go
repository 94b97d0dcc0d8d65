package tx

import (
	"math"

	"github.com/nftstore/nftstored/internal/core/ledger/entry"
	"github.com/nftstore/nftstored/internal/core/ledger/keylet"
	"github.com/nftstore/nftstored/internal/core/types"
)

// ApplyContext provides the state and helpers a transition needs while
// applying. The view is the staged ApplyStateTable.
type ApplyContext struct {
	// View provides read/write access to staged ledger state.
	View LedgerView

	// AccountID is the authenticated caller identity.
	AccountID types.Address

	// Timestamp is the trusted host-supplied unix time for this
	// transition.
	Timestamp int64

	// Events accumulates observable events, published only after the
	// transition commits.
	Events []Event
}

// Emit queues an event for publication on commit.
func (ctx *ApplyContext) Emit(ev Event) {
	ctx.Events = append(ctx.Events, ev)
}

// readAccount loads the account root for an address, or nil if absent.
func (ctx *ApplyContext) readAccount(addr types.Address) (*entry.AccountRoot, error) {
	data, err := ctx.View.Read(keylet.Account(addr))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}
	return entry.ParseAccountRoot(data)
}

func (ctx *ApplyContext) writeAccount(addr types.Address, acct *entry.AccountRoot, existed bool) error {
	data, err := acct.Serialize()
	if err != nil {
		return err
	}
	k := keylet.Account(addr)
	if existed {
		return ctx.View.Update(k, data)
	}
	return ctx.View.Insert(k, data)
}

// Transfer moves native value between two addresses with checked
// arithmetic. The debit fails with TecUNFUNDED when the source balance
// cannot cover the amount; a credit that would overflow the destination
// balance fails with TecOVERFLOW. Either failure discards the whole
// transition.
func (ctx *ApplyContext) Transfer(from, to types.Address, amount uint64) Result {
	if amount == 0 {
		return TesSUCCESS
	}

	src, err := ctx.readAccount(from)
	if err != nil {
		return TefINTERNAL
	}
	if src == nil || src.Balance < amount {
		return TecUNFUNDED
	}

	// A self-transfer nets zero. Writing debited and credited copies
	// of the same account separately would let the credit overwrite
	// the debit.
	if from == to {
		return TesSUCCESS
	}

	dst, err := ctx.readAccount(to)
	if err != nil {
		return TefINTERNAL
	}
	dstExisted := dst != nil
	if dst == nil {
		dst = &entry.AccountRoot{}
	}
	if dst.Balance > math.MaxUint64-amount {
		return TecOVERFLOW
	}

	src.Balance -= amount
	dst.Balance += amount

	if err := ctx.writeAccount(from, src, true); err != nil {
		return TefINTERNAL
	}
	if err := ctx.writeAccount(to, dst, dstExisted); err != nil {
		return TefINTERNAL
	}
	return TesSUCCESS
}

// Balance returns the native balance held at an address, zero if the
// address has no account root.
func (ctx *ApplyContext) Balance(addr types.Address) (uint64, error) {
	acct, err := ctx.readAccount(addr)
	if err != nil {
		return 0, err
	}
	if acct == nil {
		return 0, nil
	}
	return acct.Balance, nil
}
