package tx

import (
	"errors"

	"github.com/nftstore/nftstored/internal/core/ledger/entry"
	"github.com/nftstore/nftstored/internal/core/ledger/keylet"
	"github.com/nftstore/nftstored/internal/core/token"
	"github.com/nftstore/nftstored/internal/core/types"
)

func init() {
	Register(TypeRedeemAsset, func() Transaction {
		return &RedeemAsset{BaseTx: *NewBaseTx(TypeRedeemAsset, types.ZeroAddress)}
	})
}

// RedeemAsset withdraws an unsold listing: the escrowed asset unit
// returns to the caller's custody, authorized by the store's derived
// signing authority, and the held listing fee is paid back out of the
// record's balance. No sold record is created and the sale index does
// not move.
type RedeemAsset struct {
	BaseTx

	// AssetID is the mint address of the asset (required)
	AssetID types.Address `json:"AssetID"`

	// StoreName names the store the record belongs to (required)
	StoreName string `json:"StoreName"`

	// StoreBump is the store's stored disambiguation byte (required)
	StoreBump uint8 `json:"StoreBump"`

	// Bumps are the disambiguation bytes assigned at record
	// initialization (required)
	Bumps entry.RecordBumps `json:"Bumps"`
}

// NewRedeemAsset creates a new RedeemAsset transition.
func NewRedeemAsset(account, assetID types.Address, storeName string, storeBump uint8, bumps entry.RecordBumps) *RedeemAsset {
	return &RedeemAsset{
		BaseTx:    *NewBaseTx(TypeRedeemAsset, account),
		AssetID:   assetID,
		StoreName: storeName,
		StoreBump: storeBump,
		Bumps:     bumps,
	}
}

// Validate validates the RedeemAsset transition.
func (t *RedeemAsset) Validate() error {
	if err := t.BaseTx.Validate(); err != nil {
		return err
	}
	if t.AssetID.IsZero() {
		return errors.New("temINVALID: AssetID is required")
	}
	return nil
}

// Apply applies a RedeemAsset transition.
func (t *RedeemAsset) Apply(ctx *ApplyContext) Result {
	store, _, res := loadStore(ctx, t.StoreName, t.StoreBump)
	if !res.IsSuccess() {
		return res
	}

	record, recordK, res := loadRecord(ctx, t.AssetID, t.Bumps.Record)
	if !res.IsSuccess() {
		return res
	}
	if !record.OnSale {
		return TecNOT_ON_SALE
	}

	_, callerTokenK, res := callerTokenAccount(ctx, ctx.AccountID, t.AssetID)
	if !res.IsSuccess() {
		return res
	}

	// The store's derived address signs the escrow release. The
	// capability is re-derived from the stored trimmed name and bump;
	// it never involves a key.
	authority := token.StoreAuthority{
		TrimmedName: store.TrimmedName(),
		Bump:        store.Bump,
	}
	escrowK := keylet.RecordToken(t.AssetID, record.Bumps.TokenAccount)
	err := token.Transfer(ctx.View, escrowK, callerTokenK, authority, 1)
	if res := tokenResult(err); !res.IsSuccess() {
		return res
	}

	// Pay the held listing fee back, recomputed identically to sell.
	fee, ok := Fee(record.Price, record.Rate)
	if !ok {
		return TecOVERFLOW
	}
	if res := ctx.Transfer(recordK.Key, ctx.AccountID, fee); !res.IsSuccess() {
		if res == TecUNFUNDED {
			return TecINSUFFICIENT_FUNDS
		}
		return res
	}

	record.OnSale = false
	if res := writeRecord(ctx, recordK, record); !res.IsSuccess() {
		return res
	}

	ctx.Emit(RedeemedEvent{
		Redeemer: ctx.AccountID,
		AssetID:  t.AssetID,
	})
	return TesSUCCESS
}
