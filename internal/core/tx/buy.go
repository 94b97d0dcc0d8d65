package tx

import (
	"errors"
	"math"

	"github.com/nftstore/nftstored/internal/core/ledger/entry"
	"github.com/nftstore/nftstored/internal/core/ledger/keylet"
	"github.com/nftstore/nftstored/internal/core/token"
	"github.com/nftstore/nftstored/internal/core/types"
)

func init() {
	Register(TypeBuyAsset, func() Transaction {
		return &BuyAsset{BaseTx: *NewBaseTx(TypeBuyAsset, types.ZeroAddress)}
	})
}

// BuyAsset purchases a listed asset: a sold record is allocated at the
// current sale index, the escrowed unit moves to the buyer, the price
// moves from buyer to seller and the fee from the record's balance to
// the store owner, all in one unit of work.
//
// Receiver and Holder are caller-supplied and only checked for equality
// against the recorded seller and store owner. A mismatch rejects the
// transition; the correct address is never substituted.
type BuyAsset struct {
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

	// Receiver is the address to receive the sale price; must equal
	// the record's seller (required)
	Receiver types.Address `json:"Receiver"`

	// Holder is the address to receive the fee; must equal the store
	// owner (required)
	Holder types.Address `json:"Holder"`
}

// NewBuyAsset creates a new BuyAsset transition.
func NewBuyAsset(account, assetID types.Address, storeName string, storeBump uint8, bumps entry.RecordBumps, receiver, holder types.Address) *BuyAsset {
	return &BuyAsset{
		BaseTx:    *NewBaseTx(TypeBuyAsset, account),
		AssetID:   assetID,
		StoreName: storeName,
		StoreBump: storeBump,
		Bumps:     bumps,
		Receiver:  receiver,
		Holder:    holder,
	}
}

// Validate validates the BuyAsset transition.
func (t *BuyAsset) Validate() error {
	if err := t.BaseTx.Validate(); err != nil {
		return err
	}
	if t.AssetID.IsZero() {
		return errors.New("temINVALID: AssetID is required")
	}
	if t.Receiver.IsZero() {
		return errors.New("temINVALID: Receiver is required")
	}
	if t.Holder.IsZero() {
		return errors.New("temINVALID: Holder is required")
	}
	return nil
}

// Apply applies a BuyAsset transition.
func (t *BuyAsset) Apply(ctx *ApplyContext) Result {
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

	if t.Receiver != record.Seller {
		return TecNO_PERMISSION
	}
	if t.Holder != store.Owner {
		return TecNO_PERMISSION
	}

	_, buyerTokenK, res := callerTokenAccount(ctx, ctx.AccountID, t.AssetID)
	if !res.IsSuccess() {
		return res
	}

	// Allocate the immutable receipt at the current sale index. The
	// insert fails if the derived address is occupied, so an index can
	// never be reused.
	sold := &entry.SoldRecord{
		Index:     record.CurrentIndex,
		Price:     record.Price,
		Seller:    record.Seller,
		Customer:  ctx.AccountID,
		Rate:      record.Rate,
		AssetID:   record.AssetID,
		CreatedAt: ctx.Timestamp,
	}
	soldData, err := sold.Serialize()
	if err != nil {
		return TefINTERNAL
	}
	soldK := keylet.Sold(t.AssetID, record.CurrentIndex)
	exists, err := ctx.View.Exists(soldK)
	if err != nil {
		return TefINTERNAL
	}
	if exists {
		return TecDUPLICATE
	}
	if err := ctx.View.Insert(soldK, soldData); err != nil {
		return TefINTERNAL
	}

	if record.CurrentIndex == math.MaxUint32 {
		return TecOVERFLOW
	}
	record.CurrentIndex++
	record.OnSale = false
	if err := record.AddVolume(record.Price); err != nil {
		return TecOVERFLOW
	}

	// Escrow release, signed by the store's derived authority.
	authority := token.StoreAuthority{
		TrimmedName: store.TrimmedName(),
		Bump:        store.Bump,
	}
	escrowK := keylet.RecordToken(t.AssetID, record.Bumps.TokenAccount)
	if res := tokenResult(token.Transfer(ctx.View, escrowK, buyerTokenK, authority, 1)); !res.IsSuccess() {
		return res
	}

	// Price to the seller, fee to the store owner.
	if record.Price != 0 {
		if res := ctx.Transfer(ctx.AccountID, t.Receiver, record.Price); !res.IsSuccess() {
			return res
		}
	}
	fee, ok := Fee(record.Price, record.Rate)
	if !ok {
		return TecOVERFLOW
	}
	if res := ctx.Transfer(recordK.Key, t.Holder, fee); !res.IsSuccess() {
		if res == TecUNFUNDED {
			return TecINSUFFICIENT_FUNDS
		}
		return res
	}

	if res := writeRecord(ctx, recordK, record); !res.IsSuccess() {
		return res
	}

	ctx.Emit(SoldEvent{
		Seller:    sold.Seller,
		AssetID:   sold.AssetID,
		Customer:  sold.Customer,
		Index:     sold.Index,
		Price:     sold.Price,
		Rate:      sold.Rate,
		CreatedAt: sold.CreatedAt,
	})
	return TesSUCCESS
}
