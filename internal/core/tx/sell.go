package tx

import (
	"errors"

	"github.com/nftstore/nftstored/internal/core/ledger/entry"
	"github.com/nftstore/nftstored/internal/core/ledger/keylet"
	"github.com/nftstore/nftstored/internal/core/token"
	"github.com/nftstore/nftstored/internal/core/types"
)

// ErrInvalidRate is returned by Validate when the rate is below 1.
var ErrInvalidRate = errors.New("temINVALID_RATE: rate must be at least 1")

func init() {
	Register(TypeSellAsset, func() Transaction {
		return &SellAsset{BaseTx: *NewBaseTx(TypeSellAsset, types.ZeroAddress)}
	})
}

// SellAsset lists an initialized asset for sale: the asset unit moves
// into store escrow custody and the listing fee is debited from the
// seller onto the record's own address, paid at listing time.
type SellAsset struct {
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

	// Price is the sale price in native units (required, may be 0)
	Price uint64 `json:"Price"`

	// Rate is the owner fee in basis points, clamped into [1, 5000]
	// (required, must be >= 1)
	Rate uint16 `json:"Rate"`
}

// NewSellAsset creates a new SellAsset transition.
func NewSellAsset(account, assetID types.Address, storeName string, storeBump uint8, bumps entry.RecordBumps, price uint64, rate uint16) *SellAsset {
	return &SellAsset{
		BaseTx:    *NewBaseTx(TypeSellAsset, account),
		AssetID:   assetID,
		StoreName: storeName,
		StoreBump: storeBump,
		Bumps:     bumps,
		Price:     price,
		Rate:      rate,
	}
}

// Validate validates the SellAsset transition.
func (t *SellAsset) Validate() error {
	if err := t.BaseTx.Validate(); err != nil {
		return err
	}
	if t.AssetID.IsZero() {
		return errors.New("temINVALID: AssetID is required")
	}
	if t.Rate < 1 {
		return ErrInvalidRate
	}
	return nil
}

// Apply applies a SellAsset transition.
func (t *SellAsset) Apply(ctx *ApplyContext) Result {
	if t.Rate < 1 {
		return TemINVALID_RATE
	}

	store, _, res := loadStore(ctx, t.StoreName, t.StoreBump)
	if !res.IsSuccess() {
		return res
	}
	if store.Frozen {
		return TecFROZEN
	}

	record, recordK, res := loadRecord(ctx, t.AssetID, t.Bumps.Record)
	if !res.IsSuccess() {
		return res
	}
	if record.OnSale {
		return TecON_SALE
	}

	_, sellerTokenK, res := callerTokenAccount(ctx, ctx.AccountID, t.AssetID)
	if !res.IsSuccess() {
		return res
	}

	// Move the single asset unit into store escrow custody. The seller
	// authorizes this move with their own identity.
	escrowK := keylet.RecordToken(t.AssetID, record.Bumps.TokenAccount)
	err := token.Transfer(ctx.View, sellerTokenK, escrowK, token.UserAuthority{Addr: ctx.AccountID}, 1)
	if res := tokenResult(err); !res.IsSuccess() {
		return res
	}

	rate := ClampRate(t.Rate)
	fee, ok := Fee(t.Price, rate)
	if !ok {
		return TecOVERFLOW
	}

	// Listing fee, held on the record's own address until resolution.
	if res := ctx.Transfer(ctx.AccountID, recordK.Key, fee); !res.IsSuccess() {
		return res
	}

	record.Seller = ctx.AccountID
	record.Price = t.Price
	record.Rate = rate
	record.OnSale = true
	if res := writeRecord(ctx, recordK, record); !res.IsSuccess() {
		return res
	}

	ctx.Emit(ListedEvent{
		Seller:  ctx.AccountID,
		AssetID: t.AssetID,
		Price:   t.Price,
		Rate:    rate,
	})
	return TesSUCCESS
}
