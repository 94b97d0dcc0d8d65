package tx

import (
	"errors"

	"github.com/nftstore/nftstored/internal/core/ledger/entry"
	"github.com/nftstore/nftstored/internal/core/ledger/keylet"
	"github.com/nftstore/nftstored/internal/core/types"
)

func init() {
	Register(TypeInitializeRecord, func() Transaction {
		return &InitializeRecord{BaseTx: *NewBaseTx(TypeInitializeRecord, types.ZeroAddress)}
	})
}

// InitializeRecord creates the listing record and the escrow custody
// account for one unique asset. Done once per asset; the bumps assigned
// here must be presented on every later sell, redeem and buy.
type InitializeRecord struct {
	BaseTx

	// AssetID is the mint address of the asset (required)
	AssetID types.Address `json:"AssetID"`

	// StoreName names the store the record belongs to (required)
	StoreName string `json:"StoreName"`

	// StoreBump is the store's stored disambiguation byte (required)
	StoreBump uint8 `json:"StoreBump"`

	// Bumps are the disambiguation bytes for the record and its escrow
	// token account (required)
	Bumps entry.RecordBumps `json:"Bumps"`
}

// NewInitializeRecord creates a new InitializeRecord transition.
func NewInitializeRecord(account, assetID types.Address, storeName string, storeBump uint8, bumps entry.RecordBumps) *InitializeRecord {
	return &InitializeRecord{
		BaseTx:    *NewBaseTx(TypeInitializeRecord, account),
		AssetID:   assetID,
		StoreName: storeName,
		StoreBump: storeBump,
		Bumps:     bumps,
	}
}

// Validate validates the InitializeRecord transition.
func (t *InitializeRecord) Validate() error {
	if err := t.BaseTx.Validate(); err != nil {
		return err
	}
	if t.AssetID.IsZero() {
		return errors.New("temINVALID: AssetID is required")
	}
	if len(entry.TrimName([]byte(t.StoreName))) == 0 {
		return errors.New("temBAD_NAME: StoreName is required")
	}
	return nil
}

// Apply applies an InitializeRecord transition.
func (t *InitializeRecord) Apply(ctx *ApplyContext) Result {
	store, storeK, res := loadStore(ctx, t.StoreName, t.StoreBump)
	if !res.IsSuccess() {
		return res
	}
	if store.Frozen {
		return TecFROZEN
	}

	// The asset must be a true unique asset: supply 1, zero decimals.
	mintData, err := ctx.View.Read(keylet.Mint(t.AssetID))
	if err != nil {
		return TefINTERNAL
	}
	if mintData == nil {
		return TecNO_ENTRY
	}
	mint, err := entry.ParseMint(mintData)
	if err != nil {
		return TefINTERNAL
	}
	if !mint.IsUnique() {
		return TecWRONG_ASSET
	}

	recordK := keylet.Record(t.AssetID, t.Bumps.Record)
	exists, err := ctx.View.Exists(recordK)
	if err != nil {
		return TefINTERNAL
	}
	if exists {
		return TecDUPLICATE
	}

	// Escrow custody account, owned by the store's derived address.
	escrowK := keylet.RecordToken(t.AssetID, t.Bumps.TokenAccount)
	exists, err = ctx.View.Exists(escrowK)
	if err != nil {
		return TefINTERNAL
	}
	if exists {
		return TecDUPLICATE
	}
	escrow := &entry.TokenAccount{
		Mint:  t.AssetID,
		Owner: storeK.Key,
	}
	escrowData, err := escrow.Serialize()
	if err != nil {
		return TefINTERNAL
	}
	if err := ctx.View.Insert(escrowK, escrowData); err != nil {
		return TefINTERNAL
	}

	record := &entry.Record{
		AssetID:     t.AssetID,
		Initializer: ctx.AccountID,
		Bumps:       t.Bumps,
	}
	recordData, err := record.Serialize()
	if err != nil {
		return TefINTERNAL
	}
	if err := ctx.View.Insert(recordK, recordData); err != nil {
		return TefINTERNAL
	}
	return TesSUCCESS
}
