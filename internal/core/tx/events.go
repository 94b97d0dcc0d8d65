package tx

import "github.com/nftstore/nftstored/internal/core/types"

// Event is an observable record of a committed transition. Events are
// published after commit, never for a discarded transition, and are not
// consumed internally.
type Event interface {
	EventName() string
}

// ListedEvent is emitted when an asset is put on sale.
type ListedEvent struct {
	Seller  types.Address `json:"seller"`
	AssetID types.Address `json:"asset_id"`
	Price   uint64        `json:"price"`
	Rate    uint16        `json:"rate"`
}

func (ListedEvent) EventName() string { return "Listed" }

// RedeemedEvent is emitted when a seller withdraws an unsold listing.
type RedeemedEvent struct {
	Redeemer types.Address `json:"redeemer"`
	AssetID  types.Address `json:"asset_id"`
}

func (RedeemedEvent) EventName() string { return "Redeemed" }

// SoldEvent is emitted when a purchase completes.
type SoldEvent struct {
	Seller    types.Address `json:"seller"`
	AssetID   types.Address `json:"asset_id"`
	Customer  types.Address `json:"customer"`
	Index     uint32        `json:"index"`
	Price     uint64        `json:"price"`
	Rate      uint16        `json:"rate"`
	CreatedAt int64         `json:"created_at"`
}

func (SoldEvent) EventName() string { return "Sold" }
