package tx

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nftstore/nftstored/internal/core/types"
)

// Type identifies a transition type.
type Type int

const (
	TypeInvalid Type = iota
	TypeInitializeStore
	TypeFreezeStore
	TypeThawStore
	TypeInitializeRecord
	TypeSellAsset
	TypeRedeemAsset
	TypeBuyAsset
)

var typeNames = map[Type]string{
	TypeInitializeStore:  "InitializeStore",
	TypeFreezeStore:      "FreezeStore",
	TypeThawStore:        "ThawStore",
	TypeInitializeRecord: "InitializeRecord",
	TypeSellAsset:        "SellAsset",
	TypeRedeemAsset:      "RedeemAsset",
	TypeBuyAsset:         "BuyAsset",
}

// String returns the transition type name.
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "Invalid"
}

// TypeFromName resolves a transition type by name.
func TypeFromName(name string) (Type, bool) {
	for t, n := range typeNames {
		if n == name {
			return t, true
		}
	}
	return TypeInvalid, false
}

// Common holds the fields shared by every transition.
type Common struct {
	// Account is the authenticated caller identity, supplied by the
	// host. The engine trusts that the presented identity approved
	// the call.
	Account types.Address `json:"Account"`

	// TransactionType is the transition type name.
	TransactionType string `json:"TransactionType"`
}

// Validate checks the common fields.
func (c *Common) Validate() error {
	if c.Account.IsZero() {
		return errors.New("temINVALID: Account is required")
	}
	if c.TransactionType == "" {
		return errors.New("temINVALID: TransactionType is required")
	}
	return nil
}

// Transaction is one settlement transition. Validate performs the
// stateless checks; Apply runs against current ledger state inside the
// engine's all-or-nothing unit.
type Transaction interface {
	// TxType returns the transition type.
	TxType() Type

	// GetCommon returns the common transition fields.
	GetCommon() *Common

	// Validate checks the transition is well-formed without touching
	// ledger state.
	Validate() error

	// Apply validates preconditions against current state and mutates
	// the staged view. Any non-success result discards the whole unit.
	Apply(ctx *ApplyContext) Result
}

// BaseTx provides the common fields and default behavior for
// transition types. Embed it in each transition struct.
type BaseTx struct {
	Common
	txType Type
}

// NewBaseTx creates the embedded base for a transition of the given
// type and caller.
func NewBaseTx(txType Type, account types.Address) *BaseTx {
	return &BaseTx{
		Common: Common{
			Account:         account,
			TransactionType: txType.String(),
		},
		txType: txType,
	}
}

// TxType returns the transition type.
func (b *BaseTx) TxType() Type {
	return b.txType
}

// GetCommon returns the common transition fields.
func (b *BaseTx) GetCommon() *Common {
	return &b.Common
}

// Validate validates the common fields.
func (b *BaseTx) Validate() error {
	return b.Common.Validate()
}

// factories maps transition types to constructors. Populated by each
// transition file's init().
var factories = map[Type]func() Transaction{}

// Register installs a constructor for a transition type.
func Register(t Type, factory func() Transaction) {
	factories[t] = factory
}

// ErrUnknownTransactionType is returned when a transition type is not
// registered.
var ErrUnknownTransactionType = errors.New("unknown transaction type")

// NewFromType creates an empty transition of the given type.
func NewFromType(t Type) (Transaction, error) {
	factory, ok := factories[t]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTransactionType, t)
	}
	return factory(), nil
}

// FromJSON creates a Transaction from a JSON object carrying a
// TransactionType field.
func FromJSON(data []byte) (Transaction, error) {
	var raw struct {
		TransactionType string `json:"TransactionType"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	txType, ok := TypeFromName(raw.TransactionType)
	if !ok {
		return nil, ErrUnknownTransactionType
	}

	txn, err := NewFromType(txType)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, txn); err != nil {
		return nil, err
	}
	return txn, nil
}
