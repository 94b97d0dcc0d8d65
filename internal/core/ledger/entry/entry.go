// Package entry defines the ledger entry types and their binary
// serialization.
package entry

// Type identifies the kind of ledger entry stored at an address.
type Type uint16

const (
	TypeInvalid Type = iota
	TypeAccountRoot
	TypeMint
	TypeTokenAccount
	TypeStore
	TypeRecord
	TypeSoldRecord
)

// String returns the canonical name of the entry type.
func (t Type) String() string {
	switch t {
	case TypeAccountRoot:
		return "AccountRoot"
	case TypeMint:
		return "Mint"
	case TypeTokenAccount:
		return "TokenAccount"
	case TypeStore:
		return "Store"
	case TypeRecord:
		return "Record"
	case TypeSoldRecord:
		return "SoldRecord"
	default:
		return "Invalid"
	}
}
