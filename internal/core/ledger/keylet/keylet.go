// Package keylet computes the deterministic state addresses for every
// ledger entry. An entry's location is its identity: validation means
// re-deriving the keylet from the stored seed material and bump and
// comparing it to the address being accessed.
package keylet

import (
	"encoding/binary"

	"github.com/nftstore/nftstored/internal/core/ledger/entry"
	"github.com/nftstore/nftstored/internal/core/types"
	crypto "github.com/nftstore/nftstored/internal/crypto/common"
)

// Space identifiers for keylet generation.
const (
	spaceAccount   uint16 = 'a' // Account root
	spaceMint      uint16 = 'm' // Asset mint
	spaceStore     uint16 = 's' // Store
	spaceRecord    uint16 = 'r' // Listing record
	spaceEscrow    uint16 = 't' // Record escrow token account
	spaceSold      uint16 = 'd' // Sold record
	spaceUserToken uint16 = 'u' // User token account
)

// Keylet represents an addressable location in the ledger state.
// It combines an entry type with a 256-bit key.
type Keylet struct {
	Type entry.Type
	Key  types.Address
}

// indexHash computes a keylet key by hashing the space and provided data.
func indexHash(space uint16, data ...[]byte) types.Address {
	spaceBytes := make([]byte, 2)
	binary.BigEndian.PutUint16(spaceBytes, space)

	inputs := make([][]byte, 0, len(data)+1)
	inputs = append(inputs, spaceBytes)
	inputs = append(inputs, data...)

	return crypto.Sha512Half(inputs...)
}

// Account returns the keylet for an account root entry.
func Account(addr types.Address) Keylet {
	return Keylet{
		Type: entry.TypeAccountRoot,
		Key:  indexHash(spaceAccount, addr[:]),
	}
}

// Mint returns the keylet for an asset mint entry.
func Mint(assetID types.Address) Keylet {
	return Keylet{
		Type: entry.TypeMint,
		Key:  indexHash(spaceMint, assetID[:]),
	}
}

// Store returns the keylet for a store entry. The name must already be
// trimmed of surrounding whitespace; derivation over the padded form
// yields a different address.
func Store(trimmedName []byte, bump uint8) Keylet {
	return Keylet{
		Type: entry.TypeStore,
		Key:  indexHash(spaceStore, trimmedName, []byte{bump}),
	}
}

// Record returns the keylet for a listing record entry.
func Record(assetID types.Address, bump uint8) Keylet {
	return Keylet{
		Type: entry.TypeRecord,
		Key:  indexHash(spaceRecord, assetID[:], []byte{bump}),
	}
}

// RecordToken returns the keylet for the escrow token account that
// holds a listed asset while it is on sale.
func RecordToken(assetID types.Address, bump uint8) Keylet {
	return Keylet{
		Type: entry.TypeTokenAccount,
		Key:  indexHash(spaceEscrow, assetID[:], []byte{bump}),
	}
}

// Sold returns the keylet for the sold record of a given sale index.
func Sold(assetID types.Address, index uint32) Keylet {
	indexBytes := make([]byte, 4)
	binary.BigEndian.PutUint32(indexBytes, index)
	return Keylet{
		Type: entry.TypeSoldRecord,
		Key:  indexHash(spaceSold, assetID[:], indexBytes),
	}
}

// UserToken returns the keylet for a host-allocated user token account
// holding units of the given mint for the given owner.
func UserToken(owner, assetID types.Address) Keylet {
	return Keylet{
		Type: entry.TypeTokenAccount,
		Key:  indexHash(spaceUserToken, owner[:], assetID[:]),
	}
}
