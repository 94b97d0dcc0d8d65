package entry

import (
	"errors"

	"github.com/nftstore/nftstored/internal/core/types"
)

// StoreNameLen is the fixed width of the padded store name field.
const StoreNameLen = 10

// ErrNameTooLong is returned when a store name exceeds the fixed name
// field width.
var ErrNameTooLong = errors.New("store name exceeds 10 bytes")

// Store is a named container for listings. The owner can freeze it to
// pause new listings without disturbing in-flight sales.
type Store struct {
	// Name is space-padded to StoreNameLen bytes. Always trim before
	// using it as derivation seed material.
	Name   [StoreNameLen]byte
	Bump   uint8
	Frozen bool
	Owner  types.Address
}

func (s *Store) Type() Type {
	return TypeStore
}

// TrimmedName returns the name with surrounding ASCII whitespace
// removed, the form used as keylet seed material.
func (s *Store) TrimmedName() []byte {
	return TrimName(s.Name[:])
}

// Serialize returns the binary form of the store.
func (s *Store) Serialize() ([]byte, error) {
	return encode(s)
}

// ParseStore decodes a store from its binary form.
func ParseStore(data []byte) (*Store, error) {
	var s Store
	if err := decode(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// PadName space-pads a store name to the fixed field width.
func PadName(name string) ([StoreNameLen]byte, error) {
	var padded [StoreNameLen]byte
	if len(name) > StoreNameLen {
		return padded, ErrNameTooLong
	}
	for i := range padded {
		padded[i] = ' '
	}
	copy(padded[:], name)
	return padded, nil
}

// TrimName strips leading and trailing ASCII whitespace. Derivation on
// padded versus trimmed bytes yields different addresses, so every use
// of a stored name as seed material goes through this.
func TrimName(name []byte) []byte {
	isSpace := func(b byte) bool {
		switch b {
		case ' ', '\t', '\n', '\v', '\f', '\r':
			return true
		}
		return false
	}
	from := 0
	for from < len(name) && isSpace(name[from]) {
		from++
	}
	if from == len(name) {
		return name[:0]
	}
	to := len(name) - 1
	for to > from && isSpace(name[to]) {
		to--
	}
	return name[from : to+1]
}
