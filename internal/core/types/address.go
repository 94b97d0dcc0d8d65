// Package types holds primitive types shared across the ledger core.
package types

import (
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
)

// Address identifies an account, a mint, or any derived record in the
// state space. Derived addresses and host-allocated addresses share the
// same 32-byte keyspace.
type Address [32]byte

// ZeroAddress is the unset address.
var ZeroAddress = Address{}

// ErrBadAddress is returned when an address string cannot be decoded.
var ErrBadAddress = errors.New("bad address")

// IsZero reports whether the address is unset.
func (a Address) IsZero() bool {
	return a == ZeroAddress
}

// String returns the base58 text form of the address.
func (a Address) String() string {
	return base58.Encode(a[:])
}

// MarshalText implements encoding.TextMarshaler.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(text []byte) error {
	decoded, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = decoded
	return nil
}

// ParseAddress decodes a base58 address string.
func ParseAddress(s string) (Address, error) {
	var a Address
	raw, err := base58.Decode(s)
	if err != nil {
		return a, fmt.Errorf("%w: %v", ErrBadAddress, err)
	}
	if len(raw) != len(a) {
		return a, fmt.Errorf("%w: expected %d bytes, got %d", ErrBadAddress, len(a), len(raw))
	}
	copy(a[:], raw)
	return a, nil
}
