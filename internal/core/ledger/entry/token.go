package entry

import (
	"errors"

	"github.com/nftstore/nftstored/internal/core/types"
)

// Mint describes an asset issuance. The settlement core never creates
// mints; the host seeds them and the core only validates them. A true
// unique asset has supply 1 and zero decimals.
type Mint struct {
	Supply   uint64
	Decimals uint8
}

func (m *Mint) Type() Type {
	return TypeMint
}

// IsUnique reports whether the mint describes a non-divisible,
// single-unit asset.
func (m *Mint) IsUnique() bool {
	return m.Supply == 1 && m.Decimals == 0
}

// Serialize returns the binary form of the mint.
func (m *Mint) Serialize() ([]byte, error) {
	return encode(m)
}

// ParseMint decodes a mint from its binary form.
func ParseMint(data []byte) (*Mint, error) {
	var m Mint
	if err := decode(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// TokenAccount is a custody account holding units of one mint on behalf
// of one owner. The owner of the escrow token account is the store's
// derived address, so only the store authority can move units out.
type TokenAccount struct {
	Mint   types.Address
	Owner  types.Address
	Amount uint64
}

func (t *TokenAccount) Type() Type {
	return TypeTokenAccount
}

func (t *TokenAccount) Validate() error {
	if t.Mint.IsZero() {
		return errors.New("mint is required")
	}
	if t.Owner.IsZero() {
		return errors.New("owner is required")
	}
	return nil
}

// Serialize returns the binary form of the token account.
func (t *TokenAccount) Serialize() ([]byte, error) {
	return encode(t)
}

// ParseTokenAccount decodes a token account from its binary form.
func ParseTokenAccount(data []byte) (*TokenAccount, error) {
	var t TokenAccount
	if err := decode(data, &t); err != nil {
		return nil, err
	}
	return &t, nil
}
