// Package token moves asset units between custody accounts. Transfers
// out of store custody are authorized by the store's derived signing
// authority, a capability bound to the store identity and its stored
// bump. No key material exists for it.
package token

import (
	"errors"
	"fmt"
	"math"

	"github.com/nftstore/nftstored/internal/core/ledger/entry"
	"github.com/nftstore/nftstored/internal/core/ledger/keylet"
	"github.com/nftstore/nftstored/internal/core/types"
)

var (
	// ErrNoAccount is returned when a custody account does not exist.
	ErrNoAccount = errors.New("token account not found")

	// ErrNotAuthorized is returned when the presented authority does
	// not own the source custody account.
	ErrNotAuthorized = errors.New("authority does not own source account")

	// ErrMintMismatch is returned when the two custody accounts hold
	// different mints.
	ErrMintMismatch = errors.New("token accounts hold different mints")

	// ErrInsufficientUnits is returned when the source custody account
	// cannot fund the transfer.
	ErrInsufficientUnits = errors.New("insufficient units")

	// ErrUnitOverflow is returned when the destination balance would
	// overflow.
	ErrUnitOverflow = errors.New("unit balance overflow")
)

// View is the subset of ledger access the token service needs.
type View interface {
	Read(k keylet.Keylet) ([]byte, error)
	Update(k keylet.Keylet, data []byte) error
}

// Authority is the identity allowed to move units out of a custody
// account. It is either a user identity or a store's derived signer.
type Authority interface {
	// Address returns the address that must own the source account.
	Address() types.Address
}

// UserAuthority authorizes transfers out of accounts owned by a
// user-held identity.
type UserAuthority struct {
	Addr types.Address
}

func (a UserAuthority) Address() types.Address {
	return a.Addr
}

// StoreAuthority authorizes transfers out of store-custodied accounts.
// The capability is the (trimmed name, bump) pair: its address is
// re-derived on every use, so presenting a wrong bump derives a
// different address and authorization fails.
type StoreAuthority struct {
	TrimmedName []byte
	Bump        uint8
}

func (a StoreAuthority) Address() types.Address {
	return keylet.Store(a.TrimmedName, a.Bump).Key
}

// Transfer moves amount units from one custody account to another.
// Both accounts must exist and hold the same mint, and the authority
// must own the source account.
func Transfer(view View, from, to keylet.Keylet, auth Authority, amount uint64) error {
	src, err := readTokenAccount(view, from)
	if err != nil {
		return err
	}
	dst, err := readTokenAccount(view, to)
	if err != nil {
		return err
	}

	if src.Owner != auth.Address() {
		return ErrNotAuthorized
	}
	if src.Mint != dst.Mint {
		return ErrMintMismatch
	}
	if src.Amount < amount {
		return ErrInsufficientUnits
	}

	// A self-transfer nets zero; writing the two parsed copies back
	// separately would credit without the debit.
	if from.Key == to.Key {
		return nil
	}
	if dst.Amount > math.MaxUint64-amount {
		return ErrUnitOverflow
	}

	src.Amount -= amount
	dst.Amount += amount

	if err := writeTokenAccount(view, from, src); err != nil {
		return err
	}
	return writeTokenAccount(view, to, dst)
}

func readTokenAccount(view View, k keylet.Keylet) (*entry.TokenAccount, error) {
	data, err := view.Read(k)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoAccount, k.Key)
	}
	return entry.ParseTokenAccount(data)
}

func writeTokenAccount(view View, k keylet.Keylet, acct *entry.TokenAccount) error {
	data, err := acct.Serialize()
	if err != nil {
		return err
	}
	return view.Update(k, data)
}
