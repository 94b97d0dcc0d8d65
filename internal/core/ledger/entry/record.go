package entry

import (
	"errors"

	"github.com/holiman/uint256"
	"github.com/nftstore/nftstored/internal/core/types"
)

// ErrVolumeOverflow is returned when accumulated volume can no longer
// be represented in the 128-bit volume field.
var ErrVolumeOverflow = errors.New("volume exceeds 128 bits")

// RecordBumps carries the disambiguation bytes assigned when a record
// was initialized. They must be presented on every later derivation of
// the record and its escrow token account.
type RecordBumps struct {
	TokenAccount uint8
	Record       uint8
}

// Record is the persistent listing ledger entry for one unique asset.
// Created once per asset, never deleted, mutated by sell/redeem/buy.
type Record struct {
	AssetID      types.Address
	Initializer  types.Address
	Seller       types.Address
	Bumps        RecordBumps
	OnSale       bool
	Price        uint64
	Rate         uint16
	CurrentIndex uint32
	// Volume is the cumulative sold value, big-endian 128-bit.
	Volume [16]byte
}

func (r *Record) Type() Type {
	return TypeRecord
}

// VolumeAmount returns the cumulative volume as a wide integer.
func (r *Record) VolumeAmount() *uint256.Int {
	v := new(uint256.Int)
	v.SetBytes(r.Volume[:])
	return v
}

// AddVolume accumulates a sale price into the volume field, failing if
// the sum no longer fits in 128 bits.
func (r *Record) AddVolume(price uint64) error {
	sum, overflow := new(uint256.Int).AddOverflow(r.VolumeAmount(), uint256.NewInt(price))
	if overflow || sum.BitLen() > 128 {
		return ErrVolumeOverflow
	}
	b := sum.Bytes32()
	copy(r.Volume[:], b[16:])
	return nil
}

// Serialize returns the binary form of the record.
func (r *Record) Serialize() ([]byte, error) {
	return encode(r)
}

// ParseRecord decodes a record from its binary form.
func ParseRecord(data []byte) (*Record, error) {
	var r Record
	if err := decode(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// SoldRecord is the immutable receipt for one completed sale, keyed by
// asset and sale index. Write-once.
type SoldRecord struct {
	Index     uint32
	Price     uint64
	Seller    types.Address
	Customer  types.Address
	Rate      uint16
	AssetID   types.Address
	CreatedAt int64
}

func (s *SoldRecord) Type() Type {
	return TypeSoldRecord
}

// Serialize returns the binary form of the sold record.
func (s *SoldRecord) Serialize() ([]byte, error) {
	return encode(s)
}

// ParseSoldRecord decodes a sold record from its binary form.
func ParseSoldRecord(data []byte) (*SoldRecord, error) {
	var s SoldRecord
	if err := decode(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
