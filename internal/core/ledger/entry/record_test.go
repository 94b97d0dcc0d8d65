package entry

import (
	"math"
	"testing"

	"github.com/holiman/uint256"
)

func TestAddVolumeAccumulates(t *testing.T) {
	var r Record
	for _, price := range []uint64{2_000_000_000, 3_000_000_000, 1} {
		if err := r.AddVolume(price); err != nil {
			t.Fatalf("AddVolume(%d): %v", price, err)
		}
	}
	if got := r.VolumeAmount().Uint64(); got != 5_000_000_001 {
		t.Fatalf("volume = %d, want 5000000001", got)
	}
}

func TestAddVolumePastUint64(t *testing.T) {
	// The accumulator is 128-bit wide, so it keeps counting well past
	// what a single price can reach.
	var r Record
	for i := 0; i < 4; i++ {
		if err := r.AddVolume(math.MaxUint64); err != nil {
			t.Fatalf("AddVolume: %v", err)
		}
	}
	want := new(uint256.Int).Mul(uint256.NewInt(math.MaxUint64), uint256.NewInt(4))
	if r.VolumeAmount().Cmp(want) != 0 {
		t.Fatalf("volume = %s, want %s", r.VolumeAmount().Dec(), want.Dec())
	}
}

func TestAddVolumeOverflow(t *testing.T) {
	var r Record
	for i := range r.Volume {
		r.Volume[i] = 0xFF
	}
	if err := r.AddVolume(1); err != ErrVolumeOverflow {
		t.Fatalf("expected ErrVolumeOverflow, got %v", err)
	}
	// A failed accumulation must leave the field untouched.
	for i, b := range r.Volume {
		if b != 0xFF {
			t.Fatalf("volume byte %d mutated to %#x", i, b)
		}
	}
}

func TestRecordSerializeRoundTrip(t *testing.T) {
	r := &Record{
		Bumps:        RecordBumps{TokenAccount: 253, Record: 251},
		OnSale:       true,
		Price:        2_000_000_000,
		Rate:         500,
		CurrentIndex: 3,
	}
	r.AssetID[0] = 0x01
	r.Seller[0] = 0x02
	r.Volume[15] = 0x2A

	data, err := r.Serialize()
	if err != nil {
		t.Fatal(err)
	}
	got, err := ParseRecord(data)
	if err != nil {
		t.Fatal(err)
	}
	if *got != *r {
		t.Fatalf("round trip mismatch: %+v vs %+v", got, r)
	}
}
