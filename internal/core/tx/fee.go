package tx

import "github.com/holiman/uint256"

const (
	// RateDenominator is the basis-point denominator for fee rates.
	RateDenominator = 10_000

	// MaxRate is the highest fee rate a listing can carry (50%).
	MaxRate = 5_000

	// MinimumFee is the fee floor, charged whenever the percentage fee
	// computes to less. Shared by sell, redeem and buy.
	MinimumFee uint64 = 10_000_000
)

// Fee computes the settlement fee for a price and rate:
// max(price*rate/10000, MinimumFee), multiplication performed in wide
// arithmetic and division truncating toward zero. The same function is
// used at listing, redemption and purchase so the three always agree.
// Returns false if the result does not fit in 64 bits.
func Fee(price uint64, rate uint16) (uint64, bool) {
	f := new(uint256.Int).Mul(uint256.NewInt(price), uint256.NewInt(uint64(rate)))
	f.Div(f, uint256.NewInt(RateDenominator))
	if !f.IsUint64() {
		return 0, false
	}
	fee := f.Uint64()
	if fee < MinimumFee {
		fee = MinimumFee
	}
	return fee, true
}

// ClampRate pins a non-zero rate into [1, MaxRate]. A zero rate is
// rejected earlier with TemINVALID_RATE, never clamped.
func ClampRate(rate uint16) uint16 {
	if rate < 1 {
		return 1
	}
	if rate > MaxRate {
		return MaxRate
	}
	return rate
}
