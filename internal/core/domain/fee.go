package domain

import "math/bits"

// MaxFeeBps is 100% expressed in basis points.
const MaxFeeBps = 10_000

// PlatformFee returns raised * bps / 10000 truncated toward zero. The product
// is computed in 128 bits so it never overflows.
func PlatformFee(raised uint64, bps uint16) uint64 {
	if bps > MaxFeeBps {
		bps = MaxFeeBps
	}
	hi, lo := bits.Mul64(raised, uint64(bps))
	q, _ := bits.Div64(hi, lo, MaxFeeBps)
	return q
}

func addAmount(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, ErrInvalidAmount
	}
	return sum, nil
}
