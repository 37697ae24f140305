package services

import "math/bits"

// Checked helpers for pooled-fund arithmetic. Amounts are uint64 base units;
// any wrap is surfaced as ErrArithmetic, never saturated.

func checkedAdd(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, ErrArithmetic
	}
	return sum, nil
}

func checkedSub(a, b uint64) (uint64, error) {
	diff, borrow := bits.Sub64(a, b, 0)
	if borrow != 0 {
		return 0, ErrArithmetic
	}
	return diff, nil
}

// mulDiv computes floor(a*b/div) with a 128-bit intermediate so the multiply
// cannot wrap, and errors when the quotient does not narrow back to uint64.
func mulDiv(a, b, div uint64) (uint64, error) {
	if div == 0 {
		return 0, ErrArithmetic
	}
	hi, lo := bits.Mul64(a, b)
	if hi >= div {
		return 0, ErrArithmetic
	}
	quo, _ := bits.Div64(hi, lo, div)
	return quo, nil
}
