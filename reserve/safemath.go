// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package reserve

import (
	"fmt"
	"math/bits"

	"github.com/holiman/uint256"
)

// checkedAdd returns a+b or ErrArithmeticOverflow.
func checkedAdd(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, fmt.Errorf("%w: %d + %d", ErrArithmeticOverflow, a, b)
	}
	return sum, nil
}

// checkedSub returns a-b or ErrArithmeticUnderflow.
func checkedSub(a, b uint64) (uint64, error) {
	diff, borrow := bits.Sub64(a, b, 0)
	if borrow != 0 {
		return 0, fmt.Errorf("%w: %d - %d", ErrArithmeticUnderflow, a, b)
	}
	return diff, nil
}

// checkedMul returns a*b or ErrArithmeticOverflow.
func checkedMul(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, fmt.Errorf("%w: %d * %d", ErrArithmeticOverflow, a, b)
	}
	return lo, nil
}

// sumAmounts totals a batch.
func sumAmounts(amounts []uint64) (*uint256.Int, error) {
	total := uint256.NewInt(0)
	for _, a := range amounts {
		if _, overflow := total.AddOverflow(total, uint256.NewInt(a)); overflow {
			return nil, fmt.Errorf("%w: batch total", ErrArithmeticOverflow)
		}
	}
	return total, nil
}
