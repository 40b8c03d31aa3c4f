// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contract

import (
	"errors"
	"fmt"
)

var ErrOutOfGas = errors.New("out of gas")

// DeductGas returns suppliedGas minus requiredGas, or ErrOutOfGas.
func DeductGas(suppliedGas uint64, requiredGas uint64) (uint64, error) {
	if suppliedGas < requiredGas {
		return 0, fmt.Errorf("%w: required %d, supplied %d", ErrOutOfGas, requiredGas, suppliedGas)
	}
	return suppliedGas - requiredGas, nil
}
