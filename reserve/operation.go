// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package reserve

import (
	"fmt"
)

// Operation is one of the seven operations a call can select.
type Operation uint8

const (
	OpAdjustPlus Operation = iota + 1
	OpAdjustMinus
	OpHoldAssetsOptIn
	OpTransferAssetOut
	OpTransferAssetProgram
	OpPayoutAlgos
	OpPayoutAsset
)

// Selector tokens as they appear in args[0]
const (
	SelectorAdjustPlus           = "adjustplus"
	SelectorAdjustMinus          = "adjustminus"
	SelectorHoldAssetsOptIn      = "holdassetsoptin"
	SelectorTransferAssetOut     = "transferassetout"
	SelectorTransferAssetProgram = "transferassetprogram"
	SelectorPayoutAlgos          = "payout_algos"
	SelectorPayoutAsset          = "payout_asset"
)

var operations = map[string]Operation{
	SelectorAdjustPlus:           OpAdjustPlus,
	SelectorAdjustMinus:          OpAdjustMinus,
	SelectorHoldAssetsOptIn:      OpHoldAssetsOptIn,
	SelectorTransferAssetOut:     OpTransferAssetOut,
	SelectorTransferAssetProgram: OpTransferAssetProgram,
	SelectorPayoutAlgos:          OpPayoutAlgos,
	SelectorPayoutAsset:          OpPayoutAsset,
}

// ParseOperation maps a raw selector to its Operation. Matching is exact
// and case-sensitive; there is no fallback.
func ParseOperation(selector []byte) (Operation, error) {
	op, ok := operations[string(selector)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSelector, selector)
	}
	return op, nil
}

// Selector returns the token that selects op.
func (op Operation) Selector() string {
	switch op {
	case OpAdjustPlus:
		return SelectorAdjustPlus
	case OpAdjustMinus:
		return SelectorAdjustMinus
	case OpHoldAssetsOptIn:
		return SelectorHoldAssetsOptIn
	case OpTransferAssetOut:
		return SelectorTransferAssetOut
	case OpTransferAssetProgram:
		return SelectorTransferAssetProgram
	case OpPayoutAlgos:
		return SelectorPayoutAlgos
	case OpPayoutAsset:
		return SelectorPayoutAsset
	default:
		return ""
	}
}

func (op Operation) String() string {
	if s := op.Selector(); s != "" {
		return s
	}
	return fmt.Sprintf("Operation(%d)", uint8(op))
}

// OwnerOnly reports whether op is gated on the owner identity.
// Opting custody into an asset moves no value and is open to anyone.
func (op Operation) OwnerOnly() bool {
	return op != OpHoldAssetsOptIn
}
