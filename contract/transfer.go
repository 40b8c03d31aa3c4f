// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contract

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
)

// TransferKind distinguishes native value payments from asset transfers.
type TransferKind uint8

const (
	Payment TransferKind = iota + 1
	AssetTransfer
)

func (k TransferKind) String() string {
	switch k {
	case Payment:
		return "payment"
	case AssetTransfer:
		return "asset_transfer"
	default:
		return fmt.Sprintf("TransferKind(%d)", uint8(k))
	}
}

// Transfer is an outbound value movement a program asks the host to
// perform. Transfers are not persisted; they exist for one call.
type Transfer struct {
	Kind     TransferKind
	Sender   common.Address
	Receiver common.Address
	Asset    common.Hash // zero for Payment
	Amount   *uint256.Int
}

// IsOptIn reports whether t is the zero-amount self transfer that
// registers Sender as a holder of Asset.
func (t *Transfer) IsOptIn() bool {
	return t.Kind == AssetTransfer && t.Sender == t.Receiver && t.Amount.IsZero()
}

func (t *Transfer) String() string {
	if t.Kind == Payment {
		return fmt.Sprintf("%s %s -> %s: %s", t.Kind, t.Sender.Hex(), t.Receiver.Hex(), t.Amount.Dec())
	}
	return fmt.Sprintf("%s %s %s -> %s: %s", t.Kind, t.Asset.Hex(), t.Sender.Hex(), t.Receiver.Hex(), t.Amount.Dec())
}
