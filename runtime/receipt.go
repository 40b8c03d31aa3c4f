// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"github.com/luxfi/geth/common"
	ethtypes "github.com/luxfi/geth/core/types"
	"github.com/luxfi/ids"

	"github.com/luxfi/reserve/contract"
)

// Message is a call submitted to a program.
type Message struct {
	Caller   common.Address
	Program  common.Address
	Input    []byte
	Gas      uint64 // 0 means DefaultGas
	ReadOnly bool
}

// Status is the outcome of a call.
type Status uint8

const (
	StatusRejected Status = iota
	StatusAccepted
)

func (s Status) String() string {
	if s == StatusAccepted {
		return "accepted"
	}
	return "rejected"
}

// Receipt records how a call was applied.
type Receipt struct {
	CallID      ids.ID
	Program     common.Address
	Caller      common.Address
	BlockNumber uint64
	Status      Status
	Err         error
	GasUsed     uint64
	Logs        []*ethtypes.Log
	Transfers   []*contract.Transfer
}
