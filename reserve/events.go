// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package reserve

import (
	"encoding/binary"

	"github.com/holiman/uint256"
	"github.com/luxfi/crypto"
	"github.com/luxfi/geth/common"
	ethtypes "github.com/luxfi/geth/core/types"

	"github.com/luxfi/reserve/contract"
)

// Event topics
var (
	// ReserveAdjusted(uint64 previous, uint64 current)
	ReserveAdjustedTopic = common.BytesToHash(crypto.Keccak256([]byte("ReserveAdjusted(uint64,uint64)")))
	// TransferEmitted(address indexed receiver, bytes32 indexed asset, uint8 kind, uint256 amount)
	TransferEmittedTopic = common.BytesToHash(crypto.Keccak256([]byte("TransferEmitted(address,bytes32,uint8,uint256)")))
)

func emitReserveAdjusted(inv *invocation, previous, current uint64) {
	data := make([]byte, 64)
	binary.BigEndian.PutUint64(data[24:32], previous)
	binary.BigEndian.PutUint64(data[56:64], current)
	inv.stateDB.AddLog(&ethtypes.Log{
		Address:     inv.self,
		Topics:      []common.Hash{ReserveAdjustedTopic},
		Data:        data,
		BlockNumber: inv.blockNumber(),
	})
}

func emitTransfer(inv *invocation, t *contract.Transfer) {
	data := make([]byte, 64)
	data[31] = byte(t.Kind)
	t.Amount.WriteToSlice(data[32:64])
	inv.stateDB.AddLog(&ethtypes.Log{
		Address:     inv.self,
		Topics:      []common.Hash{TransferEmittedTopic, common.BytesToHash(t.Receiver.Bytes()), t.Asset},
		Data:        data,
		BlockNumber: inv.blockNumber(),
	})
}

// DecodeTransferLog recovers the receiver, asset, kind and amount from a
// TransferEmitted log.
func DecodeTransferLog(log *ethtypes.Log) (receiver common.Address, asset common.Hash, kind contract.TransferKind, amount *uint256.Int, ok bool) {
	if len(log.Topics) != 3 || log.Topics[0] != TransferEmittedTopic || len(log.Data) != 64 {
		return common.Address{}, common.Hash{}, 0, nil, false
	}
	receiver = common.BytesToAddress(log.Topics[1].Bytes())
	asset = log.Topics[2]
	kind = contract.TransferKind(log.Data[31])
	amount = new(uint256.Int).SetBytes(log.Data[32:64])
	return receiver, asset, kind, amount, true
}
