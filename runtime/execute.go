// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"encoding/binary"
	"fmt"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/core/tracing"
	"github.com/zeebo/blake3"

	"github.com/luxfi/reserve/contract"
)

// RegistryAddress holds the runtime's own bookkeeping: known assets and
// deployed programs.
var RegistryAddress = common.HexToAddress("0x0000000000000000000000000000000000006000")

var (
	assetSlotPrefix    = []byte("asset")
	deployedSlotPrefix = []byte("deployed")
)

func registrySlot(prefix []byte, id []byte) common.Hash {
	h := blake3.New()
	h.Write(prefix)
	h.Write(id)
	var key common.Hash
	h.Digest().Read(key[:])
	return key
}

func assetSlot(asset common.Hash) common.Hash {
	return registrySlot(assetSlotPrefix, asset.Bytes())
}

func deployedSlot(program common.Address) common.Hash {
	return registrySlot(deployedSlotPrefix, program.Bytes())
}

func isDeployed(state contract.StateDB, program common.Address) bool {
	return state.GetState(RegistryAddress, deployedSlot(program)) != (common.Hash{})
}

func markDeployed(state contract.StateDB, program common.Address) {
	state.SetState(RegistryAddress, deployedSlot(program), common.BytesToHash([]byte{1}))
}

// assetSupply returns the total supply of asset and whether it exists.
func assetSupply(state contract.StateDB, asset common.Hash) (uint64, bool) {
	val := state.GetState(RegistryAddress, assetSlot(asset))
	if val[0] == 0 {
		return 0, false
	}
	return binary.BigEndian.Uint64(val[24:]), true
}

func registerAsset(state contract.StateDB, asset common.Hash, supply uint64) {
	var val common.Hash
	val[0] = 1 // Marker: asset exists
	binary.BigEndian.PutUint64(val[24:], supply)
	state.SetState(RegistryAddress, assetSlot(asset), val)
}

// execute applies t to state. It performs every check before the first
// write, so a failed transfer changes nothing.
func execute(state contract.StateDB, t *contract.Transfer) error {
	if t.Amount == nil {
		return fmt.Errorf("%w: missing amount", ErrInvalidTransfer)
	}

	switch t.Kind {
	case contract.Payment:
		balance := state.GetBalance(t.Sender)
		if balance.Lt(t.Amount) {
			return fmt.Errorf("%w: %s holds %s, needs %s", ErrInsufficientFunds, t.Sender.Hex(), balance.Dec(), t.Amount.Dec())
		}
		state.SubBalance(t.Sender, t.Amount, tracing.BalanceChangeTransfer)
		state.AddBalance(t.Receiver, t.Amount, tracing.BalanceChangeTransfer)
		return nil

	case contract.AssetTransfer:
		if _, ok := assetSupply(state, t.Asset); !ok {
			return fmt.Errorf("%w: %s", ErrUnknownAsset, t.Asset.Hex())
		}
		if t.IsOptIn() {
			state.CreateAssetHolding(t.Sender, t.Asset)
			return nil
		}
		if !state.HasAssetHolding(t.Sender, t.Asset) {
			return fmt.Errorf("%w: sender %s, asset %s", ErrNotOptedIn, t.Sender.Hex(), t.Asset.Hex())
		}
		if !state.HasAssetHolding(t.Receiver, t.Asset) {
			return fmt.Errorf("%w: receiver %s, asset %s", ErrNotOptedIn, t.Receiver.Hex(), t.Asset.Hex())
		}
		balance := state.GetAssetBalance(t.Sender, t.Asset)
		if balance.Lt(t.Amount) {
			return fmt.Errorf("%w: %s holds %s of %s, needs %s", ErrInsufficientFunds, t.Sender.Hex(), balance.Dec(), t.Asset.Hex(), t.Amount.Dec())
		}
		state.SubAssetBalance(t.Sender, t.Asset, t.Amount)
		state.AddAssetBalance(t.Receiver, t.Asset, t.Amount)
		return nil

	default:
		return fmt.Errorf("%w: kind %s", ErrInvalidTransfer, t.Kind)
	}
}
