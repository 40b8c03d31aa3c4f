// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package reserve

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"

	"github.com/luxfi/reserve/contract"
)

// Reserve adjustment

func (p *reservePrecompile) adjustPlus(inv *invocation) error {
	if err := inv.useGas(GasAdjust); err != nil {
		return err
	}
	amount, err := inv.call.uint64Arg(1)
	if err != nil {
		return err
	}

	previous := GetReserve(inv.stateDB, inv.self)
	current, err := checkedAdd(previous, amount)
	if err != nil {
		return err
	}

	setReserve(inv.stateDB, inv.self, current)
	emitReserveAdjusted(inv, previous, current)
	return nil
}

func (p *reservePrecompile) adjustMinus(inv *invocation) error {
	if err := inv.useGas(GasAdjust); err != nil {
		return err
	}
	amount, err := inv.call.uint64Arg(1)
	if err != nil {
		return err
	}

	previous := GetReserve(inv.stateDB, inv.self)
	current, err := checkedSub(previous, amount)
	if err != nil {
		return err
	}

	setReserve(inv.stateDB, inv.self, current)
	emitReserveAdjusted(inv, previous, current)
	return nil
}

// Single transfers

func (p *reservePrecompile) holdAssetsOptIn(inv *invocation) error {
	if err := inv.useGas(GasOptIn); err != nil {
		return err
	}
	asset, err := inv.call.asset()
	if err != nil {
		return err
	}
	if inv.stateDB.HasAssetHolding(inv.self, asset) {
		return fmt.Errorf("%w: %s", ErrAlreadyOptedIn, asset.Hex())
	}

	return submit(inv, &contract.Transfer{
		Kind:     contract.AssetTransfer,
		Sender:   inv.self,
		Receiver: inv.self,
		Asset:    asset,
		Amount:   uint256.NewInt(0),
	})
}

func (p *reservePrecompile) transferAssetOut(inv *invocation) error {
	if err := inv.useGas(GasTransfer); err != nil {
		return err
	}
	asset, err := inv.call.asset()
	if err != nil {
		return err
	}
	amount, err := inv.call.uint64Arg(1)
	if err != nil {
		return err
	}

	return sendAsset(inv, asset, inv.caller, amount)
}

// transferAssetProgram settles a cross-platform swap. The amount is
// already scaled by the exchange multiplier.
func (p *reservePrecompile) transferAssetProgram(inv *invocation) error {
	if err := inv.useGas(GasTransfer); err != nil {
		return err
	}
	asset, err := inv.call.asset()
	if err != nil {
		return err
	}
	destination, err := inv.call.addressArg(1)
	if err != nil {
		return err
	}
	amount, err := inv.call.uint64Arg(2)
	if err != nil {
		return err
	}

	return sendAsset(inv, asset, destination, amount)
}

func sendAsset(inv *invocation, asset common.Hash, receiver common.Address, amount uint64) error {
	value := uint256.NewInt(amount)
	if err := requireAssetBalance(inv, asset, value); err != nil {
		return err
	}
	return submit(inv, &contract.Transfer{
		Kind:     contract.AssetTransfer,
		Sender:   inv.self,
		Receiver: receiver,
		Asset:    asset,
		Amount:   value,
	})
}

func requireAssetBalance(inv *invocation, asset common.Hash, amount *uint256.Int) error {
	available := inv.stateDB.GetAssetBalance(inv.self, asset)
	if available.Lt(amount) {
		return fmt.Errorf("%w: asset %s holds %s, need %s", ErrInsufficientBalance, asset.Hex(), available.Dec(), amount.Dec())
	}
	return nil
}

func requireNativeBalance(inv *invocation, amount *uint256.Int) error {
	available := inv.stateDB.GetBalance(inv.self)
	if available.Lt(amount) {
		return fmt.Errorf("%w: holds %s, need %s", ErrInsufficientBalance, available.Dec(), amount.Dec())
	}
	return nil
}

// submit hands t to the host and records it.
func submit(inv *invocation, t *contract.Transfer) error {
	if err := inv.state.Submit(t); err != nil {
		return fmt.Errorf("transfer to %s rejected: %w", t.Receiver.Hex(), err)
	}
	emitTransfer(inv, t)
	return nil
}
