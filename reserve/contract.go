// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package reserve implements the Bridge Reserve Program, the custody
// side of a fixed-price (1:1) cross-chain bridge.
//
// The program keeps a reserve counter mirroring the backing asset held on
// the remote chain, and pays out native value and bridged assets from its
// own custody account. Every call carries an argument vector whose first
// element selects one of seven operations:
//
//   - adjustplus / adjustminus: move the reserve counter
//   - holdassetsoptin: register custody as a holder of an asset
//   - transferassetout: pay an asset to the caller
//   - transferassetprogram: pay a pre-scaled swap settlement to a destination
//   - payout_algos / payout_asset: batched payments to N recipients
//
// All validation happens before the first transfer is submitted, so a
// rejected call never leaves a partial batch behind.
package reserve

import (
	"errors"
	"fmt"

	"github.com/luxfi/geth/common"

	"github.com/luxfi/reserve/contract"
)

// ContractAddress is the address of the reserve program (LP-6xxx bridge range)
var ContractAddress = common.HexToAddress("0x0000000000000000000000000000000000006100")

// Gas costs
const (
	GasAdjust            uint64 = 5000  // Reserve counter write
	GasOptIn             uint64 = 10000 // Asset holding creation
	GasTransfer          uint64 = 25000 // Single outbound transfer
	GasPayoutBase        uint64 = 5000  // Batch decoding
	GasPayoutPerTransfer uint64 = 25000 // Per instruction in a batch
)

// Errors
var (
	ErrInvalidSelector     = errors.New("invalid selector")
	ErrArithmeticOverflow  = errors.New("arithmetic overflow")
	ErrArithmeticUnderflow = errors.New("arithmetic underflow")
	ErrMalformedArguments  = errors.New("malformed arguments")
	ErrInsufficientBalance = errors.New("insufficient custody balance")
	ErrUnauthorized        = errors.New("unauthorized: caller is not owner")
	ErrAlreadyOptedIn      = errors.New("asset already held by custody")
	ErrNotInitialized      = errors.New("reserve program not initialized")
	ErrWriteProtection     = errors.New("reserve program cannot run read-only")
	ErrOutOfGas            = contract.ErrOutOfGas
)

// ReservePrecompile implements the stateful precompiled contract interface
var ReservePrecompile = &reservePrecompile{}

var _ contract.StatefulPrecompiledContract = (*reservePrecompile)(nil)

type reservePrecompile struct{}

// Run decodes input as a Call and executes it.
func (p *reservePrecompile) Run(
	accessibleState contract.AccessibleState,
	caller common.Address,
	addr common.Address,
	input []byte,
	suppliedGas uint64,
	readOnly bool,
) ([]byte, uint64, error) {
	if readOnly {
		return nil, suppliedGas, ErrWriteProtection
	}

	call, err := DecodeCall(input)
	if err != nil {
		return nil, suppliedGas, err
	}

	remainingGas, err := p.Handle(accessibleState, caller, addr, call, suppliedGas)
	if err != nil {
		return nil, remainingGas, err
	}
	return nil, remainingGas, nil
}

// Handle routes an already decoded call to its operation handler.
// addr is the program address, which is also its custody account.
func (p *reservePrecompile) Handle(
	accessibleState contract.AccessibleState,
	caller common.Address,
	addr common.Address,
	call Call,
	suppliedGas uint64,
) (uint64, error) {
	if len(call.Args) == 0 {
		return suppliedGas, fmt.Errorf("%w: missing selector", ErrMalformedArguments)
	}
	op, err := ParseOperation(call.Args[0])
	if err != nil {
		return suppliedGas, err
	}

	stateDB := accessibleState.GetStateDB()
	if !IsInitialized(stateDB, addr) {
		return suppliedGas, ErrNotInitialized
	}
	if op.OwnerOnly() && !isUnrestricted(stateDB, addr) && caller != GetOwner(stateDB, addr) {
		return suppliedGas, fmt.Errorf("%w: %s", ErrUnauthorized, op)
	}

	inv := &invocation{
		state:   accessibleState,
		stateDB: stateDB,
		caller:  caller,
		self:    addr,
		call:    call,
		gas:     suppliedGas,
	}

	switch op {
	case OpAdjustPlus:
		err = p.adjustPlus(inv)
	case OpAdjustMinus:
		err = p.adjustMinus(inv)
	case OpHoldAssetsOptIn:
		err = p.holdAssetsOptIn(inv)
	case OpTransferAssetOut:
		err = p.transferAssetOut(inv)
	case OpTransferAssetProgram:
		err = p.transferAssetProgram(inv)
	case OpPayoutAlgos:
		err = p.payoutNative(inv)
	case OpPayoutAsset:
		err = p.payoutAsset(inv)
	default:
		// ParseOperation only returns known operations
		err = fmt.Errorf("%w: %s", ErrInvalidSelector, op)
	}
	return inv.gas, err
}

// invocation carries one call through a handler.
type invocation struct {
	state   contract.AccessibleState
	stateDB contract.StateDB
	caller  common.Address
	self    common.Address
	call    Call
	gas     uint64
}

func (inv *invocation) useGas(cost uint64) error {
	remaining, err := contract.DeductGas(inv.gas, cost)
	if err != nil {
		inv.gas = 0
		return err
	}
	inv.gas = remaining
	return nil
}

func (inv *invocation) blockNumber() uint64 {
	if bc := inv.state.GetBlockContext(); bc != nil {
		return bc.Number()
	}
	return 0
}
