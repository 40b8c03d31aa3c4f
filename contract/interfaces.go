// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package contract defines the interfaces a stateful precompile sees of
// its host ledger.
package contract

import (
	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/core/tracing"
	ethtypes "github.com/luxfi/geth/core/types"

	"github.com/luxfi/reserve/precompileconfig"
)

// StatefulPrecompiledContract is the entry point of a precompile.
// A non-nil error rejects the call and the host discards every effect
// the call produced.
type StatefulPrecompiledContract interface {
	Run(
		accessibleState AccessibleState,
		caller common.Address,
		addr common.Address,
		input []byte,
		suppliedGas uint64,
		readOnly bool,
	) (ret []byte, remainingGas uint64, err error)
}

// StateDB is the state a precompile may read and mutate during a call.
type StateDB interface {
	GetState(addr common.Address, key common.Hash) common.Hash
	SetState(addr common.Address, key common.Hash, value common.Hash) common.Hash

	GetBalance(addr common.Address) *uint256.Int
	AddBalance(addr common.Address, amount *uint256.Int, reason tracing.BalanceChangeReason) uint256.Int
	SubBalance(addr common.Address, amount *uint256.Int, reason tracing.BalanceChangeReason) uint256.Int

	// Multi-asset balances, keyed by asset id.
	GetAssetBalance(addr common.Address, asset common.Hash) *uint256.Int
	AddAssetBalance(addr common.Address, asset common.Hash, amount *uint256.Int)
	SubAssetBalance(addr common.Address, asset common.Hash, amount *uint256.Int)

	// An account must hold an asset before it can receive it.
	HasAssetHolding(addr common.Address, asset common.Hash) bool
	CreateAssetHolding(addr common.Address, asset common.Hash)

	Exist(addr common.Address) bool
	CreateAccount(addr common.Address)

	AddLog(log *ethtypes.Log)
	Logs() []*ethtypes.Log

	Snapshot() int
	RevertToSnapshot(int)
}

// BlockContext exposes the block a call executes in.
type BlockContext interface {
	Number() uint64
	Timestamp() uint64
}

// AccessibleState is everything the host hands to Run.
type AccessibleState interface {
	GetStateDB() StateDB
	GetBlockContext() BlockContext

	// Submit executes an outbound transfer on behalf of the program.
	// Instructions run in submission order; an error means the host
	// refused the transfer and the whole call must be rejected.
	Submit(transfer *Transfer) error
}

// ConfigurationBlockContext is the block context seen by Configure.
type ConfigurationBlockContext interface {
	Number() uint64
	Timestamp() uint64
	// Creator is the identity deploying the program.
	Creator() common.Address
	// Address is where the program is being deployed.
	Address() common.Address
}

// Configurator builds a module config and applies it to state at
// activation time.
type Configurator interface {
	MakeConfig() precompileconfig.Config
	Configure(
		chainConfig precompileconfig.ChainConfig,
		precompileconfig precompileconfig.Config,
		state StateDB,
		blockContext ConfigurationBlockContext,
	) error
}
