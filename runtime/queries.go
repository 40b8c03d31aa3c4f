// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
)

// Balance returns the native balance of addr.
func (r *Runtime) Balance(addr common.Address) *uint256.Int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.state.GetBalance(addr)
}

// AssetBalance returns how much of asset addr holds.
func (r *Runtime) AssetBalance(addr common.Address, asset common.Hash) *uint256.Int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.state.GetAssetBalance(addr, asset)
}

// HasHolding reports whether addr may receive asset.
func (r *Runtime) HasHolding(addr common.Address, asset common.Hash) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.state.HasAssetHolding(addr, asset)
}

// AssetSupply returns the supply of asset and whether it exists.
func (r *Runtime) AssetSupply(asset common.Hash) (uint64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return assetSupply(r.state, asset)
}

// IsDeployed reports whether a program was deployed at addr.
func (r *Runtime) IsDeployed(addr common.Address) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return isDeployed(r.state, addr)
}
