// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package modules

import (
	"bytes"
	"fmt"
	"sort"
	"sync"

	"github.com/luxfi/geth/common"
)

// AddressRange represents a continuous range of addresses
type AddressRange struct {
	Start common.Address
	End   common.Address
}

// Contains returns true iff [addr] is contained within the (inclusive)
// range of addresses defined by [a].
func (a *AddressRange) Contains(addr common.Address) bool {
	addrBytes := addr.Bytes()
	return bytes.Compare(addrBytes, a.Start[:]) >= 0 && bytes.Compare(addrBytes, a.End[:]) <= 0
}

// BlackholeAddr is the address where assets are burned
var BlackholeAddr = common.Address{
	1, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// reservedRanges holds the LP-6xxx bridge range (0x0000...6000 - 0x0000...6FFF)
var reservedRanges = []AddressRange{
	{
		Start: common.HexToAddress("0x0000000000000000000000000000000000006000"),
		End:   common.HexToAddress("0x0000000000000000000000000000000000006fff"),
	},
}

// ReservedAddress returns true if [addr] is in a reserved range for bridge programs
func ReservedAddress(addr common.Address) bool {
	for _, reservedRange := range reservedRanges {
		if reservedRange.Contains(addr) {
			return true
		}
	}

	return false
}

// Registry holds modules sorted by address for deterministic iteration.
// The zero value is ready to use.
type Registry struct {
	mu      sync.RWMutex
	modules []Module
}

// Register adds stm to the registry.
func (r *Registry) Register(stm Module) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.validate(stm); err != nil {
		return err
	}
	// sort by address to ensure deterministic iteration
	r.modules = insertSortedByAddress(r.modules, stm)
	return nil
}

// Validate reports whether Register would accept stm, without adding it.
func (r *Registry) Validate(stm Module) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.validate(stm)
}

func (r *Registry) validate(stm Module) error {
	address := stm.Address
	key := stm.ConfigKey

	if address == BlackholeAddr {
		return fmt.Errorf("address %s overlaps with blackhole address", address)
	}
	if !ReservedAddress(address) {
		return fmt.Errorf("address %s not in a reserved range", address)
	}
	for _, registeredModule := range r.modules {
		if registeredModule.ConfigKey == key {
			return fmt.Errorf("name %s already used by a stateful precompile", key)
		}
		if registeredModule.Address == address {
			return fmt.Errorf("address %s already used by a stateful precompile", address)
		}
	}
	return nil
}

func (r *Registry) ByAddress(address common.Address) (Module, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, stm := range r.modules {
		if stm.Address == address {
			return stm, true
		}
	}
	return Module{}, false
}

func (r *Registry) ByKey(key string) (Module, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, stm := range r.modules {
		if stm.ConfigKey == key {
			return stm, true
		}
	}
	return Module{}, false
}

func (r *Registry) Modules() []Module {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Module, len(r.modules))
	copy(out, r.modules)
	return out
}

// registeredModules is the process-wide registry populated from init()
var registeredModules Registry

// RegisterModule registers a stateful precompile module
func RegisterModule(stm Module) error {
	return registeredModules.Register(stm)
}

func GetPrecompileModuleByAddress(address common.Address) (Module, bool) {
	return registeredModules.ByAddress(address)
}

func GetPrecompileModule(key string) (Module, bool) {
	return registeredModules.ByKey(key)
}

func RegisteredModules() []Module {
	return registeredModules.Modules()
}

func insertSortedByAddress(data []Module, stm Module) []Module {
	data = append(data, stm)
	sort.Sort(moduleArray(data))
	return data
}
