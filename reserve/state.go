// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package reserve

import (
	"encoding/binary"

	"github.com/luxfi/geth/common"
	"github.com/zeebo/blake3"

	"github.com/luxfi/reserve/contract"
)

// Storage slot keys, stored under the program address
var (
	slotPrefix = []byte("reserve")

	OwnerSlot        = makeStorageKey(slotPrefix, []byte("owner"))
	ReserveSlot      = makeStorageKey(slotPrefix, []byte("reservebalance"))
	InitializedSlot  = makeStorageKey(slotPrefix, []byte("initialized"))
	UnrestrictedSlot = makeStorageKey(slotPrefix, []byte("unrestricted"))
)

// makeStorageKey creates a storage key from prefix and identifier
func makeStorageKey(prefix []byte, id []byte) common.Hash {
	h := blake3.New()
	h.Write(prefix)
	h.Write(id)
	var key common.Hash
	h.Digest().Read(key[:])
	return key
}

// Initialize records owner, zeroes the reserve and marks the program
// active. It runs once, when the program is created.
func Initialize(stateDB contract.StateDB, program common.Address, owner common.Address) {
	setStateAddress(stateDB, program, OwnerSlot, owner)
	setStateUint64(stateDB, program, ReserveSlot, 0)
	setStateBool(stateDB, program, InitializedSlot, true)
}

// IsInitialized reports whether the program at addr has been created.
func IsInitialized(stateDB contract.StateDB, program common.Address) bool {
	val := stateDB.GetState(program, InitializedSlot)
	return val[0] != 0 && val[31] != 0
}

// GetOwner returns the identity that created the program.
func GetOwner(stateDB contract.StateDB, program common.Address) common.Address {
	val := stateDB.GetState(program, OwnerSlot)
	return common.BytesToAddress(val[12:])
}

// GetReserve returns the reserve balance counter.
func GetReserve(stateDB contract.StateDB, program common.Address) uint64 {
	val := stateDB.GetState(program, ReserveSlot)
	return binary.BigEndian.Uint64(val[24:])
}

func setReserve(stateDB contract.StateDB, program common.Address, v uint64) {
	setStateUint64(stateDB, program, ReserveSlot, v)
}

func isUnrestricted(stateDB contract.StateDB, program common.Address) bool {
	val := stateDB.GetState(program, UnrestrictedSlot)
	return val[31] != 0
}

func setUnrestricted(stateDB contract.StateDB, program common.Address, v bool) {
	setStateBool(stateDB, program, UnrestrictedSlot, v)
}

func setStateAddress(stateDB contract.StateDB, program common.Address, slot common.Hash, addr common.Address) {
	var val common.Hash
	copy(val[12:], addr.Bytes())
	stateDB.SetState(program, slot, val)
}

func setStateUint64(stateDB contract.StateDB, program common.Address, slot common.Hash, v uint64) {
	var val common.Hash
	val[0] = 1 // Marker: explicitly set
	binary.BigEndian.PutUint64(val[24:], v)
	stateDB.SetState(program, slot, val)
}

func setStateBool(stateDB contract.StateDB, program common.Address, slot common.Hash, v bool) {
	var val common.Hash
	val[0] = 1 // Marker: explicitly set
	if v {
		val[31] = 1
	}
	stateDB.SetState(program, slot, val)
}
