// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package reserve

import (
	"errors"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/core/tracing"
	ethtypes "github.com/luxfi/geth/core/types"

	"github.com/luxfi/reserve/contract"
)

type holdingKey struct {
	addr  common.Address
	asset common.Hash
}

// MockStateDB implements contract.StateDB interface for testing
type MockStateDB struct {
	storage  map[common.Address]map[common.Hash]common.Hash
	balances map[common.Address]*uint256.Int
	assets   map[holdingKey]*uint256.Int
	holdings map[holdingKey]bool
	logs     []*ethtypes.Log
}

func NewMockStateDB() *MockStateDB {
	return &MockStateDB{
		storage:  make(map[common.Address]map[common.Hash]common.Hash),
		balances: make(map[common.Address]*uint256.Int),
		assets:   make(map[holdingKey]*uint256.Int),
		holdings: make(map[holdingKey]bool),
		logs:     make([]*ethtypes.Log, 0),
	}
}

func (m *MockStateDB) GetState(addr common.Address, key common.Hash) common.Hash {
	if m.storage[addr] == nil {
		return common.Hash{}
	}
	return m.storage[addr][key]
}

func (m *MockStateDB) SetState(addr common.Address, key, value common.Hash) common.Hash {
	if m.storage[addr] == nil {
		m.storage[addr] = make(map[common.Hash]common.Hash)
	}
	prev := m.storage[addr][key]
	m.storage[addr][key] = value
	return prev
}

func (m *MockStateDB) GetBalance(addr common.Address) *uint256.Int {
	if bal, ok := m.balances[addr]; ok {
		return bal.Clone()
	}
	return uint256.NewInt(0)
}

func (m *MockStateDB) AddBalance(addr common.Address, amount *uint256.Int, _ tracing.BalanceChangeReason) uint256.Int {
	prev := m.GetBalance(addr)
	m.balances[addr] = new(uint256.Int).Add(prev, amount)
	return *prev
}

func (m *MockStateDB) SubBalance(addr common.Address, amount *uint256.Int, _ tracing.BalanceChangeReason) uint256.Int {
	prev := m.GetBalance(addr)
	m.balances[addr] = new(uint256.Int).Sub(prev, amount)
	return *prev
}

func (m *MockStateDB) GetAssetBalance(addr common.Address, asset common.Hash) *uint256.Int {
	if bal, ok := m.assets[holdingKey{addr, asset}]; ok {
		return bal.Clone()
	}
	return uint256.NewInt(0)
}

func (m *MockStateDB) AddAssetBalance(addr common.Address, asset common.Hash, amount *uint256.Int) {
	m.assets[holdingKey{addr, asset}] = new(uint256.Int).Add(m.GetAssetBalance(addr, asset), amount)
}

func (m *MockStateDB) SubAssetBalance(addr common.Address, asset common.Hash, amount *uint256.Int) {
	m.assets[holdingKey{addr, asset}] = new(uint256.Int).Sub(m.GetAssetBalance(addr, asset), amount)
}

func (m *MockStateDB) HasAssetHolding(addr common.Address, asset common.Hash) bool {
	return m.holdings[holdingKey{addr, asset}]
}

func (m *MockStateDB) CreateAssetHolding(addr common.Address, asset common.Hash) {
	m.holdings[holdingKey{addr, asset}] = true
}

func (m *MockStateDB) Exist(common.Address) bool         { return true }
func (m *MockStateDB) CreateAccount(common.Address)      {}
func (m *MockStateDB) AddLog(log *ethtypes.Log)          { m.logs = append(m.logs, log) }
func (m *MockStateDB) Logs() []*ethtypes.Log             { return m.logs }
func (m *MockStateDB) Snapshot() int                     { return 0 }
func (m *MockStateDB) RevertToSnapshot(int)              {}

// snapshotStorage copies the storage of addr for before/after comparisons.
func (m *MockStateDB) snapshotStorage(addr common.Address) map[common.Hash]common.Hash {
	out := make(map[common.Hash]common.Hash)
	for k, v := range m.storage[addr] {
		out[k] = v
	}
	return out
}

type mockBlockContext struct{}

func (mockBlockContext) Number() uint64    { return 7 }
func (mockBlockContext) Timestamp() uint64 { return 1_700_000_000 }

var errHostRefused = errors.New("host refused transfer")

// mockAccessibleState records submitted transfers. When failAt is
// positive, the failAt-th submission (1-indexed) is refused.
type mockAccessibleState struct {
	stateDB   *MockStateDB
	submitted []*contract.Transfer
	failAt    int
}

func (m *mockAccessibleState) GetStateDB() contract.StateDB          { return m.stateDB }
func (m *mockAccessibleState) GetBlockContext() contract.BlockContext { return mockBlockContext{} }

func (m *mockAccessibleState) Submit(t *contract.Transfer) error {
	if m.failAt > 0 && len(m.submitted)+1 == m.failAt {
		return errHostRefused
	}
	m.submitted = append(m.submitted, t)
	return nil
}
