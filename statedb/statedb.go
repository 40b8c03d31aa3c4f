// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package statedb provides a journaled, in-memory contract.StateDB whose
// committed state lives in a luxfi/database key-value store.
package statedb

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/luxfi/database"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/core/tracing"
	ethtypes "github.com/luxfi/geth/core/types"

	"github.com/luxfi/reserve/contract"
)

var _ contract.StateDB = (*StateDB)(nil)

type assetKey struct {
	addr  common.Address
	asset common.Hash
}

type storageKey struct {
	addr common.Address
	slot common.Hash
}

type revision struct {
	id           int
	journalIndex int
}

// StateDB is not safe for concurrent use; the runtime serializes access.
type StateDB struct {
	db database.Database

	storage  map[storageKey]common.Hash
	balances map[common.Address]*uint256.Int
	assets   map[assetKey]*uint256.Int
	holdings map[assetKey]struct{}
	accounts map[common.Address]struct{}
	logs     []*ethtypes.Log

	journal        []func()
	validRevisions []revision
	nextRevisionID int

	dirtyStorage  map[storageKey]struct{}
	dirtyBalances map[common.Address]struct{}
	dirtyAssets   map[assetKey]struct{}
	dirtyHoldings map[assetKey]struct{}
	dirtyAccounts map[common.Address]struct{}
}

// New loads the committed state held in db.
func New(db database.Database) (*StateDB, error) {
	s := &StateDB{
		db:       db,
		storage:  make(map[storageKey]common.Hash),
		balances: make(map[common.Address]*uint256.Int),
		assets:   make(map[assetKey]*uint256.Int),
		holdings: make(map[assetKey]struct{}),
		accounts: make(map[common.Address]struct{}),
	}
	s.resetDirty()
	if err := s.load(); err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}
	return s, nil
}

func (s *StateDB) resetDirty() {
	s.dirtyStorage = make(map[storageKey]struct{})
	s.dirtyBalances = make(map[common.Address]struct{})
	s.dirtyAssets = make(map[assetKey]struct{})
	s.dirtyHoldings = make(map[assetKey]struct{})
	s.dirtyAccounts = make(map[common.Address]struct{})
}

// Storage

func (s *StateDB) GetState(addr common.Address, key common.Hash) common.Hash {
	return s.storage[storageKey{addr, key}]
}

func (s *StateDB) SetState(addr common.Address, key, value common.Hash) common.Hash {
	k := storageKey{addr, key}
	prev, existed := s.storage[k]
	s.journal = append(s.journal, func() {
		if existed {
			s.storage[k] = prev
		} else {
			delete(s.storage, k)
		}
	})
	s.storage[k] = value
	s.dirtyStorage[k] = struct{}{}
	return prev
}

// Native balances

func (s *StateDB) GetBalance(addr common.Address) *uint256.Int {
	if bal, ok := s.balances[addr]; ok {
		return bal.Clone()
	}
	return uint256.NewInt(0)
}

func (s *StateDB) AddBalance(addr common.Address, amount *uint256.Int, _ tracing.BalanceChangeReason) uint256.Int {
	prev := s.GetBalance(addr)
	s.setBalance(addr, new(uint256.Int).Add(prev, amount))
	return *prev
}

func (s *StateDB) SubBalance(addr common.Address, amount *uint256.Int, _ tracing.BalanceChangeReason) uint256.Int {
	prev := s.GetBalance(addr)
	s.setBalance(addr, new(uint256.Int).Sub(prev, amount))
	return *prev
}

func (s *StateDB) setBalance(addr common.Address, v *uint256.Int) {
	prev, existed := s.balances[addr]
	s.journal = append(s.journal, func() {
		if existed {
			s.balances[addr] = prev
		} else {
			delete(s.balances, addr)
		}
	})
	s.balances[addr] = v
	s.dirtyBalances[addr] = struct{}{}
	s.touch(addr)
}

// Asset balances

func (s *StateDB) GetAssetBalance(addr common.Address, asset common.Hash) *uint256.Int {
	if bal, ok := s.assets[assetKey{addr, asset}]; ok {
		return bal.Clone()
	}
	return uint256.NewInt(0)
}

func (s *StateDB) AddAssetBalance(addr common.Address, asset common.Hash, amount *uint256.Int) {
	prev := s.GetAssetBalance(addr, asset)
	s.setAssetBalance(assetKey{addr, asset}, new(uint256.Int).Add(prev, amount))
}

func (s *StateDB) SubAssetBalance(addr common.Address, asset common.Hash, amount *uint256.Int) {
	prev := s.GetAssetBalance(addr, asset)
	s.setAssetBalance(assetKey{addr, asset}, new(uint256.Int).Sub(prev, amount))
}

func (s *StateDB) setAssetBalance(k assetKey, v *uint256.Int) {
	prev, existed := s.assets[k]
	s.journal = append(s.journal, func() {
		if existed {
			s.assets[k] = prev
		} else {
			delete(s.assets, k)
		}
	})
	s.assets[k] = v
	s.dirtyAssets[k] = struct{}{}
}

func (s *StateDB) HasAssetHolding(addr common.Address, asset common.Hash) bool {
	_, ok := s.holdings[assetKey{addr, asset}]
	return ok
}

func (s *StateDB) CreateAssetHolding(addr common.Address, asset common.Hash) {
	k := assetKey{addr, asset}
	if _, ok := s.holdings[k]; ok {
		return
	}
	s.journal = append(s.journal, func() { delete(s.holdings, k) })
	s.holdings[k] = struct{}{}
	s.dirtyHoldings[k] = struct{}{}
	s.touch(addr)
}

// Accounts

func (s *StateDB) Exist(addr common.Address) bool {
	_, ok := s.accounts[addr]
	return ok
}

func (s *StateDB) CreateAccount(addr common.Address) {
	s.touch(addr)
}

func (s *StateDB) touch(addr common.Address) {
	if _, ok := s.accounts[addr]; ok {
		return
	}
	s.journal = append(s.journal, func() { delete(s.accounts, addr) })
	s.accounts[addr] = struct{}{}
	s.dirtyAccounts[addr] = struct{}{}
}

// Logs

func (s *StateDB) AddLog(log *ethtypes.Log) {
	n := len(s.logs)
	s.journal = append(s.journal, func() { s.logs = s.logs[:n] })
	log.Index = uint(n)
	s.logs = append(s.logs, log)
}

func (s *StateDB) Logs() []*ethtypes.Log {
	return s.logs
}

// TakeLogs returns the logs collected so far and clears them.
func (s *StateDB) TakeLogs() []*ethtypes.Log {
	logs := s.logs
	s.logs = nil
	return logs
}

// Snapshots

func (s *StateDB) Snapshot() int {
	id := s.nextRevisionID
	s.nextRevisionID++
	s.validRevisions = append(s.validRevisions, revision{id, len(s.journal)})
	return id
}

func (s *StateDB) RevertToSnapshot(revid int) {
	idx := -1
	for i := len(s.validRevisions) - 1; i >= 0; i-- {
		if s.validRevisions[i].id == revid {
			idx = i
			break
		}
	}
	if idx < 0 {
		panic(fmt.Errorf("revision id %v cannot be reverted", revid))
	}
	snapshot := s.validRevisions[idx].journalIndex

	for i := len(s.journal) - 1; i >= snapshot; i-- {
		s.journal[i]()
	}
	s.journal = s.journal[:snapshot]
	s.validRevisions = s.validRevisions[:idx]
}
