// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package statedb

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/luxfi/database"
	"github.com/luxfi/geth/common"
)

// Key prefixes of committed state
var (
	storagePrefix = []byte("s")
	balancePrefix = []byte("b")
	assetPrefix   = []byte("a")
	holdingPrefix = []byte("h")
	accountPrefix = []byte("c")
)

var present = []byte{1}

func prefixed(prefix []byte, parts ...[]byte) []byte {
	key := make([]byte, 0, 1+common.AddressLength+common.HashLength)
	key = append(key, prefix...)
	for _, p := range parts {
		key = append(key, p...)
	}
	return key
}

// Commit writes every entry changed since the last commit to the
// database and forgets the journal. Snapshots taken before Commit can no
// longer be reverted.
func (s *StateDB) Commit() error {
	batch := s.db.NewBatch()

	for k := range s.dirtyStorage {
		key := prefixed(storagePrefix, k.addr.Bytes(), k.slot.Bytes())
		val, ok := s.storage[k]
		if err := putOrDelete(batch, key, val.Bytes(), ok && val != (common.Hash{})); err != nil {
			return err
		}
	}
	for addr := range s.dirtyBalances {
		key := prefixed(balancePrefix, addr.Bytes())
		bal, ok := s.balances[addr]
		if err := putOrDelete(batch, key, uint256Bytes(bal), ok && !bal.IsZero()); err != nil {
			return err
		}
	}
	for k := range s.dirtyAssets {
		key := prefixed(assetPrefix, k.addr.Bytes(), k.asset.Bytes())
		bal, ok := s.assets[k]
		if err := putOrDelete(batch, key, uint256Bytes(bal), ok && !bal.IsZero()); err != nil {
			return err
		}
	}
	for k := range s.dirtyHoldings {
		key := prefixed(holdingPrefix, k.addr.Bytes(), k.asset.Bytes())
		_, ok := s.holdings[k]
		if err := putOrDelete(batch, key, present, ok); err != nil {
			return err
		}
	}
	for addr := range s.dirtyAccounts {
		key := prefixed(accountPrefix, addr.Bytes())
		_, ok := s.accounts[addr]
		if err := putOrDelete(batch, key, present, ok); err != nil {
			return err
		}
	}

	if err := batch.Write(); err != nil {
		return fmt.Errorf("failed to write state batch: %w", err)
	}

	s.journal = nil
	s.validRevisions = nil
	s.resetDirty()
	return nil
}

func putOrDelete(batch database.Batch, key, value []byte, put bool) error {
	if put {
		return batch.Put(key, value)
	}
	return batch.Delete(key)
}

func uint256Bytes(v *uint256.Int) []byte {
	if v == nil {
		return nil
	}
	b := v.Bytes32()
	return b[:]
}

func (s *StateDB) load() error {
	err := s.iterate(storagePrefix, func(rest, value []byte) error {
		if len(rest) != common.AddressLength+common.HashLength {
			return fmt.Errorf("bad storage key length %d", len(rest))
		}
		k := storageKey{
			addr: common.BytesToAddress(rest[:common.AddressLength]),
			slot: common.BytesToHash(rest[common.AddressLength:]),
		}
		s.storage[k] = common.BytesToHash(value)
		return nil
	})
	if err != nil {
		return err
	}

	err = s.iterate(balancePrefix, func(rest, value []byte) error {
		if len(rest) != common.AddressLength {
			return fmt.Errorf("bad balance key length %d", len(rest))
		}
		s.balances[common.BytesToAddress(rest)] = new(uint256.Int).SetBytes(value)
		return nil
	})
	if err != nil {
		return err
	}

	err = s.iterate(assetPrefix, func(rest, value []byte) error {
		k, err := decodeAssetKey(rest)
		if err != nil {
			return err
		}
		s.assets[k] = new(uint256.Int).SetBytes(value)
		return nil
	})
	if err != nil {
		return err
	}

	err = s.iterate(holdingPrefix, func(rest, _ []byte) error {
		k, err := decodeAssetKey(rest)
		if err != nil {
			return err
		}
		s.holdings[k] = struct{}{}
		return nil
	})
	if err != nil {
		return err
	}

	return s.iterate(accountPrefix, func(rest, _ []byte) error {
		if len(rest) != common.AddressLength {
			return fmt.Errorf("bad account key length %d", len(rest))
		}
		s.accounts[common.BytesToAddress(rest)] = struct{}{}
		return nil
	})
}

func decodeAssetKey(rest []byte) (assetKey, error) {
	if len(rest) != common.AddressLength+common.HashLength {
		return assetKey{}, fmt.Errorf("bad asset key length %d", len(rest))
	}
	return assetKey{
		addr:  common.BytesToAddress(rest[:common.AddressLength]),
		asset: common.BytesToHash(rest[common.AddressLength:]),
	}, nil
}

func (s *StateDB) iterate(prefix []byte, fn func(rest, value []byte) error) error {
	it := s.db.NewIteratorWithPrefix(prefix)
	defer it.Release()

	for it.Next() {
		key := it.Key()
		value := make([]byte, len(it.Value()))
		copy(value, it.Value())
		if err := fn(key[len(prefix):], value); err != nil {
			return err
		}
	}
	return it.Error()
}
