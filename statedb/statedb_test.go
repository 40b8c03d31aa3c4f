// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package statedb

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/luxfi/database/memdb"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/core/tracing"
	ethtypes "github.com/luxfi/geth/core/types"
	"github.com/stretchr/testify/require"
)

var (
	alice = common.HexToAddress("0xa11ce00000000000000000000000000000000001")
	bob   = common.HexToAddress("0xb0b0000000000000000000000000000000000002")
	asset = common.HexToHash("0x01")
	slot  = common.HexToHash("0x02")
)

func TestSnapshotRevert(t *testing.T) {
	s, err := New(memdb.New())
	require.NoError(t, err)

	s.SetState(alice, slot, common.HexToHash("0x11"))
	s.AddBalance(alice, uint256.NewInt(100), tracing.BalanceChangeTransfer)
	s.CreateAssetHolding(alice, asset)
	s.AddAssetBalance(alice, asset, uint256.NewInt(5))

	snap := s.Snapshot()

	require.Equal(t, common.HexToHash("0x11"), s.SetState(alice, slot, common.HexToHash("0x22")))
	s.SubBalance(alice, uint256.NewInt(40), tracing.BalanceChangeTransfer)
	s.AddBalance(bob, uint256.NewInt(40), tracing.BalanceChangeTransfer)
	s.CreateAssetHolding(bob, asset)
	s.SubAssetBalance(alice, asset, uint256.NewInt(5))
	s.AddAssetBalance(bob, asset, uint256.NewInt(5))
	s.AddLog(&ethtypes.Log{Address: alice})

	require.True(t, s.Exist(bob))
	require.Len(t, s.Logs(), 1)

	s.RevertToSnapshot(snap)

	require.Equal(t, common.HexToHash("0x11"), s.GetState(alice, slot))
	require.Equal(t, uint256.NewInt(100), s.GetBalance(alice))
	require.True(t, s.GetBalance(bob).IsZero())
	require.False(t, s.HasAssetHolding(bob, asset))
	require.False(t, s.Exist(bob))
	require.Equal(t, uint256.NewInt(5), s.GetAssetBalance(alice, asset))
	require.True(t, s.GetAssetBalance(bob, asset).IsZero())
	require.Empty(t, s.Logs())
	require.True(t, s.Exist(alice))
}

func TestNestedSnapshots(t *testing.T) {
	s, err := New(memdb.New())
	require.NoError(t, err)

	outer := s.Snapshot()
	s.AddBalance(alice, uint256.NewInt(1), tracing.BalanceChangeTransfer)
	inner := s.Snapshot()
	s.AddBalance(alice, uint256.NewInt(2), tracing.BalanceChangeTransfer)

	s.RevertToSnapshot(inner)
	require.Equal(t, uint256.NewInt(1), s.GetBalance(alice))

	s.RevertToSnapshot(outer)
	require.True(t, s.GetBalance(alice).IsZero())

	require.Panics(t, func() { s.RevertToSnapshot(inner) })
}

func TestLogIndex(t *testing.T) {
	s, err := New(memdb.New())
	require.NoError(t, err)

	s.AddLog(&ethtypes.Log{})
	s.AddLog(&ethtypes.Log{})
	logs := s.TakeLogs()
	require.Len(t, logs, 2)
	require.Equal(t, uint(0), logs[0].Index)
	require.Equal(t, uint(1), logs[1].Index)
	require.Empty(t, s.Logs())
}

func TestCommitReload(t *testing.T) {
	db := memdb.New()
	s, err := New(db)
	require.NoError(t, err)

	s.SetState(alice, slot, common.HexToHash("0x33"))
	s.AddBalance(alice, uint256.NewInt(1_000), tracing.BalanceChangeTransfer)
	s.CreateAssetHolding(bob, asset)
	s.AddAssetBalance(bob, asset, uint256.NewInt(77))
	s.CreateAccount(common.HexToAddress("0xc0"))
	require.NoError(t, s.Commit())

	reloaded, err := New(db)
	require.NoError(t, err)
	require.Equal(t, common.HexToHash("0x33"), reloaded.GetState(alice, slot))
	require.Equal(t, uint256.NewInt(1_000), reloaded.GetBalance(alice))
	require.True(t, reloaded.HasAssetHolding(bob, asset))
	require.Equal(t, uint256.NewInt(77), reloaded.GetAssetBalance(bob, asset))
	require.True(t, reloaded.Exist(alice))
	require.True(t, reloaded.Exist(bob))
	require.True(t, reloaded.Exist(common.HexToAddress("0xc0")))
}

func TestCommitDeletesZeroValues(t *testing.T) {
	db := memdb.New()
	s, err := New(db)
	require.NoError(t, err)

	s.SetState(alice, slot, common.HexToHash("0x01"))
	s.AddBalance(alice, uint256.NewInt(9), tracing.BalanceChangeTransfer)
	require.NoError(t, s.Commit())

	s.SetState(alice, slot, common.Hash{})
	s.SubBalance(alice, uint256.NewInt(9), tracing.BalanceChangeTransfer)
	require.NoError(t, s.Commit())

	has, err := db.Has(prefixed(storagePrefix, alice.Bytes(), slot.Bytes()))
	require.NoError(t, err)
	require.False(t, has)
	has, err = db.Has(prefixed(balancePrefix, alice.Bytes()))
	require.NoError(t, err)
	require.False(t, has)

	reloaded, err := New(db)
	require.NoError(t, err)
	require.True(t, reloaded.GetBalance(alice).IsZero())
	require.True(t, reloaded.Exist(alice))
}

func TestRevertedChangesAreNotCommitted(t *testing.T) {
	db := memdb.New()
	s, err := New(db)
	require.NoError(t, err)

	snap := s.Snapshot()
	s.AddBalance(bob, uint256.NewInt(5), tracing.BalanceChangeTransfer)
	s.RevertToSnapshot(snap)
	require.NoError(t, s.Commit())

	reloaded, err := New(db)
	require.NoError(t, err)
	require.True(t, reloaded.GetBalance(bob).IsZero())
	require.False(t, reloaded.Exist(bob))
}
