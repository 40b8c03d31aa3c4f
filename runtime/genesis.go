// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"errors"
	"fmt"
	"os"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/common/hexutil"
	"github.com/luxfi/geth/core/tracing"
	"gopkg.in/yaml.v3"
)

var ErrInvalidGenesis = errors.New("invalid genesis")

// Genesis seeds native balances, assets and asset holdings.
type Genesis struct {
	Accounts []GenesisAccount `yaml:"accounts"`
	Assets   []GenesisAsset   `yaml:"assets"`
}

type GenesisAccount struct {
	Address string `yaml:"address"`
	Balance string `yaml:"balance"`
}

// GenesisAsset creates an asset whose whole supply starts with Creator,
// minus whatever Holdings hand out.
type GenesisAsset struct {
	ID       string           `yaml:"id"`
	Creator  string           `yaml:"creator"`
	Supply   uint64           `yaml:"supply"`
	Holdings []GenesisHolding `yaml:"holdings"`
}

type GenesisHolding struct {
	Address string `yaml:"address"`
	Balance uint64 `yaml:"balance"`
}

// LoadGenesis reads a YAML genesis file.
func LoadGenesis(path string) (*Genesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read genesis: %w", err)
	}
	return ParseGenesis(data)
}

// ParseGenesis decodes YAML genesis bytes.
func ParseGenesis(data []byte) (*Genesis, error) {
	var g Genesis
	if err := yaml.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGenesis, err)
	}
	return &g, nil
}

// ApplyGenesis writes g into state and commits it.
func (r *Runtime) ApplyGenesis(g *Genesis) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := r.state.Snapshot()
	if err := r.applyGenesis(g); err != nil {
		r.state.RevertToSnapshot(snapshot)
		return err
	}
	if err := r.state.Commit(); err != nil {
		return err
	}
	r.log.Info("genesis applied",
		"accounts", len(g.Accounts),
		"assets", len(g.Assets),
	)
	return nil
}

func (r *Runtime) applyGenesis(g *Genesis) error {
	for _, acc := range g.Accounts {
		addr, err := parseAddress(acc.Address)
		if err != nil {
			return err
		}
		balance, err := uint256.FromDecimal(acc.Balance)
		if err != nil {
			return fmt.Errorf("%w: balance of %s: %v", ErrInvalidGenesis, acc.Address, err)
		}
		r.state.CreateAccount(addr)
		r.state.AddBalance(addr, balance, tracing.BalanceIncreaseGenesisBalance)
	}

	for _, a := range g.Assets {
		id, err := parseAssetID(a.ID)
		if err != nil {
			return err
		}
		if _, exists := assetSupply(r.state, id); exists {
			return fmt.Errorf("%w: asset %s declared twice", ErrInvalidGenesis, a.ID)
		}
		creator, err := parseAddress(a.Creator)
		if err != nil {
			return err
		}

		registerAsset(r.state, id, a.Supply)
		r.state.CreateAssetHolding(creator, id)
		remaining := a.Supply
		for _, h := range a.Holdings {
			holder, err := parseAddress(h.Address)
			if err != nil {
				return err
			}
			if h.Balance > remaining {
				return fmt.Errorf("%w: holdings of %s exceed supply %d", ErrInvalidGenesis, a.ID, a.Supply)
			}
			remaining -= h.Balance
			r.state.CreateAssetHolding(holder, id)
			r.state.AddAssetBalance(holder, id, uint256.NewInt(h.Balance))
		}
		r.state.AddAssetBalance(creator, id, uint256.NewInt(remaining))
	}
	return nil
}

func parseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%w: bad address %q", ErrInvalidGenesis, s)
	}
	return common.HexToAddress(s), nil
}

func parseAssetID(s string) (common.Hash, error) {
	b, err := hexutil.Decode(s)
	if err != nil || len(b) == 0 || len(b) > common.HashLength {
		return common.Hash{}, fmt.Errorf("%w: bad asset id %q", ErrInvalidGenesis, s)
	}
	return common.BytesToHash(b), nil
}
