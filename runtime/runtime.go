// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package runtime is an in-memory ledger host for stateful precompiles.
// It applies calls one at a time, executes the transfers a program
// submits, and commits or discards each call as a whole.
package runtime

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/luxfi/database"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/ids"
	log "github.com/luxfi/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/zeebo/blake3"

	"github.com/luxfi/reserve/contract"
	"github.com/luxfi/reserve/modules"
	"github.com/luxfi/reserve/precompileconfig"
	"github.com/luxfi/reserve/statedb"
)

// DefaultGas is supplied to calls that do not set a gas limit.
const DefaultGas uint64 = 10_000_000

var (
	ErrAlreadyDeployed   = errors.New("program already deployed")
	ErrNotDeployed       = errors.New("program not deployed")
	ErrUnknownProgram    = errors.New("no program at address")
	ErrModuleDisabled    = errors.New("module config is disabled")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrUnknownAsset      = errors.New("unknown asset")
	ErrNotOptedIn        = errors.New("account does not hold asset")
	ErrInvalidTransfer   = errors.New("invalid transfer")
)

// Config configures a Runtime.
type Config struct {
	ChainID uint64
	// Now is the block clock. Defaults to time.Now.
	Now func() time.Time
}

type chainConfig struct {
	chainID uint64
}

func (c chainConfig) ChainID() uint64 { return c.chainID }

// Runtime hosts deployed programs over a single StateDB.
type Runtime struct {
	mu sync.Mutex

	state    *statedb.StateDB
	programs modules.Registry
	chain    chainConfig
	now      func() time.Time

	blockNumber uint64
	nonces      map[common.Address]uint64

	log     log.Logger
	metrics *metrics
}

// New creates a runtime over the state committed in db.
func New(cfg Config, db database.Database, logger log.Logger, registerer prometheus.Registerer) (*Runtime, error) {
	state, err := statedb.New(db)
	if err != nil {
		return nil, err
	}
	m, err := newMetrics(registerer)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Runtime{
		state:   state,
		chain:   chainConfig{chainID: cfg.ChainID},
		now:     now,
		nonces:  make(map[common.Address]uint64),
		log:     logger,
		metrics: m,
	}, nil
}

// Deploy creates the program of module at its address: the module's
// configurator runs once with creator as the deploying identity.
func (r *Runtime) Deploy(creator common.Address, module modules.Module, cfg precompileconfig.Config) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cfg == nil {
		cfg = module.Configurator.MakeConfig()
	}
	if cfg.IsDisabled() {
		return fmt.Errorf("%w: %s", ErrModuleDisabled, cfg.Key())
	}
	if err := cfg.Verify(r.chain); err != nil {
		return fmt.Errorf("invalid %s config: %w", cfg.Key(), err)
	}
	if isDeployed(r.state, module.Address) {
		return fmt.Errorf("%w: %s", ErrAlreadyDeployed, module.Address.Hex())
	}
	if err := r.programs.Validate(module); err != nil {
		return err
	}

	r.blockNumber++
	bc := &blockContext{
		number:    r.blockNumber,
		timestamp: uint64(r.now().Unix()),
		creator:   creator,
		address:   module.Address,
	}

	snapshot := r.state.Snapshot()
	r.state.CreateAccount(module.Address)
	markDeployed(r.state, module.Address)
	if err := module.Configurator.Configure(r.chain, cfg, r.state, bc); err != nil {
		r.state.RevertToSnapshot(snapshot)
		return fmt.Errorf("failed to configure %s: %w", module.ConfigKey, err)
	}
	if err := r.state.Commit(); err != nil {
		r.state.RevertToSnapshot(snapshot)
		return err
	}
	r.state.TakeLogs()

	if err := r.programs.Register(module); err != nil {
		return err
	}
	r.log.Info("program deployed",
		"key", module.ConfigKey,
		"address", module.Address,
		"creator", creator,
	)
	return nil
}

// Attach makes an already deployed program callable, e.g. after the
// runtime reopened its database.
func (r *Runtime) Attach(module modules.Module) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !isDeployed(r.state, module.Address) {
		return fmt.Errorf("%w: %s", ErrNotDeployed, module.Address.Hex())
	}
	return r.programs.Register(module)
}

// Call applies msg. The receipt is returned for accepted and rejected
// calls alike; a rejected call also returns its error and leaves no
// trace in state.
func (r *Runtime) Call(ctx context.Context, msg Message) (*Receipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	module, ok := r.programs.ByAddress(msg.Program)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProgram, msg.Program.Hex())
	}

	gas := msg.Gas
	if gas == 0 {
		gas = DefaultGas
	}

	nonce := r.nonces[msg.Caller]
	r.nonces[msg.Caller] = nonce + 1
	r.blockNumber++

	receipt := &Receipt{
		CallID:      callID(msg, nonce),
		Program:     msg.Program,
		Caller:      msg.Caller,
		BlockNumber: r.blockNumber,
	}
	cs := &callState{
		runtime: r,
		block:   &blockContext{number: r.blockNumber, timestamp: uint64(r.now().Unix())},
	}

	snapshot := r.state.Snapshot()
	_, remaining, err := module.Contract.Run(cs, msg.Caller, msg.Program, msg.Input, gas, msg.ReadOnly)
	receipt.GasUsed = gas - remaining
	if err != nil {
		r.state.RevertToSnapshot(snapshot)
		receipt.Status = StatusRejected
		receipt.Err = err
		r.metrics.observe(module.ConfigKey, receipt)
		r.log.Debug("call rejected",
			"id", receipt.CallID,
			"program", msg.Program,
			"caller", msg.Caller,
			"err", err,
		)
		return receipt, err
	}

	if err := r.state.Commit(); err != nil {
		r.state.RevertToSnapshot(snapshot)
		r.log.Error("failed to commit call",
			"id", receipt.CallID,
			"err", err,
		)
		return nil, err
	}
	receipt.Status = StatusAccepted
	receipt.Logs = r.state.TakeLogs()
	receipt.Transfers = cs.transfers
	r.metrics.observe(module.ConfigKey, receipt)
	r.log.Debug("call accepted",
		"id", receipt.CallID,
		"program", msg.Program,
		"caller", msg.Caller,
		"transfers", len(receipt.Transfers),
		"gasUsed", receipt.GasUsed,
	)
	return receipt, nil
}

// View runs fn against committed state.
func (r *Runtime) View(fn func(state contract.StateDB)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fn(r.state)
}

func callID(msg Message, nonce uint64) ids.ID {
	h := blake3.New()
	h.Write(msg.Caller.Bytes())
	h.Write(msg.Program.Bytes())
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], nonce)
	h.Write(n[:])
	h.Write(msg.Input)
	var id ids.ID
	h.Digest().Read(id[:])
	return id
}

type blockContext struct {
	number    uint64
	timestamp uint64
	creator   common.Address
	address   common.Address
}

func (b *blockContext) Number() uint64          { return b.number }
func (b *blockContext) Timestamp() uint64       { return b.timestamp }
func (b *blockContext) Creator() common.Address { return b.creator }
func (b *blockContext) Address() common.Address { return b.address }

// callState is the contract.AccessibleState of one call.
type callState struct {
	runtime   *Runtime
	block     *blockContext
	transfers []*contract.Transfer
}

func (c *callState) GetStateDB() contract.StateDB { return c.runtime.state }

func (c *callState) GetBlockContext() contract.BlockContext { return c.block }

func (c *callState) Submit(t *contract.Transfer) error {
	if err := execute(c.runtime.state, t); err != nil {
		return err
	}
	c.transfers = append(c.transfers, t)
	return nil
}
