// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package precompileconfig defines the configuration contract every
// precompile module implements.
package precompileconfig

// Config is the JSON-loaded configuration of a precompile module.
type Config interface {
	// Key returns the unique key of the module in a chain config.
	Key() string
	// Timestamp returns the activation time, nil for genesis.
	Timestamp() *uint64
	// IsDisabled reports whether this config deactivates the module.
	IsDisabled() bool
	Equal(Config) bool
	Verify(ChainConfig) error
}

// ChainConfig is the part of the chain configuration a module may inspect.
type ChainConfig interface {
	ChainID() uint64
}

// Upgrade describes when a module activates or deactivates.
type Upgrade struct {
	BlockTimestamp *uint64 `json:"blockTimestamp,omitempty"`
	Disable        bool    `json:"disable,omitempty"`
}

func (u *Upgrade) Timestamp() *uint64 {
	return u.BlockTimestamp
}

func (u *Upgrade) Equal(other *Upgrade) bool {
	if other == nil {
		return false
	}
	if u.Disable != other.Disable {
		return false
	}
	switch {
	case u.BlockTimestamp == nil && other.BlockTimestamp == nil:
		return true
	case u.BlockTimestamp == nil || other.BlockTimestamp == nil:
		return false
	default:
		return *u.BlockTimestamp == *other.BlockTimestamp
	}
}
