// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package reserve

import (
	"encoding/binary"
	"fmt"

	"github.com/luxfi/geth/accounts/abi"
	"github.com/luxfi/geth/common"
)

// Call is one invocation of the program: an argument vector whose first
// element is the selector, and the asset ids the call refers to.
type Call struct {
	Args   [][]byte
	Assets []common.Hash
}

// NewCall builds a call for op.
func NewCall(op Operation, assets []common.Hash, args ...[]byte) Call {
	all := make([][]byte, 0, len(args)+1)
	all = append(all, []byte(op.Selector()))
	all = append(all, args...)
	return Call{Args: all, Assets: assets}
}

// callArguments is the wire layout of a call: (bytes[] args, bytes32[] assets)
var callArguments abi.Arguments

func init() {
	bytesArray, err := abi.NewType("bytes[]", "", nil)
	if err != nil {
		panic(err)
	}
	bytes32Array, err := abi.NewType("bytes32[]", "", nil)
	if err != nil {
		panic(err)
	}
	callArguments = abi.Arguments{
		{Name: "args", Type: bytesArray},
		{Name: "assets", Type: bytes32Array},
	}
}

// EncodeCall packs call into precompile input bytes.
func EncodeCall(call Call) ([]byte, error) {
	args := call.Args
	if args == nil {
		args = [][]byte{}
	}
	assets := make([][32]byte, len(call.Assets))
	for i, a := range call.Assets {
		assets[i] = a
	}
	return callArguments.Pack(args, assets)
}

// DecodeCall unpacks precompile input bytes into a Call.
func DecodeCall(input []byte) (Call, error) {
	values, err := callArguments.Unpack(input)
	if err != nil {
		return Call{}, fmt.Errorf("%w: %v", ErrMalformedArguments, err)
	}
	if len(values) != 2 {
		return Call{}, fmt.Errorf("%w: expected 2 values, got %d", ErrMalformedArguments, len(values))
	}
	args, ok := values[0].([][]byte)
	if !ok {
		return Call{}, fmt.Errorf("%w: unexpected args type %T", ErrMalformedArguments, values[0])
	}
	rawAssets, ok := values[1].([][32]byte)
	if !ok {
		return Call{}, fmt.Errorf("%w: unexpected assets type %T", ErrMalformedArguments, values[1])
	}
	assets := make([]common.Hash, len(rawAssets))
	for i, a := range rawAssets {
		assets[i] = common.Hash(a)
	}
	return Call{Args: args, Assets: assets}, nil
}

// EncodeUint64 encodes v as an 8-byte big-endian amount argument.
func EncodeUint64(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

// decodeUint64 reads a big-endian unsigned integer of at most 8 bytes.
// An empty argument is zero.
func decodeUint64(b []byte) (uint64, error) {
	if len(b) > 8 {
		return 0, fmt.Errorf("%w: integer argument of %d bytes", ErrMalformedArguments, len(b))
	}
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v, nil
}

func decodeAddress(b []byte) (common.Address, error) {
	if len(b) != common.AddressLength {
		return common.Address{}, fmt.Errorf("%w: identity argument of %d bytes", ErrMalformedArguments, len(b))
	}
	return common.BytesToAddress(b), nil
}

func (c Call) uint64Arg(i int) (uint64, error) {
	if i >= len(c.Args) {
		return 0, fmt.Errorf("%w: missing argument %d", ErrMalformedArguments, i)
	}
	return decodeUint64(c.Args[i])
}

func (c Call) addressArg(i int) (common.Address, error) {
	if i >= len(c.Args) {
		return common.Address{}, fmt.Errorf("%w: missing argument %d", ErrMalformedArguments, i)
	}
	return decodeAddress(c.Args[i])
}

// asset returns the asset the call concerns.
func (c Call) asset() (common.Hash, error) {
	if len(c.Assets) == 0 {
		return common.Hash{}, fmt.Errorf("%w: missing asset reference", ErrMalformedArguments)
	}
	return c.Assets[0], nil
}
