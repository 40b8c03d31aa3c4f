// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package reserve

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"

	"github.com/luxfi/reserve/contract"
)

// Payout is one recipient/amount pair of a batch.
type Payout struct {
	Receiver common.Address
	Amount   uint64
}

// ParseBatch decodes a batch vector: b[0] is the count N, b[1..N] the
// recipients and b[N+1..2N] the matching amounts. Entries past 2N are
// ignored. Pair i is (b[i], b[i+N]) for i in [1, N].
func ParseBatch(b [][]byte) ([]Payout, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: missing batch count", ErrMalformedArguments)
	}
	n, err := decodeUint64(b[0])
	if err != nil {
		return nil, err
	}
	// n <= len(b) keeps 2n+1 from overflowing
	if n > uint64(len(b)) || uint64(len(b)) < 2*n+1 {
		return nil, fmt.Errorf("%w: batch of %d needs %d arguments, got %d", ErrMalformedArguments, n, 2*n+1, len(b))
	}

	count := int(n)
	payouts := make([]Payout, count)
	for i := 1; i <= count; i++ {
		receiver, err := decodeAddress(b[i])
		if err != nil {
			return nil, fmt.Errorf("recipient %d: %w", i, err)
		}
		amount, err := decodeUint64(b[i+count])
		if err != nil {
			return nil, fmt.Errorf("amount %d: %w", i, err)
		}
		payouts[i-1] = Payout{Receiver: receiver, Amount: amount}
	}
	return payouts, nil
}

// EncodeBatch builds the batch vector ParseBatch reads.
func EncodeBatch(payouts []Payout) [][]byte {
	n := len(payouts)
	b := make([][]byte, 2*n+1)
	b[0] = EncodeUint64(uint64(n))
	for i, p := range payouts {
		b[1+i] = p.Receiver.Bytes()
		b[1+n+i] = EncodeUint64(p.Amount)
	}
	return b
}

// batchGas is the gas a batch of n instructions costs.
func batchGas(n int) (uint64, error) {
	perTransfer, err := checkedMul(uint64(n), GasPayoutPerTransfer)
	if err != nil {
		return 0, err
	}
	return checkedAdd(GasPayoutBase, perTransfer)
}

// batch is a fully validated payout ready for emission.
type batch struct {
	payouts []Payout
	total   *uint256.Int
}

// prepareBatch decodes the batch vector after the selector, charges gas
// for every instruction and totals the amounts.
func prepareBatch(inv *invocation) (*batch, error) {
	payouts, err := ParseBatch(inv.call.Args[1:])
	if err != nil {
		return nil, err
	}
	cost, err := batchGas(len(payouts))
	if err != nil {
		return nil, err
	}
	if err := inv.useGas(cost); err != nil {
		return nil, err
	}

	amounts := make([]uint64, len(payouts))
	for i, p := range payouts {
		amounts[i] = p.Amount
	}
	total, err := sumAmounts(amounts)
	if err != nil {
		return nil, err
	}
	return &batch{payouts: payouts, total: total}, nil
}

// payoutNative pays native value to every recipient of the batch.
func (p *reservePrecompile) payoutNative(inv *invocation) error {
	b, err := prepareBatch(inv)
	if err != nil {
		return err
	}
	if err := requireNativeBalance(inv, b.total); err != nil {
		return err
	}

	for _, payout := range b.payouts {
		err := submit(inv, &contract.Transfer{
			Kind:     contract.Payment,
			Sender:   inv.self,
			Receiver: payout.Receiver,
			Amount:   uint256.NewInt(payout.Amount),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// payoutAsset pays assets[0] to every recipient of the batch.
func (p *reservePrecompile) payoutAsset(inv *invocation) error {
	asset, err := inv.call.asset()
	if err != nil {
		return err
	}
	b, err := prepareBatch(inv)
	if err != nil {
		return err
	}
	if err := requireAssetBalance(inv, asset, b.total); err != nil {
		return err
	}

	for _, payout := range b.payouts {
		err := submit(inv, &contract.Transfer{
			Kind:     contract.AssetTransfer,
			Sender:   inv.self,
			Receiver: payout.Receiver,
			Asset:    asset,
			Amount:   uint256.NewInt(payout.Amount),
		})
		if err != nil {
			return err
		}
	}
	return nil
}
