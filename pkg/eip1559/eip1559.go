// Package eip1559 produces the {maxFeePerGas, maxPriorityFeePerGas} pair used
// when pricing user operations. Values are fetched fresh on every call; the
// estimator deliberately never caches them.
package eip1559

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/core/types"

	"github.com/AvaProtocol/userop-gas/pkg/logger"
)

// GasPrice is one sample of the current fee market.
type GasPrice struct {
	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int
}

// FeeReader is the subset of ethclient.Client SuggestFee needs.
type FeeReader interface {
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
}

const (
	// Buffer applied on top of the node's suggested tip, in percent. Fast
	// mode pays more to keep the operation attractive to bundlers during
	// fee spikes.
	tipBufferPercent     = 13
	tipBufferPercentFast = 25

	// Floors tuned for bundler profitability on chains like Base where the
	// suggested tip can be near zero.
	minTipWei    = 2_000_000_000  // 2 gwei
	minMaxFeeWei = 20_000_000_000 // 20 gwei
)

// SuggestFee samples the current fee market. On EIP-1559 chains the max fee
// carries 2x base-fee headroom so the operation survives base-fee growth
// between blocks; on legacy chains the buffered tip doubles as the max fee.
func SuggestFee(ctx context.Context, client FeeReader, fast bool, lgr logger.Logger) (*GasPrice, error) {
	lgr = logger.EnsureLogger(lgr)

	tipCap, err := client.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, err
	}

	header, err := client.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, err
	}

	percent := int64(tipBufferPercent)
	if fast {
		percent = tipBufferPercentFast
	}
	buffer := new(big.Int).Div(tipCap, big.NewInt(100))
	buffer.Mul(buffer, big.NewInt(percent))
	maxPriorityFeePerGas := new(big.Int).Add(tipCap, buffer)

	if minTip := big.NewInt(minTipWei); maxPriorityFeePerGas.Cmp(minTip) < 0 {
		maxPriorityFeePerGas = minTip
	}

	var maxFeePerGas *big.Int
	if baseFee := header.BaseFee; baseFee != nil {
		maxFeePerGas = new(big.Int).Add(
			new(big.Int).Mul(baseFee, big.NewInt(2)),
			maxPriorityFeePerGas,
		)
		if minMaxFee := big.NewInt(minMaxFeeWei); maxFeePerGas.Cmp(minMaxFee) < 0 {
			maxFeePerGas = minMaxFee
		}
	} else {
		// Pre-1559 chain, no base fee to build on.
		maxFeePerGas = new(big.Int).Set(maxPriorityFeePerGas)
	}

	lgr.Debug("suggested fee sample",
		"maxFeePerGas", maxFeePerGas.String(),
		"maxPriorityFeePerGas", maxPriorityFeePerGas.String(),
		"fast", fast)

	return &GasPrice{
		MaxFeePerGas:         maxFeePerGas,
		MaxPriorityFeePerGas: maxPriorityFeePerGas,
	}, nil
}
