package gas

import (
	"context"
	"fmt"
	"math/big"

	"github.com/samber/lo"

	"github.com/AvaProtocol/userop-gas/pkg/erc4337/userop"
)

// SimulationResult carries the two figures a simulateHandleOp dry run
// reports: gas consumed before the execution phase and the total amount paid.
type SimulationResult struct {
	PreOpGas *big.Int
	Paid     *big.Int
}

const (
	// verificationGasLimit gets a 3/2 margin over the simulated usage.
	verificationGasMarginNum = 3
	verificationGasMarginDen = 2

	// Buffer added to callGasLimit on top of the derived execution gas:
	// one intrinsic transfer plus postOp headroom.
	intrinsicTxGas  = 21000
	callGasBuffer   = 50000
	minCallGasLimit = 9000

	// Empirical markup for chains that systematically underreport execution
	// gas in simulation. Revalidate against current chain behavior before
	// extending the family.
	callGasMarkupPercent = 10
)

// Chains receiving the callGasLimit markup.
var callGasMarkupChainIDs = []uint64{
	8453,  // Base
	84531, // Base Goerli
	84532, // Base Sepolia
}

// DeriveGasLimits converts a dry-run result into the verification and call
// gas limits of op. op.PreVerificationGas must already be set. The single
// conditional block read resolves the base fee when the fee fields diverge; a
// header without one counts as zero.
func DeriveGasLimits(
	ctx context.Context,
	client ChainClient,
	chainID *big.Int,
	op *userop.UserOperation,
	res *SimulationResult,
) (verificationGasLimit, callGasLimit *big.Int, err error) {
	if res == nil || res.PreOpGas == nil || res.Paid == nil {
		return nil, nil, fmt.Errorf("incomplete simulation result")
	}

	verificationGasLimit = new(big.Int).Sub(res.PreOpGas, op.PreVerificationGas)
	verificationGasLimit.Mul(verificationGasLimit, big.NewInt(verificationGasMarginNum))
	verificationGasLimit.Div(verificationGasLimit, big.NewInt(verificationGasMarginDen))

	gasPrice, err := effectiveGasPrice(ctx, client, op)
	if err != nil {
		return nil, nil, err
	}
	if gasPrice.Sign() <= 0 {
		return nil, nil, fmt.Errorf("non-positive effective gas price %s", gasPrice)
	}

	callGasLimit = new(big.Int).Div(res.Paid, gasPrice)
	callGasLimit.Sub(callGasLimit, res.PreOpGas)
	callGasLimit.Add(callGasLimit, big.NewInt(intrinsicTxGas+callGasBuffer))
	if floor := big.NewInt(minCallGasLimit); callGasLimit.Cmp(floor) < 0 {
		callGasLimit = floor
	}

	if chainID != nil && chainID.IsUint64() && lo.Contains(callGasMarkupChainIDs, chainID.Uint64()) {
		callGasLimit.Mul(callGasLimit, big.NewInt(100+callGasMarkupPercent))
		callGasLimit.Div(callGasLimit, big.NewInt(100))
	}

	return verificationGasLimit, callGasLimit, nil
}

// effectiveGasPrice mirrors what the entrypoint charges: maxFeePerGas when
// both fee fields agree, otherwise min(maxFee, maxPriority+baseFee).
func effectiveGasPrice(ctx context.Context, client ChainClient, op *userop.UserOperation) (*big.Int, error) {
	if op.MaxPriorityFeePerGas.Cmp(op.MaxFeePerGas) == 0 {
		return op.MaxFeePerGas, nil
	}

	header, err := client.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read latest block: %w", err)
	}
	baseFee := big.NewInt(0)
	if header.BaseFee != nil {
		baseFee = header.BaseFee
	}

	price := new(big.Int).Add(op.MaxPriorityFeePerGas, baseFee)
	if op.MaxFeePerGas.Cmp(price) < 0 {
		price = op.MaxFeePerGas
	}
	return price, nil
}
