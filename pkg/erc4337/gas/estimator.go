package gas

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"

	"github.com/AvaProtocol/userop-gas/metrics"
	"github.com/AvaProtocol/userop-gas/pkg/eip1559"
	"github.com/AvaProtocol/userop-gas/pkg/erc4337/userop"
	"github.com/AvaProtocol/userop-gas/pkg/logger"
)

// ChainClient is the subset of ethclient.Client the estimator needs. Every
// call is request-scoped; nothing is cached between invocations.
type ChainClient interface {
	eip1559.FeeReader
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	ChainID(ctx context.Context) (*big.Int, error)
}

// SuggestFeeFunc matches eip1559.SuggestFee and exists so tests can stub the
// fee market.
type SuggestFeeFunc func(ctx context.Context, client eip1559.FeeReader, fast bool, lgr logger.Logger) (*eip1559.GasPrice, error)

// strategy tags how preVerificationGas is computed for a chain.
type strategy string

const (
	strategyDefault  strategy = "default"
	strategyDouble   strategy = "double"
	strategyOptimism strategy = "optimism-surcharge"
	strategyArbitrum strategy = "arbitrum-surcharge"
)

// Supported rollup families. Membership is a static table: adding a chain
// means adding its id here, never sniffing chain metadata.
var (
	// Chains charging data posting at a flat 2x of the default model, with
	// no oracle to ask.
	doubleCostChainIDs = []uint64{
		59144, // Linea
		59141, // Linea Sepolia
	}

	// OP-stack chains carrying the GasPriceOracle predeploy.
	optimismChainIDs = []uint64{
		10,       // OP Mainnet
		11155420, // OP Sepolia
		8453,     // Base
		84532,    // Base Sepolia
		7777777,  // Zora
	}

	// Arbitrum chains exposing the NodeInterface precompile.
	arbitrumChainIDs = []uint64{
		42161, // Arbitrum One
	}

	chainStrategies = buildChainStrategies()
)

func buildChainStrategies() map[uint64]strategy {
	table := make(map[uint64]strategy)
	lo.ForEach(doubleCostChainIDs, func(id uint64, _ int) { table[id] = strategyDouble })
	lo.ForEach(optimismChainIDs, func(id uint64, _ int) { table[id] = strategyOptimism })
	lo.ForEach(arbitrumChainIDs, func(id uint64, _ int) { table[id] = strategyArbitrum })
	return table
}

// strategyForChain is total: ids outside every table fall back to the default
// model.
func strategyForChain(chainID *big.Int) strategy {
	if chainID == nil || !chainID.IsUint64() {
		return strategyDefault
	}
	if s, ok := chainStrategies[chainID.Uint64()]; ok {
		return s
	}
	return strategyDefault
}

// Estimator computes preVerificationGas for a chain reachable through client.
// It holds no mutable state; concurrent use is safe.
type Estimator struct {
	client     ChainClient
	suggestFee SuggestFeeFunc
	collector  *metrics.Collector
	lgr        logger.Logger
}

type Option func(*Estimator)

// WithFeeSuggester replaces the fee market sampler. Tests use this to pin
// prices.
func WithFeeSuggester(fn SuggestFeeFunc) Option {
	return func(e *Estimator) { e.suggestFee = fn }
}

// WithMetrics attaches a prometheus collector; estimation calls are counted
// per strategy and outcome.
func WithMetrics(c *metrics.Collector) Option {
	return func(e *Estimator) { e.collector = c }
}

func NewEstimator(client ChainClient, lgr logger.Logger, opts ...Option) *Estimator {
	e := &Estimator{
		client:     client,
		suggestFee: eip1559.SuggestFee,
		lgr:        logger.EnsureLogger(lgr),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// PreVerificationGas computes the preVerificationGas of op for chainID. The
// default model always runs first; rollup chains add their data-posting
// surcharge on top of that baseline. Unknown chain ids get the baseline
// unchanged.
func (e *Estimator) PreVerificationGas(
	ctx context.Context,
	chainID *big.Int,
	op *userop.UserOperation,
	entryPoint common.Address,
	o *Overrides,
) (*big.Int, error) {
	start := time.Now()
	strat := strategyForChain(chainID)

	result, err := e.preVerificationGas(ctx, strat, chainID, op, entryPoint, o)

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	e.collector.ObserveEstimation(string(strat), outcome, time.Since(start).Seconds())

	return result, err
}

func (e *Estimator) preVerificationGas(
	ctx context.Context,
	strat strategy,
	chainID *big.Int,
	op *userop.UserOperation,
	entryPoint common.Address,
	o *Overrides,
) (*big.Int, error) {
	static, err := CalcDefaultPreVerificationGas(op, o)
	if err != nil {
		return nil, err
	}

	ov := DefaultGasOverheads().Merge(o)

	switch strat {
	case strategyDouble:
		return new(big.Int).Mul(static, big.NewInt(2)), nil
	case strategyOptimism:
		return e.optimismPreVerificationGas(ctx, chainID, op, entryPoint, static, ov)
	case strategyArbitrum:
		return e.arbitrumPreVerificationGas(ctx, chainID, op, entryPoint, static, ov)
	default:
		return static, nil
	}
}
