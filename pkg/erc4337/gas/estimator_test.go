package gas

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AvaProtocol/userop-gas/core/testutil"
	"github.com/AvaProtocol/userop-gas/pkg/logger"
)

func TestStrategyForChain_Total(t *testing.T) {
	cases := []struct {
		chainID *big.Int
		want    strategy
	}{
		{big.NewInt(1), strategyDefault},
		{big.NewInt(11155111), strategyDefault},
		{big.NewInt(59144), strategyDouble},
		{big.NewInt(59141), strategyDouble},
		{big.NewInt(10), strategyOptimism},
		{big.NewInt(8453), strategyOptimism},
		{big.NewInt(84532), strategyOptimism},
		{big.NewInt(11155420), strategyOptimism},
		{big.NewInt(7777777), strategyOptimism},
		{big.NewInt(42161), strategyArbitrum},
		{nil, strategyDefault},
		{new(big.Int).Lsh(big.NewInt(1), 80), strategyDefault},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, strategyForChain(tc.chainID), "chainID=%v", tc.chainID)
	}
}

func TestPreVerificationGas_DefaultChain(t *testing.T) {
	// zero-function stub: any network call fails the test
	e := NewEstimator(&testutil.StubChainClient{}, logger.NewNoOpLogger())
	op := testutil.SampleUserOp()

	want, err := CalcDefaultPreVerificationGas(op, nil)
	require.NoError(t, err)

	got, err := e.PreVerificationGas(context.Background(), big.NewInt(1), op, testutil.SampleEntrypoint, nil)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestPreVerificationGas_DoubleCostChains(t *testing.T) {
	e := NewEstimator(&testutil.StubChainClient{}, logger.NewNoOpLogger())
	op := testutil.SampleUserOp()

	baseline, err := CalcDefaultPreVerificationGas(op, nil)
	require.NoError(t, err)
	want := new(big.Int).Mul(baseline, big.NewInt(2))

	for _, id := range doubleCostChainIDs {
		got, err := e.PreVerificationGas(context.Background(), new(big.Int).SetUint64(id), op, testutil.SampleEntrypoint, nil)
		require.NoError(t, err, "chain %d", id)
		assert.Equal(t, want, got, "chain %d must cost exactly twice the baseline without touching the network", id)
	}
}

func TestPreVerificationGas_OverridesReachBaseline(t *testing.T) {
	e := NewEstimator(&testutil.StubChainClient{}, logger.NewNoOpLogger())
	op := testutil.SampleUserOp()

	defaultResult, err := e.PreVerificationGas(context.Background(), big.NewInt(1), op, testutil.SampleEntrypoint, nil)
	require.NoError(t, err)

	bumped, err := e.PreVerificationGas(context.Background(), big.NewInt(1), op, testutil.SampleEntrypoint, &Overrides{
		PerUserOp: uint64Ptr(20000),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1700), new(big.Int).Sub(bumped, defaultResult).Int64())
}
