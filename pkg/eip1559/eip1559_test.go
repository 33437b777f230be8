package eip1559

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFeeReader struct {
	tipCap  *big.Int
	baseFee *big.Int
}

func (s *stubFeeReader) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	return new(big.Int).Set(s.tipCap), nil
}

func (s *stubFeeReader) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	return &types.Header{BaseFee: s.baseFee}, nil
}

func gwei(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1_000_000_000))
}

func TestSuggestFee(t *testing.T) {
	sample, err := SuggestFee(context.Background(), &stubFeeReader{tipCap: gwei(100), baseFee: gwei(50)}, false, nil)
	require.NoError(t, err)

	// 13% tip buffer, 2x base fee headroom
	assert.Equal(t, gwei(113), sample.MaxPriorityFeePerGas)
	assert.Equal(t, gwei(213), sample.MaxFeePerGas)
}

func TestSuggestFee_FastMode(t *testing.T) {
	sample, err := SuggestFee(context.Background(), &stubFeeReader{tipCap: gwei(100), baseFee: gwei(50)}, true, nil)
	require.NoError(t, err)

	assert.Equal(t, gwei(125), sample.MaxPriorityFeePerGas)
	assert.Equal(t, gwei(225), sample.MaxFeePerGas)
}

func TestSuggestFee_Floors(t *testing.T) {
	sample, err := SuggestFee(context.Background(), &stubFeeReader{tipCap: big.NewInt(1), baseFee: big.NewInt(1)}, false, nil)
	require.NoError(t, err)

	assert.Equal(t, gwei(2), sample.MaxPriorityFeePerGas)
	assert.Equal(t, gwei(20), sample.MaxFeePerGas)
}

func TestSuggestFee_LegacyChain(t *testing.T) {
	sample, err := SuggestFee(context.Background(), &stubFeeReader{tipCap: gwei(100)}, false, nil)
	require.NoError(t, err)

	assert.Equal(t, sample.MaxPriorityFeePerGas, sample.MaxFeePerGas)
}
