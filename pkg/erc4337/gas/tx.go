package gas

import (
	"fmt"
	"math"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/AvaProtocol/userop-gas/pkg/erc4337/userop"
)

// syntheticNonce is a sentinel that can never collide with a live account
// nonce at the entrypoint.
const syntheticNonce = 999999

var (
	maxUint64 = new(big.Int).SetUint64(math.MaxUint64)

	// Placeholder signature triple. The rollup oracles only measure the
	// serialized bytes, never recover the signer, so any values work;
	// full-width non-zero words keep the encoding at its largest.
	placeholderV = big.NewInt(1)
	placeholderR = new(big.Int).SetBytes(common.Hex2Bytes("ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"))
	placeholderS = new(big.Int).SetBytes(common.Hex2Bytes("ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"))
)

// synthesizeWorstCaseTx serializes the transaction a bundler would submit for
// the worst-case variant of op: a handleOps call carrying the single
// operation, with nonce, gas limit and gas prices pinned to values that
// maximize the encoded size. The result exists purely so a rollup oracle can
// price its bytes; it is never submitted.
func synthesizeWorstCaseTx(
	op *userop.UserOperation,
	entryPoint common.Address,
	chainID *big.Int,
	ov GasOverheads,
) ([]byte, error) {
	sized := op
	if len(sized.Signature) == 0 {
		sized = sized.WithSignature(make([]byte, ov.SigSize))
	}
	worstCase := userop.WorstCase(sized.Pack())

	callData, err := userop.PackHandleOps([]userop.PackedUserOperation{*worstCase}, entryPoint)
	if err != nil {
		return nil, fmt.Errorf("failed to pack handleOps calldata: %w", err)
	}

	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     syntheticNonce,
		GasTipCap: maxUint64,
		GasFeeCap: maxUint64,
		Gas:       math.MaxUint64,
		To:        &entryPoint,
		Value:     big.NewInt(0),
		Data:      callData,
		V:         placeholderV,
		R:         placeholderR,
		S:         placeholderS,
	})

	raw, err := tx.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize worst-case transaction: %w", err)
	}
	return raw, nil
}
