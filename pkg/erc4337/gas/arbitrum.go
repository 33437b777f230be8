package gas

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/AvaProtocol/userop-gas/pkg/erc4337/userop"
)

// nodeInterfaceAddr is the Arbitrum NodeInterface virtual contract. It only
// exists for RPC calls; there is no code at this address.
var nodeInterfaceAddr = common.HexToAddress("0x00000000000000000000000000000000000000C8")

const nodeInterfaceABIJSON = `[{"inputs":[{"internalType":"address","name":"to","type":"address"},{"internalType":"bool","name":"contractCreation","type":"bool"},{"internalType":"bytes","name":"data","type":"bytes"}],"name":"gasEstimateL1Component","outputs":[{"internalType":"uint64","name":"gasEstimateForL1","type":"uint64"},{"internalType":"uint256","name":"baseFee","type":"uint256"},{"internalType":"uint256","name":"l1BaseFeeEstimate","type":"uint256"}],"stateMutability":"payable","type":"function"}]`

var nodeInterfaceABI abi.ABI

// arbitrumFallbackChainID sizes the synthetic transaction when the caller
// could not supply a chain id.
var arbitrumFallbackChainID = big.NewInt(42161)

func init() {
	var err error
	nodeInterfaceABI, err = abi.JSON(strings.NewReader(nodeInterfaceABIJSON))
	if err != nil {
		panic(fmt.Errorf("invalid NodeInterface ABI: %w", err))
	}
}

// arbitrumPreVerificationGas adds Arbitrum's L1 component on top of the
// static baseline. Unlike the OP-stack oracle, gasEstimateL1Component already
// answers in gas units, so no price-ratio division is needed. Only the first
// element of the returned tuple is used.
func (e *Estimator) arbitrumPreVerificationGas(
	ctx context.Context,
	chainID *big.Int,
	op *userop.UserOperation,
	entryPoint common.Address,
	staticFee *big.Int,
	ov GasOverheads,
) (*big.Int, error) {
	if chainID == nil {
		chainID = arbitrumFallbackChainID
	}

	rawTx, err := synthesizeWorstCaseTx(op, entryPoint, chainID, ov)
	if err != nil {
		return nil, err
	}

	calldata, err := nodeInterfaceABI.Pack("gasEstimateL1Component", entryPoint, false, rawTx)
	if err != nil {
		return nil, fmt.Errorf("failed to pack gasEstimateL1Component: %w", err)
	}
	ret, err := e.client.CallContract(ctx, ethereum.CallMsg{
		To:   &nodeInterfaceAddr,
		Data: calldata,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("NodeInterface.gasEstimateL1Component call failed: %w", err)
	}
	out, err := nodeInterfaceABI.Unpack("gasEstimateL1Component", ret)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack gasEstimateL1Component result: %w", err)
	}
	gasEstimateForL1, ok := out[0].(uint64)
	if !ok {
		return nil, fmt.Errorf("unexpected gasEstimateForL1 type %T", out[0])
	}

	e.lgr.Debug("arbitrum L1 surcharge",
		"chainID", chainID.String(),
		"gasEstimateForL1", gasEstimateForL1)

	return new(big.Int).Add(staticFee, new(big.Int).SetUint64(gasEstimateForL1)), nil
}
