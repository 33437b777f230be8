package gas

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/AvaProtocol/userop-gas/pkg/erc4337/userop"
)

// ErrUnsupportedChain marks chains this estimator cannot price: the rollup
// path requires an EIP-1559 base fee in the block header. Callers can
// distinguish it from transport trouble with errors.Is.
var ErrUnsupportedChain = errors.New("chain has no base fee, not supported by the L1 fee estimator")

// gasPriceOracleAddr is the OP-stack GasPriceOracle predeploy, identical on
// every chain of the family.
var gasPriceOracleAddr = common.HexToAddress("0x420000000000000000000000000000000000000F")

const gasPriceOracleABIJSON = `[{"inputs":[{"internalType":"bytes","name":"_data","type":"bytes"}],"name":"getL1Fee","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"}]`

var gasPriceOracleABI abi.ABI

func init() {
	var err error
	gasPriceOracleABI, err = abi.JSON(strings.NewReader(gasPriceOracleABIJSON))
	if err != nil {
		panic(fmt.Errorf("invalid GasPriceOracle ABI: %w", err))
	}
}

// optimismPreVerificationGas adds the L1 data-posting surcharge of an
// OP-stack chain on top of the static baseline. The oracle prices the raw
// bytes of a worst-case transaction in wei; dividing by the current L2 gas
// price converts that into gas units the bundler recovers through
// preVerificationGas.
func (e *Estimator) optimismPreVerificationGas(
	ctx context.Context,
	chainID *big.Int,
	op *userop.UserOperation,
	entryPoint common.Address,
	staticFee *big.Int,
	ov GasOverheads,
) (*big.Int, error) {
	rawTx, err := synthesizeWorstCaseTx(op, entryPoint, chainID, ov)
	if err != nil {
		return nil, err
	}

	header, err := e.client.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read latest block: %w", err)
	}
	if header.BaseFee == nil {
		return nil, fmt.Errorf("%w (chain %s)", ErrUnsupportedChain, chainID)
	}

	calldata, err := gasPriceOracleABI.Pack("getL1Fee", rawTx)
	if err != nil {
		return nil, fmt.Errorf("failed to pack getL1Fee: %w", err)
	}
	ret, err := e.client.CallContract(ctx, ethereum.CallMsg{
		To:   &gasPriceOracleAddr,
		Data: calldata,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("GasPriceOracle.getL1Fee call failed: %w", err)
	}
	out, err := gasPriceOracleABI.Unpack("getL1Fee", ret)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack getL1Fee result: %w", err)
	}
	l1Fee, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected getL1Fee result type %T", out[0])
	}

	sample, err := e.suggestFee(ctx, e.client, true, e.lgr)
	if err != nil {
		return nil, err
	}

	// The effective L2 price is capped by maxFeePerGas; below the cap the
	// operation pays baseFee plus its tip.
	l2PriorityFee := new(big.Int).Add(header.BaseFee, sample.MaxPriorityFeePerGas)
	l2Price := sample.MaxFeePerGas
	if l2PriorityFee.Cmp(l2Price) < 0 {
		l2Price = l2PriorityFee
	}
	if l2Price.Sign() <= 0 {
		return nil, fmt.Errorf("non-positive L2 gas price %s", l2Price)
	}

	surcharge := new(big.Int).Div(l1Fee, l2Price)
	e.lgr.Debug("optimism L1 surcharge",
		"chainID", chainID.String(),
		"l1Fee", l1Fee.String(),
		"l2Price", l2Price.String(),
		"surcharge", surcharge.String())

	return new(big.Int).Add(staticFee, surcharge), nil
}
