// Package testutil holds helpers shared by unit tests.
package testutil

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	sdklogging "github.com/Layr-Labs/eigensdk-go/logging"

	"github.com/AvaProtocol/userop-gas/pkg/erc4337/userop"
)

func GetLogger() sdklogging.Logger {
	logger, err := sdklogging.NewZapLogger("development")
	if err != nil {
		panic(err)
	}
	return logger
}

// StubChainClient implements the chain client surface of the estimator with
// overridable function fields. Calls without an override fail loudly so
// "performs no network call" properties are enforced by construction.
type StubChainClient struct {
	SuggestGasTipCapFn func(ctx context.Context) (*big.Int, error)
	HeaderByNumberFn   func(ctx context.Context, number *big.Int) (*types.Header, error)
	CallContractFn     func(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	ChainIDFn          func(ctx context.Context) (*big.Int, error)
}

var errUnexpectedCall = errors.New("unexpected chain client call in test")

func (c *StubChainClient) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	if c.SuggestGasTipCapFn == nil {
		return nil, errUnexpectedCall
	}
	return c.SuggestGasTipCapFn(ctx)
}

func (c *StubChainClient) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	if c.HeaderByNumberFn == nil {
		return nil, errUnexpectedCall
	}
	return c.HeaderByNumberFn(ctx, number)
}

func (c *StubChainClient) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	if c.CallContractFn == nil {
		return nil, errUnexpectedCall
	}
	return c.CallContractFn(ctx, msg, blockNumber)
}

func (c *StubChainClient) ChainID(ctx context.Context) (*big.Int, error) {
	if c.ChainIDFn == nil {
		return nil, errUnexpectedCall
	}
	return c.ChainIDFn(ctx)
}

// SampleUserOp returns a representative unsigned operation for tests.
func SampleUserOp() *userop.UserOperation {
	return &userop.UserOperation{
		Sender:               common.HexToAddress("0x7c3a76086588230c7B3f4839A4c1F5BBafcd57C6"),
		Nonce:                big.NewInt(7),
		InitCode:             []byte{},
		CallData:             common.FromHex("0xb61d27f60000000000000000000000000000000000000000000000000000000000000001"),
		VerificationGasLimit: big.NewInt(150000),
		CallGasLimit:         big.NewInt(200000),
		PreVerificationGas:   big.NewInt(50000),
		MaxFeePerGas:         big.NewInt(20_000_000_000),
		MaxPriorityFeePerGas: big.NewInt(2_000_000_000),
		PaymasterData:        []byte{},
		Signature:            []byte{},
	}
}

// SampleEntrypoint is an arbitrary entrypoint address for tests.
var SampleEntrypoint = common.HexToAddress("0x0000000071727De22E5E9d8BAf0edAc6f37da032")
