package userop

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Minimal entrypoint v0.7 ABI: we only need handleOps for calldata synthesis
// and the PackedUserOperation tuple layout for canonical encoding.
const entryPointABIJSON = `[{"inputs":[{"components":[{"internalType":"address","name":"sender","type":"address"},{"internalType":"uint256","name":"nonce","type":"uint256"},{"internalType":"bytes","name":"initCode","type":"bytes"},{"internalType":"bytes","name":"callData","type":"bytes"},{"internalType":"bytes32","name":"accountGasLimits","type":"bytes32"},{"internalType":"uint256","name":"preVerificationGas","type":"uint256"},{"internalType":"bytes32","name":"gasFees","type":"bytes32"},{"internalType":"bytes","name":"paymasterAndData","type":"bytes"},{"internalType":"bytes","name":"signature","type":"bytes"}],"internalType":"struct PackedUserOperation[]","name":"ops","type":"tuple[]"},{"internalType":"address payable","name":"beneficiary","type":"address"}],"name":"handleOps","outputs":[],"stateMutability":"nonpayable","type":"function"}]`

var (
	entryPointABI abi.ABI

	// packedOpArgs encodes a single PackedUserOperation with the exact tuple
	// layout handleOps uses, so standalone encodings and calldata agree
	// byte-for-byte.
	packedOpArgs abi.Arguments
)

func init() {
	var err error
	entryPointABI, err = abi.JSON(strings.NewReader(entryPointABIJSON))
	if err != nil {
		panic(fmt.Errorf("invalid entrypoint ABI: %w", err))
	}

	opsType := entryPointABI.Methods["handleOps"].Inputs[0].Type
	packedOpArgs = abi.Arguments{{Type: *opsType.Elem}}
}

// EncodePacked returns the canonical ABI encoding of a single packed
// operation. This is the byte blob the calldata cost model walks.
func EncodePacked(packed *PackedUserOperation) ([]byte, error) {
	return packedOpArgs.Pack(*packed)
}

// PackHandleOps builds handleOps calldata (selector plus encoded arguments)
// for a batch containing the given operations.
func PackHandleOps(ops []PackedUserOperation, beneficiary common.Address) ([]byte, error) {
	return entryPointABI.Pack("handleOps", ops, beneficiary)
}
