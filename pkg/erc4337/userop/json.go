package userop

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// RawUserOperation is the wire shape of a user operation as bundler RPCs and
// tooling exchange it: every numeric field is a hex quantity string.
type RawUserOperation struct {
	Sender               string `json:"sender"`
	Nonce                string `json:"nonce"`
	InitCode             string `json:"initCode"`
	CallData             string `json:"callData"`
	CallGasLimit         string `json:"callGasLimit"`
	VerificationGasLimit string `json:"verificationGasLimit"`
	PreVerificationGas   string `json:"preVerificationGas"`
	MaxFeePerGas         string `json:"maxFeePerGas"`
	MaxPriorityFeePerGas string `json:"maxPriorityFeePerGas"`

	Paymaster                     string `json:"paymaster,omitempty"`
	PaymasterVerificationGasLimit string `json:"paymasterVerificationGasLimit,omitempty"`
	PaymasterPostOpGasLimit       string `json:"paymasterPostOpGasLimit,omitempty"`
	PaymasterData                 string `json:"paymasterData,omitempty"`

	Signature string `json:"signature"`
}

func parseQuantity(field, v string) (*big.Int, error) {
	if v == "" || v == "0x" {
		return big.NewInt(0), nil
	}
	n, err := hexutil.DecodeBig(v)
	if err != nil {
		// Accept plain decimal too, tooling is inconsistent here.
		n, ok := new(big.Int).SetString(v, 10)
		if !ok {
			return nil, fmt.Errorf("invalid %s quantity %q", field, v)
		}
		return n, nil
	}
	return n, nil
}

// Parse converts the wire shape into a UserOperation.
func (raw *RawUserOperation) Parse() (*UserOperation, error) {
	op := &UserOperation{
		Sender:        common.HexToAddress(raw.Sender),
		InitCode:      common.FromHex(raw.InitCode),
		CallData:      common.FromHex(raw.CallData),
		Paymaster:     common.HexToAddress(raw.Paymaster),
		PaymasterData: common.FromHex(raw.PaymasterData),
		Signature:     common.FromHex(raw.Signature),
	}

	for _, q := range []struct {
		name string
		val  string
		dst  **big.Int
	}{
		{"nonce", raw.Nonce, &op.Nonce},
		{"callGasLimit", raw.CallGasLimit, &op.CallGasLimit},
		{"verificationGasLimit", raw.VerificationGasLimit, &op.VerificationGasLimit},
		{"preVerificationGas", raw.PreVerificationGas, &op.PreVerificationGas},
		{"maxFeePerGas", raw.MaxFeePerGas, &op.MaxFeePerGas},
		{"maxPriorityFeePerGas", raw.MaxPriorityFeePerGas, &op.MaxPriorityFeePerGas},
		{"paymasterVerificationGasLimit", raw.PaymasterVerificationGasLimit, &op.PaymasterVerificationGasLimit},
		{"paymasterPostOpGasLimit", raw.PaymasterPostOpGasLimit, &op.PaymasterPostOpGasLimit},
	} {
		n, err := parseQuantity(q.name, q.val)
		if err != nil {
			return nil, err
		}
		*q.dst = n
	}

	return op, nil
}

// FromJSON decodes a single user operation from its JSON wire shape.
func FromJSON(data []byte) (*UserOperation, error) {
	var raw RawUserOperation
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode user operation: %w", err)
	}
	return raw.Parse()
}
