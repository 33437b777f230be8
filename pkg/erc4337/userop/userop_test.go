package userop

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOp() *UserOperation {
	return &UserOperation{
		Sender:               common.HexToAddress("0x7c3a76086588230c7B3f4839A4c1F5BBafcd57C6"),
		Nonce:                big.NewInt(7),
		InitCode:             []byte{},
		CallData:             common.FromHex("0xb61d27f6000000000000000000000000000000000000000000000000000000000000dead"),
		VerificationGasLimit: big.NewInt(150000),
		CallGasLimit:         big.NewInt(200000),
		PreVerificationGas:   big.NewInt(50000),
		MaxFeePerGas:         big.NewInt(20_000_000_000),
		MaxPriorityFeePerGas: big.NewInt(2_000_000_000),
		Signature:            bytes.Repeat([]byte{0xab}, 65),
	}
}

func TestPack_GasLimitWords(t *testing.T) {
	op := sampleOp()
	op.VerificationGasLimit = big.NewInt(1)
	op.CallGasLimit = big.NewInt(2)
	op.MaxPriorityFeePerGas = big.NewInt(3)
	op.MaxFeePerGas = big.NewInt(4)

	packed := op.Pack()

	// verification gas in the high 16 bytes, call gas in the low 16
	assert.Equal(t, byte(1), packed.AccountGasLimits[15])
	assert.Equal(t, byte(2), packed.AccountGasLimits[31])
	// maxPriorityFeePerGas first, maxFeePerGas second
	assert.Equal(t, byte(3), packed.GasFees[15])
	assert.Equal(t, byte(4), packed.GasFees[31])
}

func TestPack_PaymasterAndData(t *testing.T) {
	op := sampleOp()
	require.Empty(t, op.Pack().PaymasterAndData, "no paymaster means empty paymasterAndData")

	op.Paymaster = common.HexToAddress("0xB985af5f96EF2722DC99aEBA573520903B86505e")
	op.PaymasterVerificationGasLimit = big.NewInt(60000)
	op.PaymasterPostOpGasLimit = big.NewInt(5000)
	op.PaymasterData = []byte{0x01, 0x02, 0x03}

	pad := op.Pack().PaymasterAndData
	require.Len(t, pad, 20+32+3)
	assert.Equal(t, op.Paymaster.Bytes(), pad[:20])
	assert.Equal(t, []byte{0x01, 0x02, 0x03}, pad[52:])
}

func TestPack_NilFieldsNormalized(t *testing.T) {
	op := &UserOperation{Sender: common.HexToAddress("0x01")}
	packed := op.Pack()

	require.NotNil(t, packed.Nonce)
	assert.Zero(t, packed.Nonce.Sign())
	assert.NotNil(t, packed.InitCode)
	assert.NotNil(t, packed.CallData)
	assert.NotNil(t, packed.Signature)
}

func TestWorstCase(t *testing.T) {
	op := sampleOp()
	op.Paymaster = common.HexToAddress("0xB985af5f96EF2722DC99aEBA573520903B86505e")
	op.PaymasterData = []byte{0x00, 0x00}
	packed := op.Pack()

	wc := WorstCase(packed)

	// stable fields untouched
	assert.Equal(t, packed.Sender, wc.Sender)
	assert.Equal(t, packed.InitCode, wc.InitCode)
	assert.Equal(t, packed.CallData, wc.CallData)

	// varying fields pinned to all-0xff of identical length
	assert.Equal(t, maxUint256, wc.Nonce)
	assert.Equal(t, maxUint256, wc.PreVerificationGas)
	assert.Equal(t, allOnesWord, wc.AccountGasLimits)
	assert.Equal(t, allOnesWord, wc.GasFees)
	require.Len(t, wc.Signature, len(packed.Signature))
	require.Len(t, wc.PaymasterAndData, len(packed.PaymasterAndData))
	for _, b := range wc.Signature {
		assert.Equal(t, byte(0xff), b)
	}
	for _, b := range wc.PaymasterAndData {
		assert.Equal(t, byte(0xff), b)
	}

	// input not mutated
	assert.Equal(t, big.NewInt(7), packed.Nonce)
}

func TestEncodePacked_Deterministic(t *testing.T) {
	packed := sampleOp().Pack()

	a, err := EncodePacked(packed)
	require.NoError(t, err)
	b, err := EncodePacked(sampleOp().Pack())
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Zero(t, len(a)%32, "canonical encoding is word aligned")
}

func TestPackHandleOps(t *testing.T) {
	beneficiary := common.HexToAddress("0x0000000071727De22E5E9d8BAf0edAc6f37da032")
	calldata, err := PackHandleOps([]PackedUserOperation{*sampleOp().Pack()}, beneficiary)
	require.NoError(t, err)

	method, err := entryPointABI.MethodById(calldata[:4])
	require.NoError(t, err)
	assert.Equal(t, "handleOps", method.Name)
}

func TestFromJSON(t *testing.T) {
	data := []byte(`{
		"sender": "0x7c3a76086588230c7B3f4839A4c1F5BBafcd57C6",
		"nonce": "0x7",
		"initCode": "0x",
		"callData": "0xb61d27f6",
		"callGasLimit": "0x30d40",
		"verificationGasLimit": "0x249f0",
		"preVerificationGas": "0xc350",
		"maxFeePerGas": "0x4a817c800",
		"maxPriorityFeePerGas": "0x77359400",
		"signature": "0x"
	}`)

	op, err := FromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0x7c3a76086588230c7B3f4839A4c1F5BBafcd57C6"), op.Sender)
	assert.Equal(t, big.NewInt(7), op.Nonce)
	assert.Equal(t, big.NewInt(200000), op.CallGasLimit)
	assert.Equal(t, big.NewInt(150000), op.VerificationGasLimit)
	assert.Equal(t, big.NewInt(50000), op.PreVerificationGas)
	assert.Empty(t, op.InitCode)
	assert.Empty(t, op.Signature)
}

func TestFromJSON_DecimalQuantities(t *testing.T) {
	op, err := FromJSON([]byte(`{"sender":"0x01","nonce":"42","callData":"0x","signature":"0x"}`))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(42), op.Nonce)
}

func TestFromJSON_InvalidQuantity(t *testing.T) {
	_, err := FromJSON([]byte(`{"sender":"0x01","nonce":"not-a-number"}`))
	require.Error(t, err)
}
