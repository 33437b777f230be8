package userop

import (
	"bytes"
	"math/big"
)

// maxUint256 fills a uint256 word with 0xff bytes once encoded.
var maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

var allOnesWord = func() [32]byte {
	var w [32]byte
	for i := range w {
		w[i] = 0xff
	}
	return w
}()

// WorstCase returns a sizing-only variant of packed where every field whose
// final value is unknown at estimation time (nonce, gas-limit words,
// preVerificationGas, paymasterAndData, signature) is overwritten with 0xff
// bytes of identical length. Sender, initCode and callData are kept as-is.
// Every varying byte becomes non-zero, so byte-cost accounting over the
// result is an upper bound for the real operation. The result must never be
// submitted for execution.
func WorstCase(packed *PackedUserOperation) *PackedUserOperation {
	return &PackedUserOperation{
		Sender:             packed.Sender,
		Nonce:              new(big.Int).Set(maxUint256),
		InitCode:           packed.InitCode,
		CallData:           packed.CallData,
		AccountGasLimits:   allOnesWord,
		PreVerificationGas: new(big.Int).Set(maxUint256),
		GasFees:            allOnesWord,
		PaymasterAndData:   bytes.Repeat([]byte{0xff}, len(packed.PaymasterAndData)),
		Signature:          bytes.Repeat([]byte{0xff}, len(packed.Signature)),
	}
}
