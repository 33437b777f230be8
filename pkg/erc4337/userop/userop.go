// Package userop models ERC-4337 user operations and their canonical packed
// encoding as consumed by the v0.7 entrypoint contract.
package userop

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// UserOperation is the unpacked representation of an EIP-4337 operation.
// Byte fields may be empty but are never nil once normalized through Pack.
type UserOperation struct {
	Sender   common.Address
	Nonce    *big.Int
	InitCode []byte
	CallData []byte

	VerificationGasLimit *big.Int
	CallGasLimit         *big.Int
	PreVerificationGas   *big.Int

	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int

	Paymaster                     common.Address
	PaymasterVerificationGasLimit *big.Int
	PaymasterPostOpGasLimit       *big.Int
	PaymasterData                 []byte

	Signature []byte
}

// PackedUserOperation mirrors the entrypoint's PackedUserOperation struct.
// The two gas-limit pairs are concatenated into single 32-byte words and the
// paymaster fields into one paymasterAndData blob. Field names must match the
// ABI component names for go-ethereum's tuple packing.
type PackedUserOperation struct {
	Sender             common.Address
	Nonce              *big.Int
	InitCode           []byte
	CallData           []byte
	AccountGasLimits   [32]byte
	PreVerificationGas *big.Int
	GasFees            [32]byte
	PaymasterAndData   []byte
	Signature          []byte
}

// orZero guards against callers leaving optional big.Int fields nil.
func orZero(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return v
}

// orEmpty normalizes nil byte fields to empty slices.
func orEmpty(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}

// packUint128Pair writes two uint128 values big-endian into one 32-byte word,
// hi in the first 16 bytes and lo in the last 16.
func packUint128Pair(hi, lo *big.Int) [32]byte {
	var word [32]byte
	orZero(hi).FillBytes(word[:16])
	orZero(lo).FillBytes(word[16:])
	return word
}

// Pack derives the canonical packed encoding of op. The result is a fresh
// value; op is not mutated.
func (op *UserOperation) Pack() *PackedUserOperation {
	packed := &PackedUserOperation{
		Sender:             op.Sender,
		Nonce:              orZero(op.Nonce),
		InitCode:           orEmpty(op.InitCode),
		CallData:           orEmpty(op.CallData),
		AccountGasLimits:   packUint128Pair(op.VerificationGasLimit, op.CallGasLimit),
		PreVerificationGas: orZero(op.PreVerificationGas),
		GasFees:            packUint128Pair(op.MaxPriorityFeePerGas, op.MaxFeePerGas),
		PaymasterAndData:   []byte{},
		Signature:          orEmpty(op.Signature),
	}

	if op.Paymaster != (common.Address{}) {
		var limits [32]byte
		orZero(op.PaymasterVerificationGasLimit).FillBytes(limits[:16])
		orZero(op.PaymasterPostOpGasLimit).FillBytes(limits[16:])

		data := make([]byte, 0, common.AddressLength+len(limits)+len(op.PaymasterData))
		data = append(data, op.Paymaster.Bytes()...)
		data = append(data, limits[:]...)
		data = append(data, op.PaymasterData...)
		packed.PaymasterAndData = data
	}

	return packed
}

// WithSignature returns a shallow copy of op carrying the given signature.
// Used to substitute a placeholder signature without mutating the input.
func (op *UserOperation) WithSignature(sig []byte) *UserOperation {
	dup := *op
	dup.Signature = sig
	return &dup
}
