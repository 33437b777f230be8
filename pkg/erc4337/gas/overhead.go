// Package gas estimates the gas figures of ERC-4337 user operations that
// cannot be measured on-chain: preVerificationGas across base chains and
// rollups, and the verification/call gas limits derived after a dry run.
package gas

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/AvaProtocol/userop-gas/pkg/erc4337/userop"
)

// GasOverheads is the static cost model behind the default
// preVerificationGas calculation. All values are gas units except BundleSize
// and SigSize.
type GasOverheads struct {
	// Fixed is the bundle-wide flat overhead, amortized over BundleSize.
	Fixed uint64
	// PerUserOp is the flat overhead charged to every operation.
	PerUserOp uint64
	// PerUserOpWord is charged per 32-byte word of the encoded operation.
	PerUserOpWord uint64
	// ZeroByte and NonZeroByte are the L1 calldata byte costs.
	ZeroByte    uint64
	NonZeroByte uint64
	// BundleSize is the assumed number of operations per bundle.
	BundleSize uint64
	// SigSize is the assumed signature length when none is present yet.
	SigSize uint64
}

// DefaultGasOverheads returns the cost model used when the caller overrides
// nothing.
func DefaultGasOverheads() GasOverheads {
	return GasOverheads{
		Fixed:         21000,
		PerUserOp:     18300,
		PerUserOpWord: 4,
		ZeroByte:      4,
		NonZeroByte:   16,
		BundleSize:    1,
		SigSize:       65,
	}
}

// Overrides selects a subset of GasOverheads fields to replace. Nil fields
// keep their default.
type Overrides struct {
	Fixed         *uint64 `yaml:"fixed" mapstructure:"fixed"`
	PerUserOp     *uint64 `yaml:"per_user_op" mapstructure:"per_user_op"`
	PerUserOpWord *uint64 `yaml:"per_user_op_word" mapstructure:"per_user_op_word"`
	ZeroByte      *uint64 `yaml:"zero_byte" mapstructure:"zero_byte"`
	NonZeroByte   *uint64 `yaml:"non_zero_byte" mapstructure:"non_zero_byte"`
	BundleSize    *uint64 `yaml:"bundle_size" mapstructure:"bundle_size"`
	SigSize       *uint64 `yaml:"sig_size" mapstructure:"sig_size"`
}

// Merge returns a copy of ov with every set override applied. This is a
// field-wise merge, never a wholesale replace.
func (ov GasOverheads) Merge(o *Overrides) GasOverheads {
	if o == nil {
		return ov
	}
	if o.Fixed != nil {
		ov.Fixed = *o.Fixed
	}
	if o.PerUserOp != nil {
		ov.PerUserOp = *o.PerUserOp
	}
	if o.PerUserOpWord != nil {
		ov.PerUserOpWord = *o.PerUserOpWord
	}
	if o.ZeroByte != nil {
		ov.ZeroByte = *o.ZeroByte
	}
	if o.NonZeroByte != nil {
		ov.NonZeroByte = *o.NonZeroByte
	}
	if o.BundleSize != nil {
		ov.BundleSize = *o.BundleSize
	}
	if o.SigSize != nil {
		ov.SigSize = *o.SigSize
	}
	return ov
}

// worstCaseEncoding produces the canonical encoding of the worst-case variant
// of op. An empty signature is first replaced by a placeholder of SigSize
// non-zero bytes so the accounting stays representative before signing.
func worstCaseEncoding(op *userop.UserOperation, ov GasOverheads) ([]byte, error) {
	if len(op.Signature) == 0 {
		op = op.WithSignature(bytes.Repeat([]byte{0x01}, int(ov.SigSize)))
	}
	return userop.EncodePacked(userop.WorstCase(op.Pack()))
}

// CalcDefaultPreVerificationGas computes the chain-independent
// preVerificationGas baseline for op: calldata byte costs over the worst-case
// packed encoding plus the flat and per-word overheads. Deterministic, no
// I/O.
func CalcDefaultPreVerificationGas(op *userop.UserOperation, o *Overrides) (*big.Int, error) {
	ov := DefaultGasOverheads().Merge(o)
	if ov.BundleSize == 0 {
		return nil, fmt.Errorf("bundle size must be positive")
	}

	encoded, err := worstCaseEncoding(op, ov)
	if err != nil {
		return nil, fmt.Errorf("failed to encode worst-case operation: %w", err)
	}

	lengthInWords := (uint64(len(encoded)) + 31) / 32

	var calldataCost uint64
	for _, b := range encoded {
		if b == 0 {
			calldataCost += ov.ZeroByte
		} else {
			calldataCost += ov.NonZeroByte
		}
	}

	// The fixed overhead is amortized with real-valued division; only the
	// final sum is rounded.
	total := decimal.NewFromUint64(calldataCost).
		Add(decimal.NewFromUint64(ov.Fixed).Div(decimal.NewFromUint64(ov.BundleSize))).
		Add(decimal.NewFromUint64(ov.PerUserOp)).
		Add(decimal.NewFromUint64(ov.PerUserOpWord * lengthInWords))

	return total.Round(0).BigInt(), nil
}
