// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package precompile

import (
	"encoding/binary"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"

	"github.com/luxfi/fhebridge"
	"github.com/luxfi/fhebridge/wire"
)

// Operand is one encoded argument of a precompile call. Ciphertext and
// key operands carry the binding their frame was encoded under so
// BuildCall can reject mixed-binding calls before submission.
type Operand struct {
	Kind     OperandKind
	Frame    []byte
	Scheme   fhebridge.SchemeID
	ParamSet fhebridge.ParamSetID
}

// CiphertextOperand encodes a handle into an operand under the given
// descriptor.
func CiphertextOperand(h *fhebridge.CiphertextHandle, desc fhebridge.Descriptor) (Operand, error) {
	frame, err := wire.EncodeCiphertext(h, desc)
	if err != nil {
		return Operand{}, err
	}
	return Operand{
		Kind:     OperandCiphertext,
		Frame:    frame,
		Scheme:   desc.Scheme,
		ParamSet: desc.ParamSet,
	}, nil
}

// KeySwitchKeyOperand encodes raw key-switching key bytes into an
// operand under the given descriptor.
func KeySwitchKeyOperand(raw []byte, desc fhebridge.Descriptor) (Operand, error) {
	frame, err := wire.EncodeKeySwitchKey(raw, desc)
	if err != nil {
		return Operand{}, err
	}
	return Operand{
		Kind:     OperandKeySwitchKey,
		Frame:    frame,
		Scheme:   desc.Scheme,
		ParamSet: desc.ParamSet,
	}, nil
}

// WordOperand wraps a plaintext word as a 32-byte big-endian operand,
// used by trivial encryption. Words carry no scheme binding.
func WordOperand(v *uint256.Int) Operand {
	word := v.Bytes32()
	return Operand{
		Kind:  OperandPlaintextWord,
		Frame: word[:],
	}
}

// Call is a fully composed precompile invocation: target address,
// selector and assembled calldata. Calls are constructed fresh per
// invocation and never reused or mutated.
type Call struct {
	Address  common.Address
	Selector uint32
	Input    []byte
	Gas      uint64
}

// Adapter builds precompile calls and parses their results against a
// binding registry. Safe for concurrent use; it holds only the
// registry reference, which is read-only after construction.
type Adapter struct {
	registry *fhebridge.Registry
}

// NewAdapter returns an adapter over the given registry.
func NewAdapter(registry *fhebridge.Registry) *Adapter {
	return &Adapter{registry: registry}
}

// BuildCall composes calldata for the operation from the ordered operand
// sequence. It enforces the declared arity, per-slot operand kinds, and
// that every bound operand is registered and carries the same binding.
// Calldata layout: 4-byte big-endian selector, then each operand as a
// 4-byte big-endian length prefix followed by its bytes.
func (a *Adapter) BuildCall(op Operation, operands []Operand) (*Call, error) {
	if len(operands) != len(op.Operands) {
		return nil, &fhebridge.ArityError{
			Op:      op.Name,
			Operand: -1,
			Want:    fmt.Sprintf("%d operands", len(op.Operands)),
			Got:     fmt.Sprintf("%d operands", len(operands)),
		}
	}

	var (
		bound    fhebridge.Descriptor
		haveDesc bool
	)
	for i, operand := range operands {
		if operand.Kind != op.Operands[i] {
			return nil, &fhebridge.ArityError{
				Op:      op.Name,
				Operand: i,
				Want:    op.Operands[i].String(),
				Got:     operand.Kind.String(),
			}
		}
		if len(operand.Frame) == 0 {
			return nil, &fhebridge.ArityError{
				Op:      op.Name,
				Operand: i,
				Want:    "non-empty operand",
				Got:     "empty operand",
			}
		}
		if operand.Kind == OperandPlaintextWord {
			continue
		}
		desc, err := a.registry.Resolve(operand.Scheme, operand.ParamSet)
		if err != nil {
			return nil, err
		}
		if !haveDesc {
			bound, haveDesc = desc, true
			continue
		}
		if desc.Scheme != bound.Scheme || desc.ParamSet != bound.ParamSet {
			return nil, &fhebridge.SchemeMismatchError{
				WantScheme:   bound.Scheme,
				WantParamSet: bound.ParamSet,
				GotScheme:    desc.Scheme,
				GotParamSet:  desc.ParamSet,
			}
		}
	}

	size := 4
	for _, operand := range operands {
		size += 4 + len(operand.Frame)
	}

	input := make([]byte, size)
	binary.BigEndian.PutUint32(input, op.Selector)
	offset := 4
	for _, operand := range operands {
		binary.BigEndian.PutUint32(input[offset:], uint32(len(operand.Frame)))
		offset += 4
		copy(input[offset:], operand.Frame)
		offset += len(operand.Frame)
	}

	return &Call{
		Address:  op.Address,
		Selector: op.Selector,
		Input:    input,
		Gas:      gasFor(op),
	}, nil
}

func gasFor(op Operation) uint64 {
	switch op.Selector {
	case SelectorKeySwitch:
		return KeySwitchGas
	case SelectorTrivialEncrypt:
		return TrivialEncryptGas
	case SelectorGetParameters:
		return GetParametersGas
	case SelectorNot, SelectorNeg:
		return EvalUnaryGas
	default:
		return EvalBinaryGas
	}
}
