// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package precompile composes encoded ciphertext operands into the
// calldata shape the FHE precompiles expect, and parses their raw return
// bytes back into typed objects. It performs no chain interaction itself;
// submission, retries and timeouts belong to the chain-client
// collaborator.
package precompile

import (
	"fmt"

	"github.com/luxfi/geth/common"
)

// OperandKind tags what an operand slot accepts.
type OperandKind uint8

const (
	OperandCiphertext OperandKind = iota + 1
	OperandKeySwitchKey
	OperandPlaintextWord
)

func (k OperandKind) String() string {
	switch k {
	case OperandCiphertext:
		return "ciphertext"
	case OperandKeySwitchKey:
		return "keyswitch-key"
	case OperandPlaintextWord:
		return "plaintext-word"
	default:
		return fmt.Sprintf("operand-kind-%d", uint8(k))
	}
}

// ResultKind tags what a successful precompile response decodes to.
type ResultKind uint8

const (
	ResultCiphertext ResultKind = iota + 1
	ResultParameters
)

// Operation selectors, one per precompile entry point. The selector is
// placed big-endian in the first four calldata bytes.
const (
	SelectorAdd uint32 = iota + 0x0101
	SelectorSub
	SelectorMul
	SelectorAnd
	SelectorOr
	SelectorXor
	SelectorNot
	SelectorNeg
	SelectorLt
	SelectorLe
	SelectorGt
	SelectorGe
	SelectorEq
	SelectorNe
	SelectorMin
	SelectorMax
	SelectorKeySwitch
	SelectorTrivialEncrypt
	SelectorGetParameters
)

// Precompile addresses in the privacy range (0x0700).
var (
	// EvalAddress hosts the homomorphic evaluation entry points.
	EvalAddress = common.HexToAddress("0x0700000000000000000000000000000000000001")

	// KeyAddress hosts key switching and parameter retrieval.
	KeyAddress = common.HexToAddress("0x0700000000000000000000000000000000000002")
)

// Operation declares one precompile entry point: where it lives, its
// selector, the operand kinds it takes in order, and what a successful
// response decodes to.
type Operation struct {
	Name     string
	Selector uint32
	Address  common.Address
	Operands []OperandKind
	Result   ResultKind
}

func binaryOp(name string, selector uint32) Operation {
	return Operation{
		Name:     name,
		Selector: selector,
		Address:  EvalAddress,
		Operands: []OperandKind{OperandCiphertext, OperandCiphertext},
		Result:   ResultCiphertext,
	}
}

func unaryOp(name string, selector uint32) Operation {
	return Operation{
		Name:     name,
		Selector: selector,
		Address:  EvalAddress,
		Operands: []OperandKind{OperandCiphertext},
		Result:   ResultCiphertext,
	}
}

// Declared operations. The table is fixed at process start; BuildCall
// enforces it before any network interaction so a malformed call never
// reaches the chain and reverts.
var (
	Add = binaryOp("fheAdd", SelectorAdd)
	Sub = binaryOp("fheSub", SelectorSub)
	Mul = binaryOp("fheMul", SelectorMul)
	And = binaryOp("fheAnd", SelectorAnd)
	Or  = binaryOp("fheOr", SelectorOr)
	Xor = binaryOp("fheXor", SelectorXor)
	Not = unaryOp("fheNot", SelectorNot)
	Neg = unaryOp("fheNeg", SelectorNeg)
	Lt  = binaryOp("fheLt", SelectorLt)
	Le  = binaryOp("fheLe", SelectorLe)
	Gt  = binaryOp("fheGt", SelectorGt)
	Ge  = binaryOp("fheGe", SelectorGe)
	Eq  = binaryOp("fheEq", SelectorEq)
	Ne  = binaryOp("fheNe", SelectorNe)
	Min = binaryOp("fheMin", SelectorMin)
	Max = binaryOp("fheMax", SelectorMax)

	KeySwitch = Operation{
		Name:     "fheKeySwitch",
		Selector: SelectorKeySwitch,
		Address:  KeyAddress,
		Operands: []OperandKind{OperandCiphertext, OperandKeySwitchKey},
		Result:   ResultCiphertext,
	}

	TrivialEncrypt = Operation{
		Name:     "fheTrivialEncrypt",
		Selector: SelectorTrivialEncrypt,
		Address:  EvalAddress,
		Operands: []OperandKind{OperandPlaintextWord},
		Result:   ResultCiphertext,
	}

	GetParameters = Operation{
		Name:     "fheGetParameters",
		Selector: SelectorGetParameters,
		Address:  KeyAddress,
		Operands: []OperandKind{},
		Result:   ResultParameters,
	}
)

// Operations lists every declared operation.
func Operations() []Operation {
	return []Operation{
		Add, Sub, Mul, And, Or, Xor, Not, Neg,
		Lt, Le, Gt, Ge, Eq, Ne, Min, Max,
		KeySwitch, TrivialEncrypt, GetParameters,
	}
}

// Gas costs per operation class, mirrored from the precompile
// implementation's pricing.
const (
	EvalBinaryGas     = 150_000
	EvalUnaryGas      = 80_000
	KeySwitchGas      = 400_000
	TrivialEncryptGas = 20_000
	GetParametersGas  = 10_000
)
