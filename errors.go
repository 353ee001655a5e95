// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package fhebridge

import (
	"errors"
	"fmt"
)

// Sentinels for the four error kinds crossing this layer's boundaries.
// Callers match with errors.Is; the typed errors below carry the
// structured detail.
var (
	// ErrUnknownBinding marks an unregistered (scheme, parameter set)
	// pair. This is a configuration or versioning mismatch and is fatal
	// to the call.
	ErrUnknownBinding = errors.New("unknown scheme binding")

	// ErrValidation marks malformed untrusted bytes: truncated,
	// oversized, bad version, bad integrity tag. The input is rejected,
	// never partially decoded.
	ErrValidation = errors.New("frame validation failed")

	// ErrSchemeMismatch marks a decoded object whose binding differs
	// from the caller's expectation.
	ErrSchemeMismatch = errors.New("scheme binding mismatch")

	// ErrArity marks an operand count or kind mismatch when building a
	// precompile call. Caught before any chain interaction.
	ErrArity = errors.New("operand arity mismatch")
)

// UnknownBindingError reports an unregistered (scheme, parameter set)
// pair.
type UnknownBindingError struct {
	Scheme   SchemeID
	ParamSet ParamSetID
}

func (e *UnknownBindingError) Error() string {
	return fmt.Sprintf("%s: %s/%s not registered", ErrUnknownBinding, e.Scheme, e.ParamSet)
}

func (e *UnknownBindingError) Is(target error) bool {
	return target == ErrUnknownBinding
}

// ValidationError reports which structural check failed on inbound bytes
// and the expected versus observed value of the offending field.
type ValidationError struct {
	// Field is the frame field that failed: "frame", "payload_length",
	// "version", "binding", "integrity_tag".
	Field string
	Want  string
	Got   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: want %s, got %s", ErrValidation, e.Field, e.Want, e.Got)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// SchemeMismatchError reports a binding that decoded cleanly but is not
// the one the caller expected. Either a logic error in the caller or a
// maliciously crafted on-chain value.
type SchemeMismatchError struct {
	WantScheme   SchemeID
	WantParamSet ParamSetID
	GotScheme    SchemeID
	GotParamSet  ParamSetID
}

func (e *SchemeMismatchError) Error() string {
	return fmt.Sprintf("%s: want %s/%s, got %s/%s",
		ErrSchemeMismatch, e.WantScheme, e.WantParamSet, e.GotScheme, e.GotParamSet)
}

func (e *SchemeMismatchError) Is(target error) bool {
	return target == ErrSchemeMismatch
}

// ArityError reports an operand sequence that does not fit an operation's
// declared shape. Operand is the zero-based index of the offending
// operand, or -1 for a count mismatch.
type ArityError struct {
	Op      string
	Operand int
	Want    string
	Got     string
}

func (e *ArityError) Error() string {
	if e.Operand < 0 {
		return fmt.Sprintf("%s: %s: want %s, got %s", ErrArity, e.Op, e.Want, e.Got)
	}
	return fmt.Sprintf("%s: %s operand %d: want %s, got %s", ErrArity, e.Op, e.Operand, e.Want, e.Got)
}

func (e *ArityError) Is(target error) bool {
	return target == ErrArity
}
