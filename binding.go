// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package fhebridge moves FHE ciphertexts and public parameters between
// off-chain callers and EVM precompiles. It owns the byte layout used in
// calldata and precompile responses, and validates everything read back
// from chain state before it is treated as ciphertext material.
//
// The heavy cryptography lives elsewhere: key generation, encryption and
// homomorphic evaluation are the FHE library's job, and transaction
// submission is the chain client's. This package is the trust boundary
// in between.
package fhebridge

import (
	"fmt"

	"github.com/luxfi/math/set"
)

// SchemeID identifies an FHE scheme.
type SchemeID uint16

// ParamSetID identifies a parameter set within a scheme. Ciphertexts from
// different parameter sets are not interoperable.
type ParamSetID uint16

// Registered schemes.
const (
	// SchemeTFHEBool is TFHE over encrypted bits with gate bootstrapping.
	SchemeTFHEBool SchemeID = 1

	// SchemeTFHEShortint is TFHE over small message spaces (2-4 bit words).
	SchemeTFHEShortint SchemeID = 2
)

// Registered parameter sets. The names follow the lattice parameter
// literals they were produced under.
const (
	// ParamSetPN10QP27 is N=1024, Q~2^27, ~128-bit classical security.
	ParamSetPN10QP27 ParamSetID = 1

	// ParamSetPN11QP54 is N=2048, Q~2^54, higher precision.
	ParamSetPN11QP54 ParamSetID = 2

	// ParamSetPN9QP28STD128 is N=512/1024, Q~2^28, STD128 compatible.
	ParamSetPN9QP28STD128 ParamSetID = 3
)

func (s SchemeID) String() string {
	switch s {
	case SchemeTFHEBool:
		return "tfhe-bool"
	case SchemeTFHEShortint:
		return "tfhe-shortint"
	default:
		return fmt.Sprintf("scheme-%d", uint16(s))
	}
}

func (p ParamSetID) String() string {
	switch p {
	case ParamSetPN10QP27:
		return "PN10QP27"
	case ParamSetPN11QP54:
		return "PN11QP54"
	case ParamSetPN9QP28STD128:
		return "PN9QP28_STD128"
	default:
		return fmt.Sprintf("paramset-%d", uint16(p))
	}
}

// Descriptor fixes the byte layout for one (scheme, parameter set) pair:
// the frame version to emit, the payload size bounds mandated by the
// parameter set, and whether frames carry a trailing integrity tag.
// All numeric frame fields are big-endian with widths fixed by the frame
// format; a descriptor never changes them.
type Descriptor struct {
	Scheme   SchemeID
	ParamSet ParamSetID

	// Version is the frame version written when encoding under this
	// binding. Inbound frames may carry any supported version.
	Version uint16

	// MinPayloadLen and MaxPayloadLen bound the ciphertext (or serialized
	// parameter) payload for this parameter set.
	MinPayloadLen uint32
	MaxPayloadLen uint32

	// TagLen is the length of the trailing integrity tag, 0 if the
	// binding does not mandate one.
	TagLen int
}

// Binding returns the (scheme, parameter set) pair of the descriptor.
func (d Descriptor) Binding() (SchemeID, ParamSetID) {
	return d.Scheme, d.ParamSet
}

func (d Descriptor) validate() error {
	if d.Scheme == 0 {
		return fmt.Errorf("%w: zero scheme id", ErrUnknownBinding)
	}
	if d.ParamSet == 0 {
		return fmt.Errorf("%w: zero parameter set id", ErrUnknownBinding)
	}
	if d.MaxPayloadLen == 0 {
		return fmt.Errorf("descriptor %s/%s: zero max payload length", d.Scheme, d.ParamSet)
	}
	if d.MinPayloadLen > d.MaxPayloadLen {
		return fmt.Errorf("descriptor %s/%s: min payload %d exceeds max %d",
			d.Scheme, d.ParamSet, d.MinPayloadLen, d.MaxPayloadLen)
	}
	if d.TagLen != 0 && d.TagLen != IntegrityTagLen {
		return fmt.Errorf("descriptor %s/%s: tag length must be 0 or %d, got %d",
			d.Scheme, d.ParamSet, IntegrityTagLen, d.TagLen)
	}
	return nil
}

type bindingKey struct {
	scheme   SchemeID
	paramSet ParamSetID
}

// Registry maps (scheme, parameter set) pairs to layout descriptors. It is
// built once, before concurrent use, and is read-only afterwards; lookups
// never fall back to a default.
type Registry struct {
	bindings map[bindingKey]Descriptor
	schemes  set.Set[SchemeID]
}

// NewRegistry builds a registry from the given descriptors. Duplicate
// pairs and malformed descriptors are rejected.
func NewRegistry(descs ...Descriptor) (*Registry, error) {
	r := &Registry{
		bindings: make(map[bindingKey]Descriptor, len(descs)),
		schemes:  set.NewSet[SchemeID](len(descs)),
	}
	for _, d := range descs {
		if err := d.validate(); err != nil {
			return nil, err
		}
		key := bindingKey{d.Scheme, d.ParamSet}
		if _, ok := r.bindings[key]; ok {
			return nil, fmt.Errorf("duplicate binding %s/%s", d.Scheme, d.ParamSet)
		}
		r.bindings[key] = d
		r.schemes.Add(d.Scheme)
	}
	return r, nil
}

// MustNewRegistry is NewRegistry that panics on error. Intended for
// process-start construction from a fixed table.
func MustNewRegistry(descs ...Descriptor) *Registry {
	r, err := NewRegistry(descs...)
	if err != nil {
		panic(err)
	}
	return r
}

// Resolve returns the descriptor registered for the pair. An unregistered
// pair is a hard error, never a silent default.
func (r *Registry) Resolve(scheme SchemeID, paramSet ParamSetID) (Descriptor, error) {
	d, ok := r.bindings[bindingKey{scheme, paramSet}]
	if !ok {
		return Descriptor{}, &UnknownBindingError{Scheme: scheme, ParamSet: paramSet}
	}
	return d, nil
}

// Bound is implemented by objects carrying a scheme binding.
type Bound interface {
	Binding() (SchemeID, ParamSetID)
}

// AssertMatch checks that the object's binding is registered and equals
// the expected descriptor's binding. It is the defense against submitting
// ciphertext material produced under one parameter set to an operation
// expecting another.
func (r *Registry) AssertMatch(obj Bound, want Descriptor) error {
	scheme, paramSet := obj.Binding()
	if _, err := r.Resolve(scheme, paramSet); err != nil {
		return err
	}
	if scheme != want.Scheme || paramSet != want.ParamSet {
		return &SchemeMismatchError{
			WantScheme:   want.Scheme,
			WantParamSet: want.ParamSet,
			GotScheme:    scheme,
			GotParamSet:  paramSet,
		}
	}
	return nil
}

// Contains reports whether the pair is registered.
func (r *Registry) Contains(scheme SchemeID, paramSet ParamSetID) bool {
	_, ok := r.bindings[bindingKey{scheme, paramSet}]
	return ok
}

// Schemes returns the set of registered scheme ids.
func (r *Registry) Schemes() []SchemeID {
	return r.schemes.List()
}

// Descriptors returns all registered descriptors, in unspecified order.
func (r *Registry) Descriptors() []Descriptor {
	descs := make([]Descriptor, 0, len(r.bindings))
	for _, d := range r.bindings {
		descs = append(descs, d)
	}
	return descs
}

// Len returns the number of registered bindings.
func (r *Registry) Len() int {
	return len(r.bindings)
}

// DefaultBindings is the fixed, versioned binding table for the supported
// TFHE parameter sets. Payload bounds follow the LWE dimension of each
// set; shortint ciphertexts are wider than boolean ones.
func DefaultBindings() []Descriptor {
	return []Descriptor{
		{
			Scheme:        SchemeTFHEBool,
			ParamSet:      ParamSetPN10QP27,
			Version:       CodecVersion,
			MinPayloadLen: 1 * KiB,
			MaxPayloadLen: 64 * KiB,
			TagLen:        IntegrityTagLen,
		},
		{
			Scheme:        SchemeTFHEBool,
			ParamSet:      ParamSetPN9QP28STD128,
			Version:       CodecVersion,
			MinPayloadLen: 1 * KiB,
			MaxPayloadLen: 64 * KiB,
			TagLen:        IntegrityTagLen,
		},
		{
			Scheme:        SchemeTFHEShortint,
			ParamSet:      ParamSetPN10QP27,
			Version:       CodecVersion,
			MinPayloadLen: 1 * KiB,
			MaxPayloadLen: 256 * KiB,
			TagLen:        IntegrityTagLen,
		},
		{
			Scheme:        SchemeTFHEShortint,
			ParamSet:      ParamSetPN11QP54,
			Version:       CodecVersion,
			MinPayloadLen: 2 * KiB,
			MaxPayloadLen: 512 * KiB,
			TagLen:        IntegrityTagLen,
		},
	}
}
