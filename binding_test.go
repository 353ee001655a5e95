// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package fhebridge

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRegistry(t *testing.T) {
	reg, err := NewRegistry(DefaultBindings()...)
	require.NoError(t, err)
	require.Equal(t, len(DefaultBindings()), reg.Len())

	for _, d := range DefaultBindings() {
		require.True(t, reg.Contains(d.Scheme, d.ParamSet))
		resolved, err := reg.Resolve(d.Scheme, d.ParamSet)
		require.NoError(t, err)
		require.Equal(t, d, resolved)
	}
}

func TestNewRegistryRejectsBadDescriptors(t *testing.T) {
	valid := Descriptor{
		Scheme:        SchemeTFHEBool,
		ParamSet:      ParamSetPN10QP27,
		Version:       CodecVersion,
		MinPayloadLen: KiB,
		MaxPayloadLen: 64 * KiB,
		TagLen:        IntegrityTagLen,
	}

	tests := []struct {
		name   string
		mutate func(Descriptor) []Descriptor
	}{
		{
			name: "zero scheme",
			mutate: func(d Descriptor) []Descriptor {
				d.Scheme = 0
				return []Descriptor{d}
			},
		},
		{
			name: "zero parameter set",
			mutate: func(d Descriptor) []Descriptor {
				d.ParamSet = 0
				return []Descriptor{d}
			},
		},
		{
			name: "zero max payload",
			mutate: func(d Descriptor) []Descriptor {
				d.MaxPayloadLen = 0
				return []Descriptor{d}
			},
		},
		{
			name: "min above max",
			mutate: func(d Descriptor) []Descriptor {
				d.MinPayloadLen = d.MaxPayloadLen + 1
				return []Descriptor{d}
			},
		},
		{
			name: "unsupported tag length",
			mutate: func(d Descriptor) []Descriptor {
				d.TagLen = 4
				return []Descriptor{d}
			},
		},
		{
			name: "duplicate binding",
			mutate: func(d Descriptor) []Descriptor {
				return []Descriptor{d, d}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.mutate(valid)...)
			require.Error(t, err)
		})
	}
}

func TestResolveUnknownBinding(t *testing.T) {
	reg := MustNewRegistry(DefaultBindings()...)

	_, err := reg.Resolve(SchemeID(99), ParamSetPN10QP27)
	require.ErrorIs(t, err, ErrUnknownBinding)

	var ube *UnknownBindingError
	require.True(t, errors.As(err, &ube))
	require.Equal(t, SchemeID(99), ube.Scheme)
	require.Equal(t, ParamSetPN10QP27, ube.ParamSet)
}

// Every registered pair of distinct bindings must be rejected by
// AssertMatch in both directions.
func TestAssertMatchSchemeIsolation(t *testing.T) {
	reg := MustNewRegistry(DefaultBindings()...)
	descs := reg.Descriptors()

	payload := make([]byte, 2*KiB)
	for i := range payload {
		payload[i] = byte(i)
	}

	for _, produced := range descs {
		handle, err := NewCiphertextHandle(produced, payload)
		require.NoError(t, err)

		for _, expected := range descs {
			err := reg.AssertMatch(handle, expected)
			if produced.Scheme == expected.Scheme && produced.ParamSet == expected.ParamSet {
				require.NoError(t, err)
				continue
			}
			require.ErrorIs(t, err, ErrSchemeMismatch)

			var sme *SchemeMismatchError
			require.True(t, errors.As(err, &sme))
			require.Equal(t, expected.Scheme, sme.WantScheme)
			require.Equal(t, expected.ParamSet, sme.WantParamSet)
			require.Equal(t, produced.Scheme, sme.GotScheme)
			require.Equal(t, produced.ParamSet, sme.GotParamSet)
		}
	}
}

func TestAssertMatchUnregisteredHandle(t *testing.T) {
	// A handle produced under a binding absent from this registry must
	// surface as unknown, not as a mismatch.
	full := MustNewRegistry(DefaultBindings()...)
	only := MustNewRegistry(DefaultBindings()[0])

	foreign := DefaultBindings()[3]
	handle, err := NewCiphertextHandle(foreign, make([]byte, 4*KiB))
	require.NoError(t, err)
	require.NoError(t, full.AssertMatch(handle, foreign))

	err = only.AssertMatch(handle, DefaultBindings()[0])
	require.ErrorIs(t, err, ErrUnknownBinding)
}

func TestRegistrySchemes(t *testing.T) {
	reg := MustNewRegistry(DefaultBindings()...)
	schemes := reg.Schemes()
	require.Len(t, schemes, 2)
	require.Contains(t, schemes, SchemeTFHEBool)
	require.Contains(t, schemes, SchemeTFHEShortint)
}
