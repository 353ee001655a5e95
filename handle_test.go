// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package fhebridge

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testDescriptor() Descriptor {
	return Descriptor{
		Scheme:        SchemeTFHEBool,
		ParamSet:      ParamSetPN10QP27,
		Version:       CodecVersion,
		MinPayloadLen: KiB,
		MaxPayloadLen: 64 * KiB,
		TagLen:        IntegrityTagLen,
	}
}

func TestCiphertextHandle(t *testing.T) {
	desc := testDescriptor()
	payload := make([]byte, 2*KiB)
	for i := range payload {
		payload[i] = byte(i * 7)
	}

	handle, err := NewCiphertextHandle(desc, payload)
	require.NoError(t, err)
	require.Equal(t, desc.Scheme, handle.Scheme())
	require.Equal(t, desc.ParamSet, handle.ParamSet())
	require.Equal(t, len(payload), handle.PayloadLen())
	require.Equal(t, payload, handle.Payload())

	// The handle is detached from the caller's buffer in both
	// directions.
	payload[0] ^= 0xFF
	require.NotEqual(t, payload[0], handle.Payload()[0])

	out := handle.Payload()
	out[1] ^= 0xFF
	require.NotEqual(t, out[1], handle.Payload()[1])
}

func TestCiphertextHandlePayloadBounds(t *testing.T) {
	desc := testDescriptor()

	_, err := NewCiphertextHandle(desc, make([]byte, desc.MinPayloadLen-1))
	require.ErrorIs(t, err, ErrValidation)

	_, err = NewCiphertextHandle(desc, make([]byte, desc.MaxPayloadLen+1))
	require.ErrorIs(t, err, ErrValidation)

	_, err = NewCiphertextHandle(desc, make([]byte, desc.MinPayloadLen))
	require.NoError(t, err)
}

type fakeCiphertext struct{ raw []byte }

func (f *fakeCiphertext) Bytes() []byte { return f.raw }

func TestWrapCiphertext(t *testing.T) {
	desc := testDescriptor()
	ct := &fakeCiphertext{raw: make([]byte, 2*KiB)}

	handle, err := WrapCiphertext(desc, ct)
	require.NoError(t, err)
	require.Equal(t, ct.raw, handle.Payload())
}

func TestCiphertextHandleEqual(t *testing.T) {
	desc := testDescriptor()
	payload := make([]byte, 2*KiB)

	a, err := NewCiphertextHandle(desc, payload)
	require.NoError(t, err)
	b, err := NewCiphertextHandle(desc, payload)
	require.NoError(t, err)
	require.True(t, a.Equal(b))
	require.Equal(t, a.Digest(), b.Digest())

	other := make([]byte, 2*KiB)
	other[0] = 1
	c, err := NewCiphertextHandle(desc, other)
	require.NoError(t, err)
	require.False(t, a.Equal(c))
	require.NotEqual(t, a.Digest(), c.Digest())

	require.False(t, a.Equal(nil))
}

func TestNewPublicParameters(t *testing.T) {
	desc := testDescriptor()

	params, err := NewPublicParameters(desc, 10, []uint64{0x7fff801}, 7, []byte{1, 2, 3})
	require.NoError(t, err)
	require.Equal(t, uint8(10), params.LogN())
	require.Equal(t, []uint64{0x7fff801}, params.Moduli())
	require.Equal(t, uint8(7), params.KeySwitchBase())
	require.Equal(t, []byte{1, 2, 3}, params.KeySwitchData())

	// Accessors hand out copies.
	moduli := params.Moduli()
	moduli[0] = 0
	require.Equal(t, uint64(0x7fff801), params.Moduli()[0])
}

func TestNewPublicParametersRejectsBadInput(t *testing.T) {
	desc := testDescriptor()

	_, err := NewPublicParameters(desc, 8, []uint64{3}, 7, nil)
	require.Error(t, err)

	_, err = NewPublicParameters(desc, 18, []uint64{3}, 7, nil)
	require.Error(t, err)

	_, err = NewPublicParameters(desc, 10, nil, 7, nil)
	require.Error(t, err)

	_, err = NewPublicParameters(desc, 10, []uint64{5, 0}, 7, nil)
	require.Error(t, err)
}

func TestPublicParametersEqual(t *testing.T) {
	desc := testDescriptor()

	a, err := NewPublicParameters(desc, 10, []uint64{1, 2}, 7, []byte{9})
	require.NoError(t, err)
	b, err := NewPublicParameters(desc, 10, []uint64{1, 2}, 7, []byte{9})
	require.NoError(t, err)
	require.True(t, a.Equal(b))

	c, err := NewPublicParameters(desc, 11, []uint64{1, 2}, 7, []byte{9})
	require.NoError(t, err)
	require.False(t, a.Equal(c))
}

func TestComputeDigestDeterminism(t *testing.T) {
	data := []byte("the same bytes every time")
	require.Equal(t, ComputeDigest(data), ComputeDigest(data))
	require.NotEqual(t, ComputeDigest(data), ComputeDigest(append(data, 0)))
}

func TestComputeIntegrityTag(t *testing.T) {
	prefix := []byte("header and payload")
	tag := ComputeIntegrityTag(prefix)
	require.Len(t, tag, IntegrityTagLen)
	require.Equal(t, tag, ComputeIntegrityTag(prefix))
}
