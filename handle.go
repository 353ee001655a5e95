// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package fhebridge

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/luxfi/ids"
)

// CiphertextExporter is the contract the FHE library collaborator must
// satisfy: a ciphertext or key object that can export its raw bytes.
type CiphertextExporter interface {
	Bytes() []byte
}

// CiphertextHandle wraps an encrypted value's raw bytes together with the
// scheme and parameter set it was produced under. Handles are immutable
// once constructed; the payload is copied in and copied out.
type CiphertextHandle struct {
	scheme   SchemeID
	paramSet ParamSetID
	payload  []byte
}

// NewCiphertextHandle wraps payload bytes under the given binding. The
// payload must satisfy the length bounds mandated by the descriptor.
func NewCiphertextHandle(desc Descriptor, payload []byte) (*CiphertextHandle, error) {
	n := uint32(len(payload))
	if n < desc.MinPayloadLen || n > desc.MaxPayloadLen {
		return nil, &ValidationError{
			Field: "payload_length",
			Want:  fmt.Sprintf("[%d, %d]", desc.MinPayloadLen, desc.MaxPayloadLen),
			Got:   fmt.Sprintf("%d", n),
		}
	}
	return &CiphertextHandle{
		scheme:   desc.Scheme,
		paramSet: desc.ParamSet,
		payload:  slices.Clone(payload),
	}, nil
}

// WrapCiphertext wraps a freshly produced ciphertext from the FHE
// library collaborator.
func WrapCiphertext(desc Descriptor, ct CiphertextExporter) (*CiphertextHandle, error) {
	return NewCiphertextHandle(desc, ct.Bytes())
}

// Scheme returns the scheme the ciphertext was produced under.
func (h *CiphertextHandle) Scheme() SchemeID { return h.scheme }

// ParamSet returns the parameter set the ciphertext was produced under.
func (h *CiphertextHandle) ParamSet() ParamSetID { return h.paramSet }

// Binding returns the (scheme, parameter set) pair of the handle.
func (h *CiphertextHandle) Binding() (SchemeID, ParamSetID) {
	return h.scheme, h.paramSet
}

// Payload returns a copy of the raw ciphertext bytes.
func (h *CiphertextHandle) Payload() []byte {
	return slices.Clone(h.payload)
}

// PayloadLen returns the raw ciphertext length.
func (h *CiphertextHandle) PayloadLen() int { return len(h.payload) }

// Digest returns the content digest of the raw ciphertext bytes.
func (h *CiphertextHandle) Digest() ids.ID {
	return ComputeDigest(h.payload)
}

// Equal reports whether two handles carry the same binding and payload.
func (h *CiphertextHandle) Equal(other *CiphertextHandle) bool {
	if h == nil || other == nil {
		return h == other
	}
	return h.scheme == other.scheme &&
		h.paramSet == other.paramSet &&
		bytes.Equal(h.payload, other.payload)
}

// PublicParameters carries the cryptographic configuration a session's
// ciphertexts are produced under: ring degree, moduli and key-switching
// data. Loaded once per session and shared read-only.
type PublicParameters struct {
	scheme   SchemeID
	paramSet ParamSetID

	logN   uint8
	moduli []uint64
	ksBase uint8
	ksData []byte
}

// NewPublicParameters builds an immutable parameter object under the
// given binding. Moduli and key-switching data are copied in.
func NewPublicParameters(
	desc Descriptor,
	logN uint8,
	moduli []uint64,
	ksBase uint8,
	ksData []byte,
) (*PublicParameters, error) {
	if logN < 9 || logN > 17 {
		return nil, fmt.Errorf("log degree %d outside [9, 17]", logN)
	}
	if len(moduli) == 0 {
		return nil, fmt.Errorf("parameter set %s/%s: no moduli", desc.Scheme, desc.ParamSet)
	}
	for i, q := range moduli {
		if q == 0 {
			return nil, fmt.Errorf("parameter set %s/%s: zero modulus at index %d", desc.Scheme, desc.ParamSet, i)
		}
	}
	return &PublicParameters{
		scheme:   desc.Scheme,
		paramSet: desc.ParamSet,
		logN:     logN,
		moduli:   slices.Clone(moduli),
		ksBase:   ksBase,
		ksData:   slices.Clone(ksData),
	}, nil
}

// Scheme returns the scheme of the parameter set.
func (p *PublicParameters) Scheme() SchemeID { return p.scheme }

// ParamSet returns the parameter set identifier.
func (p *PublicParameters) ParamSet() ParamSetID { return p.paramSet }

// Binding returns the (scheme, parameter set) pair of the parameters.
func (p *PublicParameters) Binding() (SchemeID, ParamSetID) {
	return p.scheme, p.paramSet
}

// LogN returns log2 of the ring degree.
func (p *PublicParameters) LogN() uint8 { return p.logN }

// Moduli returns a copy of the modulus chain.
func (p *PublicParameters) Moduli() []uint64 {
	return slices.Clone(p.moduli)
}

// KeySwitchBase returns the base-two decomposition used for key switching.
func (p *PublicParameters) KeySwitchBase() uint8 { return p.ksBase }

// KeySwitchData returns a copy of the serialized key-switching material.
func (p *PublicParameters) KeySwitchData() []byte {
	return slices.Clone(p.ksData)
}

// Equal reports whether two parameter objects are identical.
func (p *PublicParameters) Equal(other *PublicParameters) bool {
	if p == nil || other == nil {
		return p == other
	}
	return p.scheme == other.scheme &&
		p.paramSet == other.paramSet &&
		p.logN == other.logN &&
		slices.Equal(p.moduli, other.moduli) &&
		p.ksBase == other.ksBase &&
		bytes.Equal(p.ksData, other.ksData)
}
