// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package wire

import (
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"github.com/luxfi/ids"

	"github.com/luxfi/fhebridge"
)

// Validated wraps inbound bytes that passed structural validation,
// together with the descriptor resolved from the frame header. It is the
// only path from untrusted bytes into the decoders.
type Validated struct {
	data []byte
	kind FrameKind
	desc fhebridge.Descriptor
}

// Bytes returns a copy of the validated frame.
func (v *Validated) Bytes() []byte {
	out := make([]byte, len(v.data))
	copy(out, v.data)
	return out
}

// Kind returns the frame kind.
func (v *Validated) Kind() FrameKind { return v.kind }

// Descriptor returns the binding descriptor resolved from the header.
func (v *Validated) Descriptor() fhebridge.Descriptor { return v.desc }

// Digest returns the content digest of the whole frame.
func (v *Validated) Digest() ids.ID {
	return fhebridge.ComputeDigest(v.data)
}

// ValidateInbound checks the structural well-formedness of untrusted
// inbound bytes against the registry. Checks run in order: header
// presence, frame kind, declared payload length against the buffer and
// the binding's bounds, version range, registered binding, and the
// integrity tag if the binding mandates one. The tag is compared in
// constant time so timing does not leak ciphertext structure.
//
// On any failure the input is rejected outright; no partial decode is
// ever returned.
func ValidateInbound(data []byte, reg *fhebridge.Registry) (*Validated, error) {
	h, err := parseHeader(data)
	if err != nil {
		return nil, err
	}

	switch h.kind {
	case KindCiphertext, KindParameters, KindKeySwitchKey:
	default:
		return nil, &fhebridge.ValidationError{
			Field: "kind",
			Want:  "ciphertext, parameters or keyswitch-key",
			Got:   fmt.Sprintf("%d", uint8(h.kind)),
		}
	}

	if len(data) > MaxFrameLen {
		return nil, &fhebridge.ValidationError{
			Field: "frame",
			Want:  fmt.Sprintf("at most %d bytes", MaxFrameLen),
			Got:   fmt.Sprintf("%d bytes", len(data)),
		}
	}

	// The declared payload must fit the remaining buffer before any
	// other field is trusted.
	if HeaderLen+int(h.payloadLen) > len(data) {
		return nil, &fhebridge.ValidationError{
			Field: "payload_length",
			Want:  fmt.Sprintf("at most %d", len(data)-HeaderLen),
			Got:   fmt.Sprintf("%d", h.payloadLen),
		}
	}

	if h.version < fhebridge.MinCodecVersion || h.version > fhebridge.CodecVersion {
		return nil, &fhebridge.ValidationError{
			Field: "version",
			Want:  fmt.Sprintf("[%d, %d]", fhebridge.MinCodecVersion, fhebridge.CodecVersion),
			Got:   fmt.Sprintf("%d", h.version),
		}
	}

	desc, err := reg.Resolve(h.scheme, h.paramSet)
	if err != nil {
		return nil, err
	}

	wantLen := HeaderLen + int(h.payloadLen) + desc.TagLen
	if len(data) != wantLen {
		return nil, &fhebridge.ValidationError{
			Field: "frame",
			Want:  fmt.Sprintf("%d bytes", wantLen),
			Got:   fmt.Sprintf("%d bytes", len(data)),
		}
	}

	// Ciphertext and key material must respect the payload bounds the
	// parameter set mandates. Parameter bodies are small and bounded by
	// MaxFrameLen alone.
	if h.kind != KindParameters {
		if h.payloadLen < desc.MinPayloadLen || h.payloadLen > desc.MaxPayloadLen {
			return nil, &fhebridge.ValidationError{
				Field: "payload_length",
				Want:  fmt.Sprintf("[%d, %d]", desc.MinPayloadLen, desc.MaxPayloadLen),
				Got:   fmt.Sprintf("%d", h.payloadLen),
			}
		}
	}

	if desc.TagLen > 0 {
		tagStart := HeaderLen + int(h.payloadLen)
		want := fhebridge.ComputeIntegrityTag(data[:tagStart])
		got := data[tagStart:]
		if subtle.ConstantTimeCompare(want, got) != 1 {
			return nil, &fhebridge.ValidationError{
				Field: "integrity_tag",
				Want:  hex.EncodeToString(want),
				Got:   hex.EncodeToString(got),
			}
		}
	}

	frame := make([]byte, len(data))
	copy(frame, data)
	return &Validated{data: frame, kind: h.kind, desc: desc}, nil
}
