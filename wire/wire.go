// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package wire implements the frame codec shared by calldata operands and
// precompile responses. A frame is a fixed big-endian header, the raw
// payload, and an optional trailing integrity tag:
//
//	version     uint16
//	kind        uint8
//	scheme      uint16
//	param set   uint16
//	payload len uint32
//	payload     [payload len]byte
//	tag         [TagLen]byte (only if the binding mandates one)
//
// Encoding is deterministic: the same object under the same binding
// always yields byte-identical output. Decoding is strict: any length,
// version, kind or binding inconsistency is an error, never best-effort
// data.
package wire

import (
	"encoding/binary"
	"fmt"

	"github.com/luxfi/fhebridge"
)

// FrameKind tags what a frame's payload carries.
type FrameKind uint8

const (
	// KindCiphertext frames carry raw ciphertext bytes.
	KindCiphertext FrameKind = 1

	// KindParameters frames carry an RLP-encoded parameter body.
	KindParameters FrameKind = 2

	// KindKeySwitchKey frames carry serialized key-switching key bytes.
	KindKeySwitchKey FrameKind = 3
)

func (k FrameKind) String() string {
	switch k {
	case KindCiphertext:
		return "ciphertext"
	case KindParameters:
		return "parameters"
	case KindKeySwitchKey:
		return "keyswitch-key"
	default:
		return fmt.Sprintf("kind-%d", uint8(k))
	}
}

const (
	// HeaderLen is the fixed frame header length.
	HeaderLen = 2 + 1 + 2 + 2 + 4

	// MaxFrameLen bounds any frame regardless of binding, mirroring the
	// calldata limits of the target VM.
	MaxFrameLen = 1024 * fhebridge.KiB
)

// header is the decoded fixed-width frame header.
type header struct {
	version    uint16
	kind       FrameKind
	scheme     fhebridge.SchemeID
	paramSet   fhebridge.ParamSetID
	payloadLen uint32
}

func (h header) put(buf []byte) {
	binary.BigEndian.PutUint16(buf[0:], h.version)
	buf[2] = uint8(h.kind)
	binary.BigEndian.PutUint16(buf[3:], uint16(h.scheme))
	binary.BigEndian.PutUint16(buf[5:], uint16(h.paramSet))
	binary.BigEndian.PutUint32(buf[7:], h.payloadLen)
}

// parseHeader reads the fixed header. It checks only that the header is
// present; the field-level checks belong to ValidateInbound and the
// decoders.
func parseHeader(data []byte) (header, error) {
	if len(data) < HeaderLen {
		return header{}, &fhebridge.ValidationError{
			Field: "frame",
			Want:  fmt.Sprintf("at least %d bytes", HeaderLen),
			Got:   fmt.Sprintf("%d bytes", len(data)),
		}
	}
	return header{
		version:    binary.BigEndian.Uint16(data[0:]),
		kind:       FrameKind(data[2]),
		scheme:     fhebridge.SchemeID(binary.BigEndian.Uint16(data[3:])),
		paramSet:   fhebridge.ParamSetID(binary.BigEndian.Uint16(data[5:])),
		payloadLen: binary.BigEndian.Uint32(data[7:]),
	}, nil
}

// encodeFrame assembles header, payload and (if the binding mandates one)
// the trailing integrity tag.
func encodeFrame(kind FrameKind, desc fhebridge.Descriptor, payload []byte) []byte {
	h := header{
		version:    desc.Version,
		kind:       kind,
		scheme:     desc.Scheme,
		paramSet:   desc.ParamSet,
		payloadLen: uint32(len(payload)),
	}
	buf := make([]byte, HeaderLen+len(payload)+desc.TagLen)
	h.put(buf)
	copy(buf[HeaderLen:], payload)
	if desc.TagLen > 0 {
		tag := fhebridge.ComputeIntegrityTag(buf[:HeaderLen+len(payload)])
		copy(buf[HeaderLen+len(payload):], tag)
	}
	return buf
}

// splitFrame re-parses a frame strictly against an expected descriptor:
// exact total length, supported version, matching binding and mandated
// tag length. It returns the payload without verifying the tag; tag
// verification is ValidateInbound's job and is repeated there in
// constant time.
func splitFrame(data []byte, wantKind FrameKind, desc fhebridge.Descriptor) ([]byte, error) {
	h, err := parseHeader(data)
	if err != nil {
		return nil, err
	}
	if h.version < fhebridge.MinCodecVersion || h.version > fhebridge.CodecVersion {
		return nil, &fhebridge.ValidationError{
			Field: "version",
			Want:  fmt.Sprintf("[%d, %d]", fhebridge.MinCodecVersion, fhebridge.CodecVersion),
			Got:   fmt.Sprintf("%d", h.version),
		}
	}
	if h.kind != wantKind {
		return nil, &fhebridge.ValidationError{
			Field: "kind",
			Want:  wantKind.String(),
			Got:   h.kind.String(),
		}
	}
	if h.scheme != desc.Scheme || h.paramSet != desc.ParamSet {
		return nil, &fhebridge.SchemeMismatchError{
			WantScheme:   desc.Scheme,
			WantParamSet: desc.ParamSet,
			GotScheme:    h.scheme,
			GotParamSet:  h.paramSet,
		}
	}
	want := HeaderLen + int(h.payloadLen) + desc.TagLen
	if len(data) != want {
		return nil, &fhebridge.ValidationError{
			Field: "payload_length",
			Want:  fmt.Sprintf("%d frame bytes", want),
			Got:   fmt.Sprintf("%d frame bytes", len(data)),
		}
	}
	return data[HeaderLen : HeaderLen+int(h.payloadLen)], nil
}

// EncodeCiphertext encodes a handle into a frame under the given
// descriptor. The handle's binding must equal the descriptor's.
func EncodeCiphertext(h *fhebridge.CiphertextHandle, desc fhebridge.Descriptor) ([]byte, error) {
	scheme, paramSet := h.Binding()
	if scheme != desc.Scheme || paramSet != desc.ParamSet {
		return nil, &fhebridge.SchemeMismatchError{
			WantScheme:   desc.Scheme,
			WantParamSet: desc.ParamSet,
			GotScheme:    scheme,
			GotParamSet:  paramSet,
		}
	}
	n := uint32(h.PayloadLen())
	if n < desc.MinPayloadLen || n > desc.MaxPayloadLen {
		return nil, &fhebridge.ValidationError{
			Field: "payload_length",
			Want:  fmt.Sprintf("[%d, %d]", desc.MinPayloadLen, desc.MaxPayloadLen),
			Got:   fmt.Sprintf("%d", n),
		}
	}
	return encodeFrame(KindCiphertext, desc, h.Payload()), nil
}

// DecodeCiphertext decodes a ciphertext frame under the expected
// descriptor. The input is assumed structurally validated; all checks
// are nevertheless repeated so the codec stands alone.
func DecodeCiphertext(data []byte, desc fhebridge.Descriptor) (*fhebridge.CiphertextHandle, error) {
	payload, err := splitFrame(data, KindCiphertext, desc)
	if err != nil {
		return nil, err
	}
	return fhebridge.NewCiphertextHandle(desc, payload)
}

// EncodeKeySwitchKey frames serialized key-switching key bytes under the
// given descriptor. Key material shares the ciphertext payload bounds.
func EncodeKeySwitchKey(raw []byte, desc fhebridge.Descriptor) ([]byte, error) {
	n := uint32(len(raw))
	if n < desc.MinPayloadLen || n > desc.MaxPayloadLen {
		return nil, &fhebridge.ValidationError{
			Field: "payload_length",
			Want:  fmt.Sprintf("[%d, %d]", desc.MinPayloadLen, desc.MaxPayloadLen),
			Got:   fmt.Sprintf("%d", n),
		}
	}
	return encodeFrame(KindKeySwitchKey, desc, raw), nil
}

// DecodeKeySwitchKey returns the raw key-switching key bytes of a frame.
func DecodeKeySwitchKey(data []byte, desc fhebridge.Descriptor) ([]byte, error) {
	payload, err := splitFrame(data, KindKeySwitchKey, desc)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(payload))
	copy(out, payload)
	return out, nil
}
