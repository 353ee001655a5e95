// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package fhebridge

import (
	"github.com/luxfi/crypto"
	"github.com/luxfi/ids"
)

// Constants
const (
	// KiB is 1024 bytes
	KiB = 1024

	// CodecVersion is the current frame version emitted by the codec.
	CodecVersion uint16 = 1

	// MinCodecVersion is the oldest frame version still accepted on
	// inbound frames.
	MinCodecVersion uint16 = 1

	// IntegrityTagLen is the length of the trailing integrity tag on
	// frames whose binding mandates one.
	IntegrityTagLen = 8
)

// ComputeDigest returns the Keccak-256 digest of data as an ID. Frames
// and payloads are content-addressed by this digest.
func ComputeDigest(data []byte) ids.ID {
	var id ids.ID
	copy(id[:], crypto.Keccak256(data))
	return id
}

// ComputeIntegrityTag returns the trailing tag for a frame: the leading
// IntegrityTagLen bytes of the Keccak-256 digest of everything before it.
func ComputeIntegrityTag(framePrefix []byte) []byte {
	digest := crypto.Keccak256(framePrefix)
	return digest[:IntegrityTagLen]
}
