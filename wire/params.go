// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package wire

import (
	"fmt"

	"github.com/luxfi/geth/rlp"

	"github.com/luxfi/fhebridge"
)

// paramsBody is the RLP body of a parameters frame. RLP gives a single
// canonical encoding per value, so the parameters codec is a bijection
// on valid inputs.
type paramsBody struct {
	LogN   uint8
	Moduli []uint64
	KSBase uint8
	KSData []byte
}

// EncodeParameters encodes public parameters into a frame under the
// given descriptor.
func EncodeParameters(p *fhebridge.PublicParameters, desc fhebridge.Descriptor) ([]byte, error) {
	scheme, paramSet := p.Binding()
	if scheme != desc.Scheme || paramSet != desc.ParamSet {
		return nil, &fhebridge.SchemeMismatchError{
			WantScheme:   desc.Scheme,
			WantParamSet: desc.ParamSet,
			GotScheme:    scheme,
			GotParamSet:  paramSet,
		}
	}
	body, err := rlp.EncodeToBytes(&paramsBody{
		LogN:   p.LogN(),
		Moduli: p.Moduli(),
		KSBase: p.KeySwitchBase(),
		KSData: p.KeySwitchData(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode parameter body: %w", err)
	}
	if HeaderLen+len(body)+desc.TagLen > MaxFrameLen {
		return nil, &fhebridge.ValidationError{
			Field: "payload_length",
			Want:  fmt.Sprintf("at most %d frame bytes", MaxFrameLen),
			Got:   fmt.Sprintf("%d frame bytes", HeaderLen+len(body)+desc.TagLen),
		}
	}
	return encodeFrame(KindParameters, desc, body), nil
}

// DecodeParameters decodes a parameters frame under the expected
// descriptor.
func DecodeParameters(data []byte, desc fhebridge.Descriptor) (*fhebridge.PublicParameters, error) {
	payload, err := splitFrame(data, KindParameters, desc)
	if err != nil {
		return nil, err
	}
	var body paramsBody
	if err := rlp.DecodeBytes(payload, &body); err != nil {
		return nil, &fhebridge.ValidationError{
			Field: "parameter_body",
			Want:  "canonical RLP",
			Got:   err.Error(),
		}
	}
	return fhebridge.NewPublicParameters(desc, body.LogN, body.Moduli, body.KSBase, body.KSData)
}
