// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package precompile

import (
	"errors"

	"github.com/luxfi/fhebridge"
	"github.com/luxfi/fhebridge/wire"
)

// FailureCode classifies why a precompile response was rejected.
type FailureCode uint8

const (
	FailNone FailureCode = iota
	FailEmptyResponse
	FailValidation
	FailUnknownBinding
	FailDecode
	FailSchemeMismatch
)

func (c FailureCode) String() string {
	switch c {
	case FailNone:
		return "ok"
	case FailEmptyResponse:
		return "empty response"
	case FailValidation:
		return "validation failed"
	case FailUnknownBinding:
		return "unknown binding"
	case FailDecode:
		return "decode failed"
	case FailSchemeMismatch:
		return "scheme mismatch"
	default:
		return "unknown failure"
	}
}

// diagnosticLimit bounds how much of a rejected response is retained for
// logging.
const diagnosticLimit = 64

// Result is the outcome of parsing a precompile response: on success
// exactly one of Handle or Params is set according to the operation's
// result kind; on failure Code and Err identify the originating error
// and Diagnostic holds a bounded prefix of the raw bytes. Callers must
// not reinterpret the raw response themselves.
type Result struct {
	Code       FailureCode
	Handle     *fhebridge.CiphertextHandle
	Params     *fhebridge.PublicParameters
	Err        error
	Diagnostic []byte
}

// Ok reports whether the response passed the full
// validate-decode-assert pipeline.
func (r *Result) Ok() bool { return r.Code == FailNone }

// ParseResult runs raw response bytes through the Validator, the Codec
// and the registry's AssertMatch, in that order, for the given operation
// under the caller's expected binding. Each invocation is a one-shot,
// idempotent transformation; no state is kept between calls.
func (a *Adapter) ParseResult(op Operation, raw []byte, want fhebridge.Descriptor) *Result {
	if len(raw) == 0 {
		return failure(FailEmptyResponse, errors.New("empty precompile response"), raw)
	}

	validated, err := wire.ValidateInbound(raw, a.registry)
	if err != nil {
		return failure(classify(err), err, raw)
	}

	switch op.Result {
	case ResultCiphertext:
		handle, err := wire.DecodeCiphertext(validated.Bytes(), validated.Descriptor())
		if err != nil {
			return failure(classify(err), err, raw)
		}
		if err := a.registry.AssertMatch(handle, want); err != nil {
			return failure(classify(err), err, raw)
		}
		return &Result{Handle: handle}

	case ResultParameters:
		params, err := wire.DecodeParameters(validated.Bytes(), validated.Descriptor())
		if err != nil {
			return failure(classify(err), err, raw)
		}
		if err := a.registry.AssertMatch(params, want); err != nil {
			return failure(classify(err), err, raw)
		}
		return &Result{Params: params}

	default:
		return failure(FailDecode, errors.New("operation declares no result kind"), raw)
	}
}

func classify(err error) FailureCode {
	switch {
	case errors.Is(err, fhebridge.ErrUnknownBinding):
		return FailUnknownBinding
	case errors.Is(err, fhebridge.ErrSchemeMismatch):
		return FailSchemeMismatch
	case errors.Is(err, fhebridge.ErrValidation):
		return FailValidation
	default:
		return FailDecode
	}
}

func failure(code FailureCode, err error, raw []byte) *Result {
	n := min(len(raw), diagnosticLimit)
	diag := make([]byte, n)
	copy(diag, raw[:n])
	return &Result{Code: code, Err: err, Diagnostic: diag}
}
