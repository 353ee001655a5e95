// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package client

import (
	"context"
	"testing"
	"time"

	"github.com/luxfi/log"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/fhebridge"
	"github.com/luxfi/fhebridge/precompile"
	"github.com/luxfi/fhebridge/wire"
)

var paramsDesc = fhebridge.Descriptor{
	Scheme:        fhebridge.SchemeTFHEBool,
	ParamSet:      fhebridge.ParamSetPN10QP27,
	Version:       fhebridge.CodecVersion,
	MinPayloadLen: fhebridge.KiB,
	MaxPayloadLen: 64 * fhebridge.KiB,
	TagLen:        fhebridge.IntegrityTagLen,
}

func testParameterCache(t *testing.T, eth *fakeCaller, ttl time.Duration) *ParameterCache {
	t.Helper()
	reg, err := fhebridge.NewRegistry(paramsDesc)
	require.NoError(t, err)
	c := NewClient(eth, log.NewNoOpLogger())
	return NewParameterCache(c, precompile.NewAdapter(reg), ttl)
}

func TestParameterCacheFetchesOnce(t *testing.T) {
	params, err := fhebridge.NewPublicParameters(paramsDesc, 10, []uint64{0x7fff801}, 7, nil)
	require.NoError(t, err)
	frame, err := wire.EncodeParameters(params, paramsDesc)
	require.NoError(t, err)

	eth := &fakeCaller{response: frame}
	pc := testParameterCache(t, eth, time.Hour)

	got, err := pc.Parameters(context.Background(), paramsDesc, false)
	require.NoError(t, err)
	require.True(t, params.Equal(got))
	require.Equal(t, 1, eth.calls)

	// Within the TTL the cached entry is served without a round-trip.
	got, err = pc.Parameters(context.Background(), paramsDesc, false)
	require.NoError(t, err)
	require.True(t, params.Equal(got))
	require.Equal(t, 1, eth.calls)

	// Invalidation forces the chain to be asked again.
	_, err = pc.Parameters(context.Background(), paramsDesc, true)
	require.NoError(t, err)
	require.Equal(t, 2, eth.calls)
}

func TestParameterCacheRejectedResponseNotCached(t *testing.T) {
	// A response under the wrong binding is rejected and must not
	// poison the cache.
	wrong := paramsDesc
	wrong.ParamSet = fhebridge.ParamSetPN9QP28STD128
	wrongReg, err := fhebridge.NewRegistry(paramsDesc, wrong)
	require.NoError(t, err)

	params, err := fhebridge.NewPublicParameters(wrong, 10, []uint64{0x7fff801}, 7, nil)
	require.NoError(t, err)
	frame, err := wire.EncodeParameters(params, wrong)
	require.NoError(t, err)

	eth := &fakeCaller{response: frame}
	pc := NewParameterCache(NewClient(eth, log.NewNoOpLogger()), precompile.NewAdapter(wrongReg), time.Hour)

	_, err = pc.Parameters(context.Background(), paramsDesc, false)
	require.ErrorIs(t, err, fhebridge.ErrSchemeMismatch)

	// The failed fetch left no entry behind; a corrected response on
	// the next call is fetched and served.
	good, err := wire.EncodeParameters(mustParams(t, paramsDesc), paramsDesc)
	require.NoError(t, err)
	eth.response = good
	eth.calls = 0

	got, err := pc.Parameters(context.Background(), paramsDesc, false)
	require.NoError(t, err)
	scheme, paramSet := got.Binding()
	require.Equal(t, paramsDesc.Scheme, scheme)
	require.Equal(t, paramsDesc.ParamSet, paramSet)
	require.Equal(t, 1, eth.calls)
}

func mustParams(t *testing.T, desc fhebridge.Descriptor) *fhebridge.PublicParameters {
	t.Helper()
	params, err := fhebridge.NewPublicParameters(desc, 10, []uint64{0x7fff801}, 7, nil)
	require.NoError(t, err)
	return params
}
