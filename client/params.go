// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package client

import (
	"context"
	"time"

	"github.com/luxfi/fhebridge"
	"github.com/luxfi/fhebridge/cache"
	"github.com/luxfi/fhebridge/precompile"
)

// DefaultParametersTTL is how long fetched public parameters are served
// from cache before the chain is asked again.
const DefaultParametersTTL = 5 * time.Minute

type paramKey struct {
	scheme   fhebridge.SchemeID
	paramSet fhebridge.ParamSetID
}

// ParameterCache serves public parameters through a TTL cache. Unlike
// ciphertext frames, parameters track mutable chain state (the key
// registry can publish new material), so entries expire instead of
// living for the process lifetime.
type ParameterCache struct {
	client  *Client
	adapter *precompile.Adapter
	cache   *cache.TTL[paramKey, *fhebridge.PublicParameters]
}

// NewParameterCache wraps a client and adapter with a parameters cache
// whose entries expire after ttl.
func NewParameterCache(c *Client, adapter *precompile.Adapter, ttl time.Duration) *ParameterCache {
	return &ParameterCache{
		client:  c,
		adapter: adapter,
		cache:   cache.NewTTL[paramKey, *fhebridge.PublicParameters](ttl),
	}
}

// Parameters returns the public parameters for the expected binding,
// asking the chain when the cached entry is missing or stale. Set
// invalidate to force a refetch, e.g. after a response was rejected with
// a scheme mismatch.
func (p *ParameterCache) Parameters(ctx context.Context, want fhebridge.Descriptor, invalidate bool) (*fhebridge.PublicParameters, error) {
	return p.cache.Get(paramKey{want.Scheme, want.ParamSet}, func(paramKey) (*fhebridge.PublicParameters, error) {
		call, err := p.adapter.BuildCall(precompile.GetParameters, nil)
		if err != nil {
			return nil, err
		}
		raw, err := p.client.Call(ctx, call)
		if err != nil {
			return nil, err
		}
		result := p.adapter.ParseResult(precompile.GetParameters, raw, want)
		if !result.Ok() {
			return nil, result.Err
		}
		return result.Params, nil
	}, invalidate)
}
