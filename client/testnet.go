// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package client

import (
	"context"

	"github.com/luxfi/log"
)

// Testnet describes a network hosting the FHE precompiles.
type Testnet struct {
	Name      string
	RPCURL    string
	ChainID   uint64
	FaucetURL string
}

// Parasol is the public FHE-enabled testnet.
var Parasol = Testnet{
	Name:      "parasol",
	RPCURL:    "https://rpc.sunscreen.tech/parasol",
	ChainID:   574,
	FaucetURL: "https://faucet.sunscreen.tech/",
}

// Dial connects a Client to the testnet's RPC endpoint.
func (t Testnet) Dial(ctx context.Context, logger log.Logger, opts ...Option) (*Client, error) {
	return Dial(ctx, logger, t.RPCURL, opts...)
}
