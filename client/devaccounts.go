// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package client

import "github.com/luxfi/geth/common"

// DevAccount is a pre-funded account on a deterministic local dev node.
// The private key is exported so test harnesses can sign with whatever
// tooling they use; nothing in this module signs transactions.
type DevAccount struct {
	Name string
	// Address funded by the dev node started with DevMnemonic.
	Address common.Address
	// PrivateKeyHex is the account's secp256k1 private key, hex encoded
	// without a 0x prefix.
	PrivateKeyHex string
}

// DevMnemonic seeds a local dev node (anvil and compatible tools) so the
// accounts below exist and are funded.
const DevMnemonic = "gas monster ski craft below illegal discover limit dog bundle bus artefact"

// Deterministic test users for local dev nodes seeded with DevMnemonic.
var (
	Alice = DevAccount{
		Name:          "alice",
		Address:       common.HexToAddress("0xb5f27c716e44ffe48fd6622983c651355ad8c75a"),
		PrivateKeyHex: "1c0eb5244c165957525ef389fc14fac4424feaaefabf87c7e4e15bcc7b425e15",
	}

	Bob = DevAccount{
		Name:          "bob",
		Address:       common.HexToAddress("0x00d88e763c5764e69dd667fa8073d48022a4afef"),
		PrivateKeyHex: "3b42a2df3c658b156b8240e1891723fab65ae0b97f9f5bba2abd5e240065baa1",
	}
)
