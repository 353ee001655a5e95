// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

const (
	// Command line option keys
	ConfigFileKey = "config-file"
	VersionKey    = "version"
	HelpKey       = "help"

	// Top-level configuration keys
	LogLevelKey       = "log-level"
	RPCURLKey         = "rpc-url"
	ChainIDKey        = "chain-id"
	RedisAddrKey      = "redis-addr"
	StoreDirKey       = "store-dir"
	FrameCacheSizeKey = "frame-cache-size"
	RetryTimeoutKey   = "retry-timeout"
)
