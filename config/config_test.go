// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func testFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String(ConfigFileKey, "", "")
	fs.String(LogLevelKey, "", "")
	fs.String(RPCURLKey, "", "")
	fs.Uint64(ChainIDKey, 0, "")
	fs.String(RedisAddrKey, "", "")
	fs.String(StoreDirKey, "", "")
	fs.Int(FrameCacheSizeKey, 0, "")
	fs.Duration(RetryTimeoutKey, 0, "")
	return fs
}

func TestNewConfigDefaults(t *testing.T) {
	fs := testFlagSet()
	require.NoError(t, fs.Parse(nil))
	v, err := BuildViper(fs)
	require.NoError(t, err)

	cfg, err := NewConfig(v)
	require.NoError(t, err)
	require.Equal(t, defaultLogLevel, cfg.LogLevel)
	require.Equal(t, defaultFrameCacheSize, cfg.FrameCacheSize)
	require.Equal(t, defaultRetryTimeout, cfg.RetryTimeout)
	require.Empty(t, cfg.RedisAddr)
	require.Empty(t, cfg.StoreDir)
}

func TestNewConfigFromFlags(t *testing.T) {
	fs := testFlagSet()
	require.NoError(t, fs.Parse([]string{
		"--rpc-url", "https://rpc.sunscreen.tech/parasol",
		"--chain-id", "574",
		"--store-dir", t.TempDir(),
		"--retry-timeout", "10s",
	}))
	v, err := BuildViper(fs)
	require.NoError(t, err)

	cfg, err := NewConfig(v)
	require.NoError(t, err)
	require.Equal(t, "https://rpc.sunscreen.tech/parasol", cfg.RPCURL)
	require.Equal(t, uint64(574), cfg.ChainID)
	require.Equal(t, 10*time.Second, cfg.RetryTimeout)
}

func TestNewConfigFromFile(t *testing.T) {
	raw, err := json.Marshal(map[string]any{
		RPCURLKey:         "http://localhost:8545",
		LogLevelKey:       "debug",
		FrameCacheSizeKey: 32,
	})
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	fs := testFlagSet()
	require.NoError(t, fs.Parse([]string{"--config-file", path}))
	v, err := BuildViper(fs)
	require.NoError(t, err)

	cfg, err := NewConfig(v)
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8545", cfg.RPCURL)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, 32, cfg.FrameCacheSize)
}

func TestFlagsOverrideFile(t *testing.T) {
	raw, err := json.Marshal(map[string]any{
		RPCURLKey: "http://localhost:8545",
	})
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	fs := testFlagSet()
	require.NoError(t, fs.Parse([]string{
		"--config-file", path,
		"--rpc-url", "http://other:8545",
	}))
	v, err := BuildViper(fs)
	require.NoError(t, err)

	cfg, err := NewConfig(v)
	require.NoError(t, err)
	require.Equal(t, "http://other:8545", cfg.RPCURL)
}

func TestValidate(t *testing.T) {
	valid := Config{
		LogLevel:       "info",
		RPCURL:         "http://localhost:8545",
		FrameCacheSize: 16,
		RetryTimeout:   time.Second,
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{
			name:   "malformed rpc url",
			mutate: func(c *Config) { c.RPCURL = "not a url" },
		},
		{
			name: "redis and file store together",
			mutate: func(c *Config) {
				c.RedisAddr = "localhost:6379"
				c.StoreDir = "/tmp/frames"
			},
		},
		{
			name:   "zero cache size",
			mutate: func(c *Config) { c.FrameCacheSize = 0 },
		},
		{
			name:   "negative retry timeout",
			mutate: func(c *Config) { c.RetryTimeout = -time.Second },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}
