// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package config holds the bridge configuration shared by the CLI and
// long-running deployments.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	defaultLogLevel       = "info"
	defaultFrameCacheSize = 256
	defaultRetryTimeout   = 30 * time.Second
)

// Config is the bridge configuration. Exactly one of RedisAddr or
// StoreDir selects the frame store backend; both empty means in-memory.
type Config struct {
	LogLevel       string        `mapstructure:"log-level"`
	RPCURL         string        `mapstructure:"rpc-url"`
	ChainID        uint64        `mapstructure:"chain-id"`
	RedisAddr      string        `mapstructure:"redis-addr"`
	StoreDir       string        `mapstructure:"store-dir"`
	FrameCacheSize int           `mapstructure:"frame-cache-size"`
	RetryTimeout   time.Duration `mapstructure:"retry-timeout"`
}

// NewConfig builds and validates a Config from a viper instance.
func NewConfig(v *viper.Viper) (Config, error) {
	cfg, err := buildConfig(v)
	if err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("failed to validate configuration: %w", err)
	}
	return cfg, nil
}

// BuildViper builds the viper instance. All keys may come from flags,
// an optional config file, or environment variables; flags take
// precedence over the file.
func BuildViper(fs *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvPrefix("FHEBRIDGE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	if err := v.BindPFlags(fs); err != nil {
		return nil, err
	}

	if v.IsSet(ConfigFileKey) {
		v.SetConfigFile(v.GetString(ConfigFileKey))
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}
	return v, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(LogLevelKey, defaultLogLevel)
	v.SetDefault(FrameCacheSizeKey, defaultFrameCacheSize)
	v.SetDefault(RetryTimeoutKey, defaultRetryTimeout)
}

func buildConfig(v *viper.Viper) (Config, error) {
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal viper config: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	if c.RPCURL != "" {
		if _, err := url.ParseRequestURI(c.RPCURL); err != nil {
			return fmt.Errorf("invalid rpc-url: %w", err)
		}
	}
	if c.RedisAddr != "" && c.StoreDir != "" {
		return fmt.Errorf("redis-addr and store-dir are mutually exclusive")
	}
	if c.FrameCacheSize <= 0 {
		return fmt.Errorf("frame-cache-size must be positive, got %d", c.FrameCacheSize)
	}
	if c.RetryTimeout <= 0 {
		return fmt.Errorf("retry-timeout must be positive, got %s", c.RetryTimeout)
	}
	return nil
}
