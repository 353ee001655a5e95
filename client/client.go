// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package client is the chain-call collaborator: it hands composed
// precompile calls to an RPC endpoint and returns the raw response bytes
// for the adapter to parse. Retry policy lives here, not in the
// transport layer, which is a pure byte transformation.
package client

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/cenkalti/backoff/v4"
	ethereum "github.com/luxfi/geth"
	"github.com/luxfi/geth/ethclient"
	"github.com/luxfi/log"

	"github.com/luxfi/fhebridge/precompile"
)

// Caller abstracts the eth_call transport so tests can substitute a
// local implementation.
type Caller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// Client submits precompile calls over an RPC connection.
type Client struct {
	eth     Caller
	log     log.Logger
	timeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithRetryTimeout caps how long transient RPC failures are retried.
func WithRetryTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.timeout = timeout }
}

const defaultRetryTimeout = 30 * time.Second

// Dial connects to an RPC endpoint.
func Dial(ctx context.Context, logger log.Logger, rpcURL string, opts ...Option) (*Client, error) {
	eth, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", rpcURL, err)
	}
	return NewClient(eth, logger, opts...), nil
}

// NewClient wraps an existing transport.
func NewClient(eth Caller, logger log.Logger, opts ...Option) *Client {
	c := &Client{
		eth:     eth,
		log:     logger,
		timeout: defaultRetryTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Call submits a composed precompile call and returns the raw response
// bytes. Transient RPC failures are retried with exponential backoff
// until the retry timeout; the call payload itself is never altered
// between attempts.
func (c *Client) Call(ctx context.Context, call *precompile.Call) ([]byte, error) {
	msg := ethereum.CallMsg{
		To:   &call.Address,
		Gas:  call.Gas,
		Data: call.Input,
	}

	var raw []byte
	operation := func() error {
		var err error
		raw, err = c.eth.CallContract(ctx, msg, nil)
		return err
	}
	notify := func(err error, wait time.Duration) {
		c.log.Warn("precompile call failed, retrying",
			log.Stringer("address", call.Address),
			log.Duration("wait", wait),
			log.Err(err),
		)
	}

	expBackoff := backoff.NewExponentialBackOff(
		backoff.WithMaxElapsedTime(c.timeout),
	)
	if err := backoff.RetryNotify(operation, backoff.WithContext(expBackoff, ctx), notify); err != nil {
		return nil, fmt.Errorf("precompile call to %s failed: %w", call.Address, err)
	}
	return raw, nil
}
