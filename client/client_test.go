// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package client

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	ethereum "github.com/luxfi/geth"
	"github.com/luxfi/log"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/fhebridge/precompile"
)

type fakeCaller struct {
	calls    int
	failures int
	response []byte
	lastMsg  ethereum.CallMsg
}

func (f *fakeCaller) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	f.calls++
	f.lastMsg = msg
	if f.calls <= f.failures {
		return nil, errors.New("connection reset")
	}
	return f.response, nil
}

func testCall() *precompile.Call {
	return &precompile.Call{
		Address:  precompile.EvalAddress,
		Selector: precompile.SelectorAdd,
		Input:    []byte{1, 2, 3, 4},
		Gas:      precompile.EvalBinaryGas,
	}
}

func TestCallPassesThrough(t *testing.T) {
	eth := &fakeCaller{response: []byte{0xCA, 0xFE}}
	c := NewClient(eth, log.NewNoOpLogger())

	raw, err := c.Call(context.Background(), testCall())
	require.NoError(t, err)
	require.Equal(t, []byte{0xCA, 0xFE}, raw)
	require.Equal(t, 1, eth.calls)

	require.NotNil(t, eth.lastMsg.To)
	require.Equal(t, precompile.EvalAddress, *eth.lastMsg.To)
	require.Equal(t, []byte{1, 2, 3, 4}, eth.lastMsg.Data)
	require.Equal(t, uint64(precompile.EvalBinaryGas), eth.lastMsg.Gas)
}

func TestCallRetriesTransientFailures(t *testing.T) {
	eth := &fakeCaller{failures: 2, response: []byte{0x01}}
	c := NewClient(eth, log.NewNoOpLogger(), WithRetryTimeout(5*time.Second))

	raw, err := c.Call(context.Background(), testCall())
	require.NoError(t, err)
	require.Equal(t, []byte{0x01}, raw)
	require.Equal(t, 3, eth.calls)
}

func TestCallGivesUpAfterTimeout(t *testing.T) {
	eth := &fakeCaller{failures: 1 << 30}
	c := NewClient(eth, log.NewNoOpLogger(), WithRetryTimeout(50*time.Millisecond))

	_, err := c.Call(context.Background(), testCall())
	require.Error(t, err)
	require.GreaterOrEqual(t, eth.calls, 1)
}

func TestCallHonorsContextCancellation(t *testing.T) {
	eth := &fakeCaller{failures: 1 << 30}
	c := NewClient(eth, log.NewNoOpLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Call(ctx, testCall())
	require.Error(t, err)
}

func TestParasolTestnet(t *testing.T) {
	require.Equal(t, uint64(574), Parasol.ChainID)
	require.NotEmpty(t, Parasol.RPCURL)
	require.NotEmpty(t, Parasol.FaucetURL)
}
