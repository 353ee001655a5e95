// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package client

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestParseEtherValue(t *testing.T) {
	ether := func(n uint64) *uint256.Int {
		v := uint256.NewInt(n)
		v.Mul(v, uint256.MustFromDecimal("1000000000000000000"))
		return v
	}

	tests := []struct {
		value   string
		want    *uint256.Int
		wantErr bool
	}{
		{value: "0", want: uint256.NewInt(0)},
		{value: "12345", want: uint256.NewInt(12345)},
		{value: "100wei", want: uint256.NewInt(100)},
		{value: "5gwei", want: uint256.NewInt(5_000_000_000)},
		{value: "1ether", want: ether(1)},
		{value: "2 ether", want: ether(2)},
		{value: "1.5ether", want: uint256.MustFromDecimal("1500000000000000000")},
		{value: "0.000000001ether", want: uint256.NewInt(1_000_000_000)},
		{value: "1.5gwei", want: uint256.NewInt(1_500_000_000)},
		{value: "1.500ether", want: uint256.MustFromDecimal("1500000000000000000")},
		{value: "0xff", want: uint256.NewInt(255)},
		{value: "0xDEAD", want: uint256.NewInt(0xDEAD)},
		{value: "  10 wei  ", want: uint256.NewInt(10)},
		{value: "1ETHER", want: ether(1)},

		{value: "", wantErr: true},
		{value: "ether", wantErr: true},
		{value: "0.5wei", wantErr: true},
		{value: "1.0000000000000000001ether", wantErr: true},
		{value: "abc", wantErr: true},
		{value: "0xzz", wantErr: true},
		{value: "-1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := ParseEtherValue(tt.value)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestParseEtherValueOverflow(t *testing.T) {
	// 2^256 is about 1.16e77, so 1e60 ether (1e78 wei) cannot fit.
	_, err := ParseEtherValue("1000000000000000000000000000000000000000000000000000000000000ether")
	require.Error(t, err)
}
