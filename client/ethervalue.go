// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package client

import (
	"fmt"
	"strings"

	"github.com/holiman/uint256"
)

// Unit scales accepted by ParseEtherValue, longest suffix first so
// "gwei" is never mistaken for "wei".
var unitScales = []struct {
	suffix string
	scale  int
}{
	{"ether", 18},
	{"gwei", 9},
	{"wei", 0},
}

// ParseEtherValue parses an amount of native currency from a string. The
// amount may carry a unit suffix ("1ether", "5gwei", "100wei") or a 0x
// hex prefix; an untagged decimal amount is interpreted as wei.
// Fractional amounts are allowed down to the unit's resolution, so
// "1.5ether" parses and "0.5wei" does not.
func ParseEtherValue(value string) (*uint256.Int, error) {
	s := strings.TrimSpace(strings.ToLower(value))
	if s == "" {
		return nil, fmt.Errorf("empty value")
	}

	if strings.HasPrefix(s, "0x") {
		v, err := uint256.FromHex(s)
		if err != nil {
			return nil, fmt.Errorf("invalid hex value %q: %w", value, err)
		}
		return v, nil
	}

	scale := 0
	for _, unit := range unitScales {
		if strings.HasSuffix(s, unit.suffix) {
			s = strings.TrimSpace(strings.TrimSuffix(s, unit.suffix))
			scale = unit.scale
			break
		}
	}
	if s == "" {
		return nil, fmt.Errorf("missing amount in %q", value)
	}

	whole, frac, hasFrac := strings.Cut(s, ".")
	if hasFrac {
		frac = strings.TrimRight(frac, "0")
		if len(frac) > scale {
			return nil, fmt.Errorf("%q has more precision than 1e-%d", value, scale)
		}
		// Shift the fraction into the integer: 1.5ether -> 15 * 10^17.
		scale -= len(frac)
		whole += frac
	}
	if whole == "" {
		whole = "0"
	}

	v, err := uint256.FromDecimal(whole)
	if err != nil {
		return nil, fmt.Errorf("invalid decimal value %q: %w", value, err)
	}

	ten := uint256.NewInt(10)
	for i := 0; i < scale; i++ {
		if _, overflow := v.MulOverflow(v, ten); overflow {
			return nil, fmt.Errorf("value %q overflows 256 bits", value)
		}
	}
	return v, nil
}
