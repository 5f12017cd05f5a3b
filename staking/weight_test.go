// Copyright (c) 2026 The StakeVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stakevault/stakevault/vault"
)

func TestCalculateWeight(t *testing.T) {
	const maxLock = vault.MaxLockPeriod
	now := uint64(1_700_000_000)
	principal := inUnits(100)

	tests := []struct {
		name     string
		lockEnd  uint64
		expected *big.Int
	}{
		{"unlocked", 0, inUnits(100)},
		{"expired lock", now - 1, inUnits(100)},
		{"lock ends now", now, inUnits(100)},
		{"full lock", now + maxLock, inUnits(200)},
		{"half lock", now + maxLock/2, inUnits(150)},
		{"quarter lock", now + maxLock/4, inUnits(125)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateWeight(principal, tt.lockEnd, now, maxLock)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCalculateWeightFloors(t *testing.T) {
	now := uint64(1000)

	// 7 * 1/3 floors to 2, weight 7 + 2
	got := CalculateWeight(big.NewInt(7), now+1, now, 3)
	assert.Equal(t, big.NewInt(9), got)

	// zero principal always weighs zero
	got = CalculateWeight(new(big.Int), now+vault.MaxLockPeriod, now, vault.MaxLockPeriod)
	assert.Equal(t, 0, got.Sign())
}

func TestCalculateWeightBounds(t *testing.T) {
	const maxLock = vault.MaxLockPeriod
	now := uint64(1_700_000_000)
	principal := inUnits(13)

	for _, remaining := range []uint64{0, 1, maxLock / 3, maxLock - 1, maxLock} {
		w := CalculateWeight(principal, now+remaining, now, maxLock)
		assert.True(t, w.Cmp(principal) >= 0, "weight below principal at %d", remaining)
		assert.True(t, w.Cmp(new(big.Int).Lsh(principal, 1)) <= 0, "weight above 2x principal at %d", remaining)
	}
}
