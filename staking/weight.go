// Copyright (c) 2026 The StakeVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"
)

// CalculateWeight translates a stake and its lock-end timestamp into a
// governance weight:
//
//	weight = principal + principal * (max(now, lockEnd) - now) / maxLockPeriod
//
// An unlocked stake weighs exactly its principal; a stake locked for the
// full maxLockPeriod from now weighs up to twice its principal. Total for
// any input: never less than principal, floor division throughout.
func CalculateWeight(principal *big.Int, lockEnd, now, maxLockPeriod uint64) *big.Int {
	compare := lockEnd
	if now > compare {
		compare = now
	}

	bonus := new(big.Int).SetUint64(compare - now)
	bonus.Mul(bonus, principal)
	bonus.Div(bonus, new(big.Int).SetUint64(maxLockPeriod))
	return bonus.Add(bonus, principal)
}
