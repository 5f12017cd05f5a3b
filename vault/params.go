// Copyright (c) 2026 The StakeVault developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import "math/big"

// Constants of the staking protocol, fixed at ledger construction.
const (
	// MaxLockPeriod is the longest allowed stake lock, in seconds (1 year).
	MaxLockPeriod uint64 = 31_536_000
)

// Scale returns the 1e18 fixed-point factor used by the reward accumulator.
func Scale() *big.Int {
	return new(big.Int).Set(scale)
}

var scale = big.NewInt(1e18)
