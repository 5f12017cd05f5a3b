// Copyright (c) 2026 The StakeVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/stakevault/stakevault/vault"
)

// Event is emitted at every ledger state transition. Listeners run
// synchronously while the ledger lock is held, so the delivery order is the
// operation order; where one call settles multiple tokens, claim events
// follow registry enumeration order.
type Event any

// Staked principal was added to an account.
type Staked struct {
	Addr   vault.Address
	Amount *big.Int
}

// Unstaked principal was withdrawn from an account.
type Unstaked struct {
	Addr   vault.Address
	Amount *big.Int
}

// RewardClaimed a pending reward was settled to an account.
type RewardClaimed struct {
	Addr   vault.Address
	Token  vault.TokenID
	Amount *big.Int
}

// RewardDistributed the global accumulator absorbed a reward injection.
type RewardDistributed struct {
	Token  vault.TokenID
	Amount *big.Int
}

// TokenWhitelisted a reward token joined the registry.
type TokenWhitelisted struct {
	Token vault.TokenID
}

// TokenRemoved a reward token left the registry.
type TokenRemoved struct {
	Token vault.TokenID
}

// Subscribe registers a listener for ledger events. Listeners must be fast:
// they run inside the ledger's critical section.
func (s *Staking) Subscribe(fn func(Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Staking) emit(ev Event) {
	for _, fn := range s.listeners {
		fn(ev)
	}
}
