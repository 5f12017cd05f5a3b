// Copyright (c) 2026 The StakeVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/stakevault/stakevault/vault"
)

// Account is the per-participant stake record. Accounts are created lazily
// on first stake and never deleted; a zero-principal account simply has
// nothing pending.
type Account struct {
	// Principal is the staked amount of the base asset.
	Principal *big.Int

	// LockEnd is the unix second the lock expires, or zero when unlocked.
	LockEnd uint64

	// Paid is the per-reward-token settlement watermark ("reward debt").
	// Directly after a settlement point,
	// Paid[t] == Principal * accPerToken[t] / SCALE for every whitelisted t.
	Paid map[vault.TokenID]*big.Int
}

func newAccount() *Account {
	return &Account{
		Principal: new(big.Int),
		Paid:      make(map[vault.TokenID]*big.Int),
	}
}

// IsEmpty returns true if the account has never staked and owes nothing.
func (a *Account) IsEmpty() bool {
	return a.Principal.Sign() == 0 && a.LockEnd == 0 && len(a.Paid) == 0
}

// PaidFor returns the settlement watermark of the given token.
func (a *Account) PaidFor(token vault.TokenID) *big.Int {
	if p, ok := a.Paid[token]; ok {
		return new(big.Int).Set(p)
	}
	return new(big.Int)
}

// PendingReward computes the unclaimed amount of a token given the current
// global accumulator value. The result is never negative: watermarks are
// only ever written at points where the accumulator was <= its current
// value with the principal unchanged since.
func (a *Account) PendingReward(token vault.TokenID, accPerToken *big.Int) *big.Int {
	entitled := new(big.Int).Mul(a.Principal, accPerToken)
	entitled.Div(entitled, vault.Scale())
	return entitled.Sub(entitled, a.PaidFor(token))
}

// rebaseline resets the watermarks so future PendingReward calls start from
// the current accumulator values. Must run after every principal change.
func (a *Account) rebaseline(tokens []vault.TokenID, accPerToken func(vault.TokenID) *big.Int) {
	for _, t := range tokens {
		paid := new(big.Int).Mul(a.Principal, accPerToken(t))
		paid.Div(paid, vault.Scale())
		a.Paid[t] = paid
	}
}

// Copy returns a deep copy of the account.
func (a *Account) Copy() *Account {
	dup := &Account{
		Principal: new(big.Int).Set(a.Principal),
		LockEnd:   a.LockEnd,
		Paid:      make(map[vault.TokenID]*big.Int, len(a.Paid)),
	}
	for t, p := range a.Paid {
		dup.Paid[t] = new(big.Int).Set(p)
	}
	return dup
}
