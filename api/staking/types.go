// Copyright (c) 2026 The StakeVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/stakevault/stakevault/staking"
	"github.com/stakevault/stakevault/vault"
)

// Amounts cross the wire as decimal strings: base-asset and reward values
// routinely exceed the float64-safe integer range of JSON numbers.

// AccountDetail is the response shape of GET /staking/accounts/{address}.
type AccountDetail struct {
	Address   vault.Address   `json:"address"`
	Principal string          `json:"principal"`
	LockEnd   uint64          `json:"lockEnd"`
	Weight    string          `json:"weight"`
	Pending   []PendingReward `json:"pending"`
}

// PendingReward is one unclaimed token amount of an account.
type PendingReward struct {
	Token  vault.TokenID `json:"token"`
	Amount string        `json:"amount"`
}

// StakeRequest is the body of POST /staking/accounts/{address}/stake.
type StakeRequest struct {
	Amount   string `json:"amount"`
	Duration uint64 `json:"duration"`
}

// UnstakeRequest is the body of POST /staking/accounts/{address}/unstake.
type UnstakeRequest struct {
	Amount string `json:"amount"`
}

// ClaimResult reports the amounts a claim paid out.
type ClaimResult struct {
	Claimed []PendingReward `json:"claimed"`
}

// TotalDetail is the response shape of GET /staking/total.
type TotalDetail struct {
	TotalStake   string             `json:"totalStake"`
	Accumulators []AccumulatorValue `json:"accumulators"`
}

// AccumulatorValue is a token's rewards-per-staked-unit value, 1e18 scaled.
type AccumulatorValue struct {
	Token vault.TokenID `json:"token"`
	Value string        `json:"value"`
}

// WhitelistRequest is the body of POST /staking/rewards/tokens.
type WhitelistRequest struct {
	Token vault.TokenID `json:"token"`
}

// DistributeRequest is the body of POST /staking/rewards/distribute.
type DistributeRequest struct {
	From   vault.Address `json:"from"`
	Token  vault.TokenID `json:"token"`
	Amount string        `json:"amount"`
}

func parseAmount(s string) (*big.Int, error) {
	if s == "" {
		return nil, errors.New("amount: missing")
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, errors.Errorf("amount: invalid decimal string %q", s)
	}
	if v.Sign() < 0 {
		return nil, errors.New("amount: must be non-negative")
	}
	return v, nil
}

func convertPending(pending []staking.PendingReward) []PendingReward {
	out := make([]PendingReward, 0, len(pending))
	for _, p := range pending {
		out = append(out, PendingReward{Token: p.Token, Amount: p.Amount.String()})
	}
	return out
}

func convertAccount(addr vault.Address, acc *staking.Account, weight *big.Int, pending []staking.PendingReward) *AccountDetail {
	return &AccountDetail{
		Address:   addr,
		Principal: acc.Principal.String(),
		LockEnd:   acc.LockEnd,
		Weight:    weight.String(),
		Pending:   convertPending(pending),
	}
}
