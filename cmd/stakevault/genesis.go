// Copyright (c) 2026 The StakeVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"math/big"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/stakevault/stakevault/staking"
	"github.com/stakevault/stakevault/tokenledger"
	"github.com/stakevault/stakevault/vault"
)

// genesisConfig seeds a fresh deployment: the staked asset, pre-whitelisted
// reward tokens and dev balances minted into the in-memory token ledger.
type genesisConfig struct {
	BaseToken     vault.TokenID   `yaml:"baseToken"`
	MaxLockPeriod uint64          `yaml:"maxLockPeriod"`
	RewardTokens  []vault.TokenID `yaml:"rewardTokens"`
	Balances      []struct {
		Address vault.Address `yaml:"address"`
		Token   vault.TokenID `yaml:"token"`
		Amount  string        `yaml:"amount"`
	} `yaml:"balances"`
}

func loadGenesis(path string) (*genesisConfig, error) {
	var gene genesisConfig
	if path == "" {
		return &gene, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithMessage(err, "read genesis file")
	}
	if err := yaml.Unmarshal(data, &gene); err != nil {
		return nil, errors.WithMessage(err, "parse genesis file")
	}
	return &gene, nil
}

// apply seeds the ledger from the config. Already-whitelisted tokens are
// skipped so restarting against a persisted database stays idempotent.
func (g *genesisConfig) apply(core *staking.Staking, ledger *tokenledger.MemLedger) error {
	known := make(map[vault.TokenID]bool)
	for _, t := range core.RewardTokens() {
		known[t] = true
	}
	for _, t := range g.RewardTokens {
		if known[t] {
			continue
		}
		if err := core.WhitelistReward(t); err != nil {
			return errors.WithMessage(err, "whitelist genesis token")
		}
	}

	for _, b := range g.Balances {
		amount, ok := new(big.Int).SetString(b.Amount, 10)
		if !ok || amount.Sign() < 0 {
			return errors.Errorf("genesis balance: invalid amount %q", b.Amount)
		}
		ledger.Mint(b.Token, b.Address, amount)
	}
	return nil
}
