// Copyright (c) 2026 The StakeVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"bytes"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/stakevault/stakevault/kv"
	"github.com/stakevault/stakevault/vault"
)

var (
	accountsBucket    = kv.Bucket("a")
	accumulatorBucket = kv.Bucket("r")

	keyTotalStake   = []byte("total-stake")
	keyRewardTokens = []byte("reward-tokens")
)

// storage persists the ledger on a kv store. All writes go through a
// kv.Batch held by the caller, so a failed operation leaves the store
// untouched.
type storage struct {
	store kv.GetPutter
}

func newStorage(store kv.GetPutter) *storage {
	return &storage{store: store}
}

type storedDebt struct {
	Token  vault.TokenID
	Amount *big.Int
}

type storedAccount struct {
	Principal *big.Int
	LockEnd   uint64
	Debts     []storedDebt
}

// GetAccount loads an account, returning a zeroed record if absent.
// This is the lazy-initialization point: first stake sees all fields zero.
func (s *storage) GetAccount(addr vault.Address) (*Account, error) {
	getter := accountsBucket.NewGetter(s.store)
	data, err := getter.Get(addr.Bytes())
	if err != nil {
		if getter.IsNotFound(err) {
			return newAccount(), nil
		}
		return nil, errors.Wrap(err, "get account")
	}

	var stored storedAccount
	if err := rlp.DecodeBytes(data, &stored); err != nil {
		return nil, errors.Wrap(err, "decode account")
	}
	acc := &Account{
		Principal: stored.Principal,
		LockEnd:   stored.LockEnd,
		Paid:      make(map[vault.TokenID]*big.Int, len(stored.Debts)),
	}
	if acc.Principal == nil {
		acc.Principal = new(big.Int)
	}
	for _, d := range stored.Debts {
		acc.Paid[d.Token] = d.Amount
	}
	return acc, nil
}

// SaveAccount stages an account write. Empty accounts are stored as a
// deletion, mirroring their lazily-initialized lifecycle.
func (s *storage) SaveAccount(putter kv.Putter, addr vault.Address, acc *Account) error {
	p := accountsBucket.NewPutter(putter)
	if acc.IsEmpty() {
		return p.Delete(addr.Bytes())
	}

	stored := storedAccount{
		Principal: acc.Principal,
		LockEnd:   acc.LockEnd,
		Debts:     make([]storedDebt, 0, len(acc.Paid)),
	}
	for t, amount := range acc.Paid {
		stored.Debts = append(stored.Debts, storedDebt{Token: t, Amount: amount})
	}
	// map order is random; keep the encoding deterministic
	sort.Slice(stored.Debts, func(i, j int) bool {
		return bytes.Compare(stored.Debts[i].Token.Bytes(), stored.Debts[j].Token.Bytes()) < 0
	})

	data, err := rlp.EncodeToBytes(&stored)
	if err != nil {
		return errors.Wrap(err, "encode account")
	}
	return p.Put(addr.Bytes(), data)
}

// IterateAccounts walks all persisted accounts in key order.
func (s *storage) IterateAccounts(callback func(vault.Address, *Account) error) error {
	iter := accountsBucket.NewGetter(s.store).NewIterator(kv.Range{})
	defer iter.Release()

	for iter.Next() {
		var stored storedAccount
		if err := rlp.DecodeBytes(iter.Value(), &stored); err != nil {
			return errors.Wrap(err, "decode account")
		}
		acc := &Account{
			Principal: stored.Principal,
			LockEnd:   stored.LockEnd,
			Paid:      make(map[vault.TokenID]*big.Int, len(stored.Debts)),
		}
		if acc.Principal == nil {
			acc.Principal = new(big.Int)
		}
		for _, d := range stored.Debts {
			acc.Paid[d.Token] = d.Amount
		}
		if err := callback(vault.BytesToAddress(iter.Key()), acc); err != nil {
			return err
		}
	}
	return iter.Error()
}

// GetAccPerToken loads a token's accumulated rewards-per-staked-unit value.
func (s *storage) GetAccPerToken(token vault.TokenID) (*big.Int, error) {
	return s.getBig(accumulatorBucket.NewGetter(s.store), token.Bytes())
}

// SaveAccPerToken stages an accumulator write.
func (s *storage) SaveAccPerToken(putter kv.Putter, token vault.TokenID, value *big.Int) error {
	return saveBig(accumulatorBucket.NewPutter(putter), token.Bytes(), value)
}

// GetTotalStake loads the ledger-wide staked principal.
func (s *storage) GetTotalStake() (*big.Int, error) {
	return s.getBig(s.store, keyTotalStake)
}

// SaveTotalStake stages the ledger-wide staked principal.
func (s *storage) SaveTotalStake(putter kv.Putter, value *big.Int) error {
	return saveBig(putter, keyTotalStake, value)
}

// GetRewardTokens loads the whitelist snapshot, in insertion order.
func (s *storage) GetRewardTokens() ([]vault.TokenID, error) {
	data, err := s.store.Get(keyRewardTokens)
	if err != nil {
		if s.store.IsNotFound(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "get reward tokens")
	}
	var tokens []vault.TokenID
	if err := rlp.DecodeBytes(data, &tokens); err != nil {
		return nil, errors.Wrap(err, "decode reward tokens")
	}
	return tokens, nil
}

// SaveRewardTokens stages the whitelist snapshot.
func (s *storage) SaveRewardTokens(putter kv.Putter, tokens []vault.TokenID) error {
	data, err := rlp.EncodeToBytes(tokens)
	if err != nil {
		return errors.Wrap(err, "encode reward tokens")
	}
	return putter.Put(keyRewardTokens, data)
}

func (s *storage) getBig(getter kv.Getter, key []byte) (*big.Int, error) {
	data, err := getter.Get(key)
	if err != nil {
		if getter.IsNotFound(err) {
			return new(big.Int), nil
		}
		return nil, errors.Wrap(err, "get value")
	}
	value := new(big.Int)
	if err := rlp.DecodeBytes(data, value); err != nil {
		return nil, errors.Wrap(err, "decode value")
	}
	return value, nil
}

func saveBig(putter kv.Putter, key []byte, value *big.Int) error {
	if value.Sign() == 0 {
		return putter.Delete(key)
	}
	data, err := rlp.EncodeToBytes(value)
	if err != nil {
		return errors.Wrap(err, "encode value")
	}
	return putter.Put(key, data)
}
