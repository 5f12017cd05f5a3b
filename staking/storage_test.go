// Copyright (c) 2026 The StakeVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakevault/stakevault/kv"
	"github.com/stakevault/stakevault/lvldb"
	"github.com/stakevault/stakevault/vault"
)

func newTestStorage(t *testing.T) (*storage, kv.GetPutter) {
	store, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return newStorage(store), store
}

func commit(t *testing.T, store kv.GetPutter, stage func(kv.Putter) error) {
	batch := store.NewBatch()
	require.NoError(t, stage(batch))
	require.NoError(t, batch.Write())
}

func TestStorageAccountRoundTrip(t *testing.T) {
	stg, store := newTestStorage(t)

	// absent account reads as zeroed
	acc, err := stg.GetAccount(alice)
	require.NoError(t, err)
	assert.True(t, acc.IsEmpty())

	acc.Principal = inUnits(42)
	acc.LockEnd = 12345
	acc.Paid[tokenA] = inUnits(7)
	acc.Paid[tokenB] = new(big.Int)

	commit(t, store, func(p kv.Putter) error { return stg.SaveAccount(p, alice, acc) })

	loaded, err := stg.GetAccount(alice)
	require.NoError(t, err)
	assert.Equal(t, inUnits(42), loaded.Principal)
	assert.Equal(t, uint64(12345), loaded.LockEnd)
	assert.Equal(t, inUnits(7), loaded.Paid[tokenA])
	assert.Equal(t, 0, loaded.Paid[tokenB].Sign())
}

func TestStorageEmptyAccountDeletes(t *testing.T) {
	stg, store := newTestStorage(t)

	acc := newAccount()
	acc.Principal = inUnits(5)
	commit(t, store, func(p kv.Putter) error { return stg.SaveAccount(p, alice, acc) })

	// saving an emptied account removes the key entirely
	acc.Principal = new(big.Int)
	acc.Paid = map[vault.TokenID]*big.Int{}
	commit(t, store, func(p kv.Putter) error { return stg.SaveAccount(p, alice, acc) })

	var count int
	require.NoError(t, stg.IterateAccounts(func(vault.Address, *Account) error {
		count++
		return nil
	}))
	assert.Equal(t, 0, count)
}

func TestStorageIterateAccounts(t *testing.T) {
	stg, store := newTestStorage(t)

	for i, addr := range []vault.Address{alice, bob, carol} {
		acc := newAccount()
		acc.Principal = inUnits(int64(i + 1))
		commit(t, store, func(p kv.Putter) error { return stg.SaveAccount(p, addr, acc) })
	}

	sum := new(big.Int)
	seen := map[vault.Address]bool{}
	require.NoError(t, stg.IterateAccounts(func(addr vault.Address, acc *Account) error {
		seen[addr] = true
		sum.Add(sum, acc.Principal)
		return nil
	}))
	assert.Len(t, seen, 3)
	assert.Equal(t, inUnits(6), sum)
}

func TestStorageAccumulator(t *testing.T) {
	stg, store := newTestStorage(t)

	v, err := stg.GetAccPerToken(tokenA)
	require.NoError(t, err)
	assert.Equal(t, 0, v.Sign())

	commit(t, store, func(p kv.Putter) error { return stg.SaveAccPerToken(p, tokenA, inUnits(3)) })

	v, err = stg.GetAccPerToken(tokenA)
	require.NoError(t, err)
	assert.Equal(t, inUnits(3), v)

	// other tokens are unaffected
	v, err = stg.GetAccPerToken(tokenB)
	require.NoError(t, err)
	assert.Equal(t, 0, v.Sign())

	// zero value stores as deletion
	commit(t, store, func(p kv.Putter) error { return stg.SaveAccPerToken(p, tokenA, new(big.Int)) })
	v, err = stg.GetAccPerToken(tokenA)
	require.NoError(t, err)
	assert.Equal(t, 0, v.Sign())
}

func TestStorageTotalStake(t *testing.T) {
	stg, store := newTestStorage(t)

	v, err := stg.GetTotalStake()
	require.NoError(t, err)
	assert.Equal(t, 0, v.Sign())

	commit(t, store, func(p kv.Putter) error { return stg.SaveTotalStake(p, inUnits(1000)) })

	v, err = stg.GetTotalStake()
	require.NoError(t, err)
	assert.Equal(t, inUnits(1000), v)
}

func TestStorageRewardTokens(t *testing.T) {
	stg, store := newTestStorage(t)

	tokens, err := stg.GetRewardTokens()
	require.NoError(t, err)
	assert.Empty(t, tokens)

	want := []vault.TokenID{tokenA, tokenB}
	commit(t, store, func(p kv.Putter) error { return stg.SaveRewardTokens(p, want) })

	tokens, err = stg.GetRewardTokens()
	require.NoError(t, err)
	assert.Equal(t, want, tokens)
}
