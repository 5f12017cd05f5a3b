// Copyright (c) 2026 The StakeVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakevault/stakevault/staking/reverts"
	"github.com/stakevault/stakevault/vault"
)

func tok(s string) vault.TokenID {
	return vault.BytesToTokenID([]byte(s))
}

func TestRegistryAdd(t *testing.T) {
	r := newRegistry(nil)
	assert.Equal(t, 0, r.size())

	require.NoError(t, r.add(tok("t1")))
	require.NoError(t, r.add(tok("t2")))
	require.NoError(t, r.add(tok("t3")))

	assert.Equal(t, 3, r.size())
	assert.True(t, r.contains(tok("t2")))
	assert.False(t, r.contains(tok("t4")))
	assert.Equal(t, []vault.TokenID{tok("t1"), tok("t2"), tok("t3")}, r.tokens())

	err := r.add(tok("t2"))
	assert.ErrorIs(t, err, reverts.ErrAlreadyWhitelisted)
	assert.Equal(t, 3, r.size())
}

func TestRegistryRemove(t *testing.T) {
	r := newRegistry([]vault.TokenID{tok("t1"), tok("t2"), tok("t3"), tok("t4")})

	// middle removal swaps the last element in
	require.NoError(t, r.remove(tok("t2")))
	assert.Equal(t, []vault.TokenID{tok("t1"), tok("t4"), tok("t3")}, r.tokens())
	assert.False(t, r.contains(tok("t2")))

	// tail removal just truncates
	require.NoError(t, r.remove(tok("t3")))
	assert.Equal(t, []vault.TokenID{tok("t1"), tok("t4")}, r.tokens())

	err := r.remove(tok("t2"))
	assert.ErrorIs(t, err, reverts.ErrNotFound)

	require.NoError(t, r.remove(tok("t1")))
	require.NoError(t, r.remove(tok("t4")))
	assert.Equal(t, 0, r.size())
}

func TestRegistryRemoveThenAdd(t *testing.T) {
	r := newRegistry([]vault.TokenID{tok("t1"), tok("t2")})

	require.NoError(t, r.remove(tok("t1")))
	require.NoError(t, r.add(tok("t1"))) // re-adding a removed token is fine

	assert.Equal(t, []vault.TokenID{tok("t2"), tok("t1")}, r.tokens())

	// the swapped-in element keeps a consistent index
	require.NoError(t, r.remove(tok("t2")))
	assert.True(t, r.contains(tok("t1")))
	assert.Equal(t, []vault.TokenID{tok("t1")}, r.tokens())
}

func TestRegistryIter(t *testing.T) {
	r := newRegistry([]vault.TokenID{tok("t1"), tok("t2"), tok("t3")})

	var seen []vault.TokenID
	require.NoError(t, r.iter(func(token vault.TokenID) error {
		seen = append(seen, token)
		return nil
	}))
	assert.Equal(t, r.tokens(), seen)

	// a callback error stops the walk
	count := 0
	err := r.iter(func(vault.TokenID) error {
		count++
		if count == 2 {
			return reverts.ErrNotFound
		}
		return nil
	})
	assert.ErrorIs(t, err, reverts.ErrNotFound)
	assert.Equal(t, 2, count)
}
