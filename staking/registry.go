// Copyright (c) 2026 The StakeVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/stakevault/stakevault/staking/reverts"
	"github.com/stakevault/stakevault/vault"
)

// registry is the insertion-ordered set of whitelisted reward tokens.
// An arena slice keeps enumeration order; the index map gives O(1)
// membership tests and O(1) removal via swap-with-last.
type registry struct {
	arena []vault.TokenID
	index map[vault.TokenID]int
}

func newRegistry(tokens []vault.TokenID) *registry {
	r := &registry{
		arena: append([]vault.TokenID(nil), tokens...),
		index: make(map[vault.TokenID]int, len(tokens)),
	}
	for i, t := range r.arena {
		r.index[t] = i
	}
	return r
}

func (r *registry) add(token vault.TokenID) error {
	if _, ok := r.index[token]; ok {
		return reverts.ErrAlreadyWhitelisted
	}
	r.index[token] = len(r.arena)
	r.arena = append(r.arena, token)
	return nil
}

// remove swaps the last element into the removed slot and truncates.
// Insertion order is not preserved past the removed slot.
func (r *registry) remove(token vault.TokenID) error {
	i, ok := r.index[token]
	if !ok {
		return reverts.ErrNotFound
	}
	last := len(r.arena) - 1
	if i != last {
		moved := r.arena[last]
		r.arena[i] = moved
		r.index[moved] = i
	}
	r.arena = r.arena[:last]
	delete(r.index, token)
	return nil
}

func (r *registry) contains(token vault.TokenID) bool {
	_, ok := r.index[token]
	return ok
}

func (r *registry) size() int {
	return len(r.arena)
}

// tokens returns a copy of the arena, in enumeration order.
func (r *registry) tokens() []vault.TokenID {
	return append([]vault.TokenID(nil), r.arena...)
}

// iter walks the set in enumeration order. The walk is stable as long as
// the registry is not mutated from inside the callback.
func (r *registry) iter(callback func(vault.TokenID) error) error {
	for _, t := range r.arena {
		if err := callback(t); err != nil {
			return err
		}
	}
	return nil
}
