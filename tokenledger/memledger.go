// Copyright (c) 2026 The StakeVault developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tokenledger

import (
	"math/big"
	"sync"

	"github.com/pkg/errors"

	"github.com/stakevault/stakevault/vault"
)

// MemLedger is an in-memory balance book. It serves dev mode and tests;
// production deployments point the staking core at a real custodian.
type MemLedger struct {
	mu       sync.Mutex
	balances map[vault.TokenID]map[vault.Address]*big.Int
}

var _ TokenLedger = (*MemLedger)(nil)

// NewMemLedger creates an empty in-memory token ledger.
func NewMemLedger() *MemLedger {
	return &MemLedger{
		balances: make(map[vault.TokenID]map[vault.Address]*big.Int),
	}
}

// custodian is the account holding assets pulled via TransferFrom.
var custodian = vault.Address{}

// Mint credits the given account, creating balance out of thin air.
func (l *MemLedger) Mint(token vault.TokenID, to vault.Address, amount *big.Int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.credit(token, to, amount)
}

// Balance returns the current balance of the given account.
func (l *MemLedger) Balance(token vault.TokenID, addr vault.Address) *big.Int {
	l.mu.Lock()
	defer l.mu.Unlock()

	book, ok := l.balances[token]
	if !ok {
		return new(big.Int)
	}
	b, ok := book[addr]
	if !ok {
		return new(big.Int)
	}
	return new(big.Int).Set(b)
}

// Transfer moves amount of token from custody to the given account.
func (l *MemLedger) Transfer(token vault.TokenID, to vault.Address, amount *big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.debit(token, custodian, amount); err != nil {
		return err
	}
	l.credit(token, to, amount)
	return nil
}

// TransferFrom pulls amount of token from the given account into custody.
func (l *MemLedger) TransferFrom(token vault.TokenID, from vault.Address, amount *big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.debit(token, from, amount); err != nil {
		return err
	}
	l.credit(token, custodian, amount)
	return nil
}

func (l *MemLedger) credit(token vault.TokenID, addr vault.Address, amount *big.Int) {
	book, ok := l.balances[token]
	if !ok {
		book = make(map[vault.Address]*big.Int)
		l.balances[token] = book
	}
	b, ok := book[addr]
	if !ok {
		b = new(big.Int)
		book[addr] = b
	}
	b.Add(b, amount)
}

func (l *MemLedger) debit(token vault.TokenID, addr vault.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return errors.New("negative amount")
	}
	book, ok := l.balances[token]
	if !ok {
		return errors.Errorf("insufficient balance of %s", token)
	}
	b, ok := book[addr]
	if !ok || b.Cmp(amount) < 0 {
		return errors.Errorf("insufficient balance of %s", token)
	}
	b.Sub(b, amount)
	return nil
}
