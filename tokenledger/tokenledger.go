// Copyright (c) 2026 The StakeVault developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package tokenledger defines the external custodian of asset balances.
// The staking core only calls into it and trusts its success/failure signal.
package tokenledger

import (
	"math/big"

	"github.com/stakevault/stakevault/vault"
)

// TokenLedger custodies balances and performs transfers. Both methods may
// fail; the caller decides whether a failure aborts the whole operation.
type TokenLedger interface {
	// Transfer moves amount of token from the ledger's custody to the given account.
	Transfer(token vault.TokenID, to vault.Address, amount *big.Int) error

	// TransferFrom pulls amount of token from the given account into the ledger's custody.
	TransferFrom(token vault.TokenID, from vault.Address, amount *big.Int) error
}
