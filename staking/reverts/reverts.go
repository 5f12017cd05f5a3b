// Copyright (c) 2026 The StakeVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
)

// ErrRevert marks a business-rule failure. Every revert aborts the enclosing
// operation without touching ledger state.
type ErrRevert struct {
	message string
}

func New(message string) *ErrRevert {
	return &ErrRevert{
		message: message,
	}
}

func (e *ErrRevert) Error() string {
	return e.message
}

// IsRevert reports whether err is (or wraps) a revert.
func IsRevert(err error) bool {
	if err == nil {
		return false
	}
	var ve *ErrRevert
	return errors.As(err, &ve)
}

// The ledger's revert taxonomy.
var (
	// ErrTransferFailed external asset move rejected.
	ErrTransferFailed = New("transfer failed")
	// ErrInsufficientPrincipal unstake amount exceeds staked principal.
	ErrInsufficientPrincipal = New("insufficient principal")
	// ErrStillLocked unstake attempted before lock expiry.
	ErrStillLocked = New("still locked")
	// ErrLockTooLong requested lock end exceeds the maximum lock period.
	ErrLockTooLong = New("lock too long")
	// ErrAlreadyWhitelisted reward token is already registered.
	ErrAlreadyWhitelisted = New("already whitelisted")
	// ErrNotFound reward token is not registered.
	ErrNotFound = New("not found")
)
