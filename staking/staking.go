// Copyright (c) 2026 The StakeVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package staking implements the staking-with-time-lock and multi-token
// reward-accrual ledger. Rewards are distributed through a per-token global
// accumulator of rewards-per-staked-unit, reconciled against per-account
// watermarks. The ordering invariant every entry point obeys:
// settle before mutating principal, rebaseline after.
package staking

import (
	"math/big"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/stakevault/stakevault/kv"
	"github.com/stakevault/stakevault/log"
	"github.com/stakevault/stakevault/staking/reverts"
	"github.com/stakevault/stakevault/tokenledger"
	"github.com/stakevault/stakevault/vault"
)

var logger = log.WithContext("pkg", "staking")

// Options configure the ledger at construction.
type Options struct {
	// BaseToken is the asset participants stake.
	BaseToken vault.TokenID

	// MaxLockPeriod bounds stake locks, in seconds. Defaults to vault.MaxLockPeriod.
	MaxLockPeriod uint64

	// Now supplies the current unix second. Defaults to the wall clock.
	Now func() uint64
}

// Staking orchestrates stake/unstake/claim/distribute against the persisted
// accounts, the reward accumulator and the token registry. Every mutating
// operation is atomic with respect to the shared ledger state: a single
// mutex serializes them in arrival order.
type Staking struct {
	mu        sync.Mutex
	store     kv.GetPutter
	storage   *storage
	ledger    tokenledger.TokenLedger
	registry  *registry
	listeners []func(Event)

	baseToken     vault.TokenID
	maxLockPeriod uint64
	now           func() uint64
}

// New creates a ledger on the given store, restoring the reward-token
// registry from a previous run if present.
func New(store kv.GetPutter, ledger tokenledger.TokenLedger, opts Options) (*Staking, error) {
	if opts.MaxLockPeriod == 0 {
		opts.MaxLockPeriod = vault.MaxLockPeriod
	}
	if opts.Now == nil {
		opts.Now = func() uint64 { return uint64(time.Now().Unix()) }
	}

	stg := newStorage(store)
	tokens, err := stg.GetRewardTokens()
	if err != nil {
		return nil, err
	}

	s := &Staking{
		store:         store,
		storage:       stg,
		ledger:        ledger,
		registry:      newRegistry(tokens),
		baseToken:     opts.BaseToken,
		maxLockPeriod: opts.MaxLockPeriod,
		now:           opts.Now,
	}

	total, err := stg.GetTotalStake()
	if err != nil {
		return nil, err
	}
	setTotalGauge(total)
	metricRewardTokens().Set(int64(s.registry.size()))

	logger.Info("ledger opened", "rewardTokens", s.registry.size(), "totalStake", total)
	return s, nil
}

// BaseToken returns the staked asset's identifier.
func (s *Staking) BaseToken() vault.TokenID {
	return s.baseToken
}

// MaxLockPeriod returns the lock bound, in seconds.
func (s *Staking) MaxLockPeriod() uint64 {
	return s.maxLockPeriod
}

//
// Getters - no state change
//

// GetAccount returns a copy of an account's record. Unknown addresses yield
// a zeroed record.
func (s *Staking) GetAccount(addr vault.Address) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, err := s.storage.GetAccount(addr)
	if err != nil {
		return nil, err
	}
	return acc.Copy(), nil
}

// PendingReward is a token amount an account could claim right now.
type PendingReward struct {
	Token  vault.TokenID
	Amount *big.Int
}

// PendingRewards returns the account's unclaimed amounts, one entry per
// whitelisted token, in registry enumeration order.
func (s *Staking) PendingRewards(addr vault.Address) ([]PendingReward, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, err := s.storage.GetAccount(addr)
	if err != nil {
		return nil, err
	}

	var pending []PendingReward
	err = s.registry.iter(func(token vault.TokenID) error {
		accPer, err := s.storage.GetAccPerToken(token)
		if err != nil {
			return err
		}
		pending = append(pending, PendingReward{Token: token, Amount: acc.PendingReward(token, accPer)})
		return nil
	})
	return pending, err
}

// WeightedStake returns the account's governance weight at the current time.
func (s *Staking) WeightedStake(addr vault.Address) (*big.Int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, err := s.storage.GetAccount(addr)
	if err != nil {
		return nil, err
	}
	return CalculateWeight(acc.Principal, acc.LockEnd, s.now(), s.maxLockPeriod), nil
}

// TotalStake returns the ledger-wide staked principal.
func (s *Staking) TotalStake() (*big.Int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.storage.GetTotalStake()
}

// RewardTokens lists the whitelisted reward tokens in enumeration order.
func (s *Staking) RewardTokens() []vault.TokenID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.tokens()
}

// AccPerToken returns the accumulated rewards-per-staked-unit of a token,
// scaled by 1e18.
func (s *Staking) AccPerToken(token vault.TokenID) (*big.Int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.storage.GetAccPerToken(token)
}

// AuditTotals recomputes the sum of all account principals and returns it
// alongside the recorded total. The two must always match.
func (s *Staking) AuditTotals() (sum *big.Int, recorded *big.Int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum = new(big.Int)
	if err := s.storage.IterateAccounts(func(_ vault.Address, acc *Account) error {
		sum.Add(sum, acc.Principal)
		return nil
	}); err != nil {
		return nil, nil, err
	}

	recorded, err = s.storage.GetTotalStake()
	if err != nil {
		return nil, nil, err
	}
	return sum, recorded, nil
}

//
// Setters - state change
//

// WhitelistReward registers a reward token. The caller is responsible for
// authorization; the ledger only exposes the operation.
func (s *Staking) WhitelistReward(token vault.TokenID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := newRegistry(s.registry.tokens())
	if err := next.add(token); err != nil {
		return err
	}

	batch := s.store.NewBatch()
	if err := s.storage.SaveRewardTokens(batch, next.tokens()); err != nil {
		return err
	}
	if err := batch.Write(); err != nil {
		return errors.Wrap(err, "commit whitelist")
	}
	s.registry = next

	s.emit(TokenWhitelisted{Token: token})
	metricRewardTokens().Set(int64(s.registry.size()))
	logger.Info("whitelisted reward token", "token", token)
	return nil
}

// RemoveReward drops a reward token from the registry. The last token is
// swapped into the freed slot, so enumeration order past it changes. The
// token's accumulator survives: re-whitelisting later resumes accrual
// consistently with the accounts' remaining watermarks.
func (s *Staking) RemoveReward(token vault.TokenID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := newRegistry(s.registry.tokens())
	if err := next.remove(token); err != nil {
		return err
	}

	batch := s.store.NewBatch()
	if err := s.storage.SaveRewardTokens(batch, next.tokens()); err != nil {
		return err
	}
	if err := batch.Write(); err != nil {
		return errors.Wrap(err, "commit removal")
	}
	s.registry = next

	s.emit(TokenRemoved{Token: token})
	metricRewardTokens().Set(int64(s.registry.size()))
	logger.Info("removed reward token", "token", token)
	return nil
}

// Stake pulls amount of the base asset from the account and adds it to the
// staked principal. A nonzero duration extends the lock: the new lock end is
// the current lock end (or now, when unlocked) plus duration, bounded by
// now + maxLockPeriod.
func (s *Staking) Stake(addr vault.Address, amount *big.Int, duration uint64) error {
	if amount == nil || amount.Sign() < 0 {
		return errors.New("amount must be non-negative")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()

	acc, err := s.storage.GetAccount(addr)
	if err != nil {
		return err
	}

	// the lock bound is checked before anything external moves
	newLockEnd := acc.LockEnd
	if duration != 0 {
		// an expired or absent lock extends from now, an active one from its end
		base := acc.LockEnd
		if base < now {
			base = now
		}
		newLockEnd = base + duration
		if newLockEnd > now+s.maxLockPeriod {
			return reverts.ErrLockTooLong
		}
	}

	// settle with the OLD principal and OLD accumulator values so rewards
	// accrued before this deposit are not attributed to the new stake
	if err := s.settle(addr, acc); err != nil {
		return s.abortSettled(addr, acc, err)
	}

	if err := s.ledger.TransferFrom(s.baseToken, addr, amount); err != nil {
		logger.Info("stake pull failed", "addr", addr, "amount", amount, "error", err)
		return s.abortSettled(addr, acc, reverts.ErrTransferFailed)
	}

	total, err := s.storage.GetTotalStake()
	if err != nil {
		return err
	}
	accVals, err := s.accumulatorValues()
	if err != nil {
		return err
	}

	acc.Principal.Add(acc.Principal, amount)
	acc.LockEnd = newLockEnd
	total.Add(total, amount)
	acc.rebaseline(s.registry.tokens(), func(t vault.TokenID) *big.Int { return accVals[t] })

	batch := s.store.NewBatch()
	if err := s.storage.SaveAccount(batch, addr, acc); err != nil {
		return err
	}
	if err := s.storage.SaveTotalStake(batch, total); err != nil {
		return err
	}
	if err := batch.Write(); err != nil {
		return errors.Wrap(err, "commit stake")
	}

	s.emit(Staked{Addr: addr, Amount: new(big.Int).Set(amount)})
	metricStakeCount().Add(1)
	setTotalGauge(total)
	logger.Info("staked", "addr", addr, "amount", amount, "lockEnd", acc.LockEnd)
	return nil
}

// Unstake settles rewards, reduces the staked principal and returns amount
// of the base asset to the account. Fails while the lock is active.
func (s *Staking) Unstake(addr vault.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return errors.New("amount must be non-negative")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()

	acc, err := s.storage.GetAccount(addr)
	if err != nil {
		return err
	}

	if now < acc.LockEnd {
		return reverts.ErrStillLocked
	}
	if amount.Cmp(acc.Principal) > 0 {
		return reverts.ErrInsufficientPrincipal
	}

	// settle with the OLD principal first, same ordering rationale as Stake
	if err := s.settle(addr, acc); err != nil {
		return s.abortSettled(addr, acc, err)
	}

	if err := s.ledger.Transfer(s.baseToken, addr, amount); err != nil {
		logger.Info("unstake payout failed", "addr", addr, "amount", amount, "error", err)
		return s.abortSettled(addr, acc, reverts.ErrTransferFailed)
	}

	total, err := s.storage.GetTotalStake()
	if err != nil {
		return err
	}
	accVals, err := s.accumulatorValues()
	if err != nil {
		return err
	}

	acc.Principal.Sub(acc.Principal, amount)
	total.Sub(total, amount)
	acc.rebaseline(s.registry.tokens(), func(t vault.TokenID) *big.Int { return accVals[t] })

	batch := s.store.NewBatch()
	if err := s.storage.SaveAccount(batch, addr, acc); err != nil {
		return err
	}
	if err := s.storage.SaveTotalStake(batch, total); err != nil {
		return err
	}
	if err := batch.Write(); err != nil {
		return errors.Wrap(err, "commit unstake")
	}

	s.emit(Unstaked{Addr: addr, Amount: new(big.Int).Set(amount)})
	metricUnstakeCount().Add(1)
	setTotalGauge(total)
	logger.Info("unstaked", "addr", addr, "amount", amount)
	return nil
}

// Claim settles all pending rewards of the account. Principal and lock are
// untouched; settlement itself advances the watermarks, so claiming twice
// in a row pays nothing the second time.
func (s *Staking) Claim(addr vault.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, err := s.storage.GetAccount(addr)
	if err != nil {
		return err
	}

	if err := s.settle(addr, acc); err != nil {
		return s.abortSettled(addr, acc, err)
	}

	batch := s.store.NewBatch()
	if err := s.storage.SaveAccount(batch, addr, acc); err != nil {
		return err
	}
	if err := batch.Write(); err != nil {
		return errors.Wrap(err, "commit claim")
	}

	metricClaimCount().Add(1)
	return nil
}

// Distribute pulls amount of token from the caller and spreads it over the
// current stakers by advancing the token's accumulator. Misdirected calls
// are silently ignored rather than failed: with no whitelisted token, no
// staked principal or a failing pull, nothing happens at all. Residual dust
// from the floor division is an accepted rounding loss.
func (s *Staking) Distribute(from vault.Address, token vault.TokenID, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return errors.New("amount must be non-negative")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.registry.size() == 0 || !s.registry.contains(token) {
		logger.Debug("distribute ignored, token not whitelisted", "token", token)
		return nil
	}

	total, err := s.storage.GetTotalStake()
	if err != nil {
		return err
	}
	if total.Sign() == 0 {
		logger.Debug("distribute ignored, no staked principal", "token", token)
		return nil
	}

	if err := s.ledger.TransferFrom(token, from, amount); err != nil {
		// fail-safe, not fail-fatal: a rejected pull must never corrupt the accumulator
		logger.Info("distribute pull failed, ignored", "from", from, "token", token, "error", err)
		return nil
	}

	accPer, err := s.storage.GetAccPerToken(token)
	if err != nil {
		return err
	}
	delta := new(big.Int).Mul(amount, vault.Scale())
	delta.Div(delta, total)
	accPer.Add(accPer, delta)

	batch := s.store.NewBatch()
	if err := s.storage.SaveAccPerToken(batch, token, accPer); err != nil {
		return err
	}
	if err := batch.Write(); err != nil {
		return errors.Wrap(err, "commit distribute")
	}

	s.emit(RewardDistributed{Token: token, Amount: new(big.Int).Set(amount)})
	metricDistributeCount().AddWithLabel(1, map[string]string{"token": token.String()})
	logger.Info("distributed reward", "token", token, "amount", amount)
	return nil
}

// settle pays out every nonzero pending reward of the account and advances
// its watermarks, in registry enumeration order. The account is mutated in
// place; persisting it is the caller's job.
func (s *Staking) settle(addr vault.Address, acc *Account) error {
	if acc.Principal.Sign() == 0 {
		return nil
	}
	return s.registry.iter(func(token vault.TokenID) error {
		accPer, err := s.storage.GetAccPerToken(token)
		if err != nil {
			return err
		}
		pending := acc.PendingReward(token, accPer)
		if pending.Sign() <= 0 {
			return nil
		}
		if err := s.ledger.Transfer(token, addr, pending); err != nil {
			logger.Info("reward payout failed", "addr", addr, "token", token, "error", err)
			return reverts.ErrTransferFailed
		}
		paid := acc.PaidFor(token)
		acc.Paid[token] = paid.Add(paid, pending)

		s.emit(RewardClaimed{Addr: addr, Token: token, Amount: pending})
		return nil
	})
}

// abortSettled aborts an operation after settlement already paid rewards
// out. The advanced watermarks must land even though the operation fails,
// otherwise a retry would pay the same rewards twice. Principal, lock and
// totals stay untouched.
func (s *Staking) abortSettled(addr vault.Address, acc *Account, cause error) error {
	batch := s.store.NewBatch()
	if err := s.storage.SaveAccount(batch, addr, acc); err != nil {
		return err
	}
	if err := batch.Write(); err != nil {
		return errors.Wrap(err, "commit settlement")
	}
	return cause
}

// accumulatorValues snapshots the accumulator of every whitelisted token.
func (s *Staking) accumulatorValues() (map[vault.TokenID]*big.Int, error) {
	values := make(map[vault.TokenID]*big.Int, s.registry.size())
	err := s.registry.iter(func(token vault.TokenID) error {
		v, err := s.storage.GetAccPerToken(token)
		if err != nil {
			return err
		}
		values[token] = v
		return nil
	})
	return values, err
}

func setTotalGauge(total *big.Int) {
	metricTotalStake().Set(new(big.Int).Div(total, vault.Scale()).Int64())
}
