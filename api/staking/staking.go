// Copyright (c) 2026 The StakeVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package staking exposes the staking ledger over REST.
package staking

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/stakevault/stakevault/api/utils"
	"github.com/stakevault/stakevault/staking"
	"github.com/stakevault/stakevault/staking/reverts"
	"github.com/stakevault/stakevault/vault"
)

// Staking is the REST handler set around a ledger instance. Registry
// mutations are gated on the x-admin-key header when an admin key is set.
type Staking struct {
	ledger   *staking.Staking
	adminKey string
}

func New(ledger *staking.Staking, adminKey string) *Staking {
	return &Staking{
		ledger,
		adminKey,
	}
}

// convertError maps ledger errors onto http statuses. Business rejections
// are the caller's fault, everything else is ours.
func convertError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, reverts.ErrNotFound):
		return utils.NotFound(err)
	case reverts.IsRevert(err):
		return utils.BadRequest(err)
	default:
		return err
	}
}

func (s *Staking) checkAdmin(req *http.Request) error {
	if s.adminKey == "" {
		return nil
	}
	if req.Header.Get("x-admin-key") != s.adminKey {
		return utils.Forbidden(errors.New("admin key required"))
	}
	return nil
}

func addressParam(req *http.Request) (vault.Address, error) {
	addr, err := vault.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return vault.Address{}, utils.BadRequest(errors.WithMessage(err, "address"))
	}
	return addr, nil
}

func (s *Staking) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := addressParam(req)
	if err != nil {
		return err
	}

	acc, err := s.ledger.GetAccount(addr)
	if err != nil {
		return err
	}
	weight, err := s.ledger.WeightedStake(addr)
	if err != nil {
		return err
	}
	pending, err := s.ledger.PendingRewards(addr)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertAccount(addr, acc, weight, pending))
}

func (s *Staking) handleStake(w http.ResponseWriter, req *http.Request) error {
	addr, err := addressParam(req)
	if err != nil {
		return err
	}

	var body StakeRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	amount, err := parseAmount(body.Amount)
	if err != nil {
		return utils.BadRequest(err)
	}

	if err := s.ledger.Stake(addr, amount, body.Duration); err != nil {
		return convertError(err)
	}
	return s.writeAccount(w, addr)
}

func (s *Staking) handleUnstake(w http.ResponseWriter, req *http.Request) error {
	addr, err := addressParam(req)
	if err != nil {
		return err
	}

	var body UnstakeRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	amount, err := parseAmount(body.Amount)
	if err != nil {
		return utils.BadRequest(err)
	}

	if err := s.ledger.Unstake(addr, amount); err != nil {
		return convertError(err)
	}
	return s.writeAccount(w, addr)
}

func (s *Staking) handleClaim(w http.ResponseWriter, req *http.Request) error {
	addr, err := addressParam(req)
	if err != nil {
		return err
	}

	// snapshot first so the response can report what was paid
	pending, err := s.ledger.PendingRewards(addr)
	if err != nil {
		return err
	}
	if err := s.ledger.Claim(addr); err != nil {
		return convertError(err)
	}

	claimed := make([]staking.PendingReward, 0, len(pending))
	for _, p := range pending {
		if p.Amount.Sign() > 0 {
			claimed = append(claimed, p)
		}
	}
	return utils.WriteJSON(w, &ClaimResult{Claimed: convertPending(claimed)})
}

func (s *Staking) handleGetTotal(w http.ResponseWriter, _ *http.Request) error {
	total, err := s.ledger.TotalStake()
	if err != nil {
		return err
	}

	tokens := s.ledger.RewardTokens()
	accs := make([]AccumulatorValue, 0, len(tokens))
	for _, token := range tokens {
		v, err := s.ledger.AccPerToken(token)
		if err != nil {
			return err
		}
		accs = append(accs, AccumulatorValue{Token: token, Value: v.String()})
	}
	return utils.WriteJSON(w, &TotalDetail{TotalStake: total.String(), Accumulators: accs})
}

func (s *Staking) handleGetRewardTokens(w http.ResponseWriter, _ *http.Request) error {
	tokens := s.ledger.RewardTokens()
	if tokens == nil {
		tokens = []vault.TokenID{}
	}
	return utils.WriteJSON(w, tokens)
}

func (s *Staking) handleWhitelist(w http.ResponseWriter, req *http.Request) error {
	if err := s.checkAdmin(req); err != nil {
		return err
	}

	var body WhitelistRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Token.IsZero() {
		return utils.BadRequest(errors.New("token: missing"))
	}

	if err := s.ledger.WhitelistReward(body.Token); err != nil {
		return convertError(err)
	}
	return s.handleGetRewardTokens(w, req)
}

func (s *Staking) handleRemoveToken(w http.ResponseWriter, req *http.Request) error {
	if err := s.checkAdmin(req); err != nil {
		return err
	}

	token, err := vault.ParseTokenID(mux.Vars(req)["token"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "token"))
	}

	if err := s.ledger.RemoveReward(token); err != nil {
		return convertError(err)
	}
	return s.handleGetRewardTokens(w, req)
}

func (s *Staking) handleDistribute(w http.ResponseWriter, req *http.Request) error {
	var body DistributeRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	amount, err := parseAmount(body.Amount)
	if err != nil {
		return utils.BadRequest(err)
	}

	// misdirected distributions are a silent no-op by contract
	if err := s.ledger.Distribute(body.From, body.Token, amount); err != nil {
		return convertError(err)
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Staking) writeAccount(w http.ResponseWriter, addr vault.Address) error {
	acc, err := s.ledger.GetAccount(addr)
	if err != nil {
		return err
	}
	weight, err := s.ledger.WeightedStake(addr)
	if err != nil {
		return err
	}
	pending, err := s.ledger.PendingRewards(addr)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertAccount(addr, acc, weight, pending))
}

func (s *Staking) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/accounts/{address}").
		Methods(http.MethodGet).
		Name("staking_get_account").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetAccount))
	sub.Path("/accounts/{address}/stake").
		Methods(http.MethodPost).
		Name("staking_post_stake").
		HandlerFunc(utils.WrapHandlerFunc(s.handleStake))
	sub.Path("/accounts/{address}/unstake").
		Methods(http.MethodPost).
		Name("staking_post_unstake").
		HandlerFunc(utils.WrapHandlerFunc(s.handleUnstake))
	sub.Path("/accounts/{address}/claim").
		Methods(http.MethodPost).
		Name("staking_post_claim").
		HandlerFunc(utils.WrapHandlerFunc(s.handleClaim))
	sub.Path("/total").
		Methods(http.MethodGet).
		Name("staking_get_total").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetTotal))
	sub.Path("/rewards/tokens").
		Methods(http.MethodGet).
		Name("staking_get_reward_tokens").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetRewardTokens))
	sub.Path("/rewards/tokens").
		Methods(http.MethodPost).
		Name("staking_post_reward_token").
		HandlerFunc(utils.WrapHandlerFunc(s.handleWhitelist))
	sub.Path("/rewards/tokens/{token}").
		Methods(http.MethodDelete).
		Name("staking_delete_reward_token").
		HandlerFunc(utils.WrapHandlerFunc(s.handleRemoveToken))
	sub.Path("/rewards/distribute").
		Methods(http.MethodPost).
		Name("staking_post_distribute").
		HandlerFunc(utils.WrapHandlerFunc(s.handleDistribute))
}
