// Copyright (c) 2026 The StakeVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package client provides an HTTP client for the staking service API.
// It offers typed methods for accounts, rewards and registry management.
package client

import (
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"

	apistaking "github.com/stakevault/stakevault/api/staking"
	"github.com/stakevault/stakevault/vault"
)

// Client represents the HTTP client for interacting with a staking service.
type Client struct {
	url      string
	adminKey string
	c        *http.Client
}

// New creates a new Client with the provided URL.
func New(url string) *Client {
	return NewWithHTTP(url, http.DefaultClient)
}

func NewWithHTTP(url string, c *http.Client) *Client {
	return &Client{
		url: url,
		c:   c,
	}
}

// WithAdminKey returns a client that sends the x-admin-key header on
// registry management calls.
func (c *Client) WithAdminKey(key string) *Client {
	return &Client{
		url:      c.url,
		adminKey: key,
		c:        c.c,
	}
}

// Account retrieves the staking record of the given address.
func (c *Client) Account(addr vault.Address) (*apistaking.AccountDetail, error) {
	body, err := c.httpGET(c.url + "/staking/accounts/" + addr.String())
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve account - %w", err)
	}

	var detail apistaking.AccountDetail
	if err = json.Unmarshal(body, &detail); err != nil {
		return nil, fmt.Errorf("unable to unmarshal account - %w", err)
	}
	return &detail, nil
}

// Stake adds amount to the address' staked principal, optionally extending
// the lock by duration seconds.
func (c *Client) Stake(addr vault.Address, amount *big.Int, duration uint64) (*apistaking.AccountDetail, error) {
	body, err := c.httpPOST(c.url+"/staking/accounts/"+addr.String()+"/stake",
		&apistaking.StakeRequest{Amount: amount.String(), Duration: duration})
	if err != nil {
		return nil, fmt.Errorf("unable to stake - %w", err)
	}

	var detail apistaking.AccountDetail
	if err = json.Unmarshal(body, &detail); err != nil {
		return nil, fmt.Errorf("unable to unmarshal account - %w", err)
	}
	return &detail, nil
}

// Unstake withdraws amount of staked principal back to the address.
func (c *Client) Unstake(addr vault.Address, amount *big.Int) (*apistaking.AccountDetail, error) {
	body, err := c.httpPOST(c.url+"/staking/accounts/"+addr.String()+"/unstake",
		&apistaking.UnstakeRequest{Amount: amount.String()})
	if err != nil {
		return nil, fmt.Errorf("unable to unstake - %w", err)
	}

	var detail apistaking.AccountDetail
	if err = json.Unmarshal(body, &detail); err != nil {
		return nil, fmt.Errorf("unable to unmarshal account - %w", err)
	}
	return &detail, nil
}

// Claim settles all pending rewards of the address.
func (c *Client) Claim(addr vault.Address) (*apistaking.ClaimResult, error) {
	body, err := c.httpPOST(c.url+"/staking/accounts/"+addr.String()+"/claim", nil)
	if err != nil {
		return nil, fmt.Errorf("unable to claim - %w", err)
	}

	var result apistaking.ClaimResult
	if err = json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("unable to unmarshal claim result - %w", err)
	}
	return &result, nil
}

// TotalStake retrieves the ledger-wide staked principal.
func (c *Client) TotalStake() (*apistaking.TotalDetail, error) {
	body, err := c.httpGET(c.url + "/staking/total")
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve total - %w", err)
	}

	var total apistaking.TotalDetail
	if err = json.Unmarshal(body, &total); err != nil {
		return nil, fmt.Errorf("unable to unmarshal total - %w", err)
	}
	return &total, nil
}

// RewardTokens lists the whitelisted reward tokens.
func (c *Client) RewardTokens() ([]vault.TokenID, error) {
	body, err := c.httpGET(c.url + "/staking/rewards/tokens")
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve reward tokens - %w", err)
	}

	var tokens []vault.TokenID
	if err = json.Unmarshal(body, &tokens); err != nil {
		return nil, fmt.Errorf("unable to unmarshal reward tokens - %w", err)
	}
	return tokens, nil
}

// WhitelistReward registers a reward token. Requires the admin key.
func (c *Client) WhitelistReward(token vault.TokenID) ([]vault.TokenID, error) {
	body, err := c.httpPOST(c.url+"/staking/rewards/tokens",
		&apistaking.WhitelistRequest{Token: token})
	if err != nil {
		return nil, fmt.Errorf("unable to whitelist token - %w", err)
	}

	var tokens []vault.TokenID
	if err = json.Unmarshal(body, &tokens); err != nil {
		return nil, fmt.Errorf("unable to unmarshal reward tokens - %w", err)
	}
	return tokens, nil
}

// RemoveReward drops a reward token from the registry. Requires the admin key.
func (c *Client) RemoveReward(token vault.TokenID) ([]vault.TokenID, error) {
	body, err := c.httpDELETE(c.url + "/staking/rewards/tokens/" + token.String())
	if err != nil {
		return nil, fmt.Errorf("unable to remove token - %w", err)
	}

	var tokens []vault.TokenID
	if err = json.Unmarshal(body, &tokens); err != nil {
		return nil, fmt.Errorf("unable to unmarshal reward tokens - %w", err)
	}
	return tokens, nil
}

// Distribute injects amount of token from the given account into the
// reward pool.
func (c *Client) Distribute(from vault.Address, token vault.TokenID, amount *big.Int) error {
	_, err := c.httpPOST(c.url+"/staking/rewards/distribute",
		&apistaking.DistributeRequest{From: from, Token: token, Amount: amount.String()})
	if err != nil {
		return fmt.Errorf("unable to distribute - %w", err)
	}
	return nil
}
