// Copyright (c) 2026 The StakeVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"bytes"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakevault/stakevault/lvldb"
	"github.com/stakevault/stakevault/staking"
	"github.com/stakevault/stakevault/tokenledger"
	"github.com/stakevault/stakevault/vault"
)

const testAdminKey = "sekrit"

var (
	baseToken = vault.BytesToTokenID([]byte("base"))
	tokenA    = vault.BytesToTokenID([]byte("reward-a"))

	alice = vault.BytesToAddress([]byte("alice"))
	carol = vault.BytesToAddress([]byte("carol"))
)

func inUnits(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), vault.Scale())
}

type testServer struct {
	*httptest.Server
	ledger *tokenledger.MemLedger
	now    *uint64
}

func newTestServer(t *testing.T) *testServer {
	store, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	now := uint64(1_700_000_000)
	ledger := tokenledger.NewMemLedger()
	core, err := staking.New(store, ledger, staking.Options{
		BaseToken: baseToken,
		Now:       func() uint64 { return now },
	})
	require.NoError(t, err)

	router := mux.NewRouter()
	New(core, testAdminKey).Mount(router, "/staking")

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &testServer{Server: srv, ledger: ledger, now: &now}
}

func (ts *testServer) request(t *testing.T, method, path string, body any, headers map[string]string) (int, []byte) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func admin() map[string]string {
	return map[string]string{"x-admin-key": testAdminKey}
}

func TestGetUnknownAccount(t *testing.T) {
	ts := newTestServer(t)

	code, body := ts.request(t, http.MethodGet, "/staking/accounts/"+alice.String(), nil, nil)
	require.Equal(t, http.StatusOK, code)

	var detail AccountDetail
	require.NoError(t, json.Unmarshal(body, &detail))
	assert.Equal(t, alice, detail.Address)
	assert.Equal(t, "0", detail.Principal)
	assert.Equal(t, "0", detail.Weight)
	assert.Equal(t, uint64(0), detail.LockEnd)
}

func TestGetAccountBadAddress(t *testing.T) {
	ts := newTestServer(t)

	code, _ := ts.request(t, http.MethodGet, "/staking/accounts/not-an-address", nil, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestStakeFlow(t *testing.T) {
	ts := newTestServer(t)
	ts.ledger.Mint(baseToken, alice, inUnits(100))

	code, body := ts.request(t, http.MethodPost, "/staking/accounts/"+alice.String()+"/stake",
		StakeRequest{Amount: inUnits(60).String(), Duration: 1000}, nil)
	require.Equal(t, http.StatusOK, code, string(body))

	var detail AccountDetail
	require.NoError(t, json.Unmarshal(body, &detail))
	assert.Equal(t, inUnits(60).String(), detail.Principal)
	assert.Equal(t, *ts.now+1000, detail.LockEnd)

	// still locked
	code, body = ts.request(t, http.MethodPost, "/staking/accounts/"+alice.String()+"/unstake",
		UnstakeRequest{Amount: inUnits(10).String()}, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, string(body), "locked")

	*ts.now += 1000
	code, body = ts.request(t, http.MethodPost, "/staking/accounts/"+alice.String()+"/unstake",
		UnstakeRequest{Amount: inUnits(10).String()}, nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(body, &detail))
	assert.Equal(t, inUnits(50).String(), detail.Principal)

	code, body = ts.request(t, http.MethodGet, "/staking/total", nil, nil)
	require.Equal(t, http.StatusOK, code)
	var total TotalDetail
	require.NoError(t, json.Unmarshal(body, &total))
	assert.Equal(t, inUnits(50).String(), total.TotalStake)
}

func TestStakeBadBody(t *testing.T) {
	ts := newTestServer(t)

	code, _ := ts.request(t, http.MethodPost, "/staking/accounts/"+alice.String()+"/stake",
		StakeRequest{Amount: "not-a-number"}, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = ts.request(t, http.MethodPost, "/staking/accounts/"+alice.String()+"/stake",
		StakeRequest{Amount: "-5"}, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = ts.request(t, http.MethodPost, "/staking/accounts/"+alice.String()+"/stake",
		map[string]string{"unknown": "field"}, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestRewardTokenAdmin(t *testing.T) {
	ts := newTestServer(t)

	// gated without the key
	code, _ := ts.request(t, http.MethodPost, "/staking/rewards/tokens",
		WhitelistRequest{Token: tokenA}, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, body := ts.request(t, http.MethodPost, "/staking/rewards/tokens",
		WhitelistRequest{Token: tokenA}, admin())
	require.Equal(t, http.StatusOK, code, string(body))

	var tokens []vault.TokenID
	require.NoError(t, json.Unmarshal(body, &tokens))
	assert.Equal(t, []vault.TokenID{tokenA}, tokens)

	// duplicate
	code, _ = ts.request(t, http.MethodPost, "/staking/rewards/tokens",
		WhitelistRequest{Token: tokenA}, admin())
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = ts.request(t, http.MethodDelete, "/staking/rewards/tokens/"+tokenA.String(), nil, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, body = ts.request(t, http.MethodDelete, "/staking/rewards/tokens/"+tokenA.String(), nil, admin())
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(body, &tokens))
	assert.Empty(t, tokens)

	// removing again is not found
	code, _ = ts.request(t, http.MethodDelete, "/staking/rewards/tokens/"+tokenA.String(), nil, admin())
	assert.Equal(t, http.StatusNotFound, code)
}

func TestDistributeAndClaim(t *testing.T) {
	ts := newTestServer(t)
	ts.ledger.Mint(baseToken, alice, inUnits(100))
	ts.ledger.Mint(tokenA, carol, inUnits(50))

	code, _ := ts.request(t, http.MethodPost, "/staking/rewards/tokens",
		WhitelistRequest{Token: tokenA}, admin())
	require.Equal(t, http.StatusOK, code)

	code, _ = ts.request(t, http.MethodPost, "/staking/accounts/"+alice.String()+"/stake",
		StakeRequest{Amount: inUnits(100).String()}, nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = ts.request(t, http.MethodPost, "/staking/rewards/distribute",
		DistributeRequest{From: carol, Token: tokenA, Amount: inUnits(50).String()}, nil)
	require.Equal(t, http.StatusNoContent, code)

	code, body := ts.request(t, http.MethodGet, "/staking/accounts/"+alice.String(), nil, nil)
	require.Equal(t, http.StatusOK, code)
	var detail AccountDetail
	require.NoError(t, json.Unmarshal(body, &detail))
	require.Len(t, detail.Pending, 1)
	assert.Equal(t, inUnits(50).String(), detail.Pending[0].Amount)

	code, body = ts.request(t, http.MethodPost, "/staking/accounts/"+alice.String()+"/claim", nil, nil)
	require.Equal(t, http.StatusOK, code)
	var result ClaimResult
	require.NoError(t, json.Unmarshal(body, &result))
	require.Len(t, result.Claimed, 1)
	assert.Equal(t, tokenA, result.Claimed[0].Token)
	assert.Equal(t, inUnits(50).String(), result.Claimed[0].Amount)
	assert.Equal(t, inUnits(50), ts.ledger.Balance(tokenA, alice))

	// nothing left to claim
	code, body = ts.request(t, http.MethodPost, "/staking/accounts/"+alice.String()+"/claim", nil, nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(body, &result))
	assert.Empty(t, result.Claimed)
}

func TestDistributeUnwhitelistedIsSilent(t *testing.T) {
	ts := newTestServer(t)
	ts.ledger.Mint(tokenA, carol, inUnits(50))

	code, _ := ts.request(t, http.MethodPost, "/staking/rewards/distribute",
		DistributeRequest{From: carol, Token: tokenA, Amount: inUnits(50).String()}, nil)
	assert.Equal(t, http.StatusNoContent, code)
	assert.Equal(t, inUnits(50), ts.ledger.Balance(tokenA, carol))
}
