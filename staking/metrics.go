// Copyright (c) 2026 The StakeVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import "github.com/stakevault/stakevault/metrics"

var (
	metricStakeCount      = metrics.LazyLoadCounter("stake_count")
	metricUnstakeCount    = metrics.LazyLoadCounter("unstake_count")
	metricClaimCount      = metrics.LazyLoadCounter("claim_count")
	metricDistributeCount = metrics.LazyLoadCounterVec("distribute_count", []string{"token"})
	metricRewardTokens    = metrics.LazyLoadGauge("reward_tokens_gauge")

	// whole base units, the fractional part is dropped for the gauge
	metricTotalStake = metrics.LazyLoadGauge("total_stake_gauge")
)
