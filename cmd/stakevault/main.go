// Copyright (c) 2026 The StakeVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/stakevault/stakevault/api"
	"github.com/stakevault/stakevault/log"
	"github.com/stakevault/stakevault/metrics"
	"github.com/stakevault/stakevault/staking"
	"github.com/stakevault/stakevault/tokenledger"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "main")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "StakeVault",
		Usage:     "Staking ledger with time locks and multi-token rewards",
		Copyright: "2026 The StakeVault developers",
		Flags: []cli.Flag{
			dataDirFlag,
			memFlag,
			genesisFlag,
			apiAddrFlag,
			apiCorsFlag,
			adminKeyFlag,
			enableAPILogsFlag,
			verbosityFlag,
			jsonLogsFlag,
			enableMetricsFlag,
			metricsAddrFlag,
		},
		Action: defaultAction,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	defer func() { logger.Info("exited") }()

	initLogger(ctx)

	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
		url, stop, err := startMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return err
		}
		logger.Info("metrics server started", "url", url)
		defer func() { logger.Info("stopping metrics server..."); stop() }()
	}

	gene, err := loadGenesis(ctx.String(genesisFlag.Name))
	if err != nil {
		return err
	}

	mainDB, err := openMainDB(ctx)
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing main database..."); mainDB.Close() }()

	ledger := tokenledger.NewMemLedger()
	core, err := staking.New(mainDB, ledger, staking.Options{
		BaseToken:     gene.BaseToken,
		MaxLockPeriod: gene.MaxLockPeriod,
	})
	if err != nil {
		return err
	}
	if err := gene.apply(core, ledger); err != nil {
		return err
	}

	handler := api.New(core, api.Options{
		AllowedOrigins:  ctx.String(apiCorsFlag.Name),
		AdminKey:        ctx.String(adminKeyFlag.Name),
		EnableMetrics:   ctx.Bool(enableMetricsFlag.Name),
		EnableReqLogger: ctx.Bool(enableAPILogsFlag.Name),
	})
	url, stop, err := startServer(ctx.String(apiAddrFlag.Name), handler)
	if err != nil {
		return err
	}
	logger.Info("API server started", "url", url)
	defer func() { logger.Info("stopping API server..."); stop() }()

	<-handleExitSignal().Done()
	return nil
}
