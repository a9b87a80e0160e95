package main

import (
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	container "github.com/thehyperflames/dicontainer-go"

	"github.com/hxuan190/arb-engine/internal/adapters/persistence"
	"github.com/hxuan190/arb-engine/internal/config"
	"github.com/hxuan190/arb-engine/internal/http"
	"github.com/hxuan190/arb-engine/internal/services/arbitrage"
	"github.com/hxuan190/arb-engine/internal/services/directory"
)

// @title Flash-Loan Arbitrage Engine API
// @version 1.0-beta
// @description Cross-venue arbitrage detection for a token traded across multiple liquidity pools on one chain, with executable flash-loan synthesis.
// @description
// @description ## - Pipeline
// @description - **Pool Directory**: merges the primary search API and the bearer-authenticated secondary catalog
// @description - **Baseline Selection**: cheapest venue with reference-asset preference
// @description - **Route Planning**: 2-4 hop topologies, intermediary resolution with search-and-verify fallback
// @description - **Execution Planning**: fee- and slippage-adjusted hop math with a strict profitability gate
// @description - **Route Display**: structurally complete route objects even for partially broken routes
// @description
// @description ## - Usage Tips
// @description - Amounts are micro units of the reference denom (6 decimals: 1 token = 1,000,000 micro units)
// @description - Default slippage tolerance is 0.5%, default price-gap trigger is 2.5%
// @description - Plans appear only when the loop strictly repays the loan
// @host localhost:8080
// @BasePath /
// @schemes http
// @tag.name pools
// @tag.description Unified canonical pool sets and on-chain fee lookups
// @tag.name arbitrage
// @tag.description Scans, route objects, and downloadable flash-loan artifacts

func main() {
	// load env
	err := godotenv.Load()
	if err != nil {
		log.Error().Err(err).Msg("failed to load env")
		return
	}

	// di container config
	conf := container.NewConf(
		&config.GeneralConfig{},
		&config.SourcesConfig{},
		&config.ChainConfig{},
		&config.ArbitrageConfig{},
	)

	// di container
	dic, err := container.New(
		conf,

		&persistence.Service{},
		&directory.Service{},
		&arbitrage.Service{},

		&http.HTTPService{},
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to create di container")
		return
	}

	if err := dic.Run(); err != nil {
		log.Error().Err(err).Msg("failed to run di container")
		return
	}

	log.Info().Msg("Shutting down services...")
	if err := dic.Stop(); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
	log.Info().Msg("Shutdown complete")
}
