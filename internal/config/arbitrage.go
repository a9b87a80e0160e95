package config

// ArbitrageConfig carries the tunables of the planning pipeline. The
// defaults match the reference deployment: $1,000 liquidity floor, 2.5%
// price-gap trigger, 0.5% slippage, 0.3% fallback fee.
type ArbitrageConfig struct {
	// MinLiquidityUSD filters the unified set before baseline selection
	// and intermediary search.
	MinLiquidityUSD float64

	// GapMultiplier is the over-pricing trigger: a pool qualifies as a
	// target when its price exceeds baseline price times this value.
	GapMultiplier float64

	// SlippageTolerance is the per-hop tolerance as a decimal fraction
	// ("0.005" = 0.5%). Also attached to instructions as max_spread.
	SlippageTolerance string

	// FallbackFee substitutes when the fee oracle cannot resolve a fee.
	FallbackFee string

	// LoanAmount is the flash-loan principal in micro reference units.
	LoanAmount string

	// PoolOverrides pins known-good pool ids for specific token pairs,
	// consulted before any generic intermediary search. Format:
	// comma-separated addrA:addrB:poolID triples.
	PoolOverrides string

	// DBPath is the BoltDB file used for catalog snapshots and artifacts.
	// Default: "./data/arb-engine.db"
	DBPath string

	// PersistenceEnabled controls snapshot/artifact persistence.
	// Default: true
	PersistenceEnabled bool
}

func (c *ArbitrageConfig) Key() string {
	return ARBITRAGE_CONFIG_KEY
}

func (c *ArbitrageConfig) Load() error {
	c.MinLiquidityUSD = getEnvOrDefaultFloat("MIN_LIQUIDITY_USD", 1000)
	c.GapMultiplier = getEnvOrDefaultFloat("GAP_MULTIPLIER", 1.025)
	c.SlippageTolerance = getEnvOrDefault("SLIPPAGE_TOLERANCE", "0.005")
	c.FallbackFee = getEnvOrDefault("FALLBACK_FEE", "0.003")
	c.LoanAmount = getEnvOrDefault("LOAN_AMOUNT", "1000000000")
	c.PoolOverrides = getEnvOrDefault("POOL_OVERRIDES", "")
	c.DBPath = getEnvOrDefault("ARB_DB_PATH", "./data/arb-engine.db")
	c.PersistenceEnabled = getEnvOrDefault("ARB_PERSISTENCE_ENABLED", "true") == "true"
	return nil
}

func (c *ArbitrageConfig) Validate() error {
	return nil
}
