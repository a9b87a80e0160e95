package config

import "errors"

// ChainConfig describes the chain the engine plans against.
// ReferenceDenom is the native staking/gas token: it is the flash-loan
// principal and the universal bridge asset in every route topology.
type ChainConfig struct {
	LCDUrl            string
	ReferenceDenom    string
	ReferenceSymbol   string
	ReferenceDecimals int
}

func (cc *ChainConfig) Key() string {
	return CHAIN_CONFIG_KEY
}

func (cc *ChainConfig) Load() error {
	cc.LCDUrl = getEnvOrDefault("LCD_URL", "")
	cc.ReferenceDenom = getEnvOrDefault("REFERENCE_DENOM", "uluna")
	cc.ReferenceSymbol = getEnvOrDefault("REFERENCE_SYMBOL", "LUNA")
	cc.ReferenceDecimals = getEnvOrDefaultInt("REFERENCE_DECIMALS", 6)
	return nil
}

func (cc *ChainConfig) Validate() error {
	if cc.LCDUrl == "" || cc.ReferenceDenom == "" {
		return errors.New("invalid chain config")
	}
	return nil
}
