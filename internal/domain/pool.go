package domain

// Provenance records which data source produced a canonical pool record.
type Provenance string

const (
	ProvenancePrimary   Provenance = "primary"
	ProvenanceSecondary Provenance = "secondary"
	ProvenanceBoth      Provenance = "both"
)

// Pool is the canonical, post-unification view of a liquidity venue.
// ID is the numeric pool id as a string, unique within the chain.
// PriceUSD is the USD price of the base token quoted in quote-token terms.
// NativePrice is the base/quote ratio kept as a decimal string so downstream
// math can run on fixed-point decimals instead of floats.
type Pool struct {
	ID           string     `json:"id"`
	Address      string     `json:"address"`
	Base         Token      `json:"base"`
	Quote        Token      `json:"quote"`
	LiquidityUSD float64    `json:"liquidityUsd"`
	PriceUSD     float64    `json:"priceUsd"`
	NativePrice  string     `json:"nativePrice"`
	Provider     string     `json:"provider"`
	Provenance   Provenance `json:"provenance"`
}

// HasToken reports whether addr sits on either side of the pool.
func (p *Pool) HasToken(addr string) bool {
	return p.Base.Address == addr || p.Quote.Address == addr
}

// IsBase reports whether addr is the base side. Callers must have checked
// HasToken first when direction matters.
func (p *Pool) IsBase(addr string) bool {
	return p.Base.Address == addr
}

// TokenByAddress returns the side matching addr, or a zero Token.
func (p *Pool) TokenByAddress(addr string) Token {
	switch addr {
	case p.Base.Address:
		return p.Base
	case p.Quote.Address:
		return p.Quote
	}
	return Token{}
}

// OtherToken returns the side opposite to addr, or a zero Token when addr is
// not in the pool.
func (p *Pool) OtherToken(addr string) Token {
	switch addr {
	case p.Base.Address:
		return p.Quote
	case p.Quote.Address:
		return p.Base
	}
	return Token{}
}

// SharedToken returns the address held by both pools, if any. This is the
// bridge token between a baseline and a target pool.
func SharedToken(a, b *Pool) (string, bool) {
	for _, addr := range []string{a.Base.Address, a.Quote.Address} {
		if b.HasToken(addr) {
			return addr, true
		}
	}
	return "", false
}

// PoolSet is the unified canonical pool mapping for one token query,
// keyed by pool id.
type PoolSet map[string]*Pool

// FindWithPair returns the highest-liquidity pool containing both addresses.
func (s PoolSet) FindWithPair(addrA, addrB string) *Pool {
	var best *Pool
	for _, p := range s {
		if !p.HasToken(addrA) || !p.HasToken(addrB) {
			continue
		}
		if best == nil || p.LiquidityUSD > best.LiquidityUSD {
			best = p
		}
	}
	return best
}
