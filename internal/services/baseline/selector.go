// Package baseline picks the cheapest venue for a token out of the unified
// pool set. The result anchors every route: the baseline pool is where the
// loan buys, and any pool priced sufficiently above it is an arbitrage
// target.
package baseline

import (
	"sort"

	"cosmossdk.io/math"
	"github.com/rs/zerolog/log"

	"github.com/hxuan190/arb-engine/internal/domain"
)

// candidateBand is how close (fractionally) a non-baseline pool must be to
// the running minimum to be kept as the runner-up when no reference-asset
// baseline exists yet.
const candidateBand = 1.01

type Selector struct {
	refDenom        string
	minLiquidityUSD float64
}

func New(refDenom string, minLiquidityUSD float64) *Selector {
	return &Selector{refDenom: refDenom, minLiquidityUSD: minLiquidityUSD}
}

// Select scans the liquidity-filtered pools holding tokenAddr and returns
// the minimum-price pool plus a plausible next-cheapest candidate.
//
// Tie-break: once a reference-asset pool holds the running minimum, a
// cheaper pool without the reference asset never displaces it. The returned
// baseline price is therefore not always the global minimum of the filtered
// set; the preference for reference-asset depth is deliberate. Iteration
// runs in pool-id order so the outcome is reproducible.
func (s *Selector) Select(set domain.PoolSet, tokenAddr string) *domain.BaselineSelection {
	filtered := s.filter(set, tokenAddr)

	sel := &domain.BaselineSelection{Filtered: filtered}
	var (
		baselineHasRef bool
		minPrice       float64
	)

	for _, pool := range filtered {
		price, ok := s.priceOf(pool, tokenAddr)
		if !ok {
			log.Debug().Str("poolId", pool.ID).Msg("[baseline] pool without usable price, skipped")
			continue
		}
		hasRef := pool.HasToken(s.refDenom)

		if sel.Baseline == nil {
			sel.Baseline = pool
			baselineHasRef = hasRef
			minPrice = price
			continue
		}

		if price < minPrice {
			if hasRef || !baselineHasRef {
				sel.Candidate = sel.Baseline
				sel.Baseline = pool
				baselineHasRef = hasRef
				minPrice = price
			} else {
				// Cheaper but no reference asset: the fixed baseline
				// stands, the cheaper pool becomes the displacement
				// signal.
				sel.Candidate = pool
			}
			continue
		}

		if !baselineHasRef && pool != sel.Baseline && price <= minPrice*candidateBand {
			sel.Candidate = pool
		}
	}

	sel.MinPrice = minPrice
	return sel
}

// PriceOf exposes the per-pool USD price of the token for callers deciding
// which pools qualify as targets.
func (s *Selector) PriceOf(pool *domain.Pool, tokenAddr string) (float64, bool) {
	return s.priceOf(pool, tokenAddr)
}

func (s *Selector) filter(set domain.PoolSet, tokenAddr string) []*domain.Pool {
	ids := make([]string, 0, len(set))
	for id, pool := range set {
		if pool.LiquidityUSD > s.minLiquidityUSD && pool.HasToken(tokenAddr) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	filtered := make([]*domain.Pool, 0, len(ids))
	for _, id := range ids {
		filtered = append(filtered, set[id])
	}
	return filtered
}

// priceOf computes the USD price of tokenAddr in the pool. When the token
// is the quote side, the quoted USD price refers to the base token and has
// to be divided by the native base/quote ratio.
func (s *Selector) priceOf(pool *domain.Pool, tokenAddr string) (float64, bool) {
	if pool.PriceUSD <= 0 {
		return 0, false
	}
	if pool.IsBase(tokenAddr) {
		return pool.PriceUSD, true
	}

	native, err := math.LegacyNewDecFromStr(pool.NativePrice)
	if err != nil || native.IsZero() {
		return 0, false
	}
	inverted := math.LegacyOneDec().Quo(native)
	return inverted.MustFloat64() * pool.PriceUSD, true
}
