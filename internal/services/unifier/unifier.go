// Package unifier merges the two data sources' raw pool listings into one
// canonical pool set keyed by numeric pool id.
package unifier

import (
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/hxuan190/arb-engine/internal/adapters/sources"
	"github.com/hxuan190/arb-engine/internal/domain"
)

// Unify seeds the map from the secondary catalog, then overlays the primary
// source's records: an id collision enriches the existing pool with the
// primary source's more detailed fields and marks it ProvenanceBoth, a new
// id inserts as ProvenancePrimary. Records whose id cannot be derived are
// dropped with a warning, never inserted. Output is deterministic for a
// given pair of inputs.
func Unify(catalog []sources.CatalogEntry, pairs []sources.PrimaryPair) domain.PoolSet {
	set := make(domain.PoolSet, len(catalog)+len(pairs))

	for _, entry := range catalog {
		if entry.PoolID <= 0 {
			log.Warn().Str("address", entry.PoolAddress).Msg("[unifier] catalog entry without pool id, dropped")
			continue
		}
		if entry.BaseAddress == entry.QuoteAddress {
			log.Warn().Int64("poolId", entry.PoolID).Msg("[unifier] catalog entry with identical sides, dropped")
			continue
		}

		id := strconv.FormatInt(entry.PoolID, 10)
		set[id] = &domain.Pool{
			ID:      id,
			Address: entry.PoolAddress,
			Base: domain.Token{
				Symbol:  entry.BaseSymbol,
				Address: entry.BaseAddress,
			},
			Quote: domain.Token{
				Symbol:  entry.QuoteSymbol,
				Address: entry.QuoteAddress,
			},
			LiquidityUSD: entry.LiquidityUSD,
			PriceUSD:     entry.Price,
			Provider:     "catalog",
			Provenance:   domain.ProvenanceSecondary,
		}
	}

	for i := range pairs {
		pair := &pairs[i]
		id, ok := DerivePoolID(pair)
		if !ok {
			log.Warn().Str("pairAddress", pair.PairAddress).Msg("[unifier] primary pair without derivable pool id, dropped")
			continue
		}
		if pair.BaseToken.Address == pair.QuoteToken.Address {
			log.Warn().Str("poolId", id).Msg("[unifier] primary pair with identical sides, dropped")
			continue
		}

		priceUSD, _ := strconv.ParseFloat(pair.PriceUSD, 64)

		if existing, found := set[id]; found {
			existing.PriceUSD = priceUSD
			existing.LiquidityUSD = pair.Liquidity.USD
			existing.NativePrice = pair.PriceNative
			existing.Base = tokenFromPrimary(pair.BaseToken)
			existing.Quote = tokenFromPrimary(pair.QuoteToken)
			if pair.DexID != "" {
				existing.Provider = pair.DexID
			}
			existing.Provenance = domain.ProvenanceBoth
			continue
		}

		set[id] = &domain.Pool{
			ID:           id,
			Address:      pair.PairAddress,
			Base:         tokenFromPrimary(pair.BaseToken),
			Quote:        tokenFromPrimary(pair.QuoteToken),
			LiquidityUSD: pair.Liquidity.USD,
			PriceUSD:     priceUSD,
			NativePrice:  pair.PriceNative,
			Provider:     pair.DexID,
			Provenance:   domain.ProvenancePrimary,
		}
	}

	return set
}

// DerivePoolID resolves a primary pair's numeric pool id: the explicit id
// field first, then a fully numeric pair address, then the address prefix
// before the separator. Anything else is underivable.
func DerivePoolID(pair *sources.PrimaryPair) (string, bool) {
	if isNumeric(pair.PoolID) {
		return pair.PoolID, true
	}
	if isNumeric(pair.PairAddress) {
		return pair.PairAddress, true
	}
	if prefix, _, found := strings.Cut(pair.PairAddress, "-"); found && isNumeric(prefix) {
		return prefix, true
	}
	return "", false
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	_, err := strconv.ParseUint(s, 10, 64)
	return err == nil
}

func tokenFromPrimary(t sources.PrimaryToken) domain.Token {
	return domain.Token{
		Symbol:   t.Symbol,
		Address:  t.Address,
		Decimals: t.Decimals,
	}
}
