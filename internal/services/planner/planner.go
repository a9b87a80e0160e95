// Package planner turns a baseline/target pool pair into a directed hop
// sequence that starts and ends at the reference asset. Planning never
// fails outright: an unresolved intermediary leaves its hop annotated and
// the sequence structurally intact.
package planner

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/hxuan190/arb-engine/internal/adapters/sources"
	"github.com/hxuan190/arb-engine/internal/domain"
	"github.com/hxuan190/arb-engine/internal/services/unifier"
)

// Hop roles, surfaced on route steps as part of the provider label.
const (
	RoleBaseline     = "baseline"
	RoleTarget       = "target"
	RoleIntermediary = "intermediary"
)

// Hop is one directed swap of the plan. Pool is nil when resolution failed;
// Err then says why. LowConfidence marks intermediaries matched by symbol
// only, which is inherently ambiguous.
type Hop struct {
	From          domain.Token
	To            domain.Token
	Pool          *domain.Pool
	Role          string
	LowConfidence bool
	Err           string
}

// RoutePlan is the planner's output: a fixed-length hop sequence for the
// detected topology plus the reference token the loop starts and ends on.
type RoutePlan struct {
	Kind     TopologyKind
	Ref      domain.Token
	Baseline *domain.Pool
	Target   *domain.Pool
	Hops     []Hop
}

// ExternalSearcher is the primary source's search surface, used as the
// intermediary fallback when the unified set has no matching pool.
type ExternalSearcher interface {
	Search(ctx context.Context, query string) ([]sources.PrimaryPair, error)
}

// CatalogVerifier answers whether a pool id exists in the secondary
// source's cached catalog. External matches must pass it before acceptance.
type CatalogVerifier interface {
	HasPool(poolID string) bool
}

type Planner struct {
	ref             domain.Token
	minLiquidityUSD float64
	overrides       Overrides
	search          ExternalSearcher
	verifier        CatalogVerifier
}

func New(ref domain.Token, minLiquidityUSD float64, overrides Overrides, search ExternalSearcher, verifier CatalogVerifier) *Planner {
	if overrides == nil {
		overrides = make(Overrides)
	}
	return &Planner{
		ref:             ref,
		minLiquidityUSD: minLiquidityUSD,
		overrides:       overrides,
		search:          search,
		verifier:        verifier,
	}
}

// Plan classifies the topology and assembles the hop sequence, resolving
// intermediaries as it goes.
func (p *Planner) Plan(ctx context.Context, set domain.PoolSet, baseline, target *domain.Pool) *RoutePlan {
	topo := classify(baseline, target, p.ref.Address)

	plan := &RoutePlan{
		Kind:     topo.kind(),
		Ref:      p.ref,
		Baseline: baseline,
		Target:   target,
	}

	switch t := topo.(type) {
	case directTopology:
		plan.Hops = []Hop{
			{From: p.ref, To: t.tokenA, Pool: baseline, Role: RoleBaseline},
			{From: t.tokenA, To: p.ref, Pool: target, Role: RoleTarget},
		}

	case bridgeViaBaselineTopology:
		exit := p.resolveIntermediary(ctx, set, t.tokenB, p.ref)
		plan.Hops = []Hop{
			{From: p.ref, To: t.tokenA, Pool: baseline, Role: RoleBaseline},
			{From: t.tokenA, To: t.tokenB, Pool: target, Role: RoleTarget},
			exit,
		}

	case bridgeViaTargetTopology:
		enter := p.resolveIntermediary(ctx, set, p.ref, t.tokenA)
		plan.Hops = []Hop{
			enter,
			{From: t.tokenA, To: t.tokenB, Pool: baseline, Role: RoleBaseline},
			{From: t.tokenB, To: p.ref, Pool: target, Role: RoleTarget},
		}

	case fourHopTopology:
		enter := p.resolveIntermediary(ctx, set, p.ref, t.tokenA)
		exit := p.resolveIntermediary(ctx, set, t.tokenC, p.ref)
		plan.Hops = []Hop{
			enter,
			{From: t.tokenA, To: t.tokenB, Pool: baseline, Role: RoleBaseline},
			{From: t.tokenB, To: t.tokenC, Pool: target, Role: RoleTarget},
			exit,
		}
	}

	p.annotateUnresolvedTokens(plan)
	return plan
}

// resolveIntermediary finds a pool trading from -> to. Order: the pinned
// override table, the best-liquidity match in the unified set, then the
// external search-and-verify fallback.
func (p *Planner) resolveIntermediary(ctx context.Context, set domain.PoolSet, from, to domain.Token) Hop {
	hop := Hop{From: from, To: to, Role: RoleIntermediary}
	if from.IsZero() || to.IsZero() {
		hop.Err = "intermediary endpoints unresolved: pools share no token"
		return hop
	}

	if id, ok := p.overrides.Lookup(from.Address, to.Address); ok {
		if pool, found := set[id]; found && pool.HasToken(from.Address) && pool.HasToken(to.Address) {
			hop.Pool = pool
			return hop
		}
		log.Warn().Str("poolId", id).Msg("[planner] override pool absent from unified set, falling through")
	}

	if pool := set.FindWithPair(from.Address, to.Address); pool != nil {
		hop.Pool = pool
		return hop
	}

	pool, lowConfidence, err := p.searchExternal(ctx, from, to)
	if err != nil {
		hop.Err = err.Error()
		return hop
	}
	hop.Pool = pool
	hop.LowConfidence = lowConfidence
	return hop
}

// searchExternal queries the primary source by symbol, keeps pairs above
// the liquidity floor that hold both endpoints, prefers an exact address
// match over a symbol-only match, and verifies the winner's pool id against
// the cached catalog before accepting it.
func (p *Planner) searchExternal(ctx context.Context, from, to domain.Token) (*domain.Pool, bool, error) {
	query := from.Symbol
	if query == "" || from.Address == p.ref.Address {
		query = to.Symbol
	}

	pairs, err := p.search.Search(ctx, query)
	if err != nil {
		return nil, false, fmt.Errorf("intermediary search for %s/%s failed: %w", from.Symbol, to.Symbol, err)
	}

	var (
		exact      *sources.PrimaryPair
		symbolOnly *sources.PrimaryPair
	)
	for i := range pairs {
		pair := &pairs[i]
		if pair.Liquidity.USD < p.minLiquidityUSD {
			continue
		}
		if pairHasAddress(pair, from.Address) && pairHasAddress(pair, to.Address) {
			if exact == nil || pair.Liquidity.USD > exact.Liquidity.USD {
				exact = pair
			}
			continue
		}
		if pairHasSymbol(pair, from.Symbol) && pairHasSymbol(pair, to.Symbol) {
			if symbolOnly == nil || pair.Liquidity.USD > symbolOnly.Liquidity.USD {
				symbolOnly = pair
			}
		}
	}

	match := exact
	lowConfidence := false
	if match == nil {
		match = symbolOnly
		lowConfidence = true
	}
	if match == nil {
		return nil, false, fmt.Errorf("no intermediary pool found for %s/%s", from.Symbol, to.Symbol)
	}

	id, ok := unifier.DerivePoolID(match)
	if !ok {
		return nil, false, fmt.Errorf("intermediary candidate %s has no derivable pool id", match.PairAddress)
	}
	if !p.verifier.HasPool(id) {
		return nil, false, fmt.Errorf("intermediary pool %s not present in catalog", id)
	}

	pools := unifier.Unify(nil, []sources.PrimaryPair{*match})
	pool := pools[id]
	if lowConfidence {
		log.Warn().
			Str("poolId", id).
			Str("pair", from.Symbol+"/"+to.Symbol).
			Msg("[planner] intermediary matched by symbol only")
	}
	return pool, lowConfidence, nil
}

// annotateUnresolvedTokens patches zero tokens left by a missing bridge so
// the hop chain stays renderable; the affected hops carry the explanation.
func (p *Planner) annotateUnresolvedTokens(plan *RoutePlan) {
	for i := range plan.Hops {
		hop := &plan.Hops[i]
		if hop.From.IsZero() || hop.To.IsZero() {
			if hop.Err == "" {
				hop.Err = "hop endpoints could not be determined"
			}
			hop.Pool = nil
		}
	}
}

func pairHasAddress(pair *sources.PrimaryPair, addr string) bool {
	return pair.BaseToken.Address == addr || pair.QuoteToken.Address == addr
}

func pairHasSymbol(pair *sources.PrimaryPair, symbol string) bool {
	if symbol == "" {
		return false
	}
	return pair.BaseToken.Symbol == symbol || pair.QuoteToken.Symbol == symbol
}
