package planner

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hxuan190/arb-engine/internal/adapters/sources"
	"github.com/hxuan190/arb-engine/internal/domain"
)

var (
	ref    = domain.Token{Symbol: "LUNA", Address: "uluna"}
	tokenA = domain.Token{Symbol: "ASTRO", Address: "astro"}
	tokenB = domain.Token{Symbol: "USDC", Address: "uusdc"}
	tokenC = domain.Token{Symbol: "MARS", Address: "mars"}
)

type fakeSearcher struct {
	pairs []sources.PrimaryPair
	err   error
	calls int
}

func (f *fakeSearcher) Search(ctx context.Context, query string) ([]sources.PrimaryPair, error) {
	f.calls++
	return f.pairs, f.err
}

type fakeVerifier map[string]bool

func (f fakeVerifier) HasPool(poolID string) bool { return f[poolID] }

func pool(id string, a, b domain.Token, liquidity float64) *domain.Pool {
	return &domain.Pool{ID: id, Base: a, Quote: b, LiquidityUSD: liquidity, Provider: "astroport"}
}

func asSet(pools ...*domain.Pool) domain.PoolSet {
	set := make(domain.PoolSet, len(pools))
	for _, p := range pools {
		set[p.ID] = p
	}
	return set
}

func newPlanner(search ExternalSearcher, verifier CatalogVerifier) *Planner {
	if search == nil {
		search = &fakeSearcher{}
	}
	if verifier == nil {
		verifier = fakeVerifier{}
	}
	return New(ref, 1000, nil, search, verifier)
}

func TestClassifyTopologies(t *testing.T) {
	cases := []struct {
		name     string
		baseline *domain.Pool
		target   *domain.Pool
		kind     TopologyKind
		hops     int
	}{
		{
			name:     "both hold reference",
			baseline: pool("1", ref, tokenA, 10000),
			target:   pool("2", tokenA, ref, 10000),
			kind:     Direct,
			hops:     2,
		},
		{
			name:     "only baseline holds reference",
			baseline: pool("1", ref, tokenA, 10000),
			target:   pool("2", tokenA, tokenB, 10000),
			kind:     BridgeViaBaseline,
			hops:     3,
		},
		{
			name:     "only target holds reference",
			baseline: pool("1", tokenA, tokenB, 10000),
			target:   pool("2", tokenB, ref, 10000),
			kind:     BridgeViaTarget,
			hops:     3,
		},
		{
			name:     "neither holds reference",
			baseline: pool("1", tokenA, tokenB, 10000),
			target:   pool("2", tokenB, tokenC, 10000),
			kind:     FourHop,
			hops:     4,
		},
	}

	p := newPlanner(nil, nil)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			plan := p.Plan(context.Background(), domain.PoolSet{}, tc.baseline, tc.target)
			assert.Equal(t, tc.kind, plan.Kind)
			assert.Equal(t, tc.hops, tc.kind.HopCount())
			assert.Len(t, plan.Hops, tc.hops)
		})
	}
}

func TestPlanDirect(t *testing.T) {
	baseline := pool("1", ref, tokenA, 10000)
	target := pool("2", tokenA, ref, 10000)

	p := newPlanner(nil, nil)
	plan := p.Plan(context.Background(), asSet(baseline, target), baseline, target)

	require.Len(t, plan.Hops, 2)
	assert.Equal(t, ref, plan.Hops[0].From)
	assert.Equal(t, tokenA, plan.Hops[0].To)
	assert.Equal(t, baseline, plan.Hops[0].Pool)
	assert.Equal(t, RoleBaseline, plan.Hops[0].Role)

	assert.Equal(t, tokenA, plan.Hops[1].From)
	assert.Equal(t, ref, plan.Hops[1].To)
	assert.Equal(t, target, plan.Hops[1].Pool)
	assert.Equal(t, RoleTarget, plan.Hops[1].Role)
}

func TestPlanBridgeViaBaselineResolvesFromSet(t *testing.T) {
	baseline := pool("1", ref, tokenA, 10000)
	target := pool("2", tokenA, tokenB, 10000)
	bridgeLow := pool("3", tokenB, ref, 5000)
	bridgeHigh := pool("4", tokenB, ref, 50000)

	p := newPlanner(nil, nil)
	plan := p.Plan(context.Background(), asSet(baseline, target, bridgeLow, bridgeHigh), baseline, target)

	require.Len(t, plan.Hops, 3)
	exit := plan.Hops[2]
	assert.Equal(t, RoleIntermediary, exit.Role)
	assert.Equal(t, tokenB, exit.From)
	assert.Equal(t, ref, exit.To)
	require.NotNil(t, exit.Pool)
	assert.Equal(t, "4", exit.Pool.ID, "highest-liquidity pair wins")
}

func TestPlanBridgeViaTargetOrdering(t *testing.T) {
	baseline := pool("1", tokenA, tokenB, 10000)
	target := pool("2", tokenB, ref, 10000)
	enterPool := pool("3", ref, tokenA, 10000)

	p := newPlanner(nil, nil)
	plan := p.Plan(context.Background(), asSet(baseline, target, enterPool), baseline, target)

	require.Len(t, plan.Hops, 3)
	assert.Equal(t, RoleIntermediary, plan.Hops[0].Role)
	assert.Equal(t, enterPool, plan.Hops[0].Pool)
	assert.Equal(t, RoleBaseline, plan.Hops[1].Role)
	assert.Equal(t, baseline, plan.Hops[1].Pool)
	assert.Equal(t, RoleTarget, plan.Hops[2].Role)

	// ref -> A -> B -> ref
	assert.Equal(t, ref, plan.Hops[0].From)
	assert.Equal(t, tokenA, plan.Hops[0].To)
	assert.Equal(t, tokenB, plan.Hops[1].To)
	assert.Equal(t, ref, plan.Hops[2].To)
}

func TestPlanFourHop(t *testing.T) {
	baseline := pool("1", tokenA, tokenB, 10000)
	target := pool("2", tokenB, tokenC, 10000)
	enter := pool("3", ref, tokenA, 10000)
	exit := pool("4", tokenC, ref, 10000)

	p := newPlanner(nil, nil)
	plan := p.Plan(context.Background(), asSet(baseline, target, enter, exit), baseline, target)

	require.Len(t, plan.Hops, 4)
	assert.Equal(t, enter, plan.Hops[0].Pool)
	assert.Equal(t, baseline, plan.Hops[1].Pool)
	assert.Equal(t, target, plan.Hops[2].Pool)
	assert.Equal(t, exit, plan.Hops[3].Pool)

	// Every hop chains into the next.
	for i := 1; i < len(plan.Hops); i++ {
		assert.Equal(t, plan.Hops[i-1].To, plan.Hops[i].From)
	}
}

func TestPlanNoSharedTokenAnnotatesHops(t *testing.T) {
	// Baseline and target have no token in common: the bridge cannot be
	// determined, yet the full hop skeleton must survive.
	baseline := pool("1", tokenA, tokenB, 10000)
	target := pool("2", tokenC, domain.Token{Symbol: "OSMO", Address: "uosmo"}, 10000)

	p := newPlanner(nil, nil)
	plan := p.Plan(context.Background(), asSet(baseline, target), baseline, target)

	require.Len(t, plan.Hops, 4)
	for i, hop := range plan.Hops {
		assert.Nil(t, hop.Pool, "hop %d", i)
		assert.NotEmpty(t, hop.Err, "hop %d", i)
	}
}

func TestPlanOverrideTable(t *testing.T) {
	baseline := pool("1", ref, tokenA, 10000)
	target := pool("2", tokenA, tokenB, 10000)
	pinned := pool("7", tokenB, ref, 100)
	organic := pool("8", tokenB, ref, 90000)

	overrides := make(Overrides)
	overrides.Set(tokenB.Address, ref.Address, "7")

	p := New(ref, 1000, overrides, &fakeSearcher{}, fakeVerifier{})
	plan := p.Plan(context.Background(), asSet(baseline, target, pinned, organic), baseline, target)

	require.NotNil(t, plan.Hops[2].Pool)
	assert.Equal(t, "7", plan.Hops[2].Pool.ID, "override wins over liquidity")
}

func TestPlanExternalSearchFallback(t *testing.T) {
	baseline := pool("1", ref, tokenA, 10000)
	target := pool("2", tokenA, tokenB, 10000)

	match := sources.PrimaryPair{
		PoolID:      "55",
		BaseToken:   sources.PrimaryToken{Address: tokenB.Address, Symbol: tokenB.Symbol},
		QuoteToken:  sources.PrimaryToken{Address: ref.Address, Symbol: ref.Symbol},
		PriceNative: "0.5",
	}
	match.Liquidity.USD = 20000

	search := &fakeSearcher{pairs: []sources.PrimaryPair{match}}
	verifier := fakeVerifier{"55": true}

	p := New(ref, 1000, nil, search, verifier)
	plan := p.Plan(context.Background(), asSet(baseline, target), baseline, target)

	exit := plan.Hops[2]
	require.NotNil(t, exit.Pool)
	assert.Equal(t, "55", exit.Pool.ID)
	assert.False(t, exit.LowConfidence, "exact address match is high confidence")
	assert.Equal(t, 1, search.calls)
}

func TestPlanExternalSearchSymbolOnlyIsLowConfidence(t *testing.T) {
	baseline := pool("1", ref, tokenA, 10000)
	target := pool("2", tokenA, tokenB, 10000)

	// Same symbols, different addresses: a symbol-only match.
	match := sources.PrimaryPair{
		PoolID:      "56",
		BaseToken:   sources.PrimaryToken{Address: "uusdc.axl", Symbol: tokenB.Symbol},
		QuoteToken:  sources.PrimaryToken{Address: "uluna2", Symbol: ref.Symbol},
		PriceNative: "0.5",
	}
	match.Liquidity.USD = 20000

	p := New(ref, 1000, nil, &fakeSearcher{pairs: []sources.PrimaryPair{match}}, fakeVerifier{"56": true})
	plan := p.Plan(context.Background(), asSet(baseline, target), baseline, target)

	exit := plan.Hops[2]
	require.NotNil(t, exit.Pool)
	assert.True(t, exit.LowConfidence)
}

func TestPlanExternalSearchRejectsUnverifiedPool(t *testing.T) {
	baseline := pool("1", ref, tokenA, 10000)
	target := pool("2", tokenA, tokenB, 10000)

	match := sources.PrimaryPair{
		PoolID:     "55",
		BaseToken:  sources.PrimaryToken{Address: tokenB.Address, Symbol: tokenB.Symbol},
		QuoteToken: sources.PrimaryToken{Address: ref.Address, Symbol: ref.Symbol},
	}
	match.Liquidity.USD = 20000

	p := New(ref, 1000, nil, &fakeSearcher{pairs: []sources.PrimaryPair{match}}, fakeVerifier{})
	plan := p.Plan(context.Background(), asSet(baseline, target), baseline, target)

	exit := plan.Hops[2]
	assert.Nil(t, exit.Pool)
	assert.Contains(t, exit.Err, "not present in catalog")
}

func TestPlanExternalSearchLiquidityFloor(t *testing.T) {
	baseline := pool("1", ref, tokenA, 10000)
	target := pool("2", tokenA, tokenB, 10000)

	thin := sources.PrimaryPair{
		PoolID:     "55",
		BaseToken:  sources.PrimaryToken{Address: tokenB.Address, Symbol: tokenB.Symbol},
		QuoteToken: sources.PrimaryToken{Address: ref.Address, Symbol: ref.Symbol},
	}
	thin.Liquidity.USD = 10 // below the floor

	p := New(ref, 1000, nil, &fakeSearcher{pairs: []sources.PrimaryPair{thin}}, fakeVerifier{"55": true})
	plan := p.Plan(context.Background(), asSet(baseline, target), baseline, target)

	exit := plan.Hops[2]
	assert.Nil(t, exit.Pool)
	assert.Contains(t, exit.Err, "no intermediary pool found")
}

func TestPlanExternalSearchErrorAnnotatesHop(t *testing.T) {
	baseline := pool("1", ref, tokenA, 10000)
	target := pool("2", tokenA, tokenB, 10000)

	p := New(ref, 1000, nil, &fakeSearcher{err: errors.New("boom")}, fakeVerifier{})
	plan := p.Plan(context.Background(), asSet(baseline, target), baseline, target)

	require.Len(t, plan.Hops, 3)
	exit := plan.Hops[2]
	assert.Nil(t, exit.Pool)
	assert.Contains(t, exit.Err, "boom")
}

func TestOverridesKeyOrderIndependent(t *testing.T) {
	o := make(Overrides)
	o.Set("a", "b", "12")

	id, ok := o.Lookup("b", "a")
	require.True(t, ok)
	assert.Equal(t, "12", id)
}

func TestParseOverrides(t *testing.T) {
	o := ParseOverrides("astro:uluna:7, uusdc:uluna:12 ,bad-entry,::3,")

	require.Len(t, o, 2)
	id, ok := o.Lookup("uluna", "astro")
	require.True(t, ok)
	assert.Equal(t, "7", id)

	id, ok = o.Lookup("uusdc", "uluna")
	require.True(t, ok)
	assert.Equal(t, "12", id)
}

func TestParseOverridesEmpty(t *testing.T) {
	assert.Empty(t, ParseOverrides(""))
}

func TestPlanHonorsParsedOverrides(t *testing.T) {
	baseline := pool("1", ref, tokenA, 10000)
	target := pool("2", tokenA, tokenB, 10000)
	pinned := pool("7", tokenB, ref, 100)
	organic := pool("8", tokenB, ref, 90000)

	overrides := ParseOverrides(tokenB.Address + ":" + ref.Address + ":7")

	p := New(ref, 1000, overrides, &fakeSearcher{}, fakeVerifier{})
	plan := p.Plan(context.Background(), asSet(baseline, target, pinned, organic), baseline, target)

	require.NotNil(t, plan.Hops[2].Pool)
	assert.Equal(t, "7", plan.Hops[2].Pool.ID)
}
