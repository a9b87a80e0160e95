package baseline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hxuan190/arb-engine/internal/domain"
)

const (
	refDenom  = "uluna"
	tokenAddr = "astro"
)

func refPool(id string, price float64, liquidity float64) *domain.Pool {
	return &domain.Pool{
		ID:           id,
		Base:         domain.Token{Symbol: "ASTRO", Address: tokenAddr},
		Quote:        domain.Token{Symbol: "LUNA", Address: refDenom},
		LiquidityUSD: liquidity,
		PriceUSD:     price,
		NativePrice:  "1",
	}
}

func nonRefPool(id string, price float64, liquidity float64) *domain.Pool {
	return &domain.Pool{
		ID:           id,
		Base:         domain.Token{Symbol: "ASTRO", Address: tokenAddr},
		Quote:        domain.Token{Symbol: "USDC", Address: "uusdc"},
		LiquidityUSD: liquidity,
		PriceUSD:     price,
		NativePrice:  "1",
	}
}

func asSet(pools ...*domain.Pool) domain.PoolSet {
	set := make(domain.PoolSet, len(pools))
	for _, p := range pools {
		set[p.ID] = p
	}
	return set
}

func TestSelectPicksCheapestPool(t *testing.T) {
	s := New(refDenom, 1000)
	set := asSet(
		refPool("1", 2.0, 50000),
		refPool("2", 1.5, 50000),
		refPool("3", 1.8, 50000),
	)

	sel := s.Select(set, tokenAddr)

	require.NotNil(t, sel.Baseline)
	assert.Equal(t, "2", sel.Baseline.ID)
	assert.Equal(t, 1.5, sel.MinPrice)
	assert.Len(t, sel.Filtered, 3)
}

func TestSelectReferencePoolNotDisplacedByCheaperNonRef(t *testing.T) {
	s := New(refDenom, 1000)
	set := asSet(
		refPool("1", 1.5, 50000),
		nonRefPool("2", 1.2, 50000), // cheaper but no reference asset
	)

	sel := s.Select(set, tokenAddr)

	require.NotNil(t, sel.Baseline)
	assert.Equal(t, "1", sel.Baseline.ID)
	// The reported minimum follows the fixed baseline, not the global
	// cheapest pool.
	assert.Equal(t, 1.5, sel.MinPrice)
	require.NotNil(t, sel.Candidate)
	assert.Equal(t, "2", sel.Candidate.ID)
}

func TestSelectCheaperReferencePoolDisplacesBaseline(t *testing.T) {
	s := New(refDenom, 1000)
	set := asSet(
		refPool("1", 1.5, 50000),
		refPool("2", 1.2, 50000),
	)

	sel := s.Select(set, tokenAddr)

	require.NotNil(t, sel.Baseline)
	assert.Equal(t, "2", sel.Baseline.ID)
	assert.Equal(t, 1.2, sel.MinPrice)
	require.NotNil(t, sel.Candidate)
	assert.Equal(t, "1", sel.Candidate.ID, "displaced baseline becomes the candidate")
}

func TestSelectNonRefBaselineDisplacedByReferencePool(t *testing.T) {
	s := New(refDenom, 1000)
	set := asSet(
		nonRefPool("1", 1.5, 50000),
		refPool("2", 1.2, 50000),
	)

	sel := s.Select(set, tokenAddr)

	require.NotNil(t, sel.Baseline)
	assert.Equal(t, "2", sel.Baseline.ID)
}

func TestSelectCandidateWithinBandWhenNoRefBaseline(t *testing.T) {
	s := New(refDenom, 1000)
	set := asSet(
		nonRefPool("1", 1.0, 50000),
		nonRefPool("2", 1.005, 50000), // within 1% of the minimum
	)

	sel := s.Select(set, tokenAddr)

	require.NotNil(t, sel.Baseline)
	assert.Equal(t, "1", sel.Baseline.ID)
	require.NotNil(t, sel.Candidate)
	assert.Equal(t, "2", sel.Candidate.ID)
}

func TestSelectLiquidityFilter(t *testing.T) {
	s := New(refDenom, 1000)
	set := asSet(
		refPool("1", 1.0, 999),   // at/below the floor
		refPool("2", 2.0, 1001),
	)

	sel := s.Select(set, tokenAddr)

	require.Len(t, sel.Filtered, 1)
	assert.Equal(t, "2", sel.Baseline.ID)
}

func TestSelectSkipsPoolsWithoutUsablePrice(t *testing.T) {
	s := New(refDenom, 1000)
	noPrice := refPool("1", 0, 50000)
	set := asSet(noPrice, refPool("2", 1.5, 50000))

	sel := s.Select(set, tokenAddr)

	require.NotNil(t, sel.Baseline)
	assert.Equal(t, "2", sel.Baseline.ID)
	// Unpriceable pools still appear in the filtered set for display.
	assert.Len(t, sel.Filtered, 2)
}

func TestSelectEmptySet(t *testing.T) {
	s := New(refDenom, 1000)

	sel := s.Select(domain.PoolSet{}, tokenAddr)

	assert.Nil(t, sel.Baseline)
	assert.Nil(t, sel.Candidate)
	assert.Empty(t, sel.Filtered)
}

func TestPriceOfQuoteSide(t *testing.T) {
	s := New(refDenom, 1000)
	// The token sits on the quote side: the pool's USD price refers to the
	// base token and has to be divided by the native base/quote ratio.
	pool := &domain.Pool{
		ID:           "1",
		Base:         domain.Token{Symbol: "LUNA", Address: refDenom},
		Quote:        domain.Token{Symbol: "ASTRO", Address: tokenAddr},
		LiquidityUSD: 50000,
		PriceUSD:     10,
		NativePrice:  "2",
	}

	price, ok := s.PriceOf(pool, tokenAddr)
	require.True(t, ok)
	assert.InDelta(t, 5.0, price, 1e-9)
}

func TestPriceOfQuoteSideMissingNative(t *testing.T) {
	s := New(refDenom, 1000)
	pool := &domain.Pool{
		ID:       "1",
		Base:     domain.Token{Address: refDenom},
		Quote:    domain.Token{Address: tokenAddr},
		PriceUSD: 10,
	}

	_, ok := s.PriceOf(pool, tokenAddr)
	assert.False(t, ok)
}
