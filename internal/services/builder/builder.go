// Package builder converts a resolved hop sequence into fee-aware,
// slippage-bounded swap instructions and decides whether the loop repays
// the loan. All amount math runs on 18-decimal fixed-point decimals.
package builder

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"cosmossdk.io/math"
	"github.com/rs/zerolog/log"

	"github.com/hxuan190/arb-engine/internal/domain"
	"github.com/hxuan190/arb-engine/internal/services/planner"
)

var (
	ErrUnresolvedHop = errors.New("hop has no resolved pool")
	ErrInvalidPoolID = errors.New("pool id is not numeric")
	ErrInvalidPrice  = errors.New("pool price is missing or non-positive")
	ErrZeroAmount    = errors.New("intermediate amount rounded to zero")
	ErrInvalidLoan   = errors.New("loan amount is not a positive decimal")
)

// FeeSource resolves a pool id to its fee string; sentinel values mean the
// fee could not be determined.
type FeeSource interface {
	PoolFee(ctx context.Context, poolID string) string
}

// Result is everything a build produces. Plan is nil unless every hop
// resolved and the loop is strictly profitable. HopFees always has one
// display entry per hop (decimal string or sentinel) so the route can
// render fees even when the plan was aborted or discarded. Err carries the
// abort reason; a non-profitable loop is not an abort and leaves Err empty.
type Result struct {
	Plan           *domain.ExecutionPlan
	HopFees        []string
	ExpectedReturn string
	Profit         string
	Err            string
}

type Builder struct {
	oracle      FeeSource
	refDenom    string
	loan        math.LegacyDec
	slippage    math.LegacyDec
	fallbackFee math.LegacyDec
}

// New parses the configured decimal strings once. An unparseable config is
// a boot-time failure, not a per-request one.
func New(oracle FeeSource, refDenom, loanAmount, slippageTolerance, fallbackFee string) (*Builder, error) {
	loan, err := math.LegacyNewDecFromStr(loanAmount)
	if err != nil || !loan.IsPositive() {
		return nil, ErrInvalidLoan
	}
	slippage, err := math.LegacyNewDecFromStr(slippageTolerance)
	if err != nil {
		return nil, fmt.Errorf("invalid slippage tolerance %q: %w", slippageTolerance, err)
	}
	fallback, err := math.LegacyNewDecFromStr(fallbackFee)
	if err != nil {
		return nil, fmt.Errorf("invalid fallback fee %q: %w", fallbackFee, err)
	}
	return &Builder{
		oracle:      oracle,
		refDenom:    refDenom,
		loan:        loan,
		slippage:    slippage,
		fallbackFee: fallback,
	}, nil
}

// Build walks the plan hop by hop. Fees are fetched concurrently up front
// so the display fees exist regardless of how the numeric pass ends.
func (b *Builder) Build(ctx context.Context, plan *planner.RoutePlan) Result {
	fees := b.fetchFees(ctx, plan.Hops)
	result := Result{HopFees: fees}

	amount := b.loan
	instructions := make([]domain.SwapInstruction, 0, len(plan.Hops))

	for i := range plan.Hops {
		hop := &plan.Hops[i]
		if hop.Pool == nil {
			result.Err = fmt.Sprintf("hop %d: %v", i+1, ErrUnresolvedHop)
			return result
		}
		if _, err := strconv.ParseUint(hop.Pool.ID, 10, 64); err != nil {
			result.Err = fmt.Sprintf("hop %d (pool %s): %v", i+1, hop.Pool.ID, ErrInvalidPoolID)
			return result
		}

		fee := b.numericFee(fees[i])
		instruction, out, err := b.buildHop(hop, amount, fee)
		if err != nil {
			result.Err = fmt.Sprintf("hop %d (pool %s): %v", i+1, hop.Pool.ID, err)
			return result
		}

		instructions = append(instructions, instruction)
		amount = out
	}

	result.ExpectedReturn = amount.String()
	profit := amount.Sub(b.loan)
	result.Profit = profit.String()

	if !amount.GT(b.loan) {
		// Expected business outcome, not a fault: the plan is discarded
		// and only the computed numbers survive for display.
		log.Debug().
			Str("expected", amount.String()).
			Str("loan", b.loan.String()).
			Msg("[builder] loop not profitable, plan discarded")
		return result
	}

	result.Plan = &domain.ExecutionPlan{
		LoanDenom:      b.refDenom,
		LoanAmount:     b.loan.TruncateInt().String(),
		Instructions:   instructions,
		ExpectedReturn: amount.String(),
		Profit:         profit.String(),
		Viable:         true,
	}
	return result
}

// buildHop computes the expected output x * p_applied * (1-fee) * (1-slip)
// and encodes the wire instruction with its belief-price band.
func (b *Builder) buildHop(hop *planner.Hop, amountIn, fee math.LegacyDec) (domain.SwapInstruction, math.LegacyDec, error) {
	pool := hop.Pool

	price, err := math.LegacyNewDecFromStr(pool.NativePrice)
	if err != nil || !price.IsPositive() {
		return domain.SwapInstruction{}, math.LegacyDec{}, ErrInvalidPrice
	}

	// NativePrice is base priced in quote terms. Offering the base side
	// applies it directly; offering the quote side applies the inverse.
	offeringBase := pool.IsBase(hop.From.Address)
	applied := price
	if !offeringBase {
		applied = math.LegacyOneDec().Quo(price)
	}

	one := math.LegacyOneDec()
	out := amountIn.Mul(applied).Mul(one.Sub(fee)).Mul(one.Sub(b.slippage))
	if out.TruncateInt().IsZero() {
		return domain.SwapInstruction{}, math.LegacyDec{}, ErrZeroAmount
	}

	// The belief price sits one slippage increment away from the observed
	// price, widening the acceptable band against the trader: higher when
	// offering the base asset, lower when offering the quote asset.
	belief := price.Mul(one.Add(b.slippage))
	if !offeringBase {
		belief = price.Mul(one.Sub(b.slippage))
	}

	payload := domain.SwapPayload{
		Swap: domain.SwapBody{
			OfferAsset: domain.Asset{
				Denom:  hop.From.Address,
				Amount: amountIn.TruncateInt().String(),
			},
			AskDenom:    hop.To.Address,
			BeliefPrice: belief.String(),
			MaxSpread:   b.slippage.String(),
		},
	}

	msg, err := EncodeSwapPayload(&payload)
	if err != nil {
		return domain.SwapInstruction{}, math.LegacyDec{}, err
	}

	instruction := domain.SwapInstruction{
		PoolID:   pool.ID,
		Contract: pool.Address,
		Msg:      msg,
		Funds: []domain.Asset{{
			Denom:  hop.From.Address,
			Amount: amountIn.TruncateInt().String(),
		}},
	}
	return instruction, out, nil
}

// fetchFees resolves every hop's fee concurrently; a failed or sentinel
// lookup keeps its sentinel for display and falls back numerically.
func (b *Builder) fetchFees(ctx context.Context, hops []planner.Hop) []string {
	fees := make([]string, len(hops))

	var wg sync.WaitGroup
	for i := range hops {
		if hops[i].Pool == nil {
			fees[i] = domain.FeeNotAvailable
			continue
		}
		wg.Add(1)
		go func(i int, poolID string) {
			defer wg.Done()
			fees[i] = b.oracle.PoolFee(ctx, poolID)
		}(i, hops[i].Pool.ID)
	}
	wg.Wait()
	return fees
}

// numericFee converts a display fee to the decimal used in hop math,
// substituting the fallback for sentinels and garbage.
func (b *Builder) numericFee(fee string) math.LegacyDec {
	switch fee {
	case domain.FeeNotAvailable, domain.FeeError, "", "0":
		return b.fallbackFee
	}
	parsed, err := math.LegacyNewDecFromStr(fee)
	if err != nil || parsed.IsNegative() {
		return b.fallbackFee
	}
	return parsed
}
