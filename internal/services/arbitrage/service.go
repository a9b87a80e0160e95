// Package arbitrage orchestrates the full pipeline: directory fetch,
// unification, baseline selection, route planning, execution-plan building
// and route assembly, per scanned token.
package arbitrage

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	container "github.com/thehyperflames/dicontainer-go"

	"github.com/hxuan190/arb-engine/internal/adapters/chain"
	"github.com/hxuan190/arb-engine/internal/adapters/persistence"
	"github.com/hxuan190/arb-engine/internal/config"
	"github.com/hxuan190/arb-engine/internal/domain"
	"github.com/hxuan190/arb-engine/internal/metrics"
	"github.com/hxuan190/arb-engine/internal/services/assembler"
	"github.com/hxuan190/arb-engine/internal/services/baseline"
	"github.com/hxuan190/arb-engine/internal/services/builder"
	"github.com/hxuan190/arb-engine/internal/services/directory"
	"github.com/hxuan190/arb-engine/internal/services/planner"
	"github.com/hxuan190/arb-engine/internal/services/unifier"
)

const ARBITRAGE_SERVICE = "arbitrage-service"

var (
	ErrNoPoolData      = errors.New("no pool data for token")
	ErrNoBaseline      = errors.New("no baseline pool above liquidity threshold")
	ErrNoOpportunities = errors.New("no qualifying opportunities")
)

// Opportunity is one over-priced target pool with its planned route and,
// when the loop cleared the profitability gate, the executable plan.
type Opportunity struct {
	Target   *domain.Pool          `json:"target"`
	PriceGap float64               `json:"priceGap"`
	Route    *domain.RouteObject   `json:"route"`
	Plan     *domain.ExecutionPlan `json:"plan,omitempty"`
}

// ScanResult is everything one token scan produces. Route errors and plan
// aborts live inside the opportunities; Error at this level only marks the
// hard aborts where nothing could be computed at all.
type ScanResult struct {
	Token         domain.Token              `json:"token"`
	Selection     *domain.BaselineSelection `json:"selection,omitempty"`
	Opportunities []Opportunity             `json:"opportunities"`
	Route         *domain.RouteObject       `json:"route,omitempty"`
	Error         string                    `json:"error,omitempty"`
}

type Service struct {
	container.BaseDIInstance

	directorySvc *directory.Service
	storageSvc   *persistence.Service

	oracle   *chain.FeeOracle
	selector *baseline.Selector
	planner  *planner.Planner
	builder  *builder.Builder

	ref     domain.Token
	arbConf *config.ArbitrageConfig
}

func (svc *Service) ID() string {
	return ARBITRAGE_SERVICE
}

func (svc *Service) Configure(c container.IContainer) error {
	chainConf := c.GetConfig(config.CHAIN_CONFIG_KEY).(*config.ChainConfig)
	svc.arbConf = c.GetConfig(config.ARBITRAGE_CONFIG_KEY).(*config.ArbitrageConfig)
	svc.directorySvc = c.Instance(directory.DIRECTORY_SERVICE).(*directory.Service)
	svc.storageSvc = c.Instance(persistence.STORAGE_SERVICE).(*persistence.Service)

	svc.ref = domain.Token{
		Symbol:   chainConf.ReferenceSymbol,
		Address:  chainConf.ReferenceDenom,
		Decimals: chainConf.ReferenceDecimals,
	}

	svc.oracle = chain.NewFeeOracle(chainConf.LCDUrl)
	svc.selector = baseline.New(svc.ref.Address, svc.arbConf.MinLiquidityUSD)
	svc.planner = planner.New(
		svc.ref,
		svc.arbConf.MinLiquidityUSD,
		planner.ParseOverrides(svc.arbConf.PoolOverrides),
		svc.directorySvc,
		svc.directorySvc.Catalog(),
	)

	b, err := builder.New(
		svc.oracle,
		svc.ref.Address,
		svc.arbConf.LoanAmount,
		svc.arbConf.SlippageTolerance,
		svc.arbConf.FallbackFee,
	)
	if err != nil {
		return err
	}
	svc.builder = b
	return nil
}

func (svc *Service) Start() error {
	return nil
}

func (svc *Service) Stop() error {
	return nil
}

// Pools returns the unified canonical pool set for a token.
func (svc *Service) Pools(ctx context.Context, tokenAddr string) (domain.PoolSet, error) {
	combined := svc.directorySvc.FetchCombined(ctx, tokenAddr)
	if len(combined.Pairs) == 0 && len(combined.Catalog) == 0 {
		return nil, ErrNoPoolData
	}
	return unifier.Unify(combined.Catalog, combined.Pairs), nil
}

// PoolFee is the fee oracle passthrough for the HTTP surface.
func (svc *Service) PoolFee(ctx context.Context, poolID string) string {
	return svc.oracle.PoolFee(ctx, poolID)
}

// Scan runs the whole pipeline for one token. It always returns a result;
// the hard-abort cases carry a single error-only route so the caller still
// has something structurally valid to display.
func (svc *Service) Scan(ctx context.Context, tokenAddr string) *ScanResult {
	start := time.Now()
	defer func() {
		metrics.ScanDuration.Observe(time.Since(start).Seconds())
	}()

	set, err := svc.Pools(ctx, tokenAddr)
	if err != nil {
		metrics.ScanRequests.WithLabelValues("no_data").Inc()
		return &ScanResult{
			Token:         domain.Token{Address: tokenAddr},
			Opportunities: []Opportunity{},
			Route:         assembler.AssembleError(svc.ref, ErrNoPoolData.Error()),
			Error:         ErrNoPoolData.Error(),
		}
	}

	return svc.scanSet(ctx, set, tokenAddr)
}

// scanSet is the pipeline from an already-unified pool set onward.
func (svc *Service) scanSet(ctx context.Context, set domain.PoolSet, tokenAddr string) *ScanResult {
	result := &ScanResult{
		Token:         svc.resolveToken(set, tokenAddr),
		Opportunities: []Opportunity{},
	}

	selection := svc.selector.Select(set, tokenAddr)
	if selection.Baseline == nil {
		metrics.ScanRequests.WithLabelValues("no_baseline").Inc()
		result.Route = assembler.AssembleError(svc.ref, ErrNoBaseline.Error())
		result.Error = ErrNoBaseline.Error()
		return result
	}
	result.Selection = selection

	threshold := selection.MinPrice * svc.arbConf.GapMultiplier
	for _, pool := range selection.Filtered {
		if pool == selection.Baseline {
			continue
		}
		price, ok := svc.selector.PriceOf(pool, tokenAddr)
		if !ok || price <= threshold {
			continue
		}
		metrics.OpportunitiesFound.Inc()
		result.Opportunities = append(result.Opportunities, svc.evaluate(ctx, set, selection.Baseline, pool, price/selection.MinPrice))
	}

	metrics.ScanRequests.WithLabelValues("ok").Inc()
	return result
}

// Artifact scans and persists the downloadable pairing for the most
// profitable opportunity, falling back to the first one when none is
// executable.
func (svc *Service) Artifact(ctx context.Context, tokenAddr string) (*domain.Artifact, error) {
	result := svc.Scan(ctx, tokenAddr)
	if result.Error != "" {
		return nil, errors.New(result.Error)
	}
	if len(result.Opportunities) == 0 {
		return nil, ErrNoOpportunities
	}

	best := result.Opportunities[0]
	for _, opp := range result.Opportunities[1:] {
		if opp.Plan != nil && (best.Plan == nil || opp.PriceGap > best.PriceGap) {
			best = opp
		}
	}

	artifact := &domain.Artifact{
		Token:     result.Token,
		Route:     best.Route,
		CreatedAt: time.Now().Unix(),
	}
	if best.Plan != nil {
		artifact.FlashLoan = best.Plan.FlashLoan()
	}

	if svc.storageSvc.Storage != nil {
		if err := svc.storageSvc.Storage.SaveArtifact(artifact); err != nil {
			log.Warn().Str("token", tokenAddr).Err(err).Msg("[arbitrage] failed to persist artifact")
		}
	}
	return artifact, nil
}

func (svc *Service) evaluate(ctx context.Context, set domain.PoolSet, base, target *domain.Pool, gap float64) Opportunity {
	plan := svc.planner.Plan(ctx, set, base, target)
	buildResult := svc.builder.Build(ctx, plan)

	switch {
	case buildResult.Plan != nil:
		metrics.PlansViable.Inc()
	case buildResult.Err != "":
		metrics.PlansDiscarded.WithLabelValues("aborted").Inc()
		log.Debug().Str("target", target.ID).Str("reason", buildResult.Err).Msg("[arbitrage] plan aborted")
	default:
		metrics.PlansDiscarded.WithLabelValues("not_profitable").Inc()
	}

	return Opportunity{
		Target:   target,
		PriceGap: gap,
		Route:    assembler.Assemble(plan, buildResult.HopFees),
		Plan:     buildResult.Plan,
	}
}

// resolveToken recovers symbol and decimals for the scanned address from
// whichever unified pool mentions it.
func (svc *Service) resolveToken(set domain.PoolSet, tokenAddr string) domain.Token {
	for _, pool := range set {
		if token := pool.TokenByAddress(tokenAddr); !token.IsZero() && token.Symbol != "" {
			return token
		}
	}
	return domain.Token{Address: tokenAddr}
}
