// Package assembler renders a route plan into the display RouteObject. The
// guarantee here is structural: exactly the topology's hop count, one step
// per hop, a token-for-token chain, no matter how much of the plan failed
// to resolve.
package assembler

import (
	"github.com/hxuan190/arb-engine/internal/domain"
	"github.com/hxuan190/arb-engine/internal/services/planner"
)

const (
	unresolvedSymbol   = "UNRESOLVED"
	unresolvedProvider = "unresolved"
)

// Assemble builds the RouteObject from the plan and the per-hop display
// fees produced by the builder. fees may be shorter than the hop count (or
// nil); missing entries render as "N/A".
func Assemble(plan *planner.RoutePlan, fees []string) *domain.RouteObject {
	route := &domain.RouteObject{
		Start: plan.Ref,
		End:   plan.Ref,
		Steps: make([]domain.RouteStep, 0, len(plan.Hops)),
	}

	prevTo := plan.Ref
	for i, hop := range plan.Hops {
		step := domain.RouteStep{
			From:  hop.From,
			To:    hop.To,
			Error: hop.Err,
		}

		if i < len(fees) && fees[i] != "" {
			step.Fee = fees[i]
		} else {
			step.Fee = domain.FeeNotAvailable
		}

		if hop.Pool != nil {
			step.PoolID = hop.Pool.ID
			step.Provider = providerLabel(hop)
		} else {
			step.PoolID = domain.FeeNotAvailable
			step.Provider = unresolvedProvider
			if step.Error == "" {
				step.Error = "pool could not be resolved"
			}
		}

		// Chain repair: a hop whose endpoints never resolved still has
		// to connect to its neighbors, so unresolved tokens become
		// explicit markers instead of gaps.
		if step.From.IsZero() {
			step.From = prevTo
		}
		if step.To.IsZero() {
			if i == len(plan.Hops)-1 {
				step.To = plan.Ref
			} else {
				step.To = domain.Token{
					Symbol:  unresolvedSymbol,
					Address: markerAddress(i),
				}
			}
		}

		prevTo = step.To
		route.Steps = append(route.Steps, step)
	}

	return route
}

// AssembleError is the hard-abort form: a single error-only route used when
// no pool data exists at all and no topology could even be detected.
func AssembleError(ref domain.Token, msg string) *domain.RouteObject {
	return &domain.RouteObject{
		Start: ref,
		End:   ref,
		Steps: []domain.RouteStep{},
		Error: msg,
	}
}

func providerLabel(hop planner.Hop) string {
	label := hop.Pool.Provider
	if label == "" {
		label = hop.Role
	}
	if hop.LowConfidence {
		label += " (low confidence)"
	}
	return label
}

func markerAddress(hopIndex int) string {
	// Distinct per hop so two broken hops in one route stay tellable
	// apart in the rendered chain.
	return "unresolved-" + string(rune('a'+hopIndex))
}
