package planner

import "github.com/hxuan190/arb-engine/internal/domain"

// TopologyKind tags the four route shapes. Which shape applies depends only
// on whether the baseline and target pools hold the reference asset.
type TopologyKind int

const (
	// Direct: both pools hold the reference asset. ref->A through the
	// baseline, A->ref through the target. 2 hops.
	Direct TopologyKind = iota
	// BridgeViaBaseline: only the baseline holds the reference asset.
	// ref->A (baseline), A->B (target), B->ref (intermediary). 3 hops.
	BridgeViaBaseline
	// BridgeViaTarget: only the target holds the reference asset.
	// ref->A (intermediary), A->B (baseline), B->ref (target). 3 hops.
	BridgeViaTarget
	// FourHop: neither pool holds the reference asset. ref->A
	// (intermediary), A->B (baseline), B->C (target), C->ref
	// (intermediary). 4 hops.
	FourHop
)

func (k TopologyKind) String() string {
	switch k {
	case Direct:
		return "direct"
	case BridgeViaBaseline:
		return "bridge-via-baseline"
	case BridgeViaTarget:
		return "bridge-via-target"
	case FourHop:
		return "four-hop"
	}
	return "unknown"
}

// HopCount is fixed per topology: 2/3/3/4.
func (k TopologyKind) HopCount() int {
	switch k {
	case Direct:
		return 2
	case BridgeViaBaseline, BridgeViaTarget:
		return 3
	case FourHop:
		return 4
	}
	return 0
}

// topology is the tagged variant carrying exactly the tokens its
// hop-construction logic needs.
type topology interface {
	kind() TopologyKind
}

type directTopology struct {
	tokenA domain.Token // the traded token, on both pools
}

type bridgeViaBaselineTopology struct {
	tokenA domain.Token // baseline's non-reference token, shared with target
	tokenB domain.Token // target's other token, bridged home via intermediary
}

type bridgeViaTargetTopology struct {
	tokenA domain.Token // baseline's token not shared with target
	tokenB domain.Token // bridge token shared between baseline and target
}

type fourHopTopology struct {
	tokenA domain.Token // baseline's token not shared with target
	tokenB domain.Token // bridge token shared between baseline and target
	tokenC domain.Token // target's token not shared with baseline
}

func (directTopology) kind() TopologyKind            { return Direct }
func (bridgeViaBaselineTopology) kind() TopologyKind { return BridgeViaBaseline }
func (bridgeViaTargetTopology) kind() TopologyKind   { return BridgeViaTarget }
func (fourHopTopology) kind() TopologyKind           { return FourHop }

// classify maps reference-asset membership to the variant. The bridge token
// is whichever address appears in both pairs; when the pools share nothing
// the variant is still returned with the gaps zeroed, so the route can
// render its full hop skeleton with error annotations.
func classify(baseline, target *domain.Pool, refDenom string) topology {
	baseHasRef := baseline.HasToken(refDenom)
	targetHasRef := target.HasToken(refDenom)

	switch {
	case baseHasRef && targetHasRef:
		return directTopology{tokenA: baseline.OtherToken(refDenom)}

	case baseHasRef:
		tokenA := baseline.OtherToken(refDenom)
		return bridgeViaBaselineTopology{
			tokenA: tokenA,
			tokenB: target.OtherToken(tokenA.Address),
		}

	case targetHasRef:
		bridge, _ := domain.SharedToken(baseline, target)
		return bridgeViaTargetTopology{
			tokenA: baseline.OtherToken(bridge),
			tokenB: baseline.TokenByAddress(bridge),
		}

	default:
		bridge, _ := domain.SharedToken(baseline, target)
		return fourHopTopology{
			tokenA: baseline.OtherToken(bridge),
			tokenB: baseline.TokenByAddress(bridge),
			tokenC: target.OtherToken(bridge),
		}
	}
}
