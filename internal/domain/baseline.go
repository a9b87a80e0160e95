package domain

// BaselineSelection is the per-refresh result of the cheapest-pool scan.
// Candidate is a plausible next-cheapest pool, not necessarily the global
// second-lowest price. Filtered is the liquidity-filtered set both were
// derived from. Not persisted anywhere.
type BaselineSelection struct {
	Baseline  *Pool   `json:"baseline"`
	Candidate *Pool   `json:"candidate,omitempty"`
	MinPrice  float64 `json:"minPrice"`
	Filtered  []*Pool `json:"filtered"`
}
