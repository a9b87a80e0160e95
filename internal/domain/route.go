package domain

// Fee sentinels produced by the fee oracle. Kept as strings because the
// display layer renders them verbatim next to real decimal fees.
const (
	FeeNotAvailable = "N/A"
	FeeError        = "Error"
)

// RouteStep is one hop of a planned route, in execution order.
// Fee is a decimal string or one of the sentinels above. Error carries a
// per-hop annotation when the pool, fee, or token could not be resolved;
// the step itself is still emitted so the chain stays structurally complete.
type RouteStep struct {
	From     Token  `json:"from"`
	To       Token  `json:"to"`
	PoolID   string `json:"poolId"`
	Fee      string `json:"fee"`
	Provider string `json:"provider"`
	Error    string `json:"error,omitempty"`
}

// RouteObject is the always-available display form of a planned route.
// Start and End both equal the reference asset: the loan is denominated in
// it and every topology closes the loop. Steps has exactly the hop count of
// the detected topology even when some hops failed to resolve.
type RouteObject struct {
	Start Token       `json:"start"`
	End   Token       `json:"end"`
	Steps []RouteStep `json:"steps"`
	Error string      `json:"error,omitempty"`
}

// Chained verifies the hop invariant: step[i].To == step[i+1].From.
func (r *RouteObject) Chained() bool {
	for i := 1; i < len(r.Steps); i++ {
		if r.Steps[i-1].To.Address != r.Steps[i].From.Address {
			return false
		}
	}
	return true
}

// Broken reports whether any hop carries an error annotation.
func (r *RouteObject) Broken() bool {
	if r.Error != "" {
		return true
	}
	for _, s := range r.Steps {
		if s.Error != "" {
			return true
		}
	}
	return false
}
