package domain

// Asset is a denom/amount pair in micro units, CosmWasm wire shape.
type Asset struct {
	Denom  string `json:"denom"`
	Amount string `json:"amount"`
}

// SwapPayload is the decoded form of a single swap execute message.
// BeliefPrice and MaxSpread are decimal strings; the contract rejects
// execution outside the band they define.
type SwapPayload struct {
	Swap SwapBody `json:"swap"`
}

type SwapBody struct {
	OfferAsset  Asset  `json:"offer_asset"`
	AskDenom    string `json:"ask_denom"`
	BeliefPrice string `json:"belief_price"`
	MaxSpread   string `json:"max_spread"`
}

// SwapInstruction is one wire-ready contract call of the flash-loan body.
// Msg is the base64-encoded SwapPayload.
type SwapInstruction struct {
	PoolID   string  `json:"poolId"`
	Contract string  `json:"contract"`
	Msg      string  `json:"msg"`
	Funds    []Asset `json:"funds"`
}

// FlashLoanMessage is the executable artifact: a loan of the reference asset
// plus the ordered contract calls that must repay it within the transaction.
type FlashLoanMessage struct {
	Assets []Asset           `json:"assets"`
	Msgs   []SwapInstruction `json:"msgs"`
}

// ExecutionPlan exists only when every hop of a route resolved with a valid
// pool, price, and fee, and the final reference-asset amount strictly
// exceeds the principal. Amounts are micro-unit decimal strings.
type ExecutionPlan struct {
	LoanDenom      string            `json:"loanDenom"`
	LoanAmount     string            `json:"loanAmount"`
	Instructions   []SwapInstruction `json:"instructions"`
	ExpectedReturn string            `json:"expectedReturn"`
	Profit         string            `json:"profit"`
	Viable         bool              `json:"viable"`
}

// FlashLoan renders the plan as the executable message shape.
func (p *ExecutionPlan) FlashLoan() *FlashLoanMessage {
	return &FlashLoanMessage{
		Assets: []Asset{{Denom: p.LoanDenom, Amount: p.LoanAmount}},
		Msgs:   p.Instructions,
	}
}

// Artifact pairs the executable message with the display route. Either half
// is independently serializable; FlashLoan is nil when no viable plan was
// built while Route is always present.
type Artifact struct {
	Token     Token             `json:"token"`
	FlashLoan *FlashLoanMessage `json:"flashLoan,omitempty"`
	Route     *RouteObject      `json:"route"`
	CreatedAt int64             `json:"createdAt"`
}
