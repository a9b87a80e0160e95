package domain

// Token is an immutable token descriptor. Address is the on-chain denom or
// contract address and is the unique key everywhere in this package.
type Token struct {
	Symbol   string `json:"symbol"`
	Address  string `json:"address"`
	Decimals int    `json:"decimals"`
}

// Equal compares by address only; symbols from different sources disagree
// often enough that they cannot be trusted as identity.
func (t Token) Equal(other Token) bool {
	return t.Address == other.Address
}

func (t Token) IsZero() bool {
	return t.Address == ""
}
