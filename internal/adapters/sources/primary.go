// Package sources holds the HTTP clients for the two off-chain pool data
// sources. Both return raw records; unification into canonical pools
// happens downstream.
package sources

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/bytedance/sonic"
)

// PrimaryToken is the token detail shape of the primary search API.
type PrimaryToken struct {
	Address  string `json:"address"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals int    `json:"decimals"`
}

// PrimaryPair is one pair record from the primary search API. PriceUSD
// arrives as a string; PoolID is present only for venues that expose their
// numeric id directly, otherwise it has to be derived from PairAddress.
type PrimaryPair struct {
	PoolID      string       `json:"poolId"`
	PairAddress string       `json:"pairAddress"`
	DexID       string       `json:"dexId"`
	BaseToken   PrimaryToken `json:"baseToken"`
	QuoteToken  PrimaryToken `json:"quoteToken"`
	PriceUSD    string       `json:"priceUsd"`
	PriceNative string       `json:"priceNative"`
	Liquidity   struct {
		USD float64 `json:"usd"`
	} `json:"liquidity"`
}

type primarySearchResponse struct {
	Pairs []PrimaryPair `json:"pairs"`
}

// PrimaryClient queries the primary pool-search API.
type PrimaryClient struct {
	baseURL string
	http    *http.Client
}

func NewPrimaryClient(baseURL string) *PrimaryClient {
	return &PrimaryClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Search returns every pair the primary source knows for the query, which
// may be a token address or a symbol.
func (c *PrimaryClient) Search(ctx context.Context, query string) ([]PrimaryPair, error) {
	u := fmt.Sprintf("%s/search?q=%s", c.baseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("primary search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("primary search: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("primary search: read body: %w", err)
	}

	var parsed primarySearchResponse
	if err := sonic.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("primary search: decode: %w", err)
	}
	return parsed.Pairs, nil
}
