package sources

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
)

// CatalogEntry is one pool row of the secondary catalog API.
type CatalogEntry struct {
	PoolID       int64   `json:"pool_id"`
	PoolAddress  string  `json:"pool_address"`
	BaseSymbol   string  `json:"base_symbol"`
	BaseAddress  string  `json:"base_address"`
	QuoteSymbol  string  `json:"quote_symbol"`
	QuoteAddress string  `json:"quote_address"`
	LiquidityUSD float64 `json:"liquidity"`
	Price        float64 `json:"price"`
}

type catalogPage struct {
	Pools []CatalogEntry `json:"pools"`
}

// SecondaryClient pulls the complete pool catalog from the secondary source.
// The API is limit/offset paginated and requires a bearer credential.
type SecondaryClient struct {
	baseURL   string
	token     string
	pageLimit int
	http      *http.Client
}

func NewSecondaryClient(baseURL, token string, pageLimit int) *SecondaryClient {
	if pageLimit <= 0 {
		pageLimit = 500
	}
	return &SecondaryClient{
		baseURL:   baseURL,
		token:     token,
		pageLimit: pageLimit,
		http:      &http.Client{Timeout: 30 * time.Second},
	}
}

// FetchCatalog walks every page until a short page signals the end.
func (c *SecondaryClient) FetchCatalog(ctx context.Context) ([]CatalogEntry, error) {
	var all []CatalogEntry
	for offset := 0; ; offset += c.pageLimit {
		page, err := c.fetchPage(ctx, c.pageLimit, offset)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < c.pageLimit {
			break
		}
	}
	return all, nil
}

func (c *SecondaryClient) fetchPage(ctx context.Context, limit, offset int) ([]CatalogEntry, error) {
	u := fmt.Sprintf("%s/pools?limit=%d&offset=%d", c.baseURL, limit, offset)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog page offset=%d: %w", offset, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog page offset=%d: unexpected status %d", offset, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("catalog page offset=%d: read body: %w", offset, err)
	}

	var parsed catalogPage
	if err := sonic.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("catalog page offset=%d: decode: %w", offset, err)
	}
	return parsed.Pools, nil
}
