package directory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hxuan190/arb-engine/internal/adapters/sources"
)

// flakyPrimary is a primary-search endpoint that can be flipped between
// failing and serving one pair, counting the requests it saw.
type flakyPrimary struct {
	calls atomic.Int64
	fail  atomic.Bool
}

func (f *flakyPrimary) handler(w http.ResponseWriter, r *http.Request) {
	f.calls.Add(1)
	if f.fail.Load() {
		w.WriteHeader(http.StatusBadGateway)
		return
	}
	_, _ = w.Write([]byte(`{"pairs":[{"poolId":"1","pairAddress":"terra1a","liquidity":{"usd":5000}}]}`))
}

func combinedService(t *testing.T, primaryURL string, fetcher CatalogFetcher) *Service {
	t.Helper()
	return &Service{
		primary:     sources.NewPrimaryClient(primaryURL),
		catalog:     NewCatalogCache(fetcher, time.Minute),
		resultCache: expirable.NewLRU[string, *CombinedPoolData](8, nil, time.Minute),
	}
}

func TestFetchCombinedTotalFailureNotCached(t *testing.T) {
	primary := &flakyPrimary{}
	primary.fail.Store(true)
	srv := httptest.NewServer(http.HandlerFunc(primary.handler))
	defer srv.Close()

	catalogSrc := &countingFetcher{entries: testEntries()}
	catalogSrc.fail.Store(true)

	svc := combinedService(t, srv.URL, catalogSrc)

	combined := svc.FetchCombined(context.Background(), "astro")
	assert.Nil(t, combined.Pairs)
	assert.Nil(t, combined.Catalog)

	// Both sources recover: the next fetch must go back out instead of
	// replaying the cached outage.
	primary.fail.Store(false)
	catalogSrc.fail.Store(false)

	combined = svc.FetchCombined(context.Background(), "astro")
	require.Len(t, combined.Pairs, 1)
	require.Len(t, combined.Catalog, 2)
	assert.Equal(t, int64(2), primary.calls.Load())
	assert.Equal(t, int64(2), catalogSrc.calls.Load())
}

func TestFetchCombinedPartialResultCached(t *testing.T) {
	primary := &flakyPrimary{}
	srv := httptest.NewServer(http.HandlerFunc(primary.handler))
	defer srv.Close()

	catalogSrc := &countingFetcher{entries: testEntries()}
	catalogSrc.fail.Store(true)

	svc := combinedService(t, srv.URL, catalogSrc)

	combined := svc.FetchCombined(context.Background(), "astro")
	require.Len(t, combined.Pairs, 1)
	assert.Nil(t, combined.Catalog)

	// The half that succeeded is served from cache within the TTL.
	combined = svc.FetchCombined(context.Background(), "astro")
	require.Len(t, combined.Pairs, 1)
	assert.Equal(t, int64(1), primary.calls.Load())
}
