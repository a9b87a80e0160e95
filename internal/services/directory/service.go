// Package directory fetches and caches pool listings from both data
// sources and exposes the combined per-token fetch the pipeline starts
// from.
package directory

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog/log"
	container "github.com/thehyperflames/dicontainer-go"

	"github.com/hxuan190/arb-engine/internal/adapters/persistence"
	"github.com/hxuan190/arb-engine/internal/adapters/sources"
	"github.com/hxuan190/arb-engine/internal/config"
	"github.com/hxuan190/arb-engine/internal/metrics"
)

const DIRECTORY_SERVICE = "pool-directory-service"

const (
	resultCacheSize = 512
	resultCacheTTL  = 60 * time.Second
)

// CombinedPoolData is the raw material for unification: the primary
// source's per-token search result and the secondary source's full catalog.
// Either half may be nil when its branch failed; the other half is still
// delivered.
type CombinedPoolData struct {
	Pairs   []sources.PrimaryPair
	Catalog []sources.CatalogEntry
}

type Service struct {
	container.BaseDIInstance

	primary   *sources.PrimaryClient
	secondary *sources.SecondaryClient
	catalog   *CatalogCache
	storage   *persistence.Service

	resultCache *expirable.LRU[string, *CombinedPoolData]
}

func (svc *Service) ID() string {
	return DIRECTORY_SERVICE
}

func (svc *Service) Configure(c container.IContainer) error {
	srcConf := c.GetConfig(config.SOURCES_CONFIG_KEY).(*config.SourcesConfig)
	svc.storage = c.Instance(persistence.STORAGE_SERVICE).(*persistence.Service)

	svc.primary = sources.NewPrimaryClient(srcConf.PrimaryURL)
	svc.secondary = sources.NewSecondaryClient(srcConf.SecondaryURL, srcConf.SecondaryToken, srcConf.CatalogPageLimit)
	svc.catalog = NewCatalogCache(svc.secondary, time.Duration(srcConf.CatalogTTL)*time.Second)
	svc.resultCache = expirable.NewLRU[string, *CombinedPoolData](resultCacheSize, nil, resultCacheTTL)

	if svc.storage.Storage != nil {
		svc.catalog.SetOnRefresh(func(entries []sources.CatalogEntry, fetchedAt time.Time) {
			if err := svc.storage.Storage.SaveCatalog(entries, fetchedAt); err != nil {
				log.Warn().Err(err).Msg("[directory] failed to persist catalog snapshot")
			}
		})
	}
	return nil
}

func (svc *Service) Start() error {
	if svc.storage.Storage == nil {
		return nil
	}
	entries, fetchedAt, err := svc.storage.Storage.LoadCatalog()
	if err != nil {
		log.Warn().Err(err).Msg("[directory] failed to load catalog snapshot")
		return nil
	}
	if len(entries) > 0 {
		svc.catalog.Warm(entries, fetchedAt)
		log.Info().Int("count", len(entries)).Msg("[directory] warm-started catalog from snapshot")
	}
	return nil
}

func (svc *Service) Stop() error {
	return nil
}

// Catalog exposes the cache for id verification during planning.
func (svc *Service) Catalog() *CatalogCache {
	return svc.catalog
}

// Search is the raw primary-source search, used by the planner's external
// intermediary fallback.
func (svc *Service) Search(ctx context.Context, query string) ([]sources.PrimaryPair, error) {
	return svc.primary.Search(ctx, query)
}

// FetchCombined issues the primary token search and the secondary catalog
// fetch concurrently and joins them. A failure in one branch logs, leaves
// that half nil, and never blocks the other. Results are cached per token
// so a re-render within the TTL does not refetch.
func (svc *Service) FetchCombined(ctx context.Context, tokenAddr string) *CombinedPoolData {
	if cached, ok := svc.resultCache.Get(tokenAddr); ok {
		metrics.DirectoryCacheHits.Inc()
		return cached
	}
	metrics.DirectoryCacheMisses.Inc()

	combined := &CombinedPoolData{}

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		pairs, err := svc.primary.Search(ctx, tokenAddr)
		if err != nil {
			log.Warn().Str("token", tokenAddr).Err(err).Msg("[directory] primary search failed")
			return
		}
		combined.Pairs = pairs
	}()

	go func() {
		defer wg.Done()
		entries, err := svc.catalog.Get(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("[directory] catalog fetch failed")
			return
		}
		combined.Catalog = entries
	}()

	wg.Wait()

	// Partial results are worth caching; a total failure is not, or a
	// transient outage would be pinned for the whole TTL.
	if combined.Pairs == nil && combined.Catalog == nil {
		return combined
	}
	svc.resultCache.Add(tokenAddr, combined)
	return combined
}
