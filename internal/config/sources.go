package config

import (
	"errors"
	"os"
	"slices"
)

// SourcesConfig points at the two off-chain pool data sources.
// The secondary catalog API requires a bearer credential; the primary
// search API is open.
type SourcesConfig struct {
	PrimaryURL string

	SecondaryURL   string
	SecondaryToken string

	// CatalogPageLimit is the limit parameter for the paginated catalog
	// fetch. Default: 500.
	CatalogPageLimit int

	// CatalogTTL is how long a fetched catalog stays fresh, in seconds.
	// Default: 300.
	CatalogTTL int
}

func (sc *SourcesConfig) Key() string {
	return SOURCES_CONFIG_KEY
}

func (sc *SourcesConfig) Load() error {
	sc.PrimaryURL = os.Getenv("PRIMARY_API_URL")
	sc.SecondaryURL = os.Getenv("SECONDARY_API_URL")
	sc.SecondaryToken = os.Getenv("SECONDARY_API_TOKEN")
	sc.CatalogPageLimit = getEnvOrDefaultInt("CATALOG_PAGE_LIMIT", 500)
	sc.CatalogTTL = getEnvOrDefaultInt("CATALOG_TTL_SECONDS", 300)
	return nil
}

func (sc *SourcesConfig) Validate() error {
	if slices.Contains([]string{sc.PrimaryURL, sc.SecondaryURL, sc.SecondaryToken}, "") {
		return errors.New("invalid sources config")
	}
	return nil
}
