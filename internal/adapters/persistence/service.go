// Package persistence is the BoltDB adapter: catalog snapshots for
// warm-starting the cache and the downloadable artifact store.
package persistence

import (
	container "github.com/thehyperflames/dicontainer-go"

	"github.com/hxuan190/arb-engine/internal/config"
)

const STORAGE_SERVICE = "storage-service"

// Service owns the database lifecycle. Storage is nil when persistence is
// disabled; callers treat that as a no-op store.
type Service struct {
	container.BaseDIInstance

	Storage *Storage
	conf    *config.ArbitrageConfig
}

func (svc *Service) ID() string {
	return STORAGE_SERVICE
}

func (svc *Service) Configure(c container.IContainer) error {
	svc.conf = c.GetConfig(config.ARBITRAGE_CONFIG_KEY).(*config.ArbitrageConfig)
	if !svc.conf.PersistenceEnabled {
		return nil
	}

	storage, err := NewStorage(svc.conf.DBPath)
	if err != nil {
		return err
	}
	svc.Storage = storage
	return nil
}

func (svc *Service) Start() error {
	return nil
}

func (svc *Service) Stop() error {
	if svc.Storage != nil {
		return svc.Storage.Close()
	}
	return nil
}
