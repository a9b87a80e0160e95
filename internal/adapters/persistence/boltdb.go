package persistence

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	boltdb "github.com/andrew-solarstorm/bolt-db"
	"github.com/bytedance/sonic"
	"github.com/rs/zerolog/log"

	"github.com/hxuan190/arb-engine/internal/adapters/sources"
	"github.com/hxuan190/arb-engine/internal/domain"
)

const (
	CatalogBucket   = "catalog"
	ArtifactsBucket = "artifacts"

	catalogSnapshotKey = "snapshot"

	DefaultDBPath = "./data/arb-engine.db"
)

// StoredCatalog is the persisted form of a full secondary-source catalog,
// used to warm-start the cache across restarts.
type StoredCatalog struct {
	FetchedAt int64                  `json:"fetchedAt"`
	Entries   []sources.CatalogEntry `json:"entries"`
}

type Storage struct {
	db     *boltdb.BoltDatabase
	dbPath string
}

func NewStorage(dbPath string) (*Storage, error) {
	if dbPath == "" {
		dbPath = DefaultDBPath
	}
	os.MkdirAll(filepath.Dir(dbPath), 0755)

	db := boltdb.NewBoltDatabase(dbPath)
	if db == nil {
		return nil, fmt.Errorf("failed to open database at %s", dbPath)
	}

	log.Info().Str("path", dbPath).Msg("[arbStorage] opened database")

	return &Storage{
		db:     db,
		dbPath: dbPath,
	}, nil
}

func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Storage) SaveCatalog(entries []sources.CatalogEntry, fetchedAt time.Time) error {
	stored := StoredCatalog{
		FetchedAt: fetchedAt.Unix(),
		Entries:   entries,
	}
	data, err := sonic.Marshal(stored)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}

	if err := s.db.Set(CatalogBucket, []byte(catalogSnapshotKey), data); err != nil {
		return err
	}
	log.Info().Int("count", len(entries)).Msg("[arbStorage] saved catalog snapshot")
	return nil
}

// LoadCatalog returns the stored snapshot, or nil entries when no snapshot
// exists yet.
func (s *Storage) LoadCatalog() ([]sources.CatalogEntry, time.Time, error) {
	data, err := s.db.List(CatalogBucket)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to list catalog bucket: %w", err)
	}

	raw, ok := data[catalogSnapshotKey]
	if !ok {
		return nil, time.Time{}, nil
	}

	var stored StoredCatalog
	if err := sonic.Unmarshal(raw, &stored); err != nil {
		log.Error().Err(err).Msg("[arbStorage] failed to unmarshal catalog snapshot, ignoring")
		return nil, time.Time{}, nil
	}

	log.Info().Int("count", len(stored.Entries)).Msg("[arbStorage] loaded catalog snapshot")
	return stored.Entries, time.Unix(stored.FetchedAt, 0), nil
}

func (s *Storage) SaveArtifact(artifact *domain.Artifact) error {
	data, err := sonic.Marshal(artifact)
	if err != nil {
		return fmt.Errorf("failed to marshal artifact: %w", err)
	}
	return s.db.Set(ArtifactsBucket, []byte(artifact.Token.Address), data)
}

func (s *Storage) LoadArtifact(tokenAddress string) (*domain.Artifact, error) {
	data, err := s.db.List(ArtifactsBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}

	raw, ok := data[tokenAddress]
	if !ok {
		return nil, nil
	}

	var artifact domain.Artifact
	if err := sonic.Unmarshal(raw, &artifact); err != nil {
		return nil, fmt.Errorf("failed to unmarshal artifact: %w", err)
	}
	return &artifact, nil
}

func (s *Storage) LoadAllArtifacts() ([]*domain.Artifact, error) {
	data, err := s.db.List(ArtifactsBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}

	artifacts := make([]*domain.Artifact, 0, len(data))
	failed := 0
	for key, raw := range data {
		var artifact domain.Artifact
		if err := sonic.Unmarshal(raw, &artifact); err != nil {
			log.Warn().Str("token", key).Err(err).Msg("[arbStorage] failed to unmarshal artifact, skipping")
			failed++
			continue
		}
		artifacts = append(artifacts, &artifact)
	}

	if failed > 0 {
		log.Error().
			Int("total_in_db", len(data)).
			Int("loaded", len(artifacts)).
			Int("unmarshal_failed", failed).
			Msg("[arbStorage] artifact loading completed with errors")
	}
	return artifacts, nil
}
