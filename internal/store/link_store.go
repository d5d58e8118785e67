package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/theomrc/linklocal/internal/models"
)

// linksKey is the single storage key under which the whole link collection
// is persisted. There is exactly one encoding and one key; every mutation
// rewrites the full blob.
const linksKey = "links"

// DefaultRetention is how long expired links are kept before housekeeping
// removes them. Until then their codes stay reserved.
const DefaultRetention = 7 * 24 * time.Hour

// Entry is one row of the key/value table backing the store. The table plays
// the role of a browser's local storage: opaque string values addressed by key.
type Entry struct {
	Key   string `gorm:"primaryKey;size:64"`
	Value string `gorm:"not null"`
}

// LinkStore is an interface defining access to the persisted link collection.
type LinkStore interface {
	Load() []models.Link
	Save(links []models.Link) error
	Prune(links []models.Link, retention time.Duration) []models.Link
	Housekeep(retention time.Duration) error
	Close() error
}

// GormLinkStore is the LinkStore implementation backed by GORM over SQLite.
type GormLinkStore struct {
	db  *gorm.DB
	now func() time.Time
}

// Open opens (creating if needed) the storage file at path and migrates the
// key/value schema. The pure-Go SQLite driver keeps the tool dependency-free
// of cgo, and `:memory:` is accepted for tests.
func Open(path string) (*GormLinkStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open storage at %s: %w", path, err)
	}

	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate storage schema: %w", err)
	}

	return &GormLinkStore{db: db, now: time.Now}, nil
}

// Load deserializes the persisted collection. Missing, corrupt or unparsable
// data never fails the caller: the store simply reads as empty. Worst case is
// starting over, never a crash on a damaged blob.
func (s *GormLinkStore) Load() []models.Link {
	var entry Entry
	if err := s.db.First(&entry, "key = ?", linksKey).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("WARNING: could not read link collection: %v", err)
		}
		return []models.Link{}
	}

	var links []models.Link
	if err := json.Unmarshal([]byte(entry.Value), &links); err != nil {
		log.Printf("WARNING: stored link collection is corrupt, treating as empty: %v", err)
		return []models.Link{}
	}
	if links == nil {
		links = []models.Link{}
	}
	return links
}

// Save serializes and persists the full collection, replacing prior content.
// Callers must invoke it after every mutation; there is no finer-grained
// persistence. The single-row upsert makes the replacement atomic.
func (s *GormLinkStore) Save(links []models.Link) error {
	if links == nil {
		links = []models.Link{}
	}
	payload, err := json.Marshal(links)
	if err != nil {
		return fmt.Errorf("failed to serialize link collection: %w", err)
	}

	entry := Entry{Key: linksKey, Value: string(payload)}
	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to persist link collection: %w", err)
	}
	return nil
}

// Prune returns only the links still within their retention window, i.e. those
// with expiresAt + retention > now. Links a user still cares about (active or
// recently expired) survive; long-dead records are dropped to bound growth.
func (s *GormLinkStore) Prune(links []models.Link, retention time.Duration) []models.Link {
	nowMillis := s.now().UnixMilli()
	kept := make([]models.Link, 0, len(links))
	for _, link := range links {
		if link.ExpiresAt+retention.Milliseconds() > nowMillis {
			kept = append(kept, link)
		}
	}
	return kept
}

// Housekeep runs the startup pruning pass: load, prune, and persist the result
// only when something was actually removed.
func (s *GormLinkStore) Housekeep(retention time.Duration) error {
	links := s.Load()
	kept := s.Prune(links, retention)
	if len(kept) == len(links) {
		return nil
	}
	log.Printf("Housekeeping removed %d long-expired link(s).", len(links)-len(kept))
	return s.Save(kept)
}

// Close releases the underlying SQL connection.
func (s *GormLinkStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying SQL database: %w", err)
	}
	return sqlDB.Close()
}
