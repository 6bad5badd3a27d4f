// Package storage persists the deduplication seeds across daemon restarts:
// the last fingerprint seen per channel and the last resolved remote URL.
// Images themselves are never written here.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/snapwatch/snapwatch-daemon/internal/types"
)

const seedBucket = "seeds"

const lastURLKey = "url:last"

// SeedStore is a small bbolt-backed cache. Every accessor is best-effort:
// an unreadable database degrades to empty seeds, which at worst re-emits
// one already-delivered image after a restart.
type SeedStore struct {
	db     *bbolt.DB
	logger *zap.Logger
}

// NewSeedStore opens (or creates) the database at path.
func NewSeedStore(path string, logger *zap.Logger) (*SeedStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open seed database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(seedBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create seed bucket: %w", err)
	}

	return &SeedStore{
		db:     db,
		logger: logger.With(zap.String("component", "seedstore")),
	}, nil
}

func fingerprintKey(channel types.Channel) []byte {
	return []byte("fp:" + string(channel))
}

// SaveFingerprint records the last accepted fingerprint for a channel.
func (s *SeedStore) SaveFingerprint(channel types.Channel, fp string) {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(seedBucket)).Put(fingerprintKey(channel), []byte(fp))
	})
	if err != nil {
		s.logger.Warn("failed to persist fingerprint seed",
			zap.String("channel", string(channel)), zap.Error(err))
	}
}

// LoadFingerprint returns the stored fingerprint for a channel, or "".
func (s *SeedStore) LoadFingerprint(channel types.Channel) string {
	var fp string
	err := s.db.View(func(tx *bbolt.Tx) error {
		fp = string(tx.Bucket([]byte(seedBucket)).Get(fingerprintKey(channel)))
		return nil
	})
	if err != nil {
		s.logger.Warn("failed to load fingerprint seed",
			zap.String("channel", string(channel)), zap.Error(err))
		return ""
	}
	return fp
}

// SaveLastURL records the most recently resolved remote image URL.
func (s *SeedStore) SaveLastURL(url string) {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(seedBucket)).Put([]byte(lastURLKey), []byte(url))
	})
	if err != nil {
		s.logger.Warn("failed to persist last URL seed", zap.Error(err))
	}
}

// LoadLastURL returns the stored last resolved URL, or "".
func (s *SeedStore) LoadLastURL() string {
	var url string
	err := s.db.View(func(tx *bbolt.Tx) error {
		url = string(tx.Bucket([]byte(seedBucket)).Get([]byte(lastURLKey)))
		return nil
	})
	if err != nil {
		s.logger.Warn("failed to load last URL seed", zap.Error(err))
		return ""
	}
	return url
}

// Close closes the underlying database.
func (s *SeedStore) Close() error {
	return s.db.Close()
}
