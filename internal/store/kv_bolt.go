package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/MKhiriev/go-list-keeper/internal/logger"
)

var mirrorBucket = []byte("mirror")

// boltKeyValueStore keeps mirror entries in a single bucket of a BoltDB file.
type boltKeyValueStore struct {
	db *bbolt.DB
}

// NewBoltKeyValueStore opens (creating if necessary) the BoltDB file at path.
func NewBoltKeyValueStore(path string, log *logger.Logger) (KeyValueStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("error creating bolt directory: %w", err)
		}
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		log.Err(err).Str("func", "NewBoltKeyValueStore").Msg("error opening bolt database")
		return nil, fmt.Errorf("error opening bolt database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, bucketErr := tx.CreateBucketIfNotExists(mirrorBucket)
		return bucketErr
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("error creating bolt bucket: %w", err)
	}
	log.Debug().Str("func", "NewBoltKeyValueStore").Str("path", path).Msg("opened bolt database")

	return &boltKeyValueStore{db: db}, nil
}

func (s *boltKeyValueStore) Get(ctx context.Context, key string) (string, bool, error) {
	var (
		value string
		found bool
	)
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(mirrorBucket)
		if b == nil {
			return nil
		}
		// bolt values are only valid inside the transaction
		if v := b.Get([]byte(key)); v != nil {
			value, found = string(v), true
		}
		return nil
	})
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "boltKeyValueStore.Get").Str("key", key).Msg("failed to read mirror entry")
		return "", false, mapBoltError(err)
	}

	return value, found, nil
}

func (s *boltKeyValueStore) Set(ctx context.Context, key, value string) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(mirrorBucket).Put([]byte(key), []byte(value))
	})
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "boltKeyValueStore.Set").Str("key", key).Msg("failed to write mirror entry")
		return mapBoltError(err)
	}

	return nil
}

func (s *boltKeyValueStore) Remove(ctx context.Context, key string) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(mirrorBucket).Delete([]byte(key))
	})
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "boltKeyValueStore.Remove").Str("key", key).Msg("failed to delete mirror entry")
		return mapBoltError(err)
	}

	return nil
}

func (s *boltKeyValueStore) Close() error {
	return s.db.Close()
}

func mapBoltError(err error) error {
	if errors.Is(err, bbolt.ErrDatabaseNotOpen) {
		return ErrStoreClosed
	}
	return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
}
