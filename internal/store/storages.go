package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-list-keeper/internal/config"
	"github.com/MKhiriev/go-list-keeper/internal/logger"
)

// Storages groups the persistence dependencies of the document server.
type Storages struct {
	DocumentRepository DocumentRepository

	db *DB
}

// NewStorages opens PostgreSQL and runs migrations when cfg.DSN is set;
// otherwise documents are kept in memory.
func NewStorages(ctx context.Context, cfg config.DB, log *logger.Logger) (*Storages, error) {
	if cfg.DSN == "" {
		log.Warn().Str("func", "NewStorages").Msg("no database configured, documents are kept in memory")
		return &Storages{DocumentRepository: NewMemoryDocumentRepository()}, nil
	}

	db, err := NewConnectPostgres(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("postgres connection error: %w", err)
	}

	if err := db.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &Storages{
		DocumentRepository: NewDocumentRepository(db),
		db:                 db,
	}, nil
}

// Close releases the database connection, if any.
func (s *Storages) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
