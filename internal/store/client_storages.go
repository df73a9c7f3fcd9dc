package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-list-keeper/internal/config"
	"github.com/MKhiriev/go-list-keeper/internal/logger"
)

// NewMirrorStore opens the durable store backing the client mirror:
//   - "sqlite": opens the file at cfg.Path, creating it if it does not yet
//     exist, and runs pending schema migrations;
//   - "bolt": opens a BoltDB file at cfg.Path.
//
// Returns [ErrUnknownBackend] for any other backend.
func NewMirrorStore(ctx context.Context, cfg config.Mirror, log *logger.Logger) (KeyValueStore, error) {
	log.Info().Str("backend", cfg.Backend).Msg("opening mirror store...")

	switch cfg.Backend {
	case config.MirrorBackendSQLite:
		db, err := NewConnectSQLite(ctx, cfg.Path, log)
		if err != nil {
			return nil, fmt.Errorf("sqlite connection error: %w", err)
		}
		if err := db.Migrate(); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migration failed: %w", err)
		}
		return NewSQLiteKeyValueStore(db), nil
	case config.MirrorBackendBolt:
		return NewBoltKeyValueStore(cfg.Path, log)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
