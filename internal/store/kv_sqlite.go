package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-list-keeper/internal/logger"
)

const mirrorTable = "mirror_entries"

// sqliteKeyValueStore keeps mirror entries in the mirror_entries table of a
// local SQLite file.
type sqliteKeyValueStore struct {
	*DB
	builder sq.StatementBuilderType
	now     func() time.Time
}

// NewSQLiteKeyValueStore returns a [KeyValueStore] over db. The schema must
// already be migrated.
func NewSQLiteKeyValueStore(db *DB) KeyValueStore {
	return &sqliteKeyValueStore{
		DB:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Question),
		now:     time.Now,
	}
}

func (s *sqliteKeyValueStore) Get(ctx context.Context, key string) (string, bool, error) {
	log := logger.FromContext(ctx)

	query, args, err := s.builder.Select("value").From(mirrorTable).Where(sq.Eq{"key": key}).ToSql()
	if err != nil {
		return "", false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var value string
	err = s.withRetry(ctx, func() error {
		return s.DB.QueryRowContext(ctx, query, args...).Scan(&value)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		log.Err(err).
			Str("func", "sqliteKeyValueStore.Get").
			Str("key", key).
			Msg("failed to read mirror entry")
		return "", false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return value, true, nil
}

func (s *sqliteKeyValueStore) Set(ctx context.Context, key, value string) error {
	log := logger.FromContext(ctx)

	query, args, err := s.builder.Insert(mirrorTable).
		Columns("key", "value", "updated_at").
		Values(key, value, s.now().UTC()).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	err = s.withRetry(ctx, func() error {
		_, execErr := s.DB.ExecContext(ctx, query, args...)
		return execErr
	})
	if err != nil {
		log.Err(err).
			Str("func", "sqliteKeyValueStore.Set").
			Str("key", key).
			Msg("failed to upsert mirror entry")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (s *sqliteKeyValueStore) Remove(ctx context.Context, key string) error {
	log := logger.FromContext(ctx)

	query, args, err := s.builder.Delete(mirrorTable).Where(sq.Eq{"key": key}).ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	err = s.withRetry(ctx, func() error {
		_, execErr := s.DB.ExecContext(ctx, query, args...)
		return execErr
	})
	if err != nil {
		log.Err(err).
			Str("func", "sqliteKeyValueStore.Remove").
			Str("key", key).
			Msg("failed to delete mirror entry")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (s *sqliteKeyValueStore) Close() error {
	return s.DB.Close()
}
