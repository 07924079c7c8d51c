package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/gitvault/internal/logger"
)

// sqlKVStore implements [KVStore] on top of a database/sql connection. The
// same implementation serves both the SQLite and the PostgreSQL backends;
// only the placeholder format and the retry classification differ.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured tracing of database interactions.
type sqlKVStore struct {
	db      *sql.DB
	builder sq.StatementBuilderType

	// classify reports whether a failed operation is worth one retry
	// (transient connection loss, serialization failure). Nil means never.
	classify func(error) bool

	logger *logger.Logger
}

func (s *sqlKVStore) Get(ctx context.Context, key string) (string, error) {
	log := logger.FromContext(ctx)

	query, args, err := s.builder.
		Select("value").
		From("vault_entries").
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}

	var value string
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&value)
	if s.classify != nil && s.classify(err) {
		err = s.db.QueryRowContext(ctx, query, args...).Scan(&value)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrEntryNotFound
		}
		log.Err(err).Str("func", "*sqlKVStore.Get").Msg("error reading vault entry")
		return "", fmt.Errorf("unexpected DB error: %w", err)
	}

	return value, nil
}

func (s *sqlKVStore) Set(ctx context.Context, key, value string) error {
	log := logger.FromContext(ctx)

	query, args, err := s.builder.
		Insert("vault_entries").
		Columns("key", "value").
		Values(key, value).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}

	_, err = s.db.ExecContext(ctx, query, args...)
	if s.classify != nil && s.classify(err) {
		_, err = s.db.ExecContext(ctx, query, args...)
	}
	if err != nil {
		log.Err(err).Str("func", "*sqlKVStore.Set").Msg("error writing vault entry")
		return fmt.Errorf("%w: %v", ErrExecutingStatement, err)
	}

	return nil
}

func (s *sqlKVStore) Delete(ctx context.Context, key string) error {
	log := logger.FromContext(ctx)

	query, args, err := s.builder.
		Delete("vault_entries").
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}

	// Deleting a missing key affects zero rows, which is fine.
	_, err = s.db.ExecContext(ctx, query, args...)
	if s.classify != nil && s.classify(err) {
		_, err = s.db.ExecContext(ctx, query, args...)
	}
	if err != nil {
		log.Err(err).Str("func", "*sqlKVStore.Delete").Msg("error deleting vault entry")
		return fmt.Errorf("%w: %v", ErrExecutingStatement, err)
	}

	return nil
}

func (s *sqlKVStore) Close() error {
	return s.db.Close()
}
