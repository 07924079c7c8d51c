package store

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/MKhiriev/gitvault/internal/logger"
	"github.com/MKhiriev/gitvault/migrations"
)

// NewPostgresStore opens a PostgreSQL-backed [KVStore]. Centrally managed
// deployments point every workstation's daemon at one database; entries are
// still encrypted client-side, so the server only ever sees opaque blobs.
func NewPostgresStore(ctx context.Context, dsn string, log *logger.Logger) (KVStore, error) {
	conn, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Err(err).Str("func", "NewPostgresStore").Msg("error occured during database connection")
		return nil, fmt.Errorf("error occured during database connection: %w", err)
	}

	// setup connections
	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(4)

	// ping database
	if err = conn.PingContext(ctx); err != nil {
		log.Err(err).Str("func", "NewPostgresStore").Msg("error connecting database (ping)")
		return nil, err
	}

	if err = migrations.Migrate(conn, "pgx"); err != nil {
		log.Err(err).Str("func", "NewPostgresStore").Msg("error migrating database")
		return nil, err
	}
	log.Info().Str("func", "NewPostgresStore").Msg("connected to postgres vault database")

	classifier := NewPostgresErrorClassifier()

	return &sqlKVStore{
		db:      conn,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		classify: func(err error) bool {
			return err != nil && classifier.Classify(err) == Retryable
		},
		logger: log,
	}, nil
}
