package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/MKhiriev/gitvault/internal/logger"
	"github.com/MKhiriev/gitvault/migrations"
)

// NewSQLiteStore opens a SQLite-backed [KVStore] at the given file path,
// creating the database file and schema on first use. It is intended for
// installations that keep several IDE profiles on one machine and want a
// single queryable vault database instead of per-profile snapshot files.
func NewSQLiteStore(ctx context.Context, dsn string, log *logger.Logger) (KVStore, error) {
	if err := createLocalDBFileIfNotExists(dsn); err != nil {
		log.Err(err).Str("func", "NewSQLiteStore").Msg("error creating database file")
		return nil, fmt.Errorf("error creating database file: %w", err)
	}

	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		log.Err(err).Str("func", "NewSQLiteStore").Msg("error connecting database")
		return nil, fmt.Errorf("error opening connection to DB: %w", err)
	}

	// ping database
	if err = conn.PingContext(ctx); err != nil {
		log.Err(err).Str("func", "NewSQLiteStore").Msg("error connecting database (ping)")
		return nil, err
	}

	if err = migrations.Migrate(conn, "sqlite3"); err != nil {
		log.Err(err).Str("func", "NewSQLiteStore").Msg("error migrating database")
		return nil, err
	}
	log.Debug().Str("func", "NewSQLiteStore").Msg("connected to sqlite vault database")

	return &sqlKVStore{
		db:      conn,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Question),
		logger:  log,
	}, nil
}

func createLocalDBFileIfNotExists(dbFile string) error {
	if _, err := os.Stat(dbFile); os.IsNotExist(err) {
		// if not found - create
		f, err := os.Create(dbFile)
		if err != nil {
			return fmt.Errorf("error creating DB file: %w", err)
		}
		f.Close()
	}

	// file already exists
	return nil
}
