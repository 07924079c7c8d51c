package store

import (
	"context"
	"strings"

	"github.com/MKhiriev/gitvault/internal/config"
	"github.com/MKhiriev/gitvault/internal/logger"
)

// NewKVStore constructs the [KVStore] backend selected by the storage DSN:
//
//   - "postgres://..." / "postgresql://..." — PostgreSQL
//   - "*.db" / "*.sqlite" / "sqlite://..."  — SQLite
//   - anything else (including empty)       — JSON snapshot file
func NewKVStore(ctx context.Context, cfg config.Storage, log *logger.Logger) (KVStore, error) {
	dsn := strings.TrimSpace(cfg.DSN)

	switch {
	case strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://"):
		return NewPostgresStore(ctx, dsn, log)
	case strings.HasPrefix(dsn, "sqlite://"):
		return NewSQLiteStore(ctx, strings.TrimPrefix(dsn, "sqlite://"), log)
	case strings.HasSuffix(dsn, ".db") || strings.HasSuffix(dsn, ".sqlite"):
		return NewSQLiteStore(ctx, dsn, log)
	default:
		return NewFileStore(dsn)
	}
}
