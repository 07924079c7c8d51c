package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MKhiriev/gitvault/internal/logger"
)

func newTestSQLStore(t *testing.T) (*sqlKVStore, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	s := &sqlKVStore{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		logger:  logger.Nop(),
	}
	return s, mock, db
}

func TestSQLStore_Get_Found(t *testing.T) {
	s, mock, db := newTestSQLStore(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"value"}).AddRow("blob-1")
	mock.ExpectQuery("SELECT value FROM vault_entries").
		WithArgs("github.com").
		WillReturnRows(rows)

	got, err := s.Get(context.Background(), "github.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "blob-1" {
		t.Errorf("expected blob-1, got %q", got)
	}
}

func TestSQLStore_Get_NotFound(t *testing.T) {
	s, mock, db := newTestSQLStore(t)
	defer db.Close()

	mock.ExpectQuery("SELECT value FROM vault_entries").
		WithArgs("github.com").
		WillReturnError(sql.ErrNoRows)

	_, err := s.Get(context.Background(), "github.com")
	if !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
}

func TestSQLStore_Set_Upsert(t *testing.T) {
	s, mock, db := newTestSQLStore(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO vault_entries").
		WithArgs("github.com", "blob-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := s.Set(context.Background(), "github.com", "blob-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSQLStore_Set_RetriesOnRetryableError(t *testing.T) {
	s, mock, db := newTestSQLStore(t)
	defer db.Close()

	classifier := NewPostgresErrorClassifier()
	s.classify = func(err error) bool {
		return err != nil && classifier.Classify(err) == Retryable
	}

	mock.ExpectExec("INSERT INTO vault_entries").
		WithArgs("github.com", "blob-1").
		WillReturnError(&pgconn.PgError{Code: "40001"}) // serialization failure
	mock.ExpectExec("INSERT INTO vault_entries").
		WithArgs("github.com", "blob-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := s.Set(context.Background(), "github.com", "blob-1"); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet sqlmock expectations: %v", err)
	}
}

func TestSQLStore_Delete_MissingKeyIsNoop(t *testing.T) {
	s, mock, db := newTestSQLStore(t)
	defer db.Close()

	mock.ExpectExec("DELETE FROM vault_entries").
		WithArgs("github.com").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := s.Delete(context.Background(), "github.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSQLStore_Set_ExecError(t *testing.T) {
	s, mock, db := newTestSQLStore(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO vault_entries").
		WithArgs("github.com", "blob-1").
		WillReturnError(errors.New("disk full"))

	err := s.Set(context.Background(), "github.com", "blob-1")
	if !errors.Is(err, ErrExecutingStatement) {
		t.Fatalf("expected ErrExecutingStatement, got %v", err)
	}
}
