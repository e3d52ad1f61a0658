package token

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// TestInsertMapsUniqueViolationToCollision exercises Insert's driver-error
// mapping without a live Postgres: a 23505 unique-violation on the
// token_hash index must surface as ErrTokenHashCollision, the signal
// Service.Mint retries on.
func TestInsertMapsUniqueViolationToCollision(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "postgres")
	repo := NewRepository(sqlxDB)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tokens")).
		WillReturnError(&pq.Error{Code: "23505"})

	_, _, err = repo.Insert(context.Background(), mintParams{
		AccountID: uuid.New(),
		Amount:    100,
		TokenHash: []byte("hash"),
		Salt:      []byte("salt"),
		Prefix:    "AB12",
		ExpiresAt: time.Now().Add(time.Minute),
	})
	if !errors.Is(err, ErrTokenHashCollision) {
		t.Fatalf("expected ErrTokenHashCollision, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// TestInsertPropagatesOtherErrors confirms non-collision failures pass
// through unwrapped rather than being mistaken for a retryable collision.
func TestInsertPropagatesOtherErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "postgres")
	repo := NewRepository(sqlxDB)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tokens")).
		WillReturnError(errors.New("connection reset"))

	_, _, err = repo.Insert(context.Background(), mintParams{
		AccountID: uuid.New(),
		Amount:    100,
		TokenHash: []byte("hash"),
		Salt:      []byte("salt"),
		Prefix:    "AB12",
		ExpiresAt: time.Now().Add(time.Minute),
	})
	if err == nil || errors.Is(err, ErrTokenHashCollision) {
		t.Fatalf("expected a plain propagated error, got %v", err)
	}
}
