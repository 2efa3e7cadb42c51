package postgres

import (
	"context"
	"database/sql"

	"rentndrive/internal/repository"
)

// Querier is an interface satisfied by both *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Ensure interfaces are satisfied.
var (
	_ Querier = (*sql.DB)(nil)
	_ Querier = (*sql.Tx)(nil)
)

// UnitOfWork is the PostgreSQL implementation of repository.UnitOfWork.
type UnitOfWork struct {
	db *sql.DB
}

// NewUnitOfWork creates a unit of work bound to the given database.
func NewUnitOfWork(db *sql.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

var _ repository.UnitOfWork = (*UnitOfWork)(nil)

// Do runs fn with transaction-scoped repositories, committing on nil error
// and rolling back otherwise.
func (u *UnitOfWork) Do(ctx context.Context, fn func(tx repository.TxRepos) error) error {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	repos := repository.TxRepos{
		Reservations: NewReservationRepositoryWithTx(tx),
		Cars:         NewCarRepositoryWithTx(tx),
		Payments:     NewPaymentRepositoryWithTx(tx),
	}

	if err := fn(repos); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}
