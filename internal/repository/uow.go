package repository

import "context"

// TxRepos bundles the transaction-scoped repositories handed to a unit of
// work callback.
type TxRepos struct {
	Reservations ReservationRepository
	Cars         CarRepository
	Payments     PaymentRepository
}

// UnitOfWork runs a function against transaction-scoped repositories.
// The transaction commits if fn returns nil and rolls back otherwise, so
// multi-entity status flips (reservation + car) land atomically.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(tx TxRepos) error) error
}
