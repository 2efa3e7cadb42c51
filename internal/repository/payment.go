package repository

import (
	"context"

	"rentndrive/internal/domain"
)

// PaymentRepository defines the persistence operations for payments.
// Payments are append-mostly and never deleted.
type PaymentRepository interface {
	// Create persists a new payment attempt.
	Create(ctx context.Context, payment *domain.Payment) error

	// GetByID retrieves a payment by ID.
	GetByID(ctx context.Context, id string) (*domain.Payment, error)

	// GetByOrderRef retrieves a payment by its gateway order reference.
	GetByOrderRef(ctx context.Context, orderRef string) (*domain.Payment, error)

	// GetByCar retrieves all payments made against a car.
	GetByCar(ctx context.Context, carID string) ([]*domain.Payment, error)

	// GetByUser retrieves all payments made by a user.
	GetByUser(ctx context.Context, userID string) ([]*domain.Payment, error)

	// GetAll retrieves all payments.
	GetAll(ctx context.Context) ([]*domain.Payment, error)

	// MarkSuccess transitions the payment identified by orderRef to Success
	// and records the gateway payment id as its transaction id.
	MarkSuccess(ctx context.Context, orderRef, transactionID string) (*domain.Payment, error)

	// HasSuccessful reports whether a Success payment already backs the
	// reservation. At most one may.
	HasSuccessful(ctx context.Context, reservationID string) (bool, error)
}
