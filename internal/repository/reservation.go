package repository

import (
	"context"
	"time"

	"rentndrive/internal/domain"
)

// ReservationRepository defines the persistence operations for reservations.
type ReservationRepository interface {
	// Create persists a new reservation.
	Create(ctx context.Context, reservation *domain.Reservation) error

	// GetByID retrieves a reservation by ID.
	GetByID(ctx context.Context, id string) (*domain.Reservation, error)

	// GetByUser retrieves all reservations placed by a user.
	GetByUser(ctx context.Context, userID string) ([]*domain.Reservation, error)

	// GetByCar retrieves all reservations for a car.
	GetByCar(ctx context.Context, carID string) ([]*domain.Reservation, error)

	// GetAll retrieves all reservations.
	GetAll(ctx context.Context) ([]*domain.Reservation, error)

	// Update updates an existing reservation.
	Update(ctx context.Context, reservation *domain.Reservation) error

	// Delete removes a reservation entirely. Administrative correction
	// path, distinct from cancellation.
	Delete(ctx context.Context, id string) error

	// CountOverlapping counts non-terminal reservations for the car whose
	// interval intersects [start, end] under the strict boundary test
	// (existing.start < end AND existing.end > start). excludeID, when
	// non-empty, leaves the named reservation out of the count so date
	// changes do not conflict with themselves.
	CountOverlapping(ctx context.Context, carID string, start, end time.Time, excludeID string) (int, error)

	// HasCompletedForUserAndCar reports whether the user has at least one
	// completed reservation on the car.
	HasCompletedForUserAndCar(ctx context.Context, userID, carID string) (bool, error)

	// HasCompletedBetweenUsers reports whether a completed reservation links
	// the two users in either direction (one rented a car the other owns).
	HasCompletedBetweenUsers(ctx context.Context, userA, userB string) (bool, error)
}
