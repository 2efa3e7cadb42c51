package repository

import (
	"context"

	"rentndrive/internal/domain"
)

// CarRepository defines the persistence operations for cars.
type CarRepository interface {
	// Create persists a new car listing.
	Create(ctx context.Context, car *domain.Car) error

	// GetByID retrieves a car by ID.
	GetByID(ctx context.Context, id string) (*domain.Car, error)

	// GetByOwner retrieves all cars listed by an owner.
	GetByOwner(ctx context.Context, ownerID string) ([]*domain.Car, error)

	// GetAll retrieves all cars.
	GetAll(ctx context.Context) ([]*domain.Car, error)

	// Update updates an existing car.
	Update(ctx context.Context, car *domain.Car) error

	// UpdateStatus updates only the rental status of a car.
	UpdateStatus(ctx context.Context, id string, status domain.CarStatus) error

	// SetApproved flips the admin approval flag.
	SetApproved(ctx context.Context, id string, approved bool) error
}
