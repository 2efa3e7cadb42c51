package repository

import (
	"context"

	"rentndrive/internal/domain"
)

// ReviewRepository defines the persistence operations for reviews.
type ReviewRepository interface {
	// Create persists a new review.
	Create(ctx context.Context, review *domain.Review) error

	// GetByID retrieves a review by ID.
	GetByID(ctx context.Context, id string) (*domain.Review, error)

	// GetByReviewer retrieves all reviews written by a user.
	GetByReviewer(ctx context.Context, reviewerID string) ([]*domain.Review, error)

	// GetAll retrieves all reviews.
	GetAll(ctx context.Context) ([]*domain.Review, error)

	// Delete removes a review.
	Delete(ctx context.Context, id string) error
}
