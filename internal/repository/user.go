package repository

import (
	"context"

	"rentndrive/internal/domain"
)

// UserRepository defines the read operations the rental core needs on users.
// Account creation and credentials belong to the identity collaborator.
type UserRepository interface {
	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id string) (*domain.User, error)
}
