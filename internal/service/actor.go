package service

import "rentndrive/internal/domain"

// Actor identifies the authenticated caller of a service operation, as
// resolved by the identity middleware.
type Actor struct {
	UserID   string
	Role     domain.Role
	Approved bool
}
