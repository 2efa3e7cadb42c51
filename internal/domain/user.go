package domain

import "time"

// Role represents a user's role in the marketplace.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleOwner    Role = "owner"
	RoleAdmin    Role = "admin"
)

// User represents an account in the system. Registration and credential
// handling live in the identity collaborator; this is the read model the
// rental core needs for authorization and notifications.
type User struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Role      Role
	Approved  bool
	CreatedAt time.Time
}
