package user

import "context"

// UserRepository defines the persistence contract for users. All methods
// join the transaction carried by the context, if any.
type UserRepository interface {
	// Get retrieves a user by id, failing with a not-found error if absent.
	Get(ctx context.Context, id UserID) (*User, error)

	// Find retrieves a user by id, returning nil if absent.
	Find(ctx context.Context, id UserID) (*User, error)

	// FindByName retrieves a user by name, returning nil if absent.
	FindByName(ctx context.Context, name string) (*User, error)

	// GetAll retrieves all users.
	GetAll(ctx context.Context) ([]*User, error)

	// Insert persists a new user and returns it with its assigned id.
	Insert(ctx context.Context, name, passwordHash string, role Role) (*User, error)
}
