package auth

import (
	"context"
	"errors"
)

// Store failure sentinels. The service maps these onto client-facing
// errors; anything else wraps to a database error.
var (
	ErrUserNotFound   = errors.New("auth: user not found")
	ErrDuplicateEmail = errors.New("auth: email already registered")
)

// Store is the persistence contract for user accounts. Implementations
// must be safe for concurrent use.
type Store interface {
	// FindByEmail returns the user with the given email or ErrUserNotFound.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindByID returns the user with the given ID or ErrUserNotFound.
	FindByID(ctx context.Context, id string) (*User, error)

	// Create persists a new user. Returns ErrDuplicateEmail if the email
	// is taken.
	Create(ctx context.Context, user *User) error

	// Update persists changes to an existing user.
	Update(ctx context.Context, user *User) error
}
