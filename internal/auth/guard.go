package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/mahib2121/BoiGhor-Server/internal/books"
	"github.com/mahib2121/BoiGhor-Server/internal/users"
)

var (
	// ErrForbidden indicates the actor has no standing for the operation at
	// all (no user record, or self-registration for someone else's email).
	ErrForbidden = errors.New("forbidden")
	// ErrUnauthorized indicates the actor exists but lacks the required role
	// or ownership.
	ErrUnauthorized = errors.New("unauthorized")
)

// UserDirectory is the slice of the users store the guard needs.
type UserDirectory interface {
	GetByEmail(ctx context.Context, email string) (*users.User, error)
}

// Guard maps a verified identity to a role and enforces role/ownership rules
// for mutating operations.
type Guard struct {
	users UserDirectory
}

// NewGuard returns a Guard backed by the given user directory.
func NewGuard(dir UserDirectory) *Guard {
	return &Guard{users: dir}
}

// Actor resolves the identity's user record. An identity with no record is
// rejected with ErrForbidden before the target resource is even looked up.
func (g *Guard) Actor(ctx context.Context, email string) (*users.User, error) {
	u, err := g.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("resolve actor: %w", err)
	}
	if u == nil {
		return nil, ErrForbidden
	}
	return u, nil
}

// CanMutateBook permits admins, and the actor named by the book's
// librarianEmail. Ownership alone is enough: the owner keeps mutation rights
// even if their role was later downgraded.
func (g *Guard) CanMutateBook(actor *users.User, b *books.Book) error {
	if actor.Role == users.RoleAdmin {
		return nil
	}
	if actor.Email == b.LibrarianEmail {
		return nil
	}
	return ErrUnauthorized
}

// RequireAdmin permits only admin actors.
func (g *Guard) RequireAdmin(actor *users.User) error {
	if actor.Role != users.RoleAdmin {
		return ErrForbidden
	}
	return nil
}
