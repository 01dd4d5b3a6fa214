package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the data access contract for users. Backed by Postgres in
// production and by an in-memory store in tests.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
}
