package store

import (
	"context"
	"errors"

	"nirvana-heritage/internal/models"
)

var (
	// ErrDuplicateIdentity means the username or email is already taken.
	// One error covers either clash; callers surface a single generic message.
	ErrDuplicateIdentity = errors.New("username or email already exists")

	// ErrNotFound means no user record matches the given key.
	ErrNotFound = errors.New("user not found")
)

// UserDirectory is the CRUD boundary around user records. Implementations:
// a gorm/SQLite table or a DynamoDB item store, selected by configuration.
type UserDirectory interface {
	Create(ctx context.Context, user *models.User) error
	ByID(ctx context.Context, id string) (*models.User, error)
	ByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	SetAdmin(ctx context.Context, id string, isAdmin bool) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	Delete(ctx context.Context, id string) error
}

// AdminLog is the append-only audit trail of admin console actions.
type AdminLog interface {
	Append(ctx context.Context, message string) error
	Recent(ctx context.Context, limit int) ([]models.AdminLogEntry, error)
}
