package store

import (
	"context"
	"errors"

	"nirvana-heritage/internal/models"
)

// ErrAlreadyAdmin means the target user already holds the admin flag.
var ErrAlreadyAdmin = errors.New("user is already an admin")

// PromoteByEmail grants the admin flag to the user with the given email.
// This is the bootstrap path for a fresh deployment, where no admin exists
// yet to use the console. Returns the promoted user.
func PromoteByEmail(ctx context.Context, users UserDirectory, email string) (*models.User, error) {
	user, err := users.ByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user.IsAdmin {
		return user, ErrAlreadyAdmin
	}
	if err := users.SetAdmin(ctx, user.ID, true); err != nil {
		return nil, err
	}
	user.IsAdmin = true
	return user, nil
}
