package ports

import (
	"context"

	"github.com/portal/user-accounts/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
// Implementations must enforce username and email uniqueness at the storage
// boundary and report violations as domain.ErrConflict.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Save inserts the user when ID is empty (assigning a new ID) and
	// updates the stored record otherwise.
	Save(ctx context.Context, user *domain.User) error
	// List returns every user ordered by username.
	List(ctx context.Context) ([]*domain.User, error)
}
