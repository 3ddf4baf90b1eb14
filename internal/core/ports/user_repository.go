package ports

import (
	"context"

	"github.com/praaneshanandan/Investment-Approval/internal/core/domain"
)

// UserRepository defines persistence operations for users and the
// manager hierarchy.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	FindAll(ctx context.Context) ([]*domain.User, error)
	// FindByManagerID returns the direct subordinates of the given manager.
	FindByManagerID(ctx context.Context, managerID string) ([]*domain.User, error)
	// UpdateRoles replaces the user's role set.
	UpdateRoles(ctx context.Context, userID string, roles []domain.Role) error
	// UpdateManager sets or clears (empty managerID) the user's manager reference.
	UpdateManager(ctx context.Context, userID string, managerID string) error
}
