package ports

import (
	"context"

	"github.com/praaneshanandan/Investment-Approval/internal/core/domain"
)

// UserService defines hierarchy administration and the user read side.
// As with InvestmentService, actor is the caller's authenticated username.
type UserService interface {
	// SetRole replaces the target's role set with the single named role.
	// Admin only; admins cannot retarget themselves or demote another admin.
	SetRole(ctx context.Context, actor string, targetID string, roleName string) (*domain.User, error)
	// SetManager assigns (or clears, when managerID is empty) the target's
	// manager. Admin only; the target must hold REGULAR and a non-empty
	// manager must hold MANAGER.
	SetManager(ctx context.Context, actor string, targetID string, managerID string) (*domain.User, error)
	// ListUsers returns every user for admins and the caller's direct
	// subordinates for managers.
	ListUsers(ctx context.Context, actor string) ([]*domain.User, error)
	Subordinates(ctx context.Context, actor string) ([]*domain.User, error)
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
}
