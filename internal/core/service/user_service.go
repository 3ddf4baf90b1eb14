package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/praaneshanandan/Investment-Approval/internal/core/domain"
	"github.com/praaneshanandan/Investment-Approval/internal/core/ports"
)

// managerChainLimit caps the cycle walk in SetManager so a corrupted
// hierarchy cannot loop the check forever.
const managerChainLimit = 64

// UserService implements hierarchy administration: role reassignment and
// manager assignment, plus the user read side.
type UserService struct {
	users  ports.UserRepository
	logger zerolog.Logger
}

func NewUserService(users ports.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

// SetRole replaces the target's role set with the single named role.
// Admins cannot change their own role, and an admin cannot be demoted here.
func (s *UserService) SetRole(ctx context.Context, actor string, targetID string, roleName string) (*domain.User, error) {
	admin, err := s.users.FindByUsername(ctx, actor)
	if err != nil {
		return nil, err
	}
	if !admin.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	role, err := domain.ParseRole(roleName)
	if err != nil {
		return nil, err
	}

	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if target.ID == admin.ID {
		return nil, domain.ErrForbidden
	}
	if target.IsAdmin() && role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}

	if err := s.users.UpdateRoles(ctx, target.ID, []domain.Role{role}); err != nil {
		return nil, err
	}
	target.Roles = []domain.Role{role}

	s.logger.Info().
		Str("admin", admin.Username).
		Str("target", target.Username).
		Str("role", string(role)).
		Msg("user role updated")

	return target, nil
}

// SetManager assigns managerID as the target's manager, or clears the
// reference when managerID is empty. Only regular employees may be assigned
// a manager, and the manager must hold the MANAGER role. Assignments that
// would make a user (transitively) their own manager are rejected.
func (s *UserService) SetManager(ctx context.Context, actor string, targetID string, managerID string) (*domain.User, error) {
	admin, err := s.users.FindByUsername(ctx, actor)
	if err != nil {
		return nil, err
	}
	if !admin.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if !target.HasRole(domain.RoleRegular) {
		return nil, domain.ErrForbidden
	}

	if managerID != "" {
		manager, err := s.users.FindByID(ctx, managerID)
		if err != nil {
			return nil, err
		}
		if !manager.HasRole(domain.RoleManager) {
			return nil, domain.ErrForbidden
		}
		if err := s.checkNoCycle(ctx, target.ID, manager); err != nil {
			return nil, err
		}
	}

	if err := s.users.UpdateManager(ctx, target.ID, managerID); err != nil {
		return nil, err
	}
	target.ManagerID = managerID

	s.logger.Info().
		Str("admin", admin.Username).
		Str("target", target.Username).
		Str("manager_id", managerID).
		Msg("manager assigned")

	return target, nil
}

// checkNoCycle walks the manager chain upward from the proposed manager and
// fails if it reaches the target, which would make the relation cyclic.
func (s *UserService) checkNoCycle(ctx context.Context, targetID string, manager *domain.User) error {
	current := manager
	for i := 0; i < managerChainLimit; i++ {
		if current.ID == targetID {
			return domain.ErrInvalidManager
		}
		if current.ManagerID == "" {
			return nil
		}
		next, err := s.users.FindByID(ctx, current.ManagerID)
		if err != nil {
			// A dangling reference cannot form a cycle.
			return nil
		}
		current = next
	}
	return domain.ErrInvalidManager
}

// ListUsers returns all users for admins and the caller's direct
// subordinates for managers.
func (s *UserService) ListUsers(ctx context.Context, actor string) ([]*domain.User, error) {
	caller, err := s.users.FindByUsername(ctx, actor)
	if err != nil {
		return nil, err
	}
	if caller.IsAdmin() {
		return s.users.FindAll(ctx)
	}
	if caller.IsManager() {
		return s.users.FindByManagerID(ctx, caller.ID)
	}
	return nil, domain.ErrForbidden
}

// Subordinates returns the caller's direct reports.
func (s *UserService) Subordinates(ctx context.Context, actor string) ([]*domain.User, error) {
	caller, err := s.users.FindByUsername(ctx, actor)
	if err != nil {
		return nil, err
	}
	if !caller.IsManager() {
		return nil, domain.ErrForbidden
	}
	return s.users.FindByManagerID(ctx, caller.ID)
}

func (s *UserService) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}
