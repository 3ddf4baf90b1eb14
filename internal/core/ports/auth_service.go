package ports

import (
	"context"

	"github.com/praaneshanandan/Investment-Approval/internal/core/domain"
)

// RegisterInput carries the self-service registration fields. New accounts
// always start with the REGULAR role; roles are granted later by an admin.
type RegisterInput struct {
	Username    string
	Password    string
	FirstName   string
	LastName    string
	Designation string
	PhoneNumber string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
}
