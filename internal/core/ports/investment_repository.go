package ports

import (
	"context"
	"time"

	"github.com/praaneshanandan/Investment-Approval/internal/core/domain"
)

// StatusTransition carries all fields a transition writes together:
// the new status, the moderator, and the moderation timestamp.
type StatusTransition struct {
	From          domain.Status
	To            domain.Status
	ModeratorID   string
	ModeratorName string
	ModeratedAt   time.Time
}

// InvestmentRepository defines persistence operations for investment requests.
type InvestmentRepository interface {
	Create(ctx context.Context, req *domain.InvestmentRequest) error
	FindByID(ctx context.Context, id string) (*domain.InvestmentRequest, error)
	FindByOwnerID(ctx context.Context, ownerID string) ([]*domain.InvestmentRequest, error)
	// FindByOwnerIDs returns requests owned by any of the given users.
	FindByOwnerIDs(ctx context.Context, ownerIDs []string) ([]*domain.InvestmentRequest, error)
	FindByStatus(ctx context.Context, status domain.Status) ([]*domain.InvestmentRequest, error)
	FindAll(ctx context.Context) ([]*domain.InvestmentRequest, error)
	// UpdateStatus applies t as a compare-and-set on t.From. When the stored
	// status no longer matches, it returns domain.ErrConflict (or
	// domain.ErrRequestNotFound if the record is gone) and writes nothing.
	UpdateStatus(ctx context.Context, id string, t StatusTransition) (*domain.InvestmentRequest, error)
}
