package ports

import (
	"context"

	"github.com/praaneshanandan/Investment-Approval/internal/core/domain"
)

// SubmitInput carries all data needed to create a new investment request.
type SubmitInput struct {
	Title       string
	Description string
	Amount      float64
	// IdempotencyKey, when non-empty, makes a retried submit return the
	// previously created request instead of a duplicate.
	IdempotencyKey string
}

// SubmitResult is returned by Submit.
type SubmitResult struct {
	Request *domain.InvestmentRequest
	// AlreadyExisted is true when the Idempotency-Key matched an earlier submit.
	AlreadyExisted bool
}

// InvestmentService defines the workflow engine use cases. Every method takes
// the caller's authenticated username as the actor; the service resolves the
// actor record and fails with domain.ErrUserNotFound when it cannot.
type InvestmentService interface {
	Submit(ctx context.Context, actor string, input SubmitInput) (*SubmitResult, error)
	Approve(ctx context.Context, actor string, requestID string) (*domain.InvestmentRequest, error)
	Reject(ctx context.Context, actor string, requestID string) (*domain.InvestmentRequest, error)
	Escalate(ctx context.Context, actor string, requestID string) (*domain.InvestmentRequest, error)
	ListOwn(ctx context.Context, actor string) ([]*domain.InvestmentRequest, error)
	ListManaged(ctx context.Context, actor string) ([]*domain.InvestmentRequest, error)
	ListEscalated(ctx context.Context, actor string) ([]*domain.InvestmentRequest, error)
	ListAll(ctx context.Context, actor string) ([]*domain.InvestmentRequest, error)
}
