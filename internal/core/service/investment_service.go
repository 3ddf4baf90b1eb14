package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/praaneshanandan/Investment-Approval/internal/core/domain"
	"github.com/praaneshanandan/Investment-Approval/internal/core/ports"
)

// IdempotencyStore abstracts the submit replay cache (Redis). Lookup returns
// the request id previously stored for the key, or "" on a miss.
type IdempotencyStore interface {
	Lookup(ctx context.Context, actorID, key string) (string, error)
	Remember(ctx context.Context, actorID, key, requestID string) error
}

// InvestmentService orchestrates the request lifecycle: creation, the
// approve/reject/escalate transitions, and the four read-side views. All
// authorization decisions go through the domain predicates; the repository
// enforces transition atomicity with a compare-and-set on the prior status.
type InvestmentService struct {
	requests ports.InvestmentRepository
	users    ports.UserRepository
	idem     IdempotencyStore
	logger   zerolog.Logger
}

func NewInvestmentService(
	requests ports.InvestmentRepository,
	users ports.UserRepository,
	idem IdempotencyStore,
	logger zerolog.Logger,
) *InvestmentService {
	return &InvestmentService{requests: requests, users: users, idem: idem, logger: logger}
}

// Submit creates a new request owned by the actor, in PENDING status. Open to
// every role. If an idempotency key is provided and already seen for this
// actor, the previously created request is returned without side effects.
func (s *InvestmentService) Submit(ctx context.Context, actor string, input ports.SubmitInput) (*ports.SubmitResult, error) {
	owner, err := s.users.FindByUsername(ctx, actor)
	if err != nil {
		return nil, err
	}

	if input.IdempotencyKey != "" && s.idem != nil {
		id, lookupErr := s.idem.Lookup(ctx, owner.ID, input.IdempotencyKey)
		if lookupErr != nil {
			s.logger.Warn().Err(lookupErr).Str("username", actor).Msg("idempotency lookup failed, submitting anyway")
		} else if id != "" {
			existing, findErr := s.requests.FindByID(ctx, id)
			if findErr == nil {
				s.logger.Info().Str("idempotency_key", input.IdempotencyKey).Str("request_id", id).Msg("idempotent replay")
				return &ports.SubmitResult{Request: existing, AlreadyExisted: true}, nil
			}
		}
	}

	req := &domain.InvestmentRequest{
		ID:            uuid.NewString(),
		Title:         input.Title,
		Description:   input.Description,
		Amount:        input.Amount,
		Status:        domain.StatusPending,
		OwnerID:       owner.ID,
		OwnerUsername: owner.Username,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.requests.Create(ctx, req); err != nil {
		s.logger.Error().Err(err).Str("username", actor).Msg("failed to create investment request")
		return nil, err
	}

	if input.IdempotencyKey != "" && s.idem != nil {
		if rememberErr := s.idem.Remember(ctx, owner.ID, input.IdempotencyKey, req.ID); rememberErr != nil {
			s.logger.Warn().Err(rememberErr).Str("request_id", req.ID).Msg("failed to store idempotency key")
		}
	}

	s.logger.Info().
		Str("request_id", req.ID).
		Str("owner", owner.Username).
		Float64("amount", req.Amount).
		Msg("investment request submitted")

	return &ports.SubmitResult{Request: req}, nil
}

// Approve decides a request positively. Permitted for an admin on an
// escalated request, or for the owner's direct manager on a pending one.
func (s *InvestmentService) Approve(ctx context.Context, actor string, requestID string) (*domain.InvestmentRequest, error) {
	return s.moderate(ctx, actor, requestID, domain.StatusApproved)
}

// Reject decides a request negatively, under the same guard as Approve.
func (s *InvestmentService) Reject(ctx context.Context, actor string, requestID string) (*domain.InvestmentRequest, error) {
	return s.moderate(ctx, actor, requestID, domain.StatusRejected)
}

func (s *InvestmentService) moderate(ctx context.Context, actor string, requestID string, outcome domain.Status) (*domain.InvestmentRequest, error) {
	moderator, err := s.users.FindByUsername(ctx, actor)
	if err != nil {
		return nil, err
	}

	req, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	owner, err := s.users.FindByID(ctx, req.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("resolve owner: %w", err)
	}

	if !domain.CanModerate(moderator, owner, req.Status) {
		return nil, domain.ErrForbidden
	}

	updated, err := s.requests.UpdateStatus(ctx, req.ID, ports.StatusTransition{
		From:          req.Status,
		To:            outcome,
		ModeratorID:   moderator.ID,
		ModeratorName: moderator.Username,
		ModeratedAt:   time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("request_id", req.ID).
		Str("moderator", moderator.Username).
		Str("status", string(outcome)).
		Msg("investment request decided")

	return updated, nil
}

// Escalate routes a pending request to admin review. Only the owner's direct
// manager may escalate, and only once: the guard requires PENDING, so a
// second escalation fails.
func (s *InvestmentService) Escalate(ctx context.Context, actor string, requestID string) (*domain.InvestmentRequest, error) {
	moderator, err := s.users.FindByUsername(ctx, actor)
	if err != nil {
		return nil, err
	}

	req, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	owner, err := s.users.FindByID(ctx, req.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("resolve owner: %w", err)
	}

	if !domain.CanEscalate(moderator, owner, req.Status) {
		return nil, domain.ErrForbidden
	}

	// The escalating manager is recorded as moderator: the field tracks who
	// last touched the record, not only terminal decisions.
	updated, err := s.requests.UpdateStatus(ctx, req.ID, ports.StatusTransition{
		From:          req.Status,
		To:            domain.StatusEscalated,
		ModeratorID:   moderator.ID,
		ModeratorName: moderator.Username,
		ModeratedAt:   time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("request_id", req.ID).
		Str("manager", moderator.Username).
		Msg("investment request escalated")

	return updated, nil
}

// ListOwn returns every request owned by the actor, any status.
func (s *InvestmentService) ListOwn(ctx context.Context, actor string) ([]*domain.InvestmentRequest, error) {
	caller, err := s.users.FindByUsername(ctx, actor)
	if err != nil {
		return nil, err
	}
	return s.requests.FindByOwnerID(ctx, caller.ID)
}

// ListManaged returns every request owned by the actor's direct subordinates.
func (s *InvestmentService) ListManaged(ctx context.Context, actor string) ([]*domain.InvestmentRequest, error) {
	caller, err := s.users.FindByUsername(ctx, actor)
	if err != nil {
		return nil, err
	}
	if !caller.IsManager() && !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	subordinates, err := s.users.FindByManagerID(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	if len(subordinates) == 0 {
		return []*domain.InvestmentRequest{}, nil
	}

	ids := make([]string, 0, len(subordinates))
	for _, sub := range subordinates {
		ids = append(ids, sub.ID)
	}
	return s.requests.FindByOwnerIDs(ctx, ids)
}

// ListEscalated returns every escalated request across the store. Admin only.
func (s *InvestmentService) ListEscalated(ctx context.Context, actor string) ([]*domain.InvestmentRequest, error) {
	caller, err := s.users.FindByUsername(ctx, actor)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return s.requests.FindByStatus(ctx, domain.StatusEscalated)
}

// ListAll returns every request, any owner, any status. Admin only.
func (s *InvestmentService) ListAll(ctx context.Context, actor string) ([]*domain.InvestmentRequest, error) {
	caller, err := s.users.FindByUsername(ctx, actor)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return s.requests.FindAll(ctx)
}
