package domain

import (
	"errors"
	"time"
)

// Status represents the lifecycle state of an investment request.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusEscalated Status = "ESCALATED"
)

var ErrRequestNotFound = errors.New("investment request not found")
var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrForbidden = errors.New("access forbidden")

// ErrConflict signals that a concurrent transition won the race: the
// request's status no longer matches the one the guard was checked against.
var ErrConflict = errors.New("request status changed concurrently")

var ErrInvalidManager = errors.New("invalid manager assignment")

// InvestmentRequest is the core aggregate root. Owner fields are immutable
// after creation; moderator fields and ModeratedAt are set together with
// every status transition and are unset only while the status is PENDING.
type InvestmentRequest struct {
	ID            string     `json:"id" bson:"_id"`
	Title         string     `json:"title" bson:"title"`
	Description   string     `json:"description" bson:"description"`
	Amount        float64    `json:"amount" bson:"amount"`
	Status        Status     `json:"status" bson:"status"`
	OwnerID       string     `json:"owner_id" bson:"owner_id"`
	OwnerUsername string     `json:"owner_username" bson:"owner_username"`
	ModeratorID   string     `json:"moderator_id,omitempty" bson:"moderator_id,omitempty"`
	ModeratorName string     `json:"moderator_name,omitempty" bson:"moderator_name,omitempty"`
	CreatedAt     time.Time  `json:"created_at" bson:"created_at"`
	ModeratedAt   *time.Time `json:"moderated_at,omitempty" bson:"moderated_at,omitempty"`
}

// CanModerate reports whether actor may approve or reject a request in the
// given status whose owner is owner. Admins decide escalated requests only;
// managers decide pending requests from their direct subordinates only.
// There is no rule allowing anyone to touch an already-decided request.
func CanModerate(actor, owner *User, status Status) bool {
	if actor.IsAdmin() && status == StatusEscalated {
		return true
	}
	return actor.IsManager() && status == StatusPending && actor.IsDirectManagerOf(owner)
}

// CanEscalate reports whether actor may route a request to admin review.
// Escalation is single-shot: the request must still be pending.
func CanEscalate(actor, owner *User, status Status) bool {
	return actor.IsManager() && status == StatusPending && actor.IsDirectManagerOf(owner)
}
