package handler

import "time"

// errorResponse documents the error envelope rendered by the central
// HTTP error handler.
type errorResponse struct {
	Error string `json:"error"`
}

// submitRequest is the payload for POST /v1/investments.
type submitRequest struct {
	Title       string  `json:"title"       validate:"required,min=3"`
	Description string  `json:"description" validate:"required"`
	Amount      float64 `json:"amount"      validate:"required,gt=0"`
}

// investmentResponse is the wire view of an investment request.
type investmentResponse struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Amount        float64    `json:"amount"`
	Status        string     `json:"status"`
	OwnerID       string     `json:"owner_id"`
	OwnerUsername string     `json:"owner_username"`
	ModeratorID   string     `json:"moderator_id,omitempty"`
	ModeratorName string     `json:"moderator_name,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	ModeratedAt   *time.Time `json:"moderated_at,omitempty"`
}
