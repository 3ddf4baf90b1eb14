package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/praaneshanandan/Investment-Approval/internal/api/metrics"
	"github.com/praaneshanandan/Investment-Approval/internal/core/domain"
	"github.com/praaneshanandan/Investment-Approval/internal/core/ports"
)

// InvestmentHandler handles HTTP requests for the investment workflow.
type InvestmentHandler struct {
	service ports.InvestmentService
}

func NewInvestmentHandler(service ports.InvestmentService) *InvestmentHandler {
	return &InvestmentHandler{service: service}
}

// Submit handles POST /v1/investments.
//
// @Summary      Submit a new investment request
// @Tags         investments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string         false  "Idempotency key to prevent duplicate submissions"
// @Param        body             body      submitRequest  true   "Request details"
// @Success      201              {object}  investmentResponse
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Router       /v1/investments [post]
func (h *InvestmentHandler) Submit(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}

	var req submitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.Submit(c.Request().Context(), username, ports.SubmitInput{
		Title:          req.Title,
		Description:    req.Description,
		Amount:         req.Amount,
		IdempotencyKey: c.Request().Header.Get("Idempotency-Key"),
	})
	if err != nil {
		return err
	}

	if result.AlreadyExisted {
		metrics.IdempotentReplaysTotal.Inc()
	} else {
		metrics.RequestsSubmittedTotal.Inc()
	}

	return c.JSON(http.StatusCreated, toInvestmentResponse(result.Request))
}

// Approve handles PUT /v1/investments/:id/approve.
//
// @Summary      Approve an investment request
// @Tags         investments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Request id"
// @Success      200  {object}  investmentResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /v1/investments/{id}/approve [put]
func (h *InvestmentHandler) Approve(c echo.Context) error {
	return h.transition(c, h.service.Approve)
}

// Reject handles PUT /v1/investments/:id/reject.
//
// @Summary      Reject an investment request
// @Tags         investments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Request id"
// @Success      200  {object}  investmentResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /v1/investments/{id}/reject [put]
func (h *InvestmentHandler) Reject(c echo.Context) error {
	return h.transition(c, h.service.Reject)
}

// Escalate handles PUT /v1/investments/:id/escalate.
//
// @Summary      Escalate an investment request to admin review
// @Tags         investments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Request id"
// @Success      200  {object}  investmentResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /v1/investments/{id}/escalate [put]
func (h *InvestmentHandler) Escalate(c echo.Context) error {
	return h.transition(c, h.service.Escalate)
}

func (h *InvestmentHandler) transition(
	c echo.Context,
	op func(ctx context.Context, actor, requestID string) (*domain.InvestmentRequest, error),
) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}

	updated, err := op(c.Request().Context(), username, c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			metrics.TransitionConflictsTotal.Inc()
		}
		return err
	}

	metrics.DecisionsTotal.WithLabelValues(string(updated.Status)).Inc()
	return c.JSON(http.StatusOK, toInvestmentResponse(updated))
}

// ListOwn handles GET /v1/investments/my-requests.
//
// @Summary      List the caller's own investment requests
// @Tags         investments
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   investmentResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/investments/my-requests [get]
func (h *InvestmentHandler) ListOwn(c echo.Context) error {
	return h.list(c, h.service.ListOwn)
}

// ListManaged handles GET /v1/investments/managed-requests.
//
// @Summary      List requests owned by the caller's direct subordinates
// @Tags         investments
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   investmentResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/investments/managed-requests [get]
func (h *InvestmentHandler) ListManaged(c echo.Context) error {
	return h.list(c, h.service.ListManaged)
}

// ListEscalated handles GET /v1/investments/escalated-requests.
//
// @Summary      List all escalated requests
// @Tags         investments
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   investmentResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/investments/escalated-requests [get]
func (h *InvestmentHandler) ListEscalated(c echo.Context) error {
	return h.list(c, h.service.ListEscalated)
}

// ListAll handles GET /v1/investments/all.
//
// @Summary      List every investment request
// @Tags         investments
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   investmentResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/investments/all [get]
func (h *InvestmentHandler) ListAll(c echo.Context) error {
	return h.list(c, h.service.ListAll)
}

func (h *InvestmentHandler) list(
	c echo.Context,
	op func(ctx context.Context, actor string) ([]*domain.InvestmentRequest, error),
) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}

	requests, err := op(c.Request().Context(), username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toInvestmentResponses(requests))
}
